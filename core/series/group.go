package series

import "github.com/kilianp07/gridfeed/core/model"

// Groups maps each canonical category to the upstream codes summed into it.
type Groups map[model.Category][]Code

// Apply folds the per-code values of one timestamp into canonical
// categories. A category whose codes were all absent is Missing, which keeps
// "not reported" apart from a confirmed zero.
func (g Groups) Apply(values map[Code]float64) map[model.Category]model.Value {
	out := make(map[model.Category]model.Value, len(g))
	for cat, codes := range g {
		acc := model.Missing
		for _, c := range codes {
			if v, ok := values[c]; ok {
				acc = acc.Plus(model.Some(v))
			}
		}
		out[cat] = acc
	}
	return out
}

// Lookup returns the category a code belongs to.
func (g Groups) Lookup(code Code) (model.Category, bool) {
	for cat, codes := range g {
		for _, c := range codes {
			if c == code {
				return cat, true
			}
		}
	}
	return "", false
}
