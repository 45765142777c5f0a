// Package validation applies plausibility rules to production records.
// Rejections never raise: the validator reports pass or fail and logs the
// reason so that the filtering decision stays observable.
package validation

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
)

// Range is an inclusive [Low, High] interval.
type Range struct {
	Low  float64
	High float64
}

// NewRange orders its bounds so that Low <= High.
func NewRange(a, b float64) *Range {
	if b < a {
		a, b = b, a
	}
	return &Range{Low: a, High: b}
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return r.Low <= v && v <= r.High
}

// Rules describes the checks applied to one zone.
type Rules struct {
	// Required categories must be reported. A reported zero is fine.
	Required []model.Category
	// ExpectedRange bounds the production total minus storage.
	ExpectedRange *Range
	// KeyRanges bounds individual categories; every key is also required.
	KeyRanges map[model.Category]Range
	// Floor is the minimum plausible total.
	Floor *float64
	// RemoveNegative turns tiny negative values into missing ones.
	RemoveNegative bool
}

// IsZero reports whether no rule is configured.
func (r Rules) IsZero() bool {
	return len(r.Required) == 0 && r.ExpectedRange == nil && len(r.KeyRanges) == 0 &&
		r.Floor == nil && !r.RemoveNegative
}

// Floor is a convenience for building Rules literals.
func Floor(v float64) *float64 { return &v }

// removeNegativeBand is the magnitude under which negative values are
// considered noise by RemoveNegative.
const removeNegativeBand = 5.0

// Validate checks rec against rules. It returns the record, possibly with
// negative noise removed, and whether it is valid.
func Validate(rec model.ProductionRecord, rules Rules, log logger.Logger) (model.ProductionRecord, bool) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if rules.IsZero() {
		return rec, true
	}
	fields := map[string]any{"zone": string(rec.ZoneKey), "datetime": rec.Datetime}

	if rules.RemoveNegative {
		rec.Production = rec.Production.Clone()
		for _, k := range rec.Production.Keys() {
			v, ok := rec.Production[k].Get()
			if ok && -removeNegativeBand < v && v < 0 {
				log.Warnw(string(k)+" returned a small negative value, setting to missing", fields)
				rec.Production[k] = model.Missing
			}
		}
	}

	for _, c := range rules.Required {
		if !hasValue(rec, c, log, fields) {
			return rec, false
		}
	}

	total := Total(rec)
	if rules.Floor != nil && total < *rules.Floor {
		log.Warnw("reported total does not meet floor value", withTotal(fields, total, *rules.Floor))
		return rec, false
	}

	for c, r := range rules.KeyRanges {
		if !hasValue(rec, c, log, fields) {
			return rec, false
		}
		v, _ := rec.Production[c].Get()
		if !r.Contains(v) {
			log.Warnw("reported value for "+string(c)+" falls outside expected range", withRange(fields, v, r))
			return rec, false
		}
	}

	if rules.ExpectedRange != nil && !rules.ExpectedRange.Contains(total) {
		log.Warnw("reported total falls outside expected range", withRange(fields, total, *rules.ExpectedRange))
		return rec, false
	}
	return rec, true
}

// Filter validates every record and keeps the valid ones.
func Filter(recs []model.ProductionRecord, rulesFor func(model.ZoneKey) Rules, log logger.Logger) []model.ProductionRecord {
	out := make([]model.ProductionRecord, 0, len(recs))
	for _, r := range recs {
		if v, ok := Validate(r, rulesFor(r.ZoneKey), log); ok {
			out = append(out, v)
		}
	}
	return out
}

// Total is the sum of reported production minus reported storage. Storage
// is negative when it feeds the grid, so subtracting it adds that output.
func Total(rec model.ProductionRecord) float64 {
	return floats.Sum(rec.Production.Present()) - floats.Sum(rec.Storage.Present())
}

func hasValue(rec model.ProductionRecord, c model.Category, log logger.Logger, fields map[string]any) bool {
	if rec.Production[c].IsMissing() {
		log.Warnw("required generation type "+string(c)+" is missing", fields)
		return false
	}
	return true
}

func withTotal(fields map[string]any, total, floor float64) map[string]any {
	out := clone(fields)
	out["total"] = total
	out["floor"] = floor
	return out
}

func withRange(fields map[string]any, v float64, r Range) map[string]any {
	out := clone(fields)
	out["value"] = v
	out["low"] = r.Low
	out["high"] = r.High
	return out
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+3)
	for k, v := range m {
		out[k] = v
	}
	return out
}
