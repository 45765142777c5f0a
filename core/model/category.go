package model

import "sort"

// Category is a canonical generation or storage bucket.
type Category string

const (
	Biomass    Category = "biomass"
	Coal       Category = "coal"
	Gas        Category = "gas"
	Geothermal Category = "geothermal"
	Hydro      Category = "hydro"
	Nuclear    Category = "nuclear"
	Oil        Category = "oil"
	Solar      Category = "solar"
	Wind       Category = "wind"
	Unknown    Category = "unknown"

	// Battery only appears in storage mixes.
	Battery Category = "battery"
)

// ProductionCategories are the keys of every production mix.
var ProductionCategories = []Category{
	Biomass, Coal, Gas, Geothermal, Hydro, Nuclear, Oil, Solar, Wind, Unknown,
}

// StorageCategories are the keys of every storage mix. Positive storage
// means energy is stored, negative means it is released to the grid.
var StorageCategories = []Category{Battery, Hydro}

// Mix maps categories to values. Mixes built with NewProductionMix or
// NewStorageMix always hold every key of their category set.
type Mix map[Category]Value

// NewProductionMix returns a production mix with every category missing.
func NewProductionMix() Mix { return newMix(ProductionCategories) }

// NewStorageMix returns a storage mix with every category missing.
func NewStorageMix() Mix { return newMix(StorageCategories) }

func newMix(keys []Category) Mix {
	m := make(Mix, len(keys))
	for _, k := range keys {
		m[k] = Missing
	}
	return m
}

// Clone returns a copy of the mix.
func (m Mix) Clone() Mix {
	c := make(Mix, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Present returns the reported values in key order.
func (m Mix) Present() []float64 {
	out := make([]float64, 0, len(m))
	for _, k := range m.Keys() {
		if v, ok := m[k].Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Keys returns the categories sorted alphabetically.
func (m Mix) Keys() []Category {
	keys := make([]Category, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// AllMissing reports whether no category carries a reported value.
func (m Mix) AllMissing() bool {
	for _, v := range m {
		if !v.IsMissing() {
			return false
		}
	}
	return true
}
