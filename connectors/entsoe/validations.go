package entsoe

import (
	"strings"

	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/validation"
)

func required(c ...model.Category) []model.Category { return c }

// validations lists the plausibility rules of zones whose feed is known to
// drop categories. Ranges count production and storage, not exchanges.
var validations = map[model.ZoneKey]validation.Rules{
	"AT": {Required: required(model.Hydro)},
	"BE": {
		Required:      required(model.Gas, model.Nuclear),
		ExpectedRange: validation.NewRange(3000, 25000),
	},
	"BG": {
		Required:      required(model.Coal, model.Nuclear, model.Hydro),
		ExpectedRange: validation.NewRange(2000, 20000),
	},
	// usual load is in the 7-12 GW range
	"CZ": {
		Required:      required(model.Coal, model.Nuclear),
		ExpectedRange: validation.NewRange(3000, 25000),
	},
	// Missing hydro or biomass usually means other categories are missing
	// too, and unknown has never been reported as zero.
	"DE": {
		Required: required(model.Coal, model.Gas, model.Nuclear, model.Wind,
			model.Biomass, model.Hydro, model.Unknown),
		ExpectedRange: validation.NewRange(20000, 100000),
	},
	"EE": {Required: required(model.Coal)},
	"ES": {
		Required:      required(model.Coal, model.Nuclear),
		ExpectedRange: validation.NewRange(10000, 80000),
	},
	"FI": {
		Required:      required(model.Coal, model.Nuclear, model.Hydro, model.Biomass),
		ExpectedRange: validation.NewRange(2000, 20000),
	},
	"GB": {
		Required:      required(model.Coal, model.Gas, model.Nuclear),
		ExpectedRange: validation.NewRange(10000, 80000),
	},
	"GR": {
		Required:      required(model.Coal, model.Gas),
		ExpectedRange: validation.NewRange(2000, 20000),
	},
	"HU": {Required: required(model.Coal, model.Nuclear)},
	"IE": {
		Required:      required(model.Coal),
		ExpectedRange: validation.NewRange(1000, 15000),
	},
	"IT": {
		Required:      required(model.Coal),
		ExpectedRange: validation.NewRange(5000, 50000),
	},
	"PL": {
		Required:      required(model.Coal),
		ExpectedRange: validation.NewRange(5000, 35000),
	},
	"PT": {
		Required:      required(model.Coal, model.Gas),
		ExpectedRange: validation.NewRange(1000, 20000),
	},
	"RO": {
		Required:      required(model.Coal, model.Nuclear, model.Hydro),
		ExpectedRange: validation.NewRange(2000, 25000),
	},
	"RS": {Required: required(model.Coal)},
	// own generation capacity is around 4 GW
	"SI": {
		Required:      required(model.Nuclear),
		ExpectedRange: validation.NewRange(1000, 5000),
	},
	"SK": {Required: required(model.Nuclear)},
}

// RulesFor returns the rules applied to production records of zone. Zones
// without rules are always valid.
func RulesFor(zone model.ZoneKey) validation.Rules {
	if r, ok := validations[zone]; ok {
		return r
	}
	switch {
	case strings.HasPrefix(string(zone), "DK-"):
		return validation.Rules{Required: required(model.Coal, model.Solar, model.Wind)}
	case strings.HasPrefix(string(zone), "NO-"):
		return validation.Rules{Required: required(model.Hydro)}
	}
	return validation.Rules{}
}
