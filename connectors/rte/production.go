package rte

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/validation"
)

// ProductionSource labels eco2mix production records.
const ProductionSource = "opendata.reseaux-energies.fr"

const (
	eco2mixDataset = "eco2mix-national-tr"
	openDataLayout = "2006-01-02T15:04"
)

var generationColumns = map[string]model.Category{
	"nucleaire":   model.Nuclear,
	"charbon":     model.Coal,
	"gaz":         model.Gas,
	"fioul":       model.Oil,
	"eolien":      model.Wind,
	"solaire":     model.Solar,
	"bioenergies": model.Biomass,
}

const (
	hydroRunOfRiver = "hydraulique_fil_eau_eclusee"
	hydroLakes      = "hydraulique_lacs"
	hydroTurbining  = "hydraulique_step_turbinage"
	hydroPumping    = "pompage"
)

var expectedColumns = []string{
	"nucleaire", "charbon", "gaz", "fioul", "eolien", "solaire", "bioenergies",
	hydroRunOfRiver, hydroLakes, hydroTurbining, hydroPumping,
}

var productionRules = validation.Rules{Required: []model.Category{model.Nuclear, model.Hydro}}

// maxProductionDiffs bounds the change of a category between two
// consecutive quarter hours.
var maxProductionDiffs = map[model.Category]float64{
	model.Hydro:   1600,
	model.Solar:   500,
	model.Coal:    500,
	model.Wind:    1000,
	model.Nuclear: 1300,
}

type eco2mixResponse struct {
	Records []struct {
		Fields map[string]any `json:"fields"`
	} `json:"records"`
}

// FetchProduction returns the national production mix of the last day.
func (c *Client) FetchProduction(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ProductionRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	if zone != "FR" {
		return nil, model.NewConfigError(parserName, string(zone), model.ErrUnknownZone, "only FR is published by eco2mix")
	}
	key, ok := os.LookupEnv(c.cfg.APIKeyEnv)
	if !ok || key == "" {
		return nil, model.NewConfigError(parserName, string(zone), model.ErrAuth, "%s is not set", c.cfg.APIKeyEnv)
	}

	to := o.Reference().In(paris)
	from := to.AddDate(0, 0, -1)
	params := url.Values{}
	params.Set("dataset", eco2mixDataset)
	params.Set("q", "date_heure >= "+from.Format(openDataLayout)+" AND date_heure <= "+to.Format(openDataLayout))
	params.Set("timezone", "Europe/Paris")
	params.Set("rows", "100")
	params.Set("apikey", key)

	body, err := connectors.Get(ctx, o, parserName, string(zone), c.cfg.OpenDataEndpoint, params, nil)
	if err != nil {
		return nil, err
	}
	var res eco2mixResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}

	present := map[string]bool{}
	for _, r := range res.Records {
		for k := range r.Fields {
			present[k] = true
		}
	}
	var missing []string
	for _, col := range expectedColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) == len(expectedColumns) {
		o.Logger.Warnw("No fuels present in the API response", map[string]any{"zone": string(zone)})
		return nil, nil
	}
	if len(missing) > 0 {
		o.Logger.Warnw("Fuels not present in the API response", map[string]any{"zone": string(zone), "fuels": missing})
	}

	recs := make([]model.ProductionRecord, 0, len(res.Records))
	for _, r := range res.Records {
		raw, _ := r.Fields["date_heure"].(string)
		dt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, model.NewFormatError(parserName, string(zone), err)
		}
		rec := model.NewProductionRecord(zone, dt.UTC(), ProductionSource)
		for col, cat := range generationColumns {
			if present[col] {
				rec.Production[cat] = field(r.Fields, col)
			}
		}
		validation.ClampNegativeNoise(&rec, validation.NegativeNoiseBand, o.Logger)
		if present[hydroLakes] && present[hydroRunOfRiver] {
			rec.Production[model.Hydro] = both(field(r.Fields, hydroLakes), field(r.Fields, hydroRunOfRiver), 1)
		}
		if present[hydroPumping] && present[hydroTurbining] {
			rec.Storage[model.Hydro] = both(field(r.Fields, hydroPumping), field(r.Fields, hydroTurbining), -1)
		}
		if idle(rec.Production) {
			continue
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Datetime.Before(recs[j].Datetime) })

	recs = validation.Filter(recs, func(model.ZoneKey) validation.Rules { return productionRules }, o.Logger)
	return validation.FilterProductionDiffs(recs, maxProductionDiffs, o.Logger), nil
}

func field(fields map[string]any, key string) model.Value {
	if f, ok := fields[key].(float64); ok {
		return model.Some(f)
	}
	return model.Missing
}

// both sums a and b scaled by sign, and is missing when either one is.
func both(a, b model.Value, sign float64) model.Value {
	x, aok := a.Get()
	y, bok := b.Get()
	if !aok || !bok {
		return model.Missing
	}
	return model.Some(sign * (x + y))
}

// idle reports a row where no category reports a non zero value.
func idle(m model.Mix) bool {
	for _, v := range m {
		if x, ok := v.Get(); ok && x != 0 && !math.IsNaN(x) {
			return false
		}
	}
	return true
}
