// Package entsoe collects production, load, exchange and price series from
// the ENTSO-E transparency platform. Documents are extracted into per
// timestamp series, grouped into canonical categories and validated per zone
// before records are emitted.
package entsoe

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/aggregate"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/series"
	"github.com/kilianp07/gridfeed/core/transport"
	"github.com/kilianp07/gridfeed/core/validation"
)

const (
	parserName = "ENTSOE"
	// Source is the label of every emitted record.
	Source = "entsoe.eu"

	DefaultEndpoint = "https://transparency.entsoe.eu/api"
	DefaultTokenEnv = "ENTSOE_TOKEN"
)

// productionGroups folds psrType codes into canonical categories.
var productionGroups = series.Groups{
	model.Biomass:    {"B01", "B17"},
	model.Coal:       {"B02", "B05", "B07", "B08"},
	model.Gas:        {"B03", "B04"},
	model.Geothermal: {"B09"},
	model.Hydro:      {"B11", "B12"},
	model.Nuclear:    {"B14"},
	model.Oil:        {"B06"},
	model.Solar:      {"B16"},
	model.Wind:       {"B18", "B19"},
	model.Unknown:    {"B20", "B13", "B15"},
}

// storageGroups holds pumped storage, reported as net generation and
// negated into the storage mix.
var storageGroups = series.Groups{
	model.Hydro: {"B10"},
}

// HydroStorage is the production type of pumped storage units.
const HydroStorage model.Category = "hydro storage"

// psrTypes lists every generation code in ascending order.
var psrTypes = []series.Code{
	"B01", "B02", "B03", "B04", "B05", "B06", "B07", "B08", "B09", "B10",
	"B11", "B12", "B13", "B14", "B15", "B16", "B17", "B18", "B19", "B20",
}

// aggregates lists the zones whose production is the sum of several zones.
var aggregates = map[model.ZoneKey][]model.ZoneKey{
	"IT-SO": {"IT-RO", "IT-SO"},
}

// Config locates the API.
type Config struct {
	Endpoint string
	// TokenEnv names the environment variable read for the security token.
	TokenEnv string
}

// Client queries the transparency platform.
type Client struct {
	endpoint string
	tokenEnv string
	session  transport.Session
}

// New returns a Client using session unless a call injects another one.
func New(cfg Config, session transport.Session) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = DefaultTokenEnv
	}
	return &Client{endpoint: cfg.Endpoint, tokenEnv: cfg.TokenEnv, session: session}
}

func (c *Client) options(opts []connectors.Option) (connectors.Options, error) {
	return connectors.NewOptions(c.session, opts...)
}

func formatErr(zone string, err error) error {
	return model.NewFormatError(parserName, zone, err)
}

// FetchProduction returns the realised production mix of zone over the two
// days preceding the reference time, validated with the zone's rules.
func (c *Client) FetchProduction(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ProductionRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	domain, err := domainFor(zone)
	if err != nil {
		return nil, err
	}
	body, err := c.query(ctx, o, string(zone), productionQuery(domain))
	if err != nil || body == nil {
		return nil, err
	}
	set, err := parseProduction(body)
	if err != nil {
		return nil, formatErr(string(zone), err)
	}
	recs := make([]model.ProductionRecord, 0, set.Len())
	for _, t := range set.Times() {
		rec := productionRecord(zone, t, set.Codes(t))
		validation.ClampNegativeNoise(&rec, validation.NegativeNoiseBand, o.Logger)
		recs = append(recs, rec)
	}
	return validation.Filter(recs, RulesFor, o.Logger), nil
}

func productionRecord(zone model.ZoneKey, t time.Time, codes map[series.Code]float64) model.ProductionRecord {
	rec := model.NewProductionRecord(zone, t, Source)
	for cat, v := range productionGroups.Apply(codes) {
		rec.Production[cat] = v
	}
	for cat, v := range storageGroups.Apply(codes) {
		rec.Storage[cat] = v.Scale(-1)
	}
	return rec
}

// FetchProductionAggregate returns the production of a virtual zone as the
// sum of its member zones. Timestamps missing from any member are dropped.
func (c *Client) FetchProductionAggregate(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ProductionRecord, error) {
	members, ok := aggregates[zone]
	if !ok {
		return nil, model.NewConfigError(parserName, string(zone), model.ErrUnknownZone, "unknown aggregate key")
	}
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	outputs := make([][]model.ProductionRecord, 0, len(members))
	for _, m := range members {
		recs, err := c.FetchProduction(ctx, m, opts...)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, recs)
	}
	return aggregate.MergeProduction(outputs, zone, Source, o.Logger), nil
}

// FetchProductionPerUnits returns the output of the units of zone, queried
// per psrType at control area level. Units absent from the unit table are
// logged and skipped.
func (c *Client) FetchProductionPerUnits(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.UnitProductionRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	area, err := unitAreaFor(zone)
	if err != nil {
		return nil, err
	}
	var out []model.UnitProductionRecord
	for _, code := range psrTypes {
		body, err := c.query(ctx, o, string(zone), productionPerUnitsQuery(string(code), area))
		if err != nil {
			var upstream *model.UpstreamQueryError
			if errors.As(err, &upstream) {
				o.Logger.Debugw("skipping psr type", map[string]any{"zone": string(zone), "psrType": string(code), "error": err.Error()})
				continue
			}
			return nil, err
		}
		if body == nil {
			continue
		}
		points, err := parseProductionPerUnits(body)
		if err != nil {
			return nil, formatErr(string(zone), err)
		}
		for _, p := range points {
			unitZone, ok := unitsToZone[p.UnitName]
			if !ok {
				o.Logger.Warnw("unknown unit", map[string]any{"zone": string(zone), "unitName": p.UnitName, "unitKey": p.UnitKey})
				continue
			}
			if unitZone != zone {
				continue
			}
			out = append(out, model.UnitProductionRecord{
				ZoneKey:        zone,
				Datetime:       p.Time,
				Production:     p.Value,
				ProductionType: productionType(p.PsrType),
				UnitKey:        p.UnitKey,
				UnitName:       p.UnitName,
				Source:         Source,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func productionType(code series.Code) model.Category {
	if cat, ok := productionGroups.Lookup(code); ok {
		return cat
	}
	if _, ok := storageGroups.Lookup(code); ok {
		return HydroStorage
	}
	return model.Unknown
}

// FetchWindSolarForecasts returns the day-ahead wind and solar forecast.
// Other categories stay missing.
func (c *Client) FetchWindSolarForecasts(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ProductionRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	domain, err := domainFor(zone)
	if err != nil {
		return nil, err
	}
	body, err := c.query(ctx, o, string(zone), windSolarForecastQuery(domain))
	if err != nil || body == nil {
		return nil, err
	}
	set, err := parseProduction(body)
	if err != nil {
		return nil, formatErr(string(zone), err)
	}
	forecast := series.Groups{
		model.Solar: productionGroups[model.Solar],
		model.Wind:  productionGroups[model.Wind],
	}
	recs := make([]model.ProductionRecord, 0, set.Len())
	for _, t := range set.Times() {
		rec := model.NewProductionRecord(zone, t, Source)
		for cat, v := range forecast.Apply(set.Codes(t)) {
			rec.Production[cat] = v
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
