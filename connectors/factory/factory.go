// Package factory resolves "Source.function" references from the zone
// configuration into collector functions.
package factory

import (
	"fmt"
	"sort"

	"github.com/kilianp07/gridfeed/auth"
	"github.com/kilianp07/gridfeed/config"
	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/connectors/cnd"
	"github.com/kilianp07/gridfeed/connectors/entsoe"
	"github.com/kilianp07/gridfeed/connectors/hops"
	"github.com/kilianp07/gridfeed/connectors/rte"
	"github.com/kilianp07/gridfeed/connectors/sev"
	"github.com/kilianp07/gridfeed/connectors/statnett"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/transport"
)

var (
	errUnknownRef    = "unknown parser reference: %s"
	errUnboundParser = "no %s parser configured for %s"
	errDuplicateRef  = "parser reference already registered: %s"
)

// Sources holds one client per upstream source.
type Sources struct {
	ENTSOE   *entsoe.Client
	RTE      *rte.Client
	Statnett *statnett.Client
	HOPS     *hops.Client
	SEV      *sev.Client
	CND      *cnd.Client
}

// NewSources builds every client from the application configuration. They
// share session.
func NewSources(cfg *config.Config, session transport.Session) *Sources {
	var headers rte.HeaderSource
	if cfg.RTE.OAuth.Enabled() {
		headers = auth.NewClientCred(cfg.RTE.OAuth)
	}
	return &Sources{
		ENTSOE: entsoe.New(entsoe.Config{Endpoint: cfg.ENTSOE.Endpoint, TokenEnv: cfg.ENTSOE.TokenEnv}, session),
		RTE: rte.New(rte.Config{
			OpenDataEndpoint:  cfg.RTE.OpenDataEndpoint,
			Eco2mixEndpoint:   cfg.RTE.Eco2mixEndpoint,
			WholesaleEndpoint: cfg.RTE.WholesaleEndpoint,
			APIKeyEnv:         cfg.RTE.APIKeyEnv,
		}, session, headers),
		Statnett: statnett.New(cfg.Sources.Statnett, session),
		HOPS:     hops.New(cfg.Sources.HOPS, session),
		SEV:      sev.New(cfg.Sources.SEV, session),
		CND:      cnd.New(cfg.Sources.CND, session),
	}
}

// Functions lists every collector function by reference.
func (s *Sources) Functions() map[string]connectors.Func {
	return map[string]connectors.Func{
		"ENTSOE.fetch_production":           connectors.ForZone[model.ProductionRecord](s.ENTSOE.FetchProduction),
		"ENTSOE.fetch_production_aggregate": connectors.ForZone[model.ProductionRecord](s.ENTSOE.FetchProductionAggregate),
		"ENTSOE.fetch_production_per_units": connectors.ForZone[model.UnitProductionRecord](s.ENTSOE.FetchProductionPerUnits),
		"ENTSOE.fetch_wind_solar_forecasts": connectors.ForZone[model.ProductionRecord](s.ENTSOE.FetchWindSolarForecasts),
		"ENTSOE.fetch_consumption":          connectors.ForZone[model.ConsumptionRecord](s.ENTSOE.FetchConsumption),
		"ENTSOE.fetch_consumption_forecast": connectors.ForZone[model.ForecastRecord](s.ENTSOE.FetchConsumptionForecast),
		"ENTSOE.fetch_generation_forecast":  connectors.ForZone[model.ForecastRecord](s.ENTSOE.FetchGenerationForecast),
		"ENTSOE.fetch_price":                connectors.ForZone[model.PriceRecord](s.ENTSOE.FetchPrice),
		"ENTSOE.fetch_exchange":             connectors.ForExchange(s.ENTSOE.FetchExchange),
		"ENTSOE.fetch_exchange_forecast":    connectors.ForExchange(s.ENTSOE.FetchExchangeForecast),
		"RTE.fetch_production":              connectors.ForZone[model.ProductionRecord](s.RTE.FetchProduction),
		"RTE.fetch_price":                   connectors.ForZone[model.PriceRecord](s.RTE.FetchPrice),
		"RTE.fetch_wholesale_price":         connectors.ForZone[model.PriceRecord](s.RTE.FetchWholesalePrice),
		"statnett.fetch_production":         connectors.ForZone[model.ProductionRecord](s.Statnett.FetchProduction),
		"statnett.fetch_exchange":           connectors.ForExchange(s.Statnett.FetchExchange),
		"HOPS.fetch_exchange":               connectors.ForExchange(s.HOPS.FetchExchange),
		"SEV.fetch_production":              connectors.ForZone[model.ProductionRecord](s.SEV.FetchProduction),
		"CND.fetch_production":              connectors.ForZone[model.ProductionRecord](s.CND.FetchProduction),
	}
}

// Registry maps data kinds and keys to collector functions.
type Registry struct {
	funcs map[string]connectors.Func
	zones *config.Zones
}

// NewRegistry checks that every binding of zones names a known reference.
func NewRegistry(zones *config.Zones, funcs map[string]connectors.Func) (*Registry, error) {
	for _, b := range zones.Bindings() {
		if _, err := resolve(funcs, b.Ref); err != nil {
			return nil, fmt.Errorf("%s %s: %w", b.Key, b.Kind, err)
		}
	}
	return &Registry{funcs: funcs, zones: zones}, nil
}

// Lookup returns the function configured for kind on key, along with its
// reference. key is a zone or an "A->B" pair.
func (r *Registry) Lookup(kind model.Kind, key string) (connectors.Func, string, error) {
	ref, ok := r.zones.Parser(kind, key)
	if !ok {
		return nil, "", fmt.Errorf(errUnboundParser, kind, key)
	}
	f, err := resolve(r.funcs, ref)
	return f, ref, err
}

// Func returns the function registered under ref.
func (r *Registry) Func(ref string) (connectors.Func, error) {
	return resolve(r.funcs, ref)
}

// Refs returns the registered references, sorted.
func (r *Registry) Refs() []string {
	out := make([]string, 0, len(r.funcs))
	for ref := range r.funcs {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// Register adds a function under ref.
func (r *Registry) Register(ref string, f connectors.Func) error {
	if _, _, err := config.SplitRef(ref); err != nil {
		return err
	}
	if _, ok := r.funcs[ref]; ok {
		return fmt.Errorf(errDuplicateRef, ref)
	}
	r.funcs[ref] = f
	return nil
}

func resolve(funcs map[string]connectors.Func, ref string) (connectors.Func, error) {
	if _, _, err := config.SplitRef(ref); err != nil {
		return nil, err
	}
	f, ok := funcs[ref]
	if !ok {
		return nil, fmt.Errorf(errUnknownRef, ref)
	}
	return f, nil
}
