package entsoe

import (
	"context"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/series"
)

// FetchConsumption returns the realised load of zone. Without a target time
// only the latest point is returned.
func (c *Client) FetchConsumption(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ConsumptionRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	domain, err := domainFor(zone)
	if err != nil {
		return nil, err
	}
	s, err := c.scalar(ctx, o, zone, consumptionQuery(domain), onlyOut)
	if err != nil || s == nil || s.Len() == 0 {
		return nil, err
	}
	times := s.Times()
	if _, ok := o.Target(); !ok {
		times = times[len(times)-1:]
	}
	out := make([]model.ConsumptionRecord, 0, len(times))
	for _, t := range times {
		v, _ := s.Get(t)
		out = append(out, model.ConsumptionRecord{ZoneKey: zone, Datetime: t, Consumption: model.Some(v), Source: Source})
	}
	return out, nil
}

// FetchConsumptionForecast returns the day-ahead load forecast of zone.
func (c *Client) FetchConsumptionForecast(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ForecastRecord, error) {
	return c.forecast(ctx, zone, consumptionForecastQuery, onlyOut, opts)
}

// FetchGenerationForecast returns the day-ahead total generation forecast of
// zone.
func (c *Client) FetchGenerationForecast(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ForecastRecord, error) {
	return c.forecast(ctx, zone, generationForecastQuery, onlyIn, opts)
}

func (c *Client) forecast(ctx context.Context, zone model.ZoneKey, build func(string) Query, f scalarFilter, opts []connectors.Option) ([]model.ForecastRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	domain, err := domainFor(zone)
	if err != nil {
		return nil, err
	}
	s, err := c.scalar(ctx, o, zone, build(domain), f)
	if err != nil || s == nil {
		return nil, err
	}
	out := make([]model.ForecastRecord, 0, s.Len())
	for _, t := range s.Times() {
		v, _ := s.Get(t)
		out = append(out, model.ForecastRecord{ZoneKey: zone, Datetime: t, Value: v, Source: Source})
	}
	return out, nil
}

func (c *Client) scalar(ctx context.Context, o connectors.Options, zone model.ZoneKey, q Query, f scalarFilter) (*series.Scalar, error) {
	body, err := c.query(ctx, o, string(zone), q)
	if err != nil || body == nil {
		return nil, err
	}
	s, err := parseScalar(body, f)
	if err != nil {
		return nil, formatErr(string(zone), err)
	}
	return s, nil
}

// FetchPrice returns the day-ahead prices of zone, using the price domain
// of the bidding zone it belongs to.
func (c *Client) FetchPrice(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.PriceRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	domain, err := priceDomainFor(zone)
	if err != nil {
		return nil, err
	}
	body, err := c.query(ctx, o, string(zone), priceQuery(domain))
	if err != nil || body == nil {
		return nil, err
	}
	points, err := parsePrice(body)
	if err != nil {
		return nil, formatErr(string(zone), err)
	}
	out := make([]model.PriceRecord, 0, len(points))
	for _, p := range points {
		out = append(out, model.PriceRecord{
			ZoneKey:  zone,
			Datetime: p.Time,
			Currency: p.Currency,
			Price:    p.Price,
			Source:   Source,
		})
	}
	return out, nil
}
