package entsoe

import (
	"context"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/series"
)

// FetchExchange returns the realised net flow between zone1 and zone2, most
// recent first. Timestamps after the current time are dropped.
func (c *Client) FetchExchange(ctx context.Context, zone1, zone2 model.ZoneKey, opts ...connectors.Option) ([]model.ExchangeRecord, error) {
	return c.exchange(ctx, zone1, zone2, exchangeQuery, true, opts)
}

// FetchExchangeForecast returns the scheduled net flow between zone1 and
// zone2, most recent first.
func (c *Client) FetchExchangeForecast(ctx context.Context, zone1, zone2 model.ZoneKey, opts ...connectors.Option) ([]model.ExchangeRecord, error) {
	return c.exchange(ctx, zone1, zone2, exchangeForecastQuery, false, opts)
}

func (c *Client) exchange(ctx context.Context, zone1, zone2 model.ZoneKey, build func(in, out string) Query, realised bool, opts []connectors.Option) ([]model.ExchangeRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	flow, err := c.directedFlow(ctx, o, zone1, zone2, build)
	if err != nil || flow == nil {
		return nil, err
	}
	key := model.NewExchangeKey(zone1, zone2)
	dir := key.Direction(zone1)
	now := o.Now()
	times := flow.Times()
	out := make([]model.ExchangeRecord, 0, len(times))
	for i := len(times) - 1; i >= 0; i-- {
		t := times[i]
		if realised && t.After(now) {
			continue
		}
		v, _ := flow.Get(t)
		out = append(out, model.ExchangeRecord{SortedZoneKeys: key, Datetime: t, NetFlow: v * dir, Source: Source})
	}
	return out, nil
}

// directedFlow returns the net flow from zone1 to zone2. Flows are published
// per receiving domain: the leg received by zone2 counts positively, the leg
// received by zone1 negatively, and only timestamps reported by both legs
// are kept.
func (c *Client) directedFlow(ctx context.Context, o connectors.Options, zone1, zone2 model.ZoneKey, build func(in, out string) Query) (*series.Scalar, error) {
	d1, d2, err := exchangeDomains(zone1, zone2)
	if err != nil {
		return nil, err
	}
	name := model.NewExchangeKey(zone1, zone2).String()
	body, err := c.query(ctx, o, name, build(d2, d1))
	if err != nil || body == nil {
		return nil, err
	}
	imports, err := parseExchange(body, true)
	if err != nil {
		return nil, formatErr(name, err)
	}
	body, err = c.query(ctx, o, name, build(d1, d2))
	if err != nil || body == nil {
		return nil, err
	}
	exports, err := parseExchange(body, false)
	if err != nil {
		return nil, formatErr(name, err)
	}
	return series.InnerJoin(imports, exports), nil
}
