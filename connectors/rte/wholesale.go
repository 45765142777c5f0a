package rte

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"time"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
)

// WholesaleSource labels power exchange prices from the wholesale market API.
const WholesaleSource = "digital.iservices.rte-france.com"

// ErrNoCredentials is wrapped when the wholesale API is called without an
// OAuth client.
var ErrNoCredentials = errors.New("wholesale market api requires oauth credentials")

// WholesaleResponse is the france_power_exchanges payload.
type WholesaleResponse struct {
	FrancePowerExchanges []struct {
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		UpdatedDate string `json:"updated_date"`
		Values      []struct {
			StartDate string  `json:"start_date"`
			EndDate   string  `json:"end_date"`
			Value     float64 `json:"value"`
			Price     float64 `json:"price"`
		} `json:"values"`
	} `json:"france_power_exchanges"`
}

// Records converts the exchange values into price records.
func (r *WholesaleResponse) Records(zone model.ZoneKey) ([]model.PriceRecord, error) {
	var out []model.PriceRecord
	for _, exchange := range r.FrancePowerExchanges {
		for _, v := range exchange.Values {
			dt, err := time.Parse(time.RFC3339, v.StartDate)
			if err != nil {
				return nil, err
			}
			out = append(out, model.PriceRecord{
				ZoneKey:  zone,
				Datetime: dt.UTC(),
				Currency: "EUR",
				Price:    v.Price,
				Source:   WholesaleSource,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

// FetchWholesalePrice returns the power exchange prices of the day before
// the reference time.
func (c *Client) FetchWholesalePrice(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.PriceRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	if zone != "FR" {
		return nil, model.NewConfigError(parserName, string(zone), model.ErrUnknownZone, "wholesale prices are only published for FR")
	}
	if c.auth == nil {
		return nil, model.NewConfigError(parserName, string(zone), model.ErrAuth, "%v", ErrNoCredentials)
	}
	headers, err := c.auth.AuthHeaders(ctx)
	if err != nil {
		return nil, model.NewConfigError(parserName, string(zone), model.ErrAuth, "failed to set auth header: %v", err)
	}

	end := o.Reference().In(paris).Truncate(time.Hour)
	params := url.Values{}
	params.Set("start_date", end.AddDate(0, 0, -1).Format(time.RFC3339))
	params.Set("end_date", end.Format(time.RFC3339))

	body, err := connectors.Get(ctx, o, parserName, string(zone), c.cfg.WholesaleEndpoint, params, headers)
	if err != nil {
		return nil, err
	}
	var res WholesaleResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}
	recs, err := res.Records(zone)
	if err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}
	return recs, nil
}
