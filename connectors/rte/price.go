package rte

import (
	"context"
	"encoding/xml"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
)

const (
	// PriceSource labels eco2mix market prices.
	PriceSource = "rte-france.com"
	eco2mixDate = "02/01/2006"
)

type marketDocument struct {
	Days []marketDay `xml:"donneesMarche"`
}

type marketDay struct {
	Date  string       `xml:"date,attr"`
	Items []marketItem `xml:",any"`
}

type marketItem struct {
	Granularity string        `xml:"granularite,attr"`
	Perimeter   string        `xml:"perimetre,attr"`
	Values      []marketValue `xml:"valeur"`
}

type marketValue struct {
	Period int    `xml:"periode,attr"`
	Text   string `xml:",chardata"`
}

// FetchPrice returns the hourly day-ahead prices eco2mix publishes for zone
// over the day before the reference time.
func (c *Client) FetchPrice(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.PriceRecord, error) {
	o, err := c.options(opts)
	if err != nil {
		return nil, err
	}
	ref := o.Reference().In(paris)
	params := url.Values{}
	params.Set("type", "donneesMarche")
	params.Set("dateDeb", ref.AddDate(0, 0, -1).Format(eco2mixDate))
	params.Set("dateFin", ref.Format(eco2mixDate))
	params.Set("mode", "NORM")

	body, err := connectors.Get(ctx, o, parserName, string(zone), c.cfg.Eco2mixEndpoint, params, nil)
	if err != nil {
		return nil, err
	}
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}

	byTime := map[time.Time]model.PriceRecord{}
	for _, day := range doc.Days {
		start, err := time.ParseInLocation("2006-01-02", day.Date, paris)
		if err != nil {
			return nil, model.NewFormatError(parserName, string(zone), err)
		}
		for _, item := range day.Items {
			if item.Granularity != "Global" || item.Perimeter != string(zone) {
				continue
			}
			for _, v := range item.Values {
				text := strings.TrimSpace(v.Text)
				if text == "ND" || text == "" {
					continue
				}
				price, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, model.NewFormatError(parserName, string(zone), err)
				}
				dt := start.Add(time.Duration(v.Period) * time.Hour).UTC()
				byTime[dt] = model.PriceRecord{
					ZoneKey:  zone,
					Datetime: dt,
					Currency: "EUR",
					Price:    price,
					Source:   PriceSource,
				}
			}
		}
	}
	out := make([]model.PriceRecord, 0, len(byTime))
	for _, r := range byTime {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}
