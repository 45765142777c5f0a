// Package cnd scrapes the generation page of Panama's dispatch center.
package cnd

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/transport"
)

const (
	parserName      = "CND"
	Source          = "https://www.cnd.com.pa/"
	DefaultEndpoint = "http://sitr.cnd.com.pa/m/pub/gen.html"
)

var panama = mustLoadLocation("America/Panama")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

var generation = map[string]model.Category{
	"Hídrica": model.Hydro,
	"Eólica":  model.Wind,
	"Solar":   model.Solar,
	"Biogas":  model.Gas,
	"Térmica": model.Unknown,
}

var months = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

// Client scrapes the CND page.
type Client struct {
	endpoint string
	session  transport.Session
}

// New returns a Client. An empty endpoint uses DefaultEndpoint.
func New(endpoint string, session transport.Session) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{endpoint: endpoint, session: session}
}

// FetchProduction returns the production mix shown on the page.
func (c *Client) FetchProduction(ctx context.Context, zone model.ZoneKey, opts ...connectors.Option) ([]model.ProductionRecord, error) {
	o, err := connectors.NewOptions(c.session, opts...)
	if err != nil {
		return nil, err
	}
	if err := o.RequireLive(parserName, string(zone)); err != nil {
		return nil, err
	}
	body, err := connectors.Get(ctx, o, parserName, string(zone), c.endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}

	dt, err := parseSpanishTime(strings.TrimSpace(doc.Find("div.sitr-update span").First().Text()))
	if err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}
	rec := model.NewProductionRecord(zone, dt, Source)

	var parseErr error
	doc.Find("table.sitr-pie-layout span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		fields := strings.Fields(s.Text())
		if len(fields) < 2 {
			parseErr = fmt.Errorf("unexpected production label %q", s.Text())
			return false
		}
		cat, ok := generation[fields[0]]
		if !ok {
			o.Logger.Warnw("unknown production type", map[string]any{"zone": string(zone), "label": fields[0]})
			return true
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			parseErr = err
			return false
		}
		rec.Production[cat] = model.Some(v)
		return true
	})
	if parseErr != nil {
		return nil, model.NewFormatError(parserName, string(zone), parseErr)
	}
	return []model.ProductionRecord{rec}, nil
}

// parseSpanishTime reads "01-marzo-2024 9:05:00" in Panama time.
func parseSpanishTime(s string) (time.Time, error) {
	date, clock, ok := strings.Cut(s, " ")
	parts := strings.Split(date, "-")
	if !ok || len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable day %q", parts[0])
	}
	month, ok := months[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", parts[1])
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable year %q", parts[2])
	}
	hms, err := time.Parse("15:04:05", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, day, hms.Hour(), hms.Minute(), hms.Second(), 0, panama).UTC(), nil
}
