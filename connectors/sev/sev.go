// Package sev reads the live production snapshot of the Faroe Islands
// utility.
package sev

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/transport"
	"github.com/kilianp07/gridfeed/core/validation"
)

const (
	parserName      = "SEV"
	Source          = "sev.fo"
	DefaultEndpoint = "https://w3.sev.fo/hagtol/xml/xkiefjSDKFjeijgjdkjf3847tgfjlkfdgnlsnfvm.xml"
	energySuffix    = "Sev_E"
)

var faroe = mustLoadLocation("Atlantic/Faroe")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

var generation = map[string]model.Category{
	"Vand":   model.Hydro,
	"Olie":   model.Oil,
	"Diesel": model.Oil,
	"Vind":   model.Wind,
}

// unreported categories do not exist on the islands and are reported as 0.
var unreported = []model.Category{
	model.Biomass, model.Coal, model.Gas, model.Geothermal, model.Nuclear, model.Solar,
}

var rules = validation.Rules{
	Required: []model.Category{model.Hydro},
	Floor:    validation.Floor(10),
}

var timeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04"}

type node struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
	Nodes   []node `xml:",any"`
}

// Client fetches the SEV snapshot.
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

// FetchProduction returns the current production of the islands. A snapshot
// failing validation yields no record.
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
	var root node
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, model.NewFormatError(parserName, string(zone), err)
	}
	if len(root.Nodes) == 0 {
		return nil, model.NewFormatError(parserName, string(zone), fmt.Errorf("empty document"))
	}

	rec := model.NewProductionRecord(zone, time.Time{}, Source)
	for _, cat := range unreported {
		rec.Production[cat] = model.Some(0)
	}
	for _, item := range root.Nodes[0].Nodes {
		tag := item.XMLName.Local
		switch {
		case tag == "tiden":
			dt, err := parseTime(strings.TrimSpace(item.Text))
			if err != nil {
				return nil, model.NewFormatError(parserName, string(zone), err)
			}
			rec.Datetime = dt
		case strings.Contains(tag, "Sum"), strings.Contains(tag, "Test"), strings.Contains(tag, "VnVand"):
			// VnVand is the sum of the hydro plants.
		case strings.HasSuffix(tag, energySuffix):
			cat, ok := generation[strings.TrimSuffix(tag, energySuffix)]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(item.Text), ",", "."), 64)
			if err != nil {
				return nil, model.NewFormatError(parserName, string(zone), err)
			}
			rec.Production[cat] = rec.Production[cat].Plus(model.Some(v))
		}
	}
	if rec.Datetime.IsZero() {
		return nil, model.NewFormatError(parserName, string(zone), fmt.Errorf("no tiden element"))
	}
	if _, ok := validation.Validate(rec, rules, o.Logger); !ok {
		return []model.ProductionRecord{}, nil
	}
	return []model.ProductionRecord{rec}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, faroe); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}
