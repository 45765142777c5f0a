package entsoe

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/model"
)

const periodLayout = "2006010215" + "00"

// noDataMarker is the acknowledgement reason of an empty result.
const noDataMarker = "No matching data found"

// Span is the query window around the reference time.
type Span struct {
	Before time.Duration
	After  time.Duration
}

var (
	spanDefault  = Span{Before: -48 * time.Hour, After: 24 * time.Hour}
	spanRealised = Span{Before: -48 * time.Hour}
	// per unit generation only supports one day windows
	spanPerUnit  = Span{Before: -24 * time.Hour}
)

// Query is one request to the transparency platform.
type Query struct {
	// Name identifies the query in error messages.
	Name           string
	DocumentType   string
	ProcessType    string
	PsrType        string
	InDomain       string
	OutDomain      string
	OutBiddingZone string
	Span           Span
}

// Values renders the query parameters for the reference time.
func (q Query) Values(ref time.Time, token string) url.Values {
	v := url.Values{}
	v.Set("documentType", q.DocumentType)
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("processType", q.ProcessType)
	set("psrType", q.PsrType)
	set("in_Domain", q.InDomain)
	set("out_Domain", q.OutDomain)
	set("outBiddingZone_Domain", q.OutBiddingZone)
	ref = ref.UTC()
	v.Set("periodStart", ref.Add(q.Span.Before).Format(periodLayout))
	v.Set("periodEnd", ref.Add(q.Span.After).Format(periodLayout))
	v.Set("securityToken", token)
	return v
}

func consumptionQuery(domain string) Query {
	return Query{Name: "query_consumption", DocumentType: "A65", ProcessType: "A16", OutBiddingZone: domain, Span: spanDefault}
}

func productionQuery(domain string) Query {
	return Query{Name: "query_production", DocumentType: "A75", ProcessType: "A16", InDomain: domain, Span: spanRealised}
}

func productionPerUnitsQuery(psrType, domain string) Query {
	return Query{Name: "query_production_per_units", DocumentType: "A73", ProcessType: "A16", PsrType: psrType, InDomain: domain, Span: spanPerUnit}
}

func exchangeQuery(in, out string) Query {
	return Query{Name: "query_exchange", DocumentType: "A11", InDomain: in, OutDomain: out, Span: spanDefault}
}

func exchangeForecastQuery(in, out string) Query {
	return Query{Name: "query_exchange_forecast", DocumentType: "A09", InDomain: in, OutDomain: out, Span: spanDefault}
}

func priceQuery(domain string) Query {
	return Query{Name: "query_price", DocumentType: "A44", InDomain: domain, OutDomain: domain, Span: spanDefault}
}

func generationForecastQuery(domain string) Query {
	return Query{Name: "query_generation_forecast", DocumentType: "A71", ProcessType: "A01", InDomain: domain, Span: spanDefault}
}

func consumptionForecastQuery(domain string) Query {
	return Query{Name: "query_consumption_forecast", DocumentType: "A65", ProcessType: "A01", OutBiddingZone: domain, Span: spanDefault}
}

func windSolarForecastQuery(domain string) Query {
	return Query{Name: "query_wind_solar_production_forecast", DocumentType: "A69", ProcessType: "A01", InDomain: domain, Span: spanDefault}
}

// token reads the security token at call time.
func (c *Client) token(zone string) (string, error) {
	tok, ok := os.LookupEnv(c.tokenEnv)
	if !ok || tok == "" {
		return "", model.NewConfigError(parserName, zone, model.ErrAuth, "no %s found", c.tokenEnv)
	}
	return tok, nil
}

// query issues q and returns the document body. A nil body with a nil error
// means the platform had no matching data.
func (c *Client) query(ctx context.Context, o connectors.Options, zone string, q Query) ([]byte, error) {
	tok, err := c.token(zone)
	if err != nil {
		return nil, err
	}
	res, err := o.Session.Get(ctx, c.endpoint, q.Values(o.Reference(), tok), nil)
	if err != nil {
		return nil, model.NewUpstreamQueryError(parserName, zone, "%s failed: %v", q.Name, err)
	}
	if res.OK() {
		return res.Body, nil
	}
	reason, noData := acknowledgement(res.Body)
	if noData {
		o.Logger.Debugw("no matching data", map[string]any{"zone": zone, "query": q.Name})
		return nil, nil
	}
	if reason == "" {
		reason = res.Text()
	}
	return nil, model.NewUpstreamQueryError(parserName, zone, "%s failed. Reason: %s", q.Name, reason)
}

// acknowledgement extracts the reason text of an error document.
func acknowledgement(body []byte) (reason string, noData bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	text := doc.Find("text").First()
	if text.Length() == 0 {
		return "", false
	}
	reason = strings.TrimSpace(text.Text())
	return reason, strings.Contains(reason, noDataMarker)
}
