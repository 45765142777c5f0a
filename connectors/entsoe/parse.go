package entsoe

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/gridfeed/core/series"
)

// document is the subset of the market documents the collectors read. Tags
// carry no namespace so that every document revision matches.
type document struct {
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	InBiddingZone  *string  `xml:"inBiddingZone_Domain.mRID"`
	OutBiddingZone *string  `xml:"outBiddingZone_Domain.mRID"`
	Currency       string   `xml:"currency_Unit.name"`
	PsrType        string   `xml:"MktPSRType>psrType"`
	UnitKey        string   `xml:"MktPSRType>PowerSystemResources>mRID"`
	UnitName       string   `xml:"MktPSRType>PowerSystemResources>name"`
	Periods        []period `xml:"Period"`
}

type period struct {
	Start      string  `xml:"timeInterval>start"`
	Resolution string  `xml:"resolution"`
	Points     []point `xml:"Point"`
}

type point struct {
	Position int      `xml:"position"`
	Quantity *float64 `xml:"quantity"`
	Price    *float64 `xml:"price.amount"`
}

// isProduction reports whether the series feeds the zone. Series declaring
// only the out bidding zone are consumption legs.
func (ts timeSeries) isProduction() bool { return ts.InBiddingZone != nil }

var startLayouts = []string{"2006-01-02T15:04Z07:00", time.RFC3339}

func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range startLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse period start %q", s)
}

// sample is one extracted point.
type sample struct {
	series timeSeries
	time   time.Time
	point  point
}

func decode(body []byte) (document, error) {
	var doc document
	if len(bytes.TrimSpace(body)) == 0 {
		return doc, nil
	}
	if err := xml.Unmarshal(body, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// walk calls fn for every point of every series kept by keep, with the
// point's timestamp resolved from its period.
func walk(body []byte, keep func(timeSeries) bool, fn func(sample)) error {
	doc, err := decode(body)
	if err != nil {
		return err
	}
	for _, ts := range doc.TimeSeries {
		if keep != nil && !keep(ts) {
			continue
		}
		for _, p := range ts.Periods {
			res, err := series.ParseResolution(strings.TrimSpace(p.Resolution))
			if err != nil {
				return err
			}
			start, err := parseStart(p.Start)
			if err != nil {
				return err
			}
			for _, pt := range p.Points {
				fn(sample{series: ts, time: series.AtPosition(start, pt.Position, res), point: pt})
			}
		}
	}
	return nil
}

// parseProduction accumulates quantities per timestamp and psrType. Series
// feeding the zone count positively, the others negatively.
func parseProduction(body []byte) (*series.Set, error) {
	set := series.NewSet()
	err := walk(body, nil, func(s sample) {
		if s.point.Quantity == nil {
			return
		}
		q := *s.point.Quantity
		if !s.series.isProduction() {
			q = -q
		}
		set.Add(s.time, series.Code(strings.TrimSpace(s.series.PsrType)), q)
	})
	return set, err
}

// scalarFilter selects series by the bidding zone role they declare.
type scalarFilter int

const (
	anySeries scalarFilter = iota
	onlyIn
	onlyOut
)

func (f scalarFilter) keep(ts timeSeries) bool {
	switch f {
	case onlyIn:
		return ts.InBiddingZone != nil
	case onlyOut:
		return ts.OutBiddingZone != nil
	}
	return true
}

// parseScalar sums the quantities of the selected series per timestamp.
func parseScalar(body []byte, f scalarFilter) (*series.Scalar, error) {
	out := series.NewScalar()
	err := walk(body, f.keep, func(s sample) {
		if s.point.Quantity != nil {
			out.Add(s.time, *s.point.Quantity)
		}
	})
	return out, err
}

// parseExchange sums one leg of an exchange. Export legs are negated.
func parseExchange(body []byte, isImport bool) (*series.Scalar, error) {
	out := series.NewScalar()
	sign := 1.0
	if !isImport {
		sign = -1
	}
	err := walk(body, nil, func(s sample) {
		if s.point.Quantity != nil {
			out.Add(s.time, sign * *s.point.Quantity)
		}
	})
	return out, err
}

type pricePoint struct {
	Time     time.Time
	Price    float64
	Currency string
}

// parsePrice returns every price point in document order.
func parsePrice(body []byte) ([]pricePoint, error) {
	var out []pricePoint
	err := walk(body, nil, func(s sample) {
		if s.point.Price == nil {
			return
		}
		out = append(out, pricePoint{
			Time:     s.time,
			Price:    *s.point.Price,
			Currency: strings.TrimSpace(s.series.Currency),
		})
	})
	return out, err
}

type unitPoint struct {
	Time     time.Time
	UnitKey  string
	UnitName string
	PsrType  series.Code
	Value    float64
}

// parseProductionPerUnits sums the production legs per unit and timestamp.
func parseProductionPerUnits(body []byte) ([]unitPoint, error) {
	type key struct {
		unit string
		t    time.Time
	}
	acc := make(map[key]*unitPoint)
	err := walk(body, timeSeries.isProduction, func(s sample) {
		if s.point.Quantity == nil {
			return
		}
		k := key{unit: strings.TrimSpace(s.series.UnitKey), t: s.time}
		if p, ok := acc[k]; ok {
			p.Value += *s.point.Quantity
			return
		}
		acc[k] = &unitPoint{
			Time:     s.time,
			UnitKey:  k.unit,
			UnitName: s.series.UnitName,
			PsrType:  series.Code(strings.TrimSpace(s.series.PsrType)),
			Value:    *s.point.Quantity,
		}
	})
	if err != nil {
		return nil, err
	}
	out := make([]unitPoint, 0, len(acc))
	for _, p := range acc {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return out[i].UnitKey < out[j].UnitKey
	})
	return out, nil
}
