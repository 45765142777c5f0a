// Package aggregate merges the production records of several zones into the
// records of a virtual zone.
package aggregate

import (
	"sort"
	"time"

	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/validation"
)

// SumMix adds b into a copy of a. A key missing on both sides stays missing,
// otherwise a missing side counts as zero.
func SumMix(a, b model.Mix) model.Mix {
	out := a.Clone()
	for k, v := range b {
		out[k] = out[k].Plus(v)
	}
	return out
}

// MergeProduction sums the production and storage of records sharing a
// timestamp across every output. Timestamps absent from at least one output
// are dropped. Negative residuals within validation.NegativeNoiseBand are
// clamped to zero and logged. When source is empty the source of the first
// record is used.
func MergeProduction(outputs [][]model.ProductionRecord, zone model.ZoneKey, source string, log logger.Logger) []model.ProductionRecord {
	if log == nil {
		log = logger.NopLogger{}
	}
	if len(outputs) == 0 {
		return nil
	}
	if source == "" && len(outputs[0]) > 0 {
		source = outputs[0][0].Source
	}

	merged := index(outputs[0])
	for _, output := range outputs[1:] {
		other := index(output)
		for t, rec := range merged {
			o, ok := other[t]
			if !ok {
				delete(merged, t)
				continue
			}
			rec.Production = SumMix(rec.Production, o.Production)
			rec.Storage = SumMix(rec.Storage, o.Storage)
			merged[t] = rec
		}
	}

	out := make([]model.ProductionRecord, 0, len(merged))
	for _, rec := range merged {
		rec.ZoneKey = zone
		rec.Source = source
		validation.ClampNegativeNoise(&rec, validation.NegativeNoiseBand, log)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out
}

// index keys records by UTC instant. Records repeated for the same instant
// are summed so that no input value is lost.
func index(recs []model.ProductionRecord) map[time.Time]model.ProductionRecord {
	m := make(map[time.Time]model.ProductionRecord, len(recs))
	for _, r := range recs {
		t := r.Datetime.UTC()
		if prev, ok := m[t]; ok {
			prev.Production = SumMix(prev.Production, r.Production)
			prev.Storage = SumMix(prev.Storage, r.Storage)
			m[t] = prev
			continue
		}
		r.Datetime = t
		r.Production = r.Production.Clone()
		r.Storage = r.Storage.Clone()
		m[t] = r
	}
	return m
}
