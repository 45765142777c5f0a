package validation

import (
	"math"
	"sort"

	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
)

// FilterProductionDiffs drops records whose value for a category jumps by
// more than maxDiff[category] from the previous record. Records are sorted
// by datetime first and the earliest record is always kept. Missing values
// never count as a jump.
func FilterProductionDiffs(recs []model.ProductionRecord, maxDiff map[model.Category]float64, log logger.Logger) []model.ProductionRecord {
	if len(recs) < 2 {
		return recs
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sorted := make([]model.ProductionRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Datetime.Before(sorted[j].Datetime) })

	ok := make([]bool, len(sorted))
	for i := range ok {
		ok[i] = true
	}
	for cat, limit := range maxDiff {
		for i := 1; i < len(sorted); i++ {
			prev, pok := sorted[i-1].Production[cat].Get()
			cur, cok := sorted[i].Production[cat].Get()
			if !pok || !cok {
				continue
			}
			if math.Abs(cur-prev) >= limit {
				log.Warnw("datapoint has a too high production value difference", map[string]any{
					"zone":     string(sorted[i].ZoneKey),
					"datetime": sorted[i].Datetime,
					"key":      string(cat),
					"previous": prev,
					"value":    cur,
				})
				ok[i] = false
			}
		}
	}
	out := make([]model.ProductionRecord, 0, len(sorted))
	for i, r := range sorted {
		if ok[i] {
			out = append(out, r)
		}
	}
	return out
}
