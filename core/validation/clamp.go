package validation

import (
	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
)

// NegativeNoiseBand is the magnitude below which negative production is
// treated as measurement noise and clamped to zero.
const NegativeNoiseBand = 50.0

// ClampNegativeNoise sets production values in (-band, 0) to zero and logs a
// warning for each correction. Larger negative values are left untouched for
// the validator to reject. It returns the number of corrected values.
func ClampNegativeNoise(rec *model.ProductionRecord, band float64, log logger.Logger) int {
	if log == nil {
		log = logger.NopLogger{}
	}
	n := 0
	for _, k := range rec.Production.Keys() {
		v, ok := rec.Production[k].Get()
		if !ok || v >= 0 || v <= -band {
			continue
		}
		log.Warnw("setting small negative value to 0", map[string]any{
			"zone":     string(rec.ZoneKey),
			"datetime": rec.Datetime,
			"key":      string(k),
			"value":    v,
		})
		rec.Production[k] = model.Some(0)
		n++
	}
	return n
}
