package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/gridfeed/core/model"
)

// ErrQuality is wrapped by every quality check failure.
var ErrQuality = errors.New("quality check failed")

var earliest = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// fossilExempt lists zones allowed to report no coal, gas, oil or unknown.
var fossilExempt = map[model.ZoneKey]bool{
	"CH": true, "NO": true, "AUS-TAS": true, "DK-BHM": true, "US-NEISO": true,
}

func qualityErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrQuality, fmt.Sprintf(format, args...))
}

// CheckTime rejects zero, pre-2000 and future datetimes.
func CheckTime(key string, dt, now time.Time) error {
	if dt.IsZero() {
		return qualityErr("datetime was not returned for %s", key)
	}
	if dt.Before(earliest) {
		return qualityErr("data from %s can't be before year 2000, it was %s", key, dt)
	}
	if dt.After(now) {
		return qualityErr("data from %s can't be in the future, data was %s, now is %s", key, dt, now)
	}
	return nil
}

// CheckProduction performs the record-level checks applied before a
// production record is accepted downstream.
func CheckProduction(rec model.ProductionRecord, zone model.ZoneKey, now time.Time) error {
	if rec.ZoneKey == "" {
		return qualityErr("zoneKey was not returned for %s", zone)
	}
	if rec.ZoneKey != zone {
		return qualityErr("zone keys %s and %s don't match", rec.ZoneKey, zone)
	}
	if !fossilExempt[zone] {
		p := rec.Production
		if p[model.Unknown].IsMissing() && p[model.Coal].IsMissing() &&
			p[model.Oil].IsMissing() && p[model.Gas].IsMissing() {
			return qualityErr("coal, gas or oil or unknown production value is required for %s", zone)
		}
	}
	for k := range rec.Storage {
		if k != model.Hydro && k != model.Battery {
			return qualityErr("unexpected key in storage: %s", k)
		}
	}
	for _, k := range rec.Production.Keys() {
		if v, ok := rec.Production[k].Get(); ok && v < 0 {
			return qualityErr("%s: key %s has negative value %v", zone, k, v)
		}
	}
	return CheckTime(string(zone), rec.Datetime, now)
}

// CheckExchange verifies the pair and datetime of an exchange record.
func CheckExchange(rec model.ExchangeRecord, key model.ExchangeKey, now time.Time) error {
	if rec.SortedZoneKeys != key {
		return qualityErr("sorted country codes %s and %s don't match", rec.SortedZoneKeys, key)
	}
	return CheckTime(key.String(), rec.Datetime, now)
}

// CheckConsumption rejects negative consumption.
func CheckConsumption(rec model.ConsumptionRecord, zone model.ZoneKey, now time.Time) error {
	if v, ok := rec.Consumption.Get(); ok && v < 0 {
		return qualityErr("%s: consumption has negative value %v", zone, v)
	}
	return CheckTime(string(zone), rec.Datetime, now)
}
