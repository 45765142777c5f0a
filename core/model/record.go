package model

import "time"

// Record is implemented by every emitted record type.
type Record interface {
	// RecordKey returns the zone key, or the sorted zone pair for exchanges.
	RecordKey() string
	RecordTime() time.Time
	RecordSource() string
}

// ProductionRecord is the production and storage mix of a zone at one time.
type ProductionRecord struct {
	ZoneKey    ZoneKey   `json:"zoneKey"`
	Datetime   time.Time `json:"datetime"`
	Production Mix       `json:"production"`
	Storage    Mix       `json:"storage"`
	Source     string    `json:"source"`
}

// NewProductionRecord returns a record whose mixes hold every canonical key.
func NewProductionRecord(zone ZoneKey, dt time.Time, source string) ProductionRecord {
	return ProductionRecord{
		ZoneKey:    zone,
		Datetime:   dt,
		Production: NewProductionMix(),
		Storage:    NewStorageMix(),
		Source:     source,
	}
}

// ExchangeRecord is the net flow between two zones. NetFlow is positive when
// power flows from SortedZoneKeys.First to SortedZoneKeys.Second.
type ExchangeRecord struct {
	SortedZoneKeys ExchangeKey `json:"sortedZoneKeys"`
	Datetime       time.Time   `json:"datetime"`
	NetFlow        float64     `json:"netFlow"`
	Source         string      `json:"source"`
}

// ConsumptionRecord is the total load of a zone.
type ConsumptionRecord struct {
	ZoneKey     ZoneKey   `json:"zoneKey"`
	Datetime    time.Time `json:"datetime"`
	Consumption Value     `json:"consumption"`
	Source      string    `json:"source"`
}

// PriceRecord is a day-ahead or spot price.
type PriceRecord struct {
	ZoneKey  ZoneKey   `json:"zoneKey"`
	Datetime time.Time `json:"datetime"`
	Currency string    `json:"currency"`
	Price    float64   `json:"price"`
	Source   string    `json:"source"`
}

// ForecastRecord is a scalar generation or consumption forecast.
type ForecastRecord struct {
	ZoneKey  ZoneKey   `json:"zoneKey"`
	Datetime time.Time `json:"datetime"`
	Value    float64   `json:"value"`
	Source   string    `json:"source"`
}

// UnitProductionRecord is the output of a single generating unit.
type UnitProductionRecord struct {
	ZoneKey        ZoneKey   `json:"zoneKey"`
	Datetime       time.Time `json:"datetime"`
	Production     float64   `json:"production"`
	ProductionType Category  `json:"productionType"`
	UnitKey        string    `json:"unitKey"`
	UnitName       string    `json:"unitName"`
	Source         string    `json:"source"`
}

func (r ProductionRecord) RecordKey() string     { return string(r.ZoneKey) }
func (r ProductionRecord) RecordTime() time.Time { return r.Datetime }
func (r ProductionRecord) RecordSource() string  { return r.Source }

func (r ExchangeRecord) RecordKey() string     { return r.SortedZoneKeys.String() }
func (r ExchangeRecord) RecordTime() time.Time { return r.Datetime }
func (r ExchangeRecord) RecordSource() string  { return r.Source }

func (r ConsumptionRecord) RecordKey() string     { return string(r.ZoneKey) }
func (r ConsumptionRecord) RecordTime() time.Time { return r.Datetime }
func (r ConsumptionRecord) RecordSource() string  { return r.Source }

func (r PriceRecord) RecordKey() string     { return string(r.ZoneKey) }
func (r PriceRecord) RecordTime() time.Time { return r.Datetime }
func (r PriceRecord) RecordSource() string  { return r.Source }

func (r ForecastRecord) RecordKey() string     { return string(r.ZoneKey) }
func (r ForecastRecord) RecordTime() time.Time { return r.Datetime }
func (r ForecastRecord) RecordSource() string  { return r.Source }

func (r UnitProductionRecord) RecordKey() string     { return string(r.ZoneKey) }
func (r UnitProductionRecord) RecordTime() time.Time { return r.Datetime }
func (r UnitProductionRecord) RecordSource() string  { return r.Source }

// Records converts a typed slice into a slice of Record.
func Records[T Record](in []T) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
