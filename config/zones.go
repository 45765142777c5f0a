package config

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/gridfeed/core/model"
)

//go:embed data/*.json
var embedded embed.FS

// ZonesConfig points at optional files overlaid on the embedded zone data.
type ZonesConfig struct {
	ZonesFile     string `json:"zones_file"`
	ExchangesFile string `json:"exchanges_file"`
	CO2File       string `json:"co2_file"`
}

// BoundingBox is the [[lon, lat], [lon, lat]] extent of a zone.
type BoundingBox [][]float64

// ParserMap binds data kinds to "Source.function" references.
type ParserMap map[string]string

type zoneEntry struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Parsers     ParserMap   `json:"parsers"`
}

type exchangeEntry struct {
	Parsers ParserMap `json:"parsers"`
}

type emissionFactor struct {
	Value  *float64 `json:"value"`
	Source string   `json:"source"`
}

type co2Params struct {
	EmissionFactors struct {
		Defaults      map[string]emissionFactor            `json:"defaults"`
		ZoneOverrides map[string]map[string]emissionFactor `json:"zoneOverrides"`
	} `json:"emissionFactors"`
}

// Zones is the static zone configuration loaded once at start up.
type Zones struct {
	zones      map[model.ZoneKey]zoneEntry
	exchanges  map[model.ExchangeKey]exchangeEntry
	neighbours map[model.ZoneKey][]model.ZoneKey
	co2        co2Params
}

// LoadZones reads the embedded zone, exchange and CO2 data and overlays the
// files named in cfg.
func LoadZones(cfg ZonesConfig) (*Zones, error) {
	var zones map[string]zoneEntry
	if err := loadData("data/zones.json", cfg.ZonesFile, &zones); err != nil {
		return nil, fmt.Errorf("zones: %w", err)
	}
	var exchanges map[string]exchangeEntry
	if err := loadData("data/exchanges.json", cfg.ExchangesFile, &exchanges); err != nil {
		return nil, fmt.Errorf("exchanges: %w", err)
	}
	var co2 co2Params
	if err := loadData("data/co2eq_parameters.json", cfg.CO2File, &co2); err != nil {
		return nil, fmt.Errorf("co2eq parameters: %w", err)
	}
	return newZones(zones, exchanges, co2)
}

func newZones(zones map[string]zoneEntry, exchanges map[string]exchangeEntry, co2 co2Params) (*Zones, error) {
	z := &Zones{
		zones:      make(map[model.ZoneKey]zoneEntry, len(zones)),
		exchanges:  make(map[model.ExchangeKey]exchangeEntry, len(exchanges)),
		neighbours: make(map[model.ZoneKey][]model.ZoneKey),
		co2:        co2,
	}
	for k, v := range zones {
		z.zones[model.ZoneKey(k)] = v
	}
	seen := make(map[model.ZoneKey]map[model.ZoneKey]struct{})
	link := func(a, b model.ZoneKey) {
		if seen[a] == nil {
			seen[a] = make(map[model.ZoneKey]struct{})
		}
		seen[a][b] = struct{}{}
	}
	for raw, v := range exchanges {
		key, err := model.ParseExchangeKey(raw)
		if err != nil {
			return nil, err
		}
		z.exchanges[key] = v
		link(key.First, key.Second)
		link(key.Second, key.First)
	}
	for zone, set := range seen {
		list := make([]model.ZoneKey, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		z.neighbours[zone] = list
	}
	return z, nil
}

// BoundingBox returns the extent of zone when configured.
func (z *Zones) BoundingBox(zone model.ZoneKey) (BoundingBox, bool) {
	e, ok := z.zones[zone]
	if !ok || len(e.BoundingBox) == 0 {
		return nil, false
	}
	return e.BoundingBox, true
}

// Neighbours returns the zones sharing an exchange with zone, sorted.
func (z *Zones) Neighbours(zone model.ZoneKey) []model.ZoneKey {
	return z.neighbours[zone]
}

// EmissionFactors returns the defaults overlaid key by key with the zone's
// overrides. Factors without a value are Missing.
func (z *Zones) EmissionFactors(zone model.ZoneKey) map[string]model.Value {
	out := make(map[string]model.Value)
	for k, f := range z.co2.EmissionFactors.Defaults {
		out[k] = f.value()
	}
	for k, f := range z.co2.EmissionFactors.ZoneOverrides[string(zone)] {
		out[k] = f.value()
	}
	return out
}

func (f emissionFactor) value() model.Value {
	if f.Value == nil {
		return model.Missing
	}
	return model.Some(*f.Value)
}

// Parser returns the "Source.function" reference configured for kind on key,
// which is a zone key or an "A->B" exchange key for exchange kinds.
func (z *Zones) Parser(kind model.Kind, key string) (string, bool) {
	var parsers ParserMap
	if kind.IsExchange() {
		ek, err := model.ParseExchangeKey(key)
		if err != nil {
			return "", false
		}
		parsers = z.exchanges[ek].Parsers
	} else {
		parsers = z.zones[model.ZoneKey(key)].Parsers
	}
	ref, ok := parsers[kind.String()]
	return ref, ok
}

// Bindings lists every configured (kind, key, reference) triple.
func (z *Zones) Bindings() []Binding {
	var out []Binding
	for zone, e := range z.zones {
		out = appendBindings(out, string(zone), e.Parsers)
	}
	for key, e := range z.exchanges {
		out = appendBindings(out, key.String(), e.Parsers)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Binding ties one key and data kind to a parser reference.
type Binding struct {
	Kind model.Kind
	Key  string
	Ref  string
}

func appendBindings(out []Binding, key string, parsers ParserMap) []Binding {
	for k, ref := range parsers {
		kind, err := model.ParseKind(k)
		if err != nil {
			continue
		}
		out = append(out, Binding{Kind: kind, Key: key, Ref: ref})
	}
	return out
}

// ZoneKeys returns the configured zones, sorted.
func (z *Zones) ZoneKeys() []model.ZoneKey {
	out := make([]model.ZoneKey, 0, len(z.zones))
	for k := range z.zones {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SplitRef splits a "Source.function" reference.
func SplitRef(ref string) (source, function string, err error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid parser reference %q", ref)
	}
	return parts[0], parts[1], nil
}

func loadData(name, override string, out any) error {
	raw, err := embedded.ReadFile(name)
	if err != nil {
		return err
	}
	k := koanf.New("/")
	if err := k.Load(bytesProvider(raw), json.Parser()); err != nil {
		return err
	}
	if override != "" {
		if err := k.Load(file.Provider(override), json.Parser()); err != nil {
			return err
		}
	}
	return k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "json"})
}

// bytesProvider serves an in-memory document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errors.New("bytes provider does not support this method")
}
