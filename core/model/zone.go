package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ZoneKey identifies a geographic grid area. It may name a country, a
// sub-national area or a virtual aggregate of several areas.
type ZoneKey string

// ExchangeSeparator joins the two zones of an exchange key.
const ExchangeSeparator = "->"

// ExchangeKey is a zone pair stored in lexicographic order.
type ExchangeKey struct {
	First  ZoneKey
	Second ZoneKey
}

// NewExchangeKey sorts the two zones into an ExchangeKey.
func NewExchangeKey(a, b ZoneKey) ExchangeKey {
	if b < a {
		a, b = b, a
	}
	return ExchangeKey{First: a, Second: b}
}

// ParseExchangeKey parses "A->B" in either order.
func ParseExchangeKey(s string) (ExchangeKey, error) {
	parts := strings.Split(s, ExchangeSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ExchangeKey{}, fmt.Errorf("invalid exchange key %q", s)
	}
	return NewExchangeKey(ZoneKey(parts[0]), ZoneKey(parts[1])), nil
}

func (k ExchangeKey) String() string {
	return string(k.First) + ExchangeSeparator + string(k.Second)
}

// Direction returns +1 when from is the first zone of the pair and -1
// otherwise. A flow measured from `from` towards the other zone multiplied by
// Direction is the flow from First to Second.
func (k ExchangeKey) Direction(from ZoneKey) float64 {
	if from == k.First {
		return 1
	}
	return -1
}

// Contains reports whether z is one of the two zones.
func (k ExchangeKey) Contains(z ZoneKey) bool {
	return z == k.First || z == k.Second
}

func (k ExchangeKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ExchangeKey) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseExchangeKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
