package model

import "fmt"

// Kind identifies the type of data a collector returns.
type Kind int

const (
	KindProduction Kind = iota
	KindConsumption
	KindExchange
	KindExchangeForecast
	KindPrice
	KindGenerationForecast
	KindConsumptionForecast
	KindProductionPerUnit
	KindProductionPerModeForecast
)

// Kinds lists every data kind in declaration order.
var Kinds = []Kind{
	KindProduction,
	KindConsumption,
	KindExchange,
	KindExchangeForecast,
	KindPrice,
	KindGenerationForecast,
	KindConsumptionForecast,
	KindProductionPerUnit,
	KindProductionPerModeForecast,
}

// String returns the key used for the kind in zone configuration files.
func (k Kind) String() string {
	switch k {
	case KindProduction:
		return "production"
	case KindConsumption:
		return "consumption"
	case KindExchange:
		return "exchange"
	case KindExchangeForecast:
		return "exchangeForecast"
	case KindPrice:
		return "price"
	case KindGenerationForecast:
		return "generationForecast"
	case KindConsumptionForecast:
		return "consumptionForecast"
	case KindProductionPerUnit:
		return "productionPerUnit"
	case KindProductionPerModeForecast:
		return "productionPerModeForecast"
	default:
		return "unknown"
	}
}

// IsExchange reports whether the kind is keyed by a zone pair.
func (k Kind) IsExchange() bool {
	return k == KindExchange || k == KindExchangeForecast
}

// ParseKind converts a configuration key back into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown data kind: %s", s)
}
