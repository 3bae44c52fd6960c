package subscription

import "strings"

// PriceStrategy extracts a candidate price id from a provider event object.
type PriceStrategy struct {
	Name    string
	Extract func(object map[string]any) (string, bool)
}

// Payload shapes differ across provider API versions and integration paths,
// so each known location gets its own strategy. Order is precedence.
var (
	StrategyMetadata = PriceStrategy{
		Name: "metadata",
		Extract: func(o map[string]any) (string, bool) {
			return stringAt(o, "metadata", MetadataPriceID)
		},
	}

	StrategyDisplayItems = PriceStrategy{
		Name: "display_items",
		Extract: func(o map[string]any) (string, bool) {
			if id, ok := stringAt(o, "display_items", 0, "price", "id"); ok {
				return id, true
			}
			return stringAt(o, "display_items", 0, "plan", "id")
		},
	}

	StrategyLineItems = PriceStrategy{
		Name: "line_items",
		Extract: func(o map[string]any) (string, bool) {
			return stringAt(o, "line_items", "data", 0, "price", "id")
		},
	}

	StrategySubscriptionItems = PriceStrategy{
		Name: "subscription_items",
		Extract: func(o map[string]any) (string, bool) {
			return stringAt(o, "subscription", "items", "data", 0, "price", "id")
		},
	}

	StrategyItems = PriceStrategy{
		Name: "items",
		Extract: func(o map[string]any) (string, bool) {
			return stringAt(o, "items", "data", 0, "price", "id")
		},
	}

	StrategyLegacyPlan = PriceStrategy{
		Name: "plan",
		Extract: func(o map[string]any) (string, bool) {
			return stringAt(o, "plan", "id")
		},
	}
)

// CheckoutPriceStrategies applies to checkout session objects.
var CheckoutPriceStrategies = []PriceStrategy{
	StrategyMetadata,
	StrategyDisplayItems,
	StrategyLineItems,
	StrategySubscriptionItems,
}

// SubscriptionPriceStrategies applies to subscription objects. The current
// item price comes before metadata, which still holds the price chosen at checkout.
var SubscriptionPriceStrategies = []PriceStrategy{
	StrategyItems,
	StrategyLegacyPlan,
	StrategyMetadata,
}

// ExtractPriceID runs the strategies in order and returns the first
// non-empty value with the name of the strategy that produced it.
func ExtractPriceID(object map[string]any, strategies []PriceStrategy) (priceID, strategy string) {
	for _, s := range strategies {
		if id, ok := s.Extract(object); ok {
			return id, s.Name
		}
	}
	return "", ""
}

// MetadataValue reads a string from the object's metadata map.
func MetadataValue(object map[string]any, key string) string {
	v, _ := stringAt(object, "metadata", key)
	return v
}

// stringAt walks nested maps (string keys) and slices (int indexes) and
// returns a non-blank string at the end of the path.
func stringAt(v any, path ...any) (string, bool) {
	cur := v
	for _, p := range path {
		switch key := p.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return "", false
			}
			cur = m[key]
		case int:
			s, ok := cur.([]any)
			if !ok || key < 0 || key >= len(s) {
				return "", false
			}
			cur = s[key]
		default:
			return "", false
		}
	}

	s, ok := cur.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// int64At is stringAt for numeric leaves; JSON numbers decode as float64.
func int64At(v any, path ...any) (int64, bool) {
	cur := v
	for _, p := range path {
		key, ok := p.(string)
		if !ok {
			return 0, false
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		cur = m[key]
	}

	switch n := cur.(type) {
	case float64:
		return int64(n), n > 0
	case int64:
		return n, n > 0
	case int:
		return int64(n), n > 0
	default:
		return 0, false
	}
}
