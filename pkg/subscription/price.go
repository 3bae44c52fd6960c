package subscription

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// DefaultPriceMapping maps live Stripe price ids to catalog plans.
// Deployments override or extend it through configuration.
var DefaultPriceMapping = map[string]string{
	"price_1RfQ2nFZ0xVq8mJkPremiumM": PlanPremium,
	"price_1RfQ3bFZ0xVq8mJkProMonth": PlanPro,
}

// PriceResolver maps provider price ids to catalog plan ids.
type PriceResolver struct {
	mapping map[string]string
}

// NewPriceResolver builds a resolver, rejecting mappings that point at plans
// the catalog does not declare.
func NewPriceResolver(catalog *Catalog, mapping map[string]string) (*PriceResolver, error) {
	for _, priceID := range slices.Sorted(maps.Keys(mapping)) {
		planID := mapping[priceID]
		if !catalog.Has(planID) {
			return nil, errors.Join(ErrUnknownPlanInMapping,
				fmt.Errorf("price %s maps to %q", priceID, planID))
		}
	}
	return &PriceResolver{mapping: maps.Clone(mapping)}, nil
}

// MergePriceMappings returns base overlaid with overrides.
func MergePriceMappings(base, overrides map[string]string) map[string]string {
	merged := maps.Clone(base)
	if merged == nil {
		merged = make(map[string]string, len(overrides))
	}
	maps.Copy(merged, overrides)
	return merged
}

// ResolvePlanID picks the plan id for an event. First match wins:
//  1. the candidate price id found in the mapping
//  2. the plan id carried in the event metadata
//  3. FallbackPlanID
func (r *PriceResolver) ResolvePlanID(candidatePriceID, metadataPlanID string) string {
	if candidatePriceID != "" {
		if planID, ok := r.mapping[candidatePriceID]; ok {
			return planID
		}
	}
	if metadataPlanID != "" {
		return metadataPlanID
	}
	return FallbackPlanID
}

// PlanForPrice reports the mapped plan for a price id.
func (r *PriceResolver) PlanForPrice(priceID string) (string, bool) {
	planID, ok := r.mapping[priceID]
	return planID, ok
}
