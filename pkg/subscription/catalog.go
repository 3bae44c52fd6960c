package subscription

import (
	"errors"
	"fmt"
	"slices"
)

// Catalog is the process-wide, read-only registry of plans.
// The first plan passed to NewCatalog is the default.
type Catalog struct {
	plans []Plan
	index map[string]int
}

// NewCatalog validates and copies the given plans.
func NewCatalog(plans ...Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		plans: make([]Plan, 0, len(plans)),
		index: make(map[string]int, len(plans)),
	}

	for _, p := range plans {
		if err := validatePlan(p); err != nil {
			return nil, err
		}
		if _, exists := c.index[p.ID]; exists {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate plan id %q", p.ID))
		}
		c.index[p.ID] = len(c.plans)
		c.plans = append(c.plans, Plan{
			ID:       p.ID,
			Name:     p.Name,
			Features: slices.Clone(p.Features),
		})
	}

	return c, nil
}

// MustNewCatalog is like NewCatalog but panics on invalid configuration.
func MustNewCatalog(plans ...Plan) *Catalog {
	c, err := NewCatalog(plans...)
	if err != nil {
		panic(fmt.Sprintf("subscription: %v", err))
	}
	return c
}

// GetPlanByID returns the plan with the given id, or the default plan when
// the id is unknown. It never fails: an unknown id silently downgrades to the
// default entitlements instead of blocking a write.
func (c *Catalog) GetPlanByID(id string) Plan {
	if p, ok := c.Lookup(id); ok {
		return p
	}
	return c.Default()
}

// Lookup is the strict variant of GetPlanByID.
func (c *Catalog) Lookup(id string) (Plan, bool) {
	i, ok := c.index[id]
	if !ok {
		return Plan{}, false
	}
	return c.plans[i], true
}

// Default returns the first-declared plan.
func (c *Catalog) Default() Plan {
	return c.plans[0]
}

// Has reports whether the catalog declares a plan with the given id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Plans returns the plans in declaration order.
func (c *Catalog) Plans() []Plan {
	return slices.Clone(c.plans)
}

func validatePlan(p Plan) error {
	if p.ID == "" {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan id is empty"))
	}

	seen := make(map[Feature]struct{}, len(p.Features))
	for _, f := range p.Features {
		if f.Feature == "" {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has an empty feature key", p.ID))
		}
		if _, dup := seen[f.Feature]; dup {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s declares feature %s twice", p.ID, f.Feature))
		}
		if f.Limit < 0 && !f.Limit.IsUnlimited() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative limit %d for %s", p.ID, f.Limit, f.Feature))
		}
		seen[f.Feature] = struct{}{}
	}
	return nil
}
