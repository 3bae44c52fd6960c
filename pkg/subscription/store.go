package subscription

import (
	"context"
	"time"
)

// EntitlementStore persists per-user entitlement records.
// The user id serves as the document key.
type EntitlementStore interface {
	// Merge applies the non-nil fields of the update to the user's record in
	// one atomic write, creating the record when it does not exist.
	// Fields the update leaves nil keep their stored value.
	Merge(ctx context.Context, userID string, update EntitlementUpdate) error
}

// Entitlement is the persisted per-user plan state.
type Entitlement struct {
	UserID              string
	Plan                string
	PlanName            string
	SubscriptionID      *string
	SubscriptionStatus  SubscriptionStatus
	SubscriptionEndDate *time.Time
	FeatureLimits       map[Feature]Limit
	UsageHistory        []any
	UpdatedAt           time.Time
}

// EntitlementUpdate is a merge instruction. Nil fields are left untouched.
// UpdatedAt is always written.
type EntitlementUpdate struct {
	Plan                *string
	PlanName            *string
	SubscriptionID      *string
	SubscriptionStatus  *SubscriptionStatus
	SubscriptionEndDate *time.Time
	FeatureLimits       map[Feature]Limit
	ResetUsageHistory   bool
	UpdatedAt           time.Time
}

// Apply merges the update into e in place.
func (u EntitlementUpdate) Apply(e *Entitlement) {
	if u.Plan != nil {
		e.Plan = *u.Plan
	}
	if u.PlanName != nil {
		e.PlanName = *u.PlanName
	}
	if u.SubscriptionID != nil {
		id := *u.SubscriptionID
		e.SubscriptionID = &id
	}
	if u.SubscriptionStatus != nil {
		e.SubscriptionStatus = *u.SubscriptionStatus
	}
	if u.SubscriptionEndDate != nil {
		end := *u.SubscriptionEndDate
		e.SubscriptionEndDate = &end
	}
	if u.FeatureLimits != nil {
		limits := make(map[Feature]Limit, len(u.FeatureLimits))
		for k, v := range u.FeatureLimits {
			limits[k] = v
		}
		e.FeatureLimits = limits
	}
	if u.ResetUsageHistory {
		e.UsageHistory = []any{}
	}
	e.UpdatedAt = u.UpdatedAt
}

// Fields returns the update as a flat document keyed by persisted field names.
// Document stores use it to build their merge-set operation.
func (u EntitlementUpdate) Fields() map[string]any {
	fields := map[string]any{
		"updatedAt": u.UpdatedAt,
	}
	if u.Plan != nil {
		fields["plan"] = *u.Plan
	}
	if u.PlanName != nil {
		fields["planName"] = *u.PlanName
	}
	if u.SubscriptionID != nil {
		fields["subscriptionId"] = *u.SubscriptionID
	}
	if u.SubscriptionStatus != nil {
		fields["subscriptionStatus"] = string(*u.SubscriptionStatus)
	}
	if u.SubscriptionEndDate != nil {
		fields["subscriptionEndDate"] = *u.SubscriptionEndDate
	}
	if u.FeatureLimits != nil {
		limits := make(map[string]any, len(u.FeatureLimits))
		for k, v := range u.FeatureLimits {
			limits[string(k)] = v.Value()
		}
		fields["featureLimits"] = limits
	}
	if u.ResetUsageHistory {
		fields["usageHistory"] = []any{}
	}
	return fields
}
