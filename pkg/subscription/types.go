package subscription

import "strconv"

// Feature is a usage-limited capability key persisted in featureLimits.
type Feature string

const (
	FeatureMockInterview   Feature = "mockInterview"
	FeatureResumeReview    Feature = "resumeReview"
	FeatureCodingChallenge Feature = "codingChallenge"
	FeatureAIFeedback      Feature = "aiFeedback"
)

// Limit is a usage count for a feature. Unlimited is the only negative value.
type Limit int64

const (
	// Unlimited indicates no usage cap (-1 kept from the SQL-friendly convention).
	Unlimited Limit = -1

	unlimitedValue = "unlimited"
)

// IsUnlimited reports whether the limit has no cap.
func (l Limit) IsUnlimited() bool {
	return l == Unlimited
}

// Value returns the persisted representation: the string "unlimited" or the count.
func (l Limit) Value() any {
	if l.IsUnlimited() {
		return unlimitedValue
	}
	return int64(l)
}

func (l Limit) String() string {
	if l.IsUnlimited() {
		return unlimitedValue
	}
	return strconv.FormatInt(int64(l), 10)
}

// ParseLimit converts a persisted value back into a Limit.
// Accepts "unlimited", integer types and float64 (JSON numbers).
func ParseLimit(v any) (Limit, bool) {
	switch val := v.(type) {
	case string:
		if val == unlimitedValue {
			return Unlimited, true
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return Limit(n), true
	case int:
		return Limit(val), val >= 0
	case int32:
		return Limit(val), val >= 0
	case int64:
		return Limit(val), val >= 0
	case float64:
		return Limit(val), val >= 0
	case Limit:
		return val, true
	default:
		return 0, false
	}
}

// SubscriptionStatus is the provider's subscription status, passed through as-is.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusUnpaid            SubscriptionStatus = "unpaid"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
)

// RevokesEntitlements reports whether the status drops the user back to the free plan.
func (s SubscriptionStatus) RevokesEntitlements() bool {
	switch s {
	case StatusCanceled, StatusUnpaid, StatusIncompleteExpired:
		return true
	default:
		return false
	}
}

// EventType represents the normalized billing event type.
// Each provider implementation maps its own event names to these types.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout_completed"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
)

// Metadata keys written into checkout sessions and read back from events.
const (
	MetadataUserID   = "userId"
	MetadataPlanID   = "planId"
	MetadataPlanName = "planName"
	MetadataPriceID  = "priceId"
)
