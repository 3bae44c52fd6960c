package subscription

import (
	"context"
	"time"
)

// BillingProvider defines the minimal interface for payment provider integrations.
// Hosted checkout and customer portal keep card data out of this service.
//
// Implementations use the official provider SDK and normalize provider quirks
// internally (event names, metadata placement, API version drift).
type BillingProvider interface {
	// CreateCheckoutLink creates a hosted checkout session.
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)

	// GetCustomerPortalLink returns a temporary link to the customer portal
	// where users can update payment methods, cancel, or change plans.
	GetCustomerPortalLink(ctx context.Context, req PortalRequest) (*PortalLink, error)

	// ParseWebhook validates and parses incoming webhook data.
	// Must validate signature to prevent webhook spoofing attacks.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)

	// GetSubscription fetches the current state of a subscription.
	GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	PriceID    string // Provider's price identifier
	PlanID     string // Catalog plan the price belongs to
	PlanName   string // Display name, echoed back through metadata
	UserID     string // Internal user id, echoed back through metadata
	Email      string // Optional billing email
	SuccessURL string // Redirect after successful payment
	CancelURL  string // Redirect if customer cancels
}

// Metadata is the key set attached to the session and the subscription it creates.
func (r CheckoutRequest) Metadata() map[string]string {
	return map[string]string{
		MetadataPlanID:   r.PlanID,
		MetadataPlanName: r.PlanName,
		MetadataPriceID:  r.PriceID,
		MetadataUserID:   r.UserID,
	}
}

// PortalRequest contains data needed to open a customer portal session.
type PortalRequest struct {
	CustomerID string // Provider's customer identifier
	ReturnURL  string // Where the portal sends the user back to
}

// CheckoutLink represents a hosted checkout session.
type CheckoutLink struct {
	URL       string    // Hosted checkout URL
	SessionID string    // Provider's session identifier
	ExpiresAt time.Time // Link expiration
}

// PortalLink represents a customer portal session.
type PortalLink struct {
	URL       string // Pre-authenticated customer portal URL
	SessionID string // Provider's session identifier
}

// WebhookEvent represents a verified and normalized webhook event.
type WebhookEvent struct {
	ID            string         // Provider event id, used for dedup
	Type          EventType      // Normalized event type; empty when unmapped
	ProviderEvent string         // Original provider event name
	Object        map[string]any // The event's data object as decoded JSON
}

// ProviderSubscription is the subset of a provider subscription the reconciler reads.
type ProviderSubscription struct {
	ID               string
	Status           SubscriptionStatus
	PriceID          string
	CurrentPeriodEnd *time.Time
}
