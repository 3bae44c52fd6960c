package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// StripeConfig holds configuration for the Stripe billing provider.
// Empty secrets are allowed at startup; calls that need them fail with
// ErrMissingAPIKey or ErrMissingWebhookSecret.
type StripeConfig struct {
	SecretKey     string            `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string            `env:"STRIPE_WEBHOOK_SECRET"`
	PricePlans    map[string]string `env:"STRIPE_PRICE_PLANS" envKeyValSeparator:":"` // price_x:premium,price_y:pro
}

// Stripe event names handled by the reconciler.
const (
	stripeCheckoutSessionCompleted = "checkout.session.completed"
	stripeSubscriptionUpdated      = "customer.subscription.updated"
	stripeSubscriptionDeleted      = "customer.subscription.deleted"
)

// StripeProvider implements BillingProvider for Stripe.
type StripeProvider struct {
	client   *client.API
	backends *stripe.Backends
	config   StripeConfig
}

var _ BillingProvider = (*StripeProvider)(nil)

// StripeOption configures a StripeProvider.
type StripeOption func(*StripeProvider)

// WithStripeBackends routes API calls through custom backends, e.g. a local
// stub server in tests.
func WithStripeBackends(b *stripe.Backends) StripeOption {
	return func(p *StripeProvider) {
		p.backends = b
	}
}

// NewStripeProvider creates a Stripe billing provider. The API client is
// created once and shared by all requests.
func NewStripeProvider(config StripeConfig, opts ...StripeOption) *StripeProvider {
	p := &StripeProvider{config: config}
	for _, opt := range opts {
		opt(p)
	}
	if config.SecretKey != "" {
		p.client = client.New(config.SecretKey, p.backends)
	}
	return p
}

// CreateCheckoutLink creates a subscription-mode hosted checkout session.
// The request metadata is attached both to the session and to the
// subscription it creates, so later subscription events carry the user id.
func (p *StripeProvider) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if p.client == nil {
		return nil, ErrMissingAPIKey
	}
	if req.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if req.UserID == "" {
		return nil, ErrMissingUserID
	}

	metadata := req.Metadata()
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}},
		BillingAddressCollection: stripe.String("required"),
		Locale:                   stripe.String("auto"),
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		Metadata:                 metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: maps.Clone(metadata),
		},
	}
	params.Context = ctx
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	sess, err := p.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("create checkout session", err)
	}
	if sess.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	link := &CheckoutLink{
		URL:       sess.URL,
		SessionID: sess.ID,
	}
	if sess.ExpiresAt > 0 {
		link.ExpiresAt = time.Unix(sess.ExpiresAt, 0).UTC()
	}
	return link, nil
}

// GetCustomerPortalLink opens a billing portal session for a Stripe customer.
func (p *StripeProvider) GetCustomerPortalLink(ctx context.Context, req PortalRequest) (*PortalLink, error) {
	if p.client == nil {
		return nil, ErrMissingAPIKey
	}
	if req.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(req.ReturnURL),
	}
	params.Context = ctx

	sess, err := p.client.BillingPortalSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("create billing portal session", err)
	}
	if sess.URL == "" {
		return nil, ErrNoPortalURL
	}

	return &PortalLink{URL: sess.URL, SessionID: sess.ID}, nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw payload
// and decodes the event's data object. API version mismatches between the
// account and the SDK are tolerated; the object is read as a plain map.
func (p *StripeProvider) ParseWebhook(_ context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	if p.config.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookVerificationFailed, err)
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: event %s has no data object", ErrInvalidWebhookPayload, event.ID)
	}

	var object map[string]any
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return nil, errors.Join(ErrInvalidWebhookPayload, err)
	}

	return &WebhookEvent{
		ID:            event.ID,
		Type:          mapStripeEventType(string(event.Type)),
		ProviderEvent: string(event.Type),
		Object:        object,
	}, nil
}

// GetSubscription fetches a subscription by id.
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	if p.client == nil {
		return nil, ErrMissingAPIKey
	}
	if subscriptionID == "" {
		return nil, ErrMissingSubscriptionID
	}

	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.client.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, wrapStripeError("get subscription", err)
	}

	out := &ProviderSubscription{
		ID:     sub.ID,
		Status: SubscriptionStatus(sub.Status),
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		out.CurrentPeriodEnd = &end
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out, nil
}

// mapStripeEventType returns the normalized type, or "" for events the
// reconciler does not handle.
func mapStripeEventType(eventType string) EventType {
	switch eventType {
	case stripeCheckoutSessionCompleted:
		return EventCheckoutCompleted
	case stripeSubscriptionUpdated:
		return EventSubscriptionUpdated
	case stripeSubscriptionDeleted:
		return EventSubscriptionDeleted
	default:
		return ""
	}
}

func wrapStripeError(op string, err error) error {
	perr := &ProviderError{Op: op, Err: err}
	var se *stripe.Error
	if errors.As(err, &se) {
		perr.Message = se.Msg
		perr.StatusCode = se.HTTPStatusCode
	}
	return perr
}
