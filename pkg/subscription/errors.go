package subscription

import "errors"

var (
	ErrInvalidPlanConfiguration = errors.New("invalid subscription plan configuration")
	ErrEmptyCatalog             = errors.New("subscription plan catalog is empty")
	ErrUnknownPlanInMapping     = errors.New("price mapping references unknown plan")

	ErrStoreWriteFailed    = errors.New("failed to write entitlement record")
	ErrEntitlementNotFound = errors.New("entitlement record not found")

	// Provider-specific errors
	ErrMissingAPIKey             = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret      = errors.New("billing provider webhook secret is required")
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrInvalidWebhookPayload     = errors.New("invalid webhook payload")
	ErrNoCheckoutURL             = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL               = errors.New("no portal URL returned from provider")
	ErrMissingPriceID            = errors.New("price ID is required")
	ErrMissingCustomerID         = errors.New("customer ID is required")
	ErrMissingUserID             = errors.New("user ID is required")
	ErrMissingSubscriptionID     = errors.New("subscription ID is required")
	ErrProviderError             = errors.New("subscription provider error")
)

// ProviderError carries the provider's own failure message so HTTP handlers
// can surface it. It matches ErrProviderError with errors.Is.
type ProviderError struct {
	Op         string
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrProviderError.Error()
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProviderError}
	}
	return []error{ErrProviderError, e.Err}
}
