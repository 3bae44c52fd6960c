package billing

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/planbridge/pkg/binder"
	"github.com/dmitrymomot/planbridge/pkg/logger"
	"github.com/dmitrymomot/planbridge/pkg/subscription"
	"github.com/dmitrymomot/planbridge/pkg/validator"
)

// Client-facing error messages.
const (
	msgMissingEnv       = "Missing environment variables"
	msgMissingFields    = "Missing required fields"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid request body"
	msgUnknownError     = "Unknown error"
	msgStoreFailure     = "Failed to update entitlements"
)

// StripeSignatureHeader carries the webhook signature.
const StripeSignatureHeader = "Stripe-Signature"

// CheckoutSessionRequest is the body of POST /create-checkout-session.
type CheckoutSessionRequest struct {
	PlanID    string `json:"planId"`
	PlanName  string `json:"planName"`
	PriceID   string `json:"priceId"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail,omitempty"`
}

// PortalSessionRequest is the body of POST /create-customer-portal-session.
type PortalSessionRequest struct {
	CustomerID string `json:"customerId"`
	ReturnURL  string `json:"returnUrl"`
}

// Handler serves the checkout, portal and webhook endpoints.
type Handler struct {
	config     Config
	provider   subscription.BillingProvider
	reconciler *subscription.Reconciler
	deduper    Deduper
	logger     *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithDeduper enables webhook event deduplication.
func WithDeduper(d Deduper) HandlerOption {
	return func(h *Handler) {
		if d != nil {
			h.deduper = d
		}
	}
}

// NewHandler creates a Handler. The provider and reconciler are shared by all requests.
func NewHandler(cfg Config, provider subscription.BillingProvider, reconciler *subscription.Reconciler, opts ...HandlerOption) *Handler {
	h := &Handler{
		config:     cfg,
		provider:   provider,
		reconciler: reconciler,
		deduper:    NoOpDeduper{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateCheckoutSession opens a hosted subscription checkout and returns its URL.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.config.FrontendURL == "" {
		h.logger.ErrorContext(ctx, "frontend url is not configured", logger.Handler("create_checkout_session"))
		respondError(w, http.StatusInternalServerError, msgMissingEnv)
		return
	}

	var req CheckoutSessionRequest
	if err := binder.JSON(r, &req); err != nil {
		if errors.Is(err, binder.ErrEmptyBody) {
			respondError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := validator.Apply(
		validator.Required("planId", req.PlanID),
		validator.Required("planName", req.PlanName),
		validator.Required("priceId", req.PriceID),
		validator.Required("userId", req.UserID),
	); err != nil {
		h.logger.DebugContext(ctx, "checkout request rejected",
			logger.Error(err),
			logger.Handler("create_checkout_session"),
		)
		respondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	link, err := h.provider.CreateCheckoutLink(ctx, subscription.CheckoutRequest{
		PriceID:    req.PriceID,
		PlanID:     req.PlanID,
		PlanName:   req.PlanName,
		UserID:     req.UserID,
		Email:      req.UserEmail,
		SuccessURL: h.config.SuccessURL(),
		CancelURL:  h.config.CancelURL(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create checkout session",
			logger.UserID(req.UserID),
			logger.PriceID(req.PriceID),
			logger.Error(err),
			logger.Handler("create_checkout_session"),
		)
		respondError(w, http.StatusInternalServerError, providerMessage(err))
		return
	}

	h.logger.InfoContext(ctx, "checkout session created",
		logger.UserID(req.UserID),
		logger.PlanID(req.PlanID),
		logger.PriceID(req.PriceID),
		logger.Handler("create_checkout_session"),
	)
	respondJSON(w, http.StatusOK, urlResponse{URL: link.URL})
}

// CreateCustomerPortalSession opens a billing portal session and returns its URL.
func (h *Handler) CreateCustomerPortalSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PortalSessionRequest
	if err := binder.JSON(r, &req); err != nil {
		if errors.Is(err, binder.ErrEmptyBody) {
			respondError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := validator.Apply(
		validator.Required("customerId", req.CustomerID),
		validator.Required("returnUrl", req.ReturnURL),
	); err != nil {
		respondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	link, err := h.provider.GetCustomerPortalLink(ctx, subscription.PortalRequest{
		CustomerID: req.CustomerID,
		ReturnURL:  req.ReturnURL,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create customer portal session",
			slog.String("customer_id", req.CustomerID),
			logger.Error(err),
			logger.Handler("create_customer_portal_session"),
		)
		respondError(w, http.StatusInternalServerError, providerMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, urlResponse{URL: link.URL})
}

// StripeWebhook verifies a Stripe event and reconciles the user's entitlements.
// Only a failed store write answers 500, so Stripe redelivers.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := binder.Raw(r, binder.DefaultMaxBodySize)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read webhook body",
			logger.Error(err),
			logger.Handler("stripe_webhook"),
		)
		respondText(w, http.StatusBadRequest, "Raw body error: "+err.Error())
		return
	}

	event, err := h.provider.ParseWebhook(ctx, payload, r.Header.Get(StripeSignatureHeader))
	if err != nil {
		if errors.Is(err, subscription.ErrMissingWebhookSecret) {
			h.logger.ErrorContext(ctx, "webhook secret is not configured", logger.Handler("stripe_webhook"))
			respondText(w, http.StatusInternalServerError, msgMissingEnv)
			return
		}
		h.logger.WarnContext(ctx, "webhook verification failed",
			logger.Error(err),
			logger.Handler("stripe_webhook"),
		)
		respondText(w, http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	claimed, err := h.deduper.Claim(ctx, event.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "event dedup unavailable, processing anyway",
			logger.EventID(event.ID),
			logger.Error(err),
			logger.Handler("stripe_webhook"),
		)
		claimed = true
	} else if !claimed {
		h.logger.InfoContext(ctx, "duplicate webhook event acknowledged",
			logger.EventID(event.ID),
			logger.EventType(event.ProviderEvent),
			logger.Handler("stripe_webhook"),
		)
		respondJSON(w, http.StatusOK, webhookResponse{Received: true, Duplicate: true})
		return
	}

	if _, err := h.reconciler.Reconcile(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to reconcile webhook event",
			logger.EventID(event.ID),
			logger.EventType(event.ProviderEvent),
			logger.Error(err),
			logger.Handler("stripe_webhook"),
		)
		if relErr := h.deduper.Release(ctx, event.ID); relErr != nil {
			h.logger.WarnContext(ctx, "failed to release event claim",
				logger.EventID(event.ID),
				logger.Error(relErr),
				logger.Handler("stripe_webhook"),
			)
		}
		respondText(w, http.StatusInternalServerError, msgStoreFailure)
		return
	}

	respondJSON(w, http.StatusOK, webhookResponse{Received: true})
}

// providerMessage surfaces the payment provider's own message to the client.
func providerMessage(err error) string {
	if errors.Is(err, subscription.ErrMissingAPIKey) {
		return msgMissingEnv
	}
	var perr *subscription.ProviderError
	if errors.As(err, &perr) {
		return perr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgUnknownError
}
