package billing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/planbridge/pkg/httpserver"
	"github.com/dmitrymomot/planbridge/pkg/requestid"
)

// RouterOptions configures the billing router.
type RouterOptions struct {
	Handler         *Handler
	AllowedOrigins  []string
	ReadinessChecks []httpserver.HealthCheck
	Logger          *slog.Logger
}

// Router mounts the billing endpoints and health probes.
//
// The session endpoints sit behind the CORS allow-list. The webhook endpoint
// is called by Stripe servers only and gets no CORS headers.
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", httpserver.HealthCheckHandler(opts.Logger))
	r.Get("/readyz", httpserver.HealthCheckHandler(opts.Logger, opts.ReadinessChecks...))

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Post("/create-checkout-session", opts.Handler.CreateCheckoutSession)
		r.Options("/create-checkout-session", preflight)
		r.Post("/create-customer-portal-session", opts.Handler.CreateCustomerPortalSession)
		r.Options("/create-customer-portal-session", preflight)
	})

	r.Post("/stripe-webhook", opts.Handler.StripeWebhook)

	return r
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
