package billing

import "time"

// Config holds the HTTP-facing billing settings.
type Config struct {
	FrontendURL     string        `env:"FRONTEND_URL"`                                                                  // Base for checkout success and cancel redirects.
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173,https://preponyx.web.app"` // Origins allowed to call the session endpoints.
	UsersCollection string        `env:"MONGODB_USERS_COLLECTION" envDefault:"users"`                                  // Collection holding one entitlement document per user.
	DedupTTL        time.Duration `env:"WEBHOOK_DEDUP_TTL" envDefault:"24h"`                                           // How long a processed event id is remembered.
}

// SuccessURL is where checkout sends the user after payment.
func (c Config) SuccessURL() string {
	return c.FrontendURL + "/dashboard?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL is where checkout sends the user when they back out.
func (c Config) CancelURL() string {
	return c.FrontendURL + "/pricing"
}
