package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/planbridge/pkg/logger"
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(context.Context) error
}

const healthCheckTimeout = 3 * time.Second

// HealthCheckHandler serves liveness and readiness probes.
//
//   - Liveness: with no checks it answers 200 "ALIVE".
//   - Readiness: every check runs with the request context and a short
//     timeout. All passing gives 200 "READY"; the first failure gives
//     503 "NOT_READY".
func HealthCheckHandler(log *slog.Logger, checks ...HealthCheck) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					slog.String("check", c.Name),
					logger.Error(err),
					logger.Component("httpserver"),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
