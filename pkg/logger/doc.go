// Package logger builds *slog.Logger instances through functional options and
// provides attribute helpers that keep key names consistent across the service.
//
// New picks a text or JSON handler, attaches static attributes, and wraps the
// result in ContextHandler, which runs every registered ContextExtractor
// on each record. The request id middleware exposes such an extractor so that
// every log line written while serving a request carries its id.
//
// NewFromConfig is the entry point used by the server binary: it maps APP_ENV
// to environment defaults (JSON for production and staging, text with debug
// level otherwise) and applies LOG_LEVEL on top.
//
// # Usage
//
//	log := logger.NewFromConfig(cfg,
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	log.InfoContext(ctx, "entitlements reconciled",
//		logger.UserID(userID),
//		logger.EventID(event.ID),
//		logger.PlanID(plan.ID),
//	)
//
// Error, Errors, EventID, PriceID and SubscriptionID return an empty attribute
// for zero input, so callers do not need nil or empty checks.
package logger
