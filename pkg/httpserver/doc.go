// Package httpserver wraps net/http with graceful shutdown, env-driven
// timeouts and health-check handlers.
//
// Run blocks until the context is canceled or the process receives SIGINT or
// SIGTERM, then calls http.Server.Shutdown with the configured deadline.
// Lifecycle messages and the server's internal error log go to the logger
// supplied through WithLogger.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server exited", logger.Error(err))
//	}
//
// HealthCheckHandler serves /healthz without checks and /readyz with one
// HealthCheck per dependency (document store, cache).
//
// Start and shutdown failures are joined with ErrStart and ErrShutdown.
package httpserver
