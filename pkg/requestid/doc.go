// Package requestid propagates a per-request correlation id.
//
// Middleware reuses a well-formed X-Request-ID header or generates a UUIDv4,
// stores it in the request context and echoes it back in the response.
// LoggerExtractor plugs into logger.WithContextExtractors so log records
// written with the request context carry a request_id attribute.
package requestid
