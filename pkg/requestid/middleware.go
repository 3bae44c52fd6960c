package requestid

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/planbridge/pkg/logger"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
)

type contextKey struct{}

// Middleware attaches a request id to the request context and echoes it in
// the response. Client-supplied ids are reused when well-formed.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if !isValidRequestID(requestID) {
			requestID = uuid.NewString()
		}

		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(contextKey{}).(string)
	return requestID
}

// LoggerExtractor adds the request id to every record logged with the request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if requestID := FromContext(ctx); requestID != "" {
			return logger.RequestID(requestID), true
		}
		return slog.Attr{}, false
	}
}

// isValidRequestID accepts 1..128 characters from [a-zA-Z0-9_-].
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
