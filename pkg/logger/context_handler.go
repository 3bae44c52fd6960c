package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one request-scoped attribute out of a context.
// It reports false when the context does not carry the value.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextHandler adds the attributes of its extractors to every record
// before passing it to the wrapped handler.
type ContextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewContextHandler wraps next. Nil extractors are dropped.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) *ContextHandler {
	h := &ContextHandler{next: next}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	return h
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle runs the extractors against the record's context. Empty attributes
// are skipped, so extractors may return slog.Attr{} with ok set.
func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok || attr.Equal(slog.Attr{}) {
			continue
		}
		rec.AddAttrs(attr)
	}
	return h.next.Handle(ctx, rec)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
