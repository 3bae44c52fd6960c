package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// EventID records the provider event identifier under the key "event_id".
// An empty id yields an empty Attr.
func EventID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("event_id", id)
}

// EventType records the event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// PlanID records the plan identifier under the key "plan_id".
func PlanID(id string) slog.Attr {
	return slog.String("plan_id", id)
}

// PriceID records the provider price identifier under the key "price_id".
// An empty id yields an empty Attr.
func PriceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("price_id", id)
}

// SubscriptionID records the provider subscription identifier under the key "subscription_id".
// An empty id yields an empty Attr.
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

// SubscriptionStatus records the subscription status under the key "subscription_status".
func SubscriptionStatus(status string) slog.Attr {
	return slog.String("subscription_status", status)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Handler records the handler name under the key "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}
