package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/planbridge/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	attr := logger.UserID("u1")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "u1", attr.Value.Any())
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())
}

func TestBillingAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		val  string
	}{
		{name: "event id", attr: logger.EventID("evt_1"), key: "event_id", val: "evt_1"},
		{name: "event type", attr: logger.EventType("checkout.session.completed"), key: "event_type", val: "checkout.session.completed"},
		{name: "plan id", attr: logger.PlanID("pro"), key: "plan_id", val: "pro"},
		{name: "price id", attr: logger.PriceID("price_1"), key: "price_id", val: "price_1"},
		{name: "subscription id", attr: logger.SubscriptionID("sub_1"), key: "subscription_id", val: "sub_1"},
		{name: "subscription status", attr: logger.SubscriptionStatus("active"), key: "subscription_status", val: "active"},
		{name: "component", attr: logger.Component("reconciler"), key: "component", val: "reconciler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.val, tt.attr.Value.String())
		})
	}
}

func TestEmptyIdentifiersYieldEmptyAttr(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.EventID("").Equal(slog.Attr{}))
	assert.True(t, logger.PriceID("").Equal(slog.Attr{}))
	assert.True(t, logger.SubscriptionID("").Equal(slog.Attr{}))
	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
}
