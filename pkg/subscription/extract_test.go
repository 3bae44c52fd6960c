package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/planbridge/pkg/subscription"
)

func TestExtractPriceID_Checkout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		object       map[string]any
		wantPrice    string
		wantStrategy string
	}{
		{
			name: "metadata first",
			object: map[string]any{
				"metadata":   map[string]any{"priceId": "price_meta"},
				"line_items": map[string]any{"data": []any{map[string]any{"price": map[string]any{"id": "price_line"}}}},
			},
			wantPrice:    "price_meta",
			wantStrategy: "metadata",
		},
		{
			name: "legacy display item price",
			object: map[string]any{
				"metadata":      map[string]any{"userId": "u1"},
				"display_items": []any{map[string]any{"price": map[string]any{"id": "price_display"}}},
			},
			wantPrice:    "price_display",
			wantStrategy: "display_items",
		},
		{
			name: "legacy display item plan",
			object: map[string]any{
				"display_items": []any{map[string]any{"plan": map[string]any{"id": "plan_legacy"}}},
			},
			wantPrice:    "plan_legacy",
			wantStrategy: "display_items",
		},
		{
			name: "expanded line items",
			object: map[string]any{
				"metadata":   map[string]any{"priceId": "  "},
				"line_items": map[string]any{"data": []any{map[string]any{"price": map[string]any{"id": "price_line"}}}},
			},
			wantPrice:    "price_line",
			wantStrategy: "line_items",
		},
		{
			name: "expanded subscription",
			object: map[string]any{
				"subscription": map[string]any{
					"id":    "sub_1",
					"items": map[string]any{"data": []any{map[string]any{"price": map[string]any{"id": "price_sub"}}}},
				},
			},
			wantPrice:    "price_sub",
			wantStrategy: "subscription_items",
		},
		{
			name: "unexpanded subscription id only",
			object: map[string]any{
				"subscription": "sub_1",
			},
		},
		{
			name: "empty display items",
			object: map[string]any{
				"display_items": []any{},
			},
		},
		{
			name: "wrong shapes",
			object: map[string]any{
				"metadata":   "not a map",
				"line_items": []any{"x"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			price, strategy := subscription.ExtractPriceID(tt.object, subscription.CheckoutPriceStrategies)
			assert.Equal(t, tt.wantPrice, price)
			assert.Equal(t, tt.wantStrategy, strategy)
		})
	}
}

func TestExtractPriceID_Subscription(t *testing.T) {
	t.Parallel()

	t.Run("current item price beats metadata", func(t *testing.T) {
		t.Parallel()
		object := map[string]any{
			"metadata": map[string]any{"priceId": "price_original"},
			"items":    map[string]any{"data": []any{map[string]any{"price": map[string]any{"id": "price_current"}}}},
		}
		price, strategy := subscription.ExtractPriceID(object, subscription.SubscriptionPriceStrategies)
		assert.Equal(t, "price_current", price)
		assert.Equal(t, "items", strategy)
	})

	t.Run("legacy plan", func(t *testing.T) {
		t.Parallel()
		object := map[string]any{"plan": map[string]any{"id": "price_plan"}}
		price, strategy := subscription.ExtractPriceID(object, subscription.SubscriptionPriceStrategies)
		assert.Equal(t, "price_plan", price)
		assert.Equal(t, "plan", strategy)
	})

	t.Run("metadata last", func(t *testing.T) {
		t.Parallel()
		object := map[string]any{"metadata": map[string]any{"priceId": "price_original"}}
		price, strategy := subscription.ExtractPriceID(object, subscription.SubscriptionPriceStrategies)
		assert.Equal(t, "price_original", price)
		assert.Equal(t, "metadata", strategy)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Parallel()
		price, strategy := subscription.ExtractPriceID(map[string]any{}, subscription.SubscriptionPriceStrategies)
		assert.Empty(t, price)
		assert.Empty(t, strategy)
	})
}

func TestMetadataValue(t *testing.T) {
	t.Parallel()

	object := map[string]any{"metadata": map[string]any{"userId": " u1 ", "planId": 42}}
	assert.Equal(t, "u1", subscription.MetadataValue(object, subscription.MetadataUserID))
	assert.Empty(t, subscription.MetadataValue(object, subscription.MetadataPlanID))
	assert.Empty(t, subscription.MetadataValue(nil, subscription.MetadataUserID))
}
