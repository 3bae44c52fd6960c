package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/planbridge/pkg/subscription"
)

func ptr[T any](v T) *T { return &v }

func TestEntitlementUpdate_Fields(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(30 * 24 * time.Hour)

	t.Run("full update", func(t *testing.T) {
		t.Parallel()
		update := subscription.EntitlementUpdate{
			Plan:                ptr("pro"),
			PlanName:            ptr("Pro"),
			SubscriptionID:      ptr("sub_1"),
			SubscriptionStatus:  ptr(subscription.StatusActive),
			SubscriptionEndDate: &end,
			FeatureLimits: map[subscription.Feature]subscription.Limit{
				subscription.FeatureMockInterview: subscription.Unlimited,
				subscription.FeatureAIFeedback:    50,
			},
			ResetUsageHistory: true,
			UpdatedAt:         now,
		}

		assert.Equal(t, map[string]any{
			"plan":                "pro",
			"planName":            "Pro",
			"subscriptionId":      "sub_1",
			"subscriptionStatus":  "active",
			"subscriptionEndDate": end,
			"featureLimits": map[string]any{
				"mockInterview": "unlimited",
				"aiFeedback":    int64(50),
			},
			"usageHistory": []any{},
			"updatedAt":    now,
		}, update.Fields())
	})

	t.Run("status only", func(t *testing.T) {
		t.Parallel()
		update := subscription.EntitlementUpdate{
			SubscriptionStatus: ptr(subscription.StatusTrialing),
			UpdatedAt:          now,
		}
		assert.Equal(t, map[string]any{
			"subscriptionStatus": "trialing",
			"updatedAt":          now,
		}, update.Fields())
	})
}

func TestMemoryStore_Merge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := subscription.NewMemoryStore()

	_, err := store.Get(ctx, "u1")
	require.ErrorIs(t, err, subscription.ErrEntitlementNotFound)

	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Merge(ctx, "u1", subscription.EntitlementUpdate{
		Plan:               ptr("premium"),
		PlanName:           ptr("Premium"),
		SubscriptionID:     ptr("sub_1"),
		SubscriptionStatus: ptr(subscription.StatusActive),
		FeatureLimits:      map[subscription.Feature]subscription.Limit{subscription.FeatureAIFeedback: 50},
		ResetUsageHistory:  true,
		UpdatedAt:          t0,
	}))

	t1 := t0.Add(time.Hour)
	require.NoError(t, store.Merge(ctx, "u1", subscription.EntitlementUpdate{
		SubscriptionStatus: ptr(subscription.StatusPastDue),
		UpdatedAt:          t1,
	}))

	rec, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "premium", rec.Plan, "unset fields keep their value")
	assert.Equal(t, "Premium", rec.PlanName)
	require.NotNil(t, rec.SubscriptionID)
	assert.Equal(t, "sub_1", *rec.SubscriptionID)
	assert.Equal(t, subscription.StatusPastDue, rec.SubscriptionStatus)
	assert.Equal(t, subscription.Limit(50), rec.FeatureLimits[subscription.FeatureAIFeedback])
	assert.Equal(t, []any{}, rec.UsageHistory)
	assert.Equal(t, t1, rec.UpdatedAt)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := subscription.NewMemoryStore().Merge(ctx, "u1", subscription.EntitlementUpdate{})
	assert.ErrorIs(t, err, context.Canceled)
}
