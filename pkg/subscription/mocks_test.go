package subscription_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/planbridge/pkg/subscription"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Merge(ctx context.Context, userID string, update subscription.EntitlementUpdate) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckoutLink(ctx context.Context, req subscription.CheckoutRequest) (*subscription.CheckoutLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.CheckoutLink), args.Error(1)
}

func (m *mockProvider) GetCustomerPortalLink(ctx context.Context, req subscription.PortalRequest) (*subscription.PortalLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.PortalLink), args.Error(1)
}

func (m *mockProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*subscription.WebhookEvent, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.WebhookEvent), args.Error(1)
}

func (m *mockProvider) GetSubscription(ctx context.Context, subscriptionID string) (*subscription.ProviderSubscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.ProviderSubscription), args.Error(1)
}
