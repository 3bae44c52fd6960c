package billing_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/planbridge/pkg/subscription"
)

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

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Merge(ctx context.Context, userID string, update subscription.EntitlementUpdate) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

// memoryDeduper is an in-process Deduper that records releases.
type memoryDeduper struct {
	mu       sync.Mutex
	claimed  map[string]bool
	released []string
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{claimed: make(map[string]bool)}
}

func (d *memoryDeduper) Claim(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimed[eventID] {
		return false, nil
	}
	d.claimed[eventID] = true
	return true, nil
}

func (d *memoryDeduper) Release(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claimed, eventID)
	d.released = append(d.released, eventID)
	return nil
}
