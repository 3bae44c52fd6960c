package subscription

import (
	"context"
	"sync"
)

// MemoryStore is an in-process EntitlementStore for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Entitlement
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Entitlement)}
}

// Merge implements EntitlementStore.
func (s *MemoryStore) Merge(ctx context.Context, userID string, update EntitlementUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = &Entitlement{UserID: userID}
		s.records[userID] = rec
	}
	update.Apply(rec)
	return nil
}

// Get returns a copy of the user's record.
// Returns ErrEntitlementNotFound if nothing has been written for the user.
func (s *MemoryStore) Get(_ context.Context, userID string) (*Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrEntitlementNotFound
	}
	cp := *rec
	return &cp, nil
}
