package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
)

// MockPendingEmailStore is an in-memory store.PendingEmailStore keyed by
// account id.
type MockPendingEmailStore struct {
	mu      sync.Mutex
	pending map[uuid.UUID]domain.PendingEmailChange

	UpsertFn func(ctx context.Context, change *domain.PendingEmailChange) error
}

// NewMockPendingEmailStore creates an empty store.
func NewMockPendingEmailStore() *MockPendingEmailStore {
	return &MockPendingEmailStore{pending: make(map[uuid.UUID]domain.PendingEmailChange)}
}

var _ store.PendingEmailStore = (*MockPendingEmailStore)(nil)

// Count returns the number of pending changes.
func (m *MockPendingEmailStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Upsert implements store.PendingEmailStore.
func (m *MockPendingEmailStore) Upsert(ctx context.Context, change *domain.PendingEmailChange) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, change)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[change.AccountID] = *change
	return nil
}

// GetByAccountID implements store.PendingEmailStore.
func (m *MockPendingEmailStore) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.PendingEmailChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[accountID]
	if !ok {
		return nil, store.ErrPendingEmailNotFound
	}
	return &p, nil
}

// DeleteByAccountID implements store.PendingEmailStore.
func (m *MockPendingEmailStore) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[accountID]; !ok {
		return store.ErrPendingEmailNotFound
	}
	delete(m.pending, accountID)
	return nil
}

// WithTx returns the store itself.
func (m *MockPendingEmailStore) WithTx(tx *sql.Tx) store.PendingEmailStore {
	return m
}
