package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
)

// MockAccountStore is an in-memory store.AccountStore.
type MockAccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]domain.Account

	// Optional overrides
	CreateFn func(ctx context.Context, account *domain.Account) error
	UpdateFn func(ctx context.Context, account *domain.Account) error
	GetFn    func(ctx context.Context) error // consulted before every lookup

	UpdateCalls int
}

// NewMockAccountStore creates an empty store.
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{accounts: make(map[uuid.UUID]domain.Account)}
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// Seed inserts accounts directly, bypassing uniqueness checks.
func (m *MockAccountStore) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = *a
	}
}

// Count returns the number of stored accounts.
func (m *MockAccountStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

// Snapshot returns a copy of the stored account, or nil.
func (m *MockAccountStore) Snapshot(id uuid.UUID) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

// Create implements store.AccountStore.
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(account); err != nil {
		return err
	}
	m.accounts[account.ID] = *account
	return nil
}

// Update implements store.AccountStore.
func (m *MockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, account)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return store.ErrAccountNotFound
	}
	if err := m.checkUnique(account); err != nil {
		return err
	}
	m.accounts[account.ID] = *account
	return nil
}

// checkUnique mirrors the schema's unique constraints. Callers hold mu.
func (m *MockAccountStore) checkUnique(account *domain.Account) error {
	for id, other := range m.accounts {
		if id == account.ID {
			continue
		}
		switch {
		case other.Username == account.Username:
			return store.ErrUsernameExists
		case strings.EqualFold(other.Email, account.Email):
			return store.ErrEmailExists
		case account.PhoneNumber != "" && other.PhoneNumber == account.PhoneNumber:
			return store.ErrPhoneExists
		}
	}
	return nil
}

// GetByID implements store.AccountStore.
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return m.find(ctx, func(a domain.Account) bool { return a.ID == id })
}

// GetByUsername implements store.AccountStore.
func (m *MockAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return m.find(ctx, func(a domain.Account) bool { return a.Username == username })
}

// GetByEmail implements store.AccountStore.
func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return m.find(ctx, func(a domain.Account) bool { return strings.EqualFold(a.Email, email) })
}

// GetByPhoneNumber implements store.AccountStore.
func (m *MockAccountStore) GetByPhoneNumber(ctx context.Context, phone string) (*domain.Account, error) {
	if phone == "" {
		return nil, store.ErrAccountNotFound
	}
	return m.find(ctx, func(a domain.Account) bool { return a.PhoneNumber == phone })
}

func (m *MockAccountStore) find(ctx context.Context, match func(domain.Account) bool) (*domain.Account, error) {
	if m.GetFn != nil {
		if err := m.GetFn(ctx); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// WithTx returns the store itself; the fake has no transactions.
func (m *MockAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return m
}
