package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
type AccountStore interface {
	// Create saves a new account.
	// Returns ErrUsernameExists, ErrEmailExists or ErrPhoneExists when a
	// unique column is already taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByUsername retrieves an account by username (exact match).
	// Returns ErrAccountNotFound if the account does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// GetByEmail retrieves an account by email address (case-insensitive).
	// Returns ErrAccountNotFound if the account does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByPhoneNumber retrieves an account by phone number.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByPhoneNumber(ctx context.Context, phone string) (*domain.Account, error)

	// Update persists every mutable column of account.
	// Returns ErrAccountNotFound if the account does not exist and the
	// same duplicate errors as Create.
	Update(ctx context.Context, account *domain.Account) error

	// WithTx returns an AccountStore that runs its queries on tx.
	WithTx(tx *sql.Tx) AccountStore
}

// PendingEmailStore persists staged email changes. An account has at most
// one pending change.
type PendingEmailStore interface {
	// Upsert records change, replacing any existing record for the account.
	Upsert(ctx context.Context, change *domain.PendingEmailChange) error

	// GetByAccountID returns the pending change for an account.
	// Returns ErrPendingEmailNotFound if there is none.
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.PendingEmailChange, error)

	// DeleteByAccountID discards the pending change for an account.
	// Returns ErrPendingEmailNotFound if there is none.
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error

	// WithTx returns a PendingEmailStore that runs its queries on tx.
	WithTx(tx *sql.Tx) PendingEmailStore
}
