package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

const accountColumns = `id, username, email, first_name, last_name, phone_number,
		hashed_password, is_active, is_confirm, created_at, updated_at`

// PostgresAccountStore implements store.AccountStore on PostgreSQL.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the
// AccountStore interface. If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// WithTx implements store.AccountStore.WithTx
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{db: tx, logger: s.logger}
}

// Create implements store.AccountStore.Create
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PhoneNumber,
		account.HashedPassword,
		account.IsActive,
		account.IsConfirm,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("duplicate account on create",
				slog.String("account_id", account.ID.String()),
				slog.String("error", err.Error()))
			return mapped
		}
		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "create", "failed to insert account", mapped)
	}

	log.Info("account created", slog.String("account_id", account.ID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx, "id", `WHERE id = $1`, id)
}

// GetByUsername implements store.AccountStore.GetByUsername
func (s *PostgresAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.getOne(ctx, "username", `WHERE username = $1`, username)
}

// GetByEmail implements store.AccountStore.GetByEmail
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getOne(ctx, "email", `WHERE LOWER(email) = LOWER($1)`, email)
}

// GetByPhoneNumber implements store.AccountStore.GetByPhoneNumber
func (s *PostgresAccountStore) GetByPhoneNumber(ctx context.Context, phone string) (*domain.Account, error) {
	if phone == "" {
		return nil, store.ErrAccountNotFound
	}
	return s.getOne(ctx, "phone_number", `WHERE phone_number = $1`, phone)
}

func (s *PostgresAccountStore) getOne(ctx context.Context, by, where string, arg any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM accounts ` + where

	var a domain.Account
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.FirstName,
		&a.LastName,
		&a.PhoneNumber,
		&a.HashedPassword,
		&a.IsActive,
		&a.IsConfirm,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.String("by", by))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account",
			slog.String("by", by),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "get", "failed to query account by "+by, MapError(err))
	}

	return &a, nil
}

// Update implements store.AccountStore.Update
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		return err
	}

	account.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET username = $1, email = $2, first_name = $3, last_name = $4,
			phone_number = $5, hashed_password = $6, is_active = $7,
			is_confirm = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := s.db.ExecContext(ctx, query,
		account.Username,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PhoneNumber,
		account.HashedPassword,
		account.IsActive,
		account.IsConfirm,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return mapped
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "update", "failed to update account", mapped)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		return err
	}

	log.Debug("account updated", slog.String("account_id", account.ID.String()))
	return nil
}
