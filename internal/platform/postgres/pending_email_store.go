package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

// PostgresPendingEmailStore implements store.PendingEmailStore on PostgreSQL.
type PostgresPendingEmailStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPendingEmailStore creates a PendingEmailStore. If logger is nil,
// a default logger will be used.
func NewPostgresPendingEmailStore(db store.DBTX, logger *slog.Logger) *PostgresPendingEmailStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPendingEmailStore{
		db:     db,
		logger: logger.With(slog.String("component", "pending_email_store")),
	}
}

var _ store.PendingEmailStore = (*PostgresPendingEmailStore)(nil)

// WithTx implements store.PendingEmailStore.WithTx
func (s *PostgresPendingEmailStore) WithTx(tx *sql.Tx) store.PendingEmailStore {
	return &PostgresPendingEmailStore{db: tx, logger: s.logger}
}

// Upsert implements store.PendingEmailStore.Upsert. The primary key on
// account_id makes a newer request replace the older one.
func (s *PostgresPendingEmailStore) Upsert(ctx context.Context, change *domain.PendingEmailChange) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO pending_email_changes (account_id, new_email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id)
		DO UPDATE SET new_email = EXCLUDED.new_email, created_at = EXCLUDED.created_at
	`
	if _, err := s.db.ExecContext(ctx, query, change.AccountID, change.NewEmail, change.CreatedAt); err != nil {
		log.Error("failed to upsert pending email change",
			slog.String("error", err.Error()),
			slog.String("account_id", change.AccountID.String()))
		return store.NewStoreError("pending email change", "upsert", "failed to store pending email change", MapError(err))
	}

	return nil
}

// GetByAccountID implements store.PendingEmailStore.GetByAccountID
func (s *PostgresPendingEmailStore) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.PendingEmailChange, error) {
	query := `
		SELECT account_id, new_email, created_at
		FROM pending_email_changes
		WHERE account_id = $1
	`

	var p domain.PendingEmailChange
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&p.AccountID, &p.NewEmail, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPendingEmailNotFound
		}
		return nil, store.NewStoreError("pending email change", "get", "failed to query pending email change", MapError(err))
	}

	return &p, nil
}

// DeleteByAccountID implements store.PendingEmailStore.DeleteByAccountID
func (s *PostgresPendingEmailStore) DeleteByAccountID(ctx context.Context, accountID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pending_email_changes WHERE account_id = $1`, accountID)
	if err != nil {
		return store.NewStoreError("pending email change", "delete", "failed to delete pending email change", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrPendingEmailNotFound)
}
