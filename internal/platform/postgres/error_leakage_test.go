package postgres_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/stretchr/testify/assert"
)

// TestMapErrorNoLeakage checks that mapped errors keep the store sentinel
// but never expose the driver error value to callers.
func TestMapErrorNoLeakage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *pgconn.PgError
		want error
	}{
		{
			name: "email unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key", Detail: "Key (lower(email))=(a@b.c) already exists."},
			want: store.ErrEmailExists,
		},
		{
			name: "unknown unique constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "other_key"},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "pending_email_changes_account_id_fkey"},
			want: store.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := postgres.MapError(tt.err)

			assert.ErrorIs(t, result, tt.want)

			var pgErr *pgconn.PgError
			assert.False(t, errors.As(result, &pgErr),
				"PostgreSQL error details should not be accessible in mapped error")
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")
	assert.Same(t, plain, postgres.MapError(plain))

	check := &pgconn.PgError{Code: "23514"}
	assert.Equal(t, error(check), postgres.MapError(check))
}
