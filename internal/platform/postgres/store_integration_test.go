//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/phrazzld/accounts-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, username, email string) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount(username, email, "$2a$04$integrationhash")
	require.NoError(t, err)
	return a
}

func TestAccountStoreIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			accounts := postgres.NewPostgresAccountStore(tx, nil)
			a := newAccount(t, "carol", "Carol@Example.com")
			require.NoError(t, accounts.Create(ctx, a))

			got, err := accounts.GetByEmail(ctx, "CAROL@example.COM")
			require.NoError(t, err)
			assert.Equal(t, a.ID, got.ID)
			assert.False(t, got.IsConfirm)

			got.IsConfirm = true
			got.FirstName = "Carol"
			require.NoError(t, accounts.Update(ctx, got))

			reloaded, err := accounts.GetByUsername(ctx, "carol")
			require.NoError(t, err)
			assert.True(t, reloaded.IsConfirm)
			assert.Equal(t, "Carol", reloaded.FirstName)
		})
	})

	t.Run("duplicate email differs only in case", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			accounts := postgres.NewPostgresAccountStore(tx, nil)
			require.NoError(t, accounts.Create(ctx, newAccount(t, "dave", "dave@example.com")))

			err := accounts.Create(ctx, newAccount(t, "dave2", "DAVE@example.com"))
			assert.ErrorIs(t, err, store.ErrEmailExists)
		})
	})

	t.Run("duplicate username", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			accounts := postgres.NewPostgresAccountStore(tx, nil)
			require.NoError(t, accounts.Create(ctx, newAccount(t, "erin", "erin@example.com")))

			err := accounts.Create(ctx, newAccount(t, "erin", "erin2@example.com"))
			assert.ErrorIs(t, err, store.ErrUsernameExists)
		})
	})

	t.Run("empty phone numbers do not collide", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			accounts := postgres.NewPostgresAccountStore(tx, nil)
			require.NoError(t, accounts.Create(ctx, newAccount(t, "frank", "frank@example.com")))
			require.NoError(t, accounts.Create(ctx, newAccount(t, "grace", "grace@example.com")))

			_, err := accounts.GetByPhoneNumber(ctx, "+15550100")
			assert.ErrorIs(t, err, store.ErrAccountNotFound)
		})
	})
}

func TestPendingEmailStoreIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		accounts := postgres.NewPostgresAccountStore(tx, nil)
		pending := postgres.NewPostgresPendingEmailStore(tx, nil)

		a := newAccount(t, "heidi", "heidi@example.com")
		require.NoError(t, accounts.Create(ctx, a))

		first, err := domain.NewPendingEmailChange(a.ID, "heidi@new.example.com")
		require.NoError(t, err)
		require.NoError(t, pending.Upsert(ctx, first))

		second, err := domain.NewPendingEmailChange(a.ID, "heidi@newer.example.com")
		require.NoError(t, err)
		require.NoError(t, pending.Upsert(ctx, second))

		got, err := pending.GetByAccountID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "heidi@newer.example.com", got.NewEmail)

		require.NoError(t, pending.DeleteByAccountID(ctx, a.ID))
		_, err = pending.GetByAccountID(ctx, a.ID)
		assert.ErrorIs(t, err, store.ErrPendingEmailNotFound)
	})
}

func TestSQLTxRunnerIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	runner := store.NewSQLTxRunner(db)
	a := newAccount(t, "ivan", "ivan@example.com")

	err := runner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := postgres.NewPostgresAccountStore(tx, nil).Create(ctx, a); err != nil {
			return err
		}
		return sql.ErrNoRows
	})
	require.ErrorIs(t, err, sql.ErrNoRows)

	_, err = postgres.NewPostgresAccountStore(db, nil).GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}
