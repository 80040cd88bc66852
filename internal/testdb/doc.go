// Package testdb opens the Postgres database used by integration tests.
//
// Tests that need a real database call Open, which skips the test when
// ACCOUNTS_TEST_DATABASE_URL (or DATABASE_URL) is not set, applies the
// embedded migrations once, and closes the pool when the test ends. WithTx
// runs a test body inside a transaction that is always rolled back, so
// tests never see each other's rows:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		accounts := postgres.NewPostgresAccountStore(tx, nil)
//		...
//	})
package testdb
