//go:build integration

// Package testdb provides utilities for tests that run against a real
// PostgreSQL database.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can run in parallel without seeing each other's data:
//
//	func TestAuthorStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        authors := postgres.NewPostgresAuthorStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped when neither LIBRARY_TEST_DATABASE_URL nor DATABASE_URL
// is set. The schema is migrated to the latest version once per process.
package testdb
