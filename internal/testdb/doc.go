// Package testdb provides migrated databases for tests.
//
// By default every call to Open returns a private in-memory SQLite database
// with the full schema applied, so store and service tests need no external
// services and never see each other's data.
//
// Setting WORDFIND_TEST_DB_URL (or DATABASE_URL when running in CI) runs the
// same tests against PostgreSQL instead. The schema is migrated once and the
// tables are emptied on every Open, so packages using a shared PostgreSQL
// database must not call t.Parallel.
//
// # Basic Usage
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.Open(t)
//	    stores := db.Stores()
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := stores.Users.WithTx(tx)
//	        // ...
//	    })
//	}
package testdb
