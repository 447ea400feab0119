package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// TestDatabaseURLEnv names the variable selecting a PostgreSQL test database.
const TestDatabaseURLEnv = "WORDFIND_TEST_DB_URL"

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// tables lists every application table, children first.
var tables = []string{"attempts", "sessions", "users", "questions", "exercises"}

// IsPostgres reports whether tests run against PostgreSQL.
func IsPostgres() bool {
	return databaseURL() != ""
}

// Open returns a migrated, empty database that is closed when the test ends.
func Open(t *testing.T) *sqlstore.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	driver, url := sqlstore.DriverSQLite, memoryURL()
	if IsPostgres() {
		driver, url = sqlstore.DriverPostgres, databaseURL()
	}

	db, err := sqlstore.Open(ctx, driver, url, QuietLogger())
	require.NoError(t, err, "failed to open %s test database", driver)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	migrator, err := sqlstore.NewMigrator(db, QuietLogger())
	require.NoError(t, err, "failed to create migrator")
	require.NoError(t, migrator.Up(ctx), "failed to migrate test database")

	if driver == sqlstore.DriverPostgres {
		require.NoError(t, truncate(ctx, db.DB), "failed to empty test database")
	}
	return db
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes.
func WithTx(t *testing.T, db *sqlstore.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// QuietLogger returns a logger that discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryURL names a fresh shared-cache in-memory database. The name keeps
// databases of concurrently running tests apart.
func memoryURL() string {
	return fmt.Sprintf("file:test-%s?mode=memory&cache=shared", uuid.NewString())
}

func truncate(ctx context.Context, db *sql.DB) error {
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to empty %s: %w", table, err)
		}
	}
	return nil
}
