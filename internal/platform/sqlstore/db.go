package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/wordfinding-api/internal/store"
)

// DB is an open database together with its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open connects to the database selected by driver and url, applies the
// dialect's connection settings and verifies the connection.
func Open(ctx context.Context, driver, url string, logger *slog.Logger) (*DB, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	sqlDB, err := sql.Open(dialect.DriverName(), url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := dialect.Configure(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to configure %s database: %w", driver, err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Info("database connection established", slog.String("driver", driver))
	return &DB{DB: sqlDB, dialect: dialect, logger: logger}, nil
}

// Dialect returns the dialect of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Stores returns the SQL implementations of every store, bound to the
// connection pool. Bind them to a transaction with store.Stores.WithTx.
func (db *DB) Stores() store.Stores {
	return store.Stores{
		Exercises: NewExerciseStore(db.DB, db.dialect, db.logger),
		Questions: NewQuestionStore(db.DB, db.dialect, db.logger),
		Users:     NewUserStore(db.DB, db.dialect, db.logger),
		Sessions:  NewSessionStore(db.DB, db.dialect, db.logger),
		Attempts:  NewAttemptStore(db.DB, db.dialect, db.logger),
	}
}

// querier runs queries through the dialect's placeholder rewriting.
type querier struct {
	db      store.DBTX
	dialect Dialect
}

func (q querier) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
}

func (q querier) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
}

func (q querier) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...)
}

// count runs a query returning a single integer.
func (q querier) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := q.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
