package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }
func (postgresDialect) DriverName() string { return "pgx" }
func (postgresDialect) GooseDialect() goose.Dialect { return goose.DialectPostgres }

func (postgresDialect) Rebind(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (postgresDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

// LockQuery uses an advisory lock released automatically at commit or rollback.
func (postgresDialect) LockQuery() string {
	return "SELECT pg_advisory_xact_lock(hashtext(?))"
}

func (postgresDialect) classify(err error) violation {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return noViolation
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return uniqueViolation
	case foreignKeyViolationCode:
		return foreignKeyViolation
	case checkViolationCode:
		return checkViolation
	case notNullViolationCode:
		return notNullViolation
	default:
		return noViolation
	}
}
