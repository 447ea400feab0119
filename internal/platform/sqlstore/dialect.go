package sqlstore

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"github.com/pressly/goose/v3"
)

// Supported driver names, matching config.DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// violation classifies constraint failures reported by a driver.
type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
	notNullViolation
)

// Dialect isolates what differs between the supported databases.
type Dialect interface {
	// Name returns the driver name used in configuration and as the
	// migrations subdirectory.
	Name() string

	// DriverName returns the database/sql driver name for sql.Open.
	DriverName() string

	// GooseDialect returns the goose dialect for migrations.
	GooseDialect() goose.Dialect

	// Rebind rewrites "?" placeholders into the driver's syntax.
	Rebind(query string) string

	// Configure applies connection settings after sql.Open.
	Configure(db *sql.DB) error

	// LockQuery returns a statement taking a transaction-scoped lock keyed by
	// one string argument, or "" when the database serializes writers itself.
	LockQuery() string

	// classify reports which constraint, if any, err violated.
	classify(err error) violation
}

// DialectFor returns the Dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return postgresDialect{}, nil
	case DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
