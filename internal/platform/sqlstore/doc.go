// Package sqlstore implements the interfaces of internal/store on top of
// database/sql. It supports PostgreSQL (through the pgx stdlib driver) and
// SQLite (through the pure Go modernc driver). Queries are written once with
// "?" placeholders and rewritten by the active Dialect.
//
// The schema is managed with goose migrations embedded in the binary, one
// directory per dialect.
package sqlstore
