// Package store defines the persistence contracts for the practice engine.
// Services depend on these interfaces only; the SQL implementations live in
// internal/platform/sqlstore. Every store can be bound to a transaction with
// WithTx so that a whole turn runs as one unit of work.
package store
