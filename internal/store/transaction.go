package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to commit transaction: %w", ErrTransactionFailed, err)
	}

	log.Debug("transaction committed successfully")
	return nil
}

// Stores bundles the stores a unit of work operates on.
type Stores struct {
	Exercises ExerciseStore
	Questions QuestionStore
	Users     UserStore
	Sessions  SessionStore
	Attempts  AttemptStore
}

// WithTx returns a copy of the bundle with every store bound to tx.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	return Stores{
		Exercises: s.Exercises.WithTx(tx),
		Questions: s.Questions.WithTx(tx),
		Users:     s.Users.WithTx(tx),
		Sessions:  s.Sessions.WithTx(tx),
		Attempts:  s.Attempts.WithTx(tx),
	}
}

// StoresFn is a unit of work over a transaction-bound set of stores.
type StoresFn func(ctx context.Context, tx Stores) error

// RunInStores runs fn in a single transaction with every store bound to it.
func RunInStores(ctx context.Context, db *sql.DB, stores Stores, fn StoresFn) error {
	return RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, stores.WithTx(tx))
	})
}
