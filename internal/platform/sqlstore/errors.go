package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/wordfinding-api/internal/store"
)

// MapError maps a driver error to the store's error vocabulary, wrapping the
// original error to preserve context.
func MapError(d Dialect, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	switch d.classify(err) {
	case uniqueViolation:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case foreignKeyViolation:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case checkViolation:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case notNullViolation:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(d Dialect, err error) bool {
	return err != nil && d.classify(err) == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(d Dialect, err error) bool {
	return err != nil && d.classify(err) == foreignKeyViolation
}

// CheckRowsAffected returns notFound when an UPDATE matched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
