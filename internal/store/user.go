package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrUserExists if the external ID is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByExternalID retrieves a user by the identity supplied by the voice platform.
	// Returns ErrUserNotFound if the user does not exist.
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)

	// Lock takes an exclusive lock on the external identity that is held until
	// the surrounding transaction ends. Turns for the same user serialize on
	// it; turns for different users do not interact. Outside a transaction it
	// has no lasting effect.
	Lock(ctx context.Context, externalID string) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
