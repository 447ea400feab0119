package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
)

// SessionStore defines the interface for practice session persistence.
// Sessions are never deleted.
type SessionStore interface {
	// Create saves a new session.
	// Returns ErrOpenSessionExists if the user already has an open session.
	Create(ctx context.Context, session *domain.Session) error

	// GetByID retrieves a session by its ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// ListByUser returns all sessions of a user, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)

	// ListOpenByUser returns the user's sessions that are not completed.
	// A consistent store holds at most one.
	ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)

	// CountOpenByUser returns the number of sessions the user has not completed.
	CountOpenByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// Update persists the current question and completed flag of an open session.
	// Returns ErrSessionCompleted if the stored session is already completed
	// and ErrSessionNotFound if it does not exist.
	Update(ctx context.Context, session *domain.Session) error

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}

// AttemptStore defines the interface for the append-only answer log.
type AttemptStore interface {
	// Create appends an attempt.
	// Returns ErrSessionNotFound or ErrQuestionNotFound if a reference is dangling.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// ListBySession returns every attempt made in a session, oldest first.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Attempt, error)

	// CountBySession returns the number of attempts made in a session.
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)

	// CountBySessionAndQuestion returns the number of attempts at one question
	// within a session.
	CountBySessionAndQuestion(ctx context.Context, sessionID, questionID uuid.UUID) (int, error)

	// WithTx returns a new AttemptStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttemptStore
}
