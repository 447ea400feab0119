package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
)

// ExerciseStore defines the interface for exercise persistence.
// Lists are returned in catalog order: position, then creation time, then ID.
type ExerciseStore interface {
	// Create saves a new exercise.
	// Returns ErrExerciseNameExists if the name is already taken.
	Create(ctx context.Context, exercise *domain.Exercise) error

	// GetByID retrieves an exercise by its ID.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// GetByName retrieves an exercise by its unique name.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)

	// List returns every exercise, enabled or not, in catalog order.
	List(ctx context.Context) ([]*domain.Exercise, error)

	// Update persists the enabled flag of an existing exercise. Other fields
	// are immutable once authored.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	Update(ctx context.Context, exercise *domain.Exercise) error

	// Count returns the number of exercises in the catalog.
	Count(ctx context.Context) (int, error)

	// WithTx returns a new ExerciseStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ExerciseStore
}

// QuestionStore defines the interface for question persistence.
type QuestionStore interface {
	// Create saves a new question.
	// Returns ErrPromptExists if the prompt is already in the catalog and
	// ErrExerciseNotFound if the exercise does not exist.
	Create(ctx context.Context, question *domain.Question) error

	// GetByID retrieves a question by its ID.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// Update persists the prompt, response template and answers of a question.
	// Returns ErrQuestionNotFound if the question does not exist.
	Update(ctx context.Context, question *domain.Question) error

	// List returns every question in the catalog, in catalog order.
	List(ctx context.Context) ([]*domain.Question, error)

	// ListByExercise returns the questions of one exercise in catalog order.
	ListByExercise(ctx context.Context, exerciseID uuid.UUID) ([]*domain.Question, error)

	// CountByExercise returns the number of questions in an exercise.
	CountByExercise(ctx context.Context, exerciseID uuid.UUID) (int, error)

	// WithTx returns a new QuestionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuestionStore
}
