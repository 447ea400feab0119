// Package authoring maintains the exercise catalog: exercises, their
// questions and the optional drafting of new questions by a language model.
package authoring

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/generation"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// QuestionInput is the authored content of a question. A nil Position
// appends the question to its exercise.
type QuestionInput struct {
	Prompt           string
	ResponseTemplate string
	Answer           string
	Position         *int
}

// Service provides catalog authoring operations.
type Service struct {
	db        *sql.DB
	stores    store.Stores
	suggester generation.QuestionSuggester
	logger    *slog.Logger
}

// NewService creates a Service. suggester may be nil, in which case
// SuggestQuestions returns ErrSuggestionsDisabled.
func NewService(
	db *sql.DB,
	stores store.Stores,
	suggester generation.QuestionSuggester,
	logger *slog.Logger,
) *Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		db:        db,
		stores:    stores,
		suggester: suggester,
		logger:    logger.With(slog.String("component", "authoring_service")),
	}
}

// SuggestionsEnabled reports whether a suggester is configured.
func (s *Service) SuggestionsEnabled() bool {
	return s.suggester != nil
}

// CreateExercise adds an exercise to the catalog. A nil position places it
// after every existing exercise.
func (s *Service) CreateExercise(
	ctx context.Context,
	name string,
	enabled bool,
	position *int,
) (*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var created *domain.Exercise
	err := store.RunInStores(ctx, s.db, s.stores, func(ctx context.Context, tx store.Stores) error {
		pos, err := resolvePosition(position, func() (int, error) {
			return tx.Exercises.Count(ctx)
		})
		if err != nil {
			return NewServiceError("create_exercise", "failed to count exercises", err)
		}

		exercise, err := domain.NewExercise(name, enabled, pos)
		if err != nil {
			return NewServiceError("create_exercise", "invalid exercise", err)
		}
		if err := tx.Exercises.Create(ctx, exercise); err != nil {
			return NewServiceError("create_exercise", "failed to save exercise", err)
		}

		created = exercise
		return nil
	})
	if err != nil {
		log.Debug("exercise not created", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("exercise created",
		slog.String("exercise_id", created.ID.String()),
		slog.String("name", created.Name),
		slog.Int("position", created.Position))
	return created, nil
}

// SetExerciseEnabled switches an exercise on or off. Disabled exercises are
// never offered to users but their sessions and questions are kept.
func (s *Service) SetExerciseEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*domain.Exercise, error) {
	var updated *domain.Exercise
	err := store.RunInStores(ctx, s.db, s.stores, func(ctx context.Context, tx store.Stores) error {
		exercise, err := tx.Exercises.GetByID(ctx, id)
		if err != nil {
			return NewServiceError("set_exercise_enabled", "failed to load exercise", err)
		}

		exercise.SetEnabled(enabled)
		if err := tx.Exercises.Update(ctx, exercise); err != nil {
			return NewServiceError("set_exercise_enabled", "failed to save exercise", err)
		}

		updated = exercise
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exercise updated",
		slog.String("exercise_id", id.String()),
		slog.Bool("enabled", enabled))
	return updated, nil
}

// ListExercises returns the whole catalog in catalog order, disabled
// exercises included.
func (s *Service) ListExercises(ctx context.Context) ([]*domain.Exercise, error) {
	exercises, err := s.stores.Exercises.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_exercises", "failed to list exercises", err)
	}
	return exercises, nil
}

// CreateQuestion adds a question to an exercise. The answer must pass the
// authoring rules and the prompt must be new to the catalog.
func (s *Service) CreateQuestion(
	ctx context.Context,
	exerciseID uuid.UUID,
	input QuestionInput,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var created *domain.Question
	err := store.RunInStores(ctx, s.db, s.stores, func(ctx context.Context, tx store.Stores) error {
		if _, err := tx.Exercises.GetByID(ctx, exerciseID); err != nil {
			return NewServiceError("create_question", "failed to load exercise", err)
		}

		pos, err := resolvePosition(input.Position, func() (int, error) {
			return tx.Questions.CountByExercise(ctx, exerciseID)
		})
		if err != nil {
			return NewServiceError("create_question", "failed to count questions", err)
		}

		question, err := domain.NewQuestion(exerciseID, input.Prompt, input.ResponseTemplate, input.Answer, pos)
		if err != nil {
			return NewServiceError("create_question", "invalid question", err)
		}
		if err := tx.Questions.Create(ctx, question); err != nil {
			return NewServiceError("create_question", "failed to save question", err)
		}

		created = question
		return nil
	})
	if err != nil {
		log.Debug("question not created", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("question created",
		slog.String("question_id", created.ID.String()),
		slog.String("exercise_id", exerciseID.String()),
		slog.Int("accepted_answers", len(created.Answers)))
	return created, nil
}

// UpdateQuestion replaces the prompt, response template and answers of a
// question. Its exercise and position do not change.
func (s *Service) UpdateQuestion(ctx context.Context, id uuid.UUID, input QuestionInput) (*domain.Question, error) {
	var updated *domain.Question
	err := store.RunInStores(ctx, s.db, s.stores, func(ctx context.Context, tx store.Stores) error {
		question, err := tx.Questions.GetByID(ctx, id)
		if err != nil {
			return NewServiceError("update_question", "failed to load question", err)
		}

		if err := question.Update(input.Prompt, input.ResponseTemplate, input.Answer); err != nil {
			return NewServiceError("update_question", "invalid question", err)
		}
		if err := tx.Questions.Update(ctx, question); err != nil {
			return NewServiceError("update_question", "failed to save question", err)
		}

		updated = question
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("question updated",
		slog.String("question_id", id.String()))
	return updated, nil
}

// ListQuestions returns the questions of an exercise in catalog order.
func (s *Service) ListQuestions(ctx context.Context, exerciseID uuid.UUID) ([]*domain.Question, error) {
	if _, err := s.stores.Exercises.GetByID(ctx, exerciseID); err != nil {
		return nil, NewServiceError("list_questions", "failed to load exercise", err)
	}

	questions, err := s.stores.Questions.ListByExercise(ctx, exerciseID)
	if err != nil {
		return nil, NewServiceError("list_questions", "failed to list questions", err)
	}
	return questions, nil
}

// SuggestQuestions asks the language model for count new questions for an
// exercise. Nothing is saved; the author creates the ones they want.
func (s *Service) SuggestQuestions(
	ctx context.Context,
	exerciseID uuid.UUID,
	count int,
) ([]generation.Suggestion, error) {
	if s.suggester == nil {
		return nil, ErrSuggestionsDisabled
	}

	exercise, err := s.stores.Exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, NewServiceError("suggest_questions", "failed to load exercise", err)
	}

	questions, err := s.stores.Questions.ListByExercise(ctx, exerciseID)
	if err != nil {
		return nil, NewServiceError("suggest_questions", "failed to list questions", err)
	}

	existing := make([]string, 0, len(questions))
	for _, q := range questions {
		existing = append(existing, q.Prompt)
	}

	suggestions, err := s.suggester.SuggestQuestions(ctx, generation.SuggestionRequest{
		ExerciseName:    exercise.Name,
		ExistingPrompts: existing,
		Count:           count,
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("question suggestion failed",
			slog.String("exercise_id", exerciseID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("suggest_questions", "failed to suggest questions", err)
	}
	return suggestions, nil
}

func resolvePosition(position *int, next func() (int, error)) (int, error) {
	if position != nil {
		return *position, nil
	}
	return next()
}
