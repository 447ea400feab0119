package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/domain/answer"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

const questionColumns = `id, exercise_id, prompt, response_template, answer, sort_order, created_at, updated_at`

// QuestionStore implements the store.QuestionStore interface
// using a SQL database as the storage backend.
type QuestionStore struct {
	q      querier
	logger *slog.Logger
}

// NewQuestionStore creates a new SQL implementation of the QuestionStore interface.
// If logger is nil, a default logger will be used.
func NewQuestionStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *QuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuestionStore{
		q:      querier{db: db, dialect: dialect},
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure QuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*QuestionStore)(nil)

// Create implements store.QuestionStore.Create
// Returns store.ErrExerciseNotFound if the exercise doesn't exist (foreign key violation).
func (s *QuestionStore) Create(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during create",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	_, err := s.q.exec(ctx, `
		INSERT INTO questions (`+questionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		question.ID,
		question.ExerciseID,
		question.Prompt,
		question.ResponseTemplate,
		question.AnswerText(),
		question.Position,
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		if mapped := s.mapWriteError(err, question); mapped != nil {
			log.Warn("question rejected by constraint",
				slog.String("error", err.Error()),
				slog.String("question_id", question.ID.String()))
			return mapped
		}
		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(s.q.dialect, err)
	}

	log.Info("question created successfully",
		slog.String("question_id", question.ID.String()),
		slog.String("exercise_id", question.ExerciseID.String()))
	return nil
}

// GetByID implements store.QuestionStore.GetByID
func (s *QuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.q.queryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found", slog.String("question_id", id.String()))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get question",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return nil, MapError(s.q.dialect, err)
	}
	return question, nil
}

// Update implements store.QuestionStore.Update
func (s *QuestionStore) Update(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		return err
	}

	result, err := s.q.exec(ctx, `
		UPDATE questions
		SET prompt = ?, response_template = ?, answer = ?, updated_at = ?
		WHERE id = ?
	`,
		question.Prompt,
		question.ResponseTemplate,
		question.AnswerText(),
		question.UpdatedAt,
		question.ID,
	)
	if err != nil {
		if mapped := s.mapWriteError(err, question); mapped != nil {
			return mapped
		}
		log.Error("failed to update question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(s.q.dialect, err)
	}
	if err := CheckRowsAffected(result, store.ErrQuestionNotFound); err != nil {
		return err
	}

	log.Info("question updated successfully",
		slog.String("question_id", question.ID.String()))
	return nil
}

// List implements store.QuestionStore.List
func (s *QuestionStore) List(ctx context.Context) ([]*domain.Question, error) {
	return s.list(ctx, `
		SELECT q.id, q.exercise_id, q.prompt, q.response_template, q.answer,
			q.sort_order, q.created_at, q.updated_at
		FROM questions q
		JOIN exercises e ON e.id = q.exercise_id
		ORDER BY e.sort_order, e.created_at, e.id, q.sort_order, q.created_at, q.id
	`)
}

// ListByExercise implements store.QuestionStore.ListByExercise
func (s *QuestionStore) ListByExercise(
	ctx context.Context,
	exerciseID uuid.UUID,
) ([]*domain.Question, error) {
	return s.list(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE exercise_id = ?
		ORDER BY sort_order, created_at, id
	`, exerciseID)
}

func (s *QuestionStore) list(ctx context.Context, query string, args ...any) ([]*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.q.query(ctx, query, args...)
	if err != nil {
		log.Error("failed to list questions", slog.String("error", err.Error()))
		return nil, MapError(s.q.dialect, err)
	}
	defer func() { _ = rows.Close() }()

	var questions []*domain.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			log.Error("failed to scan question", slog.String("error", err.Error()))
			return nil, err
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(s.q.dialect, err)
	}
	return questions, nil
}

// CountByExercise implements store.QuestionStore.CountByExercise
func (s *QuestionStore) CountByExercise(ctx context.Context, exerciseID uuid.UUID) (int, error) {
	n, err := s.q.count(ctx, `SELECT COUNT(*) FROM questions WHERE exercise_id = ?`, exerciseID)
	if err != nil {
		return 0, MapError(s.q.dialect, err)
	}
	return n, nil
}

// WithTx implements store.QuestionStore.WithTx
func (s *QuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return &QuestionStore{
		q:      querier{db: tx, dialect: s.q.dialect},
		logger: s.logger,
	}
}

// mapWriteError translates constraint violations on insert or update, and
// returns nil for any other error.
func (s *QuestionStore) mapWriteError(err error, question *domain.Question) error {
	switch {
	case IsUniqueViolation(s.q.dialect, err):
		return fmt.Errorf("%w: %q", store.ErrPromptExists, question.Prompt)
	case IsForeignKeyViolation(s.q.dialect, err):
		return fmt.Errorf("%w: %s", store.ErrExerciseNotFound, question.ExerciseID)
	default:
		return nil
	}
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var q domain.Question
	var answerText string
	err := row.Scan(
		&q.ID,
		&q.ExerciseID,
		&q.Prompt,
		&q.ResponseTemplate,
		&answerText,
		&q.Position,
		timestamp{&q.CreatedAt},
		timestamp{&q.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}

	q.Answers, err = answer.Parse(answerText)
	if err != nil {
		return nil, fmt.Errorf("stored answer for question %s is malformed: %w", q.ID, err)
	}
	return &q, nil
}
