package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

const exerciseColumns = `id, name, enabled, sort_order, created_at, updated_at`

// ExerciseStore implements the store.ExerciseStore interface
// using a SQL database as the storage backend.
type ExerciseStore struct {
	q      querier
	logger *slog.Logger
}

// NewExerciseStore creates a new SQL implementation of the ExerciseStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewExerciseStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ExerciseStore{
		q:      querier{db: db, dialect: dialect},
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

// Ensure ExerciseStore implements store.ExerciseStore interface
var _ store.ExerciseStore = (*ExerciseStore)(nil)

// Create implements store.ExerciseStore.Create
func (s *ExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		log.Warn("exercise validation failed during create",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return err
	}

	_, err := s.q.exec(ctx, `
		INSERT INTO exercises (`+exerciseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		exercise.ID,
		exercise.Name,
		exercise.Enabled,
		exercise.Position,
		exercise.CreatedAt,
		exercise.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(s.q.dialect, err) {
			log.Warn("exercise name already exists",
				slog.String("name", exercise.Name))
			return fmt.Errorf("%w: %q", store.ErrExerciseNameExists, exercise.Name)
		}
		log.Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return MapError(s.q.dialect, err)
	}

	log.Info("exercise created successfully",
		slog.String("exercise_id", exercise.ID.String()),
		slog.String("name", exercise.Name))
	return nil
}

// GetByID implements store.ExerciseStore.GetByID
func (s *ExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return s.getOne(ctx, "id", id)
}

// GetByName implements store.ExerciseStore.GetByName
func (s *ExerciseStore) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return s.getOne(ctx, "name", name)
}

func (s *ExerciseStore) getOne(ctx context.Context, column string, value any) (*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.q.queryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE `+column+` = ?`, value)
	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("exercise not found", slog.Any(column, value))
			return nil, store.ErrExerciseNotFound
		}
		log.Error("failed to get exercise",
			slog.String("error", err.Error()),
			slog.Any(column, value))
		return nil, MapError(s.q.dialect, err)
	}
	return exercise, nil
}

// List implements store.ExerciseStore.List
func (s *ExerciseStore) List(ctx context.Context) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.q.query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		ORDER BY sort_order, created_at, id
	`)
	if err != nil {
		log.Error("failed to list exercises", slog.String("error", err.Error()))
		return nil, MapError(s.q.dialect, err)
	}
	defer func() { _ = rows.Close() }()

	var exercises []*domain.Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			log.Error("failed to scan exercise", slog.String("error", err.Error()))
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(s.q.dialect, err)
	}
	return exercises, nil
}

// Update implements store.ExerciseStore.Update
func (s *ExerciseStore) Update(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		return err
	}

	result, err := s.q.exec(ctx, `
		UPDATE exercises
		SET enabled = ?, updated_at = ?
		WHERE id = ?
	`, exercise.Enabled, exercise.UpdatedAt, exercise.ID)
	if err != nil {
		log.Error("failed to update exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return MapError(s.q.dialect, err)
	}
	if err := CheckRowsAffected(result, store.ErrExerciseNotFound); err != nil {
		return err
	}

	log.Info("exercise updated successfully",
		slog.String("exercise_id", exercise.ID.String()),
		slog.Bool("enabled", exercise.Enabled))
	return nil
}

// Count implements store.ExerciseStore.Count
func (s *ExerciseStore) Count(ctx context.Context) (int, error) {
	n, err := s.q.count(ctx, `SELECT COUNT(*) FROM exercises`)
	if err != nil {
		return 0, MapError(s.q.dialect, err)
	}
	return n, nil
}

// WithTx implements store.ExerciseStore.WithTx
func (s *ExerciseStore) WithTx(tx *sql.Tx) store.ExerciseStore {
	return &ExerciseStore{
		q:      querier{db: tx, dialect: s.q.dialect},
		logger: s.logger,
	}
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var e domain.Exercise
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Enabled,
		&e.Position,
		timestamp{&e.CreatedAt},
		timestamp{&e.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
