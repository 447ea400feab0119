package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// AttemptStore implements the store.AttemptStore interface
// using a SQL database as the storage backend.
type AttemptStore struct {
	q      querier
	logger *slog.Logger
}

// NewAttemptStore creates a new SQL implementation of the AttemptStore interface.
// If logger is nil, a default logger will be used.
func NewAttemptStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *AttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AttemptStore{
		q:      querier{db: db, dialect: dialect},
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure AttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*AttemptStore)(nil)

// Create implements store.AttemptStore.Create
func (s *AttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.q.exec(ctx, `
		INSERT INTO attempts (id, session_id, question_id, answer_text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		attempt.ID,
		attempt.SessionID,
		attempt.QuestionID,
		attempt.AnswerText,
		attempt.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(s.q.dialect, err) {
			log.Warn("attempt references missing session or question",
				slog.String("session_id", attempt.SessionID.String()),
				slog.String("question_id", attempt.QuestionID.String()))
			return fmt.Errorf("%w: attempt references a missing session or question: %v",
				store.ErrNotFound, err)
		}
		log.Error("failed to record attempt",
			slog.String("error", err.Error()),
			slog.String("session_id", attempt.SessionID.String()))
		return MapError(s.q.dialect, err)
	}

	log.Debug("attempt recorded",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("session_id", attempt.SessionID.String()),
		slog.String("question_id", attempt.QuestionID.String()))
	return nil
}

// ListBySession implements store.AttemptStore.ListBySession
func (s *AttemptStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Attempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.q.query(ctx, `
		SELECT id, session_id, question_id, answer_text, created_at
		FROM attempts
		WHERE session_id = ?
		ORDER BY created_at, id
	`, sessionID)
	if err != nil {
		log.Error("failed to list attempts",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, MapError(s.q.dialect, err)
	}
	defer func() { _ = rows.Close() }()

	var attempts []*domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(
			&a.ID,
			&a.SessionID,
			&a.QuestionID,
			&a.AnswerText,
			timestamp{&a.CreatedAt},
		); err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(s.q.dialect, err)
	}
	return attempts, nil
}

// CountBySession implements store.AttemptStore.CountBySession
func (s *AttemptStore) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	n, err := s.q.count(ctx, `SELECT COUNT(*) FROM attempts WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, MapError(s.q.dialect, err)
	}
	return n, nil
}

// CountBySessionAndQuestion implements store.AttemptStore.CountBySessionAndQuestion
func (s *AttemptStore) CountBySessionAndQuestion(
	ctx context.Context,
	sessionID, questionID uuid.UUID,
) (int, error) {
	n, err := s.q.count(ctx,
		`SELECT COUNT(*) FROM attempts WHERE session_id = ? AND question_id = ?`,
		sessionID, questionID)
	if err != nil {
		return 0, MapError(s.q.dialect, err)
	}
	return n, nil
}

// WithTx implements store.AttemptStore.WithTx
func (s *AttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &AttemptStore{
		q:      querier{db: tx, dialect: s.q.dialect},
		logger: s.logger,
	}
}
