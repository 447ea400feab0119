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

const sessionColumns = `id, user_id, exercise_id, current_question_id, completed, created_at, updated_at`

// SessionStore implements the store.SessionStore interface
// using a SQL database as the storage backend.
type SessionStore struct {
	q      querier
	logger *slog.Logger
}

// NewSessionStore creates a new SQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewSessionStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{
		q:      querier{db: db, dialect: dialect},
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// Create implements store.SessionStore.Create
// The partial unique index on open sessions rejects a second open session
// for the same user with store.ErrOpenSessionExists.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	_, err := s.q.exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		session.UserID,
		session.ExerciseID,
		nullUUID(session.CurrentQuestionID),
		session.Completed,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(s.q.dialect, err):
			log.Warn("user already has an open session",
				slog.String("user_id", session.UserID.String()))
			return fmt.Errorf("%w: %v", store.ErrOpenSessionExists, err)
		case IsForeignKeyViolation(s.q.dialect, err):
			log.Warn("session references missing user or exercise",
				slog.String("user_id", session.UserID.String()),
				slog.String("exercise_id", session.ExerciseID.String()))
			return fmt.Errorf("%w: session references a missing user or exercise: %v",
				store.ErrInvalidEntity, err)
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(s.q.dialect, err)
	}

	log.Info("session created successfully",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("exercise_id", session.ExerciseID.String()))
	return nil
}

// GetByID implements store.SessionStore.GetByID
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.q.queryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(s.q.dialect, err)
	}
	return session, nil
}

// ListByUser implements store.SessionStore.ListByUser
func (s *SessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.list(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at, id
	`, userID)
}

// ListOpenByUser implements store.SessionStore.ListOpenByUser
func (s *SessionStore) ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.list(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = ? AND completed = ?
		ORDER BY created_at, id
	`, userID, false)
}

// CountOpenByUser implements store.SessionStore.CountOpenByUser
func (s *SessionStore) CountOpenByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.q.count(ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = ? AND completed = ?`, userID, false)
	if err != nil {
		return 0, MapError(s.q.dialect, err)
	}
	return n, nil
}

// Update implements store.SessionStore.Update
// Only open sessions are written; a completed row is left untouched.
func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	result, err := s.q.exec(ctx, `
		UPDATE sessions
		SET current_question_id = ?, completed = ?, updated_at = ?
		WHERE id = ? AND completed = ?
	`,
		nullUUID(session.CurrentQuestionID),
		session.Completed,
		session.UpdatedAt,
		session.ID,
		false,
	)
	if err != nil {
		if IsForeignKeyViolation(s.q.dialect, err) {
			return fmt.Errorf("%w: current question does not exist", store.ErrQuestionNotFound)
		}
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(s.q.dialect, err)
	}

	if err := CheckRowsAffected(result, store.ErrNotFound); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		// Tell a missing session apart from a completed one.
		if _, getErr := s.GetByID(ctx, session.ID); getErr != nil {
			return getErr
		}
		log.Warn("refusing to update completed session",
			slog.String("session_id", session.ID.String()))
		return store.ErrSessionCompleted
	}

	log.Debug("session updated",
		slog.String("session_id", session.ID.String()),
		slog.Bool("completed", session.Completed))
	return nil
}

// WithTx implements store.SessionStore.WithTx
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{
		q:      querier{db: tx, dialect: s.q.dialect},
		logger: s.logger,
	}
}

func (s *SessionStore) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.q.query(ctx, query, args...)
	if err != nil {
		log.Error("failed to list sessions", slog.String("error", err.Error()))
		return nil, MapError(s.q.dialect, err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session", slog.String("error", err.Error()))
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(s.q.dialect, err)
	}
	return sessions, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var sess domain.Session
	var current uuid.NullUUID
	err := row.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.ExerciseID,
		&current,
		&sess.Completed,
		timestamp{&sess.CreatedAt},
		timestamp{&sess.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	if current.Valid {
		id := current.UUID
		sess.CurrentQuestionID = &id
	}
	return &sess, nil
}
