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

// UserStore implements the store.UserStore interface
// using a SQL database as the storage backend.
type UserStore struct {
	q      querier
	logger *slog.Logger
}

// NewUserStore creates a new SQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewUserStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		q:      querier{db: db, dialect: dialect},
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	_, err := s.q.exec(ctx, `
		INSERT INTO users (id, external_id, created_at)
		VALUES (?, ?, ?)
	`, user.ID, user.ExternalID, user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(s.q.dialect, err) {
			log.Warn("attempt to create user with existing external ID",
				slog.String("user_id", user.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrUserExists, err)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(s.q.dialect, err)
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, "id", id)
}

// GetByExternalID implements store.UserStore.GetByExternalID
func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return s.getOne(ctx, "external_id", externalID)
}

func (s *UserStore) getOne(ctx context.Context, column string, value any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.q.queryRow(ctx,
		`SELECT id, external_id, created_at FROM users WHERE `+column+` = ?`, value,
	).Scan(&user.ID, &user.ExternalID, timestamp{&user.CreatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("lookup", column))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("lookup", column))
		return nil, MapError(s.q.dialect, err)
	}
	return &user, nil
}

// Lock implements store.UserStore.Lock
func (s *UserStore) Lock(ctx context.Context, externalID string) error {
	query := s.q.dialect.LockQuery()
	if query == "" {
		return nil
	}

	if _, err := s.q.exec(ctx, query, externalID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to lock user",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to lock user: %w", MapError(s.q.dialect, err))
	}
	return nil
}

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		q:      querier{db: tx, dialect: s.q.dialect},
		logger: s.logger,
	}
}
