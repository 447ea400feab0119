// Package practice implements the session engine: starting and completing
// exercises, choosing the next question, and recording and judging answers.
//
// A Service is bound to one unit of work. Build it from transaction-bound
// stores and the catalog snapshot loaded in the same transaction.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/catalog"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/events"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// DefaultMaxAttempts is the number of attempts a question allows when none is configured.
const DefaultMaxAttempts = 2

// Service manages practice sessions.
type Service struct {
	stores  store.Stores
	catalog *catalog.Snapshot
	picker  ExercisePicker
	logger  *slog.Logger
	events  []*events.ActivityEvent
}

// NewService creates a Service. If picker is nil, exercises are picked in
// catalog order. If logger is nil, a default logger will be used.
func NewService(
	stores store.Stores,
	snapshot *catalog.Snapshot,
	picker ExercisePicker,
	logger *slog.Logger,
) *Service {
	if snapshot == nil {
		panic("snapshot cannot be nil")
	}
	if picker == nil {
		picker = FirstPicker{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		stores:  stores,
		catalog: snapshot,
		picker:  picker,
		logger:  logger.With(slog.String("component", "practice_service")),
	}
}

// Events returns the activity recorded so far. Emit them only after the unit
// of work has committed.
func (s *Service) Events() []*events.ActivityEvent {
	return append([]*events.ActivityEvent(nil), s.events...)
}

func (s *Service) record(ctx context.Context, eventType string, userID uuid.UUID, payload any) {
	event, err := events.NewActivityEvent(eventType, userID, payload)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to build activity event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	s.events = append(s.events, event)
}

// StartNewExercise opens a session for the user on an enabled exercise,
// preferring exercises the user has never had a session for.
//
// Returns ErrSessionAlreadyInProgress (wrapped) if the user has an open
// session and ErrNoExercisesAvailable if no exercise is enabled.
func (s *Service) StartNewExercise(ctx context.Context, user *domain.User) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	open, err := s.stores.Sessions.CountOpenByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count open sessions: %w", err)
	}
	if open > 0 {
		return nil, NewServiceError("start_exercise", "user already has an open session",
			ErrSessionAlreadyInProgress)
	}

	enabled := s.catalog.EnabledExercises()
	if len(enabled) == 0 {
		log.Warn("no enabled exercises in catalog", slog.String("user_id", user.ID.String()))
		return nil, ErrNoExercisesAvailable
	}

	history, err := s.stores.Sessions.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	attempted := make(map[uuid.UUID]struct{}, len(history))
	for _, past := range history {
		attempted[past.ExerciseID] = struct{}{}
	}

	var fresh []*domain.Exercise
	for _, e := range enabled {
		if _, ok := attempted[e.ID]; !ok {
			fresh = append(fresh, e)
		}
	}
	candidates := fresh
	if len(candidates) == 0 {
		candidates = enabled
	}
	exercise := s.picker.Pick(candidates)

	session, err := domain.NewSession(user.ID, exercise.ID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Sessions.Create(ctx, session); err != nil {
		if errors.Is(err, store.ErrOpenSessionExists) {
			return nil, NewServiceError("start_exercise", "user already has an open session",
				ErrSessionAlreadyInProgress)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("exercise started",
		slog.String("user_id", user.ID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("exercise", exercise.Name),
		slog.Bool("repeat", len(fresh) == 0))
	s.record(ctx, events.TypeExerciseStarted, user.ID, events.ExercisePayload{
		SessionID:  session.ID,
		ExerciseID: exercise.ID,
	})
	return session, nil
}

// OpenSession returns the user's open session.
// Returns ErrNoExerciseInProgress or ErrMultipleOpenSessions (wrapped).
func (s *Service) OpenSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	return s.openSession(ctx, "open_session", user)
}

func (s *Service) openSession(ctx context.Context, op string, user *domain.User) (*domain.Session, error) {
	open, err := s.stores.Sessions.ListOpenByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}

	switch len(open) {
	case 0:
		return nil, NewServiceError(op, "user has no open session", ErrNoExerciseInProgress)
	case 1:
		return open[0], nil
	default:
		logger.FromContextOrDefault(ctx, s.logger).Error("user has multiple open sessions",
			slog.String("user_id", user.ID.String()),
			slog.Int("open_sessions", len(open)))
		return nil, NewServiceError(op,
			fmt.Sprintf("user has %d open sessions", len(open)), ErrMultipleOpenSessions)
	}
}

// CompleteExercise completes the user's single open session.
// Returns ErrNoExerciseInProgress or ErrMultipleOpenSessions (wrapped).
func (s *Service) CompleteExercise(ctx context.Context, user *domain.User) (*domain.Session, error) {
	session, err := s.openSession(ctx, "complete_exercise", user)
	if err != nil {
		return nil, err
	}

	if err := session.Complete(); err != nil {
		return nil, err
	}
	if err := s.stores.Sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exercise completed",
		slog.String("user_id", user.ID.String()),
		slog.String("session_id", session.ID.String()))
	s.record(ctx, events.TypeExerciseCompleted, user.ID, events.ExercisePayload{
		SessionID:  session.ID,
		ExerciseID: session.ExerciseID,
	})
	return session, nil
}

// ResetCurrentQuestion clears the session's current question without
// recording an attempt.
func (s *Service) ResetCurrentQuestion(ctx context.Context, session *domain.Session) error {
	if err := session.ClearQuestion(); err != nil {
		return err
	}
	if err := s.stores.Sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to reset current question: %w", err)
	}
	return nil
}

// AttemptsAtCurrentQuestion counts the attempts at the session's current
// question. It is zero when no question is set.
func (s *Service) AttemptsAtCurrentQuestion(ctx context.Context, session *domain.Session) (int, error) {
	if !session.HasQuestion() {
		return 0, nil
	}
	n, err := s.stores.Attempts.CountBySessionAndQuestion(ctx, session.ID, *session.CurrentQuestionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n, nil
}

// HasAttempts reports whether any answer has been recorded in the session.
func (s *Service) HasAttempts(ctx context.Context, session *domain.Session) (bool, error) {
	n, err := s.stores.Attempts.CountBySession(ctx, session.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n > 0, nil
}

// CurrentQuestion returns the session's outstanding question.
// Returns ErrNoQuestionInProgress (wrapped) if there is none.
func (s *Service) CurrentQuestion(session *domain.Session) (*domain.Question, error) {
	if !session.HasQuestion() {
		return nil, NewServiceError("current_question", "session has no current question",
			ErrNoQuestionInProgress)
	}
	q, ok := s.catalog.Question(*session.CurrentQuestionID)
	if !ok {
		return nil, fmt.Errorf("current question %s of session %s is not in the catalog",
			*session.CurrentQuestionID, session.ID)
	}
	return q, nil
}

// NextQuestion assigns and returns the first question of the session's
// exercise, in catalog order, that has no attempt in this session. A question
// counts as seen after any attempt, right or wrong.
//
// Returns ErrQuestionInProgress (wrapped) if a question is already set and
// the ErrNoQuestionsRemaining signal when every question has been attempted.
func (s *Service) NextQuestion(ctx context.Context, session *domain.Session) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if session.HasQuestion() {
		return nil, NewServiceError("next_question", "a question is already in progress",
			ErrQuestionInProgress)
	}

	attempts, err := s.stores.Attempts.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	seen := make(map[uuid.UUID]struct{}, len(attempts))
	for _, a := range attempts {
		seen[a.QuestionID] = struct{}{}
	}

	for _, q := range s.catalog.Questions(session.ExerciseID) {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		if err := session.AssignQuestion(q); err != nil {
			return nil, err
		}
		if err := s.stores.Sessions.Update(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to assign question: %w", err)
		}
		log.Debug("question assigned",
			slog.String("session_id", session.ID.String()),
			slog.String("question_id", q.ID.String()))
		return q, nil
	}

	log.Debug("no questions remaining", slog.String("session_id", session.ID.String()))
	return nil, ErrNoQuestionsRemaining
}

// CheckAnswer records text as an attempt at the current question and reports
// whether it is correct. The question stays current.
// Returns ErrNoQuestionInProgress (wrapped) if no question is set.
func (s *Service) CheckAnswer(ctx context.Context, session *domain.Session, text string) (bool, error) {
	q, err := s.CurrentQuestion(session)
	if err != nil {
		return false, err
	}

	attempt, err := domain.NewAttempt(session, text)
	if err != nil {
		return false, err
	}
	if err := s.stores.Attempts.Create(ctx, attempt); err != nil {
		return false, fmt.Errorf("failed to record attempt: %w", err)
	}

	correct := q.IsCorrect(text)
	n, err := s.AttemptsAtCurrentQuestion(ctx, session)
	if err != nil {
		return false, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("answer checked",
		slog.String("session_id", session.ID.String()),
		slog.String("question_id", q.ID.String()),
		slog.Bool("correct", correct),
		slog.Int("attempt", n))
	s.record(ctx, events.TypeAnswerSubmitted, session.UserID, events.AnswerPayload{
		SessionID:  session.ID,
		QuestionID: q.ID,
		Correct:    correct,
		Attempt:    n,
	})
	return correct, nil
}

// RetryQuestion returns the current prompt for another attempt, or the
// ErrMaxQuestionRetriesReached signal once maxAttempts attempts have been made.
func (s *Service) RetryQuestion(ctx context.Context, session *domain.Session, maxAttempts int) (string, error) {
	q, err := s.CurrentQuestion(session)
	if err != nil {
		return "", err
	}

	n, err := s.AttemptsAtCurrentQuestion(ctx, session)
	if err != nil {
		return "", err
	}
	if n >= maxAttempts {
		return "", ErrMaxQuestionRetriesReached
	}
	return q.Prompt, nil
}
