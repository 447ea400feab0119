package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session validation errors
var (
	ErrSessionIDEmpty         = errors.New("session ID cannot be empty")
	ErrSessionUserIDEmpty     = errors.New("session user ID cannot be empty")
	ErrSessionExerciseIDEmpty = errors.New("session exercise ID cannot be empty")
)

// Session is one user's attempt at one exercise. A user may hold many
// completed sessions but at most one open one. Once Completed is set the
// session no longer changes.
type Session struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	ExerciseID        uuid.UUID  `json:"exercise_id"`
	CurrentQuestionID *uuid.UUID `json:"current_question_id,omitempty"`
	Completed         bool       `json:"completed"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewSession creates an open session with no question assigned.
func NewSession(userID, exerciseID uuid.UUID) (*Session, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:         uuid.New(),
		UserID:     userID,
		ExerciseID: exerciseID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return invalid(ErrSessionIDEmpty)
	}
	if s.UserID == uuid.Nil {
		return invalid(ErrSessionUserIDEmpty)
	}
	if s.ExerciseID == uuid.Nil {
		return invalid(ErrSessionExerciseIDEmpty)
	}
	return nil
}

// HasQuestion reports whether a question is currently outstanding.
func (s *Session) HasQuestion() bool {
	return s.CurrentQuestionID != nil
}

// AssignQuestion makes q the session's current question. The question must
// belong to the session's exercise.
func (s *Session) AssignQuestion(q *Question) error {
	if s.Completed {
		return ErrSessionCompleted
	}
	if q.ExerciseID != s.ExerciseID {
		return ErrQuestionNotInExercise
	}

	id := q.ID
	s.CurrentQuestionID = &id
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ClearQuestion removes the current question.
func (s *Session) ClearQuestion() error {
	if s.Completed {
		return ErrSessionCompleted
	}
	s.CurrentQuestionID = nil
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete closes the session.
func (s *Session) Complete() error {
	if s.Completed {
		return ErrSessionCompleted
	}
	s.Completed = true
	s.UpdatedAt = time.Now().UTC()
	return nil
}
