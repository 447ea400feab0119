package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt validation errors
var (
	ErrAttemptNoQuestion = errors.New("session has no current question")
)

// Attempt records one submitted answer. Attempts are never changed or removed;
// they drive both retry counting and the exclusion of already-seen questions.
type Attempt struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	QuestionID uuid.UUID `json:"question_id"`
	AnswerText string    `json:"answer_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAttempt records text as an answer to the session's current question.
func NewAttempt(s *Session, text string) (*Attempt, error) {
	if s.Completed {
		return nil, ErrSessionCompleted
	}
	if s.CurrentQuestionID == nil {
		return nil, ErrAttemptNoQuestion
	}

	return &Attempt{
		ID:         uuid.New(),
		SessionID:  s.ID,
		QuestionID: *s.CurrentQuestionID,
		AnswerText: text,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
