package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain/answer"
)

// Question validation errors
var (
	ErrQuestionIDEmpty         = errors.New("question ID cannot be empty")
	ErrQuestionExerciseIDEmpty = errors.New("question exercise ID cannot be empty")
	ErrQuestionPromptEmpty     = errors.New("question prompt cannot be empty")
	ErrQuestionAnswersEmpty    = errors.New("question must have at least one accepted answer")
)

// Question is a single prompt within an exercise. Answers holds the accepted
// answers in authored order; the first one is the default answer.
type Question struct {
	ID               uuid.UUID `json:"id"`
	ExerciseID       uuid.UUID `json:"exercise_id"`
	Prompt           string    `json:"prompt"`
	ResponseTemplate string    `json:"response_template"`
	Answers          []string  `json:"accepted_answers"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewQuestion creates a Question from authored answer text. The answer text
// must pass answer.Parse.
func NewQuestion(
	exerciseID uuid.UUID,
	prompt, responseTemplate, answerText string,
	position int,
) (*Question, error) {
	accepted, err := answer.Parse(answerText)
	if err != nil {
		return nil, invalid(err)
	}

	now := time.Now().UTC()
	q := &Question{
		ID:               uuid.New(),
		ExerciseID:       exerciseID,
		Prompt:           strings.TrimSpace(prompt),
		ResponseTemplate: strings.TrimSpace(responseTemplate),
		Answers:          accepted,
		Position:         position,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return invalid(ErrQuestionIDEmpty)
	}
	if q.ExerciseID == uuid.Nil {
		return invalid(ErrQuestionExerciseIDEmpty)
	}
	if q.Prompt == "" {
		return invalid(ErrQuestionPromptEmpty)
	}
	if len(q.Answers) == 0 {
		return invalid(ErrQuestionAnswersEmpty)
	}
	if q.Position < 0 {
		return invalid(ErrPositionNegative)
	}
	return nil
}

// Update replaces the authored content of the question.
func (q *Question) Update(prompt, responseTemplate, answerText string) error {
	accepted, err := answer.Parse(answerText)
	if err != nil {
		return invalid(err)
	}

	updated := *q
	updated.Prompt = strings.TrimSpace(prompt)
	updated.ResponseTemplate = strings.TrimSpace(responseTemplate)
	updated.Answers = accepted
	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*q = updated
	return nil
}

// AnswerText returns the answers in their authored, storable form.
func (q *Question) AnswerText() string {
	return answer.Join(q.Answers)
}

// DefaultAnswer returns the first accepted answer.
func (q *Question) DefaultAnswer() string {
	if len(q.Answers) == 0 {
		return ""
	}
	return q.Answers[0]
}

// IsCorrect reports whether submitted matches one of the accepted answers.
func (q *Question) IsCorrect(submitted string) bool {
	return answer.Evaluate(q.Answers, submitted)
}

// ModelAnswer renders the full answer sentence. A correct submission is shown
// as given; otherwise the default answer is used.
func (q *Question) ModelAnswer(submitted string, correct bool) string {
	chosen := q.DefaultAnswer()
	if correct {
		chosen = strings.TrimSpace(submitted)
	}
	return answer.ModelAnswer(q.Prompt, q.ResponseTemplate, chosen)
}
