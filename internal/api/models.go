package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/generation"
)

// TurnRequest is one utterance from the voice platform.
type TurnRequest struct {
	// UserID is the platform's stable identifier for the speaker.
	UserID string `json:"user_id" validate:"required,max=128"`

	// Text is the recognized speech. It may be empty on the opening turn.
	Text string `json:"text" validate:"max=1000"`

	// ContinuationToken is echoed from the previous response when the
	// platform is continuing a conversation.
	ContinuationToken string `json:"continuation_token,omitempty" validate:"max=64"`
}

// TurnResponse is what the assistant says back.
type TurnResponse struct {
	Utterance         string `json:"utterance"`
	ContinuationToken string `json:"continuation_token,omitempty"`
	Terminal          bool   `json:"terminal"`
}

// LoginRequest defines the payload for the administrator login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse defines the successful response of the login endpoint.
type LoginResponse struct {
	// Token is the JWT used for the admin routes.
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires.
	ExpiresAt string `json:"expires_at"`
}

// CreateExerciseRequest defines the payload for creating an exercise.
// Enabled defaults to true and a missing Position appends the exercise.
type CreateExerciseRequest struct {
	Name     string `json:"name"               validate:"required,max=32"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Position *int   `json:"position,omitempty" validate:"omitempty,gte=0"`
}

// UpdateExerciseRequest toggles an exercise on or off.
type UpdateExerciseRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// ExerciseResponse describes an exercise.
type ExerciseResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateQuestionRequest defines the payload for adding a question. Answer
// is authored answer text, for example "cat, dog" or "BLANK, tail".
type CreateQuestionRequest struct {
	Prompt           string `json:"prompt"                     validate:"required,max=500"`
	ResponseTemplate string `json:"response_template"          validate:"max=500"`
	Answer           string `json:"answer"                     validate:"required,max=500"`
	Position         *int   `json:"position,omitempty"         validate:"omitempty,gte=0"`
}

// UpdateQuestionRequest replaces the authored content of a question.
type UpdateQuestionRequest struct {
	Prompt           string `json:"prompt"            validate:"required,max=500"`
	ResponseTemplate string `json:"response_template" validate:"max=500"`
	Answer           string `json:"answer"            validate:"required,max=500"`
}

// QuestionResponse describes a question.
type QuestionResponse struct {
	ID               uuid.UUID `json:"id"`
	ExerciseID       uuid.UUID `json:"exercise_id"`
	Prompt           string    `json:"prompt"`
	ResponseTemplate string    `json:"response_template"`
	Answer           string    `json:"answer"`
	AcceptedAnswers  []string  `json:"accepted_answers"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SuggestionsRequest asks for drafted questions.
type SuggestionsRequest struct {
	Count int `json:"count" validate:"required,gte=1,lte=10"`
}

// SuggestionsResponse holds drafted questions. They are not saved.
type SuggestionsResponse struct {
	Suggestions []generation.Suggestion `json:"suggestions"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func exerciseToResponse(e *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:        e.ID,
		Name:      e.Name,
		Enabled:   e.Enabled,
		Position:  e.Position,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func exercisesToResponse(exercises []*domain.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, exerciseToResponse(e))
	}
	return out
}

func questionToResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:               q.ID,
		ExerciseID:       q.ExerciseID,
		Prompt:           q.Prompt,
		ResponseTemplate: q.ResponseTemplate,
		Answer:           q.AnswerText(),
		AcceptedAnswers:  q.Answers,
		Position:         q.Position,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

func questionsToResponse(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionToResponse(q))
	}
	return out
}
