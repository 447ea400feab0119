package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity event types.
const (
	// TypeExerciseStarted is emitted when a user opens a new session.
	TypeExerciseStarted = "exercise.started"

	// TypeAnswerSubmitted is emitted for every recorded answer attempt.
	TypeAnswerSubmitted = "answer.submitted"

	// TypeExerciseCompleted is emitted when a session is completed.
	TypeExerciseCompleted = "exercise.completed"
)

// ActivityEvent records something a user did during practice.
type ActivityEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// UserID is the internal ID of the user the event concerns
	UserID uuid.UUID `json:"user_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ActivityEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewActivityEvent creates a new ActivityEvent with the specified type and payload.
func NewActivityEvent(eventType string, userID uuid.UUID, payload any) (*ActivityEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ActivityEvent{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ExercisePayload is the payload of exercise.started and exercise.completed.
type ExercisePayload struct {
	SessionID  uuid.UUID `json:"session_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
}

// AnswerPayload is the payload of answer.submitted.
type AnswerPayload struct {
	SessionID  uuid.UUID `json:"session_id"`
	QuestionID uuid.UUID `json:"question_id"`
	Correct    bool      `json:"correct"`
	Attempt    int       `json:"attempt"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ActivityEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ActivityEvent) error
}
