package practice

import (
	"errors"
	"fmt"
)

// SignalError is an expected outcome that drives the dialogue rather than a
// failure. The turn controller branches on signals; it never logs them as
// errors.
type SignalError struct {
	name string
}

// Error implements the error interface for SignalError.
func (e *SignalError) Error() string {
	return e.name
}

// Signals
var (
	// ErrNoQuestionsRemaining means every question of the session's exercise
	// has been attempted. The exercise is finished.
	ErrNoQuestionsRemaining = &SignalError{name: "no questions remaining"}

	// ErrMaxQuestionRetriesReached means the current question may not be
	// retried again.
	ErrMaxQuestionRetriesReached = &SignalError{name: "maximum question retries reached"}
)

// IsSignal reports whether err is, or wraps, a SignalError.
func IsSignal(err error) bool {
	var signal *SignalError
	return errors.As(err, &signal)
}

// State errors indicate a caller bug or a broken invariant. They abort the turn.
var (
	// ErrNoExerciseInProgress indicates the user has no open session.
	ErrNoExerciseInProgress = errors.New("no exercise in progress")

	// ErrSessionAlreadyInProgress indicates the user already has an open session.
	ErrSessionAlreadyInProgress = errors.New("session already in progress")

	// ErrQuestionInProgress indicates a question was requested while one is outstanding.
	ErrQuestionInProgress = errors.New("question already in progress")

	// ErrNoQuestionInProgress indicates an answer was given with no outstanding question.
	ErrNoQuestionInProgress = errors.New("no question in progress")

	// ErrMultipleOpenSessions indicates the user has more than one open session.
	ErrMultipleOpenSessions = errors.New("user has multiple open sessions")
)

// ErrNoExercisesAvailable indicates the catalog has no enabled exercise. The
// service is degraded but the turn is still answered.
var ErrNoExercisesAvailable = errors.New("no exercises available")

// ServiceError wraps errors from the practice service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_exercise", "check_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
