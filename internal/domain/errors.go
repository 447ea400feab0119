package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific errors are wrapped together with it, so callers can match
	// either the general or the specific error.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrQuestionNotInExercise is returned when a session is pointed at a
	// question that belongs to a different exercise.
	ErrQuestionNotInExercise = errors.New("question does not belong to the session's exercise")

	// ErrSessionCompleted is returned when a completed session would be modified.
	ErrSessionCompleted = errors.New("session is completed")
)

// invalid wraps a specific validation failure with ErrValidation.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
