package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxExerciseNameLength bounds the length of an exercise name.
const MaxExerciseNameLength = 32

// Exercise validation errors
var (
	ErrExerciseIDEmpty     = errors.New("exercise ID cannot be empty")
	ErrExerciseNameEmpty   = errors.New("exercise name cannot be empty")
	ErrExerciseNameTooLong = errors.New("exercise name must be at most 32 characters long")
	ErrPositionNegative    = errors.New("position cannot be negative")
)

// Exercise is a named set of questions that a user works through in one session.
// Everything but Enabled is fixed once the exercise has been authored.
type Exercise struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewExercise creates a new Exercise at the given catalog position.
// Returns an error if validation fails.
func NewExercise(name string, enabled bool, position int) (*Exercise, error) {
	now := time.Now().UTC()
	e := &Exercise{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Enabled:   enabled,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks if the Exercise has valid data.
func (e *Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return invalid(ErrExerciseIDEmpty)
	}
	if e.Name == "" {
		return invalid(ErrExerciseNameEmpty)
	}
	if len([]rune(e.Name)) > MaxExerciseNameLength {
		return invalid(ErrExerciseNameTooLong)
	}
	if e.Position < 0 {
		return invalid(ErrPositionNegative)
	}
	return nil
}

// SetEnabled toggles whether new sessions may pick this exercise.
func (e *Exercise) SetEnabled(enabled bool) {
	e.Enabled = enabled
	e.UpdatedAt = time.Now().UTC()
}
