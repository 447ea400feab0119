package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxExternalIDLength bounds the identity supplied by the voice platform.
const MaxExternalIDLength = 128

// User validation errors
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrEmptyExternalID   = errors.New("external user ID cannot be empty")
	ErrExternalIDTooLong = errors.New("external user ID must be at most 128 characters long")
)

// User is a person practising through the voice assistant. ExternalID is the
// identity the platform sends with every turn.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUser creates a new User for the given external identity.
func NewUser(externalID string) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		ExternalID: strings.TrimSpace(externalID),
		CreatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return invalid(ErrEmptyUserID)
	}
	if u.ExternalID == "" {
		return invalid(ErrEmptyExternalID)
	}
	if len(u.ExternalID) > MaxExternalIDLength {
		return invalid(ErrExternalIDTooLong)
	}
	return nil
}
