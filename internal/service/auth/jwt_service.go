// Package auth authenticates the catalog administrator: it verifies the
// configured credentials and issues and validates HMAC-signed JWTs.
package auth

import (
	"context"
	"time"
)

// RoleAdmin is the role carried by administrator tokens.
const RoleAdmin = "admin"

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for subject.
	// Returns the token string and its expiry, or an error if signing fails.
	GenerateToken(ctx context.Context, subject string) (string, time.Time, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation fails
	// (expired, invalid signature, wrong role, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of an access token.
type Claims struct {
	// Subject is the administrator's username.
	Subject string `json:"sub,omitempty"`

	// Role is always RoleAdmin for tokens this service accepts.
	Role string `json:"role,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
