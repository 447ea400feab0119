package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/phrazzld/wordfinding-api/internal/config"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
)

// Token is an issued access token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticator checks administrator credentials against the configured
// username and bcrypt hash and issues tokens for them.
type Authenticator struct {
	jwt          JWTService
	verifier     PasswordVerifier
	username     string
	passwordHash string
	logger       *slog.Logger
}

// NewAuthenticator creates an Authenticator for the administrator in cfg.
func NewAuthenticator(
	jwtService JWTService,
	verifier PasswordVerifier,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *Authenticator {
	if jwtService == nil || verifier == nil {
		panic("jwt service and password verifier are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		jwt:          jwtService,
		verifier:     verifier,
		username:     cfg.AdminUsername,
		passwordHash: cfg.AdminPasswordHash,
		logger:       logger.With(slog.String("component", "authenticator")),
	}
}

// Login returns a token when username and password match the administrator.
// Any mismatch yields ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Token, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	// The password is checked even for an unknown username so both failures
	// take about the same time.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := a.verifier.Compare(a.passwordHash, password)
	if !userOK || passErr != nil {
		log.Warn("admin login failed")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := a.jwt.GenerateToken(ctx, a.username)
	if err != nil {
		return nil, err
	}

	log.Info("admin logged in", slog.Time("expires_at", expiresAt))
	return &Token{Token: token, ExpiresAt: expiresAt}, nil
}
