package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/wordfinding-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	svc := newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))

	token, expiresAt, err := svc.GenerateToken(context.Background(), "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(tokenLifetime), expiresAt)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	// Compare Unix timestamps to avoid timezone issues
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, err := svc.GenerateToken(context.Background(), "admin")
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, err := genSvc.GenerateToken(context.Background(), "admin")
				require.NoError(t, err)
				// Past expiry plus the allowed clock skew
				later := fixedTime.Add(tokenLifetime + 5*time.Minute)
				return newHMACJWTService(testSecret, tokenLifetime, fixedClock(later)), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "within clock skew",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, err := genSvc.GenerateToken(context.Background(), "admin")
				require.NoError(t, err)
				later := fixedTime.Add(tokenLifetime + time.Minute)
				return newHMACJWTService(testSecret, tokenLifetime, fixedClock(later)), token
			},
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime))
				token, _, err := genSvc.GenerateToken(context.Background(), "admin")
				require.NoError(t, err)
				return newHMACJWTService(wrongSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), "not-a-valid-token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong role",
			setupFunc: func(t *testing.T) (JWTService, string) {
				claims := jwtCustomClaims{
					Role: "learner",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "someone",
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(tokenLifetime)),
					},
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
				require.NoError(t, err)
				return newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrWrongRole,
		},
		{
			name: "unsigned token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				claims := jwtCustomClaims{
					Role: RoleAdmin,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(tokenLifetime)),
					},
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return newHMACJWTService(testSecret, tokenLifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc(t)

			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Subject)
		})
	}
}
