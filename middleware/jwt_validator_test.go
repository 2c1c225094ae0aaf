package middleware

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-of-reasonable-length"

func signHS256(t *testing.T, secret string, build func(b *jwt.Builder) *jwt.Builder) string {
	t.Helper()
	tok, err := build(jwt.NewBuilder()).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(secret)))
	require.NoError(t, err)
	return string(signed)
}

func TestNewJWTValidatorRequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(&config.ServerConfig{})
	assert.Error(t, err)
}

func TestJWTValidator_Validate(t *testing.T) {
	validator, err := NewJWTValidator(&config.ServerConfig{JwtSecretKey: testSecret})
	require.NoError(t, err)

	now := time.Now()
	tests := []struct {
		name    string
		token   string
		wantSub string
		wantErr error
	}{
		{
			name: "valid token",
			token: signHS256(t, testSecret, func(b *jwt.Builder) *jwt.Builder {
				return b.Subject("user-42").IssuedAt(now).Expiration(now.Add(time.Hour))
			}),
			wantSub: "user-42",
		},
		{
			name: "expired token",
			token: signHS256(t, testSecret, func(b *jwt.Builder) *jwt.Builder {
				return b.Subject("user-42").IssuedAt(now.Add(-2 * time.Hour)).Expiration(now.Add(-time.Hour))
			}),
			wantErr: ErrTokenExpired,
		},
		{
			name: "wrong secret",
			token: signHS256(t, "another-secret", func(b *jwt.Builder) *jwt.Builder {
				return b.Subject("user-42").Expiration(now.Add(time.Hour))
			}),
			wantErr: ErrTokenInvalid,
		},
		{
			name: "missing subject",
			token: signHS256(t, testSecret, func(b *jwt.Builder) *jwt.Builder {
				return b.Expiration(now.Add(time.Hour))
			}),
			wantErr: ErrTokenMissingClaim,
		},
		{
			name:    "garbage",
			token:   "not.a.jwt",
			wantErr: ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := validator.Validate(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, sub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, sub)
		})
	}
}
