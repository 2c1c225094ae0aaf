package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/serendibtrip/serendibtrip-api/logger"
)

var (
	// ErrTokenExpired is returned when JWT validation fails due to expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for general token validation failures (signature, format).
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissingClaim is returned if a required claim (like 'sub') is missing.
	ErrTokenMissingClaim = errors.New("token missing required claim")
)

// Validator defines the interface for validating tokens.
type Validator interface {
	Validate(tokenString string) (string, error)
}

// JWTValidator verifies HS256 access tokens issued by the external identity
// provider and returns their subject.
type JWTValidator struct {
	secret []byte
	skew   time.Duration
	clock  jwt.Clock
}

var _ Validator = (*JWTValidator)(nil)

// NewJWTValidator creates a validator instance using application configuration.
func NewJWTValidator(cfg *config.ServerConfig) (*JWTValidator, error) {
	if cfg.JwtSecretKey == "" {
		return nil, fmt.Errorf("JWT validator configuration error: JWT_SECRET_KEY is not set")
	}
	logger.GetLogger().Info("JWT Validator: HS256 validation enabled.")
	return &JWTValidator{
		secret: []byte(cfg.JwtSecretKey),
		skew:   30 * time.Second,
		clock:  jwt.ClockFunc(time.Now),
	}, nil
}

// Validate parses and validates the token. It returns the subject claim or
// one of ErrTokenExpired, ErrTokenInvalid, ErrTokenMissingClaim.
func (v *JWTValidator) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithClock(v.clock),
		jwt.WithAcceptableSkew(v.skew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	sub := token.Subject()
	if sub == "" {
		return "", ErrTokenMissingClaim
	}
	return sub, nil
}
