package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
)

// ShareClaims is the payload of a share link token.
type ShareClaims struct {
	TripID      string `json:"tripId"`
	SnapshotKey string `json:"snapshotKey"`
	jwt.RegisteredClaims
}

// ShareTokenSigner issues and verifies HS256 share tokens.
type ShareTokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewShareTokenSigner(secret string, ttl time.Duration) *ShareTokenSigner {
	return &ShareTokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token pointing at a stored snapshot and its expiry.
func (s *ShareTokenSigner) Sign(tripID, snapshotKey, ownerID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &ShareClaims{
		TripID:      tripID,
		SnapshotKey: snapshotKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "serendibtrip",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *ShareTokenSigner) Verify(tokenString string) (*ShareClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ShareClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("serendibtrip"),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid_share_token", "Share link is invalid or has expired")
	}

	claims, ok := token.Claims.(*ShareClaims)
	if !ok || claims.SnapshotKey == "" {
		return nil, apperrors.Unauthorized("invalid_claims", "Invalid share token structure")
	}
	return claims, nil
}
