package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// contextKey defines a type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey holds the verified user ID; empty for guests.
	UserIDKey contextKey = "userID"
	// SessionIDKey holds the X-Session-ID every caller carries.
	SessionIDKey contextKey = "sessionID"
	// FeatureAccessKey holds the gate decision for the current request.
	FeatureAccessKey contextKey = "featureAccess"
)

// GetActor returns the caller identity set by OptionalAuth.
func GetActor(c *gin.Context) types.Actor {
	return types.Actor{
		UserID:    c.GetString(string(UserIDKey)),
		SessionID: c.GetString(string(SessionIDKey)),
	}
}
