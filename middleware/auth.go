package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/logger"
)

// SessionIDHeader carries the guest session identity. It is echoed on every
// response so the client can persist it.
const SessionIDHeader = "X-Session-ID"

// guestSessionID derives a stable session for guests that send none, so
// dropping the header does not reset their session-scoped quotas.
func guestSessionID(clientIP string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("guest:"+clientIP)).String()
}

// OptionalAuth resolves the caller identity. A valid Bearer token sets the
// user ID; no token leaves the caller a guest. A token that is present but
// invalid is rejected rather than silently downgraded to a guest.
func OptionalAuth(validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionIDHeader))
		if sessionID == "" || len(sessionID) > 64 {
			sessionID = guestSessionID(c.ClientIP())
		}
		c.Set(string(SessionIDKey), sessionID)
		c.Header(SessionIDHeader, sessionID)

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		userID, err := validator.Validate(token)
		if err != nil {
			logger.GetLogger().Warnw("Invalid JWT token",
				"error", err,
				"token", logger.MaskJWT(token),
				"request_path", c.Request.URL.Path,
				"client_ip", c.ClientIP())

			if errors.Is(err, ErrTokenExpired) {
				_ = c.Error(apperrors.Unauthorized("token_expired", "Your session has expired"))
			} else {
				_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid authentication token"))
			}
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), userID)
		c.Next()
	}
}

// RequireAuth rejects guests. It must run after OptionalAuth.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(UserIDKey)) == "" {
			_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
