package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/config"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/services"
)

// APIRateLimiter limits each caller to cfg.RequestsPerMinute requests per
// window. A limiter backend failure lets the request through.
func APIRateLimiter(rateLimiter services.RateLimiterInterface, cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}

	return func(c *gin.Context) {
		if cfg.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("api:%s", getRateLimitIdentifier(c))
		allowed, retryAfter, err := rateLimiter.CheckLimit(c.Request.Context(), key, cfg.RequestsPerMinute, window)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			setRateLimitHeaders(c, cfg.RequestsPerMinute, 0)
			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", seconds))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, cfg.RequestsPerMinute, -1)
		c.Next()
	}
}

// getRateLimitIdentifier returns the identifier to use for rate limiting.
// Authenticated users are limited by user ID, guests by IP address since
// their session header is client-chosen.
func getRateLimitIdentifier(c *gin.Context) string {
	if userID := c.GetString(string(UserIDKey)); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// setRateLimitHeaders sets the standard rate limit headers. A negative
// remaining count is omitted.
func setRateLimitHeaders(c *gin.Context, limit int, remaining int) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	if remaining >= 0 {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	}
}
