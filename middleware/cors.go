package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/config"
)

// CORSMiddleware creates a middleware for handling CORS with the given configuration
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"Accept",
			RequestIDHeader,
			SessionIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			RequestIDHeader,
			SessionIDHeader,
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || containsOrigin(cfg.AllowedOrigins, "*") {
		// Credentials cannot be combined with a wildcard origin
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
		return cors.New(corsConfig)
	}

	corsConfig.AllowOriginFunc = func(origin string) bool {
		return originAllowed(cfg.AllowedOrigins, origin)
	}
	return cors.New(corsConfig)
}

// originAllowed matches exact origins and "*.example.com" style subdomain
// wildcards.
func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == origin {
			return true
		}
		if strings.HasPrefix(a, "*.") && strings.HasSuffix(origin, strings.TrimPrefix(a, "*")) {
			return true
		}
	}
	return false
}

// containsOrigin checks if a string is present in the allowed origins slice
func containsOrigin(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}
