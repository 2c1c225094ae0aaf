package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func setupRateLimitRouter(limiter *MockRateLimiter, cfg config.RateLimitConfig, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(string(UserIDKey), userID)
		}
		c.Next()
	})
	r.Use(APIRateLimiter(limiter, cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestAPIRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{RequestsPerMinute: 5, WindowSeconds: 60}

	tests := []struct {
		name        string
		userID      string
		wantKey     string
		allowed     bool
		retryAfter  time.Duration
		checkErr    error
		wantStatus  int
		wantRetryHd string
	}{
		{name: "user allowed", userID: "u1", wantKey: "api:user:u1", allowed: true, wantStatus: http.StatusOK},
		{name: "guest keyed by ip", wantKey: "api:ip:192.0.2.1", allowed: true, wantStatus: http.StatusOK},
		{name: "limit exceeded", userID: "u1", wantKey: "api:user:u1", retryAfter: 17 * time.Second, wantStatus: http.StatusTooManyRequests, wantRetryHd: "17"},
		{name: "sub-second retry rounds up to one", userID: "u1", wantKey: "api:user:u1", retryAfter: 200 * time.Millisecond, wantStatus: http.StatusTooManyRequests, wantRetryHd: "1"},
		{name: "backend failure fails open", userID: "u1", wantKey: "api:user:u1", checkErr: errors.New("redis down"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := new(MockRateLimiter)
			limiter.On("CheckLimit", mock.Anything, tt.wantKey, 5, time.Minute).Return(tt.allowed, tt.retryAfter, tt.checkErr)
			r := setupRateLimitRouter(limiter, cfg, tt.userID)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantRetryHd != "" {
				assert.Equal(t, tt.wantRetryHd, w.Header().Get("Retry-After"))
				assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			}
			limiter.AssertExpectations(t)
		})
	}
}

func TestAPIRateLimiterDisabled(t *testing.T) {
	limiter := new(MockRateLimiter)
	r := setupRateLimitRouter(limiter, config.RateLimitConfig{}, "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	limiter.AssertNotCalled(t, "CheckLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
