package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/models/featuregate"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFeatureGate struct {
	mock.Mock
	released int
}

func (m *MockFeatureGate) Acquire(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureAccess, featuregate.Release, error) {
	args := m.Called(actor, name)
	release := func(context.Context) error {
		m.released++
		return nil
	}
	return args.Get(0).(types.FeatureAccess), release, args.Error(1)
}

func setupFeatureRouter(gate FeatureAcquirer, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(string(SessionIDKey), "sess-1")
		c.Next()
	})
	r.POST("/chat", RequireFeature(gate, types.FeatureAIChat), handler)
	return r
}

func TestRequireFeature(t *testing.T) {
	remaining := 2
	allowed := types.FeatureAccess{Feature: types.FeatureAIChat, Allowed: true, State: types.AccessAllowedWithQuota, Remaining: &remaining}
	guest := types.Actor{SessionID: "sess-1"}

	t.Run("success keeps usage", func(t *testing.T) {
		gate := new(MockFeatureGate)
		gate.On("Acquire", guest, types.FeatureAIChat).Return(allowed, nil)
		r := setupFeatureRouter(gate, func(c *gin.Context) {
			access, ok := c.Get(string(FeatureAccessKey))
			assert.True(t, ok)
			assert.Equal(t, allowed, access)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-Feature-Remaining"))
		assert.Equal(t, 0, gate.released)
	})

	t.Run("handler failure refunds", func(t *testing.T) {
		gate := new(MockFeatureGate)
		gate.On("Acquire", guest, types.FeatureAIChat).Return(allowed, nil)
		r := setupFeatureRouter(gate, func(c *gin.Context) {
			_ = c.Error(apperrors.UpstreamUnavailable("AI chat", nil))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 1, gate.released)
	})

	t.Run("denied never reaches handler", func(t *testing.T) {
		gate := new(MockFeatureGate)
		gate.On("Acquire", guest, types.FeatureAIChat).
			Return(types.FeatureAccess{}, apperrors.QuotaExceeded("ai_chat", "Guest limit reached", true))
		called := false
		r := setupFeatureRouter(gate, func(c *gin.Context) { called = true })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.False(t, called)
		assert.Contains(t, w.Body.String(), `"showUpgrade":true`)
	})
}
