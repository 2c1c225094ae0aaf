package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) types.HealthCheck {
	return m.Called(ctx).Get(0).(types.HealthCheck)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name        string
		status      types.HealthStatus
		wantReady   int
		wantDetails int
	}{
		{"up", types.HealthStatusUp, http.StatusOK, http.StatusOK},
		{"degraded", types.HealthStatusDegraded, http.StatusOK, http.StatusOK},
		{"down", types.HealthStatusDown, http.StatusServiceUnavailable, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockHealthChecker)
			checker.On("CheckHealth", mock.Anything).Return(types.HealthCheck{
				Status:     tt.status,
				Components: map[string]types.HealthComponent{"database": {Status: tt.status}},
				Version:    "test",
			})

			h := NewHealthHandler(checker)
			r := newTestRouter("")
			r.GET("/health", h.LivenessCheck)
			r.GET("/health/ready", h.ReadinessCheck)
			r.GET("/health/details", h.DetailedHealth)

			assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/health", nil).Code)
			assert.Equal(t, tt.wantReady, doJSON(r, http.MethodGet, "/health/ready", nil).Code)

			w := doJSON(r, http.MethodGet, "/health/details", nil)
			assert.Equal(t, tt.wantDetails, w.Code)
			assert.Equal(t, string(tt.status), decodeBody(t, w)["status"])
		})
	}
}
