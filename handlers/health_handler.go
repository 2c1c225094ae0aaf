package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// HealthChecker reports the state of the service's dependencies.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}

type HealthHandler struct {
	healthService HealthChecker
}

func NewHealthHandler(healthService HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck godoc
// @Summary Readiness probe
// @Description 503 when a required dependency is down; degraded dependencies still report ready.
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthCheck
// @Failure 503 {object} types.HealthCheck
// @Router /health/ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

// DetailedHealth provides detailed health information
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	c.JSON(http.StatusOK, health)
}
