package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/middleware"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// FeatureHandler lets clients ask the gate what the caller may do before
// showing a feature.
type FeatureHandler struct {
	gate FeatureGateInterface
}

func NewFeatureHandler(gate FeatureGateInterface) *FeatureHandler {
	return &FeatureHandler{gate: gate}
}

// ListFeaturesHandler godoc
// @Summary Access decisions for every feature
// @Tags features
// @Produce json
// @Param X-Session-ID header string false "Guest session"
// @Success 200 {object} types.FeatureListResponse
// @Router /features [get]
func (h *FeatureHandler) ListFeaturesHandler(c *gin.Context) {
	actor := middleware.GetActor(c)
	features, err := h.gate.ListFeatures(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.FeatureListResponse{Audience: actor.Audience(), Features: features})
}

// FeatureAccessHandler godoc
// @Summary Access decision for one feature
// @Description Does not consume a use.
// @Tags features
// @Produce json
// @Param name path string true "Feature name"
// @Success 200 {object} types.FeatureAccess
// @Failure 404 {object} types.ErrorResponse "Unknown feature"
// @Router /features/{name}/access [get]
func (h *FeatureHandler) FeatureAccessHandler(c *gin.Context) {
	access, err := h.gate.CanUseFeature(c.Request.Context(), middleware.GetActor(c), types.FeatureName(c.Param("name")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, access)
}

// FeatureUsageHandler godoc
// @Summary Current usage for one feature
// @Tags features
// @Produce json
// @Param name path string true "Feature name"
// @Success 200 {object} types.FeatureUsageResponse
// @Failure 404 {object} types.ErrorResponse "Unknown feature"
// @Router /features/{name}/usage [get]
func (h *FeatureHandler) FeatureUsageHandler(c *gin.Context) {
	usage, err := h.gate.Usage(c.Request.Context(), middleware.GetActor(c), types.FeatureName(c.Param("name")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// RecordUsageHandler godoc
// @Summary Consume one use of a client-side feature
// @Description Used for features that run in the client, such as PDF export. Check and record are atomic.
// @Tags features
// @Produce json
// @Param name path string true "Feature name"
// @Success 200 {object} types.FeatureAccess
// @Failure 403 {object} types.ErrorResponse "Feature disabled for the caller"
// @Failure 429 {object} types.ErrorResponse "Quota exhausted"
// @Router /features/{name}/usage [post]
func (h *FeatureHandler) RecordUsageHandler(c *gin.Context) {
	access, _, err := h.gate.Acquire(c.Request.Context(), middleware.GetActor(c), types.FeatureName(c.Param("name")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, access)
}
