package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// RecommendationHandler serves the AI-backed endpoints. Quota is enforced by
// middleware.RequireFeature on the routes.
type RecommendationHandler struct {
	recommendations RecommendationServiceInterface
	tripService     TripServiceInterface
}

func NewRecommendationHandler(recommendations RecommendationServiceInterface, tripService TripServiceInterface) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		tripService:     tripService,
	}
}

// RecommendationsHandler godoc
// @Summary AI recommendations for a destination
// @Description Items already saved to the trip given by tripId are excluded.
// @Tags ai
// @Accept json
// @Produce json
// @Param tripId query string false "Stored trip whose saved items are excluded"
// @Param request body types.RecommendationRequest true "Trip context"
// @Success 200 {object} types.RecommendationResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse "Quota exhausted"
// @Failure 502 {object} types.ErrorResponse "AI provider unavailable"
// @Router /recommendations [post]
func (h *RecommendationHandler) RecommendationsHandler(c *gin.Context) {
	var req types.RecommendationRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	if tripID := c.Query("tripId"); tripID != "" {
		userID := getUserIDFromContext(c)
		if userID == "" {
			logger.GetLogger().Debugw("Ignoring tripId for guest recommendation request", "tripID", tripID)
		} else {
			trip, err := h.tripService.GetTrip(c.Request.Context(), userID, tripID)
			if err != nil {
				_ = c.Error(err)
				return
			}
			req.Exclude = append(req.Exclude, trip.Itinerary.ActivityNames()...)
		}
	}

	resp, err := h.recommendations.GetRecommendations(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChatHandler godoc
// @Summary Ask the travel assistant
// @Description A signed-in caller may pass tripId to ground the answer in a stored trip.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body types.ChatRequest true "Message and history"
// @Success 200 {object} types.ChatResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse "Quota exhausted"
// @Failure 502 {object} types.ErrorResponse "AI provider unavailable"
// @Router /ai/chat [post]
func (h *RecommendationHandler) ChatHandler(c *gin.Context) {
	var req types.ChatRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	if userID := getUserIDFromContext(c); req.TripID != "" && userID != "" && strings.TrimSpace(req.Destination) == "" {
		trip, err := h.tripService.GetTrip(c.Request.Context(), userID, req.TripID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		req.Destination = trip.Destination
	}

	resp, err := h.recommendations.Chat(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
