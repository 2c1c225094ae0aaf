package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// ItineraryHandler edits the activities of a stored trip. Day and activity
// path parameters are zero-based positions.
type ItineraryHandler struct {
	tripService TripServiceInterface
}

func NewItineraryHandler(tripService TripServiceInterface) *ItineraryHandler {
	return &ItineraryHandler{tripService: tripService}
}

// AddActivityHandler godoc
// @Summary Add an activity to a day
// @Tags itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Zero-based day index"
// @Param request body types.ActivityAddRequest true "Activity"
// @Success 201 {object} types.Trip
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/days/{day}/activities [post]
// @Security BearerAuth
func (h *ItineraryHandler) AddActivityHandler(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	var req types.ActivityAddRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	trip, err := h.tripService.AddActivity(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day, req.Activity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// UpdateActivityHandler godoc
// @Summary Edit an activity in place
// @Tags itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Zero-based day index"
// @Param index path int true "Zero-based activity index"
// @Param request body types.ActivityPatch true "Fields to change"
// @Success 200 {object} types.Trip
// @Failure 400 {object} types.ErrorResponse
// @Router /trips/{id}/days/{day}/activities/{index} [patch]
// @Security BearerAuth
func (h *ItineraryHandler) UpdateActivityHandler(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	var patch types.ActivityPatch
	if !bindJSONOrError(c, &patch) {
		return
	}

	trip, err := h.tripService.UpdateActivity(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day, index, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteActivityHandler godoc
// @Summary Remove an activity
// @Tags itinerary
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Zero-based day index"
// @Param index path int true "Zero-based activity index"
// @Success 200 {object} types.Trip
// @Failure 400 {object} types.ErrorResponse
// @Router /trips/{id}/days/{day}/activities/{index} [delete]
// @Security BearerAuth
func (h *ItineraryHandler) DeleteActivityHandler(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}

	trip, err := h.tripService.DeleteActivity(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day, index)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// ReorderActivityHandler godoc
// @Summary Move an activity within a day
// @Tags itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Zero-based day index"
// @Param request body types.ReorderRequest true "Source and destination positions"
// @Success 200 {object} types.Trip
// @Failure 400 {object} types.ErrorResponse
// @Router /trips/{id}/days/{day}/reorder [post]
// @Security BearerAuth
func (h *ItineraryHandler) ReorderActivityHandler(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	var req types.ReorderRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	trip, err := h.tripService.ReorderActivity(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), day, *req.From, *req.To)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}
