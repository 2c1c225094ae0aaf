package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/middleware"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// TripHandler handles HTTP requests related to trips, their itinerary and
// sharing.
type TripHandler struct {
	tripService TripServiceInterface
}

// NewTripHandler creates a new TripHandler with the given dependencies.
func NewTripHandler(tripService TripServiceInterface) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripHandler godoc
// @Summary Create a new trip
// @Description Saves a trip with at least one itinerary item. Dates colliding with another trip are rejected.
// @Tags trips
// @Accept json
// @Produce json
// @Param request body types.TripCreate true "Trip creation details"
// @Success 201 {object} types.Trip "Created trip"
// @Failure 400 {object} types.ErrorResponse "Bad request - Invalid input data"
// @Failure 401 {object} types.ErrorResponse "Unauthorized - User not logged in"
// @Failure 409 {object} types.ErrorResponse "Trip dates overlap an existing trip"
// @Router /trips [post]
// @Security BearerAuth
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	var req types.TripCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), getUserIDFromContext(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// ListUserTripsHandler godoc
// @Summary List the caller's trips
// @Tags trips
// @Produce json
// @Success 200 {array} types.Trip
// @Failure 401 {object} types.ErrorResponse
// @Router /trips [get]
// @Security BearerAuth
func (h *TripHandler) ListUserTripsHandler(c *gin.Context) {
	trips, err := h.tripService.ListUserTrips(c.Request.Context(), getUserIDFromContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTripHandler godoc
// @Summary Get trip details
// @Tags trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} types.Trip
// @Failure 404 {object} types.ErrorResponse "Not found - Trip not found"
// @Router /trips/{id} [get]
// @Security BearerAuth
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// UpdateTripHandler godoc
// @Summary Update trip settings
// @Description Changing dates rebuilds the day list and re-checks for overlaps.
// @Tags trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body types.TripUpdate true "Fields to change"
// @Success 200 {object} types.Trip
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /trips/{id} [put]
// @Security BearerAuth
func (h *TripHandler) UpdateTripHandler(c *gin.Context) {
	var update types.TripUpdate
	if !bindJSONOrError(c, &update) {
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), getUserIDFromContext(c), c.Param("id"), update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTripHandler godoc
// @Summary Delete a trip
// @Tags trips
// @Param id path string true "Trip ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id} [delete]
// @Security BearerAuth
func (h *TripHandler) DeleteTripHandler(c *gin.Context) {
	if err := h.tripService.DeleteTrip(c.Request.Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckOverlapHandler godoc
// @Summary Check a date range against existing trips
// @Description Guests are checked against the local trips they send; signed-in users also against stored trips.
// @Tags trips
// @Accept json
// @Produce json
// @Param request body types.OverlapCheckRequest true "Candidate dates"
// @Success 200 {object} types.OverlapCheckResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /trips/check-overlap [post]
func (h *TripHandler) CheckOverlapHandler(c *gin.Context) {
	var req types.OverlapCheckRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.tripService.CheckOverlap(c.Request.Context(), getUserIDFromContext(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetTripBudgetHandler godoc
// @Summary Budget allocation for a stored trip
// @Tags budget
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} types.BudgetAllocation
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/budget [get]
// @Security BearerAuth
func (h *TripHandler) GetTripBudgetHandler(c *gin.Context) {
	alloc, err := h.tripService.GetBudget(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// ShareTripHandler godoc
// @Summary Share a read-only itinerary snapshot
// @Tags share
// @Produce json
// @Param id path string true "Trip ID"
// @Success 201 {object} types.ShareResponse
// @Failure 403 {object} types.ErrorResponse "Sharing not available"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/share [post]
// @Security BearerAuth
func (h *TripHandler) ShareTripHandler(c *gin.Context) {
	resp, err := h.tripService.ShareTrip(c.Request.Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSharedTripHandler godoc
// @Summary Resolve a share token
// @Tags share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} types.SharedItinerary
// @Failure 401 {object} types.ErrorResponse "Invalid or expired token"
// @Failure 404 {object} types.ErrorResponse
// @Router /shared/{token} [get]
func (h *TripHandler) GetSharedTripHandler(c *gin.Context) {
	shared, err := h.tripService.GetSharedTrip(c.Request.Context(), c.Param("token"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, shared)
}

func getUserIDFromContext(c *gin.Context) string {
	return c.GetString(string(middleware.UserIDKey))
}

// bindJSONOrError binds JSON request body and sets validation error if binding fails.
// Returns true if binding succeeded, false if error was set (caller should return).
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}

// pathIndex reads a non-negative integer path parameter.
func pathIndex(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		_ = c.Error(apperrors.ValidationFailed("Invalid path parameter", name+" must be a non-negative integer"))
		return 0, false
	}
	return n, true
}
