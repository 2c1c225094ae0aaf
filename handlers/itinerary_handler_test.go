package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupItineraryRouter(svc *MockTripService) *gin.Engine {
	r := newTestRouter(testUserID)
	h := NewItineraryHandler(svc)
	r.POST("/v1/trips/:id/days/:day/activities", h.AddActivityHandler)
	r.PATCH("/v1/trips/:id/days/:day/activities/:index", h.UpdateActivityHandler)
	r.DELETE("/v1/trips/:id/days/:day/activities/:index", h.DeleteActivityHandler)
	r.POST("/v1/trips/:id/days/:day/reorder", h.ReorderActivityHandler)
	return r
}

func TestItineraryHandlers(t *testing.T) {
	activity := types.Activity{Time: "14:00", Name: "Royal Botanical Gardens", Cost: 3000}
	name := "Peradeniya Gardens"

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		setupMock  func(m *MockTripService)
		wantStatus int
	}{
		{
			name:   "add activity",
			method: http.MethodPost,
			path:   "/v1/trips/trip-1/days/1/activities",
			body:   types.ActivityAddRequest{Activity: activity},
			setupMock: func(m *MockTripService) {
				m.On("AddActivity", mock.Anything, testUserID, "trip-1", 1, activity).Return(sampleTrip(), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "negative day",
			method:     http.MethodPost,
			path:       "/v1/trips/trip-1/days/-1/activities",
			body:       types.ActivityAddRequest{Activity: activity},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non numeric index",
			method:     http.MethodDelete,
			path:       "/v1/trips/trip-1/days/0/activities/first",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "update activity",
			method: http.MethodPatch,
			path:   "/v1/trips/trip-1/days/0/activities/0",
			body:   types.ActivityPatch{Name: &name},
			setupMock: func(m *MockTripService) {
				m.On("UpdateActivity", mock.Anything, testUserID, "trip-1", 0, 0, types.ActivityPatch{Name: &name}).Return(sampleTrip(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "delete out of range",
			method: http.MethodDelete,
			path:   "/v1/trips/trip-1/days/0/activities/9",
			setupMock: func(m *MockTripService) {
				m.On("DeleteActivity", mock.Anything, testUserID, "trip-1", 0, 9).
					Return(nil, apperrors.ValidationFailed("Invalid itinerary position", "activity index out of range"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "reorder",
			method: http.MethodPost,
			path:   "/v1/trips/trip-1/days/0/reorder",
			body:   map[string]int{"from": 0, "to": 2},
			setupMock: func(m *MockTripService) {
				m.On("ReorderActivity", mock.Anything, testUserID, "trip-1", 0, 0, 2).Return(sampleTrip(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "reorder missing target",
			method:     http.MethodPost,
			path:       "/v1/trips/trip-1/days/0/reorder",
			body:       map[string]int{"from": 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "trip of another user",
			method: http.MethodDelete,
			path:   "/v1/trips/trip-2/days/0/activities/0",
			setupMock: func(m *MockTripService) {
				m.On("DeleteActivity", mock.Anything, testUserID, "trip-2", 0, 0).Return(nil, apperrors.TripNotFound("trip-2"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTripService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			w := doJSON(setupItineraryRouter(svc), tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
