package validation

import (
	"fmt"
	"strings"

	"github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/pkg/valueobjects"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// ValidateTrip checks a trip's fields and fills in defaults for status,
// accommodation type and transport mode. Interests are normalized in place.
func ValidateTrip(trip *types.Trip) error {
	var validationErrors []string

	if strings.TrimSpace(trip.Destination) == "" {
		validationErrors = append(validationErrors, "trip destination is required")
	}
	if trip.StartDate.IsZero() {
		validationErrors = append(validationErrors, "trip start date is required")
	}
	if trip.EndDate.IsZero() {
		validationErrors = append(validationErrors, "trip end date is required")
	}
	if !trip.StartDate.IsZero() && !trip.EndDate.IsZero() && trip.EndDate.Before(trip.StartDate) {
		validationErrors = append(validationErrors, "trip end date cannot be before start date")
	}
	if trip.GroupSize <= 0 {
		validationErrors = append(validationErrors, "group size must be positive")
	}
	if trip.Budget < 0 {
		validationErrors = append(validationErrors, "budget must not be negative")
	}

	if trip.Status == "" {
		trip.Status = types.TripStatusDraft
	} else if !trip.Status.IsValid() {
		validationErrors = append(validationErrors, "invalid trip status")
	}
	if trip.AccommodationType == "" {
		trip.AccommodationType = types.AccommodationMidrange
	} else if !trip.AccommodationType.IsValid() {
		validationErrors = append(validationErrors, "invalid accommodation type")
	}
	if trip.TransportMode == "" {
		trip.TransportMode = types.TransportMix
	} else if !trip.TransportMode.IsValid() {
		validationErrors = append(validationErrors, "invalid transport mode")
	}
	trip.Interests = types.NormalizeInterests(trip.Interests)

	for di, day := range trip.Itinerary.Days {
		for ai, a := range day.Activities {
			if problem := activityProblem(a); problem != "" {
				validationErrors = append(validationErrors, fmt.Sprintf("day %d activity %d: %s", di+1, ai+1, problem))
			}
		}
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed(
			"Invalid trip data",
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}

// TripFromCreate parses the wire dates of a create request into a Trip.
func TripFromCreate(userID string, req types.TripCreate) (*types.Trip, error) {
	start, err := types.ParseDate(req.StartDate)
	if err != nil {
		return nil, errors.ValidationFailed("Invalid start date", "startDate must be YYYY-MM-DD or RFC3339")
	}
	end, err := types.ParseDate(req.EndDate)
	if err != nil {
		return nil, errors.ValidationFailed("Invalid end date", "endDate must be YYYY-MM-DD or RFC3339")
	}

	trip := &types.Trip{
		UserID:            userID,
		Destination:       strings.TrimSpace(req.Destination),
		StartDate:         start,
		EndDate:           end,
		Budget:            req.Budget,
		GroupSize:         req.GroupSize,
		AccommodationType: req.AccommodationType,
		TransportMode:     req.TransportMode,
		Interests:         req.Interests,
		Status:            req.Status,
		Itinerary:         req.Itinerary,
	}
	if err := ValidateTrip(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// ApplyTripUpdate returns a copy of original with update applied and
// validated. The second result reports whether the date range changed.
func ApplyTripUpdate(original *types.Trip, update types.TripUpdate) (*types.Trip, bool, error) {
	updated := *original
	datesChanged := false

	if update.Destination != nil {
		updated.Destination = strings.TrimSpace(*update.Destination)
	}
	if update.StartDate != nil {
		d, err := types.ParseDate(*update.StartDate)
		if err != nil {
			return nil, false, errors.ValidationFailed("Invalid start date", "startDate must be YYYY-MM-DD or RFC3339")
		}
		datesChanged = datesChanged || !d.Equal(original.StartDate)
		updated.StartDate = d
	}
	if update.EndDate != nil {
		d, err := types.ParseDate(*update.EndDate)
		if err != nil {
			return nil, false, errors.ValidationFailed("Invalid end date", "endDate must be YYYY-MM-DD or RFC3339")
		}
		datesChanged = datesChanged || !d.Equal(original.EndDate)
		updated.EndDate = d
	}
	if update.Budget != nil {
		updated.Budget = *update.Budget
	}
	if update.GroupSize != nil {
		updated.GroupSize = *update.GroupSize
	}
	if update.AccommodationType != nil {
		updated.AccommodationType = *update.AccommodationType
	}
	if update.TransportMode != nil {
		updated.TransportMode = *update.TransportMode
	}
	if update.Interests != nil {
		updated.Interests = update.Interests
	}
	if update.Status != nil {
		updated.Status = *update.Status
	}

	if err := ValidateTrip(&updated); err != nil {
		return nil, false, err
	}
	return &updated, datesChanged, nil
}

// ValidateActivity checks a single itinerary entry.
func ValidateActivity(a types.Activity) error {
	if problem := activityProblem(a); problem != "" {
		return errors.ValidationFailed("Invalid activity", problem)
	}
	return nil
}

func activityProblem(a types.Activity) string {
	if strings.TrimSpace(a.Name) == "" {
		return "activity name is required"
	}
	if a.Cost < 0 {
		return "activity cost must not be negative"
	}
	if err := valueobjects.ValidateOptionalCoordinates(a.Lat, a.Lng); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr.Detail
		}
		return err.Error()
	}
	return ""
}
