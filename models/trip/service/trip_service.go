package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/models/budget"
	"github.com/serendibtrip/serendibtrip-api/models/itinerary"
	"github.com/serendibtrip/serendibtrip-api/models/trip/validation"
	"github.com/serendibtrip/serendibtrip-api/services"
	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// TripManagementService owns trip lifecycle, itinerary edits and sharing.
type TripManagementService struct {
	store     store.TripStore
	snapshots services.SnapshotStorage
	signer    *services.ShareTokenSigner
	linkTTL   time.Duration

	newID func() string
	now   func() time.Time
}

// NewTripManagementService creates a new trip management service. linkTTL
// bounds the lifetime of presigned snapshot URLs.
func NewTripManagementService(
	store store.TripStore,
	snapshots services.SnapshotStorage,
	signer *services.ShareTokenSigner,
	linkTTL time.Duration,
) *TripManagementService {
	return &TripManagementService{
		store:     store,
		snapshots: snapshots,
		signer:    signer,
		linkTTL:   linkTTL,
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
}

// CreateTrip validates and persists a trip. A trip is only stored once it
// holds at least one saved item, and never when its dates collide with
// another of the user's trips.
func (s *TripManagementService) CreateTrip(ctx context.Context, userID string, req types.TripCreate) (*types.Trip, error) {
	trip, err := validation.TripFromCreate(userID, req)
	if err != nil {
		return nil, err
	}
	if len(trip.Itinerary.Days) != trip.Duration() {
		trip.Itinerary = itinerary.Rebuild(trip.Itinerary, trip.StartDate, trip.EndDate)
	}
	if trip.Itinerary.ActivityCount() == 0 {
		return nil, apperrors.ValidationFailed("Trip has no saved items", "add at least one item to the itinerary before saving")
	}

	if err := s.checkConflict(ctx, trip, ""); err != nil {
		return nil, err
	}

	trip.ID = s.newID()
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Trip created",
		"tripID", trip.ID,
		"userID", userID,
		"destination", trip.Destination,
		"items", trip.Itinerary.ActivityCount())
	return trip, nil
}

// GetTrip returns a trip owned by userID. Trips owned by someone else are
// reported as missing.
func (s *TripManagementService) GetTrip(ctx context.Context, userID, tripID string) (*types.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.TripNotFound(tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if trip.UserID != userID {
		logger.GetLogger().Warnw("Trip access by non-owner", "tripID", tripID, "userID", userID)
		return nil, apperrors.TripNotFound(tripID)
	}
	return trip, nil
}

func (s *TripManagementService) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	trips, err := s.store.ListUserTrips(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if trips == nil {
		trips = []*types.Trip{}
	}
	return trips, nil
}

// UpdateTrip patches trip settings. Changing the dates rebuilds the day
// list and re-runs the overlap check against the user's other trips.
func (s *TripManagementService) UpdateTrip(ctx context.Context, userID, tripID string, update types.TripUpdate) (*types.Trip, error) {
	original, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	updated, datesChanged, err := validation.ApplyTripUpdate(original, update)
	if err != nil {
		return nil, err
	}
	if datesChanged {
		if err := s.checkConflict(ctx, updated, tripID); err != nil {
			return nil, err
		}
		updated.Itinerary = itinerary.Rebuild(updated.Itinerary, updated.StartDate, updated.EndDate)
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TripManagementService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := s.GetTrip(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.TripNotFound(tripID)
		}
		return apperrors.NewDatabaseError(err)
	}
	logger.GetLogger().Infow("Trip deleted", "tripID", tripID, "userID", userID)
	return nil
}

// CheckOverlap tests a candidate date range against the user's stored trips
// and the unsynced trips the client reports.
func (s *TripManagementService) CheckOverlap(ctx context.Context, userID string, req types.OverlapCheckRequest) (*types.OverlapCheckResponse, error) {
	if _, err := types.ParseDate(req.StartDate); err != nil {
		return nil, apperrors.ValidationFailed("Invalid start date", "startDate must be YYYY-MM-DD or RFC3339")
	}
	if _, err := types.ParseDate(req.EndDate); err != nil {
		return nil, apperrors.ValidationFailed("Invalid end date", "endDate must be YYYY-MM-DD or RFC3339")
	}

	var existing []types.TripDates
	if userID != "" {
		trips, err := s.store.ListUserTrips(ctx, userID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		existing = validation.TripDatesExcluding(trips, req.ExcludeTripID)
	}

	local := make([]types.LocalTripMetadata, 0, len(req.LocalTrips))
	for _, t := range req.LocalTrips {
		if req.ExcludeTripID != "" && t.ID == req.ExcludeTripID {
			continue
		}
		local = append(local, t)
	}

	conflict := validation.CheckDateOverlap(req.StartDate, req.EndDate, existing, local)
	return &types.OverlapCheckResponse{Overlaps: conflict != nil, Conflict: conflict}, nil
}

func (s *TripManagementService) checkConflict(ctx context.Context, trip *types.Trip, excludeID string) error {
	trips, err := s.store.ListUserTrips(ctx, trip.UserID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	start, end := types.FormatDate(trip.StartDate), types.FormatDate(trip.EndDate)
	conflict := validation.CheckDateOverlap(start, end, validation.TripDatesExcluding(trips, excludeID), nil)
	if conflict == nil {
		return nil
	}
	logger.GetLogger().Infow("Trip dates overlap existing trip",
		"userID", trip.UserID,
		"conflictDestination", conflict.Destination)
	return apperrors.DateOverlap(conflict.Destination, conflict.StartDate, conflict.EndDate).
		WithExtra("conflict", conflict)
}

// AddActivity appends an activity to the day at dayIndex.
func (s *TripManagementService) AddActivity(ctx context.Context, userID, tripID string, dayIndex int, activity types.Activity) (*types.Trip, error) {
	if err := validation.ValidateActivity(activity); err != nil {
		return nil, err
	}
	return s.editItinerary(ctx, userID, tripID, func(it types.Itinerary) (types.Itinerary, error) {
		return itinerary.AddActivity(it, dayIndex, activity)
	})
}

func (s *TripManagementService) UpdateActivity(ctx context.Context, userID, tripID string, dayIndex, activityIndex int, patch types.ActivityPatch) (*types.Trip, error) {
	return s.editItinerary(ctx, userID, tripID, func(it types.Itinerary) (types.Itinerary, error) {
		next, err := itinerary.UpdateActivity(it, dayIndex, activityIndex, patch)
		if err != nil {
			return next, err
		}
		return next, validation.ValidateActivity(next.Days[dayIndex].Activities[activityIndex])
	})
}

func (s *TripManagementService) DeleteActivity(ctx context.Context, userID, tripID string, dayIndex, activityIndex int) (*types.Trip, error) {
	return s.editItinerary(ctx, userID, tripID, func(it types.Itinerary) (types.Itinerary, error) {
		return itinerary.DeleteActivity(it, dayIndex, activityIndex)
	})
}

func (s *TripManagementService) ReorderActivity(ctx context.Context, userID, tripID string, dayIndex, from, to int) (*types.Trip, error) {
	return s.editItinerary(ctx, userID, tripID, func(it types.Itinerary) (types.Itinerary, error) {
		return itinerary.ReorderActivity(it, dayIndex, from, to)
	})
}

func (s *TripManagementService) editItinerary(ctx context.Context, userID, tripID string, edit func(types.Itinerary) (types.Itinerary, error)) (*types.Trip, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	next, err := edit(trip.Itinerary)
	if err != nil {
		switch {
		case errors.Is(err, itinerary.ErrDayOutOfRange):
			return nil, apperrors.ValidationFailed("Invalid day", fmt.Sprintf("trip has %d days", len(trip.Itinerary.Days)))
		case errors.Is(err, itinerary.ErrActivityOutOfRange):
			return nil, apperrors.ValidationFailed("Invalid activity index", err.Error())
		default:
			return nil, err
		}
	}

	trip.Itinerary = next
	if err := s.persist(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripManagementService) persist(ctx context.Context, trip *types.Trip) error {
	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.TripNotFound(trip.ID)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// GetBudget derives the budget allocation for a stored trip.
func (s *TripManagementService) GetBudget(ctx context.Context, userID, tripID string) (*types.BudgetAllocation, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return budget.CalculateBudgetAllocation(budget.FromTrip(trip))
}

// ShareTrip stores a read-only snapshot of the itinerary and returns a
// signed token that resolves to it.
func (s *TripManagementService) ShareTrip(ctx context.Context, userID, tripID string) (*types.ShareResponse, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	snapshot := types.SharedItinerary{
		TripID:            trip.ID,
		Destination:       trip.Destination,
		StartDate:         types.FormatDate(trip.StartDate),
		EndDate:           types.FormatDate(trip.EndDate),
		GroupSize:         trip.GroupSize,
		AccommodationType: trip.AccommodationType,
		TransportMode:     trip.TransportMode,
		Interests:         trip.Interests,
		Itinerary:         trip.Itinerary,
		SharedAt:          s.now().UTC(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to encode itinerary snapshot")
	}

	key := fmt.Sprintf("shares/%s/%s.json", trip.ID, s.newID())
	if err := s.snapshots.PutSnapshot(ctx, key, data); err != nil {
		return nil, apperrors.UpstreamUnavailable("snapshot storage", err)
	}

	token, expiresAt, err := s.signer.Sign(trip.ID, key, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to issue share token")
	}

	resp := &types.ShareResponse{Token: token, ExpiresAt: expiresAt}
	url, err := s.snapshots.SnapshotURL(ctx, key, s.linkTTL)
	if err != nil {
		logger.GetLogger().Warnw("Failed to presign snapshot URL", "key", key, "error", err)
	} else {
		resp.SnapshotURL = url
	}

	logger.GetLogger().Infow("Trip shared", "tripID", trip.ID, "userID", userID, "expiresAt", expiresAt)
	return resp, nil
}

// GetSharedTrip resolves a share token to its snapshot. No identity is
// required.
func (s *TripManagementService) GetSharedTrip(ctx context.Context, token string) (*types.SharedItinerary, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	data, err := s.snapshots.GetSnapshot(ctx, claims.SnapshotKey)
	if err != nil {
		if errors.Is(err, services.ErrSnapshotNotFound) {
			return nil, apperrors.NotFound("Shared itinerary", claims.TripID)
		}
		return nil, apperrors.UpstreamUnavailable("snapshot storage", err)
	}

	var shared types.SharedItinerary
	if err := json.Unmarshal(data, &shared); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "Stored snapshot is corrupt")
	}
	return &shared, nil
}
