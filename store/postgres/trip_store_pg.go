package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
)

var _ store.TripStore = (*pgTripStore)(nil)

type pgTripStore struct {
	db DBTX
}

func NewPgTripStore(db DBTX) store.TripStore {
	return &pgTripStore{db: db}
}

const tripColumns = `id, user_id, destination, start_date, end_date, budget, group_size,
	accommodation_type, transport_mode, interests, status, itinerary, created_at, updated_at`

// CreateTrip inserts a trip. The caller assigns the ID.
func (s *pgTripStore) CreateTrip(ctx context.Context, trip *types.Trip) error {
	itinerary, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}
	interests := trip.Interests
	if interests == nil {
		interests = []string{}
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO trips (id, user_id, destination, start_date, end_date, budget, group_size,
			accommodation_type, transport_mode, interests, status, itinerary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		trip.ID,
		trip.UserID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Budget,
		trip.GroupSize,
		string(trip.AccommodationType),
		string(trip.TransportMode),
		interests,
		string(trip.Status),
		itinerary,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	logger.GetLogger().Debugw("Trip created", "tripId", trip.ID, "userId", trip.UserID)
	return nil
}

func (s *pgTripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	trip, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

func (s *pgTripStore) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	rows, err := s.db.Query(ctx, `SELECT `+tripColumns+` FROM trips
		WHERE user_id = $1
		ORDER BY start_date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]*types.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// UpdateTrip overwrites every mutable column, itinerary included.
func (s *pgTripStore) UpdateTrip(ctx context.Context, trip *types.Trip) error {
	itinerary, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}
	interests := trip.Interests
	if interests == nil {
		interests = []string{}
	}

	err = s.db.QueryRow(ctx, `
		UPDATE trips SET destination = $2, start_date = $3, end_date = $4, budget = $5,
			group_size = $6, accommodation_type = $7, transport_mode = $8, interests = $9,
			status = $10, itinerary = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		trip.ID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Budget,
		trip.GroupSize,
		string(trip.AccommodationType),
		string(trip.TransportMode),
		interests,
		string(trip.Status),
		itinerary,
	).Scan(&trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

func (s *pgTripStore) DeleteTrip(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var (
		trip          types.Trip
		accommodation string
		transport     string
		status        string
		itinerary     []byte
		start, end    time.Time
	)
	err := row.Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Destination,
		&start,
		&end,
		&trip.Budget,
		&trip.GroupSize,
		&accommodation,
		&transport,
		&trip.Interests,
		&status,
		&itinerary,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	trip.StartDate = types.DateOnly(start)
	trip.EndDate = types.DateOnly(end)
	trip.AccommodationType = types.AccommodationType(accommodation)
	trip.TransportMode = types.TransportMode(transport)
	trip.Status = types.TripStatus(status)
	if len(itinerary) > 0 {
		if err := json.Unmarshal(itinerary, &trip.Itinerary); err != nil {
			return nil, fmt.Errorf("failed to decode itinerary: %w", err)
		}
	}
	return &trip, nil
}
