package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/store"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

var tripCols = []string{
	"id", "user_id", "destination", "start_date", "end_date", "budget", "group_size",
	"accommodation_type", "transport_mode", "interests", "status", "itinerary", "created_at", "updated_at",
}

func setupMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func createTestTrip() *types.Trip {
	return &types.Trip{
		ID:                uuid.NewString(),
		UserID:            "user-1",
		Destination:       "Kandy",
		StartDate:         time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Budget:            100000,
		GroupSize:         2,
		AccommodationType: types.AccommodationMidrange,
		TransportMode:     types.TransportMix,
		Interests:         []string{"culture"},
		Status:            types.TripStatusDraft,
		Itinerary: types.Itinerary{Days: []types.Day{
			{DayNumber: 1, Date: "2026-05-01", Activities: []types.Activity{{Name: "Temple of the Tooth"}}},
		}},
	}
}

func TestTripStore_CreateTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)
		trip := createTestTrip()
		now := time.Now()

		mock.ExpectQuery("INSERT INTO trips").
			WithArgs(trip.ID, trip.UserID, trip.Destination, trip.StartDate, trip.EndDate,
				trip.Budget, trip.GroupSize, "midrange", "mix", trip.Interests, "draft", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, s.CreateTrip(ctx, trip))
		assert.Equal(t, now, trip.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)

		mock.ExpectQuery("INSERT INTO trips").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := s.CreateTrip(ctx, createTestTrip())
		assert.ErrorIs(t, err, store.ErrConflict)
	})
}

func TestTripStore_GetTrip(t *testing.T) {
	ctx := context.Background()
	trip := createTestTrip()
	itinerary, err := json.Marshal(trip.Itinerary)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = \\$1").
			WithArgs(trip.ID).
			WillReturnRows(pgxmock.NewRows(tripCols).AddRow(
				trip.ID, trip.UserID, trip.Destination, trip.StartDate, trip.EndDate, trip.Budget,
				trip.GroupSize, "midrange", "mix", []string{"culture"}, "draft", itinerary, now, now,
			))

		got, err := s.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, trip.Destination, got.Destination)
		assert.Equal(t, types.AccommodationMidrange, got.AccommodationType)
		require.Len(t, got.Itinerary.Days, 1)
		assert.Equal(t, "Temple of the Tooth", got.Itinerary.Days[0].Activities[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows(tripCols))

		_, err := s.GetTrip(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM trips").
			WillReturnError(errors.New("connection reset"))

		_, err := s.GetTrip(ctx, trip.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTripStore_ListUserTrips(t *testing.T) {
	mock := setupMockPool(t)
	s := NewPgTripStore(mock)
	now := time.Now()
	a, b := createTestTrip(), createTestTrip()

	mock.ExpectQuery("SELECT (.+) FROM trips\\s+WHERE user_id = \\$1").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(tripCols).
			AddRow(a.ID, a.UserID, a.Destination, a.StartDate, a.EndDate, a.Budget, a.GroupSize,
				"budget", "public", []string{}, "draft", []byte(`{"days":[]}`), now, now).
			AddRow(b.ID, b.UserID, "Ella", b.StartDate, b.EndDate, b.Budget, b.GroupSize,
				"luxury", "private", []string{"hiking"}, "active", []byte(`{"days":[]}`), now, now))

	trips, err := s.ListUserTrips(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "Ella", trips[1].Destination)
	assert.Equal(t, types.TripStatusActive, trips[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripStore_UpdateTrip(t *testing.T) {
	ctx := context.Background()
	trip := createTestTrip()

	t.Run("success", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)
		now := time.Now()

		mock.ExpectQuery("UPDATE trips SET").
			WithArgs(trip.ID, trip.Destination, trip.StartDate, trip.EndDate, trip.Budget, trip.GroupSize,
				"midrange", "mix", trip.Interests, "draft", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

		require.NoError(t, s.UpdateTrip(ctx, trip))
		assert.Equal(t, now, trip.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgTripStore(mock)

		mock.ExpectQuery("UPDATE trips SET").
			WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))

		assert.ErrorIs(t, s.UpdateTrip(ctx, trip), store.ErrNotFound)
	})
}

func TestTripStore_DeleteTrip(t *testing.T) {
	mock := setupMockPool(t)
	s := NewPgTripStore(mock)

	mock.ExpectExec("DELETE FROM trips").WithArgs("t1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM trips").WithArgs("t2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, s.DeleteTrip(context.Background(), "t1"))
	assert.ErrorIs(t, s.DeleteTrip(context.Background(), "t2"), store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteStore(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "user_id", "item_type", "item_name", "payload", "created_at"}

	t.Run("list", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgFavoriteStore(mock)
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM favorites").
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow("f1", "user-1", "attraction", "Sigiriya", []byte(`{"entryFee":10500}`), now))

		favs, err := s.ListFavorites(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, types.FavoriteAttraction, favs[0].ItemType)
		assert.JSONEq(t, `{"entryFee":10500}`, string(favs[0].Payload))
	})

	t.Run("add duplicate", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgFavoriteStore(mock)

		mock.ExpectQuery("INSERT INTO favorites").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := s.AddFavorite(ctx, &types.Favorite{ID: "f1", UserID: "user-1", ItemType: types.FavoriteAttraction, ItemName: "Sigiriya"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("add", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgFavoriteStore(mock)
		now := time.Now()

		mock.ExpectQuery("INSERT INTO favorites").
			WithArgs("f1", "user-1", "restaurant", "Ministry of Crab", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

		fav := &types.Favorite{ID: "f1", UserID: "user-1", ItemType: types.FavoriteRestaurant, ItemName: "Ministry of Crab"}
		require.NoError(t, s.AddFavorite(ctx, fav))
		assert.Equal(t, now, fav.CreatedAt)
	})

	t.Run("delete scoped to owner", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgFavoriteStore(mock)

		mock.ExpectExec("DELETE FROM favorites WHERE id = \\$1 AND user_id = \\$2").
			WithArgs("f1", "someone-else").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, s.DeleteFavorite(ctx, "someone-else", "f1"), store.ErrNotFound)
	})
}

func TestNotificationSettingsStore(t *testing.T) {
	ctx := context.Background()
	cols := []string{"user_id", "email_enabled", "push_enabled", "trip_reminders", "deal_alerts", "updated_at"}

	t.Run("missing", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgNotificationSettingsStore(mock)

		mock.ExpectQuery("FROM notification_settings").WithArgs("user-1").WillReturnRows(pgxmock.NewRows(cols))

		_, err := s.GetNotificationSettings(ctx, "user-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("get", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgNotificationSettingsStore(mock)
		now := time.Now()

		mock.ExpectQuery("FROM notification_settings").WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows(cols).AddRow("user-1", false, true, true, true, now))

		got, err := s.GetNotificationSettings(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, got.EmailEnabled)
		assert.True(t, got.DealAlerts)
	})

	t.Run("upsert", func(t *testing.T) {
		mock := setupMockPool(t)
		s := NewPgNotificationSettingsStore(mock)
		now := time.Now()
		settings := types.DefaultNotificationSettings("user-1")

		mock.ExpectQuery("INSERT INTO notification_settings").
			WithArgs("user-1", true, true, true, false).
			WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

		require.NoError(t, s.UpsertNotificationSettings(ctx, &settings))
		assert.Equal(t, now, settings.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
