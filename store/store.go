// Package store defines the persistence ports used by the services.
package store

import (
	"context"

	"github.com/serendibtrip/serendibtrip-api/types"
)

// TripStore persists trips together with their itinerary.
type TripStore interface {
	CreateTrip(ctx context.Context, trip *types.Trip) error
	GetTrip(ctx context.Context, id string) (*types.Trip, error)
	// ListUserTrips returns a user's trips ordered by start date.
	ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error)
	UpdateTrip(ctx context.Context, trip *types.Trip) error
	DeleteTrip(ctx context.Context, id string) error
}

type FavoriteStore interface {
	ListFavorites(ctx context.Context, userID string) ([]*types.Favorite, error)
	// AddFavorite returns ErrConflict when the user already saved the item.
	AddFavorite(ctx context.Context, fav *types.Favorite) error
	DeleteFavorite(ctx context.Context, userID, id string) error
}

type NotificationSettingsStore interface {
	// GetNotificationSettings returns ErrNotFound when the user never saved any.
	GetNotificationSettings(ctx context.Context, userID string) (*types.NotificationSettings, error)
	UpsertNotificationSettings(ctx context.Context, settings *types.NotificationSettings) error
}
