package handlers

import (
	"context"

	"github.com/serendibtrip/serendibtrip-api/models/featuregate"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// TripServiceInterface defines the trip service methods needed by handlers
type TripServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, req types.TripCreate) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID string) (*types.Trip, error)
	ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID string, update types.TripUpdate) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID string) error
	CheckOverlap(ctx context.Context, userID string, req types.OverlapCheckRequest) (*types.OverlapCheckResponse, error)
	GetBudget(ctx context.Context, userID, tripID string) (*types.BudgetAllocation, error)
	ShareTrip(ctx context.Context, userID, tripID string) (*types.ShareResponse, error)
	GetSharedTrip(ctx context.Context, token string) (*types.SharedItinerary, error)

	AddActivity(ctx context.Context, userID, tripID string, dayIndex int, activity types.Activity) (*types.Trip, error)
	UpdateActivity(ctx context.Context, userID, tripID string, dayIndex, activityIndex int, patch types.ActivityPatch) (*types.Trip, error)
	DeleteActivity(ctx context.Context, userID, tripID string, dayIndex, activityIndex int) (*types.Trip, error)
	ReorderActivity(ctx context.Context, userID, tripID string, dayIndex, from, to int) (*types.Trip, error)
}

// RecommendationServiceInterface is the AI surface used by handlers.
type RecommendationServiceInterface interface {
	GetRecommendations(ctx context.Context, req types.RecommendationRequest) (*types.RecommendationResponse, error)
	Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error)
}

// FeatureGateInterface exposes gate decisions to clients.
type FeatureGateInterface interface {
	CanUseFeature(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureAccess, error)
	Acquire(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureAccess, featuregate.Release, error)
	ListFeatures(ctx context.Context, actor types.Actor) ([]types.FeatureAccess, error)
	Usage(ctx context.Context, actor types.Actor, name types.FeatureName) (types.FeatureUsageResponse, error)
}
