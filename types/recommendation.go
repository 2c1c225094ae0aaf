package types

import "context"

// RecommendationRequest is sent to the AI provider. Exclude holds names of
// items already saved to the trip.
type RecommendationRequest struct {
	Destination       string            `json:"destination" binding:"required"`
	Interests         []string          `json:"interests"`
	Budget            int64             `json:"budget"`
	Duration          int               `json:"duration"`
	GroupSize         int               `json:"groupSize"`
	StartDate         string            `json:"startDate,omitempty"`
	EndDate           string            `json:"endDate,omitempty"`
	AccommodationType AccommodationType `json:"accommodationType,omitempty"`
	TransportMode     TransportMode     `json:"transportMode,omitempty"`
	Exclude           []string          `json:"exclude,omitempty"`
}

// RecommendedItem is a single suggestion. Every field beyond Name is optional.
type RecommendedItem struct {
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	Type          string     `json:"type,omitempty"`
	Location      string     `json:"location,omitempty"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	Rating        *float64   `json:"rating,omitempty"`
	EntryFee      *int64     `json:"entryFee,omitempty"`
	EstimatedCost *int64     `json:"estimatedCost,omitempty"`
	PriceRange    string     `json:"priceRange,omitempty"`
	Cuisine       string     `json:"cuisine,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	BestTime      string     `json:"bestTime,omitempty"`
	Tips          string     `json:"tips,omitempty"`
	Price         *PriceInfo `json:"price,omitempty"`
}

type TransportEstimate struct {
	Mode          string `json:"mode,omitempty"`
	EstimatedCost int64  `json:"estimatedCost,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// RecommendationResponse is the provider's structured answer, enriched
// with prices before it reaches the client.
type RecommendationResponse struct {
	TopAttractions            []RecommendedItem `json:"topAttractions"`
	RecommendedRestaurants    []RecommendedItem `json:"recommendedRestaurants"`
	RecommendedAccommodations []RecommendedItem `json:"recommendedAccommodations"`
	TransportEstimate         *TransportEstimate `json:"transportEstimate,omitempty"`
	BudgetBreakdown           map[string]int64  `json:"budgetBreakdown,omitempty"`
	TripSummary               string            `json:"tripSummary,omitempty"`
	Cached                    bool              `json:"cached"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is a free-form travel question with optional trip context.
type ChatRequest struct {
	Message     string        `json:"message" binding:"required"`
	History     []ChatMessage `json:"history,omitempty" binding:"omitempty,dive"`
	Destination string        `json:"destination,omitempty"`
	TripID      string        `json:"tripId,omitempty"`
}

type ChatResponse struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// RecommendationProvider is the external AI collaborator.
type RecommendationProvider interface {
	Recommend(ctx context.Context, req RecommendationRequest) (*RecommendationResponse, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
