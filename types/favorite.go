package types

import (
	"encoding/json"
	"time"
)

type FavoriteItemType string

const (
	FavoriteAttraction    FavoriteItemType = "attraction"
	FavoriteRestaurant    FavoriteItemType = "restaurant"
	FavoriteAccommodation FavoriteItemType = "accommodation"
	FavoriteDestination   FavoriteItemType = "destination"
)

func (t FavoriteItemType) IsValid() bool {
	switch t {
	case FavoriteAttraction, FavoriteRestaurant, FavoriteAccommodation, FavoriteDestination:
		return true
	default:
		return false
	}
}

// Favorite is an item a user bookmarked. Payload is stored as-is.
type Favorite struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	ItemType  FavoriteItemType `json:"itemType"`
	ItemName  string           `json:"itemName"`
	Payload   json.RawMessage  `json:"payload,omitempty" swaggertype:"object"`
	CreatedAt time.Time        `json:"createdAt"`
}

type FavoriteCreate struct {
	ItemType FavoriteItemType `json:"itemType" binding:"required"`
	ItemName string           `json:"itemName" binding:"required"`
	Payload  json.RawMessage  `json:"payload,omitempty" swaggertype:"object"`
}
