package types

import "time"

// SharedItinerary is the read-only snapshot stored when a trip is shared.
type SharedItinerary struct {
	TripID            string            `json:"tripId"`
	Destination       string            `json:"destination"`
	StartDate         string            `json:"startDate"`
	EndDate           string            `json:"endDate"`
	GroupSize         int               `json:"groupSize"`
	AccommodationType AccommodationType `json:"accommodationType,omitempty"`
	TransportMode     TransportMode     `json:"transportMode,omitempty"`
	Interests         []string          `json:"interests,omitempty"`
	Itinerary         Itinerary         `json:"itinerary"`
	SharedAt          time.Time         `json:"sharedAt"`
}

// ShareResponse is returned by POST /v1/trips/:id/share.
type ShareResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	SnapshotURL string    `json:"snapshotUrl,omitempty"`
}
