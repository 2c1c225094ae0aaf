package types

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type TripStatus string

const (
	TripStatusDraft  TripStatus = "draft"  // Configured, not yet being travelled
	TripStatusActive TripStatus = "active" // Trip is under way
)

// IsValid checks if the status is a valid trip status
func (ts TripStatus) IsValid() bool {
	switch ts {
	case TripStatusDraft, TripStatusActive:
		return true
	default:
		return false
	}
}

func (ts TripStatus) String() string {
	return string(ts)
}

type AccommodationType string

const (
	AccommodationBudget   AccommodationType = "budget"
	AccommodationMidrange AccommodationType = "midrange"
	AccommodationLuxury   AccommodationType = "luxury"
)

func (a AccommodationType) IsValid() bool {
	switch a {
	case AccommodationBudget, AccommodationMidrange, AccommodationLuxury:
		return true
	default:
		return false
	}
}

type TransportMode string

const (
	TransportPublic  TransportMode = "public"
	TransportTukTuk  TransportMode = "tuktuk"
	TransportPrivate TransportMode = "private"
	TransportMix     TransportMode = "mix"
)

func (m TransportMode) IsValid() bool {
	switch m {
	case TransportPublic, TransportTukTuk, TransportPrivate, TransportMix:
		return true
	default:
		return false
	}
}

// Trip is a planned visit owned by a single user. Budget is in whole LKR.
type Trip struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	Destination       string            `json:"destination"`
	StartDate         time.Time         `json:"startDate"`
	EndDate           time.Time         `json:"endDate"`
	Budget            int64             `json:"budget"`
	GroupSize         int               `json:"groupSize"`
	AccommodationType AccommodationType `json:"accommodationType"`
	TransportMode     TransportMode     `json:"transportMode"`
	Interests         []string          `json:"interests"`
	Status            TripStatus        `json:"status"`
	Itinerary         Itinerary         `json:"itinerary"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// Duration is the number of itinerary days, one per date in [StartDate, EndDate).
// A same-day trip still counts as one day.
func (t *Trip) Duration() int {
	days := int(DateOnly(t.EndDate).Sub(DateOnly(t.StartDate)).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// HasInterest reports whether the trip carries the given interest tag.
func (t *Trip) HasInterest(tag string) bool {
	for _, i := range t.Interests {
		if strings.EqualFold(i, tag) {
			return true
		}
	}
	return false
}

// TripCreate is the request body for creating a trip. Dates use DateLayout.
type TripCreate struct {
	Destination       string            `json:"destination" binding:"required"`
	StartDate         string            `json:"startDate" binding:"required"`
	EndDate           string            `json:"endDate" binding:"required"`
	Budget            int64             `json:"budget"`
	GroupSize         int               `json:"groupSize" binding:"required"`
	AccommodationType AccommodationType `json:"accommodationType"`
	TransportMode     TransportMode     `json:"transportMode"`
	Interests         []string          `json:"interests"`
	Status            TripStatus        `json:"status"`
	Itinerary         Itinerary         `json:"itinerary"`
}

// TripUpdate patches a trip; nil fields are left unchanged.
type TripUpdate struct {
	Destination       *string            `json:"destination,omitempty"`
	StartDate         *string            `json:"startDate,omitempty"`
	EndDate           *string            `json:"endDate,omitempty"`
	Budget            *int64             `json:"budget,omitempty"`
	GroupSize         *int               `json:"groupSize,omitempty"`
	AccommodationType *AccommodationType `json:"accommodationType,omitempty"`
	TransportMode     *TransportMode     `json:"transportMode,omitempty"`
	Interests         []string           `json:"interests,omitempty"`
	Status            *TripStatus        `json:"status,omitempty"`
}

// TripDates is the slice of a persisted trip the overlap checker needs.
type TripDates struct {
	ID          string `json:"id,omitempty"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// LocalTripMetadata describes a trip the client holds locally but has not
// synced. SavedItemCount of zero marks a ghost trip.
type LocalTripMetadata struct {
	ID             string `json:"id,omitempty"`
	Destination    string `json:"destination"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	SavedItemCount int    `json:"savedItemCount"`
}

// DateConflict identifies the trip a candidate date range collides with.
type DateConflict struct {
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// OverlapCheckRequest is the body of POST /v1/trips/check-overlap.
type OverlapCheckRequest struct {
	StartDate     string              `json:"startDate" binding:"required"`
	EndDate       string              `json:"endDate" binding:"required"`
	LocalTrips    []LocalTripMetadata `json:"localTrips"`
	ExcludeTripID string              `json:"excludeTripId,omitempty"`
}

type OverlapCheckResponse struct {
	Overlaps bool          `json:"overlaps"`
	Conflict *DateConflict `json:"conflict,omitempty"`
}

// NormalizeInterests lowercases, trims and deduplicates interest tags,
// preserving first-seen order.
func NormalizeInterests(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts DateLayout or RFC3339 and returns the calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// FormatDate renders a calendar date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
