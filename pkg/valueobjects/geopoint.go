package valueobjects

import (
	"fmt"

	"github.com/serendibtrip/serendibtrip-api/errors"
)

// GeoPoint represents a geographic point with latitude and longitude
type GeoPoint struct {
	latitude  float64
	longitude float64
}

// NewGeoPoint creates a new GeoPoint with validation
func NewGeoPoint(lat, lng float64) (*GeoPoint, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	return &GeoPoint{latitude: lat, longitude: lng}, nil
}

func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", g.latitude, g.longitude)
}

// ValidateOptionalCoordinates accepts an absent pair or a complete valid one.
// A lone latitude or longitude is rejected.
func ValidateOptionalCoordinates(lat, lng *float64) error {
	switch {
	case lat == nil && lng == nil:
		return nil
	case lat == nil || lng == nil:
		return errors.ValidationFailed(
			"invalid coordinates",
			"lat and lng must be provided together",
		)
	}
	return validateCoordinates(*lat, *lng)
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return errors.ValidationFailed(
			"invalid latitude",
			fmt.Sprintf("latitude %f is outside valid range [-90, 90]", lat),
		)
	}

	if lng < -180 || lng > 180 {
		return errors.ValidationFailed(
			"invalid longitude",
			fmt.Sprintf("longitude %f is outside valid range [-180, 180]", lng),
		)
	}

	return nil
}
