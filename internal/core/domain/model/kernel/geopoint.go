package kernel

import (
	"fmt"

	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate pair. Commands carry one (last known delivery
// position) and pharmacies carry one (routing waypoint).
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a coordinate pair in decimal degrees.
// Returns errs.ErrValueIsOutOfRange when latitude is outside [-90, 90] or
// longitude outside [-180, 180].
//
// Example:
//
//	depot, err := kernel.NewGeoPoint(45.764, 4.8357)
//	if err != nil {
//	    return fmt.Errorf("invalid depot: %w", err)
//	}
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if lat < LatitudeMin || lat > LatitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}
	if lon < LongitudeMin || lon > LongitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lon, LongitudeMin, LongitudeMax)
	}
	return GeoPoint{lat: lat, lon: lon, guard: guard.NewConstructorGuard()}, nil
}

// OptionalGeoPoint builds a point only when both coordinates are present.
func OptionalGeoPoint(lat, lon *float64) (*GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	p, err := NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate ensures the point was created through NewGeoPoint.
// Returns ErrGeoPointIsNotConstructed for the zero value.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// String formats the point as "lat,lon" with six decimals, the order the
// routing engine's logs use.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.lat, p.lon)
}
