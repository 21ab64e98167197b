package tour

import (
	"errors"
	"math"

	"pharmadelivery/internal/pkg/errs"
)

// Route is the routing result stored on a tour.
type Route struct {
	geometry        string
	distanceKm      float64
	durationMinutes float64
}

// NewRoute creates a computed route.
// Returns errs.ErrValueIsRequired for an empty geometry and
// errs.ErrValueIsOutOfRange for a negative or NaN distance or duration.
func NewRoute(geometry string, distanceKm, durationMinutes float64) (*Route, error) {
	var errGeometry error
	if geometry == "" {
		errGeometry = errs.NewValueIsRequiredError("geometry")
	}
	var errDistance error
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		errDistance = errs.NewValueIsOutOfRangeError("distanceKm", distanceKm, 0, math.MaxFloat64)
	}
	var errDuration error
	if durationMinutes < 0 || math.IsNaN(durationMinutes) {
		errDuration = errs.NewValueIsOutOfRangeError("durationMinutes", durationMinutes, 0, math.MaxFloat64)
	}
	if err := errors.Join(errGeometry, errDistance, errDuration); err != nil {
		return nil, err
	}
	return &Route{geometry: geometry, distanceKm: distanceKm, durationMinutes: durationMinutes}, nil
}

// Geometry is the encoded polyline.
func (r *Route) Geometry() string {
	return r.geometry
}

// DistanceKm returns the driving distance depot to depot in kilometres.
func (r *Route) DistanceKm() float64 {
	return r.distanceKm
}

// DurationMinutes returns the estimated driving time in minutes.
func (r *Route) DurationMinutes() float64 {
	return r.durationMinutes
}
