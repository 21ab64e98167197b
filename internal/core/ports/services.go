package ports

import (
	"context"

	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
)

// Waypoint is a labelled stop sent to the routing gateway.
type Waypoint struct {
	ID    string
	Point kernel.GeoPoint
}

// RoutingGateway computes routes and distances. Callers treat any error or
// nil route as "unknown route".
type RoutingGateway interface {
	// RouteForTour returns the route visiting points in order, or nil when no
	// route exists.
	RouteForTour(ctx context.Context, points []kernel.GeoPoint) (*tour.Route, error)

	// BatchDistances returns the distance in km from the depot to each
	// waypoint, keyed by Waypoint.ID, in one call.
	BatchDistances(ctx context.Context, waypoints []Waypoint) (map[string]float64, error)
}

// AnomalyService records anomalies. Callers log failures and carry on.
type AnomalyService interface {
	Create(ctx context.Context, a *anomaly.Anomaly) error
}

// StatusEventPublisher receives history events once their transaction committed.
type StatusEventPublisher interface {
	Publish(ctx context.Context, events []*history.Event) error
}
