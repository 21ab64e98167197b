// Package routes keeps tour order and tour routes consistent after commands
// move between tours.
package routes

import (
	"context"
	"log/slog"
	"time"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel gateway calls when none is configured.
const DefaultConcurrency = 4

// Store is the slice of a unit of work the planner needs.
type Store interface {
	CommandRepository() ports.CommandRepository
	TourRepository() ports.TourRepository
	PharmacyRepository() ports.PharmacyRepository
}

// Planner renumbers tours and recomputes their routes.
type Planner struct {
	gateway     ports.RoutingGateway
	sequencer   services.Sequencer
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewPlanner returns a planner; m may be nil.
func NewPlanner(gateway ports.RoutingGateway, concurrency int, m *metrics.Metrics, logger *slog.Logger) *Planner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Planner{
		gateway:     gateway,
		sequencer:   services.NewSequencer(),
		concurrency: concurrency,
		metrics:     m,
		logger:      logger.With("component", "RoutePlanner"),
	}
}

// Refresh renumbers every listed tour and then recomputes their routes.
// Empty ids are ignored, duplicates collapsed.
func (p *Planner) Refresh(ctx context.Context, store Store, scope ports.Scope, tourIDs []string) error {
	ids := uniqueIDs(tourIDs)
	if len(ids) == 0 {
		return nil
	}

	tours, err := store.TourRepository().GetMany(ctx, scope, ids)
	if err != nil {
		return err
	}
	for _, t := range tours {
		if _, err = p.ReorganizeTourOrder(ctx, store, t.ID()); err != nil {
			return err
		}
	}
	return p.UpdateTourRoutes(ctx, store, tours)
}

// ReorganizeTourOrder reloads the tour's commands and renumbers them 1..N.
// It returns the commands in their new order.
func (p *Planner) ReorganizeTourOrder(ctx context.Context, store Store, tourID string) ([]*command.Command, error) {
	repo := store.CommandRepository()
	commands, err := repo.GetByTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if err = p.sequencer.Renumber(commands); err != nil {
		return nil, err
	}
	for _, c := range commands {
		if err = repo.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return commands, nil
}

// UpdateTourRoutes asks the gateway for a route per tour, concurrently, and
// persists every tour afterwards. A failed or empty route degrades that tour
// to an unknown route; it never fails the call. Only storage errors do.
func (p *Planner) UpdateTourRoutes(ctx context.Context, store Store, tours []*tour.Tour) error {
	if len(tours) == 0 {
		return nil
	}

	stops := make([][]*command.Command, len(tours))
	var pharmacyIDs []kernel.UUID
	for i, t := range tours {
		commands, err := store.CommandRepository().GetByTour(ctx, t.ID())
		if err != nil {
			return err
		}
		stops[i] = commands
		for _, c := range commands {
			if c.PharmacyID() != nil {
				pharmacyIDs = append(pharmacyIDs, *c.PharmacyID())
			}
		}
	}

	locations, err := p.pharmacyLocations(ctx, store, pharmacyIDs)
	if err != nil {
		return err
	}

	routes := make([]*tour.Route, len(tours))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, t := range tours {
		points := waypoints(stops[i], locations)
		g.Go(func() error {
			routes[i] = p.compute(gctx, t.ID(), points)
			return nil
		})
	}
	_ = g.Wait()

	for i, t := range tours {
		t.ApplyRoute(routes[i])
		if err = store.TourRepository().Update(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) compute(ctx context.Context, tourID string, points []kernel.GeoPoint) *tour.Route {
	if len(points) == 0 {
		p.observe(metrics.RouteEmpty, 0)
		return nil
	}

	started := time.Now()
	route, err := p.gateway.RouteForTour(ctx, points)
	elapsed := time.Since(started)

	switch {
	case err != nil:
		p.logger.WarnContext(ctx, "route computation failed, keeping tour without route",
			"tourID", tourID, "stops", len(points), "error", err)
		p.observe(metrics.RouteFailed, elapsed)
		return nil
	case route == nil:
		p.logger.InfoContext(ctx, "routing gateway returned no route", "tourID", tourID, "stops", len(points))
		p.observe(metrics.RouteEmpty, elapsed)
		return nil
	default:
		p.observe(metrics.RouteComputed, elapsed)
		return route
	}
}

func (p *Planner) observe(outcome string, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.RouteComputations.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		p.metrics.RouteDuration.Observe(elapsed.Seconds())
	}
}

func (p *Planner) pharmacyLocations(
	ctx context.Context,
	store Store,
	ids []kernel.UUID,
) (map[kernel.UUID]kernel.GeoPoint, error) {
	out := make(map[kernel.UUID]kernel.GeoPoint)
	if len(ids) == 0 {
		return out, nil
	}

	pharmacies, err := store.PharmacyRepository().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, ph := range pharmacies {
		if ph.Location() != nil {
			out[ph.ID()] = *ph.Location()
		}
	}
	return out, nil
}

// waypoints lists the stops of a tour in order. A command is located at its
// pharmacy, or at its own geolocation when the pharmacy has none. Commands
// with neither are skipped.
func waypoints(commands []*command.Command, pharmacies map[kernel.UUID]kernel.GeoPoint) []kernel.GeoPoint {
	out := make([]kernel.GeoPoint, 0, len(commands))
	for _, c := range commands {
		if c.PharmacyID() != nil {
			if point, ok := pharmacies[*c.PharmacyID()]; ok {
				out = append(out, point)
				continue
			}
		}
		if c.Location() != nil {
			out = append(out, *c.Location())
		}
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
