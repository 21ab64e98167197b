package routing

import (
	"context"
	"log/slog"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without calling the engine while the breaker is
// open or half-open and saturated.
var ErrCircuitOpen = errors.New("routing circuit breaker is open")

// BreakerConfig tunes the circuit breaker in front of the routing engine.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig trips after five consecutive failures and retries one
// request after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "routing",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerGateway stops calling the engine after consecutive failures and
// fails fast until the breaker half-opens.
type BreakerGateway struct {
	next   ports.RoutingGateway
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewBreakerGateway wraps next with a circuit breaker. State changes are
// logged as warnings.
//
// Example:
//
//	gw := routing.NewBreakerGateway(client, routing.DefaultBreakerConfig(), logger)
//	route, err := gw.RouteForTour(ctx, points)
//	if errors.Is(err, routing.ErrCircuitOpen) {
//		// keep the route unknown, the repair job retries later
//	}
func NewBreakerGateway(next ports.RoutingGateway, cfg BreakerConfig, logger *slog.Logger) *BreakerGateway {
	logger = logger.With("component", "RoutingBreaker")
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerGateway{next: next, cb: gobreaker.NewCircuitBreaker(settings), logger: logger}
}

// RouteForTour forwards to the wrapped gateway.
// Returns an error wrapping ErrCircuitOpen while the breaker rejects calls.
func (g *BreakerGateway) RouteForTour(ctx context.Context, points []kernel.GeoPoint) (*tour.Route, error) {
	result, err := g.execute(func() (any, error) {
		return g.next.RouteForTour(ctx, points)
	})
	if err != nil {
		return nil, err
	}
	route, _ := result.(*tour.Route)
	return route, nil
}

// BatchDistances forwards to the wrapped gateway.
// Returns an error wrapping ErrCircuitOpen while the breaker rejects calls.
func (g *BreakerGateway) BatchDistances(ctx context.Context, waypoints []ports.Waypoint) (map[string]float64, error) {
	result, err := g.execute(func() (any, error) {
		return g.next.BatchDistances(ctx, waypoints)
	})
	if err != nil {
		return nil, err
	}
	distances, _ := result.(map[string]float64)
	return distances, nil
}

// State returns the current breaker state.
func (g *BreakerGateway) State() gobreaker.State {
	return g.cb.State()
}

func (g *BreakerGateway) execute(fn func() (any, error)) (any, error) {
	result, err := g.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Wrap(ErrCircuitOpen, err.Error())
	}
	return result, err
}
