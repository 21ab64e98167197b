// Package rediscache keeps depot distances in Redis so reports do not hit the
// routing engine for pharmacies it already measured.
package rediscache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// DistanceCache decorates a routing gateway with a Redis cache of depot
// distances keyed by rounded coordinates. Routes are never cached; only
// BatchDistances goes through Redis. Redis failures degrade to a direct call.
//
// Example:
//
//	gateway := rediscache.New(cfg.RedisAddr, "depot-lyon", rediscache.DefaultTTL, breaker, logger)
//	defer gateway.Close()
//	km, err := gateway.BatchDistances(ctx, waypoints)
type DistanceCache struct {
	c      *redis.Client
	next   ports.RoutingGateway
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to addr. prefix separates depots sharing one Redis and ttl
// bounds how long a distance is trusted.
func New(addr, prefix string, ttl time.Duration, next ports.RoutingGateway, logger *slog.Logger) *DistanceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DistanceCache{
		c:      redis.NewClient(&redis.Options{Addr: addr}),
		next:   next,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("component", "DistanceCache"),
	}
}

// RouteForTour delegates to the wrapped gateway without caching.
func (d *DistanceCache) RouteForTour(ctx context.Context, points []kernel.GeoPoint) (*tour.Route, error) {
	return d.next.RouteForTour(ctx, points)
}

// BatchDistances answers from Redis first and asks the wrapped gateway only
// for the misses, storing what it returns. When that call fails the cached
// distances are still returned and the misses stay unknown; the error is
// returned only when nothing was cached.
func (d *DistanceCache) BatchDistances(ctx context.Context, waypoints []ports.Waypoint) (map[string]float64, error) {
	result := make(map[string]float64, len(waypoints))
	if len(waypoints) == 0 {
		return result, nil
	}

	cached, err := d.lookup(ctx, waypoints)
	if err != nil {
		d.logger.WarnContext(ctx, "distance cache unavailable", "error", err)
		return d.next.BatchDistances(ctx, waypoints)
	}

	misses := make([]ports.Waypoint, 0)
	for i, w := range waypoints {
		if km, ok := cached[i]; ok {
			result[w.ID] = km
			continue
		}
		misses = append(misses, w)
	}
	if len(misses) == 0 {
		return result, nil
	}

	fresh, err := d.next.BatchDistances(ctx, misses)
	if err != nil {
		if len(result) == 0 {
			return nil, err
		}
		d.logger.WarnContext(ctx, "distance lookup failed, serving cached distances only",
			"cached", len(result), "missing", len(misses), "error", err)
		return result, nil
	}

	pipe := d.c.Pipeline()
	for _, w := range misses {
		km, ok := fresh[w.ID]
		if !ok {
			continue
		}
		result[w.ID] = km
		pipe.Set(ctx, d.key(w.Point), strconv.FormatFloat(km, 'f', -1, 64), d.ttl)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		d.logger.WarnContext(ctx, "failed to store distances", "error", errors.Wrap(err, "redis pipeline"))
	}

	return result, nil
}

// lookup returns the cached distances keyed by waypoint index.
func (d *DistanceCache) lookup(ctx context.Context, waypoints []ports.Waypoint) (map[int]float64, error) {
	keys := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		keys = append(keys, d.key(w.Point))
	}

	values, err := d.c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis mget")
	}

	hits := make(map[int]float64, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		km, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			continue
		}
		hits[i] = km
	}
	return hits, nil
}

func (d *DistanceCache) key(p kernel.GeoPoint) string {
	return fmt.Sprintf("%s:distance:%.5f:%.5f", d.prefix, p.Lat(), p.Lon())
}

// Close releases the Redis connection pool.
func (d *DistanceCache) Close() error {
	return d.c.Close()
}
