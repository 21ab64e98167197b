package routing_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pharmadelivery/internal/adapters/out/routing"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/ports"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func newClient(t *testing.T, handler http.HandlerFunc) *routing.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return routing.NewClient(srv.URL+"/", point(t, 45, 4), time.Second)
}

func TestClient_RouteForTour(t *testing.T) {
	var path string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"geometry":"abc","distance":12500,"duration":1800}]}`)
	})

	route, err := client.RouteForTour(t.Context(), []kernel.GeoPoint{point(t, 45.5, 4.5)})
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, "abc", route.Geometry())
	assert.InDelta(t, 12.5, route.DistanceKm(), 1e-9)
	assert.InDelta(t, 30, route.DurationMinutes(), 1e-9)
	assert.Equal(t, "/route/v1/driving/4.000000,45.000000;4.500000,45.500000;4.000000,45.000000", path)
}

func TestClient_RouteForTour_NoRoute(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"NoRoute"}`)
	})

	route, err := client.RouteForTour(t.Context(), []kernel.GeoPoint{point(t, 45.5, 4.5)})
	require.NoError(t, err)
	assert.Nil(t, route)
}

func TestClient_RouteForTour_NoPointsSkipsCall(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, func(http.ResponseWriter, *http.Request) { calls.Add(1) })

	route, err := client.RouteForTour(t.Context(), nil)
	require.NoError(t, err)
	assert.Nil(t, route)
	assert.Zero(t, calls.Load())
}

func TestClient_ServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.RouteForTour(t.Context(), []kernel.GeoPoint{point(t, 45.5, 4.5)})
	require.ErrorIs(t, err, routing.ErrUnexpectedResponse)
}

func TestClient_BatchDistances(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/table/v1/driving/"))
		assert.Equal(t, "0", r.URL.Query().Get("sources"))
		_, _ = io.WriteString(w, `{"code":"Ok","distances":[[0,4000,null]]}`)
	})

	got, err := client.BatchDistances(t.Context(), []ports.Waypoint{
		{ID: "a", Point: point(t, 45.1, 4.1)},
		{ID: "b", Point: point(t, 45.2, 4.2)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 4}, got)
}

func TestClient_BatchDistances_ShapeMismatch(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"code":"Ok","distances":[[0]]}`)
	})

	_, err := client.BatchDistances(t.Context(), []ports.Waypoint{{ID: "a", Point: point(t, 45.1, 4.1)}})
	require.ErrorIs(t, err, routing.ErrUnexpectedResponse)
}

func TestBreakerGateway_OpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	cfg := routing.DefaultBreakerConfig()
	cfg.FailureThreshold = 2
	gateway := routing.NewBreakerGateway(client, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	points := []kernel.GeoPoint{point(t, 45.5, 4.5)}

	for range 2 {
		_, err := gateway.RouteForTour(context.Background(), points)
		require.ErrorIs(t, err, routing.ErrUnexpectedResponse)
	}
	assert.Equal(t, gobreaker.StateOpen, gateway.State())

	_, err := gateway.RouteForTour(context.Background(), points)
	require.ErrorIs(t, err, routing.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}
