package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pharmadelivery/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAreIndependentPerInstance(t *testing.T) {
	m1 := metrics.New()
	m2 := metrics.New()

	m1.RouteComputations.WithLabelValues(metrics.RouteFailed).Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m1.RouteComputations.WithLabelValues(metrics.RouteFailed)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m2.RouteComputations.WithLabelValues(metrics.RouteFailed)), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.StatusTransitions.WithLabelValues("command", "4").Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pharmadelivery_status_transitions_total{kind="command",status="4"} 3`)
}
