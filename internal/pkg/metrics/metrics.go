// Package metrics holds the prometheus collectors of the delivery core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pharmadelivery"

// Route outcomes recorded by RouteComputations.
const (
	RouteComputed = "computed"
	RouteEmpty    = "empty"
	RouteFailed   = "failed"
)

// Metrics groups the collectors updated by the command handlers and jobs. A
// nil *Metrics is not valid; tests use New.
type Metrics struct {
	registry *prometheus.Registry

	StatusTransitions *prometheus.CounterVec
	PackageCascades   prometheus.Counter
	AnomaliesCreated  *prometheus.CounterVec
	RouteComputations *prometheus.CounterVec
	RouteDuration     prometheus.Histogram
	ToursDuplicated   prometheus.Counter
}

// New builds collectors on a private registry, so several instances can live in
// one process (tests build one per case).
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Status history events appended, by entity kind and status id",
		},
		[]string{"kind", "status"},
	)
	m.PackageCascades = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "package_status_cascades_total",
		Help:      "Package status changes caused by a command status change",
	})
	m.AnomaliesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_total",
			Help:      "Automatic anomaly creations, by result",
		},
		[]string{"result"},
	)
	m.RouteComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_computations_total",
			Help:      "Tour route recomputations, by outcome",
		},
		[]string{"outcome"},
	)
	m.RouteDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "route_computation_duration_seconds",
		Help:      "Routing gateway latency per tour",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	})
	m.ToursDuplicated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tours_duplicated_total",
		Help:      "Tours created by same-day duplication",
	})

	registry.MustRegister(
		m.StatusTransitions,
		m.PackageCascades,
		m.AnomaliesCreated,
		m.RouteComputations,
		m.RouteDuration,
		m.ToursDuplicated,
	)

	return m
}

// Registry returns the private registry, for tests that gather values.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
