package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	VisitsTrackedTotal *prometheus.CounterVec

	DashboardComputeDuration prometheus.Histogram
	DashboardCacheHitsTotal  prometheus.Counter
	DashboardCacheMissTotal  prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all collectors on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitlens_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visitlens_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		VisitsTrackedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitlens_visits_tracked_total",
				Help: "Visits received by the tracking endpoint",
			},
			[]string{"result"},
		),
		DashboardComputeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "visitlens_dashboard_compute_duration_seconds",
				Help:    "Time spent loading and aggregating a dashboard",
				Buckets: prometheus.DefBuckets,
			},
		),
		DashboardCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "visitlens_dashboard_cache_hits_total",
				Help: "Dashboards served from the memo cache",
			},
		),
		DashboardCacheMissTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "visitlens_dashboard_cache_misses_total",
				Help: "Dashboards recomputed",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.VisitsTrackedTotal,
		m.DashboardComputeDuration,
		m.DashboardCacheHitsTotal,
		m.DashboardCacheMissTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
