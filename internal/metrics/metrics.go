// Package metrics exposes the Prometheus instrumentation for the rating
// service. All collectors live in a module-owned registry so tests can build
// isolated instances.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the rating service.
type Metrics struct {
	analysesTotal       *prometheus.CounterVec
	rectificationsTotal prometheus.Counter
	evaluationDuration  prometheus.Histogram
	cachedAnalyses      prometheus.Gauge

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a metrics instance with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rating_analyses_total",
				Help: "Total number of policy analyses by overall tier",
			},
			[]string{"tier"},
		),

		rectificationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rating_rectifications_total",
				Help: "Total number of rectifications performed",
			},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rating_evaluation_duration_seconds",
				Help:    "Policy evaluation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		cachedAnalyses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rating_cached_analyses",
				Help: "Number of analyses currently held in the in-memory cache",
			},
		),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rating_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rating_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.analysesTotal,
		m.rectificationsTotal,
		m.evaluationDuration,
		m.cachedAnalyses,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)

	return m
}

// ObserveAnalysis records one completed policy analysis.
func (m *Metrics) ObserveAnalysis(tier string, duration time.Duration) {
	m.analysesTotal.WithLabelValues(tier).Inc()
	m.evaluationDuration.Observe(duration.Seconds())
}

// ObserveRectification records one completed rectification.
func (m *Metrics) ObserveRectification() {
	m.rectificationsTotal.Inc()
}

// SetCachedAnalyses updates the cache size gauge.
func (m *Metrics) SetCachedAnalyses(n int) {
	m.cachedAnalyses.Set(float64(n))
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records per-request counters and latency, labeled by the
// matched route template rather than the raw path to keep cardinality low.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.httpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
