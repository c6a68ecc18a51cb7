// Package metrics provides Prometheus instrumentation for the insight engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LookupsTotal counts account lookups by outcome.
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_lookups_total",
		Help: "Total account lookups",
	}, []string{"outcome"})

	// UpstreamRequestsTotal counts provider requests by source and outcome.
	// Failures degrade to empty collections, so this is the only place a
	// broken upstream is directly visible.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_upstream_requests_total",
		Help: "Upstream provider requests",
	}, []string{"source", "outcome"})

	// UpstreamLatency tracks provider request latency by source.
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_upstream_latency_seconds",
		Help:    "Upstream provider request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// CacheHits and CacheMisses count snapshot cache effectiveness by kind.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_cache_hits_total",
		Help: "Snapshot cache hits",
	}, []string{"kind"})
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_cache_misses_total",
		Help: "Snapshot cache misses",
	}, []string{"kind"})

	// CatalogListingsScanned tracks listings pulled in the last catalog scan.
	CatalogListingsScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insight_catalog_listings_scanned",
		Help: "Listings fetched during the most recent catalog scan",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
