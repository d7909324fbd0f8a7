// Package metrics provides Prometheus metrics collection for the comparison service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// ComparisonsTotal tracks basket comparison runs.
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_comparisons_total",
			Help: "Total number of basket comparison runs",
		},
		[]string{"status"},
	)

	// ComparisonDuration tracks end-to-end comparison duration.
	ComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basket_comparison_duration_seconds",
			Help:    "Basket comparison duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	// ItemsMatchedTotal counts list items that resolved to at least one chain.
	ItemsMatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "list_items_matched_total",
			Help: "Total list items matched to at least one catalog entry",
		},
	)

	// ItemsUnmatchedTotal counts list items with no catalog candidates.
	ItemsUnmatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "list_items_unmatched_total",
			Help: "Total list items with no catalog candidates",
		},
	)

	// CatalogQueryErrorsTotal counts degraded catalog lookups by tier.
	CatalogQueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_errors_total",
			Help: "Total catalog query errors treated as empty candidate sets",
		},
		[]string{"tier"},
	)
)

// HTTPMiddleware collects request duration and count for each route.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Label by route pattern, not the raw path: ID-bearing paths would
		// otherwise mint one label pair per UUID.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		HTTPRequestTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

// RecordComparison records metrics for one comparison run.
func RecordComparison(duration time.Duration, status string, matched, unmatched int) {
	ComparisonDuration.Observe(duration.Seconds())
	ComparisonsTotal.WithLabelValues(status).Inc()
	ItemsMatchedTotal.Add(float64(matched))
	ItemsUnmatchedTotal.Add(float64(unmatched))
}

// RecordCatalogQueryError records a catalog lookup degraded to empty results.
func RecordCatalogQueryError(tier string) {
	CatalogQueryErrorsTotal.WithLabelValues(tier).Inc()
}
