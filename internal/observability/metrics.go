package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CatalogPagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_pages_fetched_total",
			Help: "Product pages fetched from the catalog API",
		},
	)
	CatalogProductsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_fetched_total",
			Help: "Products fetched from the catalog API",
		},
	)
	DeleteAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_delete_attempts_total",
			Help: "Product delete attempts by outcome",
		},
		[]string{"status"},
	)
	DuplicateGroups = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "duplicate_groups",
			Help: "Duplicate groups found by the last scan, per criterion",
		},
		[]string{"criterion"},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CatalogPagesFetched,
			CatalogProductsFetched,
			DeleteAttempts,
			DuplicateGroups,
			httpRequestsTotal,
			httpRequestDuration,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// RecordRequest stores count and latency for one HTTP request.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}
