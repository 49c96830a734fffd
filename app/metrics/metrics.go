// Package metrics provides Prometheus metrics for the blog API.
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
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// StoreOpDuration measures post store operations.
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_store_operation_duration_seconds",
			Help:    "Post store operation duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "outcome"},
	)

	// PostMutationsTotal counts successful writes by kind.
	PostMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_post_mutations_total",
			Help: "Total number of successful post writes",
		},
		[]string{"kind"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request metric.
func RecordRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// StartStoreOp starts timing a store operation. Call the returned func with the
// operation's result to record it.
func StartStoreOp(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		StoreOpDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
	}
}

// RecordMutation counts a successful create, update or delete.
func RecordMutation(kind string) {
	PostMutationsTotal.WithLabelValues(kind).Inc()
}
