// Package metrics owns the request metric series for the monitored service.
// The registry is injected into the middleware rather than living in the
// process-wide default, so tests and multiple servers never share state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the per-request counter and latency histogram. The label
// set is (method, endpoint, status) for counts and (method, endpoint) for
// latency; endpoint must be a route template so cardinality stays bounded.
type Registry struct {
	reg              *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDurations *prometheus.HistogramVec
}

func New() *Registry {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "http_status"},
	)

	requestDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		requestsTotal,
		requestDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		reg:              reg,
		requestsTotal:    requestsTotal,
		requestDurations: requestDurations,
	}
}

// ObserveRequest records one completed request-response cycle: a counter
// increment keyed by status and a latency observation. The underlying vecs
// are internally synchronized, so concurrent calls are safe.
func (r *Registry) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.requestsTotal.WithLabelValues(method, endpoint, code).Inc()
	r.requestDurations.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// Handler exposes the registry in Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying gatherer, used by tests to inspect series.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
