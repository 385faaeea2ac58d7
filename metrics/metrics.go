// Package metrics provides Prometheus metrics collection for the consultation API.
// It exports HTTP request metrics plus counters for the suggestion pipeline:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - assist_requests_total: Counter with stage and status labels
//   - assist_stale_responses_discarded_total: Counter with stage label
//   - consultation_active_sessions: Gauge for open sessions
//
// All metrics are automatically registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	AssistRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assist_requests_total",
			Help: "Total suggestion service calls by pipeline stage and outcome",
		},
		[]string{"stage", "status"},
	)

	AssistStaleDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assist_stale_responses_discarded_total",
			Help: "Suggestion responses discarded because a newer request superseded them",
		},
		[]string{"stage"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consultation_active_sessions",
			Help: "Current number of open consultation sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(AssistRequestsTotal)
	prometheus.MustRegister(AssistStaleDiscarded)
	prometheus.MustRegister(ActiveSessions)
}
