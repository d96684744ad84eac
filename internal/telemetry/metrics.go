package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the converse gateway.
type Metrics struct {
	RequestTotal           *prometheus.CounterVec
	RequestDurationMs      *prometheus.HistogramVec
	RouteTotal             *prometheus.CounterVec
	ValidationFailureTotal *prometheus.CounterVec
	AgentFallthroughTotal  *prometheus.CounterVec
	ProviderLatencyMs      *prometheus.HistogramVec
	RateLimitHitTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "converse_request_total",
			Help: "Total number of chat requests processed by the gateway.",
		}, []string{"model", "status", "stream"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "converse_request_duration_ms",
			Help:    "Total request duration in milliseconds (including provider latency).",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"model", "route"}),

		RouteTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "converse_route_total",
			Help: "Routing decisions taken by the dispatcher.",
		}, []string{"route", "model", "outcome"}),

		ValidationFailureTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "converse_validation_failure_total",
			Help: "Requests rejected by input validation.",
		}, []string{"code"}),

		AgentFallthroughTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "converse_agent_fallthrough_total",
			Help: "Agent-mode models dispatched without an agentId configured.",
		}, []string{"model"}),

		ProviderLatencyMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "converse_provider_latency_ms",
			Help:    "Latency of upstream provider calls in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"route"}),

		RateLimitHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "converse_rate_limit_hit_total",
			Help: "Requests rejected by rate limiting or the daily quota.",
		}, []string{"dimension"}),
	}
}

// RecordRequest records metrics for a completed HTTP request.
func (m *Metrics) RecordRequest(model, status string, streamed bool, durationMs float64, route string) {
	streamLabel := "false"
	if streamed {
		streamLabel = "true"
	}
	m.RequestTotal.WithLabelValues(model, status, streamLabel).Inc()
	m.RequestDurationMs.WithLabelValues(model, route).Observe(durationMs)
}

// RecordRoute counts one routing decision and its outcome.
func (m *Metrics) RecordRoute(route, model, outcome string) {
	m.RouteTotal.WithLabelValues(route, model, outcome).Inc()
}

// RecordValidationFailure counts one rejected request by error code.
func (m *Metrics) RecordValidationFailure(code string) {
	m.ValidationFailureTotal.WithLabelValues(code).Inc()
}

// RecordAgentFallthrough counts a silent agent-to-lower-route degradation.
func (m *Metrics) RecordAgentFallthrough(model string) {
	m.AgentFallthroughTotal.WithLabelValues(model).Inc()
}

// RecordRateLimitHit counts one rejected request per limiting dimension
// ("rpm" or "daily").
func (m *Metrics) RecordRateLimitHit(dimension string) {
	m.RateLimitHitTotal.WithLabelValues(dimension).Inc()
}

// RecordProviderLatency records the upstream portion of a request.
func (m *Metrics) RecordProviderLatency(route string, latencyMs float64) {
	m.ProviderLatencyMs.WithLabelValues(route).Observe(latencyMs)
}
