package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Duke API client metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIDurationSeconds *prometheus.HistogramVec

	// Resolver metrics
	ResolverQueriesTotal *prometheus.CounterVec

	// Agent metrics
	ToolCallsTotal      *prometheus.CounterVec
	ToolDurationSeconds *prometheus.HistogramVec
	AgentTurnsTotal     *prometheus.CounterVec
	AgentTurnDuration   prometheus.Histogram
	LLMRetriesTotal     *prometheus.CounterVec

	// Singleflight metrics
	SingleflightDedupTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Duke API client metrics
		APIRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_api_requests_total",
				Help: "Total number of Duke API requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // status: success, error, timeout
		),

		APIDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dukebot_api_duration_seconds",
				Help:    "Duke API request duration in seconds by endpoint",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}, // Matches 30s request timeout
			},
			[]string{"endpoint"}, // endpoint: events, curriculum, course_detail, people, websearch
		),

		// Resolver metrics
		ResolverQueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_resolver_queries_total",
				Help: "Total number of format resolver queries by kind and outcome",
			},
			[]string{"kind", "outcome"}, // kind: subject, group, category; outcome: hit, miss
		),

		// Agent metrics
		ToolCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_tool_calls_total",
				Help: "Total number of agent tool invocations by tool and status",
			},
			[]string{"tool", "status"}, // status: success, error
		),

		ToolDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dukebot_tool_duration_seconds",
				Help:    "Tool invocation duration in seconds by tool",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"tool"},
		),

		AgentTurnsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_agent_turns_total",
				Help: "Total number of agent turns by status",
			},
			[]string{"status"}, // status: success, error, iteration_limit
		),

		AgentTurnDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dukebot_agent_turn_duration_seconds",
				Help:    "Full agent turn duration in seconds including tool calls",
				Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120}, // Matches 120s turn timeout
			},
		),

		LLMRetriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_llm_retries_total",
				Help: "Total number of LLM request retries by model",
			},
			[]string{"model"},
		),

		// Singleflight metrics
		SingleflightDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_singleflight_dedup_total",
				Help: "Total number of deduplicated requests (requests that waited instead of executing)",
			},
			[]string{"endpoint"},
		),
	}

	return m
}

// RecordAPIRequest records a Duke API request with status
func (m *Metrics) RecordAPIRequest(endpoint, status string, duration float64) {
	m.APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.APIDurationSeconds.WithLabelValues(endpoint).Observe(duration)
}

// RecordResolverQuery records a format resolver query
func (m *Metrics) RecordResolverQuery(kind string, matched bool) {
	outcome := "miss"
	if matched {
		outcome = "hit"
	}
	m.ResolverQueriesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordToolCall records an agent tool invocation
func (m *Metrics) RecordToolCall(tool, status string, duration float64) {
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDurationSeconds.WithLabelValues(tool).Observe(duration)
}

// RecordAgentTurn records a completed agent turn
func (m *Metrics) RecordAgentTurn(status string, duration float64) {
	m.AgentTurnsTotal.WithLabelValues(status).Inc()
	m.AgentTurnDuration.Observe(duration)
}

// RecordLLMRetry records a retried LLM request
func (m *Metrics) RecordLLMRetry(model string) {
	m.LLMRetriesTotal.WithLabelValues(model).Inc()
}

// RecordSingleflightDedup records a deduplicated request
func (m *Metrics) RecordSingleflightDedup(endpoint string) {
	m.SingleflightDedupTotal.WithLabelValues(endpoint).Inc()
}
