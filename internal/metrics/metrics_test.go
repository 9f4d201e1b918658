package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}

	// Record one of each so the vectors materialize
	m.RecordAPIRequest("events", "success", 0.2)
	m.RecordResolverQuery("subject", true)
	m.RecordToolCall("get_duke_events", "success", 0.1)
	m.RecordAgentTurn("success", 3.5)
	m.RecordLLMRetry("gpt-4o")
	m.RecordSingleflightDedup("curriculum")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}

func TestRecordAPIRequest(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordAPIRequest("events", "success", 0.5)
	m.RecordAPIRequest("events", "success", 1.5)
	m.RecordAPIRequest("events", "error", 0.1)

	if got := testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("events", "success")); got != 2 {
		t.Errorf("events/success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("events", "error")); got != 1 {
		t.Errorf("events/error count = %v, want 1", got)
	}
}

func TestRecordResolverQuery_Outcomes(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordResolverQuery("category", true)
	m.RecordResolverQuery("category", false)
	m.RecordResolverQuery("category", false)

	if got := testutil.ToFloat64(m.ResolverQueriesTotal.WithLabelValues("category", "hit")); got != 1 {
		t.Errorf("category/hit = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ResolverQueriesTotal.WithLabelValues("category", "miss")); got != 2 {
		t.Errorf("category/miss = %v, want 2", got)
	}
}

func TestRecordAgentTurn_Statuses(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordAgentTurn("success", 1)
	m.RecordAgentTurn("iteration_limit", 30)

	if got := testutil.ToFloat64(m.AgentTurnsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("success turns = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AgentTurnsTotal.WithLabelValues("iteration_limit")); got != 1 {
		t.Errorf("iteration_limit turns = %v, want 1", got)
	}
}
