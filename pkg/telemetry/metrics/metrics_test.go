package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"meridian-hq/lexgate/pkg/config"
)

func testConfig(enabled bool) *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   enabled,
		Namespace: "meridian",
		Subsystem: "lexgate",
	}
}

func TestNewCollector_Enabled(t *testing.T) {
	c := NewCollector(testConfig(true), nil)

	if c.Decision() == nil {
		t.Error("Decision() = nil with metrics enabled")
	}
	if c.Ledger() == nil {
		t.Error("Ledger() = nil with metrics enabled")
	}
	if c.Registry() == nil {
		t.Error("Registry() = nil")
	}
}

func TestNewCollector_Disabled(t *testing.T) {
	c := NewCollector(testConfig(false), nil)

	if c.Decision() != nil {
		t.Error("Decision() != nil with metrics disabled")
	}
	if c.Ledger() != nil {
		t.Error("Ledger() != nil with metrics disabled")
	}
}

// TestNilRecordersAreNoOps tests that record methods on nil subsystems do
// not panic, so callers never guard instrumentation.
func TestNilRecordersAreNoOps(t *testing.T) {
	var dm *DecisionMetrics
	var lm *LedgerMetrics

	dm.RecordDecision("deterministic", time.Millisecond)
	dm.RecordConflict("ambiguous")
	dm.RecordOverride("applied")
	lm.RecordAppend("automatic_decision")
	lm.RecordAppendConflict()
	lm.RecordVerification("verified")
	lm.SetChainLength(42)
}

func TestDecisionMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	dm := NewDecisionMetrics(testConfig(true), registry)

	dm.RecordDecision("deterministic", 50*time.Microsecond)
	dm.RecordDecision("deterministic", 80*time.Microsecond)
	dm.RecordDecision("void", time.Microsecond)
	dm.RecordConflict("ambiguous")
	dm.RecordOverride("unauthorized")

	if got := testutil.ToFloat64(dm.decisionsTotal.WithLabelValues("deterministic")); got != 2 {
		t.Errorf("decisions_total{kind=deterministic} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(dm.decisionsTotal.WithLabelValues("void")); got != 1 {
		t.Errorf("decisions_total{kind=void} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(dm.conflictsTotal.WithLabelValues("ambiguous")); got != 1 {
		t.Errorf("statute_conflicts_total{kind=ambiguous} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(dm.overridesTotal.WithLabelValues("unauthorized")); got != 1 {
		t.Errorf("overrides_total{outcome=unauthorized} = %v, want 1", got)
	}
}

func TestLedgerMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	lm := NewLedgerMetrics(testConfig(true), registry)

	lm.RecordAppend("automatic_decision")
	lm.RecordAppend("human_override")
	lm.RecordAppendConflict()
	lm.RecordVerification("verified")
	lm.SetChainLength(7)

	if got := testutil.ToFloat64(lm.appendsTotal.WithLabelValues("automatic_decision")); got != 1 {
		t.Errorf("ledger_appends_total{event_type=automatic_decision} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(lm.appendConflicts); got != 1 {
		t.Errorf("ledger_append_conflicts_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(lm.chainLength); got != 7 {
		t.Errorf("ledger_chain_length = %v, want 7", got)
	}
}

// TestHandler tests that recorded metrics are exposed over HTTP.
func TestHandler(t *testing.T) {
	c := NewCollector(testConfig(true), nil)
	c.Decision().RecordDecision("deterministic", time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "meridian_lexgate_decisions_total") {
		t.Errorf("metrics endpoint missing decisions counter:\n%s", body)
	}
}
