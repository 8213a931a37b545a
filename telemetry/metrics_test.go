package telemetry

import (
	"net/http/httptest"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordInteraction(t *testing.T) {
	m := NewMetrics()

	m.RecordInteraction("chat", false, 120*time.Millisecond)
	m.RecordInteraction("chat", true, 80*time.Millisecond)
	m.RecordInteraction("email", true, 300*time.Millisecond)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.interactionsTotal.WithLabelValues("chat", "false")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.interactionsTotal.WithLabelValues("chat", "true")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.escalationsTotal.WithLabelValues("chat")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.escalationsTotal.WithLabelValues("email")))
}

func TestMetrics_AgentOutcomesAndDeferred(t *testing.T) {
	m := NewMetrics()

	m.RecordAgentOutcome("generator", "ok")
	m.RecordAgentOutcome("generator", "failed")
	m.RecordAgentOutcome("anomaly_scan", "skipped")
	m.DeferredScheduled()
	m.DeferredScheduled()
	m.DeferredCompleted()
	m.RecordRateLimitRejection()

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.agentOutcomes.WithLabelValues("generator", "ok")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.agentOutcomes.WithLabelValues("generator", "failed")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.deferredPending))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.rateLimitRejections))
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordInteraction("chat", true, time.Second)
		m.RecordAgentOutcome("generator", "ok")
		m.RecordRateLimitRejection()
		m.DeferredScheduled()
		m.DeferredCompleted()
	})
}

func TestMetrics_HandlerServesExposition(t *testing.T) {
	m := NewMetrics()
	m.RecordInteraction("chat", false, 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "caremesh_interactions_total")
	assert.Contains(t, rec.Body.String(), "caremesh_pipeline_duration_seconds")
}
