package anomaly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh/caremesh/core"
)

var _ core.Agent[core.AnomalyInput, core.AnomalyOutput] = (*Agent)(nil)

// steadyLogs returns n identical records plus one outlier on the given field.
func steadyLogs(n int, field string, baseline, outlier float64) []core.UsageRecord {
	logs := make([]core.UsageRecord, 0, n+1)
	for i := 0; i < n; i++ {
		logs = append(logs, core.UsageRecord{field: baseline})
	}
	logs = append(logs, core.UsageRecord{field: outlier})
	return logs
}

func TestProcess_DetectsErrorSpike(t *testing.T) {
	out, err := New().Process(context.Background(), core.AnomalyInput{
		AccountID: "acct-1",
		UsageLogs: steadyLogs(8, "error_count", 1, 100),
	})
	require.NoError(t, err)

	require.Len(t, out.Alerts, 1)
	alert := out.Alerts[0]
	assert.Equal(t, "high_error_rate", alert.AlertType)
	assert.Equal(t, core.SeverityMedium, alert.Severity)
	assert.NotEmpty(t, alert.RecommendedAction)
	assert.False(t, alert.Timestamp.IsZero())
}

func TestProcess_LoginFailuresMapToSuspiciousActivity(t *testing.T) {
	out, err := New().Process(context.Background(), core.AnomalyInput{
		AccountID: "acct-1",
		UsageLogs: steadyLogs(8, "login_failures", 0, 50),
	})
	require.NoError(t, err)

	require.Len(t, out.Alerts, 1)
	assert.Equal(t, "suspicious_login_activity", out.Alerts[0].AlertType)
}

func TestProcess_SteadyTelemetryIsClean(t *testing.T) {
	logs := []core.UsageRecord{
		{"api_calls": 100, "latency_ms": 50},
		{"api_calls": 110, "latency_ms": 52},
		{"api_calls": 95, "latency_ms": 48},
		{"api_calls": 105, "latency_ms": 51},
	}

	out, err := New().Process(context.Background(), core.AnomalyInput{AccountID: "acct-1", UsageLogs: logs})
	require.NoError(t, err)
	assert.Empty(t, out.Alerts)
}

func TestProcess_TooFewSamples(t *testing.T) {
	out, err := New().Process(context.Background(), core.AnomalyInput{
		AccountID: "acct-1",
		UsageLogs: []core.UsageRecord{{"error_count": 1}, {"error_count": 1000}},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Alerts)
}

func TestProcess_NoTelemetry(t *testing.T) {
	out, err := New().Process(context.Background(), core.AnomalyInput{AccountID: "acct-1"})
	require.NoError(t, err)
	assert.NotNil(t, out.Alerts)
	assert.Empty(t, out.Alerts)
}

func TestSeverityGrading(t *testing.T) {
	assert.Equal(t, core.SeverityLow, severityFor(-2.1))
	assert.Equal(t, core.SeverityMedium, severityFor(-2.5))
	assert.Equal(t, core.SeverityHigh, severityFor(-3.0))
	assert.Equal(t, core.SeverityCritical, severityFor(-4.0))
	assert.Equal(t, core.SeverityCritical, severityFor(-9.5))
}

func TestDetect_ZeroVarianceFieldIgnored(t *testing.T) {
	// A constant column has no spread; it must not divide by zero or flag
	// anything on its own.
	logs := []core.UsageRecord{
		{"api_calls": 10, "plan_id": 2},
		{"api_calls": 11, "plan_id": 2},
		{"api_calls": 9, "plan_id": 2},
		{"api_calls": 10, "plan_id": 2},
	}

	findings := newDetector().Detect(logs)
	assert.Empty(t, findings)
}
