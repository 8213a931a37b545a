package anomaly

import (
	"time"

	"github.com/caremesh/caremesh/core"
)

// severityBands maps anomaly score ranges to severities, strongest first.
// Scores are negative; more negative means a stronger outlier.
var severityBands = []struct {
	below    float64
	severity core.Severity
}{
	{-4.0, core.SeverityCritical},
	{-3.0, core.SeverityHigh},
	{-2.5, core.SeverityMedium},
}

// alertPatterns maps telemetry fields to alert types and recommended
// actions; the first matching field wins.
var alertPatterns = []struct {
	field     string
	alertType string
	action    string
}{
	{"error_count", "high_error_rate", "Investigate recent errors in customer's account. Consider proactive outreach."},
	{"login_failures", "suspicious_login_activity", "Review login attempts for potential unauthorized access. Consider account security measures."},
	{"latency_ms", "performance_degradation", "Customer may be experiencing slow service. Check backend performance metrics."},
	{"api_calls", "unusual_usage_pattern", "Usage pattern deviates from normal. Review for potential issues or plan upgrade needs."},
}

func severityFor(score float64) core.Severity {
	for _, band := range severityBands {
		if score <= band.below {
			return band.severity
		}
	}
	return core.SeverityLow
}

// buildAlerts converts raw findings into structured proactive alerts.
func buildAlerts(findings []finding, now time.Time) []core.ProactiveAlert {
	alerts := make([]core.ProactiveAlert, 0, len(findings))
	for _, f := range findings {
		alertType := "general_anomaly"
		action := "Anomaly detected in account usage. Review usage patterns."
		for _, p := range alertPatterns {
			if _, ok := f.sample[p.field]; ok {
				alertType = p.alertType
				action = p.action
				break
			}
		}
		alerts = append(alerts, core.ProactiveAlert{
			AlertType:         alertType,
			Severity:          severityFor(f.score),
			RecommendedAction: action,
			Timestamp:         now,
		})
	}
	return alerts
}
