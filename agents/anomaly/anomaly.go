// Package anomaly implements the account anomaly scan: usage telemetry is
// reduced to a numeric feature matrix, scored with per-feature z-scores, and
// outliers become proactive alerts with severity grading.
package anomaly

import (
	"context"
	"time"

	"github.com/caremesh/caremesh/core"
)

// Agent is the anomaly-scan capability provider.
type Agent struct {
	detector *detector

	// now is swappable for tests.
	now func() time.Time
}

// New constructs the anomaly agent.
func New() *Agent {
	return &Agent{detector: newDetector(), now: time.Now}
}

// Name returns the agent role.
func (a *Agent) Name() string { return core.RoleAnomaly }

// Process scans the request's usage telemetry. No telemetry means nothing to
// scan: an empty alert set, not an error.
func (a *Agent) Process(_ context.Context, input core.AnomalyInput) (core.AnomalyOutput, error) {
	if len(input.UsageLogs) == 0 {
		return core.AnomalyOutput{Alerts: []core.ProactiveAlert{}}, nil
	}
	findings := a.detector.Detect(input.UsageLogs)
	return core.AnomalyOutput{Alerts: buildAlerts(findings, a.now().UTC())}, nil
}
