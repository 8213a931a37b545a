// Package feedback implements the deferred post-interaction analysis:
// CSAT normalization, sentiment trend detection over the customer's
// feedback history, top-issue extraction, and knowledge-gap flagging.
// It runs after the response has already been returned, so its output only
// reaches logs and analytics.
package feedback

import (
	"context"

	"github.com/caremesh/caremesh/core"
)

// Agent is the feedback-analysis capability provider.
type Agent struct{}

// New constructs the feedback agent.
func New() *Agent { return &Agent{} }

// Name returns the agent role.
func (a *Agent) Name() string { return core.RoleFeedback }

// Process analyzes the completed turn's snapshot and optional feedback
// payload. Absent feedback still yields trend and gap analysis over the
// conversation snapshot.
func (a *Agent) Process(_ context.Context, input core.FeedbackInput) (core.FeedbackOutput, error) {
	analysis := core.FeedbackAnalysis{
		SentimentTrend:    analyzeSentimentTrend(sentimentSamples(input)),
		TopIssues:         extractTopIssues(input.Snapshot.PreviousIntents, maxTopIssues),
		KnowledgeGapFlags: detectKnowledgeGaps(input.Snapshot),
	}

	if score, ok := csatScore(input.Feedback); ok {
		analysis.CSATScore = &score
	}

	return core.FeedbackOutput{Analysis: analysis}, nil
}

// csatScore extracts and normalizes the CSAT value from a feedback payload.
// Scores above 5 are assumed to be percentages and scaled onto the 0-5 band.
func csatScore(fb *core.Feedback) (float64, bool) {
	if fb == nil {
		return 0, false
	}
	var raw float64
	switch {
	case fb.CSATScore != nil:
		raw = *fb.CSATScore
	case fb.Rating != nil:
		raw = *fb.Rating
	default:
		return 0, false
	}
	if raw > 5 {
		raw = raw / 20.0
		if raw > 5 {
			raw = 5
		}
	}
	return raw, true
}

// sentimentSamples builds the score series for trend analysis: the turn's
// own sentiment plus the feedback rating when present.
func sentimentSamples(input core.FeedbackInput) []float64 {
	samples := []float64{input.Snapshot.SentimentScore}
	if score, ok := csatScore(input.Feedback); ok {
		samples = append(samples, score)
	}
	return samples
}
