package escalation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/internal/testutil"
)

func absentAll() (core.Outcome[core.GenerationOutput], core.Outcome[core.SentimentOutput], core.Outcome[core.AnomalyOutput]) {
	err := errors.New("agent failed")
	return core.AbsentOutcome[core.GenerationOutput](err),
		core.AbsentOutcome[core.SentimentOutput](err),
		core.AbsentOutcome[core.AnomalyOutput](err)
}

func TestEvaluate_NoTriggers(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	gen := core.PresentOutcome(core.GenerationOutput{Intent: "billing_inquiry"})
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: 0.2, DominantEmotion: "neutral"})
	anom := core.PresentOutcome(core.AnomalyOutput{Alerts: []core.ProactiveAlert{}})

	decision := ev.Evaluate(gen, sent, anom, testutil.NewContextBuilder("conv-1").Build())

	assert.False(t, decision.Escalate)
	assert.Empty(t, decision.Reasons)
}

func TestEvaluate_ExplicitRequest(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	gen := core.PresentOutcome(core.GenerationOutput{Intent: EscalationRequestIntent, Escalate: true})
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: 0.5, DominantEmotion: "neutral"})

	decision := ev.Evaluate(gen, sent, core.SkippedOutcome[core.AnomalyOutput](), testutil.NewContextBuilder("conv-1").Build())

	require.True(t, decision.Escalate)
	assert.Equal(t, []string{
		"Customer explicitly requested human agent.",
		"Intent classified as escalation_request.",
	}, decision.Reasons)
}

func TestEvaluate_SentimentBelowThreshold(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: -0.8, DominantEmotion: "sadness"})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), testutil.NewContextBuilder("conv-1").Build())

	require.True(t, decision.Escalate)
	assert.Contains(t, decision.Reasons, "Sentiment score (-0.80) below threshold (-0.65).")
}

func TestEvaluate_SentimentAtThresholdDoesNotFire(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: -0.65, DominantEmotion: "neutral"})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), testutil.NewContextBuilder("conv-1").Build())

	assert.False(t, decision.Escalate)
}

func TestEvaluate_EmotionStreak(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	cctx := testutil.NewContextBuilder("conv-1").Emotions("neutral", "anger").Build()
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: -0.2, DominantEmotion: "anger"})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), cctx)

	require.True(t, decision.Escalate)
	assert.Contains(t, decision.Reasons, "Dominant emotion (anger) persisted for 2 consecutive turns.")
}

func TestEvaluate_EmotionStreakBrokenByNonTrigger(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	// Trailing entry is neutral, so the current anger turn stands alone.
	cctx := testutil.NewContextBuilder("conv-1").Emotions("anger", "neutral").Build()
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: -0.2, DominantEmotion: "anger"})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), cctx)

	assert.False(t, decision.Escalate)
}

func TestEvaluate_MixedTriggerEmotionsCount(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	// anger and distress are both triggers; the streak spans them.
	cctx := testutil.NewContextBuilder("conv-1").Emotions("anger").Build()
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: 0.0, DominantEmotion: "distress"})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), cctx)

	require.True(t, decision.Escalate)
	assert.Contains(t, decision.Reasons, "Dominant emotion (distress) persisted for 2 consecutive turns.")
}

func TestEvaluate_SentimentAgentFlag(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: 0.1, DominantEmotion: "neutral", Escalate: true})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), testutil.NewContextBuilder("conv-1").Build())

	require.True(t, decision.Escalate)
	assert.Equal(t, []string{"Sentiment agent triggered escalation."}, decision.Reasons)
}

func TestEvaluate_CriticalAlert(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	anom := core.PresentOutcome(core.AnomalyOutput{Alerts: []core.ProactiveAlert{
		{AlertType: "unusual_usage_pattern", Severity: core.SeverityLow},
		{AlertType: "suspicious_login_activity", Severity: core.SeverityCritical},
		{AlertType: "high_error_rate", Severity: core.SeverityCritical},
	}})

	decision := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")),
		core.AbsentOutcome[core.SentimentOutput](errors.New("down")), anom,
		testutil.NewContextBuilder("conv-1").Build())

	require.True(t, decision.Escalate)
	// Only the first critical alert is reported.
	assert.Equal(t, []string{"Critical proactive alert: suspicious_login_activity."}, decision.Reasons)
}

func TestEvaluate_UnresolvedTurns(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	cctx := testutil.NewContextBuilder("conv-1").Unresolved(3).Build()

	gen, sent, anom := absentAll()
	decision := ev.Evaluate(gen, sent, anom, cctx)

	require.True(t, decision.Escalate)
	assert.Equal(t, []string{"No resolution after 3 consecutive turns (threshold: 3)."}, decision.Reasons)
}

func TestEvaluate_ContextOnlyWithAllAgentsDown(t *testing.T) {
	// Escalation stays decidable from context alone when every agent failed.
	ev := NewEvaluator(DefaultPolicy())
	cctx := testutil.NewContextBuilder("conv-1").Unresolved(5).Build()

	gen, sent, anom := absentAll()
	decision := ev.Evaluate(gen, sent, anom, cctx)

	assert.True(t, decision.Escalate)
	assert.Len(t, decision.Reasons, 1)
}

func TestEvaluate_ReasonsKeepRuleOrder(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	cctx := testutil.NewContextBuilder("conv-1").Emotions("anger", "anger").Unresolved(4).Build()
	gen := core.PresentOutcome(core.GenerationOutput{Intent: EscalationRequestIntent, Escalate: true})
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: -0.9, DominantEmotion: "anger", Escalate: true})
	anom := core.PresentOutcome(core.AnomalyOutput{Alerts: []core.ProactiveAlert{
		{AlertType: "high_error_rate", Severity: core.SeverityCritical},
	}})

	decision := ev.Evaluate(gen, sent, anom, cctx)

	require.True(t, decision.Escalate)
	assert.Equal(t, []string{
		"Customer explicitly requested human agent.",
		"Intent classified as escalation_request.",
		"Sentiment score (-0.90) below threshold (-0.65).",
		"Dominant emotion (anger) persisted for 3 consecutive turns.",
		"Sentiment agent triggered escalation.",
		"Critical proactive alert: high_error_rate.",
		"No resolution after 4 consecutive turns (threshold: 3).",
	}, decision.Reasons)
}

func TestEvaluate_Deterministic(t *testing.T) {
	ev := NewEvaluator(DefaultPolicy())
	cctx := testutil.NewContextBuilder("conv-1").Emotions("anger").Unresolved(3).Build()
	sent := core.PresentOutcome(core.SentimentOutput{SentimentScore: -0.8, DominantEmotion: "anger"})

	first := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
		core.SkippedOutcome[core.AnomalyOutput](), cctx)
	for i := 0; i < 10; i++ {
		again := ev.Evaluate(core.AbsentOutcome[core.GenerationOutput](errors.New("down")), sent,
			core.SkippedOutcome[core.AnomalyOutput](), cctx)
		assert.Equal(t, first, again)
	}
}
