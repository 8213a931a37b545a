// Package escalation implements the multi-source escalation policy. The
// evaluator is a pure function over agent outcomes and conversation context:
// stateless, deterministic, and order-stable so tests can assert on the
// exact reason sequence.
package escalation

import (
	"fmt"

	"github.com/caremesh/caremesh/core"
)

// EscalationRequestIntent is the reserved intent label meaning the customer
// explicitly asked for a human agent.
const EscalationRequestIntent = "escalation_request"

// Policy holds the externally configured thresholds of the escalation rules.
type Policy struct {
	// SentimentThreshold escalates when the sentiment score is strictly
	// below this value.
	SentimentThreshold float64
	// TriggerEmotions are the emotion labels that count toward the
	// consecutive-turn rule.
	TriggerEmotions []string
	// ConsecutiveEmotionTurns is the streak length of trigger emotions,
	// counted backward from the current turn, required to escalate.
	ConsecutiveEmotionTurns int
	// MaxUnresolvedTurns escalates when the conversation's unresolved-turn
	// counter meets or exceeds it.
	MaxUnresolvedTurns int
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		SentimentThreshold:      -0.65,
		TriggerEmotions:         []string{"anger", "distress"},
		ConsecutiveEmotionTurns: 2,
		MaxUnresolvedTurns:      3,
	}
}

// Evaluator applies a Policy. It carries no mutable state and is safe for
// concurrent use.
type Evaluator struct {
	policy   Policy
	triggers map[string]bool
}

// NewEvaluator builds an evaluator for the given policy.
func NewEvaluator(policy Policy) *Evaluator {
	triggers := make(map[string]bool, len(policy.TriggerEmotions))
	for _, e := range policy.TriggerEmotions {
		triggers[e] = true
	}
	return &Evaluator{policy: policy, triggers: triggers}
}

// Evaluate runs the seven policy rules in their fixed order, appending a
// reason whenever a rule fires. Several rules can fire on one turn; all
// reasons are recorded. The conversation context is the state loaded before
// this turn's update.
func (ev *Evaluator) Evaluate(
	generation core.Outcome[core.GenerationOutput],
	sentiment core.Outcome[core.SentimentOutput],
	anomaly core.Outcome[core.AnomalyOutput],
	cctx *core.ConversationContext,
) core.EscalationDecision {
	var reasons []string

	// 1. Generator's explicit escalation flag.
	if gen, ok := generation.Get(); ok && gen.Escalate {
		reasons = append(reasons, "Customer explicitly requested human agent.")
	}

	// 2. Resolved intent is the reserved escalation-request label.
	if gen, ok := generation.Get(); ok && gen.Intent == EscalationRequestIntent {
		reasons = append(reasons, "Intent classified as escalation_request.")
	}

	// 3. Sentiment score strictly below the threshold.
	if sent, ok := sentiment.Get(); ok && sent.SentimentScore < ev.policy.SentimentThreshold {
		reasons = append(reasons, fmt.Sprintf(
			"Sentiment score (%.2f) below threshold (%.2f).",
			sent.SentimentScore, ev.policy.SentimentThreshold,
		))
	}

	// 4. Trigger emotion streak over emotion_trend + current dominant
	// emotion, counted from the end until a non-trigger emotion breaks it.
	if sent, ok := sentiment.Get(); ok {
		streak := ev.trailingTriggerStreak(cctx.EmotionTrend, sent.DominantEmotion)
		if streak >= ev.policy.ConsecutiveEmotionTurns {
			reasons = append(reasons, fmt.Sprintf(
				"Dominant emotion (%s) persisted for %d consecutive turns.",
				sent.DominantEmotion, streak,
			))
		}
	}

	// 5. Sentiment agent's own escalation flag (agent-local policy,
	// independently triggerable from rules 3 and 4).
	if sent, ok := sentiment.Get(); ok && sent.Escalate {
		reasons = append(reasons, "Sentiment agent triggered escalation.")
	}

	// 6. Any proactive alert at critical severity.
	if anom, ok := anomaly.Get(); ok {
		for _, alert := range anom.Alerts {
			if alert.Severity == core.SeverityCritical {
				reasons = append(reasons, fmt.Sprintf("Critical proactive alert: %s.", alert.AlertType))
				break
			}
		}
	}

	// 7. Unresolved-turn counter at or above the maximum.
	if cctx.UnresolvedTurns >= ev.policy.MaxUnresolvedTurns {
		reasons = append(reasons, fmt.Sprintf(
			"No resolution after %d consecutive turns (threshold: %d).",
			cctx.UnresolvedTurns, ev.policy.MaxUnresolvedTurns,
		))
	}

	return core.EscalationDecision{Escalate: len(reasons) > 0, Reasons: reasons}
}

// trailingTriggerStreak counts consecutive trigger emotions at the end of
// trend + [current].
func (ev *Evaluator) trailingTriggerStreak(trend []string, current string) int {
	streak := 0
	if !ev.triggers[current] {
		return 0
	}
	streak++
	for i := len(trend) - 1; i >= 0; i-- {
		if !ev.triggers[trend[i]] {
			break
		}
		streak++
	}
	return streak
}
