// Package emotion implements the sentiment analyzer: lexicon-based emotion
// classification, a sentiment score in [-1, 1], a tone recommendation for
// the generator's draft, and an agent-local escalation flag evaluated
// against the agent's own thresholds (independent of the pipeline-level
// escalation policy).
package emotion

import (
	"context"

	"github.com/caremesh/caremesh/core"
)

// Thresholds is the agent-local escalation policy. It intentionally mirrors
// the shape of the pipeline policy but is configured separately.
type Thresholds struct {
	SentimentThreshold      float64
	TriggerEmotions         []string
	ConsecutiveEmotionTurns int
}

// DefaultThresholds matches the pipeline defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SentimentThreshold:      -0.65,
		TriggerEmotions:         []string{"anger", "distress"},
		ConsecutiveEmotionTurns: 2,
	}
}

// Agent is the sentiment capability provider.
type Agent struct {
	thresholds Thresholds
	triggers   map[string]bool
}

// New constructs the sentiment agent with the given local thresholds.
func New(thresholds Thresholds) *Agent {
	triggers := make(map[string]bool, len(thresholds.TriggerEmotions))
	for _, e := range thresholds.TriggerEmotions {
		triggers[e] = true
	}
	return &Agent{thresholds: thresholds, triggers: triggers}
}

// Name returns the agent role.
func (a *Agent) Name() string { return core.RoleSentiment }

// Process classifies emotions, derives the sentiment score and tone
// recommendation, and evaluates the agent-local escalation policy over the
// supplied emotion history plus the current dominant emotion.
func (a *Agent) Process(_ context.Context, input core.SentimentInput) (core.SentimentOutput, error) {
	dist := classifyEmotions(input.Text)
	dominant := dominantEmotion(dist)
	score := sentimentFromEmotions(dist)

	return core.SentimentOutput{
		SentimentScore:     score,
		DominantEmotion:    dominant,
		ToneRecommendation: toneFor(score),
		Escalate:           a.shouldEscalate(score, dominant, input.EmotionHistory),
	}, nil
}

// shouldEscalate fires on sentiment below the local threshold or a trailing
// streak of trigger emotions of the required length.
func (a *Agent) shouldEscalate(score float64, dominant string, history []string) bool {
	if score < a.thresholds.SentimentThreshold {
		return true
	}
	if !a.triggers[dominant] {
		return false
	}
	streak := 1
	for i := len(history) - 1; i >= 0; i-- {
		if !a.triggers[history[i]] {
			break
		}
		streak++
	}
	return streak >= a.thresholds.ConsecutiveEmotionTurns
}

// toneBands maps sentiment ranges to tone recommendations, lowest first.
var toneBands = []struct {
	low, high float64
	tone      string
}{
	{-1.0, -0.65, "highly empathetic and apologetic"},
	{-0.65, -0.3, "empathetic and understanding"},
	{-0.3, 0.0, "warm and supportive"},
	{0.0, 0.3, "neutral and professional"},
	{0.3, 0.65, "friendly and positive"},
	{0.65, 1.01, "enthusiastic and celebratory"},
}

func toneFor(score float64) string {
	for _, band := range toneBands {
		if score >= band.low && score < band.high {
			return band.tone
		}
	}
	return "neutral and professional"
}
