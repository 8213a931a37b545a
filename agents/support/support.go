// Package support implements the response generator: language detection,
// intent classification, and a templated draft response per intent. It is a
// deterministic local provider; swapping in a model-backed generator only
// requires implementing the same agent contract.
package support

import (
	"context"
	"errors"
	"strings"

	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/escalation"
)

// Agent is the generator capability provider.
type Agent struct{}

// New constructs the generator agent.
func New() *Agent { return &Agent{} }

// Name returns the agent role.
func (a *Agent) Name() string { return core.RoleGenerator }

// Process detects the message language, classifies intent, and drafts a
// response from the intent's template. An empty message is a provider error;
// the invocation contract converts it to an absent outcome.
func (a *Agent) Process(_ context.Context, input core.GenerationInput) (core.GenerationOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return core.GenerationOutput{}, errors.New("empty customer message")
	}

	language := detectLanguage(message)
	intent, _ := classifyIntent(message)

	escalate := intent == escalation.EscalationRequestIntent || wantsHumanAgent(message)
	if escalate && intent != escalation.EscalationRequestIntent {
		intent = escalation.EscalationRequestIntent
	}

	return core.GenerationOutput{
		ResponseText: responseFor(intent, language),
		Intent:       intent,
		Language:     language,
		Escalate:     escalate,
	}, nil
}

// wantsHumanAgent detects explicit requests for a human operator that the
// keyword classifier may have filed under another intent.
func wantsHumanAgent(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range []string{
		"human agent", "real person", "speak to a human", "talk to a human",
		"speak to someone", "talk to an agent", "speak with an agent",
		"representative", "supervisor", "manager",
	} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
