// Package caremesh provides a high-level façade over the pipeline
// coordinator and its services (conversation store, escalation policy,
// agents & logging) enabling rapid construction of a support pipeline.
// Most applications interact with this package by:
//  1. Creating a CareMesh via New() (optionally overriding default in-memory services)
//  2. Handling customer interactions with HandleInteraction
//  3. Draining deferred work with Shutdown on the way out
//
// The façade delegates orchestration to pipeline.Coordinator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// conversation store and a structured logger.
package caremesh

import (
	"context"
	"time"

	"github.com/caremesh/caremesh/agents/anomaly"
	"github.com/caremesh/caremesh/agents/emotion"
	"github.com/caremesh/caremesh/agents/feedback"
	"github.com/caremesh/caremesh/agents/knowledge"
	"github.com/caremesh/caremesh/agents/support"
	"github.com/caremesh/caremesh/conversation"
	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/escalation"
	"github.com/caremesh/caremesh/logging"
	"github.com/caremesh/caremesh/pipeline"
	"github.com/caremesh/caremesh/telemetry"
)

// Options configures the CareMesh instance.
type Options struct {
	// Store holds conversation contexts (defaults to in-memory if not provided).
	Store core.ContextStore

	// Agents are the capability providers; any nil field falls back to the
	// built-in deterministic implementation.
	Agents pipeline.Agents

	// Policy holds the escalation thresholds.
	Policy escalation.Policy

	// AgentTimeout bounds each synchronous agent call.
	AgentTimeout time.Duration

	// DefaultLanguage is used when language detection yields nothing.
	DefaultLanguage core.Language

	// KnowledgeTopK is the number of FAQ articles requested per turn.
	KnowledgeTopK int

	// DeferredWorkers bounds the pool running deferred feedback analysis.
	DeferredWorkers int

	// Escalations receives escalated turns (defaults to a log-only sink).
	Escalations core.EscalationSink

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Metrics is optional; all recording is nil-safe.
	Metrics *telemetry.Metrics
}

// CareMesh is the high-level façade aggregating the coordinator and its services.
type CareMesh struct {
	opts        Options
	coordinator *pipeline.Coordinator
}

// New creates a new CareMesh instance with optional overrides. Any unset
// agent or service is initialized with the built-in implementation.
func New(optFns ...func(o *Options)) *CareMesh {
	opts := Options{
		Policy:          escalation.DefaultPolicy(),
		AgentTimeout:    core.DefaultAgentTimeout,
		DefaultLanguage: core.LanguageEnglish,
		KnowledgeTopK:   knowledge.DefaultTopK,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Store == nil {
		opts.Store = conversation.NewInMemoryStore()
	}
	fillDefaultAgents(&opts)

	coordinator := pipeline.New(opts.Store, opts.Agents, escalation.NewEvaluator(opts.Policy), func(o *pipeline.Options) {
		o.AgentTimeout = opts.AgentTimeout
		o.DefaultLanguage = opts.DefaultLanguage
		o.KnowledgeTopK = opts.KnowledgeTopK
		o.DeferredWorkers = opts.DeferredWorkers
		o.Escalations = opts.Escalations
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	return &CareMesh{opts: opts, coordinator: coordinator}
}

// HandleInteraction routes one customer message through the pipeline and
// returns the unified response. It never returns an error: agent failures
// degrade individual sections of the response instead.
func (m *CareMesh) HandleInteraction(ctx context.Context, req core.InteractionRequest) *core.UnifiedResponse {
	return m.coordinator.Handle(ctx, req)
}

// Shutdown drains in-flight deferred work. Call once, after the transport has
// stopped accepting requests.
func (m *CareMesh) Shutdown() {
	m.coordinator.Shutdown()
}

func fillDefaultAgents(opts *Options) {
	if opts.Agents.Generator == nil {
		opts.Agents.Generator = support.New()
	}
	if opts.Agents.Knowledge == nil {
		opts.Agents.Knowledge = knowledge.New()
	}
	if opts.Agents.Sentiment == nil {
		opts.Agents.Sentiment = emotion.New(emotion.Thresholds{
			SentimentThreshold:      opts.Policy.SentimentThreshold,
			TriggerEmotions:         opts.Policy.TriggerEmotions,
			ConsecutiveEmotionTurns: opts.Policy.ConsecutiveEmotionTurns,
		})
	}
	if opts.Agents.Anomaly == nil {
		opts.Agents.Anomaly = anomaly.New()
	}
	if opts.Agents.Feedback == nil {
		opts.Agents.Feedback = feedback.New()
	}
}
