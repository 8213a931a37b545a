package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/escalation"
	"github.com/caremesh/caremesh/logging"
	"github.com/caremesh/caremesh/telemetry"
)

// Agents is the fixed set of capability providers the coordinator sequences.
// Each field is one role; the coordinator never inspects provider internals.
type Agents struct {
	Generator core.Agent[core.GenerationInput, core.GenerationOutput]
	Knowledge core.Agent[core.KnowledgeInput, core.KnowledgeOutput]
	Sentiment core.Agent[core.SentimentInput, core.SentimentOutput]
	Anomaly   core.Agent[core.AnomalyInput, core.AnomalyOutput]
	Feedback  core.Agent[core.FeedbackInput, core.FeedbackOutput]
}

// Options configures a Coordinator.
type Options struct {
	// AgentTimeout bounds each synchronous agent call; expiry yields an
	// absent outcome. Defaults to core.DefaultAgentTimeout.
	AgentTimeout time.Duration

	// DefaultLanguage is used when the generator is absent or silent.
	DefaultLanguage core.Language

	// KnowledgeTopK is the number of FAQ articles requested per turn.
	KnowledgeTopK int

	// DeferredWorkers bounds the pool running deferred feedback analysis.
	// Zero means unbounded.
	DeferredWorkers int

	// Escalations receives escalated turns fire-and-forget. Defaults to a
	// LogSink when nil.
	Escalations core.EscalationSink

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger

	// Metrics is optional; all recording is nil-safe.
	Metrics *telemetry.Metrics
}

// Coordinator routes one customer message through the fixed agent sequence
// and merges the results. Independent requests run fully concurrently; the
// only shared mutable state is the context store (and the caller's rate
// limiter, which gates admission before Handle is ever reached).
type Coordinator struct {
	store      core.ContextStore
	agents     Agents
	aggregator *Aggregator
	opts       Options
	deferred   *deferredRunner
}

// New creates a Coordinator. The evaluator is shared with the aggregator so
// escalation is always computed, even on fully degraded turns.
func New(store core.ContextStore, agents Agents, evaluator *escalation.Evaluator, optFns ...func(*Options)) *Coordinator {
	opts := Options{
		AgentTimeout:    core.DefaultAgentTimeout,
		DefaultLanguage: core.LanguageEnglish,
		KnowledgeTopK:   5,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Escalations == nil {
		opts.Escalations = LogSink{Logger: opts.Logger}
	}

	return &Coordinator{
		store:      store,
		agents:     agents,
		aggregator: NewAggregator(evaluator, opts.DefaultLanguage),
		opts:       opts,
		deferred:   newDeferredRunner(opts.DeferredWorkers),
	}
}

// Handle runs the full pipeline for one interaction and always returns a
// well-formed response. Agent failures downgrade to absent outcomes; nothing
// on this path aborts the sequence.
func (c *Coordinator) Handle(ctx context.Context, req core.InteractionRequest) *core.UnifiedResponse {
	interactionID := uuid.NewString()
	logger := c.opts.Logger
	start := time.Now()

	logger.Info("pipeline started",
		"interaction_id", interactionID,
		"customer_id", req.CustomerID,
		"channel", string(req.Channel),
	)

	cctx := c.loadContext(ctx, req, interactionID)

	// Generation: intent classification, language detection, draft response.
	generation := core.Invoke(ctx, c.agents.Generator, interactionID, core.GenerationInput{
		InteractionID: interactionID,
		Message:       req.Message,
		Channel:       req.Channel,
		Context:       cctx,
	}, c.opts.AgentTimeout, logger)
	c.opts.Metrics.RecordAgentOutcome(core.RoleGenerator, string(generation.Status()))

	// Knowledge search: query derives from the resolved intent when present,
	// else falls back to the raw customer message.
	query := req.Message
	language := c.opts.DefaultLanguage
	if gen, ok := generation.Get(); ok {
		if gen.Intent != "" {
			query = gen.Intent + " " + req.Message
		}
		if gen.Language != "" {
			language = gen.Language
		}
	}
	knowledge := core.Invoke(ctx, c.agents.Knowledge, interactionID, core.KnowledgeInput{
		InteractionID: interactionID,
		Query:         query,
		TopK:          c.opts.KnowledgeTopK,
		Language:      language,
	}, c.opts.AgentTimeout, logger)
	c.opts.Metrics.RecordAgentOutcome(core.RoleKnowledge, string(knowledge.Status()))

	// Sentiment and emotion scoring.
	sentiment := core.Invoke(ctx, c.agents.Sentiment, interactionID, core.SentimentInput{
		InteractionID:  interactionID,
		Text:           req.Message,
		EmotionHistory: cctx.EmotionTrend,
	}, c.opts.AgentTimeout, logger)
	c.opts.Metrics.RecordAgentOutcome(core.RoleSentiment, string(sentiment.Status()))

	// Anomaly scan: structurally skipped without an account identifier.
	var anomaly core.Outcome[core.AnomalyOutput]
	if req.AccountID == "" {
		anomaly = core.SkippedOutcome[core.AnomalyOutput]()
	} else {
		anomaly = core.Invoke(ctx, c.agents.Anomaly, interactionID, core.AnomalyInput{
			InteractionID: interactionID,
			AccountID:     req.AccountID,
			UsageLogs:     req.UsageLogs,
		}, c.opts.AgentTimeout, logger)
	}
	c.opts.Metrics.RecordAgentOutcome(core.RoleAnomaly, string(anomaly.Status()))

	// Escalation gate and unified response assembly.
	resp := c.aggregator.Aggregate(AggregateInput{
		InteractionID: interactionID,
		Request:       req,
		Context:       cctx,
		Now:           time.Now().UTC(),
		Generation:    generation,
		Knowledge:     knowledge,
		Sentiment:     sentiment,
		Anomaly:       anomaly,
	})

	c.persistTurn(ctx, req, resp, logger)

	if resp.Escalation.Escalate {
		logger.Info("escalation triggered",
			"interaction_id", interactionID,
			"conversation_id", resp.ConversationID,
			"reason", resp.Escalation.Reason(),
		)
		c.opts.Escalations.Enqueue(core.EscalationPayload{
			InteractionID:  interactionID,
			ConversationID: resp.ConversationID,
			CustomerID:     req.CustomerID,
			Channel:        req.Channel,
			Reason:         resp.Escalation.Reason(),
			Summary:        resp.ResponseText,
			Timestamp:      resp.Timestamp,
		})
	}

	c.scheduleFeedback(interactionID, req, resp, cctx)

	c.opts.Metrics.RecordInteraction(string(req.Channel), resp.Escalation.Escalate, time.Since(start))
	logger.Info("pipeline completed",
		"interaction_id", interactionID,
		"conversation_id", resp.ConversationID,
		"escalated", resp.Escalation.Escalate,
		"duration", time.Since(start),
	)

	return resp
}

// Shutdown drains in-flight deferred work. Call once, after the transport
// has stopped accepting requests.
func (c *Coordinator) Shutdown() {
	c.deferred.Wait()
}

// loadContext fetches or creates the conversation context. A store failure
// degrades to an unpersisted fresh context so the turn still completes.
func (c *Coordinator) loadContext(ctx context.Context, req core.InteractionRequest, interactionID string) *core.ConversationContext {
	cctx, err := c.store.GetOrCreate(ctx, req.ConversationID, req.CustomerID, req.Channel)
	if err != nil {
		c.opts.Logger.Error("context load failed, continuing with fresh context",
			"interaction_id", interactionID,
			"conversation_id", req.ConversationID,
			"error", err.Error(),
		)
		id := req.ConversationID
		if id == "" {
			id = uuid.NewString()
		}
		return core.NewConversationContext(id, req.CustomerID, req.Channel)
	}
	return cctx
}

// persistTurn applies the completed turn to the store. A miss is recoverable:
// the response has already been computed, so it is logged and dropped.
func (c *Coordinator) persistTurn(ctx context.Context, req core.InteractionRequest, resp *core.UnifiedResponse, logger logging.Logger) {
	err := c.store.Update(ctx, resp.ConversationID, core.TurnResult{
		CustomerMessage: req.Message,
		ResponseText:    resp.ResponseText,
		Intent:          resp.Intent,
		DominantEmotion: resp.DominantEmotion,
		Language:        resp.Language,
		Escalated:       resp.Escalation.Escalate,
	})
	switch {
	case err == nil:
	case errors.Is(err, core.ErrConversationNotFound):
		logger.Warn("context update miss",
			"interaction_id", resp.InteractionID,
			"conversation_id", resp.ConversationID,
		)
	default:
		logger.Error("context update failed",
			"interaction_id", resp.InteractionID,
			"conversation_id", resp.ConversationID,
			"error", err.Error(),
		)
	}
}

// scheduleFeedback defers the feedback-analysis agent to the worker pool.
// The task runs detached from the request context: the caller never awaits
// or cancels it, and its failure is isolated like any other agent failure.
func (c *Coordinator) scheduleFeedback(interactionID string, req core.InteractionRequest, resp *core.UnifiedResponse, cctx *core.ConversationContext) {
	input := core.FeedbackInput{
		InteractionID: interactionID,
		Feedback:      req.Feedback,
		Snapshot: core.InteractionSnapshot{
			CustomerMessage: req.Message,
			ResponseText:    resp.ResponseText,
			Intent:          resp.Intent,
			SentimentScore:  resp.SentimentScore,
			History:         cctx.History,
			PreviousIntents: cctx.PreviousIntents,
		},
	}

	c.opts.Metrics.DeferredScheduled()
	c.deferred.Submit(func() {
		defer c.opts.Metrics.DeferredCompleted()
		outcome := core.Invoke(context.Background(), c.agents.Feedback, interactionID, input, c.opts.AgentTimeout, c.opts.Logger)
		c.opts.Metrics.RecordAgentOutcome(core.RoleFeedback, string(outcome.Status()))
		if out, ok := outcome.Get(); ok {
			c.opts.Logger.Info("feedback analysis completed",
				"interaction_id", interactionID,
				"sentiment_trend", out.Analysis.SentimentTrend,
				"top_issues", strings.Join(out.Analysis.TopIssues, ", "),
			)
		}
	})
}
