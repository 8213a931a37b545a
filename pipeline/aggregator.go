package pipeline

import (
	"encoding/json"
	"time"

	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/escalation"
)

// Neutral defaults used when the owning agent produced no output.
const (
	defaultIntent  = "unknown"
	defaultEmotion = "neutral"
	defaultTone    = "neutral"
)

// AggregateInput bundles everything one turn produced.
type AggregateInput struct {
	InteractionID string
	Request       core.InteractionRequest
	Context       *core.ConversationContext
	Now           time.Time

	Generation core.Outcome[core.GenerationOutput]
	Knowledge  core.Outcome[core.KnowledgeOutput]
	Sentiment  core.Outcome[core.SentimentOutput]
	Anomaly    core.Outcome[core.AnomalyOutput]
}

// Aggregator merges agent outcomes into a UnifiedResponse. It never fails:
// any combination of absent outcomes yields a degraded but well-formed
// response, and the escalation decision is always computed because
// context-only signals can escalate on their own.
type Aggregator struct {
	evaluator       *escalation.Evaluator
	defaultLanguage core.Language
}

// NewAggregator builds an aggregator around the given escalation evaluator.
func NewAggregator(evaluator *escalation.Evaluator, defaultLanguage core.Language) *Aggregator {
	if defaultLanguage == "" {
		defaultLanguage = core.LanguageEnglish
	}
	return &Aggregator{evaluator: evaluator, defaultLanguage: defaultLanguage}
}

// Aggregate produces the turn's unified response.
func (a *Aggregator) Aggregate(in AggregateInput) *core.UnifiedResponse {
	decision := a.evaluator.Evaluate(in.Generation, in.Sentiment, in.Anomaly, in.Context)

	resp := &core.UnifiedResponse{
		InteractionID:      in.InteractionID,
		Timestamp:          in.Now,
		CustomerID:         in.Request.CustomerID,
		ConversationID:     in.Context.ConversationID,
		Channel:            in.Request.Channel,
		Language:           a.defaultLanguage,
		Intent:             defaultIntent,
		DominantEmotion:    defaultEmotion,
		ToneRecommendation: defaultTone,
		Escalation:         decision,
		SuggestedArticles:  []core.FAQArticle{},
		ProactiveAlerts:    []core.ProactiveAlert{},
		AgentTrace: core.AgentTrace{
			core.RoleGenerator: traceEntry(in.Generation),
			core.RoleKnowledge: traceEntry(in.Knowledge),
			core.RoleSentiment: traceEntry(in.Sentiment),
			core.RoleAnomaly:   traceEntry(in.Anomaly),
			core.RoleFeedback:  core.TracePendingAsync,
		},
	}

	if gen, ok := in.Generation.Get(); ok {
		resp.ResponseText = gen.ResponseText
		if gen.Intent != "" {
			resp.Intent = gen.Intent
		}
		if gen.Language != "" {
			resp.Language = gen.Language
		}
	}

	if sent, ok := in.Sentiment.Get(); ok {
		resp.SentimentScore = sent.SentimentScore
		if sent.DominantEmotion != "" {
			resp.DominantEmotion = sent.DominantEmotion
		}
		if sent.ToneRecommendation != "" {
			resp.ToneRecommendation = sent.ToneRecommendation
		}
	}

	if kn, ok := in.Knowledge.Get(); ok && kn.Articles != nil {
		resp.SuggestedArticles = kn.Articles
	}

	if anom, ok := in.Anomaly.Get(); ok && anom.Alerts != nil {
		resp.ProactiveAlerts = anom.Alerts
	}

	return resp
}

// traceEntry serializes a present outcome for the observability trace, or
// returns the fixed skipped marker. The trace never drives control flow, so
// a marshalling error also degrades to the marker.
func traceEntry[T any](o core.Outcome[T]) string {
	v, ok := o.Get()
	if !ok {
		return core.TraceSkipped
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return core.TraceSkipped
	}
	return string(raw)
}
