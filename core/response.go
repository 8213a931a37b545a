package core

import (
	"strings"
	"time"
)

// Severity grades a proactive alert.
type Severity string

// Alert severities, lowest to highest.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// FAQArticle is one knowledge-base suggestion returned by the search agent.
type FAQArticle struct {
	ArticleID       string  `json:"article_id"`
	Title           string  `json:"title"`
	ContentSnippet  string  `json:"content_snippet"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ProactiveAlert is one anomaly-derived alert for an account.
type ProactiveAlert struct {
	AlertType         string    `json:"alert_type"`
	Severity          Severity  `json:"severity"`
	RecommendedAction string    `json:"recommended_action"`
	Timestamp         time.Time `json:"timestamp"`
}

// FeedbackAnalysis is the deferred feedback agent's result. On the
// synchronous response it is a zero-valued placeholder; the populated record
// only ever exists in logs and downstream analytics.
type FeedbackAnalysis struct {
	CSATScore         *float64 `json:"csat_score,omitempty"`
	SentimentTrend    string   `json:"sentiment_trend,omitempty"`
	TopIssues         []string `json:"top_issues,omitempty"`
	KnowledgeGapFlags []string `json:"knowledge_gap_flags,omitempty"`
}

// Trace markers for agents that produced no serialized output.
const (
	TraceSkipped      = "skipped"
	TracePendingAsync = "pending_async"
)

// AgentTrace records, per agent role, either the serialized agent output or
// a fixed marker. It exists for observability only; nothing in the pipeline
// reads it back.
type AgentTrace map[string]string

// ReasonSeparator joins escalation reasons into the human-readable field.
const ReasonSeparator = " | "

// EscalationDecision is the result of evaluating the escalation policy.
// Reasons preserve the fixed evaluation order of the policy rules.
type EscalationDecision struct {
	Escalate bool     `json:"escalation_flag"`
	Reasons  []string `json:"escalation_reasons,omitempty"`
}

// Reason returns the reasons joined for human consumption, empty when the
// turn did not escalate.
func (d EscalationDecision) Reason() string {
	return strings.Join(d.Reasons, ReasonSeparator)
}

// UnifiedResponse is the immutable merge of all agent outcomes for one turn.
// It is always well-formed: absent agents contribute their role's defaults.
type UnifiedResponse struct {
	InteractionID      string             `json:"interaction_id"`
	Timestamp          time.Time          `json:"timestamp"`
	CustomerID         string             `json:"customer_id"`
	ConversationID     string             `json:"conversation_id"`
	Channel            Channel            `json:"channel"`
	Language           Language           `json:"language"`
	ResponseText       string             `json:"response_text"`
	Intent             string             `json:"intent"`
	SentimentScore     float64            `json:"sentiment_score"`
	DominantEmotion    string             `json:"dominant_emotion"`
	ToneRecommendation string             `json:"tone_recommendation"`
	Escalation         EscalationDecision `json:"escalation"`
	SuggestedArticles  []FAQArticle       `json:"suggested_faq_articles"`
	ProactiveAlerts    []ProactiveAlert   `json:"proactive_alerts"`
	FeedbackAnalysis   FeedbackAnalysis   `json:"feedback_analysis"`
	AgentTrace         AgentTrace         `json:"agent_trace"`
}

// EscalationPayload is handed to the escalation queue when a turn escalates.
type EscalationPayload struct {
	InteractionID  string    `json:"interaction_id"`
	ConversationID string    `json:"conversation_id"`
	CustomerID     string    `json:"customer_id"`
	Channel        Channel   `json:"channel"`
	Reason         string    `json:"escalation_reason"`
	Summary        string    `json:"summary"`
	Timestamp      time.Time `json:"timestamp"`
}

// EscalationSink receives escalated turns fire-and-forget. Implementations
// must not block the request path; delivery is best-effort and never awaited.
type EscalationSink interface {
	Enqueue(payload EscalationPayload)
}
