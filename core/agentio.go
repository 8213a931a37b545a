package core

// Typed input/output pairs for the five agent roles. The coordinator owns
// input construction: generation consumes the raw request and loaded context,
// knowledge search derives its query from the generator's resolved intent,
// sentiment receives the emotion trend so agent-local policy can evaluate
// streaks, and feedback analysis receives a snapshot of the completed turn.

// GenerationInput feeds the response generator (intent classification,
// language detection, draft response).
type GenerationInput struct {
	InteractionID string
	Message       string
	Channel       Channel
	Context       *ConversationContext
}

// GenerationOutput is the generator's draft answer and classification.
type GenerationOutput struct {
	ResponseText string   `json:"response_text"`
	Intent       string   `json:"intent"`
	Language     Language `json:"language"`
	Escalate     bool     `json:"escalation_flag"`
}

// KnowledgeInput feeds the semantic FAQ search.
type KnowledgeInput struct {
	InteractionID string
	Query         string
	TopK          int
	Language      Language
}

// KnowledgeOutput carries ranked FAQ article suggestions.
type KnowledgeOutput struct {
	Articles []FAQArticle `json:"suggested_faq_articles"`
}

// SentimentInput feeds the sentiment/emotion analyzer. EmotionHistory is the
// conversation's emotion trend prior to this turn, oldest first.
type SentimentInput struct {
	InteractionID  string
	Text           string
	EmotionHistory []string
}

// SentimentOutput is the analyzer's scoring of the current message.
type SentimentOutput struct {
	SentimentScore     float64 `json:"sentiment_score"`
	DominantEmotion    string  `json:"dominant_emotion"`
	ToneRecommendation string  `json:"tone_recommendation"`
	Escalate           bool    `json:"escalation_flag"`
}

// AnomalyInput feeds the account anomaly scan. The coordinator only builds
// this input when the request carries an account identifier.
type AnomalyInput struct {
	InteractionID string
	AccountID     string
	UsageLogs     []UsageRecord
}

// AnomalyOutput carries proactive alerts derived from usage telemetry.
type AnomalyOutput struct {
	Alerts []ProactiveAlert `json:"proactive_alerts"`
}

// InteractionSnapshot is the completed turn handed to the deferred
// feedback-analysis agent after the response has been returned.
type InteractionSnapshot struct {
	CustomerMessage string
	ResponseText    string
	Intent          string
	SentimentScore  float64
	History         []HistoryEntry
	PreviousIntents []string
}

// FeedbackInput feeds the deferred feedback-analysis agent.
type FeedbackInput struct {
	InteractionID string
	Feedback      *Feedback
	Snapshot      InteractionSnapshot
}

// FeedbackOutput is the deferred analysis result. It is logged and recorded
// in metrics but never joins the synchronous response.
type FeedbackOutput struct {
	Analysis FeedbackAnalysis `json:"feedback_analysis"`
}
