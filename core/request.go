package core

// Channel identifies the communication channel a customer used to reach
// support. Unknown values are passed through untouched; routing decisions
// based on channel are the transport layer's concern.
type Channel string

// Supported channels.
const (
	ChannelChat   Channel = "chat"
	ChannelEmail  Channel = "email"
	ChannelSocial Channel = "social"
)

// Language is an ISO 639-1 language code.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// UsageRecord is one telemetry sample of numeric counters for a customer
// account (e.g. api_calls, error_count, latency_ms, login_failures).
type UsageRecord map[string]float64

// Feedback is an optional post-interaction feedback payload supplied by the
// customer, consumed asynchronously by the feedback-analysis agent.
type Feedback struct {
	CSATScore *float64 `json:"csat_score,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Comment   string   `json:"comment,omitempty"`
}

// InteractionRequest is the inbound customer interaction handed to the
// pipeline by the transport layer. ConversationID and AccountID are optional:
// a missing conversation identifier starts a new conversation, a missing
// account identifier structurally skips the anomaly scan.
type InteractionRequest struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	CustomerID     string        `json:"customer_id"`
	AccountID      string        `json:"account_id,omitempty"`
	Message        string        `json:"customer_message"`
	Channel        Channel       `json:"channel"`
	UsageLogs      []UsageRecord `json:"usage_logs,omitempty"`
	Feedback       *Feedback     `json:"customer_feedback,omitempty"`
}
