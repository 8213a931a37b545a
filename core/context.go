package core

import (
	"time"
)

// Caps on the rolling sequences carried by a conversation. History is
// bounded to prevent unbounded growth; escalation logic only consumes
// trailing entries, so trimming at the head is not semantically lossy.
const (
	HistoryCap      = 20
	IntentTrendCap  = 10
	EmotionTrendCap = 10
)

// History roles.
const (
	RoleCustomer  = "customer"
	RoleAssistant = "assistant"
)

// HistoryEntry is one message of the conversation transcript.
type HistoryEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationContext is the per-conversation rolling state carried across
// turns. All sequences are chronological (append at tail, trim at head) and
// counters never go negative. Mutation happens exactly once per completed
// turn via ApplyTurn; stores persist the result.
type ConversationContext struct {
	ConversationID  string         `json:"conversation_id"`
	CustomerID      string         `json:"customer_id"`
	Channel         Channel        `json:"channel"`
	Language        Language       `json:"language"`
	History         []HistoryEntry `json:"history"`
	PreviousIntents []string       `json:"previous_intents"`
	EmotionTrend    []string       `json:"emotion_trend"`
	TurnCount       int            `json:"turn_count"`
	UnresolvedTurns int            `json:"unresolved_turns"`
	IsEscalated     bool           `json:"is_escalated"`
}

// NewConversationContext returns a zeroed context for a fresh conversation.
func NewConversationContext(conversationID, customerID string, channel Channel) *ConversationContext {
	return &ConversationContext{
		ConversationID:  conversationID,
		CustomerID:      customerID,
		Channel:         channel,
		Language:        LanguageEnglish,
		History:         []HistoryEntry{},
		PreviousIntents: []string{},
		EmotionTrend:    []string{},
	}
}

// Clone returns a deep copy safe for independent mutation, so stores can
// hand out snapshots without exposing internal state.
func (c *ConversationContext) Clone() *ConversationContext {
	clone := *c
	clone.History = make([]HistoryEntry, len(c.History))
	copy(clone.History, c.History)
	clone.PreviousIntents = make([]string, len(c.PreviousIntents))
	copy(clone.PreviousIntents, c.PreviousIntents)
	clone.EmotionTrend = make([]string, len(c.EmotionTrend))
	copy(clone.EmotionTrend, c.EmotionTrend)
	return &clone
}

// TurnResult is the per-turn delta a completed pipeline run applies to its
// conversation.
type TurnResult struct {
	CustomerMessage string
	ResponseText    string
	Intent          string
	DominantEmotion string
	Language        Language
	Escalated       bool
}

// ApplyTurn folds one completed turn into the context: two history entries
// (customer message then assistant response), the turn's intent and dominant
// emotion on their trend sequences, the capping rule, the unresolved-turn
// counter, the turn counter, and the language/escalation overwrites.
func (c *ConversationContext) ApplyTurn(turn TurnResult, now time.Time) {
	c.History = append(c.History,
		HistoryEntry{Role: RoleCustomer, Text: turn.CustomerMessage, Timestamp: now},
		HistoryEntry{Role: RoleAssistant, Text: turn.ResponseText, Timestamp: now},
	)
	c.History = trimHead(c.History, HistoryCap)

	c.PreviousIntents = trimHead(append(c.PreviousIntents, turn.Intent), IntentTrendCap)
	c.EmotionTrend = trimHead(append(c.EmotionTrend, turn.DominantEmotion), EmotionTrendCap)

	if IsUnresolvedIntent(turn.Intent) {
		c.UnresolvedTurns++
	} else {
		c.UnresolvedTurns = 0
	}
	c.TurnCount++

	if turn.Language != "" {
		c.Language = turn.Language
	}
	c.IsEscalated = turn.Escalated
}

// trimHead drops the oldest entries so at most max remain.
func trimHead[T any](s []T, max int) []T {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}

// IsUnresolvedIntent reports whether an intent label counts toward the
// unresolved-turn escalation rule.
func IsUnresolvedIntent(intent string) bool {
	switch intent {
	case "unknown", "unclear", "unresolved":
		return true
	}
	return false
}
