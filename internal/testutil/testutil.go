// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing core model objects (requests,
// conversation contexts, stub agents) and asserting behaviors. These helpers
// are intentionally minimal. They are not intended for production usage.
package testutil

import (
	"context"
	"time"

	"github.com/caremesh/caremesh/core"
)

// RequestBuilder provides a fluent helper for constructing interaction
// requests in tests. Chain only the parts you need; sensible defaults are
// applied.
type RequestBuilder struct {
	req core.InteractionRequest
}

// NewRequestBuilder creates a builder with a default customer, message and
// chat channel.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{req: core.InteractionRequest{
		CustomerID: "cust-1",
		Message:    "hello",
		Channel:    core.ChannelChat,
	}}
}

// Conversation sets the conversation identifier (chainable).
func (b *RequestBuilder) Conversation(id string) *RequestBuilder {
	b.req.ConversationID = id
	return b
}

// Customer sets the customer identifier (chainable).
func (b *RequestBuilder) Customer(id string) *RequestBuilder {
	b.req.CustomerID = id
	return b
}

// Account sets the account identifier, enabling the anomaly scan (chainable).
func (b *RequestBuilder) Account(id string) *RequestBuilder {
	b.req.AccountID = id
	return b
}

// Message sets the customer message (chainable).
func (b *RequestBuilder) Message(msg string) *RequestBuilder {
	b.req.Message = msg
	return b
}

// Channel sets the interaction channel (chainable).
func (b *RequestBuilder) Channel(ch core.Channel) *RequestBuilder {
	b.req.Channel = ch
	return b
}

// Usage appends one usage telemetry record (chainable).
func (b *RequestBuilder) Usage(rec core.UsageRecord) *RequestBuilder {
	b.req.UsageLogs = append(b.req.UsageLogs, rec)
	return b
}

// Feedback attaches a feedback payload (chainable).
func (b *RequestBuilder) Feedback(fb *core.Feedback) *RequestBuilder {
	b.req.Feedback = fb
	return b
}

// Build returns the assembled request.
func (b *RequestBuilder) Build() core.InteractionRequest { return b.req }

// ContextBuilder constructs conversation contexts with pre-populated trends
// for escalation and store tests.
type ContextBuilder struct {
	cctx *core.ConversationContext
}

// NewContextBuilder creates a builder around a fresh context.
func NewContextBuilder(conversationID string) *ContextBuilder {
	return &ContextBuilder{cctx: core.NewConversationContext(conversationID, "cust-1", core.ChannelChat)}
}

// Emotions sets the emotion trend (chainable).
func (b *ContextBuilder) Emotions(emotions ...string) *ContextBuilder {
	b.cctx.EmotionTrend = emotions
	return b
}

// Intents sets the intent trend (chainable).
func (b *ContextBuilder) Intents(intents ...string) *ContextBuilder {
	b.cctx.PreviousIntents = intents
	return b
}

// Unresolved sets the unresolved-turn counter (chainable).
func (b *ContextBuilder) Unresolved(n int) *ContextBuilder {
	b.cctx.UnresolvedTurns = n
	return b
}

// Escalated marks the conversation as already escalated (chainable).
func (b *ContextBuilder) Escalated() *ContextBuilder {
	b.cctx.IsEscalated = true
	return b
}

// Build returns the assembled context.
func (b *ContextBuilder) Build() *core.ConversationContext { return b.cctx }

// StubAgent is a scriptable agent for exercising the coordinator: it can
// return a fixed output, fail, panic or stall past the caller's timeout.
type StubAgent[I, O any] struct {
	Role     string
	Out      O
	Err      error
	PanicMsg string
	Delay    time.Duration

	// OnProcess, when set, observes each input before the script runs.
	OnProcess func(input I)

	// Calls counts Process invocations; read it only after the pipeline
	// call has returned.
	Calls int
}

// Name returns the scripted role.
func (s *StubAgent[I, O]) Name() string { return s.Role }

// Process runs the script.
func (s *StubAgent[I, O]) Process(ctx context.Context, input I) (O, error) {
	s.Calls++
	if s.OnProcess != nil {
		s.OnProcess(input)
	}
	if s.PanicMsg != "" {
		panic(s.PanicMsg)
	}
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			var zero O
			return zero, ctx.Err()
		}
	}
	return s.Out, s.Err
}
