package core

import (
	"context"
	"errors"
)

// ErrConversationNotFound is returned by ContextStore.Update when the
// conversation no longer exists. The coordinator treats it as recoverable:
// the turn's response has already been computed, so the miss is logged and
// the update becomes a no-op.
var ErrConversationNotFound = errors.New("conversation not found")

// ContextStore persists conversation contexts keyed by conversation
// identifier. Implementations must support concurrent read-modify-write per
// key without corrupting counters or losing history entries; no cross-key
// ordering is required.
type ContextStore interface {
	// GetOrCreate returns a snapshot of an existing conversation, or creates
	// a zeroed one. When conversationID is empty a fresh identifier is
	// allocated. Concurrent first-turn creation for the same identifier is
	// last-writer-wins.
	GetOrCreate(ctx context.Context, conversationID, customerID string, channel Channel) (*ConversationContext, error)

	// Update folds a completed turn into the stored context per
	// ConversationContext.ApplyTurn. Returns ErrConversationNotFound when
	// the conversation does not exist.
	Update(ctx context.Context, conversationID string, turn TurnResult) error
}
