package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caremesh/caremesh/core"
)

// InMemoryStore is a volatile ContextStore implementation keeping
// conversations in a process-local map. It is safe for concurrent access and
// best suited for tests or single-instance deployments. Each returned
// context is cloned to prevent external mutation of internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.ConversationContext

	// now is swappable for tests.
	now func() time.Time
}

// NewInMemoryStore constructs an empty in-memory context store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]*core.ConversationContext),
		now:           time.Now,
	}
}

// GetOrCreate returns an existing conversation (clone) or creates a zeroed
// one, allocating a fresh identifier when none is supplied. Concurrent
// first-turn creation for the same identifier is last-writer-wins.
func (s *InMemoryStore) GetOrCreate(_ context.Context, conversationID, customerID string, channel core.Channel) (*core.ConversationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID != "" {
		if cctx, ok := s.conversations[conversationID]; ok {
			return cctx.Clone(), nil
		}
	}

	id := conversationID
	if id == "" {
		id = uuid.NewString()
	}
	cctx := core.NewConversationContext(id, customerID, channel)
	s.conversations[id] = cctx
	return cctx.Clone(), nil
}

// Update folds a completed turn into the stored conversation.
func (s *InMemoryStore) Update(_ context.Context, conversationID string, turn core.TurnResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cctx, ok := s.conversations[conversationID]
	if !ok {
		return core.ErrConversationNotFound
	}
	cctx.ApplyTurn(turn, s.now().UTC())
	return nil
}

// Len reports the number of stored conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
