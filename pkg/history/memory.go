package history

import (
	"context"
	"sync"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// MemoryStore keeps conversation windows in process memory. It is the
// zero-configuration default; history does not survive a restart and is
// never shared across instances.
type MemoryStore struct {
	mu      sync.RWMutex
	windows map[string][]risk.ConversationEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string][]risk.ConversationEntry)}
}

func (s *MemoryStore) Append(_ context.Context, conversationID string, entry risk.ConversationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	window := append(s.windows[conversationID], entry)
	if len(window) > risk.HistoryWindow {
		trimmed := make([]risk.ConversationEntry, risk.HistoryWindow)
		copy(trimmed, window[len(window)-risk.HistoryWindow:])
		window = trimmed
	}
	s.windows[conversationID] = window
	return nil
}

func (s *MemoryStore) Window(_ context.Context, conversationID string) ([]risk.ConversationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := s.windows[conversationID]
	out := make([]risk.ConversationEntry, len(window))
	copy(out, window)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, conversationID)
	return nil
}
