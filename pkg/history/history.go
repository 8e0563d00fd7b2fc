// Package history stores the rolling conversation window that contextual
// detection reads. One window per conversation, capped at the trailing
// risk.HistoryWindow entries, oldest first.
package history

import (
	"context"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Store persists per-conversation message windows. Conversations are keyed
// by an opaque caller-chosen ID, typically derived from the sender.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records a message at the tail of the conversation window.
	Append(ctx context.Context, conversationID string, entry risk.ConversationEntry) error

	// Window returns up to risk.HistoryWindow trailing entries, oldest
	// first. An unknown conversation yields an empty window, not an error.
	Window(ctx context.Context, conversationID string) ([]risk.ConversationEntry, error)

	// Clear removes a conversation's history.
	Clear(ctx context.Context, conversationID string) error
}
