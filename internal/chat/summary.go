package chat

import (
	"sync"
	"time"
)

// Summary is the denormalized last-message projection of a
// conversation.
type Summary struct {
	LastMessage     string
	LastMessageTime time.Time
}

// SummaryTracker maintains the per-conversation summary. Updates are
// last-write-wins by call order, not by timestamp comparison: a message
// delivered late overwrites a newer one. Edits, deletes and status
// transitions do not touch the summary; it keeps the original send
// text.
type SummaryTracker struct {
	mu      sync.RWMutex
	entries map[string]Summary
}

func NewSummaryTracker() *SummaryTracker {
	return &SummaryTracker{
		entries: make(map[string]Summary),
	}
}

// OnMessageAccepted records text/timestamp as the conversation's last
// message, unconditionally overwriting the previous entry.
func (t *SummaryTracker) OnMessageAccepted(conversationID, text string, timestamp time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[conversationID] = Summary{
		LastMessage:     text,
		LastMessageTime: timestamp,
	}
}

// Get returns the current summary for a conversation.
func (t *SummaryTracker) Get(conversationID string) (Summary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.entries[conversationID]
	return s, ok
}
