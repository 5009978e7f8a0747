package model

import "time"

// Socket payload shapes for relay events. Actor fields sent by the
// client are informational only; the gateway always resolves the acting
// user from the identity bound to the connection at handshake.

// RoomPayload carries a join/leave request.
type RoomPayload struct {
	ConversationID string `json:"conversationId"`
}

// TypingIndicator signals typing start/stop inside a conversation.
type TypingIndicator struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsTyping       bool   `json:"isTyping"`
}

// PresenceChange is the broadcast emitted on a presence transition.
// Inbound userOnline/userOffline events carry no trusted payload; the
// transitioning user is the connection's bound identity.
type PresenceChange struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// MessageReceipt is a read/delivery receipt for a single message.
type MessageReceipt struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId,omitempty"`
	At             time.Time `json:"at,omitempty"`
}

// MessageMutation carries an edit or delete notification.
type MessageMutation struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	Text           string `json:"text,omitempty"`
}
