package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStatus is the delivery progression of a message. Transitions
// only move forward: sent -> delivered -> read.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// statusRank orders the delivery progression for monotonicity checks.
var statusRank = map[MessageStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// Rank returns the position of s in the delivery order, -1 for unknown
// statuses.
func (s MessageStatus) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// Message content types.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
)

// DeletedMessageText replaces the body of a soft-deleted message.
const DeletedMessageText = "This message was deleted"

// Message represents a chat message document in MongoDB.
type Message struct {
	ID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	MessageID      string             `json:"messageId" bson:"message_id"`
	ConversationID string             `json:"conversationId" bson:"conversation_id"`
	SenderID       string             `json:"senderId" bson:"sender_id"`
	SenderName     string             `json:"senderName,omitempty" bson:"sender_name"`
	Text           string             `json:"text" bson:"text"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
	Status         MessageStatus      `json:"status" bson:"status"`
	Type           string             `json:"type" bson:"type"`
	FileURL        *string            `json:"fileUrl" bson:"file_url"`
	IsEdited       bool               `json:"isEdited" bson:"is_edited"`
	IsDeleted      bool               `json:"isDeleted" bson:"is_deleted"`
	EditedAt       *time.Time         `json:"editedAt,omitempty" bson:"edited_at"`
	DeletedAt      *time.Time         `json:"deletedAt,omitempty" bson:"deleted_at"`
	ReadAt         *time.Time         `json:"readAt,omitempty" bson:"read_at"`
}

// ErrorPayload represents an error acknowledgment sent to a client over
// the socket.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
