package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation types. Private conversations carry exactly two
// participants; group is reserved for a future arity.
const (
	ConversationTypePrivate = "private"
	ConversationTypeGroup   = "group"
)

// Conversation represents a chat conversation document in MongoDB. The
// relay only touches the denormalized summary fields (LastMessage,
// LastMessageTime); everything else belongs to the REST surface.
type Conversation struct {
	ID                 primitive.ObjectID            `json:"-" bson:"_id,omitempty"`
	ConversationID     string                        `json:"conversationId" bson:"conversation_id"`
	Type               string                        `json:"type" bson:"type"`
	Participants       []string                      `json:"participants" bson:"participants"`
	ParticipantDetails map[string]ParticipantDetail  `json:"participantDetails" bson:"participant_details"`
	LastMessage        string                        `json:"lastMessage" bson:"last_message"`
	LastMessageTime    time.Time                     `json:"lastMessageTime" bson:"last_message_time"`
	CreatedAt          time.Time                     `json:"createdAt" bson:"created_at"`
}

// ParticipantDetail is a cached display snapshot for one participant.
// It may go stale relative to the user document; that staleness is
// accepted.
type ParticipantDetail struct {
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar" bson:"avatar"`
}

// HasParticipant reports whether uid is a member of the conversation.
func (c *Conversation) HasParticipant(uid string) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}
