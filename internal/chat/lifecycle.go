package chat

import (
	"context"
	"time"

	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationLookup is the slice of the conversation store the
// lifecycle needs for its create guard. Implementations return
// (nil, nil) when the conversation does not exist.
type ConversationLookup interface {
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
}

// Lifecycle governs the valid transitions of a message: creation,
// the sent -> delivered -> read progression, edits and soft deletes.
// Transition methods mutate the message in place and report whether
// anything changed; guard violations come back as coded errors and
// leave the message untouched.
type Lifecycle struct {
	conversations ConversationLookup
	logger        *zap.Logger
}

func NewLifecycle(conversations ConversationLookup, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		conversations: conversations,
		logger:        logger,
	}
}

// Create validates the send request against the conversation and
// produces a new message in status "sent". The sender must be a
// participant of an existing conversation.
func (l *Lifecycle) Create(ctx context.Context, conversationID, senderID, senderName, text, msgType string, fileURL *string) (*model.Message, error) {
	if conversationID == "" || senderID == "" {
		return nil, apperrors.Validation("conversationId and senderId are required")
	}

	conv, err := l.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, apperrors.ErrConversationLookupFailed(err)
	}
	if conv == nil {
		return nil, apperrors.ErrConversationNotFound
	}
	if !conv.HasParticipant(senderID) {
		l.logger.Warn("send rejected: sender not a participant",
			zap.String("conversation_id", conversationID),
			zap.String("sender_id", senderID),
		)
		return nil, apperrors.ErrNotParticipant
	}

	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if msgType == model.MessageTypeText {
		if text == "" {
			return nil, apperrors.ErrEmptyMessageText
		}
		fileURL = nil
	} else if fileURL == nil || *fileURL == "" {
		return nil, apperrors.ErrMissingFileURL
	}

	return &model.Message{
		MessageID:      uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     senderName,
		Text:           text,
		Timestamp:      time.Now().UTC(),
		Status:         model.StatusSent,
		Type:           msgType,
		FileURL:        fileURL,
	}, nil
}

// MarkDelivered advances sent -> delivered. The sender cannot
// acknowledge their own message. Re-invoking once the message is
// delivered or read is a no-op: status never regresses.
func (l *Lifecycle) MarkDelivered(msg *model.Message, by string) (bool, error) {
	if by == msg.SenderID {
		return false, apperrors.ErrSelfDelivery
	}
	if msg.Status.Rank() >= model.StatusDelivered.Rank() {
		return false, nil
	}
	msg.Status = model.StatusDelivered
	return true, nil
}

// MarkRead advances sent|delivered -> read. The sender cannot mark
// their own message as read. Idempotent once read.
func (l *Lifecycle) MarkRead(msg *model.Message, by string) (bool, error) {
	if by == msg.SenderID {
		return false, apperrors.ErrSelfReceipt
	}
	if msg.Status.Rank() >= model.StatusRead.Rank() {
		return false, nil
	}
	now := time.Now().UTC()
	msg.Status = model.StatusRead
	msg.ReadAt = &now
	return true, nil
}

// Edit replaces the message text. Only the sender may edit, and a
// soft-deleted message can no longer be edited.
func (l *Lifecycle) Edit(msg *model.Message, by, newText string) error {
	if by != msg.SenderID {
		return apperrors.ErrNotMessageOwner
	}
	if msg.IsDeleted {
		return apperrors.ErrMessageDeleted
	}
	if newText == "" {
		return apperrors.ErrEmptyMessageText
	}
	now := time.Now().UTC()
	msg.Text = newText
	msg.IsEdited = true
	msg.EditedAt = &now
	return nil
}

// SoftDelete flips the deleted flag and replaces the text with the
// placeholder. Only the sender may delete. Idempotent; delivery status
// is left alone.
func (l *Lifecycle) SoftDelete(msg *model.Message, by string) (bool, error) {
	if by != msg.SenderID {
		return false, apperrors.ErrNotMessageOwner
	}
	if msg.IsDeleted {
		return false, nil
	}
	now := time.Now().UTC()
	msg.IsDeleted = true
	msg.Text = model.DeletedMessageText
	msg.DeletedAt = &now
	return true, nil
}
