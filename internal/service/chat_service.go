package service

import (
	"context"
	"time"

	"github.com/Rishu1724/TextMeIfYouCan/internal/chat"
	"github.com/Rishu1724/TextMeIfYouCan/internal/db"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	"github.com/Rishu1724/TextMeIfYouCan/internal/repo"
	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// SendMessageRequest is the REST send payload.
type SendMessageRequest struct {
	ConversationID string  `json:"conversationId" binding:"required"`
	Text           string  `json:"text"`
	Type           string  `json:"type"`
	FileURL        *string `json:"fileUrl"`
}

// ChatService owns the authoritative message lifecycle: every
// transition runs through the state machine here and is mirrored into
// the document store. The socket relay fans events out; it never
// mutates state.
type ChatService interface {
	SendMessage(ctx context.Context, senderID string, req SendMessageRequest) (*model.Message, error)
	GetMessages(ctx context.Context, uid, conversationID string, page int64) (*db.PaginatedResult[model.Message], error)
	EditMessage(ctx context.Context, uid, messageID, text string) (*model.Message, error)
	DeleteMessage(ctx context.Context, uid, messageID string) (*model.Message, error)
	MarkMessageRead(ctx context.Context, uid, messageID string) (*model.Message, error)
	MarkMessageDelivered(ctx context.Context, uid, messageID string) (*model.Message, error)

	CreateConversation(ctx context.Context, creatorUID string, participants []string, convType string) (*model.Conversation, bool, error)
	GetConversations(ctx context.Context, uid string) ([]model.Conversation, error)
	GetConversation(ctx context.Context, uid, conversationID string) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, uid, conversationID string) error
}

type chatService struct {
	lifecycle     *chat.Lifecycle
	summary       *chat.SummaryTracker
	messages      repo.MessageRepository
	conversations repo.ConversationRepository
	users         repo.UserRepository
	logger        *zap.Logger
}

func NewChatService(
	lifecycle *chat.Lifecycle,
	summary *chat.SummaryTracker,
	messages repo.MessageRepository,
	conversations repo.ConversationRepository,
	users repo.UserRepository,
	logger *zap.Logger,
) ChatService {
	return &chatService{
		lifecycle:     lifecycle,
		summary:       summary,
		messages:      messages,
		conversations: conversations,
		users:         users,
		logger:        logger,
	}
}

// SendMessage runs the create transition, persists the message and
// refreshes the conversation summary.
func (s *chatService) SendMessage(ctx context.Context, senderID string, req SendMessageRequest) (*model.Message, error) {
	senderName := ""
	if sender, err := s.users.GetUser(ctx, senderID); err == nil && sender != nil {
		senderName = sender.DisplayName
		if senderName == "" {
			senderName = sender.Username
		}
	}

	msg, err := s.lifecycle.Create(ctx, req.ConversationID, senderID, senderName, req.Text, req.Type, req.FileURL)
	if err != nil {
		return nil, err
	}

	if err := s.messages.InsertMessage(ctx, msg); err != nil {
		return nil, apperrors.ErrSendFailed(err)
	}

	// Summary is last-write-wins by call order; the in-memory tracker
	// and the store mirror see the same ordering.
	s.summary.OnMessageAccepted(msg.ConversationID, msg.Text, msg.Timestamp)
	if err := s.conversations.UpdateSummary(ctx, msg.ConversationID, msg.Text, msg.Timestamp); err != nil {
		s.logger.Warn("conversation summary mirror failed",
			zap.String("conversation_id", msg.ConversationID),
			zap.Error(err),
		)
	}

	return msg, nil
}

// GetMessages pages through a conversation's history. The caller must
// be a participant.
func (s *chatService) GetMessages(ctx context.Context, uid, conversationID string, page int64) (*db.PaginatedResult[model.Message], error) {
	if _, err := s.requireParticipant(ctx, uid, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, conversationID, page)
}

func (s *chatService) EditMessage(ctx context.Context, uid, messageID, text string) (*model.Message, error) {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.Edit(msg, uid, text); err != nil {
		return nil, err
	}

	err = s.messages.UpdateMessage(ctx, messageID, bson.M{
		"text":      msg.Text,
		"is_edited": msg.IsEdited,
		"edited_at": msg.EditedAt,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to persist edit", err)
	}
	return msg, nil
}

func (s *chatService) DeleteMessage(ctx context.Context, uid, messageID string) (*model.Message, error) {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	changed, err := s.lifecycle.SoftDelete(msg, uid)
	if err != nil {
		return nil, err
	}
	if !changed {
		return msg, nil
	}

	err = s.messages.UpdateMessage(ctx, messageID, bson.M{
		"text":       msg.Text,
		"is_deleted": msg.IsDeleted,
		"deleted_at": msg.DeletedAt,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to persist delete", err)
	}
	return msg, nil
}

func (s *chatService) MarkMessageRead(ctx context.Context, uid, messageID string) (*model.Message, error) {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	changed, err := s.lifecycle.MarkRead(msg, uid)
	if err != nil {
		return nil, err
	}
	if !changed {
		return msg, nil
	}

	err = s.messages.UpdateMessage(ctx, messageID, bson.M{
		"status":  msg.Status,
		"read_at": msg.ReadAt,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to persist read status", err)
	}
	return msg, nil
}

func (s *chatService) MarkMessageDelivered(ctx context.Context, uid, messageID string) (*model.Message, error) {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	changed, err := s.lifecycle.MarkDelivered(msg, uid)
	if err != nil {
		return nil, err
	}
	if !changed {
		return msg, nil
	}

	err = s.messages.UpdateMessage(ctx, messageID, bson.M{
		"status": msg.Status,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to persist delivery status", err)
	}
	return msg, nil
}

// CreateConversation creates a private conversation, returning the
// existing one (existed=true) when the pair already shares one.
func (s *chatService) CreateConversation(ctx context.Context, creatorUID string, participants []string, convType string) (*model.Conversation, bool, error) {
	if convType == "" {
		convType = model.ConversationTypePrivate
	}
	if convType != model.ConversationTypePrivate {
		return nil, false, apperrors.Validation("only private conversations are supported")
	}
	if len(participants) != 2 {
		return nil, false, apperrors.Validation("private conversations require exactly 2 participants")
	}

	found := false
	for _, p := range participants {
		if p == creatorUID {
			found = true
			break
		}
	}
	if !found {
		return nil, false, apperrors.ErrNotParticipant
	}

	existing, err := s.conversations.FindPrivateBetween(ctx, participants[0], participants[1])
	if err != nil {
		return nil, false, apperrors.ErrConversationLookupFailed(err)
	}
	if existing != nil {
		return existing, true, nil
	}

	details := make(map[string]model.ParticipantDetail, len(participants))
	for _, uid := range participants {
		user, err := s.users.GetUser(ctx, uid)
		if err != nil || user == nil {
			continue
		}
		name := user.DisplayName
		if name == "" {
			name = user.Username
		}
		details[uid] = model.ParticipantDetail{
			Name:   name,
			Avatar: user.AvatarURL,
		}
	}

	conv := &model.Conversation{
		ConversationID:     uuid.New().String(),
		Type:               convType,
		Participants:       participants,
		ParticipantDetails: details,
		LastMessage:        "",
		LastMessageTime:    time.Now().UTC(),
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.conversations.InsertConversation(ctx, conv); err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, "failed to create conversation", err)
	}
	return conv, false, nil
}

func (s *chatService) GetConversations(ctx context.Context, uid string) ([]model.Conversation, error) {
	return s.conversations.ListForUser(ctx, uid)
}

func (s *chatService) GetConversation(ctx context.Context, uid, conversationID string) (*model.Conversation, error) {
	return s.requireParticipant(ctx, uid, conversationID)
}

func (s *chatService) DeleteConversation(ctx context.Context, uid, conversationID string) error {
	if _, err := s.requireParticipant(ctx, uid, conversationID); err != nil {
		return err
	}
	return s.conversations.DeleteConversation(ctx, conversationID)
}

func (s *chatService) loadMessage(ctx context.Context, messageID string) (*model.Message, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load message", err)
	}
	if msg == nil {
		return nil, apperrors.ErrMessageNotFound
	}
	return msg, nil
}

func (s *chatService) requireParticipant(ctx context.Context, uid, conversationID string) (*model.Conversation, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, apperrors.ErrConversationLookupFailed(err)
	}
	if conv == nil {
		return nil, apperrors.ErrConversationNotFound
	}
	if !conv.HasParticipant(uid) {
		return nil, apperrors.ErrNotParticipant
	}
	return conv, nil
}
