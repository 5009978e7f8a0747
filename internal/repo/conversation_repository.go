package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rishu1724/TextMeIfYouCan/internal/db"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ConversationRepository interface {
	InsertConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListForUser(ctx context.Context, uid string) ([]model.Conversation, error)
	FindPrivateBetween(ctx context.Context, a, b string) (*model.Conversation, error)
	UpdateSummary(ctx context.Context, conversationID, text string, at time.Time) error
	DeleteConversation(ctx context.Context, conversationID string) error
	CoParticipants(ctx context.Context, userID string) (map[string]struct{}, error)
}

type conversationRepository struct {
	mongoRepo *db.Repository[model.Conversation]
	logger    *zap.Logger
}

func NewConversationRepository(mongoRepo *db.Repository[model.Conversation], logger *zap.Logger) ConversationRepository {
	return &conversationRepository{
		mongoRepo: mongoRepo,
		logger:    logger,
	}
}

func (r *conversationRepository) InsertConversation(ctx context.Context, conv *model.Conversation) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if _, err := r.mongoRepo.Create(ctx, *conv); err != nil {
		r.logger.Error("failed to insert conversation",
			zap.String("conversation_id", conv.ConversationID),
			zap.Error(err),
		)
		return fmt.Errorf("insert conversation failed: %w", err)
	}
	return nil
}

// GetConversation fetches a conversation by ID. Returns (nil, nil)
// when the conversation does not exist.
func (r *conversationRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}

	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("conversation_id", conversationID).Build()
	conv, err := r.mongoRepo.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug("conversation not found",
				zap.String("conversation_id", conversationID),
			)
			return nil, nil
		}
		r.logger.Error("failed to fetch conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return conv, nil
}

// ListForUser returns the conversations uid participates in, most
// recently active first.
func (r *conversationRepository) ListForUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().ArrayContains("participants", uid).Build()
	opts := options.Find().SetSort(bson.M{"last_message_time": -1})

	convs, err := r.mongoRepo.FindAll(ctx, filter, opts)
	if err != nil {
		r.logger.Error("failed to list conversations", zap.String("uid", uid), zap.Error(err))
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return convs, nil
}

// FindPrivateBetween returns the private conversation shared by two
// users, or (nil, nil) if none exists.
func (r *conversationRepository) FindPrivateBetween(ctx context.Context, a, b string) (*model.Conversation, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("type", model.ConversationTypePrivate).
		Eq("participants", bson.M{"$all": bson.A{a, b}}).
		Build()

	conv, err := r.mongoRepo.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find private conversation: %w", err)
	}
	return conv, nil
}

// UpdateSummary overwrites the denormalized last-message fields.
// Last-write-wins by call order; no timestamp comparison.
func (r *conversationRepository) UpdateSummary(ctx context.Context, conversationID, text string, at time.Time) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("conversation_id", conversationID).Build()
	_, err := r.mongoRepo.Update(ctx, filter, bson.M{
		"last_message":      text,
		"last_message_time": at,
	})
	if err != nil {
		r.logger.Error("failed to update conversation summary",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return fmt.Errorf("update summary failed: %w", err)
	}
	return nil
}

func (r *conversationRepository) DeleteConversation(ctx context.Context, conversationID string) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().Eq("conversation_id", conversationID).Build()
	result, err := r.mongoRepo.Delete(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete conversation failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CoParticipants resolves every user sharing at least one conversation
// with userID. Backs the conversation-scoped presence broadcast.
func (r *conversationRepository) CoParticipants(ctx context.Context, userID string) (map[string]struct{}, error) {
	convs, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers := make(map[string]struct{})
	for _, conv := range convs {
		for _, p := range conv.Participants {
			if p != userID {
				peers[p] = struct{}{}
			}
		}
	}
	return peers, nil
}
