package hub

import (
	"context"

	"github.com/Rishu1724/TextMeIfYouCan/internal/event"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"

	"go.uber.org/zap"
)

// PresenceScope decides which connections observe a user's presence
// transition. The default global scope lets every observer learn every
// user's presence; the conversation scope restricts the broadcast to
// connections of co-participants.
type PresenceScope interface {
	Observers(ctx context.Context, userID string, all []Subscriber) []Subscriber
}

// GlobalScope broadcasts presence to every registered connection.
type GlobalScope struct{}

func (GlobalScope) Observers(_ context.Context, _ string, all []Subscriber) []Subscriber {
	return all
}

// CoParticipantLookup resolves the set of users sharing at least one
// conversation with userID.
type CoParticipantLookup interface {
	CoParticipants(ctx context.Context, userID string) (map[string]struct{}, error)
}

// ConversationScope restricts presence broadcasts to connections whose
// user shares a conversation with the transitioning user. On lookup
// failure it falls back to broadcasting nothing rather than leaking
// presence globally.
type ConversationScope struct {
	lookup CoParticipantLookup
	logger *zap.Logger
}

func NewConversationScope(lookup CoParticipantLookup, logger *zap.Logger) *ConversationScope {
	return &ConversationScope{
		lookup: lookup,
		logger: logger,
	}
}

func (s *ConversationScope) Observers(ctx context.Context, userID string, all []Subscriber) []Subscriber {
	peers, err := s.lookup.CoParticipants(ctx, userID)
	if err != nil {
		s.logger.Warn("presence scope lookup failed, suppressing broadcast",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	observers := make([]Subscriber, 0, len(all))
	for _, sub := range all {
		if _, ok := peers[sub.UserID()]; ok {
			observers = append(observers, sub)
		}
	}
	return observers
}

// PresenceBroadcaster pushes {userId, isOnline} transitions to the
// connections selected by its scope. No debouncing: rapid toggles each
// produce an independent broadcast.
type PresenceBroadcaster struct {
	registry RoomRegistry
	scope    PresenceScope
	logger   *zap.Logger
}

func NewPresenceBroadcaster(registry RoomRegistry, scope PresenceScope, logger *zap.Logger) *PresenceBroadcaster {
	return &PresenceBroadcaster{
		registry: registry,
		scope:    scope,
		logger:   logger,
	}
}

// SetOnline broadcasts an online transition. excludeConnID skips the
// originating connection (empty string excludes nobody).
func (b *PresenceBroadcaster) SetOnline(ctx context.Context, userID, excludeConnID string) {
	b.broadcast(ctx, userID, true, excludeConnID)
}

// SetOffline broadcasts an offline transition.
func (b *PresenceBroadcaster) SetOffline(ctx context.Context, userID, excludeConnID string) {
	b.broadcast(ctx, userID, false, excludeConnID)
}

func (b *PresenceBroadcaster) broadcast(ctx context.Context, userID string, online bool, excludeConnID string) {
	ev := event.NewEvent(event.EventUserStatusChange, model.PresenceChange{
		UserID:   userID,
		IsOnline: online,
	})

	for _, sub := range b.scope.Observers(ctx, userID, b.registry.Subscribers()) {
		if sub.ID() == excludeConnID {
			continue
		}
		if !sub.Deliver(ev) {
			b.logger.Warn("presence event dropped",
				zap.String("user_id", userID),
				zap.String("connection_id", sub.ID()),
			)
		}
	}
}
