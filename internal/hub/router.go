package hub

import (
	"github.com/Rishu1724/TextMeIfYouCan/internal/event"

	"go.uber.org/zap"
)

// Router fans an event out to every subscriber of a room, optionally
// excluding the originating connection. Delivery is best-effort and
// fire-and-forget: an undeliverable recipient misses the event and
// catches up by re-fetching conversation state on reconnect.
type Router struct {
	registry RoomRegistry
	logger   *zap.Logger
}

func NewRouter(registry RoomRegistry, logger *zap.Logger) *Router {
	return &Router{
		registry: registry,
		logger:   logger,
	}
}

// Publish delivers ev to the room's subscribers except
// excludeConnID (empty string excludes nobody). Ordering across
// recipients is unspecified; per-connection ordering follows the
// sequence of Publish calls.
func (r *Router) Publish(roomID string, ev event.WsEvent, excludeConnID string) {
	if roomID == "" {
		return
	}
	for _, sub := range r.registry.RoomMembers(roomID) {
		if sub.ID() == excludeConnID {
			continue
		}
		if !sub.Deliver(ev) {
			r.logger.Warn("event dropped: subscriber not accepting",
				zap.String("event", ev.Event),
				zap.String("room_id", roomID),
				zap.String("connection_id", sub.ID()),
			)
		}
	}
}
