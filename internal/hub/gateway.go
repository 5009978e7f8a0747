package hub

import (
	"context"
	"encoding/json"

	"github.com/Rishu1724/TextMeIfYouCan/internal/event"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"go.uber.org/zap"
)

// Gateway is the relay's protocol entry point. Every inbound socket
// event passes through here: shape validation, then dispatch to the
// room router, the presence broadcaster or the registry. The gateway is
// the sole writer of outbound relay events.
//
// The acting user is always the identity bound to the connection at
// handshake. Actor fields inside payloads are never trusted; a mismatch
// is logged and overridden.
type Gateway struct {
	registry RoomRegistry
	router   *Router
	presence *PresenceBroadcaster
	logger   *zap.Logger
}

func NewGateway(registry RoomRegistry, router *Router, presence *PresenceBroadcaster, logger *zap.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		router:   router,
		presence: presence,
		logger:   logger,
	}
}

// Dispatch routes one inbound event. Malformed events are dropped with
// a diagnostic and an error acknowledgment; they never crash or
// disconnect the session.
func (g *Gateway) Dispatch(ctx context.Context, ev event.WsEvent, sub Subscriber) {
	switch ev.Event {
	case event.EventJoin:
		g.handleJoin(ev, sub)
	case event.EventLeave:
		g.handleLeave(ev, sub)
	case event.EventSendMessage:
		g.handleSend(ev, sub)
	case event.EventTyping:
		g.handleTyping(ev, sub, true)
	case event.EventStopTyping:
		g.handleTyping(ev, sub, false)
	case event.EventUserOnline:
		g.presence.SetOnline(ctx, sub.UserID(), sub.ID())
	case event.EventUserOffline:
		g.presence.SetOffline(ctx, sub.UserID(), sub.ID())
	case event.EventMessageRead:
		g.handleReceipt(ev, sub)
	case event.EventDeleteMsg:
		g.handleMutation(ev, sub, event.EventMessageDeleted, false)
	case event.EventEditMsg:
		g.handleMutation(ev, sub, event.EventMessageEdited, true)
	default:
		g.logger.Warn("unknown event type",
			zap.String("event", ev.Event),
			zap.String("connection_id", sub.ID()),
		)
		g.reject(sub, apperrors.CodeValidationError, "unknown event type: "+ev.Event)
	}
}

func (g *Gateway) handleJoin(ev event.WsEvent, sub Subscriber) {
	var payload model.RoomPayload
	if !g.decode(ev, sub, &payload) {
		return
	}
	if payload.ConversationID == "" {
		g.reject(sub, apperrors.CodeValidationError, "conversationId is required")
		return
	}
	g.registry.JoinRoom(sub, payload.ConversationID)
	g.logger.Info("connection joined room",
		zap.String("connection_id", sub.ID()),
		zap.String("conversation_id", payload.ConversationID),
	)
}

func (g *Gateway) handleLeave(ev event.WsEvent, sub Subscriber) {
	var payload model.RoomPayload
	if !g.decode(ev, sub, &payload) {
		return
	}
	if payload.ConversationID == "" {
		g.reject(sub, apperrors.CodeValidationError, "conversationId is required")
		return
	}
	g.registry.LeaveRoom(sub, payload.ConversationID)
	g.logger.Info("connection left room",
		zap.String("connection_id", sub.ID()),
		zap.String("conversation_id", payload.ConversationID),
	)
}

// handleSend is pure fan-out: persistence happens on the REST path
// before or alongside the socket emit, so the relay only forwards the
// message to the room, excluding the sender's own connection.
func (g *Gateway) handleSend(ev event.WsEvent, sub Subscriber) {
	var msg model.Message
	if !g.decode(ev, sub, &msg) {
		return
	}
	if msg.ConversationID == "" {
		g.reject(sub, apperrors.CodeValidationError, "conversationId is required")
		return
	}
	if msg.Text == "" && msg.FileURL == nil {
		g.reject(sub, apperrors.CodeValidationError, "message text or fileUrl is required")
		return
	}
	if msg.SenderID != sub.UserID() {
		g.logger.Warn("payload sender overridden by connection identity",
			zap.String("claimed", msg.SenderID),
			zap.String("bound", sub.UserID()),
		)
		msg.SenderID = sub.UserID()
	}

	g.router.Publish(msg.ConversationID, event.NewEvent(event.EventReceiveMessage, msg), sub.ID())
}

func (g *Gateway) handleTyping(ev event.WsEvent, sub Subscriber, typing bool) {
	var payload model.TypingIndicator
	if !g.decode(ev, sub, &payload) {
		return
	}
	if payload.ConversationID == "" {
		g.reject(sub, apperrors.CodeValidationError, "conversationId is required")
		return
	}
	payload.UserID = sub.UserID()
	payload.IsTyping = typing

	name := event.EventUserTyping
	if !typing {
		name = event.EventUserStoppedTyping
	}
	g.router.Publish(payload.ConversationID, event.NewEvent(name, payload), sub.ID())
}

func (g *Gateway) handleReceipt(ev event.WsEvent, sub Subscriber) {
	var payload model.MessageReceipt
	if !g.decode(ev, sub, &payload) {
		return
	}
	if payload.MessageID == "" || payload.ConversationID == "" {
		g.reject(sub, apperrors.CodeValidationError, "messageId and conversationId are required")
		return
	}
	payload.UserID = sub.UserID()

	g.router.Publish(payload.ConversationID, event.NewEvent(event.EventMessageReadAck, payload), sub.ID())
}

func (g *Gateway) handleMutation(ev event.WsEvent, sub Subscriber, outbound string, requireText bool) {
	var payload model.MessageMutation
	if !g.decode(ev, sub, &payload) {
		return
	}
	if payload.MessageID == "" || payload.ConversationID == "" {
		g.reject(sub, apperrors.CodeValidationError, "messageId and conversationId are required")
		return
	}
	if requireText && payload.Text == "" {
		g.reject(sub, apperrors.CodeValidationError, "text is required")
		return
	}

	g.router.Publish(payload.ConversationID, event.NewEvent(outbound, payload), sub.ID())
}

func (g *Gateway) decode(ev event.WsEvent, sub Subscriber, out any) bool {
	if len(ev.Payload) == 0 {
		g.reject(sub, apperrors.CodeValidationError, "payload is required")
		return false
	}
	if err := json.Unmarshal(ev.Payload, out); err != nil {
		g.logger.Warn("malformed event payload",
			zap.String("event", ev.Event),
			zap.String("connection_id", sub.ID()),
			zap.Error(err),
		)
		g.reject(sub, apperrors.CodeValidationError, "malformed payload")
		return false
	}
	return true
}

// reject sends a synchronous error acknowledgment to the offending
// connection. The session stays open.
func (g *Gateway) reject(sub Subscriber, code apperrors.Code, msg string) {
	sub.Deliver(event.NewEvent(event.EventError, model.ErrorPayload{
		Code:    string(code),
		Message: msg,
	}))
}
