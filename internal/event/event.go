package event

import "encoding/json"

// Client to server event names. These match the socket vocabulary the
// frontend speaks: room management, message traffic, typing indicators,
// presence and message mutations.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventSendMessage = "sendMessage"
	EventTyping      = "typing"
	EventStopTyping  = "stopTyping"
	EventUserOnline  = "userOnline"
	EventUserOffline = "userOffline"
	EventMessageRead = "messageRead"
	EventDeleteMsg   = "deleteMessage"
	EventEditMsg     = "editMessage"
)

// Server to client event names.
const (
	EventReceiveMessage    = "receiveMessage"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
	EventUserStatusChange  = "userStatusChange"
	EventMessageReadAck    = "messageRead"
	EventMessageDeleted    = "messageDeleted"
	EventMessageEdited     = "messageEdited"
	EventError             = "error"
)

// WsEvent is the wire envelope for every socket frame, both directions.
// Payload stays raw until the gateway knows which shape to decode.
type WsEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals payload into an outbound envelope. Marshal failures
// are programming errors (all payload types are plain structs), so the
// envelope is returned with an empty payload rather than an error.
func NewEvent(name string, payload any) WsEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		return WsEvent{Event: name}
	}
	return WsEvent{Event: name, Payload: raw}
}
