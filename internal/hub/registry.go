package hub

import (
	"crypto/sha1"
	"encoding/binary"
	"sync"

	"github.com/Rishu1724/TextMeIfYouCan/internal/event"
)

const (
	shardCount = 64 // tune: 16/64/128 depending on load
)

// Subscriber is one live connection as the relay sees it. *Client is
// the production implementation; tests substitute fakes.
type Subscriber interface {
	ID() string
	UserID() string
	Deliver(ev event.WsEvent) bool
}

// RoomRegistry abstracts the connection/room membership table so a
// future multi-process deployment can swap in a shared broker without
// changing gateway logic.
type RoomRegistry interface {
	Register(sub Subscriber)
	Unregister(sub Subscriber)
	JoinRoom(sub Subscriber, roomID string)
	LeaveRoom(sub Subscriber, roomID string)
	RoomMembers(roomID string) []Subscriber
	Subscribers() []Subscriber
	Rooms() map[string][]string
	MemberRooms(connID string) []string
}

type roomBucket struct {
	sync.RWMutex
	rooms map[string]map[string]Subscriber
}

// Registry is the in-memory RoomRegistry: a sharded room table plus a
// connection index. State lives only as long as the process; clients
// re-join their rooms after a reconnect.
//
// Lock order: r.mu before any shard lock. Writers hold r.mu across the
// matching shard update so the membership index and the room table
// cannot diverge under concurrent join/unregister.
type Registry struct {
	shards [shardCount]*roomBucket

	mu          sync.RWMutex
	connections map[string]Subscriber
	memberships map[string]map[string]struct{} // connID -> joined room IDs
}

func NewRegistry() *Registry {
	r := &Registry{
		connections: make(map[string]Subscriber),
		memberships: make(map[string]map[string]struct{}),
	}
	for i := 0; i < shardCount; i++ {
		r.shards[i] = &roomBucket{
			rooms: make(map[string]map[string]Subscriber),
		}
	}
	return r
}

func getShard(roomID string) uint32 {
	if roomID == "" {
		return 0
	}
	h := sha1.Sum([]byte(roomID))
	return binary.BigEndian.Uint32(h[:4]) % shardCount
}

// Register adds a connection with no room memberships.
func (r *Registry) Register(sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[sub.ID()] = sub
	if _, ok := r.memberships[sub.ID()]; !ok {
		r.memberships[sub.ID()] = make(map[string]struct{})
	}
}

// Unregister removes a connection and transitively removes it from
// every room it had joined. Idempotent.
func (r *Registry) Unregister(sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	joined := r.memberships[sub.ID()]
	delete(r.connections, sub.ID())
	delete(r.memberships, sub.ID())

	for roomID := range joined {
		r.removeFromRoom(sub.ID(), roomID)
	}
}

// JoinRoom subscribes the connection to a room. Joining twice is a
// no-op.
func (r *Registry) JoinRoom(sub Subscriber, roomID string) {
	if roomID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	joined, ok := r.memberships[sub.ID()]
	if !ok {
		// unknown connection, nothing to join
		return
	}
	if _, already := joined[roomID]; already {
		return
	}
	joined[roomID] = struct{}{}

	// Shard insert stays under r.mu: a concurrent Unregister cannot
	// slip between the membership record and the table insert and
	// leave a ghost member behind.
	b := r.shards[getShard(roomID)]
	b.Lock()
	defer b.Unlock()
	room, ok := b.rooms[roomID]
	if !ok {
		room = make(map[string]Subscriber)
		b.rooms[roomID] = room
	}
	room[sub.ID()] = sub
}

// LeaveRoom unsubscribes the connection from a room. Leaving a room
// never joined is a no-op.
func (r *Registry) LeaveRoom(sub Subscriber, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	joined, ok := r.memberships[sub.ID()]
	if !ok {
		return
	}
	if _, member := joined[roomID]; !member {
		return
	}
	delete(joined, roomID)
	r.removeFromRoom(sub.ID(), roomID)
}

func (r *Registry) removeFromRoom(connID, roomID string) {
	b := r.shards[getShard(roomID)]
	b.Lock()
	defer b.Unlock()
	if room, ok := b.rooms[roomID]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(b.rooms, roomID)
		}
	}
}

// RoomMembers returns the current subscribers of a room.
func (r *Registry) RoomMembers(roomID string) []Subscriber {
	b := r.shards[getShard(roomID)]
	b.RLock()
	defer b.RUnlock()
	room, ok := b.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]Subscriber, 0, len(room))
	for _, sub := range room {
		members = append(members, sub)
	}
	return members
}

// Subscribers returns every registered connection.
func (r *Registry) Subscribers() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := make([]Subscriber, 0, len(r.connections))
	for _, sub := range r.connections {
		subs = append(subs, sub)
	}
	return subs
}

// Rooms returns a snapshot of room membership, roomID -> member
// connection IDs. Used by the monitor endpoint.
func (r *Registry) Rooms() map[string][]string {
	out := make(map[string][]string)
	for _, b := range r.shards {
		b.RLock()
		for roomID, room := range b.rooms {
			ids := make([]string, 0, len(room))
			for id := range room {
				ids = append(ids, id)
			}
			out[roomID] = ids
		}
		b.RUnlock()
	}
	return out
}

// MemberRooms returns the rooms a connection has joined.
func (r *Registry) MemberRooms(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	joined, ok := r.memberships[connID]
	if !ok {
		return nil
	}
	rooms := make([]string, 0, len(joined))
	for roomID := range joined {
		rooms = append(rooms, roomID)
	}
	return rooms
}
