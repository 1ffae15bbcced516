// Package chat owns the in-memory room state: room identities and their
// ordered message histories. All state lives for the process lifetime; rooms
// are never deleted and nothing is persisted.
package chat

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrDuplicateRoom is returned when a room id is created twice. With v4 ids
// this is effectively unreachable, but a collision must not pass silently.
var ErrDuplicateRoom = errors.New("room already exists")

// Registry maps room ids to append-only message histories.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string][]Message
	limit int
}

// NewRegistry returns an empty registry. limit caps each room's history as a
// sliding window (oldest messages dropped first); 0 means unbounded.
func NewRegistry(limit int) *Registry {
	if limit < 0 {
		limit = 0
	}
	return &Registry{rooms: make(map[string][]Message), limit: limit}
}

// CreateRoom registers an empty history for id.
func (r *Registry) CreateRoom(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return ErrDuplicateRoom
	}
	r.rooms[id] = []Message{}
	return nil
}

// NewRoom generates a fresh room id and registers it before returning, so an
// immediate join cannot race room creation. The id is the room's only access
// control: anyone holding it has full read/write access.
func (r *Registry) NewRoom() (string, error) {
	id := uuid.NewString()
	if err := r.CreateRoom(id); err != nil {
		return "", err
	}
	return id, nil
}

// Append adds msg to the room's history, creating the room if the id is
// unknown. The upsert is deliberate: the id is the capability, so a send
// racing room creation must not lose messages.
func (r *Registry) Append(roomID string, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := append(r.rooms[roomID], msg)
	if r.limit > 0 && len(h) > r.limit {
		h = h[len(h)-r.limit:]
	}
	r.rooms[roomID] = h
}

// History returns a copy of the room's history in append order. Unknown ids
// yield an empty slice, not an error.
func (r *Registry) History(roomID string) []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h := r.rooms[roomID]
	out := make([]Message, len(h))
	copy(out, h)
	return out
}
