package roomapi

import (
	"fmt"
	"sync"
)

// Repository is an in-memory room-metadata store with a handle index for
// uniqueness checks and lookups.
type Repository struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	handles map[string]string // handle -> room id
}

func NewRepository() *Repository {
	return &Repository{
		rooms:   make(map[string]*Room),
		handles: make(map[string]string),
	}
}

func (r *Repository) Create(room *Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handles[room.Handle]; ok {
		return fmt.Errorf("%w: handle %q", ErrRoomExists, room.Handle)
	}
	if _, ok := r.rooms[room.ID]; ok {
		return fmt.Errorf("%w: id %q", ErrRoomExists, room.ID)
	}
	cp := *room
	cp.Participants = append([]string(nil), room.Participants...)
	r.rooms[room.ID] = &cp
	r.handles[room.Handle] = room.ID
	return nil
}

func (r *Repository) FindByID(id string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, false
	}
	return copyRoom(room), true
}

func (r *Repository) FindByHandle(handle string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.handles[handle]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[id]
	if !ok {
		return nil, false
	}
	return copyRoom(room), true
}

func (r *Repository) HandleExists(handle string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[handle]
	return ok
}

func (r *Repository) AddParticipant(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrRoomNotFound, id)
	}
	for _, p := range room.Participants {
		if p == userID {
			return nil
		}
	}
	room.Participants = append(room.Participants, userID)
	return nil
}

func (r *Repository) RemoveParticipant(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrRoomNotFound, id)
	}
	for i, p := range room.Participants {
		if p == userID {
			room.Participants = append(room.Participants[:i], room.Participants[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) All() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, copyRoom(room))
	}
	return out
}

func copyRoom(room *Room) *Room {
	cp := *room
	cp.Participants = append([]string(nil), room.Participants...)
	return &cp
}
