package app

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/domain"
)

// Room is the live state of one meeting session. Membership is mutated only
// by the coordinator; CreatorID never changes while the room exists.
type Room struct {
	Handle       domain.RoomHandle
	Participants map[domain.ParticipantID]*domain.Participant
	CreatorID    domain.ParticipantID
	CreatedAt    time.Time
}

// ParticipantsSnapshot returns a stable-ordered copy of the membership,
// oldest joiner first.
func (r *Room) ParticipantsSnapshot() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

// RoomStore maps room handles to live rooms. Handles are unique; a room
// exists here iff it has at least one participant, except transiently
// inside a join.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomHandle]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomHandle]*Room)}
}

func (s *RoomStore) Get(handle domain.RoomHandle) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[handle]
	return room, ok
}

// GetOrCreate returns the room for a handle, creating an empty one with an
// unset creator when absent. Reports whether it created the room.
func (s *RoomStore) GetOrCreate(handle domain.RoomHandle, now time.Time) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[handle]; ok {
		return room, false
	}
	room := &Room{
		Handle:       handle,
		Participants: make(map[domain.ParticipantID]*domain.Participant),
		CreatedAt:    now,
	}
	s.rooms[handle] = room
	log.Info().Str("module", "app.store").Str("room", string(handle)).Msg("room created")
	return room, true
}

func (s *RoomStore) Delete(handle domain.RoomHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, handle)
	log.Info().Str("module", "app.store").Str("room", string(handle)).Msg("room deleted")
}

func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
