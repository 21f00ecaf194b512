package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/core"
	"github.com/mvoronin/huddle/internal/domain"
)

// binding associates a participant with its live transport handle.
// Alive is cleared by the liveness sweep and set again on pong.
type binding struct {
	Handle domain.RoomHandle
	Conn   core.SignalConnection
	Alive  bool
}

// Registry tracks participant -> connection bindings, 1:1.
// The coordinator is its only writer.
type Registry struct {
	mu       sync.RWMutex
	bindings map[domain.ParticipantID]*binding
}

func NewRegistry() *Registry {
	return &Registry{bindings: make(map[domain.ParticipantID]*binding)}
}

func (r *Registry) Bind(pid domain.ParticipantID, handle domain.RoomHandle, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[pid] = &binding{Handle: handle, Conn: conn, Alive: true}
	log.Info().Str("module", "app.registry").Str("participant", string(pid)).Str("room", string(handle)).Msg("bound connection")
}

func (r *Registry) Unbind(pid domain.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, pid)
	log.Info().Str("module", "app.registry").Str("participant", string(pid)).Msg("unbound connection")
}

// Conn returns the transport handle bound to a participant, if any.
func (r *Registry) Conn(pid domain.ParticipantID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[pid]
	if !ok {
		return nil, false
	}
	return b.Conn, true
}

// RoomOf returns the room handle a participant is bound to.
func (r *Registry) RoomOf(pid domain.ParticipantID) (domain.RoomHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[pid]
	if !ok {
		return "", false
	}
	return b.Handle, true
}

// FindByConn resolves the participant bound to a transport handle.
// Used when a connection drops before telling us who it was.
func (r *Registry) FindByConn(conn core.SignalConnection) (domain.ParticipantID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for pid, b := range r.bindings {
		if b.Conn == conn {
			return pid, true
		}
	}
	return "", false
}

// MarkAlive sets the liveness flag; reports whether the binding exists.
func (r *Registry) MarkAlive(pid domain.ParticipantID, alive bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[pid]
	if !ok {
		return false
	}
	b.Alive = alive
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// BindingSnap is a point-in-time copy of one binding for the sweep.
type BindingSnap struct {
	PID   domain.ParticipantID
	Conn  core.SignalConnection
	Alive bool
}

func (r *Registry) Snapshot() []BindingSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BindingSnap, 0, len(r.bindings))
	for pid, b := range r.bindings {
		out = append(out, BindingSnap{PID: pid, Conn: b.Conn, Alive: b.Alive})
	}
	return out
}
