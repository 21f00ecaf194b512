package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/core"
	"github.com/mvoronin/huddle/internal/domain"
)

// Router delivers messages to connections. It only reads the registry and
// the store; delivery is best-effort, no retry, no queueing beyond the
// per-connection send buffer.
type Router struct {
	Registry *Registry
	Store    *RoomStore
}

func NewRouter(reg *Registry, store *RoomStore) *Router {
	return &Router{Registry: reg, Store: store}
}

// Forward relays a negotiation frame verbatim to the target participant.
// An unknown or closed target is dropped silently except for a log line.
func (rt *Router) Forward(from, target domain.ParticipantID, frame core.Frame) {
	conn, ok := rt.Registry.Conn(target)
	if !ok || !conn.IsOpen() {
		log.Warn().Str("module", "app.router").Str("from", string(from)).Str("target", string(target)).Msg("forward target not found or disconnected")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("from", string(from)).Str("target", string(target)).Msg("forward send failed")
	}
}

// BroadcastToRoom delivers a message to every live bound connection of the
// room's participants, except exclude. No-op for unknown rooms.
func (rt *Router) BroadcastToRoom(handle domain.RoomHandle, v any, exclude domain.ParticipantID) {
	room, ok := rt.Store.Get(handle)
	if !ok {
		return
	}
	frame, err := marshalFrame(v)
	if err != nil {
		return
	}
	sent := 0
	for pid := range room.Participants {
		if pid == exclude {
			continue
		}
		if rt.sendFrame(pid, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "app.router").Str("room", string(handle)).Int("sent_to", sent).Msg("broadcast")
}

// SendTo delivers a message to one participant's connection.
func (rt *Router) SendTo(pid domain.ParticipantID, v any) {
	frame, err := marshalFrame(v)
	if err != nil {
		return
	}
	rt.sendFrame(pid, frame)
}

// SendToConn delivers a message to a connection that may not be bound yet.
func (rt *Router) SendToConn(conn core.SignalConnection, v any) {
	frame, err := marshalFrame(v)
	if err != nil {
		return
	}
	if !conn.IsOpen() {
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Msg("send failed")
	}
}

func (rt *Router) sendFrame(pid domain.ParticipantID, frame core.Frame) bool {
	conn, ok := rt.Registry.Conn(pid)
	if !ok || !conn.IsOpen() {
		return false
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("participant", string(pid)).Msg("send failed")
		return false
	}
	return true
}

func marshalFrame(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("marshal frame")
		return nil, err
	}
	return core.Frame(b), nil
}
