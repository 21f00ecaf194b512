package app

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/core"
	"github.com/mvoronin/huddle/internal/domain"
	"github.com/mvoronin/huddle/internal/protocol"
)

var ErrNotJoined = errors.New("sender is not a joined participant")

// Coordinator owns all mutations of the room store and the connection
// registry. Every public operation runs under one exclusive section, so no
// two joins, leaves or forwards interleave partially; suspension happens
// only at the send boundary, which never blocks.
type Coordinator struct {
	mu       sync.Mutex
	Registry *Registry
	Store    *RoomStore
	Router   *Router

	now func() time.Time
}

func NewCoordinator(reg *Registry, store *RoomStore, router *Router) *Coordinator {
	return &Coordinator{
		Registry: reg,
		Store:    store,
		Router:   router,
		now:      time.Now,
	}
}

// Join registers a participant in a room, creating the room on first join.
// The joiner gets a full room-state snapshot before anyone else is told
// about them. Validation failures leave no state behind.
func (c *Coordinator) Join(conn core.SignalConnection, pid domain.ParticipantID, handle domain.RoomHandle, name string, isCreator bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	if _, err := domain.NewParticipant(pid, name, handle, c.now()); err != nil {
		return err
	}

	// A participant re-joining under the same id first leaves its previous
	// room, so no room keeps a stale member. Re-joining the same room only
	// replaces the binding.
	if prev, ok := c.Registry.RoomOf(pid); ok && prev != handle {
		c.leaveLocked(pid)
	}

	room, created := c.Store.GetOrCreate(handle, c.now())
	if created && isCreator {
		room.CreatorID = pid
	}
	// First joiner becomes creator so an occupied room is never ownerless.
	if room.CreatorID == "" && len(room.Participants) == 0 {
		room.CreatorID = pid
	}

	if name == "" {
		name = nextGuestName(room)
	}

	p, err := domain.NewParticipant(pid, name, handle, c.now())
	if err != nil {
		return err
	}

	room.Participants[pid] = p
	c.Registry.Bind(pid, handle, conn)

	log.Info().Str("module", "app.coordinator").
		Str("participant", string(pid)).
		Str("name", name).
		Str("room", string(handle)).
		Bool("creator", room.CreatorID == pid).
		Msg("participant joined")

	c.Router.SendToConn(conn, protocol.NewRoomState(pid, handle, room.ParticipantsSnapshot()))
	c.Router.BroadcastToRoom(handle, protocol.NewParticipantJoined(p), pid)
	return nil
}

// Leave removes a participant from its room. Idempotent: unknown or unbound
// participants are a no-op. A departing creator terminates the room for
// everyone instead of leaving normally.
func (c *Coordinator) Leave(pid domain.ParticipantID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveLocked(pid)
}

func (c *Coordinator) leaveLocked(pid domain.ParticipantID) {
	handle, ok := c.Registry.RoomOf(pid)
	if !ok {
		return
	}
	room, ok := c.Store.Get(handle)
	if !ok {
		c.Registry.Unbind(pid)
		return
	}

	if room.CreatorID == pid {
		log.Info().Str("module", "app.coordinator").Str("participant", string(pid)).Str("room", string(handle)).Msg("creator left, terminating room")
		c.terminateLocked(room, domain.ReasonCreatorLeft)
		return
	}

	delete(room.Participants, pid)
	c.Registry.Unbind(pid)
	log.Info().Str("module", "app.coordinator").Str("participant", string(pid)).Str("room", string(handle)).Msg("participant left")

	c.Router.BroadcastToRoom(handle, protocol.NewParticipantLeft(pid, handle), "")

	if len(room.Participants) == 0 {
		c.Store.Delete(handle)
	}
}

// CloseRoom terminates a room for all members regardless of who asks.
// Reports whether the room existed.
func (c *Coordinator) CloseRoom(handle domain.RoomHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.Store.Get(handle)
	if !ok {
		return false
	}
	c.terminateLocked(room, domain.ReasonRoomClosed)
	return true
}

// terminateLocked notifies every current member, unbinds them all and
// deletes the room. This is the only path that removes a room while it
// still has participants: owner leaves means the meeting ends for all.
func (c *Coordinator) terminateLocked(room *Room, reason domain.TerminateReason) {
	c.Router.BroadcastToRoom(room.Handle, protocol.NewRoomTerminated(room.Handle, reason), "")
	for pid := range room.Participants {
		c.Registry.Unbind(pid)
	}
	c.Store.Delete(room.Handle)
	log.Info().Str("module", "app.coordinator").Str("room", string(room.Handle)).Str("reason", string(reason)).Msg("room terminated")
}

// HandleDisconnection resolves the participant bound to a dropped transport
// handle, if any, and processes it as a leave.
func (c *Coordinator) HandleDisconnection(conn core.SignalConnection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pid, ok := c.Registry.FindByConn(conn)
	if !ok {
		return
	}
	log.Info().Str("module", "app.coordinator").Str("participant", string(pid)).Msg("connection dropped")
	c.leaveLocked(pid)
}

// Forward relays a negotiation frame to the target participant. The sender
// must be a currently joined participant; the payload is opaque here and is
// delivered verbatim.
func (c *Coordinator) Forward(from, target domain.ParticipantID, frame core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.Registry.RoomOf(from); !ok {
		return ErrNotJoined
	}
	c.Router.Forward(from, target, frame)
	return nil
}

const guestNamePrefix = "Guest "

// nextGuestName picks the lowest unused positive integer among existing
// "Guest N" names, filling gaps left by departed guests before extending
// the sequence.
func nextGuestName(room *Room) string {
	nums := make([]int, 0, len(room.Participants))
	for _, p := range room.Participants {
		rest, ok := strings.CutPrefix(p.Name, guestNamePrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)

	next := 1
	for _, n := range nums {
		if n == next {
			next++
		} else {
			break
		}
	}
	return fmt.Sprintf("%s%d", guestNamePrefix, next)
}
