// Package protocol defines the wire messages exchanged over a signaling
// connection. The set of message types is closed: the dispatch switch in the
// signal adapter handles every constant declared here.
package protocol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/mvoronin/huddle/internal/domain"
)

type MessageType string

const (
	// client -> server
	TypeJoinRoom  MessageType = "join-room"
	TypeLeaveRoom MessageType = "leave-room"

	// server -> client
	TypeParticipantJoined MessageType = "participant-joined"
	TypeParticipantLeft   MessageType = "participant-left"
	TypeRoomState         MessageType = "room-state"
	TypeRoomTerminated    MessageType = "room-terminated"
	TypeError             MessageType = "error"

	// relayed between peers, opaque to the server past the envelope
	TypeOffer        MessageType = "webrtc-offer"
	TypeAnswer       MessageType = "webrtc-answer"
	TypeICECandidate MessageType = "webrtc-ice-candidate"
)

// SystemParticipantID marks server-originated messages that do not belong
// to any participant, such as room termination notices.
const SystemParticipantID domain.ParticipantID = "system"

var ErrNoType = errors.New("message has no type")

// Envelope is the mandatory part of every wire message.
type Envelope struct {
	Type          MessageType          `json:"type"`
	ParticipantID domain.ParticipantID `json:"participantId"`
	RoomHandle    domain.RoomHandle    `json:"roomHandle"`
	Timestamp     int64                `json:"timestamp"`
}

func newEnvelope(t MessageType, pid domain.ParticipantID, handle domain.RoomHandle) Envelope {
	return Envelope{
		Type:          t,
		ParticipantID: pid,
		RoomHandle:    handle,
		Timestamp:     time.Now().UnixMilli(),
	}
}

// DecodeEnvelope parses only the common fields of an inbound frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if env.Type == "" {
		return Envelope{}, ErrNoType
	}
	return env, nil
}

// JoinRoom asks the relay to register the sender in a room.
type JoinRoom struct {
	Envelope
	Name      string `json:"name,omitempty"`
	IsCreator bool   `json:"isCreator,omitempty"`
}

// Signal is the envelope-level view of a relayed negotiation message
// (offer, answer or ICE candidate). The payload stays opaque; the relay
// forwards the original frame verbatim.
type Signal struct {
	Envelope
	TargetParticipantID domain.ParticipantID `json:"targetParticipantId"`
	Offer               json.RawMessage      `json:"offer,omitempty"`
	Answer              json.RawMessage      `json:"answer,omitempty"`
	Candidate           json.RawMessage      `json:"candidate,omitempty"`
}

// ParticipantJoined notifies existing members about a new joiner.
type ParticipantJoined struct {
	Envelope
	Participant domain.Participant `json:"participant"`
}

func NewParticipantJoined(p *domain.Participant) ParticipantJoined {
	return ParticipantJoined{
		Envelope:    newEnvelope(TypeParticipantJoined, p.ID, p.RoomHandle),
		Participant: *p,
	}
}

// ParticipantLeft notifies remaining members about a departure. The departed
// participant is identified by the envelope's participantId.
type ParticipantLeft struct {
	Envelope
}

func NewParticipantLeft(pid domain.ParticipantID, handle domain.RoomHandle) ParticipantLeft {
	return ParticipantLeft{Envelope: newEnvelope(TypeParticipantLeft, pid, handle)}
}

// RoomState is the full membership snapshot sent to a joiner before anyone
// else hears about them.
type RoomState struct {
	Envelope
	Participants []domain.Participant `json:"participants"`
}

func NewRoomState(pid domain.ParticipantID, handle domain.RoomHandle, participants []domain.Participant) RoomState {
	return RoomState{
		Envelope:     newEnvelope(TypeRoomState, pid, handle),
		Participants: participants,
	}
}

// RoomTerminated is a hard session end; clients must not rejoin automatically.
type RoomTerminated struct {
	Envelope
	Reason domain.TerminateReason `json:"reason"`
}

func NewRoomTerminated(handle domain.RoomHandle, reason domain.TerminateReason) RoomTerminated {
	return RoomTerminated{
		Envelope: newEnvelope(TypeRoomTerminated, SystemParticipantID, handle),
		Reason:   reason,
	}
}

// ErrorMessage reports a failed operation to a single connection. The
// connection stays open.
type ErrorMessage struct {
	Envelope
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewError(pid domain.ParticipantID, handle domain.RoomHandle, msg, details string) ErrorMessage {
	if pid == "" {
		pid = "unknown"
	}
	if handle == "" {
		handle = "unknown"
	}
	return ErrorMessage{
		Envelope: newEnvelope(TypeError, pid, handle),
		Error:    msg,
		Details:  details,
	}
}
