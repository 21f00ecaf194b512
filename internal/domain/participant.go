// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"time"
)

const (
	MaxParticipantIDLen = 64
	MaxDisplayNameLen   = 64
)

var (
	ErrParticipantIDEmpty   = errors.New("participant id empty")
	ErrParticipantIDTooLong = errors.New("participant id too long")
	ErrDisplayNameTooLong   = errors.New("display name too long")
)

type ParticipantID string

// Participant is one connected user within a room. Created on join,
// destroyed on leave, disconnect or room termination.
type Participant struct {
	ID         ParticipantID `json:"id"`
	Name       string        `json:"name"`
	RoomHandle RoomHandle    `json:"roomHandle"`
	JoinedAt   time.Time     `json:"joinedAt"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(id ParticipantID, name string, handle RoomHandle, at time.Time) (*Participant, error) {
	if id == "" {
		return nil, ErrParticipantIDEmpty
	}
	if len(id) > MaxParticipantIDLen {
		return nil, ErrParticipantIDTooLong
	}
	if handle == "" {
		return nil, ErrRoomHandleEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrDisplayNameTooLong
	}
	return &Participant{
		ID:         id,
		Name:       name,
		RoomHandle: handle,
		JoinedAt:   at,
	}, nil
}
