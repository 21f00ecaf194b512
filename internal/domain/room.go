package domain

import "errors"

const MaxRoomHandleLen = 50

var (
	ErrRoomHandleEmpty   = errors.New("room handle empty")
	ErrRoomHandleTooLong = errors.New("room handle too long")
)

// RoomHandle is the caller-chosen unique string identifying a meeting session.
type RoomHandle string

// TerminateReason explains to members why their room ended.
type TerminateReason string

const (
	ReasonCreatorLeft TerminateReason = "creator-left"
	ReasonRoomClosed  TerminateReason = "room-closed"
)
