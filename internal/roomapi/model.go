// Package roomapi is the room-metadata service the surrounding application
// calls before a client connects to the relay: handle uniqueness, existence
// checks, creator bookkeeping. It is independent of the live relay state.
package roomapi

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// ValidationError rejects malformed create/lookup input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

type Room struct {
	ID           string    `json:"roomId"`
	Handle       string    `json:"roomHandle"`
	CreatedBy    string    `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	Participants []string  `json:"participants"`
}
