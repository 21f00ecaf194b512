package roomapi

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/domain"
)

var handleRx = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateRoom registers metadata for a new room handle. The creating user is
// its first listed participant.
func (s *Service) CreateRoom(userID, handle string) (*Room, error) {
	userID = strings.TrimSpace(userID)
	handle = strings.TrimSpace(handle)
	if err := validateCreate(userID, handle); err != nil {
		return nil, err
	}

	room := &Room{
		ID:           "room_" + uuid.NewString(),
		Handle:       handle,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
		Participants: []string{userID},
	}
	if err := s.repo.Create(room); err != nil {
		return nil, err
	}
	log.Info().Str("module", "roomapi").Str("room_id", room.ID).Str("handle", handle).Str("user", userID).Msg("room metadata created")
	return room, nil
}

func (s *Service) RoomByID(id string) (*Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationf("room id is required")
	}
	room, ok := s.repo.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %q", ErrRoomNotFound, id)
	}
	return room, nil
}

func (s *Service) RoomByHandle(handle string) (*Room, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, validationf("room handle is required")
	}
	room, ok := s.repo.FindByHandle(handle)
	if !ok {
		return nil, fmt.Errorf("%w: handle %q", ErrRoomNotFound, handle)
	}
	return room, nil
}

// FindRoom looks a room up by id or, failing that, by handle.
func (s *Service) FindRoom(id, handle string) (*Room, error) {
	if strings.TrimSpace(id) != "" {
		return s.RoomByID(id)
	}
	if strings.TrimSpace(handle) != "" {
		return s.RoomByHandle(handle)
	}
	return nil, validationf("either roomId or roomHandle must be provided")
}

func (s *Service) HandleExists(handle string) bool {
	return s.repo.HandleExists(strings.TrimSpace(handle))
}

func validateCreate(userID, handle string) error {
	if userID == "" {
		return validationf("user id is required")
	}
	if handle == "" {
		return validationf("room handle is required")
	}
	if len(handle) > domain.MaxRoomHandleLen {
		return validationf("room handle must be %d characters or less", domain.MaxRoomHandleLen)
	}
	if !handleRx.MatchString(handle) {
		return validationf("room handle can only contain letters, numbers, hyphens, and underscores")
	}
	return nil
}
