package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvoronin/huddle/internal/app"
	"github.com/mvoronin/huddle/internal/domain"
	"github.com/mvoronin/huddle/internal/roomapi"
)

type createRoomRequest struct {
	UserID     string `json:"userId" binding:"required"`
	RoomHandle string `json:"roomHandle" binding:"required,max=50"`
}

func createRoomHandler(rooms *roomapi.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId and roomHandle are required"})
			return
		}

		room, err := rooms.CreateRoom(req.UserID, req.RoomHandle)
		if err != nil {
			writeRoomError(c, err)
			return
		}
		c.JSON(http.StatusCreated, room)
	}
}

func getRoomHandler(rooms *roomapi.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := rooms.FindRoom(c.Query("roomId"), c.Query("roomHandle"))
		if err != nil {
			writeRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

// closeRoomHandler force-terminates a live relay room; members get a
// room-terminated notice with reason "room-closed".
func closeRoomHandler(coord *app.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		handle := domain.RoomHandle(c.Param("handle"))
		if !coord.CloseRoom(handle) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active room for handle"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"closed": true})
	}
}

func writeRoomError(c *gin.Context, err error) {
	var verr *roomapi.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
	case errors.Is(err, roomapi.ErrRoomExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, roomapi.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
