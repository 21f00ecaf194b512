package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvoronin/huddle/internal/config"
)

// handleICE serves the STUN/TURN configuration clients need to build their
// peer connections before negotiating through the relay.
func handleICE(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": cfg.ICEServers})
	}
}
