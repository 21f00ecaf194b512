package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mvoronin/huddle/internal/adapters/signal"
	"github.com/mvoronin/huddle/internal/app"
	"github.com/mvoronin/huddle/internal/config"
	"github.com/mvoronin/huddle/internal/roomapi"
)

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, rooms *roomapi.Service) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	ctl := signal.NewController(cfg, coord)

	api := r.Group("/api")
	api.GET("/ice", handleICE(cfg))
	api.POST("/room", createRoomHandler(rooms))
	api.GET("/room", getRoomHandler(rooms))
	api.DELETE("/room/:handle", closeRoomHandler(coord))

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("remote", c.ClientIP()).Msg("ws endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}
