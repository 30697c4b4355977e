// Package http exposes the room route surface over gin. It is a thin
// adapter; all policy lives in the app and domain layers.
package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lobby/internal/adapters/ws"
	"lobby/internal/app"
	"lobby/internal/config"
)

// SetupRouter wires the room routes. ctx bounds the lifetime of every
// websocket connection accepted through this router.
func SetupRouter[In, Out any](
	ctx context.Context,
	cfg *config.Config,
	service *app.Service[In, Out],
	wsCtl *ws.Controller[In, Out],
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("LobbySession", store))
	r.Use(ParticipantMiddleware())

	ctl := &Controller[In, Out]{Service: service, WS: wsCtl}

	api := r.Group("/api")
	api.GET("/rooms", ctl.listRooms)
	api.POST("/rooms", ctl.createRoom)
	api.DELETE("/rooms/:id", ctl.closeRoom)
	api.GET("/rooms/:id/ws", func(c *gin.Context) {
		ctl.handleJoin(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
