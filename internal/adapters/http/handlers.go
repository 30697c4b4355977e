package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lobby/internal/adapters/ws"
	"lobby/internal/app"
	"lobby/internal/domain"
)

// CreateRoomRequest is validated by gin's binding layer; a missing name or
// negative capacity is rejected before the service sees it. Zero capacity
// is allowed and produces a room nobody can join.
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"gte=0"`
}

// Controller serves the room route surface.
type Controller[In, Out any] struct {
	Service *app.Service[In, Out]
	WS      *ws.Controller[In, Out]
}

func (ctl *Controller[In, Out]) listRooms(c *gin.Context) {
	rooms, err := ctl.Service.ListRooms(c.Request.Context())
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (ctl *Controller[In, Out]) createRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid room fields"})
		return
	}
	room, err := ctl.Service.OpenRoom(c.Request.Context(), req.Name, req.Capacity, participantFrom(c))
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, room)
}

func (ctl *Controller[In, Out]) closeRoom(c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := ctl.Service.CloseRoom(c.Request.Context(), roomID, participantFrom(c)); err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.Status(http.StatusOK)
}

// handleJoin joins the participant, then hands the connection over to the
// websocket controller. ctx is the server lifetime context, not the request
// context: the upgraded connection outlives the HTTP handler.
func (ctl *Controller[In, Out]) handleJoin(ctx context.Context, c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	participant := participantFrom(c)
	if err := ctl.Service.JoinRoom(ctx, roomID, participant); err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	log.Info().Str("module", "adapters.http").Str("room", string(roomID)).Str("participant", string(participant)).Msg("participant joined, upgrading")
	ctl.WS.Handle(ctx, c, roomID, participant)
}
