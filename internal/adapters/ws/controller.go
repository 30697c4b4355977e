package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"lobby/internal/app"
	"lobby/internal/core"
	"lobby/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller owns the per-connection lifecycle: upgrade, handle
// registration, the read pump, and teardown.
type Controller[In, Out any] struct {
	Service      *app.Service[In, Out]
	Sender       *core.Sender[Out]
	ReadLimit    int64
	WriteTimeout time.Duration
}

func NewController[In, Out any](
	service *app.Service[In, Out],
	sender *core.Sender[Out],
	readLimit int64,
	writeTimeout time.Duration,
) *Controller[In, Out] {
	return &Controller[In, Out]{
		Service:      service,
		Sender:       sender,
		ReadLimit:    readLimit,
		WriteTimeout: writeTimeout,
	}
}

// Handle upgrades the request and services the connection until the peer
// goes away. Membership in the room must already be established.
func (ctl *Controller[In, Out]) Handle(ctx context.Context, c *gin.Context, roomID domain.RoomID, participant domain.ParticipantID) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("participant", string(participant)).Msg("ws upgrade")
		return
	}
	conn.SetReadLimit(ctl.ReadLimit)

	handle := newWSConn(conn, ctl.WriteTimeout)
	if err := ctl.Sender.Register(ctx, participant, handle); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("participant", string(participant)).Msg("register handle")
		_ = handle.Close()
		return
	}
	log.Info().Str("module", "ws").Str("room", string(roomID)).Str("participant", string(participant)).Msg("connection established")

	go ctl.readPump(ctx, conn, roomID, participant)
}

// readPump feeds inbound frames into the dispatch service. A frame that
// fails to decode terminates the connection and unregisters the handle but
// leaves room membership alone; a closed or broken connection additionally
// removes the participant from the room.
func (ctl *Controller[In, Out]) readPump(ctx context.Context, conn *websocket.Conn, roomID domain.RoomID, participant domain.ParticipantID) {
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			ctl.teardown(roomID, participant, true)
			return
		default:
		}

		mt, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Str("module", "ws").Str("participant", string(participant)).Msg("participant disconnected")
			ctl.teardown(roomID, participant, true)
			return
		}
		if mt != websocket.TextMessage {
			log.Warn().Str("module", "ws").Str("participant", string(participant)).Msg("ignoring non-text frame")
			continue
		}

		var inbound In
		if err := json.Unmarshal(data, &inbound); err != nil {
			log.Error().Err(err).Str("module", "ws").Str("participant", string(participant)).Msg("bad inbound message")
			ctl.teardown(roomID, participant, false)
			return
		}

		if err := ctl.Service.HandleMessage(ctx, roomID, participant, inbound); err != nil {
			log.Error().Err(err).Str("module", "ws").Str("room", string(roomID)).Str("participant", string(participant)).Msg("handle message")
		}
	}
}

func (ctl *Controller[In, Out]) teardown(roomID domain.RoomID, participant domain.ParticipantID, leaveRoom bool) {
	// The connection is already gone; bound the cleanup instead of
	// inheriting a canceled context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ctl.Sender.Unregister(ctx, participant); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("participant", string(participant)).Msg("unregister handle")
	}
	if !leaveRoom {
		return
	}
	if err := ctl.Service.LeaveRoom(ctx, roomID, participant); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("room", string(roomID)).Str("participant", string(participant)).Msg("leave room")
	}
}
