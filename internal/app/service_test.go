package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"lobby/internal/core"
	"lobby/internal/domain"
)

// echoHandler broadcasts every inbound message as-is.
var echoHandler = domain.HandlerFunc[string, string](
	func(_ context.Context, _ domain.Room, _ domain.ParticipantID, msg string) (domain.Decision[string], error) {
		return domain.Broadcast(msg), nil
	},
)

// recordingConn collects delivered payloads; fail simulates a gone peer.
type recordingConn struct {
	mu     sync.Mutex
	writes []string
	fail   error
}

func (c *recordingConn) WriteText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.writes = append(c.writes, string(data))
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

func newTestService(t *testing.T) (*Service[string, string], *core.Sender[string]) {
	t.Helper()
	sender := core.NewSender[string](10)
	t.Cleanup(sender.Close)
	return NewService[string, string](core.NewRoomStore(), sender, echoHandler), sender
}

func TestService_OpenRoomRoundTrip(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	owner := domain.NewParticipantID()

	room, err := service.OpenRoom(ctx, "x", 2, owner)
	req.NoError(err)

	got, ok, err := service.Store.Get(ctx, room.ID)
	req.NoError(err)
	req.True(ok)
	req.Equal("x", got.Name)
	req.Equal(2, got.Capacity)
	req.Equal(owner, got.OwnerID)
	req.Empty(got.Participants)
}

func TestService_ListRooms(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)

	rooms, err := service.ListRooms(ctx)
	req.NoError(err)
	req.Empty(rooms)

	_, err = service.OpenRoom(ctx, "a", 1, domain.NewParticipantID())
	req.NoError(err)
	_, err = service.OpenRoom(ctx, "b", 1, domain.NewParticipantID())
	req.NoError(err)

	rooms, err = service.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 2)
}

func TestService_CloseRoomOwnershipInvariant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	owner := domain.NewParticipantID()
	room, err := service.OpenRoom(ctx, "mine", 2, owner)
	req.NoError(err)

	// A non-owner cannot close; the room stays.
	err = service.CloseRoom(ctx, room.ID, domain.NewParticipantID())
	var notOwner domain.NotOwnerError
	req.ErrorAs(err, &notOwner)
	_, ok, err := service.Store.Get(ctx, room.ID)
	req.NoError(err)
	req.True(ok)

	// The owner closes; the room is gone.
	req.NoError(service.CloseRoom(ctx, room.ID, owner))
	_, ok, err = service.Store.Get(ctx, room.ID)
	req.NoError(err)
	req.False(ok)
}

func TestService_CloseRoomNotFound(t *testing.T) {
	req := require.New(t)
	service, _ := newTestService(t)

	err := service.CloseRoom(context.Background(), domain.NewRoomID(), domain.NewParticipantID())

	var notFound RoomNotFoundError
	req.ErrorAs(err, &notFound)
}

func TestService_JoinRoomPersistsMembership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	room, err := service.OpenRoom(ctx, "r", 2, domain.NewParticipantID())
	req.NoError(err)
	p := domain.NewParticipantID()

	req.NoError(service.JoinRoom(ctx, room.ID, p))

	got, _, err := service.Store.Get(ctx, room.ID)
	req.NoError(err)
	req.Equal([]domain.ParticipantID{p}, got.Participants)
}

func TestService_JoinRoomFullIsRejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	room, err := service.OpenRoom(ctx, "tiny", 1, domain.NewParticipantID())
	req.NoError(err)
	req.NoError(service.JoinRoom(ctx, room.ID, domain.NewParticipantID()))

	err = service.JoinRoom(ctx, room.ID, domain.NewParticipantID())

	var full domain.RoomFullError
	req.ErrorAs(err, &full)
}

func TestService_JoinRoomNotFound(t *testing.T) {
	req := require.New(t)
	service, _ := newTestService(t)

	err := service.JoinRoom(context.Background(), domain.NewRoomID(), domain.NewParticipantID())

	var notFound RoomNotFoundError
	req.ErrorAs(err, &notFound)
}

func TestService_LeaveRoomPersists(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	room, err := service.OpenRoom(ctx, "r", 2, domain.NewParticipantID())
	req.NoError(err)
	p := domain.NewParticipantID()
	req.NoError(service.JoinRoom(ctx, room.ID, p))

	req.NoError(service.LeaveRoom(ctx, room.ID, p))

	got, _, err := service.Store.Get(ctx, room.ID)
	req.NoError(err)
	req.Empty(got.Participants)
}

func TestService_HandleMessageBroadcasts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, sender := newTestService(t)
	room, err := service.OpenRoom(ctx, "r", 3, domain.NewParticipantID())
	req.NoError(err)

	a := domain.NewParticipantID()
	b := domain.NewParticipantID()
	connA := &recordingConn{}
	connB := &recordingConn{}
	req.NoError(service.JoinRoom(ctx, room.ID, a))
	req.NoError(service.JoinRoom(ctx, room.ID, b))
	req.NoError(sender.Register(ctx, a, connA))
	req.NoError(sender.Register(ctx, b, connB))

	req.NoError(service.HandleMessage(ctx, room.ID, a, "hello"))

	req.Equal([]string{`"hello"`}, connA.written())
	req.Equal([]string{`"hello"`}, connB.written())
}

func TestService_HandleMessageFromNonMember(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	room, err := service.OpenRoom(ctx, "r", 2, domain.NewParticipantID())
	req.NoError(err)

	err = service.HandleMessage(ctx, room.ID, domain.NewParticipantID(), "hello")

	var notParticipant domain.NotParticipantError
	req.ErrorAs(err, &notParticipant)
}

func TestService_HandleMessageRoomNotFound(t *testing.T) {
	req := require.New(t)
	service, _ := newTestService(t)

	err := service.HandleMessage(context.Background(), domain.NewRoomID(), domain.NewParticipantID(), "hello")

	var notFound RoomNotFoundError
	req.ErrorAs(err, &notFound)
}

func TestService_DisconnectSelfHealsMembership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, sender := newTestService(t)
	room, err := service.OpenRoom(ctx, "r", 3, domain.NewParticipantID())
	req.NoError(err)

	a := domain.NewParticipantID()
	b := domain.NewParticipantID()
	connA := &recordingConn{}
	connB := &recordingConn{fail: errors.New("broken pipe")}
	req.NoError(service.JoinRoom(ctx, room.ID, a))
	req.NoError(service.JoinRoom(ctx, room.ID, b))
	req.NoError(sender.Register(ctx, a, connA))
	req.NoError(sender.Register(ctx, b, connB))

	// Given a broadcast where B's peer is gone
	req.NoError(service.HandleMessage(ctx, room.ID, a, "first"))

	// Then B has been evicted from the room
	got, _, err := service.Store.Get(ctx, room.ID)
	req.NoError(err)
	req.Equal([]domain.ParticipantID{a}, got.Participants)

	// And a following broadcast reaches only A
	req.NoError(service.HandleMessage(ctx, room.ID, a, "second"))
	req.Equal([]string{`"first"`, `"second"`}, connA.written())
	req.Empty(connB.written())
}

func TestService_HandleMessageAbortsOnFatalDeliveryError(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, _ := newTestService(t)
	room, err := service.OpenRoom(ctx, "r", 2, domain.NewParticipantID())
	req.NoError(err)

	// A is a member but never registered a connection.
	a := domain.NewParticipantID()
	req.NoError(service.JoinRoom(ctx, room.ID, a))

	err = service.HandleMessage(ctx, room.ID, a, "hello")

	var senderErr SenderError
	req.ErrorAs(err, &senderErr)
	var noSuch domain.NoSuchParticipantError
	req.ErrorAs(err, &noSuch)
}
