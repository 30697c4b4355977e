// Package app drives the room lifecycle and message dispatch against the
// store and the connection sender. All services are constructed explicitly
// and passed down; there are no package-level singletons.
package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"lobby/internal/domain"
)

// Service wires the room store, the connection sender and the pluggable
// message handler into the operations the boundary exposes.
type Service[In, Out any] struct {
	Store   domain.RoomStore
	Sender  domain.MessageSender[Out]
	Handler domain.MessageHandler[In, Out]
}

func NewService[In, Out any](
	store domain.RoomStore,
	sender domain.MessageSender[Out],
	handler domain.MessageHandler[In, Out],
) *Service[In, Out] {
	return &Service[In, Out]{Store: store, Sender: sender, Handler: handler}
}

func (s *Service[In, Out]) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.Store.GetAll(ctx)
	if err != nil {
		return nil, StoreError{Err: err}
	}
	return rooms, nil
}

// OpenRoom creates a room owned by the caller. The owner is not joined
// automatically. Zero capacity is accepted and yields a room nobody can
// join.
func (s *Service[In, Out]) OpenRoom(ctx context.Context, name string, capacity int, owner domain.ParticipantID) (domain.Room, error) {
	room, err := s.Store.Save(ctx, domain.NewRoom(name, capacity, owner))
	if err != nil {
		return domain.Room{}, StoreError{Err: err}
	}
	log.Info().Str("module", "app.service").Str("room", string(room.ID)).Str("owner", string(owner)).Msg("room opened")
	return room, nil
}

// CloseRoom removes the room, owner only.
func (s *Service[In, Out]) CloseRoom(ctx context.Context, roomID domain.RoomID, requester domain.ParticipantID) error {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.Close(requester); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, roomID); err != nil {
		return StoreError{Err: err}
	}
	log.Info().Str("module", "app.service").Str("room", string(roomID)).Msg("room closed")
	return nil
}

func (s *Service[In, Out]) JoinRoom(ctx context.Context, roomID domain.RoomID, participant domain.ParticipantID) error {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.Join(participant); err != nil {
		return err
	}
	if _, err := s.Store.Save(ctx, room); err != nil {
		return StoreError{Err: err}
	}
	log.Info().Str("module", "app.service").Str("room", string(roomID)).Str("participant", string(participant)).Msg("participant joined")
	return nil
}

// LeaveRoom is a no-op for non-members. The mutated room must be saved:
// the store hands out snapshots, so an unsaved leave would be lost.
func (s *Service[In, Out]) LeaveRoom(ctx context.Context, roomID domain.RoomID, participant domain.ParticipantID) error {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	room.Leave(participant)
	if _, err := s.Store.Save(ctx, room); err != nil {
		return StoreError{Err: err}
	}
	log.Info().Str("module", "app.service").Str("room", string(roomID)).Str("participant", string(participant)).Msg("participant left")
	return nil
}

// HandleMessage runs one inbound message through the handler and performs
// the resulting deliveries sequentially. A disconnected recipient is evicted
// from the room and the rest of the batch continues; any other delivery
// failure aborts the batch. Nothing is retried.
func (s *Service[In, Out]) HandleMessage(ctx context.Context, roomID domain.RoomID, from domain.ParticipantID, msg In) error {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	deliveries, err := domain.Dispatch(ctx, room, s.Handler, from, msg)
	if err != nil {
		return err
	}
	for _, d := range deliveries {
		err := s.Sender.Send(ctx, d.To, d.Msg)
		if err == nil {
			continue
		}
		var disc domain.DisconnectedError
		if errors.As(err, &disc) {
			if leaveErr := s.LeaveRoom(ctx, roomID, disc.Participant); leaveErr != nil {
				return leaveErr
			}
			continue
		}
		return SenderError{Err: err}
	}
	return nil
}

func (s *Service[In, Out]) loadRoom(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	room, ok, err := s.Store.Get(ctx, roomID)
	if err != nil {
		return domain.Room{}, StoreError{Err: err}
	}
	if !ok {
		return domain.Room{}, RoomNotFoundError{RoomID: roomID}
	}
	return room, nil
}
