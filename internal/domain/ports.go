package domain

import "context"

// RoomStore owns every Room value. Reads hand out snapshots; Save installs
// a whole new value under the room's id, last writer wins. Error returns
// exist for future persistent implementations; the in-memory store never
// fails.
type RoomStore interface {
	Get(ctx context.Context, id RoomID) (Room, bool, error)
	GetAll(ctx context.Context) ([]Room, error)
	Save(ctx context.Context, room Room) (Room, error)
	Delete(ctx context.Context, id RoomID) error
}

// MessageSender pushes one payload to one participant's live connection.
// Failure kinds: NoSuchParticipantError, SerializationError,
// DisconnectedError.
type MessageSender[Out any] interface {
	Send(ctx context.Context, to ParticipantID, msg Out) error
}
