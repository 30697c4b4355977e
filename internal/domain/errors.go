package domain

import "fmt"

// RoomFullError rejects a join against a room at capacity.
type RoomFullError struct {
	RoomID RoomID
}

func (e RoomFullError) Error() string {
	return fmt.Sprintf("room is full: %s", e.RoomID)
}

// NotOwnerError rejects a close by anyone but the room owner.
type NotOwnerError struct {
	RoomID      RoomID
	Participant ParticipantID
}

func (e NotOwnerError) Error() string {
	return fmt.Sprintf("room %s is not owned by %s", e.RoomID, e.Participant)
}

// NotParticipantError rejects dispatch from, or unicast to, someone who is
// not a current member of the room.
type NotParticipantError struct {
	RoomID      RoomID
	Participant ParticipantID
}

func (e NotParticipantError) Error() string {
	return fmt.Sprintf("%s is not a participant of room %s", e.Participant, e.RoomID)
}

// HandlerError wraps a failure raised by the pluggable message handler.
type HandlerError struct {
	Err error
}

func (e HandlerError) Error() string {
	return fmt.Sprintf("message handler error: %v", e.Err)
}

func (e HandlerError) Unwrap() error { return e.Err }

// NoSuchParticipantError reports a send to a participant with no registered
// connection.
type NoSuchParticipantError struct {
	Participant ParticipantID
}

func (e NoSuchParticipantError) Error() string {
	return fmt.Sprintf("no connection registered for participant %s", e.Participant)
}

// SerializationError reports a payload that could not be turned into its
// wire form. The participant's connection mapping is untouched.
type SerializationError struct {
	Err error
}

func (e SerializationError) Error() string {
	return fmt.Sprintf("serialize outbound message: %v", e.Err)
}

func (e SerializationError) Unwrap() error { return e.Err }

// DisconnectedError reports a write that failed because the peer is gone.
// The connection mapping has already been dropped by the time the caller
// sees this; the orchestrator reinterprets it as a membership eviction.
type DisconnectedError struct {
	Participant ParticipantID
	Err         error
}

func (e DisconnectedError) Error() string {
	return fmt.Sprintf("participant disconnected: %s: %v", e.Participant, e.Err)
}

func (e DisconnectedError) Unwrap() error { return e.Err }
