package app

import (
	"fmt"

	"lobby/internal/domain"
)

// RoomNotFoundError reports an operation against an id with no stored room.
type RoomNotFoundError struct {
	RoomID domain.RoomID
}

func (e RoomNotFoundError) Error() string {
	return fmt.Sprintf("room not found: %s", e.RoomID)
}

// StoreError wraps a room store failure. The in-memory store never produces
// one; the kind exists so a persistent store can.
type StoreError struct {
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("room store error: %v", e.Err)
}

func (e StoreError) Unwrap() error { return e.Err }

// SenderError wraps a delivery failure that is fatal for the message being
// handled (anything other than a disconnected peer).
type SenderError struct {
	Err error
}

func (e SenderError) Error() string {
	return fmt.Sprintf("message sender error: %v", e.Err)
}

func (e SenderError) Unwrap() error { return e.Err }
