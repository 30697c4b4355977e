// Package domain holds the room aggregate and the contracts the rest of
// the system plugs into. No transport or storage logic lives here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type (
	// ParticipantID identifies one connected client. Opaque, value equality only.
	ParticipantID string
	// RoomID identifies a room, same shape as ParticipantID.
	RoomID string
)

func NewParticipantID() ParticipantID { return ParticipantID(uuid.NewString()) }

func NewRoomID() RoomID { return RoomID(uuid.NewString()) }

// ParseParticipantID validates that raw is a well-formed participant id.
func ParseParticipantID(raw string) (ParticipantID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", err
	}
	return ParticipantID(id.String()), nil
}

// ParseRoomID validates that raw is a well-formed room id.
func ParseRoomID(raw string) (RoomID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", err
	}
	return RoomID(id.String()), nil
}

// Room is a bounded-capacity group with an owner and a mutable member list.
// Participants keeps join order. OwnerID never changes after creation and the
// owner is not a participant unless they join like everyone else.
type Room struct {
	ID           RoomID          `json:"id"`
	Name         string          `json:"name"`
	Participants []ParticipantID `json:"participants"`
	Capacity     int             `json:"capacity"`
	CreatedAt    time.Time       `json:"created_at"`
	OwnerID      ParticipantID   `json:"owner_id"`
}

func NewRoom(name string, capacity int, owner ParticipantID) Room {
	return Room{
		ID:           NewRoomID(),
		Name:         name,
		Participants: make([]ParticipantID, 0, capacity),
		Capacity:     capacity,
		CreatedAt:    time.Now().UTC(),
		OwnerID:      owner,
	}
}

// Join appends the participant. A participant joining twice without leaving
// is recorded twice and counts twice against capacity; callers that care
// must check IsParticipant first.
func (r *Room) Join(participant ParticipantID) error {
	if r.IsFull() {
		return RoomFullError{RoomID: r.ID}
	}
	r.Participants = append(r.Participants, participant)
	return nil
}

// Leave removes every occurrence of the participant. Absent participants
// are a no-op.
func (r *Room) Leave(participant ParticipantID) {
	kept := r.Participants[:0]
	for _, p := range r.Participants {
		if p != participant {
			kept = append(kept, p)
		}
	}
	r.Participants = kept
}

// Close checks that the requester may destroy this room. Removal itself is
// the store's job.
func (r *Room) Close(requester ParticipantID) error {
	if r.OwnerID != requester {
		return NotOwnerError{RoomID: r.ID, Participant: requester}
	}
	return nil
}

func (r *Room) IsFull() bool {
	return len(r.Participants) >= r.Capacity
}

func (r *Room) IsParticipant(participant ParticipantID) bool {
	for _, p := range r.Participants {
		if p == participant {
			return true
		}
	}
	return false
}

// Clone returns a value snapshot with its own participant slice, so a
// stored room and a handed-out room never alias.
func (r Room) Clone() Room {
	out := r
	out.Participants = make([]ParticipantID, len(r.Participants))
	copy(out.Participants, r.Participants)
	return out
}
