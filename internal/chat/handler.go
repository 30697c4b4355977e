// Package chat is a reference message handler: private messages, public
// messages and a participant listing. The core is generic over it and any
// application can swap in its own handler.
package chat

import (
	"context"
	"fmt"

	"lobby/internal/domain"
)

const (
	TypeSendPrivate      = "send_private_message"
	TypeSendPublic       = "send_public_message"
	TypeListParticipants = "list_participants"

	TypePrivate      = "private_message"
	TypePublic       = "public_message"
	TypeParticipants = "list_of_participants"
)

type Inbound struct {
	Type    string               `json:"type"`
	To      domain.ParticipantID `json:"to,omitempty"`
	Content string               `json:"content,omitempty"`
}

type Outbound struct {
	Type         string                 `json:"type"`
	From         domain.ParticipantID   `json:"from,omitempty"`
	Content      string                 `json:"content,omitempty"`
	Participants []domain.ParticipantID `json:"participants,omitempty"`
}

// Handler routes chat messages. Private messages go to their target, public
// ones to the whole room, and a listing request is answered back to the
// asking participant.
type Handler struct{}

func (Handler) Handle(_ context.Context, room domain.Room, from domain.ParticipantID, msg Inbound) (domain.Decision[Outbound], error) {
	switch msg.Type {
	case TypeSendPrivate:
		return domain.Unicast(msg.To, Outbound{Type: TypePrivate, From: from, Content: msg.Content}), nil
	case TypeSendPublic:
		return domain.Broadcast(Outbound{Type: TypePublic, From: from, Content: msg.Content}), nil
	case TypeListParticipants:
		return domain.Unicast(from, Outbound{Type: TypeParticipants, Participants: room.Participants}), nil
	default:
		return domain.Void[Outbound](), fmt.Errorf("unknown chat message type: %q", msg.Type)
	}
}
