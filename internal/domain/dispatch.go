package domain

import "context"

type decisionKind int

const (
	decisionVoid decisionKind = iota
	decisionUnicast
	decisionBroadcast
)

// Decision is the handler's verdict on one inbound message: deliver to one
// member, to every member, or to nobody. Construct via Unicast, Broadcast
// or Void; the zero value is Void.
type Decision[Out any] struct {
	kind decisionKind
	to   ParticipantID
	msg  Out
}

func Unicast[Out any](to ParticipantID, msg Out) Decision[Out] {
	return Decision[Out]{kind: decisionUnicast, to: to, msg: msg}
}

func Broadcast[Out any](msg Out) Decision[Out] {
	return Decision[Out]{kind: decisionBroadcast, msg: msg}
}

func Void[Out any]() Decision[Out] {
	return Decision[Out]{kind: decisionVoid}
}

// Delivery is one (recipient, payload) pair produced by Dispatch.
type Delivery[Out any] struct {
	To  ParticipantID
	Msg Out
}

// MessageHandler is the pluggable interpreter for inbound messages. The core
// never inspects payloads; it only acts on the Decision it gets back.
type MessageHandler[In, Out any] interface {
	Handle(ctx context.Context, room Room, from ParticipantID, msg In) (Decision[Out], error)
}

// HandlerFunc adapts a plain function to a MessageHandler.
type HandlerFunc[In, Out any] func(ctx context.Context, room Room, from ParticipantID, msg In) (Decision[Out], error)

func (f HandlerFunc[In, Out]) Handle(ctx context.Context, room Room, from ParticipantID, msg In) (Decision[Out], error) {
	return f(ctx, room, from, msg)
}

// Dispatch runs the handler for one inbound message and expands its decision
// into concrete deliveries against the room's membership as of right now.
// A broadcast goes to the full member list, sender included. Handler
// failures come back wrapped as HandlerError.
func Dispatch[In, Out any](
	ctx context.Context,
	room Room,
	handler MessageHandler[In, Out],
	from ParticipantID,
	msg In,
) ([]Delivery[Out], error) {
	if !room.IsParticipant(from) {
		return nil, NotParticipantError{RoomID: room.ID, Participant: from}
	}
	decision, err := handler.Handle(ctx, room, from, msg)
	if err != nil {
		return nil, HandlerError{Err: err}
	}
	switch decision.kind {
	case decisionUnicast:
		if !room.IsParticipant(decision.to) {
			return nil, NotParticipantError{RoomID: room.ID, Participant: decision.to}
		}
		return []Delivery[Out]{{To: decision.to, Msg: decision.msg}}, nil
	case decisionBroadcast:
		out := make([]Delivery[Out], 0, len(room.Participants))
		for _, to := range room.Participants {
			out = append(out, Delivery[Out]{To: to, Msg: decision.msg})
		}
		return out, nil
	default:
		return nil, nil
	}
}
