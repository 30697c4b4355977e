package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"lobby/internal/domain"
)

// DefaultQueueSize bounds pending sender commands. Producers block once the
// queue is full, which throttles bursty senders.
const DefaultQueueSize = 100

// ErrSenderClosed reports an operation against a sender whose loop has
// already stopped.
var ErrSenderClosed = errors.New("sender closed")

// Conn is the write half of one participant's connection. Once registered
// it belongs to the sender loop exclusively; nothing else may write to it.
type Conn interface {
	WriteText(data []byte) error
	Close() error
}

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opSend
)

type command[Out any] struct {
	op          opKind
	participant domain.ParticipantID
	conn        Conn
	msg         Out
	reply       chan error
}

// Sender is the proxy half of the connection registry actor. One goroutine
// owns the participant→Conn table and services commands strictly one at a
// time, so writes to a handle never race with each other or with that
// handle's removal. The table itself is never behind a lock; confinement
// replaces locking so a slow network write cannot stall unrelated callers
// holding nothing.
type Sender[Out any] struct {
	commands chan command[Out]
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewSender starts the owning loop and returns its proxy.
func NewSender[Out any](queueSize int) *Sender[Out] {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	s := &Sender[Out]{
		commands: make(chan command[Out], queueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sender[Out]) run() {
	defer close(s.done)
	conns := make(map[domain.ParticipantID]Conn)
	for {
		select {
		case <-s.quit:
			log.Info().Str("module", "core.sender").Int("conns", len(conns)).Msg("sender loop stopped")
			return
		case cmd := <-s.commands:
			switch cmd.op {
			case opRegister:
				if old, ok := conns[cmd.participant]; ok {
					// Close the superseded handle so it does not leak.
					_ = old.Close()
					log.Info().Str("module", "core.sender").Str("participant", string(cmd.participant)).Msg("replaced connection handle")
				}
				conns[cmd.participant] = cmd.conn
				cmd.reply <- nil
			case opUnregister:
				delete(conns, cmd.participant)
				cmd.reply <- nil
			case opSend:
				cmd.reply <- deliver(conns, cmd.participant, cmd.msg)
			}
		}
	}
}

func deliver[Out any](conns map[domain.ParticipantID]Conn, to domain.ParticipantID, msg Out) error {
	conn, ok := conns[to]
	if !ok {
		return domain.NoSuchParticipantError{Participant: to}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return domain.SerializationError{Err: err}
	}
	if err := conn.WriteText(data); err != nil {
		delete(conns, to)
		log.Info().Str("module", "core.sender").Str("participant", string(to)).Msg("participant disconnected")
		return domain.DisconnectedError{Participant: to, Err: err}
	}
	return nil
}

// Register installs conn as the participant's live handle, closing and
// replacing any previous one.
func (s *Sender[Out]) Register(ctx context.Context, participant domain.ParticipantID, conn Conn) error {
	return s.roundTrip(ctx, command[Out]{op: opRegister, participant: participant, conn: conn})
}

// Unregister drops the participant's handle if present.
func (s *Sender[Out]) Unregister(ctx context.Context, participant domain.ParticipantID) error {
	return s.roundTrip(ctx, command[Out]{op: opUnregister, participant: participant})
}

// Send serializes msg and writes it to the participant's handle. See
// domain delivery errors for the failure kinds.
func (s *Sender[Out]) Send(ctx context.Context, to domain.ParticipantID, msg Out) error {
	return s.roundTrip(ctx, command[Out]{op: opSend, participant: to, msg: msg})
}

func (s *Sender[Out]) roundTrip(ctx context.Context, cmd command[Out]) error {
	cmd.reply = make(chan error, 1)
	select {
	case s.commands <- cmd:
	case <-s.quit:
		return ErrSenderClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		return ErrSenderClosed
	case <-ctx.Done():
		// The reply channel is buffered; the owed reply is dropped.
		return ctx.Err()
	}
}

// Close stops the loop and waits for it to exit. Queued commands that were
// not yet picked up are discarded.
func (s *Sender[Out]) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}
