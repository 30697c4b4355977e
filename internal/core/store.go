// Package core carries the concurrency-bearing pieces: the shared room
// store and the actor that owns every live connection handle.
package core

import (
	"context"
	"sync"

	"lobby/internal/domain"
)

// RoomStore is a threadsafe in-memory map of rooms. Rooms go in and come
// out as snapshots, so no caller ever holds a reference into the map.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]domain.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomID]domain.Room)}
}

func (s *RoomStore) Get(_ context.Context, id domain.RoomID) (domain.Room, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false, nil
	}
	return room.Clone(), true, nil
}

func (s *RoomStore) GetAll(_ context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room.Clone())
	}
	return out, nil
}

// Save upserts by id. Concurrent saves of the same room race; exactly one
// wins and later reads observe it.
func (s *RoomStore) Save(_ context.Context, room domain.Room) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room.Clone()
	return room, nil
}

func (s *RoomStore) Delete(_ context.Context, id domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}
