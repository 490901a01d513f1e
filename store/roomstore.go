// Package store keeps track of live rooms by key
package store

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/minaorangina/napoleon/room"
)

var (
	ErrUnknownRoomKey = errors.New("unknown room key")
	ErrRoomKeyTaken   = errors.New("room key already in use")
)

type RoomStore interface {
	FindRoom(key string) (*room.Room, bool)
	AddRoom(r *room.Room) error
	RemoveRoom(key string, r *room.Room) error
	Rooms() []*room.Room
}

// InMemoryRoomStore maps room key to room.
// It is owned by a single goroutine and does no locking.
type InMemoryRoomStore struct {
	rooms map[string]*room.Room
}

// NewInMemoryRoomStore constructs an InMemoryRoomStore
func NewInMemoryRoomStore() *InMemoryRoomStore {
	return &InMemoryRoomStore{
		rooms: map[string]*room.Room{},
	}
}

func (s *InMemoryRoomStore) FindRoom(key string) (*room.Room, bool) {
	r, ok := s.rooms[key]
	return r, ok
}

func (s *InMemoryRoomStore) AddRoom(r *room.Room) error {
	if _, exists := s.rooms[r.Key()]; exists {
		return fmt.Errorf("%w: %s", ErrRoomKeyTaken, r.Key())
	}

	s.rooms[r.Key()] = r
	return nil
}

// RemoveRoom removes the room stored under key, but only if it is r.
// A key that has since been given to another room is left alone.
func (s *InMemoryRoomStore) RemoveRoom(key string, r *room.Room) error {
	existing, ok := s.rooms[key]
	if !ok || existing != r {
		return fmt.Errorf("%w: %s", ErrUnknownRoomKey, key)
	}

	delete(s.rooms, key)
	return nil
}

func (s *InMemoryRoomStore) Rooms() []*room.Room {
	return lo.Values(s.rooms)
}
