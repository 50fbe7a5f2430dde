// internal/game/room_store.go
package game

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CanonicalRoomID is the well-known room every client lands in by default.
// It is created at startup and never disposed.
const CanonicalRoomID = "main"

// idleDisposeTimeout is how long a non-canonical room may sit empty before
// it is torn down.
const idleDisposeTimeout = time.Hour

// RoomStore manages the in-memory rooms and their idle disposal.
type RoomStore struct {
	mu         sync.Mutex
	rooms      map[string]*Room
	idleTimers map[string]*time.Timer
	logger     *logrus.Logger
}

// NewRoomStore builds a store pre-seeded with the canonical room.
func NewRoomStore(rules HouseRules, logger *logrus.Logger) *RoomStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &RoomStore{
		rooms:      make(map[string]*Room),
		idleTimers: make(map[string]*time.Timer),
		logger:     logger,
	}
	s.rooms[CanonicalRoomID] = NewRoom(CanonicalRoomID, rules, logger)
	return s
}

// GetRoom returns an existing room.
func (s *RoomStore) GetRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Canonical returns the always-alive default room.
func (s *RoomStore) Canonical() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[CanonicalRoomID]
}

// GetOrCreateRoom returns the named room, creating it with the given rules
// if it does not exist yet.
func (s *RoomStore) GetOrCreateRoom(id string, rules HouseRules) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, rules, s.logger)
	s.rooms[id] = r
	s.logger.WithField("room", id).Info("room created")
	return r
}

// ListRooms snapshots the current room ids.
func (s *RoomStore) ListRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

// NoteOccupied cancels a pending disposal when a client joins the room.
func (s *RoomStore) NoteOccupied(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.idleTimers[id]; ok {
		t.Stop()
		delete(s.idleTimers, id)
	}
}

// NoteEmpty arms the idle disposal for a room whose last client left. The
// canonical room is exempt.
func (s *RoomStore) NoteEmpty(id string) {
	if id == CanonicalRoomID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return
	}
	if t, ok := s.idleTimers[id]; ok {
		t.Stop()
	}
	s.idleTimers[id] = time.AfterFunc(idleDisposeTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		r, ok := s.rooms[id]
		if !ok {
			return
		}
		r.Mu.Lock()
		empty := len(r.Players) == 0
		r.Mu.Unlock()
		if empty {
			delete(s.rooms, id)
			delete(s.idleTimers, id)
			s.logger.WithField("room", id).Info("disposed idle room")
		}
	})
}
