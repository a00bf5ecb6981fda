// Package state holds GameState: the waiting queue plus the rooms index.
// It is a pure container — no network or timer awareness — so it stays
// trivially testable in isolation.
package state

import (
	"sync"

	"github.com/mazerace/server/internal/game"
)

// GameState is the waiting queue and rooms index. All accessors are
// thread-safe; callers outside the dispatcher must never mutate the
// Players or Rooms it hands back directly.
type GameState struct {
	mu         sync.Mutex
	waiting    []*game.Player
	rooms      map[uint64]*game.Room
	nextRoomID uint64
}

// New constructs an empty GameState.
func New() *GameState {
	return &GameState{rooms: make(map[uint64]*game.Room)}
}

// AddWaiting appends p to the back of the waiting queue.
func (s *GameState) AddWaiting(p *game.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = append(s.waiting, p)
}

// RemoveWaiting removes p from the waiting queue. Returns true if p was
// present.
func (s *GameState) RemoveWaiting(p *game.Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.waiting {
		if w.ID() == p.ID() {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// PopWaiting removes and returns up to n players from the front of the
// waiting queue, FIFO.
func (s *GameState) PopWaiting(n int) []*game.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.waiting) {
		n = len(s.waiting)
	}
	popped := s.waiting[:n]
	s.waiting = s.waiting[n:]
	out := make([]*game.Player, n)
	copy(out, popped)
	return out
}

// WaitingCount reports the current length of the waiting queue.
func (s *GameState) WaitingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiting)
}

// CreateRoom allocates the next room ID and registers a fresh, empty
// Room under it. Call room.InitializeMaps to build its map chain.
func (s *GameState) CreateRoom() *game.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextRoomID
	s.nextRoomID++
	r := game.NewRoom(id)
	s.rooms[id] = r
	return r
}

// FindRoom looks up a room by ID.
func (s *GameState) FindRoom(id uint64) (*game.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// RemoveRoom drops a room from the index.
func (s *GameState) RemoveRoom(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// AllRooms returns a snapshot of every currently-indexed room.
func (s *GameState) AllRooms() []*game.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*game.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}
