package game

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// IDGenerator mints the 12-digit, zero-padded decimal player IDs from a
// monotonic counter, as required by the data model.
type IDGenerator struct {
	next uint64
}

// NewIDGenerator returns an IDGenerator starting at 0.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next player ID.
func (g *IDGenerator) Next() string {
	n := atomic.AddUint64(&g.next, 1) - 1
	return fmt.Sprintf("%012d", n)
}

// PlayerState is a point-in-time, lock-free snapshot of a Player.
type PlayerState struct {
	ID             string
	Name           string
	Position       Point
	TotalDistance  uint32
	IsFinished     bool
	CurrentMapName string
}

// Player is a connected participant. A Player refers to its current map
// only by name (CurrentMapName) and to its room only by ID (RoomID),
// rather than by pointer, per the weak-back-reference guidance in the
// design notes.
type Player struct {
	mu sync.RWMutex

	id             string
	name           string
	position       Point
	totalDistance  uint32
	isFinished     bool
	currentMapName string
	roomID         *uint64
}

// NewPlayer constructs a Player with the given identity. Position is the
// zero Point until the player joins a room.
func NewPlayer(id, name string) *Player {
	return &Player{id: id, name: name}
}

// ID returns the player's identity. Immutable for the player's lifetime.
func (p *Player) ID() string {
	return p.id
}

// Name returns the player's display name.
func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// State returns a thread-safe snapshot of the player's current state.
func (p *Player) State() PlayerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PlayerState{
		ID:             p.id,
		Name:           p.name,
		Position:       p.position,
		TotalDistance:  p.totalDistance,
		IsFinished:     p.isFinished,
		CurrentMapName: p.currentMapName,
	}
}

// Position returns the player's current grid position.
func (p *Player) Position() Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetPosition relocates the player without affecting total distance. Used
// for initial room placement and portal arrival, where the distance was
// already credited by the move that stepped onto the portal cell.
func (p *Player) SetPosition(pt Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pt
}

// Move relocates the player and credits one unit of total distance. Used
// for an accepted single-step PLAYER_MOVED.
func (p *Player) Move(pt Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pt
	p.totalDistance++
}

// TotalDistance returns the number of accepted moves processed so far.
func (p *Player) TotalDistance() uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalDistance
}

// IsFinished reports whether the player has reached the terminal map's end
// point.
func (p *Player) IsFinished() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isFinished
}

// SetFinished marks the player as having reached the final goal.
func (p *Player) SetFinished(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isFinished = v
}

// CurrentMapName returns the name of the map the player currently occupies,
// or "" if the player has not joined one (or has finished and left all
// maps).
func (p *Player) CurrentMapName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentMapName
}

// SetCurrentMapName updates the player's current-map back-reference.
func (p *Player) SetCurrentMapName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentMapName = name
}

// RoomID returns the room the player belongs to, if any.
func (p *Player) RoomID() (uint64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.roomID == nil {
		return 0, false
	}
	return *p.roomID, true
}

// SetRoomID assigns the player's room back-reference.
func (p *Player) SetRoomID(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roomID = &id
}
