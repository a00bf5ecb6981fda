package game

import (
	"fmt"
	"sort"
	"sync"
)

// PlayerSender abstracts "send this packet to this player" so Map and Room
// can broadcast without importing the registry package (which itself
// depends on game, to avoid an import cycle).
type PlayerSender interface {
	SendToPlayer(p *Player, packet []byte) bool
}

// Map is a grid with a start point, an optional end point (only the
// terminal map in a room's chain has one), portals, obstacles, and the set
// of players currently occupying it.
type Map struct {
	mu sync.RWMutex

	Name       string
	Width      int
	Height     int
	StartPoint Point
	EndPoint   *Point

	portals   []Portal
	obstacles map[Point]struct{}
	players   map[string]*Player
}

// NewMap constructs an empty map of the given dimensions. end is nil for
// every non-terminal map in a room's chain.
func NewMap(name string, width, height int, start Point, end *Point) *Map {
	return &Map{
		Name:       name,
		Width:      width,
		Height:     height,
		StartPoint: start,
		EndPoint:   end,
		obstacles:  make(map[Point]struct{}),
		players:    make(map[string]*Player),
	}
}

// AddPlayer adds p to the map. Returns false if p was already present.
func (m *Map) AddPlayer(p *Player) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID()]; ok {
		return false
	}
	m.players[p.ID()] = p
	return true
}

// RemovePlayer removes p from the map. Returns true if p was present.
func (m *Map) RemovePlayer(p *Player) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID()]; !ok {
		return false
	}
	delete(m.players, p.ID())
	return true
}

// GetPlayer looks up a player currently on this map by ID.
func (m *Map) GetPlayer(id string) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// GetPlayers returns a snapshot of the players currently on this map.
func (m *Map) GetPlayers() []*Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	return out
}

// IsPortal reports whether pt holds a portal.
func (m *Map) IsPortal(pt Point) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.portals {
		if p.Position == pt {
			return true
		}
	}
	return false
}

// PortalAt returns the portal at pt, if any.
func (m *Map) PortalAt(pt Point) (Portal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.portals {
		if p.Position == pt {
			return p, true
		}
	}
	return Portal{}, false
}

// Portals returns a snapshot of this map's portals.
func (m *Map) Portals() []Portal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Portal, len(m.portals))
	copy(out, m.portals)
	return out
}

// IsObstacle reports whether pt is obstacled.
func (m *Map) IsObstacle(pt Point) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.obstacles[pt]
	return ok
}

// IsValidPosition reports whether pt is a legal destination: in range and
// not obstacled. Only the top/left edge (column/row 0) is the permanent
// wall — the bottom/right edge is in range, since a map's end_point sits
// at (width-1, height-1) and must be a reachable, acceptable destination.
func (m *Map) IsValidPosition(pt Point) bool {
	if pt.X <= 0 || pt.X >= m.Width || pt.Y <= 0 || pt.Y >= m.Height {
		return false
	}
	return !m.IsObstacle(pt)
}

// Broadcast sends packet to every player currently on this map.
func (m *Map) Broadcast(sender PlayerSender, packet []byte) {
	for _, p := range m.GetPlayers() {
		sender.SendToPlayer(p, packet)
	}
}

// MapInfo is the JSON-serializable view of a Map produced by
// ExtractMapInfo.
type MapInfo struct {
	Name      string       `json:"name"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Start     Point        `json:"start"`
	End       *Point       `json:"end,omitempty"`
	Portals   []PortalInfo `json:"portals"`
	Obstacles []Point      `json:"obstacles"`
}

// PortalInfo is the JSON-serializable view of a Portal.
type PortalInfo struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Name      string `json:"name"`
	LinkedMap string `json:"linked_map"`
}

// ExtractMapInfo builds the JSON-serializable snapshot of this map used in
// room_create broadcasts.
func (m *Map) ExtractMapInfo() MapInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	portals := make([]PortalInfo, len(m.portals))
	for i, p := range m.portals {
		portals[i] = PortalInfo{X: p.Position.X, Y: p.Position.Y, Name: p.Name, LinkedMap: p.LinkedMapName}
	}

	obstacles := make([]Point, 0, len(m.obstacles))
	for pt := range m.obstacles {
		obstacles = append(obstacles, pt)
	}
	sort.Slice(obstacles, func(i, j int) bool {
		if obstacles[i].X != obstacles[j].X {
			return obstacles[i].X < obstacles[j].X
		}
		return obstacles[i].Y < obstacles[j].Y
	})

	var end *Point
	if m.EndPoint != nil {
		e := *m.EndPoint
		end = &e
	}

	return MapInfo{
		Name:      m.Name,
		Width:     m.Width,
		Height:    m.Height,
		Start:     m.StartPoint,
		End:       end,
		Portals:   portals,
		Obstacles: obstacles,
	}
}

// ErrPortalPlacementFailed is returned by GenerateRandomPortal when no
// valid position was found within the attempt budget.
type ErrPortalPlacementFailed struct {
	MapName string
}

func (e *ErrPortalPlacementFailed) Error() string {
	return fmt.Sprintf("maze: failed to place a portal on map %q within the attempt budget", e.MapName)
}

// ErrObstacleGenerationFailed is returned by GenerateRandomObstacles when
// every outer attempt produced a disconnected or under-obstacled maze.
type ErrObstacleGenerationFailed struct {
	MapName string
}

func (e *ErrObstacleGenerationFailed) Error() string {
	return fmt.Sprintf("maze: failed to generate a connected maze for map %q within the attempt budget", e.MapName)
}
