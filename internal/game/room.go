package game

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Room is an ordered collection of maps connected by portals: the first
// map is the entry point, the last contains the terminal end point. Room
// is the sole owner of its Players; maps hold only non-owning references.
type Room struct {
	mu sync.RWMutex

	ID   uint64
	maps []*Map

	finished []*Player // finish order, for ranking in the GAME_END summary
}

// NewRoom constructs an empty room; call InitializeMaps to build its
// default map chain before joining players.
func NewRoom(id uint64) *Room {
	return &Room{ID: id}
}

// defaultRoomMapNames and defaultRoomMapSize describe the default
// three-map chain a room is built with.
const (
	defaultRoomMapSize = 15
)

var defaultRoomMapNames = [3]string{"A", "B", "C"}

// InitializeMaps constructs the room's default map chain: three 15×15
// maps A→B→C, start=(1,1) on each, C's end=(14,14). Each non-terminal map
// gets one outbound portal linking to the next map in the chain; portal
// placement is sequential (it is not CPU-bound and does not depend on
// order), but the obstacle carving — the CPU-bound step — runs one
// goroutine per map via errgroup.Group, with is_terminal set only for the
// last map. InitializeMaps does not return until every map's maze is
// fully carved, so a caller enqueuing a follow-up event after this call
// always observes a complete room.
func (r *Room) InitializeMaps() error {
	start := Point{X: 1, Y: 1}
	maps := make([]*Map, len(defaultRoomMapNames))
	for i, name := range defaultRoomMapNames {
		var end *Point
		if i == len(defaultRoomMapNames)-1 {
			e := Point{X: defaultRoomMapSize - 1, Y: defaultRoomMapSize - 1}
			end = &e
		}
		maps[i] = NewMap(name, defaultRoomMapSize, defaultRoomMapSize, start, end)
	}

	for i := 0; i < len(maps)-1; i++ {
		if _, err := maps[i].GenerateRandomPortal(maps[i+1].Name); err != nil {
			return err
		}
	}

	var g errgroup.Group
	for i, m := range maps {
		m := m
		isTerminal := i == len(maps)-1
		g.Go(func() error {
			return m.GenerateRandomObstacles(isTerminal)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.maps = maps
	r.mu.Unlock()
	return nil
}

// Maps returns a snapshot of the room's ordered map chain.
func (r *Room) Maps() []*Map {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Map, len(r.maps))
	copy(out, r.maps)
	return out
}

// EntryMap returns the room's first map, or nil if InitializeMaps has not
// run yet.
func (r *Room) EntryMap() *Map {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.maps) == 0 {
		return nil
	}
	return r.maps[0]
}

// JoinPlayer adds p to the room's entry map and sets its position and
// back-references accordingly.
func (r *Room) JoinPlayer(p *Player) bool {
	entry := r.EntryMap()
	if entry == nil {
		return false
	}
	if !entry.AddPlayer(p) {
		return false
	}
	p.SetCurrentMapName(entry.Name)
	p.SetPosition(entry.StartPoint)
	p.SetRoomID(r.ID)
	return true
}

// FindPlayer searches every map in the room for playerID.
func (r *Room) FindPlayer(playerID string) (*Player, bool) {
	for _, m := range r.Maps() {
		if p, ok := m.GetPlayer(playerID); ok {
			return p, true
		}
	}
	return nil, false
}

// RemovePlayer removes p from every map of the room it appears in.
// Returns true if it was present in at least one.
func (r *Room) RemovePlayer(p *Player) bool {
	removed := false
	for _, m := range r.Maps() {
		if m.RemovePlayer(p) {
			removed = true
		}
	}
	return removed
}

// GetMapByName looks up a map in the room's chain by name.
func (r *Room) GetMapByName(name string) (*Map, bool) {
	for _, m := range r.Maps() {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Broadcast fans packet out to every player across every map of the room,
// and to every player that has already finished (finished players are no
// longer on any map, but still receive room-wide packets such as
// player_finished and the GAME_END summary).
func (r *Room) Broadcast(sender PlayerSender, packet []byte) {
	for _, m := range r.Maps() {
		m.Broadcast(sender, packet)
	}
	r.mu.RLock()
	finished := make([]*Player, len(r.finished))
	copy(finished, r.finished)
	r.mu.RUnlock()
	for _, p := range finished {
		sender.SendToPlayer(p, packet)
	}
}

// AllFinished reports whether every player currently indexed by any map of
// the room has finished. A finished player is removed from its map (see
// RecordFinish's caller in the game handler), so in practice this is
// "zero players remain in the room" — any player still indexed is, by
// that invariant, not yet finished.
func (r *Room) AllFinished() bool {
	for _, m := range r.Maps() {
		for _, p := range m.GetPlayers() {
			if !p.IsFinished() {
				return false
			}
		}
	}
	return true
}

// RecordFinish appends p to the room's finish order, used to rank the
// GAME_END summary.
func (r *Room) RecordFinish(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, p)
}

// RankingEntry is one row of a room's final standings.
type RankingEntry struct {
	PlayerID      string `json:"player_id"`
	Name          string `json:"name"`
	TotalDistance uint32 `json:"total_distance"`
	FinishOrder   int    `json:"finish_order"`
}

// Rankings returns the room's final standings in finish order.
func (r *Room) Rankings() []RankingEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RankingEntry, len(r.finished))
	for i, p := range r.finished {
		st := p.State()
		out[i] = RankingEntry{PlayerID: st.ID, Name: st.Name, TotalDistance: st.TotalDistance, FinishOrder: i + 1}
	}
	return out
}

// ExtractAllMapInfo builds the JSON-serializable snapshot of every map in
// the room, used in the room_create broadcast.
func (r *Room) ExtractAllMapInfo() []MapInfo {
	maps := r.Maps()
	out := make([]MapInfo, len(maps))
	for i, m := range maps {
		out[i] = m.ExtractMapInfo()
	}
	return out
}
