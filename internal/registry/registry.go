// Package registry implements the bidirectional player ↔ connection
// mapping. It sits above network and game (both of which are leaves with
// no dependency on each other) so it can hold a bijection between their
// types without creating an import cycle.
package registry

import (
	"sync"

	"github.com/mazerace/server/internal/game"
	"github.com/mazerace/server/internal/network"
)

// Registry is a thread-safe bijection between live Players and
// Connections. A second Register call for a player ID replaces the prior
// mapping; the prior entry is dropped so no connection is ever registered
// to two players or vice versa.
type Registry struct {
	mu       sync.RWMutex
	byPlayer map[string]*network.Connection
	byConn   map[network.ConnectionID]*game.Player
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		byPlayer: make(map[string]*network.Connection),
		byConn:   make(map[network.ConnectionID]*game.Player),
	}
}

// Register associates p with c, replacing any prior mapping either side
// held.
func (r *Registry) Register(p *game.Player, c *network.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if oldConn, ok := r.byPlayer[p.ID()]; ok {
		delete(r.byConn, oldConn.ID())
	}
	if oldPlayer, ok := r.byConn[c.ID()]; ok {
		delete(r.byPlayer, oldPlayer.ID())
	}

	r.byPlayer[p.ID()] = c
	r.byConn[c.ID()] = p
}

// Unregister removes p's mapping, if any.
func (r *Registry) Unregister(p *game.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byPlayer[p.ID()]
	if !ok {
		return
	}
	delete(r.byConn, c.ID())
	delete(r.byPlayer, p.ID())
}

// ConnectionOf returns the connection registered to p, if any.
func (r *Registry) ConnectionOf(p *game.Player) (*network.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byPlayer[p.ID()]
	return c, ok
}

// PlayerOf returns the player registered to connID, if any.
func (r *Registry) PlayerOf(connID network.ConnectionID) (*game.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byConn[connID]
	return p, ok
}

// SendToPlayer writes packet to p's registered connection. Returns false
// if p has no live connection (e.g. the event arrived after the
// connection's reference expired).
func (r *Registry) SendToPlayer(p *game.Player, packet []byte) bool {
	c, ok := r.ConnectionOf(p)
	if !ok {
		return false
	}
	c.Write(packet)
	return true
}
