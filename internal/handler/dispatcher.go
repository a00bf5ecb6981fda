// Package handler implements NetHandler (JOIN/LEFT/CLOSE) and GameHandler
// (ROOM_CREATE..GAME_END), the two leaves the reactor dispatches events to.
package handler

import (
	"time"

	"github.com/mazerace/server/internal/network"
	"github.com/mazerace/server/internal/timer"
)

// Dispatcher is the slice of Reactor a handler needs: enqueue a follow-up
// event, resolve a weak connection reference, or schedule a delayed
// enqueue. Handlers depend on this interface, not on the reactor package,
// so there is no import cycle — *reactor.Reactor satisfies it structurally.
type Dispatcher interface {
	Enqueue(ev network.Event)
	ConnectionByID(id network.ConnectionID) (*network.Connection, bool)
	After(d time.Duration, fn func()) timer.Handle
}
