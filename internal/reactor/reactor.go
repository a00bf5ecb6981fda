// Package reactor owns the acceptor loop and the single-logical-worker
// event queue: Connection frames and timer fire-backs arrive concurrently,
// but every event is dispatched to a handler one at a time, in enqueue
// order, so Room mutations never race.
package reactor

import (
	"net"
	"sync"
	"time"

	"github.com/mazerace/server/internal/network"
	"github.com/mazerace/server/internal/state"
	"github.com/mazerace/server/internal/telemetry"
	"github.com/mazerace/server/internal/timer"
)

// Handler processes one routed Event. NetHandler and GameHandler satisfy
// this without the reactor package importing either — the dependency runs
// the other way, through Reactor's Dispatcher-shaped methods.
type Handler interface {
	Handle(ev network.Event)
}

// Reactor is the server's single dispatcher: the acceptor feeds it
// Connections, Connections feed it Events, and it drains those Events
// one at a time onto NetHandler or GameHandler.
type Reactor struct {
	logger   *telemetry.Logger
	timerSvc *timer.Service

	connMu sync.RWMutex
	conns  map[network.ConnectionID]*network.Connection

	queueMu  sync.Mutex
	queue    []network.Event
	draining bool

	netHandler  Handler
	gameHandler Handler
}

// New constructs a Reactor. Call SetHandlers before Serve.
func New(logger *telemetry.Logger, timerSvc *timer.Service) *Reactor {
	return &Reactor{
		logger:   logger,
		timerSvc: timerSvc,
		conns:    make(map[network.ConnectionID]*network.Connection),
	}
}

// SetHandlers wires the handlers events dispatch to. Both must be set
// before Serve or Enqueue is called.
func (r *Reactor) SetHandlers(netHandler, gameHandler Handler) {
	r.netHandler = netHandler
	r.gameHandler = gameHandler
}

// Serve runs the accept loop: each accepted socket becomes a Connection
// tracked by the reactor and started with Enqueue as its event sink. Serve
// blocks until the listener errors (typically on shutdown).
func (r *Reactor) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		c := network.NewConnection(conn, r.logger)
		r.trackConnection(c)
		c.Start(r.Enqueue)
	}
}

// Enqueue appends ev to the queue. If no drain is currently in progress,
// it starts one; otherwise the event is picked up by the drain loop
// already running.
func (r *Reactor) Enqueue(ev network.Event) {
	r.queueMu.Lock()
	r.queue = append(r.queue, ev)
	if r.draining {
		r.queueMu.Unlock()
		return
	}
	r.draining = true
	r.queueMu.Unlock()

	go r.drain()
}

// drain pops and dispatches events one at a time until the queue is empty.
// Only one drain goroutine is ever active — Enqueue only spawns a new one
// when none is running — so handler executions are strictly serialized.
func (r *Reactor) drain() {
	for {
		r.queueMu.Lock()
		if len(r.queue) == 0 {
			r.draining = false
			r.queueMu.Unlock()
			return
		}
		ev := r.queue[0]
		r.queue = r.queue[1:]
		r.queueMu.Unlock()

		r.dispatch(ev)
	}
}

func (r *Reactor) dispatch(ev network.Event) {
	// The reactor owns the live-connection table, so CLOSE untracks it
	// here regardless of which handler processes the event's side effects.
	if ev.Main == network.MainNetwork && ev.Sub == network.SubClose {
		r.untrackConnection(ev.ConnID)
	}

	switch ev.Main {
	case network.MainNetwork:
		if r.netHandler != nil {
			r.netHandler.Handle(ev)
		}
	case network.MainGame:
		if r.gameHandler != nil {
			r.gameHandler.Handle(ev)
		}
	default:
		r.logger.Warnw("reactor: dropping event with unroutable main_type", "main_type", ev.Main, "sub_type", ev.Sub)
	}
}

func (r *Reactor) trackConnection(c *network.Connection) {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	r.conns[c.ID()] = c
}

func (r *Reactor) untrackConnection(id network.ConnectionID) {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	delete(r.conns, id)
}

// ConnectionByID resolves a weak connection reference. A connection that
// has since closed (and been untracked) resolves false rather than
// returning stale state, per the design notes on weak back-references.
func (r *Reactor) ConnectionByID(id network.ConnectionID) (*network.Connection, bool) {
	r.connMu.RLock()
	defer r.connMu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// After schedules fn to run once after d, on its own goroutine. Handlers
// must not sleep; they call this and return, re-entering the dispatch loop
// through Enqueue when fn fires.
func (r *Reactor) After(d time.Duration, fn func()) timer.Handle {
	return r.timerSvc.After(d, fn)
}

// LogStats periodically logs player/room counts, the non-HTTP analogue of
// the teacher's periodic stats ticker (there is no /stats endpoint here —
// the wire protocol has no HTTP surface to serve one on).
func (r *Reactor) LogStats(st *state.GameState, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		rooms := st.AllRooms()
		if len(rooms) == 0 && st.WaitingCount() == 0 {
			continue
		}
		r.logger.Infow("server stats", "rooms", len(rooms), "waiting_players", st.WaitingCount())
	}
}
