package handler

import (
	"sync"
	"time"

	"github.com/mazerace/server/internal/network"
	"github.com/mazerace/server/internal/timer"
)

// afterCall records a scheduled delayed callback so a test can fire it
// deterministically instead of waiting on a real timer.
type afterCall struct {
	delay time.Duration
	fn    func()
}

// fakeDispatcher stands in for *reactor.Reactor in handler unit tests: it
// records enqueued events and scheduled callbacks instead of running a
// live drain loop.
type fakeDispatcher struct {
	mu       sync.Mutex
	enqueued []network.Event
	conns    map[network.ConnectionID]*network.Connection
	afters   []afterCall
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{conns: make(map[network.ConnectionID]*network.Connection)}
}

func (d *fakeDispatcher) Enqueue(ev network.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enqueued = append(d.enqueued, ev)
}

func (d *fakeDispatcher) ConnectionByID(id network.ConnectionID) (*network.Connection, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.conns[id]
	return c, ok
}

func (d *fakeDispatcher) After(delay time.Duration, fn func()) timer.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.afters = append(d.afters, afterCall{delay: delay, fn: fn})
	return timer.Handle{}
}

func (d *fakeDispatcher) register(c *network.Connection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[c.ID()] = c
}

func (d *fakeDispatcher) events() []network.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]network.Event, len(d.enqueued))
	copy(out, d.enqueued)
	return out
}

func (d *fakeDispatcher) afterCalls() []afterCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]afterCall, len(d.afters))
	copy(out, d.afters)
	return out
}
