package reactor

import (
	"sync"
	"testing"
	"time"

	"github.com/mazerace/server/internal/network"
	"github.com/mazerace/server/internal/telemetry"
	"github.com/mazerace/server/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu   sync.Mutex
	seen []network.Event
}

func (h *recordingHandler) Handle(ev network.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, ev)
}

func (h *recordingHandler) events() []network.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]network.Event, len(h.seen))
	copy(out, h.seen)
	return out
}

func waitForCount(t *testing.T, h *recordingHandler, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(h.events()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(h.events()))
}

func TestEnqueueRoutesByMainType(t *testing.T) {
	r := New(telemetry.NewNop(), timer.New())
	netH := &recordingHandler{}
	gameH := &recordingHandler{}
	r.SetHandlers(netH, gameH)

	r.Enqueue(network.Event{Main: network.MainNetwork, Sub: network.SubJoin})
	r.Enqueue(network.Event{Main: network.MainGame, Sub: network.SubGameStart})

	waitForCount(t, netH, 1, time.Second)
	waitForCount(t, gameH, 1, time.Second)

	assert.Equal(t, network.SubJoin, netH.events()[0].Sub)
	assert.Equal(t, network.SubGameStart, gameH.events()[0].Sub)
}

func TestEventsDispatchInEnqueueOrder(t *testing.T) {
	r := New(telemetry.NewNop(), timer.New())
	gameH := &recordingHandler{}
	r.SetHandlers(&recordingHandler{}, gameH)

	for i := network.SubType(0); i < 20; i++ {
		r.Enqueue(network.Event{Main: network.MainGame, Sub: network.SubRoomCreate + i})
	}

	waitForCount(t, gameH, 20, time.Second)
	events := gameH.events()
	for i, ev := range events {
		assert.Equal(t, network.SubRoomCreate+network.SubType(i), ev.Sub)
	}
}

func TestConnectionByIDUntrackedAfterClose(t *testing.T) {
	r := New(telemetry.NewNop(), timer.New())
	netH := &recordingHandler{}
	r.SetHandlers(netH, &recordingHandler{})

	connID := network.ConnectionID{}
	r.Enqueue(network.Event{Main: network.MainNetwork, Sub: network.SubClose, ConnID: connID})

	waitForCount(t, netH, 1, time.Second)
	_, ok := r.ConnectionByID(connID)
	require.False(t, ok)
}
