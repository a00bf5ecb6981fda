package handler

import (
	"time"

	"github.com/mazerace/server/config"
	"github.com/mazerace/server/internal/game"
	"github.com/mazerace/server/internal/jsonwire"
	"github.com/mazerace/server/internal/network"
	"github.com/mazerace/server/internal/registry"
	"github.com/mazerace/server/internal/state"
	"github.com/mazerace/server/internal/telemetry"
)

// NetHandler processes NETWORK-category events: JOIN, LEFT, CLOSE.
type NetHandler struct {
	dispatcher Dispatcher
	registry   *registry.Registry
	state      *state.GameState
	idGen      *game.IDGenerator
	logger     *telemetry.Logger

	batchSize    int
	queueTimeout time.Duration
}

// NewNetHandler constructs a NetHandler.
func NewNetHandler(dispatcher Dispatcher, reg *registry.Registry, st *state.GameState, idGen *game.IDGenerator, cfg *config.Config, logger *telemetry.Logger) *NetHandler {
	return &NetHandler{
		dispatcher:   dispatcher,
		registry:     reg,
		state:        st,
		idGen:        idGen,
		logger:       logger,
		batchSize:    cfg.BatchSize,
		queueTimeout: cfg.QueueTimeout,
	}
}

type joinBody struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// Handle routes a NETWORK-category event to its sub_type.
func (h *NetHandler) Handle(ev network.Event) {
	switch ev.Sub {
	case network.SubJoin:
		h.handleJoin(ev)
	case network.SubLeft:
		h.handleLeft(ev)
	case network.SubClose:
		h.handleClose(ev)
	default:
		h.logger.Warnw("nethandler: unroutable sub_type", "sub_type", ev.Sub)
	}
}

func (h *NetHandler) handleJoin(ev network.Event) {
	conn, ok := h.dispatcher.ConnectionByID(ev.ConnID)
	if !ok {
		h.logger.Debugw("nethandler: join on an expired connection", "conn_id", ev.ConnID)
		return
	}

	var body joinBody
	if err := jsonwire.Unmarshal(ev.Data, &body); err != nil {
		h.logger.Warnw("nethandler: malformed join body", "conn_id", ev.ConnID, "error", err)
		h.sendError(conn, "malformed join body")
		return
	}

	// A client-supplied player_id is honored as-is (the literal JOIN
	// contract); only an absent one falls back to the monotonic
	// 12-digit generator the data model describes.
	id := body.PlayerID
	if id == "" {
		id = h.idGen.Next()
	}
	name := body.PlayerName
	if name == "" {
		name = id
	}

	p := game.NewPlayer(id, name)
	h.registry.Register(p, conn)
	h.state.AddWaiting(p)
	h.logger.Infow("player joined waiting queue", "player_id", id, "conn_id", ev.ConnID)

	ack, err := jsonwire.Marshal(map[string]string{"result": "ok", "action": "join"})
	if err != nil {
		h.logger.Errorw("nethandler: failed to marshal join ack", "error", err)
		return
	}
	conn.Write(network.Encode(network.MainNetwork, network.SubJoin, ack))

	waitingCount := h.state.WaitingCount()
	if waitingCount >= h.batchSize {
		h.dispatcher.Enqueue(network.Event{Main: network.MainGame, Sub: network.SubRoomCreate})
		return
	}
	if h.queueTimeout > 0 && waitingCount == 1 {
		h.scheduleQueueTimeout()
	}
}

// scheduleQueueTimeout implements the optional "create room with whoever
// is present" branch: a timer started on the first JOIN into an empty
// queue fires a ROOM_CREATE even if fewer than BatchSize players showed up.
func (h *NetHandler) scheduleQueueTimeout() {
	h.dispatcher.After(h.queueTimeout, func() {
		h.dispatcher.Enqueue(network.Event{Main: network.MainGame, Sub: network.SubRoomCreate})
	})
}

func (h *NetHandler) handleLeft(ev network.Event) {
	p, ok := h.registry.PlayerOf(ev.ConnID)
	if !ok {
		h.logger.Debugw("nethandler: left from an unregistered connection", "conn_id", ev.ConnID)
		return
	}
	h.removeFromQueueOrRoom(p)

	if conn, ok := h.dispatcher.ConnectionByID(ev.ConnID); ok {
		ack, err := jsonwire.Marshal(map[string]string{"result": "ok", "action": "left"})
		if err == nil {
			conn.Write(network.Encode(network.MainNetwork, network.SubLeft, ack))
		}
	}
}

func (h *NetHandler) handleClose(ev network.Event) {
	p, ok := h.registry.PlayerOf(ev.ConnID)
	if ok {
		h.removeFromQueueOrRoom(p)
		h.registry.Unregister(p)
	}
	if conn, ok := h.dispatcher.ConnectionByID(ev.ConnID); ok {
		conn.Close()
	}
}

func (h *NetHandler) removeFromQueueOrRoom(p *game.Player) {
	if h.state.RemoveWaiting(p) {
		return
	}
	roomID, ok := p.RoomID()
	if !ok {
		return
	}
	room, ok := h.state.FindRoom(roomID)
	if !ok {
		return
	}
	room.RemovePlayer(p)
}

func (h *NetHandler) sendError(conn *network.Connection, msg string) {
	conn.Write(network.Encode(network.MainError, network.SubUnknown, []byte(msg)))
}
