package handler

import (
	"strconv"
	"time"

	"github.com/mazerace/server/config"
	"github.com/mazerace/server/internal/game"
	"github.com/mazerace/server/internal/jsonwire"
	"github.com/mazerace/server/internal/network"
	"github.com/mazerace/server/internal/registry"
	"github.com/mazerace/server/internal/result"
	"github.com/mazerace/server/internal/state"
	"github.com/mazerace/server/internal/telemetry"
)

// GameHandler processes GAME-category events: ROOM_CREATE through
// GAME_END.
type GameHandler struct {
	dispatcher Dispatcher
	registry   *registry.Registry
	state      *state.GameState
	sink       result.Sink
	logger     *telemetry.Logger

	batchSize        int
	countdownSeconds int
	startedAt        time.Time
}

// NewGameHandler constructs a GameHandler. startedAt is the server's boot
// time, used to stamp GameResult.FinishedAt as a monotonic tick rather
// than a wall-clock timestamp.
func NewGameHandler(dispatcher Dispatcher, reg *registry.Registry, st *state.GameState, sink result.Sink, cfg *config.Config, logger *telemetry.Logger, startedAt time.Time) *GameHandler {
	return &GameHandler{
		dispatcher:       dispatcher,
		registry:         reg,
		state:            st,
		sink:             sink,
		logger:           logger,
		batchSize:        cfg.BatchSize,
		countdownSeconds: cfg.CountdownSeconds,
		startedAt:        startedAt,
	}
}

// Handle routes a GAME-category event to its sub_type.
func (h *GameHandler) Handle(ev network.Event) {
	switch ev.Sub {
	case network.SubRoomCreate:
		h.handleRoomCreate(ev)
	case network.SubCountdown:
		h.handleCountdown(ev)
	case network.SubGameStart:
		h.handleGameStart(ev)
	case network.SubPlayerMoved:
		h.handlePlayerMoved(ev)
	case network.SubGameEnd:
		h.handleGameEnd(ev)
	default:
		h.logger.Warnw("gamehandler: unroutable sub_type", "sub_type", ev.Sub)
	}
}

func (h *GameHandler) handleRoomCreate(ev network.Event) {
	players := h.state.PopWaiting(h.batchSize)
	if len(players) == 0 {
		return
	}

	room := h.state.CreateRoom()
	if err := room.InitializeMaps(); err != nil {
		h.logger.Errorw("gamehandler: failed to initialize room maps", "room_id", room.ID, "error", err)
		h.state.RemoveRoom(room.ID)
		for _, p := range players {
			h.state.AddWaiting(p)
		}
		return
	}

	for _, p := range players {
		room.JoinPlayer(p)
	}

	payload := struct {
		RoomID uint64         `json:"room_id"`
		Maps   []game.MapInfo `json:"maps"`
	}{RoomID: room.ID, Maps: room.ExtractAllMapInfo()}

	body, err := jsonwire.Marshal(payload)
	if err != nil {
		h.logger.Errorw("gamehandler: failed to marshal room_create", "room_id", room.ID, "error", err)
		return
	}
	room.Broadcast(h.registry, network.Encode(network.MainGame, network.SubRoomCreate, body))
	h.logger.Infow("room created", "room_id", room.ID, "players", len(players))

	h.dispatcher.Enqueue(network.Event{
		Main: network.MainGame, Sub: network.SubCountdown,
		RoomID: room.ID, HasRoomID: true,
		Data: []byte(strconv.Itoa(h.countdownSeconds)),
	})
}

func (h *GameHandler) handleCountdown(ev network.Event) {
	room, ok := h.roomFor(ev)
	if !ok {
		return
	}

	n, err := strconv.Atoi(string(ev.Data))
	if err != nil {
		h.logger.Errorw("gamehandler: malformed countdown body", "room_id", room.ID, "error", err)
		return
	}

	body, err := jsonwire.Marshal(map[string]any{"action": "count_down", "count": n})
	if err != nil {
		h.logger.Errorw("gamehandler: failed to marshal count_down", "room_id", room.ID, "error", err)
		return
	}
	room.Broadcast(h.registry, network.Encode(network.MainGame, network.SubCountdown, body))

	if n <= 0 {
		h.dispatcher.Enqueue(network.Event{Main: network.MainGame, Sub: network.SubGameStart, RoomID: room.ID, HasRoomID: true})
		return
	}

	roomID := room.ID
	h.dispatcher.After(time.Second, func() {
		h.dispatcher.Enqueue(network.Event{
			Main: network.MainGame, Sub: network.SubCountdown,
			RoomID: roomID, HasRoomID: true,
			Data: []byte(strconv.Itoa(n - 1)),
		})
	})
}

func (h *GameHandler) handleGameStart(ev network.Event) {
	room, ok := h.roomFor(ev)
	if !ok {
		return
	}
	body, err := jsonwire.Marshal(map[string]string{"action": "game_start"})
	if err != nil {
		h.logger.Errorw("gamehandler: failed to marshal game_start", "room_id", room.ID, "error", err)
		return
	}
	room.Broadcast(h.registry, network.Encode(network.MainGame, network.SubGameStart, body))
}

type moveBody struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (h *GameHandler) handlePlayerMoved(ev network.Event) {
	p, ok := h.registry.PlayerOf(ev.ConnID)
	if !ok {
		h.logger.Debugw("gamehandler: player_moved from an unregistered connection", "conn_id", ev.ConnID)
		return
	}
	conn, _ := h.dispatcher.ConnectionByID(ev.ConnID)

	var body moveBody
	if err := jsonwire.Unmarshal(ev.Data, &body); err != nil {
		h.sendError(conn, "malformed player_moved body")
		return
	}
	target := game.Point{X: body.X, Y: body.Y}

	roomID, ok := p.RoomID()
	if !ok {
		h.sendError(conn, "player is not in a room")
		return
	}
	room, ok := h.state.FindRoom(roomID)
	if !ok {
		h.sendError(conn, "room no longer exists")
		return
	}

	currentMap, _ := room.GetMapByName(p.CurrentMapName())
	switch game.ValidateMove(currentMap, p.Position(), target) {
	case game.MoveNoCurrentMap:
		h.sendError(conn, "player has no current map")
		return
	case game.MoveInvalidPosition:
		h.sendError(conn, "invalid target position")
		return
	case game.MoveInvalidStep:
		h.sendError(conn, "move must be a single orthogonal step")
		return
	}

	p.Move(target)

	movedBody, err := jsonwire.Marshal(map[string]any{
		"action": "player_moved", "player_id": p.ID(), "x": target.X, "y": target.Y, "result": true,
	})
	if err != nil {
		h.logger.Errorw("gamehandler: failed to marshal player_moved", "player_id", p.ID(), "error", err)
		return
	}
	currentMap.Broadcast(h.registry, network.Encode(network.MainGame, network.SubPlayerMoved, movedBody))

	if currentMap.EndPoint != nil && target == *currentMap.EndPoint {
		h.finishPlayer(room, currentMap, p)
		return
	}
	if currentMap.IsPortal(target) {
		h.traversePortal(room, currentMap, p, target, conn)
	}
}

func (h *GameHandler) finishPlayer(room *game.Room, currentMap *game.Map, p *game.Player) {
	currentMap.RemovePlayer(p)
	p.SetFinished(true)
	p.SetCurrentMapName("")
	room.RecordFinish(p)

	body, err := jsonwire.Marshal(map[string]any{"action": "player_finished", "player_id": p.ID()})
	if err != nil {
		h.logger.Errorw("gamehandler: failed to marshal player_finished", "player_id", p.ID(), "error", err)
		return
	}
	room.Broadcast(h.registry, network.Encode(network.MainGame, network.SubPlayerFinished, body))

	if room.AllFinished() {
		h.dispatcher.Enqueue(network.Event{Main: network.MainGame, Sub: network.SubGameEnd, RoomID: room.ID, HasRoomID: true})
	}
}

func (h *GameHandler) traversePortal(room *game.Room, currentMap *game.Map, p *game.Player, target game.Point, conn *network.Connection) {
	portal, _ := currentMap.PortalAt(target)

	outBody, err := jsonwire.Marshal(map[string]any{"action": "player_come_out_map", "player_id": p.ID(), "map": currentMap.Name})
	if err == nil {
		currentMap.Broadcast(h.registry, network.Encode(network.MainGame, network.SubPlayerComeOutMap, outBody))
	}
	currentMap.RemovePlayer(p)

	nextMap, ok := room.GetMapByName(portal.LinkedMapName)
	if !ok {
		h.logger.Errorw("gamehandler: portal linked map missing", "room_id", room.ID, "map", currentMap.Name, "linked_map", portal.LinkedMapName)
		currentMap.AddPlayer(p)
		h.sendError(conn, "linked map not found")
		return
	}

	nextMap.AddPlayer(p)
	p.SetCurrentMapName(nextMap.Name)
	p.SetPosition(nextMap.StartPoint)

	inBody, err := jsonwire.Marshal(map[string]any{"action": "player_come_in_map", "player_id": p.ID(), "map": nextMap.Name})
	if err == nil {
		nextMap.Broadcast(h.registry, network.Encode(network.MainGame, network.SubPlayerComeInMap, inBody))
	}
}

func (h *GameHandler) handleGameEnd(ev network.Event) {
	room, ok := h.roomFor(ev)
	if !ok {
		return
	}

	rankings := room.Rankings()
	body, err := jsonwire.Marshal(map[string]any{"action": "game_end", "rankings": rankings})
	if err == nil {
		room.Broadcast(h.registry, network.Encode(network.MainGame, network.SubGameEnd, body))
	}

	h.sink.Record(result.GameResult{
		RoomID:     room.ID,
		FinishedAt: time.Since(h.startedAt),
		Rankings:   rankings,
	})

	h.state.RemoveRoom(room.ID)
}

func (h *GameHandler) roomFor(ev network.Event) (*game.Room, bool) {
	if !ev.HasRoomID {
		h.logger.Warnw("gamehandler: event missing room_id", "sub_type", ev.Sub)
		return nil, false
	}
	room, ok := h.state.FindRoom(ev.RoomID)
	if !ok {
		h.logger.Debugw("gamehandler: event for an expired room", "room_id", ev.RoomID, "sub_type", ev.Sub)
		return nil, false
	}
	return room, true
}

func (h *GameHandler) sendError(conn *network.Connection, msg string) {
	if conn == nil {
		return
	}
	conn.Write(network.Encode(network.MainError, network.SubUnknown, []byte(msg)))
}
