// Package result defines the seam GAME_END reports a finished room's
// standings through. Persistence is a non-goal, so the default Sink only
// logs — but the interface gives a caller somewhere to wire a real store.
package result

import (
	"time"

	"github.com/mazerace/server/internal/game"
	"github.com/mazerace/server/internal/telemetry"
)

// GameResult is the summary GAME_END builds once a room finishes.
// FinishedAt is a monotonic tick (time elapsed since the server started),
// not a wall-clock timestamp — matching the persistence non-goal, there is
// no store for an absolute time to be meaningful against.
type GameResult struct {
	RoomID     uint64
	FinishedAt time.Duration
	Rankings   []game.RankingEntry
}

// Sink receives a finished room's result. Record must not block the
// dispatcher for long; the default LogSink is synchronous and fast.
type Sink interface {
	Record(GameResult)
}

// LogSink is the default Sink: it logs the result via telemetry and
// discards it.
type LogSink struct {
	logger *telemetry.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *telemetry.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record logs r and discards it.
func (s *LogSink) Record(r GameResult) {
	s.logger.Infow("room finished",
		"room_id", r.RoomID,
		"finished_at", r.FinishedAt,
		"rankings", r.Rankings,
	)
}
