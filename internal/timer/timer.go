// Package timer is the monotonic delayed-enqueue scheduler the reactor
// owns. Handlers never sleep; they schedule a future callback instead.
package timer

import "time"

// Handle cancels a pending scheduled callback.
type Handle struct {
	t *time.Timer
}

// Stop cancels the pending callback. Safe to call on an already-fired or
// already-stopped handle.
func (h Handle) Stop() {
	if h.t != nil {
		h.t.Stop()
	}
}

// Service schedules one-shot delayed callbacks over time.AfterFunc. No
// third-party scheduler in the retrieval pack fits a need this narrow
// (one-shot fire-and-forget after a fixed delay) any better than the
// standard library's own timer — see DESIGN.md.
type Service struct{}

// New constructs a timer Service.
func New() *Service {
	return &Service{}
}

// After schedules fn to run once after d elapses, on its own goroutine.
// Callers pass a closure that enqueues a follow-up event rather than
// mutating state directly, so the single-writer dispatch guarantee in the
// concurrency model is preserved.
func (s *Service) After(d time.Duration, fn func()) Handle {
	return Handle{t: time.AfterFunc(d, fn)}
}
