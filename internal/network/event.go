package network

import "github.com/google/uuid"

// ConnectionID identifies a Connection independent of its lifetime, so an
// Event can carry a weak reference to "the connection this arrived on"
// instead of a pointer: a Connection that has since closed resolves to
// "expired" via a Registry/Reactor lookup rather than being dereferenced.
type ConnectionID = uuid.UUID

// Event is an in-process message queued for the reactor's dispatcher. It
// never leaves the process; the wire-visible packet is encoded only when
// a handler writes a response back out.
type Event struct {
	Main   MainType
	Sub    SubType
	ConnID ConnectionID
	Data   []byte

	// RoomID and PlayerID are optional context a handler enqueuing a
	// follow-up event (e.g. a timer-driven COUNTDOWN tick) attaches so the
	// next handler doesn't have to re-derive them from a connection that
	// may no longer exist.
	RoomID    uint64
	HasRoomID bool
	PlayerID  string
}
