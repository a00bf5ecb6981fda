package network

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mazerace/server/internal/telemetry"
)

// sendBuffer bounds how many outbound packets can be queued per
// connection before a write is treated as a send failure.
const sendBuffer = 256

// writeDeadline bounds how long a best-effort diagnostic write may block
// a connection that's already on its way out.
const writeDeadline = 2 * time.Second

// EmitFunc is the sink a Connection's read loop pushes events onto. It
// must not block indefinitely — the reactor's Enqueue satisfies this.
type EmitFunc func(Event)

// Connection is one per accepted socket. It owns the read loop (frame
// decode → emit) and the write loop (enqueue → serialize → send), and
// transitions to Closing on any I/O or decode error, emitting exactly one
// CLOSE event.
//
// State machine: ReadingHeader → ReadingBody(hdr) → ReadingHeader on
// success; any I/O error or decode error transitions to Closing.
type Connection struct {
	id     ConnectionID
	conn   net.Conn
	logger *telemetry.Logger

	emit EmitFunc

	sendCh chan []byte
	done   chan struct{}

	closeOnce     sync.Once
	closeEmitted  atomic.Bool
	remoteAddrStr string
}

// NewConnection wraps an accepted socket. Call Start to begin its read
// and write loops.
func NewConnection(conn net.Conn, logger *telemetry.Logger) *Connection {
	return &Connection{
		id:            uuid.New(),
		conn:          conn,
		logger:        logger,
		sendCh:        make(chan []byte, sendBuffer),
		done:          make(chan struct{}),
		remoteAddrStr: conn.RemoteAddr().String(),
	}
}

// ID returns the connection's identity.
func (c *Connection) ID() ConnectionID {
	return c.id
}

// RemoteAddr returns the remote address captured at construction time
// (safe to call after the socket has closed).
func (c *Connection) RemoteAddr() string {
	return c.remoteAddrStr
}

// Start begins the read and write loops. emit is called once per decoded
// frame and exactly once for the terminal CLOSE event; it must not block.
func (c *Connection) Start(emit EmitFunc) {
	c.emit = emit
	go c.writeLoop()
	go c.readLoop()
}

// Write enqueues data for asynchronous send. On buffer overflow — the
// FIFO writer falling too far behind — the connection transitions to
// Closing and emits CLOSE, matching a synchronous send failure.
func (c *Connection) Write(data []byte) {
	select {
	case c.sendCh <- data:
	case <-c.done:
	default:
		c.logger.Warnw("connection send buffer full, closing", "conn_id", c.id, "remote_addr", c.remoteAddrStr)
		c.closeWithEvent()
	}
}

// Close performs a best-effort socket shutdown. Idempotent.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}

// closeWithEvent closes the socket and emits CLOSE exactly once.
func (c *Connection) closeWithEvent() {
	c.Close()
	if c.closeEmitted.CompareAndSwap(false, true) {
		c.emit(Event{Main: MainNetwork, Sub: SubClose, ConnID: c.id})
	}
}

func (c *Connection) readLoop() {
	for {
		var hdrBuf [HeaderSize]byte
		if _, err := io.ReadFull(c.conn, hdrBuf[:]); err != nil {
			c.closeWithEvent()
			return
		}

		h, err := DecodeHeader(hdrBuf)
		if err != nil {
			c.sendDiagnosticError(err)
			c.closeWithEvent()
			return
		}
		if h.BodyLength > MaxBodyLength {
			c.sendDiagnosticError(fmt.Errorf("network: body_length %d exceeds max %d", h.BodyLength, MaxBodyLength))
			c.closeWithEvent()
			return
		}

		padded := PaddedBodyLength(h.BodyLength)
		bodyBuf := make([]byte, padded)
		if padded > 0 {
			if _, err := io.ReadFull(c.conn, bodyBuf); err != nil {
				c.closeWithEvent()
				return
			}
		}

		c.emit(Event{Main: h.Main, Sub: h.Sub, ConnID: c.id, Data: bodyBuf[:h.BodyLength]})
	}
}

func (c *Connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if _, err := c.conn.Write(data); err != nil {
				c.closeWithEvent()
				return
			}
		}
	}
}

// sendDiagnosticError writes an ERROR(UNKNOWN) packet synchronously,
// best-effort, since the connection is already on its way down.
func (c *Connection) sendDiagnosticError(cause error) {
	packet := Encode(MainError, SubUnknown, []byte(cause.Error()))
	if deadline, ok := c.conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = deadline.SetWriteDeadline(time.Now().Add(writeDeadline))
	}
	_, _ = c.conn.Write(packet)
}
