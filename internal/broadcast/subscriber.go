package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// writeWait bounds how long one slow subscriber can hold a send before
// it is treated as failed and dropped.
const writeWait = 2 * time.Second

// Conn is the subset of *websocket.Conn the broadcaster needs. Tests
// substitute fakes; production code passes the gorilla connection.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber is one accepted network connection eligible to receive
// broadcast payloads. Lifecycle is Open until the first close or send
// failure, then Closed, terminal. There is no separate error state; an
// errored subscriber just reads as Closed.
type Subscriber struct {
	ID     string
	Remote string

	conn    Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSubscriber wraps an accepted connection in the Open state.
func NewSubscriber(conn Conn, remote string) *Subscriber {
	return &Subscriber{
		ID:     uuid.NewString(),
		Remote: remote,
		conn:   conn,
	}
}

// Send writes one serialized payload with a bounded deadline. Concurrent
// sends and closes are serialized; a send to a closed subscriber reports
// websocket.ErrCloseSent without touching the connection.
func (s *Subscriber) Send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return websocket.ErrCloseSent
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close transitions the subscriber to Closed and closes the underlying
// connection. Idempotent; only the first call touches the connection.
func (s *Subscriber) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Closed reports whether the subscriber has reached its terminal state.
func (s *Subscriber) Closed() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.closed
}
