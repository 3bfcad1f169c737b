// Package session ties one connected client to its transport. The
// write goroutine drains the session's send channel back to the
// client; separating reads and writes avoids head-of-line blocking
// when a client is slow.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// sendBuffer is the number of outbound lines queued per session before
// the connection is considered too slow and dropped.
const sendBuffer = 32

// Transport is one client's framed bidirectional byte stream. Framing
// (newline, websocket text frame) is the transport's concern.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// Session represents a single connected client.
type Session struct {
	ID       int64
	ConnID   string // correlation id for logs
	Nickname string

	// RoomID is 0 while not in a room. It is mutated only by the
	// session's own connection goroutine.
	RoomID int64

	transport Transport
	send      chan string
	done      chan struct{}
	closeOnce sync.Once
}

// New wraps a transport in a Session and starts its write pump.
func New(id int64, nickname string, t Transport) *Session {
	s := &Session{
		ID:        id,
		ConnID:    uuid.NewString(),
		Nickname:  nickname,
		transport: t,
		send:      make(chan string, sendBuffer),
		done:      make(chan struct{}),
	}
	go s.writePump()
	return s
}

// ReadLine blocks on the next inbound line from the client.
func (s *Session) ReadLine() (string, error) {
	return s.transport.ReadLine()
}

// Send queues a line for delivery. Lines queued from one goroutine are
// delivered in order. A session whose buffer is full is dropped rather
// than allowed to block its room.
func (s *Session) Send(line string) {
	select {
	case <-s.done:
	case s.send <- line:
	default:
		s.Close()
	}
}

// Sendf formats and queues a line.
func (s *Session) Sendf(format string, args ...any) {
	s.Send(fmt.Sprintf(format, args...))
}

// Close signals shutdown. The write pump drains lines already queued,
// then closes the transport, so a farewell sent just before Close still
// reaches the client. Safe to call multiple times and from any
// goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once the session has been shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) writePump() {
	defer s.transport.Close()
	for {
		select {
		case line := <-s.send:
			if err := s.transport.WriteLine(line); err != nil {
				return
			}
		case <-s.done:
			for {
				select {
				case line := <-s.send:
					if err := s.transport.WriteLine(line); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}
