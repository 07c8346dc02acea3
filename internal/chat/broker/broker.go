package broker

import (
	"log/slog"
	"time"

	"github.com/wtask/relaychat/internal/chat/protocol"
	"github.com/wtask/relaychat/internal/chat/transport"
)

// DefaultCapacity - default max number of concurrent sessions.
const DefaultCapacity = 20

// Broker - chat sessions keeper and broadcast relay.
type Broker struct {
	capacity     int
	writeTimeout time.Duration
	log          *slog.Logger

	clients *Registry
}

// Option - configures Broker, see With* functions.
type Option func(b *Broker) error

func setup(b *Broker, options ...Option) error {
	if b == nil {
		return nil
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(b); err != nil {
			return err
		}
	}
	return nil
}

// New - builds Broker with needed options.
func New(options ...Option) (*Broker, error) {
	b := &Broker{
		capacity: DefaultCapacity,
		log:      slog.New(slog.DiscardHandler),
	}
	if err := setup(b, options...); err != nil {
		return nil, err
	}
	clients, err := NewRegistry(b.capacity, b.log)
	if err != nil {
		return nil, err
	}
	b.clients = clients
	return b, nil
}

// Join - keeps new connection in the first free slot.
// On error the connection is not kept and must be closed by the caller.
func (b *Broker) Join(conn transport.Conn) (*Session, error) {
	return b.clients.Acquire(conn)
}

// Name - assigns display name to joined session.
func (b *Broker) Name(s *Session, name string) error {
	return b.clients.SetName(s, name)
}

// Part - releases session slot and closes its connection. Safe to call repeatedly.
func (b *Broker) Part(s *Session) bool {
	return b.clients.Release(s)
}

// Broadcast - sends frame to every kept session except the one in given slot.
// The registry stays locked for the whole fan-out, so frames of different senders never interleave
// on a session, and a slow peer delays others. Returns number of sessions reached.
func (b *Broker) Broadcast(from SlotID, frame []byte) int {
	return b.clients.ForEachOther(from, func(s *Session) error {
		transport.SetWriteTimeout(s.conn, b.writeTimeout)
		_, err := s.conn.Write(frame)
		return err
	})
}

// Notice - broadcasts system notice.
func (b *Broker) Notice(from SlotID, body string) int {
	return b.Broadcast(from, protocol.SystemNotice(body))
}

// Sessions - returns snapshot of kept sessions.
func (b *Broker) Sessions() []SessionInfo {
	return b.clients.Snapshot()
}

// Len - returns number of kept sessions.
func (b *Broker) Len() int {
	return b.clients.Len()
}

// Cap - returns max number of sessions.
func (b *Broker) Cap() int {
	return b.clients.Cap()
}

// Quit - refuses new sessions and closes connections of kept ones,
// session handlers observe read errors and part.
func (b *Broker) Quit() {
	b.clients.Close()
}
