package broker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wtask/relaychat/internal/chat/transport"
)

// SlotID - index of registry slot.
type SlotID int

// NoSlot - refers no slot, broadcasting from NoSlot reaches every session.
const NoSlot SlotID = -1

// Session - server side state of connected client, occupies exactly one registry slot.
// Name and join time are guarded by the registry, other fields never change.
type Session struct {
	id   string
	slot SlotID
	conn transport.Conn
	addr string

	name     string
	joinedAt time.Time
}

// ID - unique session identifier for logging purposes.
func (s *Session) ID() string { return s.id }

// Slot - registry slot occupied by the session.
func (s *Session) Slot() SlotID { return s.slot }

// Addr - formatted peer address.
func (s *Session) Addr() string { return s.addr }

// Conn - session transport handle. Read it from the session handler only,
// writes are done by the registry under exclusive access.
func (s *Session) Conn() transport.Conn { return s.conn }

// SessionInfo - snapshot of occupied slot.
type SessionInfo struct {
	ID       string
	Slot     SlotID
	Addr     string
	Name     string
	JoinedAt time.Time
}

// Registry - fixed-capacity table of active sessions.
// A single mutex guards all slot reads and writes, including broadcast iteration.
type Registry struct {
	mu     sync.Mutex
	slots  []*Session
	closed bool
	log    *slog.Logger
}

// NewRegistry - builds registry with given number of slots.
func NewRegistry(capacity int, logger *slog.Logger) (*Registry, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("broker.NewRegistry: capacity (%d) must be greater than 0", capacity)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		slots: make([]*Session, capacity),
		log:   logger,
	}, nil
}

// Cap - returns number of slots.
func (r *Registry) Cap() int {
	return len(r.slots)
}

// Len - returns number of occupied slots.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// Acquire - places new session into the first empty slot.
// Returns ErrFull when there is no empty slot, the caller must close the connection.
func (r *Registry) Acquire(conn transport.Conn) (*Session, error) {
	if conn == nil {
		return nil, errors.New("broker.Registry: conn is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrUnderStopCondition
	}
	for i, s := range r.slots {
		if s != nil {
			continue
		}
		s = &Session{
			id:   uuid.NewString(),
			slot: SlotID(i),
			conn: conn,
			addr: transport.FormatAddress(conn.RemoteAddr()),
		}
		r.slots[i] = s
		return s, nil
	}
	return nil, ErrFull
}

// SetName - stores display name of the session and records join time.
func (r *Registry) SetName(s *Session, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.holds(s) {
		return ErrUnknownSlot
	}
	s.name = name
	s.joinedAt = time.Now().UTC()
	return nil
}

// Release - closes session transport, clears its name and empties its slot.
// Releasing a session which does not occupy its slot anymore does nothing,
// so the slot taken over by a newcomer stays intact. Reports whether the slot was released.
func (r *Registry) Release(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.holds(s) {
		return false
	}
	s.conn.Close()
	s.name = ""
	r.slots[s.slot] = nil
	return true
}

// ForEachOther - calls send for every occupied slot except given one, under exclusive access.
// Failed send is logged and does not stop iteration. Returns number of successful sends.
func (r *Registry) ForEachOther(id SlotID, send func(*Session) error) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i, s := range r.slots {
		if s == nil || SlotID(i) == id {
			continue
		}
		if err := send(s); err != nil {
			r.log.Warn("send failed", "slot", i, "session", s.id, "name", s.name, "err", err)
			continue
		}
		n++
	}
	return n
}

// Snapshot - returns info of occupied slots in slot order.
func (r *Registry) Snapshot() []SessionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := []SessionInfo{}
	for _, s := range r.slots {
		if s == nil {
			continue
		}
		list = append(list, SessionInfo{
			ID:       s.id,
			Slot:     s.slot,
			Addr:     s.addr,
			Name:     s.name,
			JoinedAt: s.joinedAt,
		})
	}
	return list
}

// Close - refuses new sessions and closes transports of all occupied slots.
// Slots stay occupied until session handlers release them.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, s := range r.slots {
		if s != nil {
			s.conn.Close()
		}
	}
}

// holds - reports whether the session still occupies its slot.
func (r *Registry) holds(s *Session) bool {
	if s == nil || s.slot < 0 || int(s.slot) >= len(r.slots) {
		return false
	}
	return r.slots[s.slot] == s
}
