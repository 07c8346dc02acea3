// Package history keeps the latest transcript lines of a chat client.
package history

import (
	"fmt"
	"sync"
	"time"
)

// Kind - origin of transcript entry.
type Kind int

const (
	// Chat - line received from other participant.
	Chat Kind = iota
	// Own - line sent by local user.
	Own
	// System - relay notice or local status.
	System
)

// Entry - single transcript line.
type Entry struct {
	Time   time.Time
	Kind   Kind
	Sender string
	Body   string
}

// String - renders entry as "HH:MM:SS sender: body", system lines have no sender.
func (e Entry) String() string {
	ts := e.Time.Format(time.TimeOnly)
	if e.Kind == System {
		return fmt.Sprintf("%s * %s", ts, e.Body)
	}
	return fmt.Sprintf("%s %s: %s", ts, e.Sender, e.Body)
}

// Stack - accumulates a limited number of entries, the oldest one is dropped on overflow.
type Stack struct {
	max  int
	mu   sync.RWMutex
	data []Entry
}

// NewStack - build history stack.
func NewStack(max int) (*Stack, error) {
	if max <= 0 {
		return nil, fmt.Errorf("history.NewStack: max (%d) must be greater than 0", max)
	}
	return &Stack{max: max, data: make([]Entry, 0, max)}, nil
}

// Len - returns number of stored entries.
func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Push - adds entry, zero time is replaced with current time.
func (s *Stack) Push(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == s.max {
		s.data = append(s.data[:0], s.data[1:]...)
	}
	s.data = append(s.data, e)
}

// Tail - makes copy of last n entries, the first one is the oldest.
// Negative n is treated as absolute value.
func (s *Stack) Tail(n int) []Entry {
	if n < 0 {
		n = -n
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.data) {
		n = len(s.data)
	}
	tail := make([]Entry, n)
	copy(tail, s.data[len(s.data)-n:])
	return tail
}
