package broker

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestNewRegistry(test *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := NewRegistry(capacity, nil); err == nil {
			test.Errorf("NewRegistry(%d): expected error, got nil", capacity)
		}
	}
	r, err := NewRegistry(3, nil)
	if err != nil {
		test.Fatal("NewRegistry: unexpected error", err)
	}
	if r.Cap() != 3 || r.Len() != 0 {
		test.Error("Unexpected registry size", r.Cap(), r.Len())
	}
}

func TestRegistry_Acquire_Capacity(test *testing.T) {
	r, _ := NewRegistry(3, nil)
	sessions := []*Session{}
	for i := 0; i < 3; i++ {
		s, err := r.Acquire(&recorder{})
		if err != nil {
			test.Fatal("Acquire: unexpected error", err)
		}
		if s.Slot() != SlotID(i) {
			test.Errorf("Expected slot %d, actual %d", i, s.Slot())
		}
		sessions = append(sessions, s)
	}

	extra := &recorder{}
	if _, err := r.Acquire(extra); !errors.Is(err, ErrFull) {
		test.Error("Expected error:", ErrFull, "got:", err)
	}
	if extra.isClosed() {
		test.Error("Registry must not close rejected connection")
	}
	if r.Len() != 3 {
		test.Error("Rejected acquire changed registry", r.Len())
	}

	if !r.Release(sessions[1]) {
		test.Error("Release of occupied slot reported false")
	}
	s, err := r.Acquire(&recorder{})
	if err != nil {
		test.Fatal("Acquire after release: unexpected error", err)
	}
	if s.Slot() != 1 {
		test.Error("Expected freed slot 1 to be reused, got", s.Slot())
	}
}

func TestRegistry_Acquire_Concurrent(test *testing.T) {
	const capacity = 16
	r, _ := NewRegistry(capacity, nil)
	wg := sync.WaitGroup{}
	mu := sync.Mutex{}
	slots := map[SlotID]bool{}
	rejected := 0
	for i := 0; i < capacity+4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Acquire(&recorder{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rejected++
				return
			}
			if slots[s.Slot()] {
				test.Error("Slot acquired twice", s.Slot())
			}
			slots[s.Slot()] = true
		}()
	}
	wg.Wait()
	if len(slots) != capacity || rejected != 4 {
		test.Errorf("Expected %d accepted and 4 rejected, got %d and %d", capacity, len(slots), rejected)
	}
}

func TestRegistry_Release(test *testing.T) {
	r, _ := NewRegistry(2, nil)
	conn := &recorder{}
	s, _ := r.Acquire(conn)
	r.SetName(s, "alice")

	if !r.Release(s) {
		test.Error("First release reported false")
	}
	if !conn.isClosed() {
		test.Error("Released connection is not closed")
	}
	if r.Release(s) {
		test.Error("Second release reported true")
	}
	if r.Release(&Session{slot: 100}) || r.Release(&Session{slot: NoSlot}) || r.Release(nil) {
		test.Error("Release of unknown slot reported true")
	}
	if s.name != "" {
		test.Error("Released session keeps name", s.name)
	}
	if err := r.SetName(s, "bob"); !errors.Is(err, ErrUnknownSlot) {
		test.Error("Expected error:", ErrUnknownSlot, "got:", err)
	}

	// stale session must not touch the newcomer in the same slot
	newcomer, _ := r.Acquire(&recorder{})
	if newcomer.Slot() != s.Slot() {
		test.Fatal("Expected slot reuse, got", newcomer.Slot())
	}
	if r.Release(s) || r.SetName(s, "ghost") == nil {
		test.Error("Stale session released or renamed the newcomer")
	}
	if r.Len() != 1 {
		test.Error("Newcomer slot was emptied")
	}
}

func TestRegistry_ForEachOther(test *testing.T) {
	r, _ := NewRegistry(4, nil)
	conns := []*recorder{{}, {}, {broken: true}, {}}
	sessions := []*Session{}
	for _, c := range conns {
		s, _ := r.Acquire(c)
		sessions = append(sessions, s)
	}

	visited := []SlotID{}
	n := r.ForEachOther(sessions[0].Slot(), func(s *Session) error {
		visited = append(visited, s.Slot())
		_, err := s.Conn().Write([]byte("x"))
		return err
	})
	if !reflect.DeepEqual(visited, []SlotID{1, 2, 3}) {
		test.Error("Unexpected visited slots", visited)
	}
	if n != 2 {
		test.Error("Expected 2 successful sends, got", n)
	}
	if len(conns[0].received()) != 0 {
		test.Error("Originator received its own frame")
	}
	if len(conns[3].received()) != 1 {
		test.Error("Failed send aborted iteration")
	}
}

func TestRegistry_Snapshot(test *testing.T) {
	r, _ := NewRegistry(3, nil)
	a, _ := r.Acquire(&recorder{})
	b, _ := r.Acquire(&recorder{})
	r.SetName(a, "alice")
	r.SetName(b, "bob")
	r.Release(a)

	list := r.Snapshot()
	if len(list) != 1 {
		test.Fatal("Unexpected snapshot length", len(list))
	}
	info := list[0]
	if info.Slot != b.Slot() || info.Name != "bob" || info.ID != b.ID() || info.JoinedAt.IsZero() {
		test.Errorf("Unexpected snapshot %+v", info)
	}
	if info.Addr != "tcp 127.0.0.1:50000" {
		test.Error("Unexpected address", info.Addr)
	}
}

func TestRegistry_Close(test *testing.T) {
	r, _ := NewRegistry(2, nil)
	conn := &recorder{}
	r.Acquire(conn)
	r.Close()
	if !conn.isClosed() {
		test.Error("Close did not close kept connection")
	}
	if _, err := r.Acquire(&recorder{}); !errors.Is(err, ErrUnderStopCondition) {
		test.Error("Expected error:", ErrUnderStopCondition, "got:", err)
	}
}
