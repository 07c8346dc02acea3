// Package background supervises groups of goroutines sharing one cancelable context.
package background

import (
	"context"
	"sync"
	"time"
)

// Scope - abstract concurrency scope
type Scope struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	// mu orders member registration against cancellation
	mu      sync.RWMutex
	members sync.WaitGroup
}

// NewScope - concurrency scope builder.
// Returned cancel func cancels scope context and waits for all members.
func NewScope() (scope *Scope, cancel func()) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	s := &Scope{
		ctx:       ctx,
		ctxCancel: cancelFunc,
	}
	return s,
		func() {
			s.Cancel()
			s.members.Wait()
		}
}

// Context - return background context
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - runs f as a scope member unless the scope is already canceled.
// Reports whether f was started.
func (s *Scope) Go(f func(ctx context.Context)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.members.Add(1)
	go func() {
		defer s.members.Done()
		f(s.ctx)
	}()
	return true
}

// Cancel - cancels scope context without waiting for members.
func (s *Scope) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxCancel()
}

// Wait - waits for all members no longer than timeout, zero timeout waits forever.
// Reports whether all members are done.
func (s *Scope) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.members.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
