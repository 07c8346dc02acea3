package main

import "sync"

// outbox - runs engine calls one by one in submission order,
// so lines typed in quick succession reach the relay as typed.
// A job returns status text for the transcript, empty text is not reported.
type outbox struct {
	mu     sync.Mutex
	jobs   []func() string
	wake   chan struct{}
	quit   chan struct{}
	once   sync.Once
	report func(text string)
}

func newOutbox(report func(text string)) *outbox {
	return &outbox{
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		report: report,
	}
}

// push - queues job without blocking the caller.
func (o *outbox) push(job func() string) {
	o.mu.Lock()
	o.jobs = append(o.jobs, job)
	o.mu.Unlock()
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// run - executes queued jobs until close.
func (o *outbox) run() {
	for {
		select {
		case <-o.quit:
			return
		case <-o.wake:
			o.flush()
		}
	}
}

func (o *outbox) flush() {
	for {
		o.mu.Lock()
		if len(o.jobs) == 0 {
			o.mu.Unlock()
			return
		}
		job := o.jobs[0]
		o.jobs = o.jobs[1:]
		o.mu.Unlock()
		if text := job(); text != "" {
			o.report(text)
		}
	}
}

func (o *outbox) close() {
	o.once.Do(func() { close(o.quit) })
}
