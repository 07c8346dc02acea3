package broker

import (
	"errors"
	"net"
	"sync"
)

var errBrokenPipe = errors.New("broken pipe")

// recorder - in-memory transport remembering every written frame.
type recorder struct {
	mu     sync.Mutex
	frames []string
	closed bool
	broken bool
}

func (r *recorder) Read(p []byte) (int, error) {
	return 0, errors.New("recorder: read is not supported")
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.broken || r.closed {
		return 0, errBrokenPipe
	}
	r.frames = append(r.frames, string(p))
	return len(p), nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.frames...)
}

func (r *recorder) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
