package client

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

const waitTimeout = 3 * time.Second

type chatEvent struct {
	sender, body string
	own          bool
}

// events - Notifier collecting engine events into channels.
type events struct {
	system chan string
	chat   chan chatEvent
	files  chan string
}

func newEvents() *events {
	return &events{
		system: make(chan string, 64),
		chat:   make(chan chatEvent, 64),
		files:  make(chan string, 64),
	}
}

func (ev *events) NotifySystemEvent(text string) { ev.system <- text }

func (ev *events) NotifyIncomingChat(sender, body string, own bool) {
	ev.chat <- chatEvent{sender, body, own}
}

func (ev *events) NotifyIncomingFile(name string) { ev.files <- name }

func (ev *events) expectSystem(test *testing.T, expected string) {
	test.Helper()
	select {
	case text := <-ev.system:
		if text != expected {
			test.Errorf("Expected system event %q, actual %q", expected, text)
		}
	case <-time.After(waitTimeout):
		test.Fatalf("There is no system event %q", expected)
	}
}

func (ev *events) expectChat(test *testing.T, expected chatEvent) {
	test.Helper()
	select {
	case actual := <-ev.chat:
		if actual != expected {
			test.Errorf("Expected chat event %+v, actual %+v", expected, actual)
		}
	case <-time.After(waitTimeout):
		test.Fatalf("There is no chat event %+v", expected)
	}
}

func (ev *events) expectFile(test *testing.T, expected string) {
	test.Helper()
	select {
	case actual := <-ev.files:
		if actual != expected {
			test.Errorf("Expected incoming file %q, actual %q", expected, actual)
		}
	case <-time.After(waitTimeout):
		test.Fatalf("There is no incoming file %q", expected)
	}
}

func (ev *events) expectNoFile(test *testing.T) {
	test.Helper()
	select {
	case name := <-ev.files:
		test.Errorf("Unexpected incoming file %q", name)
	case <-time.After(50 * time.Millisecond):
	}
}

// openPiped - opens engine over in-memory pipe, every remote write is exactly one frame.
func openPiped(test *testing.T, name string, options ...Option) (*Engine, net.Conn, *events) {
	test.Helper()
	local, remote := net.Pipe()
	handshake := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := remote.Read(buf)
		handshake <- string(buf[:n])
	}()
	ev := newEvents()
	options = append(
		[]Option{WithNotifier(ev), WithStagingDir(test.TempDir()), WithPacing(0, 0, 0)},
		options...,
	)
	e, err := Open(local, name, options...)
	if err != nil {
		test.Fatal("client.Open: unexpected error", err)
	}
	test.Cleanup(func() {
		remote.Close()
		e.Close()
	})
	if actual := <-handshake; actual != name {
		test.Fatalf("Expected handshake %q, actual %q", name, actual)
	}
	return e, remote, ev
}

// readFrame - reads single frame written by engine into pipe.
func readFrame(test *testing.T, conn net.Conn) string {
	test.Helper()
	conn.SetReadDeadline(time.Now().Add(waitTimeout))
	buf := make([]byte, 8192)
	n, err := conn.Read(buf)
	if err != nil {
		test.Fatal("Unable to read frame:", err)
	}
	return string(buf[:n])
}

// streamConn - byte stream transport, a read takes as much of the current segment as fits,
// so frames queued in one segment arrive coalesced like on a busy TCP socket.
type streamConn struct {
	mu       sync.Mutex
	segments [][]byte
}

func (c *streamConn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.segments) > 0 && len(c.segments[0]) == 0 {
		c.segments = c.segments[1:]
	}
	if len(c.segments) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.segments[0])
	c.segments[0] = c.segments[0][n:]
	return n, nil
}

func (c *streamConn) Write(p []byte) (int, error) { return len(p), nil }

func (c *streamConn) Close() error { return nil }

func (c *streamConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}
