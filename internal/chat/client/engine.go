// Package client implements the client side of the relay: handshake, chat text and file
// uploads, and the receive loop reconstituting chat lines, notices and incoming files.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wtask/relaychat/internal/chat/protocol"
	"github.com/wtask/relaychat/internal/chat/transport"
	"github.com/wtask/relaychat/pkg/background"
)

const (
	defaultHandshakePause = 50 * time.Millisecond
	defaultHeaderPause    = 50 * time.Millisecond
	defaultChunkPause     = time.Millisecond
)

// Engine - connected relay client.
// SendText and SendFile may be called from any goroutine.
type Engine struct {
	conn     transport.Conn
	name     string
	notifier Notifier
	log      *slog.Logger

	stagingDir     string
	frameSize      int
	maxNameLen     int
	handshakePause time.Duration
	headerPause    time.Duration
	chunkPause     time.Duration

	// uploads streams one file at a time, chunks of different files never interleave
	uploads   sync.Mutex
	scope     *background.Scope
	done      chan struct{}
	closeOnce sync.Once
}

func newEngine(name string, options ...Option) (*Engine, error) {
	e := &Engine{
		notifier:       Hooks{},
		log:            slog.New(slog.DiscardHandler),
		stagingDir:     ".",
		frameSize:      protocol.DefaultFrameSize,
		maxNameLen:     protocol.DefaultMaxNameLen,
		handshakePause: defaultHandshakePause,
		headerPause:    defaultHeaderPause,
		chunkPause:     defaultChunkPause,
		done:           make(chan struct{}),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(e); err != nil {
			return nil, err
		}
	}
	if e.frameSize <= e.maxNameLen+1 {
		return nil, fmt.Errorf("client: frame size (%d) leaves no room for text after name (%d)", e.frameSize, e.maxNameLen)
	}
	if err := validateName(name, e.maxNameLen); err != nil {
		return nil, err
	}
	e.name = name
	e.scope, _ = background.NewScope()
	return e, nil
}

func validateName(name string, max int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case len(name) > max:
		return fmt.Errorf("%w: name is longer than %d bytes", ErrInvalidName, max)
	case strings.IndexByte(name, protocol.Separator) >= 0:
		return fmt.Errorf("%w: name contains %q", ErrInvalidName, protocol.Separator)
	case strings.ContainsAny(name, "\r\n\x00"):
		return fmt.Errorf("%w: name contains control characters", ErrInvalidName)
	}
	return nil
}

// Connect - dials the relay over TCP and joins it with given display name.
func Connect(ctx context.Context, host string, port int, name string, options ...Option) (*Engine, error) {
	e, err := newEngine(name, options...)
	if err != nil {
		return nil, err
	}
	conn, err := transport.Dial(ctx, host, port)
	if err != nil {
		return nil, fmt.Errorf("client.Connect: %w", err)
	}
	if err := e.open(conn); err != nil {
		return nil, err
	}
	return e, nil
}

// Open - joins the relay over already established transport, for example websocket.
func Open(conn transport.Conn, name string, options ...Option) (*Engine, error) {
	if conn == nil {
		return nil, fmt.Errorf("client.Open: conn is nil")
	}
	e, err := newEngine(name, options...)
	if err != nil {
		return nil, err
	}
	if err := e.open(conn); err != nil {
		return nil, err
	}
	return e, nil
}

// open - sends raw name as handshake and starts receive loop.
func (e *Engine) open(conn transport.Conn) error {
	if _, err := conn.Write([]byte(e.name)); err != nil {
		conn.Close()
		return fmt.Errorf("client: handshake failed: %w", err)
	}
	e.conn = conn
	e.log = e.log.With("name", e.name)
	e.log.Info("connected", "addr", transport.FormatAddress(conn.RemoteAddr()))
	// the relay takes the whole first read as name, do not let next frame join it
	pause(e.scope.Context(), e.handshakePause)
	e.scope.Go(e.receiveLoop)
	return nil
}

// Name - display name used to join the relay.
func (e *Engine) Name() string {
	return e.name
}

// Done - closed when receive loop has stopped, the engine is useless after that.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// SendText - sends chat text as is, the relay stamps it with sender name.
// Text longer than frame size minus max name length and separator is refused.
// On success the text is reported back through NotifyIncomingChat as own line.
func (e *Engine) SendText(body string) error {
	if e.scope.Context().Err() != nil {
		return ErrClosed
	}
	if body == "" {
		return nil
	}
	if max := e.maxTextLen(); len(body) > max {
		return fmt.Errorf("%w: text is longer than %d bytes", ErrInvalidText, max)
	}
	if protocol.IsFileFrame([]byte(body)) {
		return fmt.Errorf("%w: text starts with file tag", ErrInvalidText)
	}
	if _, err := e.conn.Write([]byte(body)); err != nil {
		return fmt.Errorf("client.SendText: %w", err)
	}
	e.notifier.NotifyIncomingChat(e.name, body, true)
	return nil
}

// maxTextLen - the relay prepends sender name and separator, stamped text must still fit one frame.
func (e *Engine) maxTextLen() int {
	return e.frameSize - e.maxNameLen - 1
}

// Close - closes transport and waits for receive loop and uploads.
// Partially received file stays in staging directory.
func (e *Engine) Close() error {
	err := ErrClosed
	e.closeOnce.Do(func() {
		e.scope.Cancel()
		err = e.conn.Close()
		e.scope.Wait(0)
	})
	return err
}

// pause - sleeps unless context is canceled, reports whether the full pause has passed.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
