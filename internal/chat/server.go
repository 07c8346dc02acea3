package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/wtask/relaychat/internal/chat/broker"
	"github.com/wtask/relaychat/internal/chat/protocol"
	"github.com/wtask/relaychat/internal/chat/transport"
	"github.com/wtask/relaychat/pkg/background"
)

// ErrServerClosed - returns by Serve methods after Shutdown.
var ErrServerClosed = errors.New("chat.Server: closed")

// Server - flat single-channel relay over any net.Listener implementation.
// Every accepted connection gets a registry slot and its own session handler goroutine.
type Server struct {
	maxNameLen    int
	frameSize     int
	log           *slog.Logger
	brokerOptions []broker.Option

	broker *broker.Broker
	scope  *background.Scope
}

// NewServer - creates new chat server which ready to serve several listeners.
func NewServer(options ...serverOption) (*Server, error) {
	s := &Server{
		maxNameLen: protocol.DefaultMaxNameLen,
		frameSize:  protocol.DefaultFrameSize,
		log:        slog.New(slog.DiscardHandler),
	}
	if err := setup(s, options...); err != nil {
		return nil, err
	}
	if s.frameSize <= s.maxNameLen+1 {
		return nil, fmt.Errorf("chat.NewServer: frame size (%d) leaves no room for text after name (%d)", s.frameSize, s.maxNameLen)
	}
	b, err := broker.New(append(s.brokerOptions, broker.WithLogger(s.log))...)
	if err != nil {
		return nil, fmt.Errorf("chat.NewServer: can't build broker: %w", err)
	}
	s.broker = b
	s.scope, _ = background.NewScope()
	return s, nil
}

// Serve - accepts connections of given listener until Shutdown or listener failure.
// Returns nil when stopped by Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server: listener is nil")
	}
	if !s.scope.Go(func(ctx context.Context) {
		<-ctx.Done()
		listener.Close()
	}) {
		return ErrServerClosed
	}
	s.log.Info("listen", "addr", transport.FormatAddress(listener.Addr()))

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.scope.Context().Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			delay = acceptBackoff(delay)
			s.log.Error("accept failed", "err", err, "retry", delay)
			select {
			case <-time.After(delay):
			case <-s.scope.Context().Done():
			}
			continue
		}
		delay = 0
		s.Accept(conn)
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// acceptBackoff - returns next pause after failed accept, doubling up to maxAcceptDelay.
func acceptBackoff(prev time.Duration) time.Duration {
	if prev <= 0 {
		return minAcceptDelay
	}
	if prev*2 > maxAcceptDelay {
		return maxAcceptDelay
	}
	return prev * 2
}

// ServeWebsocket - serves websocket gateway on given listener, see WebsocketHandler.
func (s *Server) ServeWebsocket(listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server: listener is nil")
	}
	srv := &http.Server{
		Handler:           s.WebsocketHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if !s.scope.Go(func(ctx context.Context) {
		<-ctx.Done()
		srv.Close()
	}) {
		return ErrServerClosed
	}
	s.log.Info("listen websocket", "addr", transport.FormatAddress(listener.Addr()))
	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// WebsocketHandler - returns HTTP handler upgrading requests to websocket sessions.
// Websocket peers exchange the same frames as TCP peers, one binary message per frame.
func (s *Server) WebsocketHandler() http.Handler {
	return transport.WebsocketHandler(s.frameSize, s.Accept)
}

// Accept - keeps connection in the registry and starts its session handler.
// When the registry is full the peer gets a notice and the connection is closed at once.
func (s *Server) Accept(conn transport.Conn) {
	sess, err := s.broker.Join(conn)
	if err != nil {
		addr := transport.FormatAddress(conn.RemoteAddr())
		if errors.Is(err, broker.ErrFull) {
			s.log.Warn("connection rejected", "addr", addr, "capacity", s.broker.Cap())
			transport.SetWriteTimeout(conn, time.Second)
			conn.Write(protocol.SystemNotice(noticeFull))
		} else {
			s.log.Info("connection dropped", "addr", addr, "err", err)
		}
		conn.Close()
		return
	}
	s.log.Info("connection accepted", "slot", sess.Slot(), "session", sess.ID(), "addr", sess.Addr())
	if !s.scope.Go(func(context.Context) { s.handle(sess) }) {
		s.broker.Part(sess)
	}
}

// Sessions - returns snapshot of connected sessions.
func (s *Server) Sessions() []broker.SessionInfo {
	return s.broker.Sessions()
}

// Shutdown - stops server with the specified timeout and returns stopping duration.
// Listeners are closed, every session is notified and disconnected.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	if s.scope.Context().Err() != nil {
		return 0
	}
	from := time.Now()
	s.scope.Cancel()
	s.broker.Notice(broker.NoSlot, noticeShutdown)
	s.broker.Quit()
	if !s.scope.Wait(timeout) {
		s.log.Warn("shutdown timed out", "sessions", s.broker.Len())
	}
	return time.Since(from)
}
