package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wtask/relaychat/internal/chat/broker"
	"github.com/wtask/relaychat/internal/chat/protocol"
)

type serverOption func(s *Server) error

func setup(s *Server, options ...serverOption) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return err
		}
	}
	return nil
}

// WithCapacity - overwrites max number of concurrent sessions.
func WithCapacity(capacity int) serverOption {
	return func(s *Server) error {
		s.brokerOptions = append(s.brokerOptions, broker.WithCapacity(capacity))
		return nil
	}
}

// WithWriteTimeout - limits duration of a single send to a session, zero disables the limit.
func WithWriteTimeout(timeout time.Duration) serverOption {
	return func(s *Server) error {
		s.brokerOptions = append(s.brokerOptions, broker.WithWriteTimeout(timeout))
		return nil
	}
}

// WithMaxNameLen - overwrites max length of display name in bytes.
func WithMaxNameLen(n int) serverOption {
	return func(s *Server) error {
		if n <= 0 {
			return fmt.Errorf("chat.WithMaxNameLen: invalid length (%d)", n)
		}
		s.maxNameLen = n
		return nil
	}
}

// WithFrameSize - overwrites max number of bytes taken by single read.
func WithFrameSize(n int) serverOption {
	return func(s *Server) error {
		if n <= protocol.ChunkTagLen {
			return fmt.Errorf("chat.WithFrameSize: frame size (%d) must be greater than %d", n, protocol.ChunkTagLen)
		}
		s.frameSize = n
		return nil
	}
}

// WithLogger - attach server logger.
func WithLogger(logger *slog.Logger) serverOption {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("chat.WithLogger: logger is nil")
		}
		s.log = logger
		return nil
	}
}
