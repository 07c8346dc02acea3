package client

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wtask/relaychat/internal/chat/protocol"
)

// Option - configures Engine.
type Option func(e *Engine) error

// WithNotifier - attach receiver of engine events.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) error {
		if n == nil {
			return errors.New("client.WithNotifier: notifier is nil")
		}
		e.notifier = n
		return nil
	}
}

// WithStagingDir - overwrites directory for incoming files, current directory by default.
func WithStagingDir(dir string) Option {
	return func(e *Engine) error {
		if dir == "" {
			return errors.New("client.WithStagingDir: dir is empty")
		}
		e.stagingDir = dir
		return nil
	}
}

// WithPacing - overwrites pauses made after handshake, after file header and between file chunks.
// Pauses let the relay drain its buffers, they are not required for correctness.
func WithPacing(handshake, header, chunk time.Duration) Option {
	return func(e *Engine) error {
		if handshake < 0 || header < 0 || chunk < 0 {
			return fmt.Errorf("client.WithPacing: negative pause (%v, %v, %v)", handshake, header, chunk)
		}
		e.handshakePause, e.headerPause, e.chunkPause = handshake, header, chunk
		return nil
	}
}

// WithFrameSize - overwrites max size of outgoing frame.
func WithFrameSize(n int) Option {
	return func(e *Engine) error {
		if n <= protocol.ChunkTagLen {
			return fmt.Errorf("client.WithFrameSize: frame size (%d) must be greater than %d", n, protocol.ChunkTagLen)
		}
		e.frameSize = n
		return nil
	}
}

// WithMaxNameLen - overwrites max length of display name in bytes.
func WithMaxNameLen(n int) Option {
	return func(e *Engine) error {
		if n <= 0 {
			return fmt.Errorf("client.WithMaxNameLen: invalid length (%d)", n)
		}
		e.maxNameLen = n
		return nil
	}
}

// WithLogger - attach engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("client.WithLogger: logger is nil")
		}
		e.log = logger
		return nil
	}
}
