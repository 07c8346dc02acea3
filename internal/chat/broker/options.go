package broker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// WithCapacity - overwrites default number of registry slots.
func WithCapacity(capacity int) Option {
	return func(b *Broker) error {
		if capacity <= 0 {
			return fmt.Errorf("broker.WithCapacity: invalid capacity (%d)", capacity)
		}
		b.capacity = capacity
		return nil
	}
}

// WithWriteTimeout - limits duration of a single send to a session.
// Zero timeout, the default, means sends block until transport accepts data.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(b *Broker) error {
		if timeout < 0 {
			return fmt.Errorf("broker.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		b.writeTimeout = timeout
		return nil
	}
}

// WithLogger - attach logger for send failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) error {
		if logger == nil {
			return errors.New("broker.WithLogger: logger is nil")
		}
		b.log = logger
		return nil
	}
}
