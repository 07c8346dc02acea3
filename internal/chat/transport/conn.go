// Package transport provides connection handles carrying relay frames.
//
// Plain TCP connections are used as is. Websocket connections are adapted so that
// every binary message is one frame, which keeps frame boundaries exact on that transport.
package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// Conn - transport handle of a single peer.
// net.Conn satisfies it.
type Conn interface {
	io.ReadWriteCloser
	RemoteAddr() net.Addr
}

// writeDeadliner - implemented by transports supporting write timeouts.
type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// SetWriteTimeout - arms write deadline on conn if transport supports it and timeout is positive.
func SetWriteTimeout(conn Conn, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	if d, ok := conn.(writeDeadliner); ok {
		d.SetWriteDeadline(time.Now().Add(timeout))
	}
}

// Dial - opens TCP connection to the relay.
func Dial(ctx context.Context, host string, port int) (Conn, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("transport.Dial: %w", err)
	}
	return conn, nil
}

// FormatAddress - formats peer address for logging purposes.
func FormatAddress(a net.Addr) string {
	if a == nil {
		return "unknown"
	}
	return fmt.Sprintf("%s %s", a.Network(), a.String())
}
