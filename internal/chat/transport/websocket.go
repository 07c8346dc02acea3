package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketConn - adapts websocket connection to Conn.
// Every Write sends one binary message, Read returns the next message,
// a message longer than the read buffer is returned by subsequent reads.
type WebsocketConn struct {
	ws *websocket.Conn

	rmu     sync.Mutex
	pending []byte

	wmu sync.Mutex
}

// NewWebsocketConn - wraps established websocket connection.
func NewWebsocketConn(ws *websocket.Conn) *WebsocketConn {
	return &WebsocketConn{ws: ws}
}

func (c *WebsocketConn) Read(p []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	for len(c.pending) == 0 {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		c.pending = data
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *WebsocketConn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close - sends close message and closes underlying network connection.
func (c *WebsocketConn) Close() error {
	c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := c.ws.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// RemoteAddr - returns peer address.
func (c *WebsocketConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// SetWriteDeadline - sets deadline for the next writes.
func (c *WebsocketConn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}

// WebsocketHandler - upgrades HTTP requests to websocket and passes every new Conn to accept.
// accept must not block, the handler returns as soon as it was called.
func WebsocketHandler(frameSize int, accept func(Conn)) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  frameSize,
		WriteBufferSize: frameSize,
		// relay is open for everybody, there is no authentication
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with HTTP error
			return
		}
		accept(NewWebsocketConn(ws))
	})
}

// DialWebsocket - opens websocket connection to the relay gateway, url scheme is ws or wss.
func DialWebsocket(ctx context.Context, url string) (Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("transport.DialWebsocket: %w (status %s)", err, resp.Status)
		}
		return nil, fmt.Errorf("transport.DialWebsocket: %w", err)
	}
	return NewWebsocketConn(ws), nil
}
