package chat

import (
	"errors"
	"io"
	"log/slog"

	"github.com/wtask/relaychat/internal/chat/broker"
	"github.com/wtask/relaychat/internal/chat/protocol"
)

// sessionState - stage of session handler.
type sessionState int

const (
	stateHandshaking sessionState = iota
	stateActive
	stateClosing
	stateClosed
)

func (st sessionState) String() string {
	switch st {
	case stateHandshaking:
		return "handshaking"
	case stateActive:
		return "active"
	case stateClosing:
		return "closing"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// sessionHandler - serves one connection, owned by its goroutine.
type sessionHandler struct {
	broker     *broker.Broker
	sess       *broker.Session
	maxNameLen int
	frameSize  int
	log        *slog.Logger

	name   string
	joined bool
}

// handle - runs session state machine until the connection is gone.
func (s *Server) handle(sess *broker.Session) {
	h := &sessionHandler{
		broker:     s.broker,
		sess:       sess,
		maxNameLen: s.maxNameLen,
		frameSize:  s.frameSize,
		log:        s.log.With("slot", sess.Slot(), "session", sess.ID()),
	}
	for st := stateHandshaking; st != stateClosed; {
		switch st {
		case stateHandshaking:
			st = h.handshake()
		case stateActive:
			st = h.relay()
		default:
			st = h.close()
		}
	}
}

// handshake - takes the first read as raw display name.
func (h *sessionHandler) handshake() sessionState {
	buf := make([]byte, h.maxNameLen)
	n, err := h.sess.Conn().Read(buf)
	if n == 0 {
		h.logReadError("handshake", err)
		return stateClosing
	}
	name := sanitizeName(buf[:n], h.maxNameLen)
	if name == "" {
		h.log.Warn("empty display name", "addr", h.sess.Addr())
		return stateClosing
	}
	if err := h.broker.Name(h.sess, name); err != nil {
		// slot was released by shutdown
		h.log.Info("handshake aborted", "err", err)
		return stateClosing
	}
	h.name = name
	h.joined = true
	h.log.Info("user joined", "name", name, "addr", h.sess.Addr(), "users", formatUsers(h.broker.Sessions()))
	h.broker.Notice(h.sess.Slot(), joinNotice(name))
	return stateActive
}

// relay - reads frames and broadcasts them until read fails.
// File frames are passed through untouched, anything else is chat text stamped with sender name.
func (h *sessionHandler) relay() sessionState {
	buf := make([]byte, h.frameSize)
	for {
		n, err := h.sess.Conn().Read(buf)
		if n > 0 {
			h.forward(buf[:n])
		}
		if err != nil || n == 0 {
			h.logReadError("relay", err)
			return stateClosing
		}
	}
}

func (h *sessionHandler) forward(frame []byte) {
	if protocol.IsFileFrame(frame) {
		h.broker.Broadcast(h.sess.Slot(), frame)
		return
	}
	// receivers read one frame at a time, stamped text must not exceed it
	if max := h.frameSize - len(h.name) - 1; len(frame) > max {
		h.log.Warn("text trimmed", "size", len(frame), "max", max)
		frame = trimText(frame, max)
	}
	h.broker.Broadcast(h.sess.Slot(), protocol.Stamp(h.name, frame))
}

// close - releases the slot and tells remaining sessions about departure.
func (h *sessionHandler) close() sessionState {
	h.broker.Part(h.sess)
	if h.joined {
		h.log.Info("user left", "name", h.name)
		// slot is free already and may be taken by a newcomer who should get the notice too
		h.broker.Notice(broker.NoSlot, partNotice(h.name))
	}
	return stateClosed
}

func (h *sessionHandler) logReadError(stage string, err error) {
	switch {
	case err == nil, errors.Is(err, io.EOF):
		h.log.Debug("connection closed by peer", "stage", stage)
	default:
		h.log.Debug("read failed", "stage", stage, "err", err)
	}
}
