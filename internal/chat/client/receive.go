package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wtask/relaychat/internal/chat/protocol"
)

const noticeDisconnected = "disconnected from server"

// reception - state of incoming file, at most one per connection.
type reception struct {
	name      string
	path      string
	remaining int64
	file      *os.File
}

// receiver - owned by receive loop goroutine, so it needs no locking.
type receiver struct {
	engine *Engine
	log    *slog.Logger
	active *reception
}

// readSize - one read takes at most one frame. Relayed chunks are exactly frame size,
// a larger read would swallow the tag of the next queued chunk.
func (e *Engine) readSize() int {
	return e.frameSize
}

func (e *Engine) receiveLoop(ctx context.Context) {
	defer close(e.done)
	r := &receiver{engine: e, log: e.log}
	buf := make([]byte, e.readSize())
	for {
		n, err := e.conn.Read(buf)
		if n > 0 {
			r.handle(buf[:n])
		}
		if err != nil || n == 0 {
			if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
				e.log.Warn("read failed", "err", err)
			}
			break
		}
	}
	r.abort()
	e.log.Info(noticeDisconnected)
	e.notifier.NotifySystemEvent(noticeDisconnected)
}

// handle - dispatches single frame.
func (r *receiver) handle(raw []byte) {
	f, err := protocol.Classify(raw, r.active != nil)
	if err != nil {
		r.log.Warn("frame dropped", "size", len(raw), "err", err)
		return
	}
	switch f.Kind {
	case protocol.KindFileChunk:
		if r.active == nil {
			r.log.Warn("frame dropped", "size", len(raw), "err", "file chunk without header")
			return
		}
		r.write(f.Payload)
	case protocol.KindFileHeader:
		r.begin(f.Name, f.Size)
	case protocol.KindSystem:
		r.engine.notifier.NotifySystemEvent(f.Body)
	case protocol.KindText:
		r.engine.notifier.NotifyIncomingChat(f.Sender, f.Body, false)
	}
}

// begin - opens staging file for announced file.
func (r *receiver) begin(name string, size int64) {
	path, err := r.engine.StagingPath(name)
	if err != nil {
		r.log.Warn("file refused", "file", name, "err", err)
		r.engine.notifier.NotifySystemEvent(fmt.Sprintf("file %q can not be received", name))
		return
	}
	f, err := os.Create(path)
	if err != nil {
		r.log.Error("unable to create staging file", "path", path, "err", err)
		r.engine.notifier.NotifySystemEvent(fmt.Sprintf("file %s can not be received: %v", name, err))
		return
	}
	r.active = &reception{name: name, path: path, remaining: size, file: f}
	r.log.Info("download started", "file", name, "size", size, "path", path)
	r.engine.notifier.NotifySystemEvent(fmt.Sprintf("receiving file %s (%d bytes)", name, size))
	if size == 0 {
		r.finish()
	}
}

// write - appends chunk payload, never beyond declared size.
func (r *receiver) write(payload []byte) {
	if int64(len(payload)) > r.active.remaining {
		r.log.Warn("chunk exceeds declared size", "file", r.active.name, "excess", int64(len(payload))-r.active.remaining)
		payload = payload[:r.active.remaining]
	}
	if _, err := r.active.file.Write(payload); err != nil {
		r.log.Error("unable to write staging file", "path", r.active.path, "err", err)
		r.abort()
		return
	}
	r.active.remaining -= int64(len(payload))
	if r.active.remaining == 0 {
		r.finish()
	}
}

func (r *receiver) finish() {
	rc := r.active
	r.active = nil
	if err := rc.file.Close(); err != nil {
		r.log.Error("unable to close staging file", "path", rc.path, "err", err)
		r.engine.notifier.NotifySystemEvent(fmt.Sprintf("file %s can not be received: %v", rc.name, err))
		return
	}
	r.log.Info("download completed", "file", rc.name, "path", rc.path)
	r.engine.notifier.NotifyIncomingFile(rc.name)
}

// abort - drops active reception, the partially written file stays on disk.
func (r *receiver) abort() {
	if r.active == nil {
		return
	}
	rc := r.active
	r.active = nil
	rc.file.Close()
	r.log.Warn("download aborted", "file", rc.name, "path", rc.path, "missing", rc.remaining)
	r.engine.notifier.NotifySystemEvent(fmt.Sprintf("file %s is incomplete, partial data left in %s", rc.name, rc.path))
}
