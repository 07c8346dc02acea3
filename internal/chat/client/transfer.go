package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wtask/relaychat/internal/chat/protocol"
)

// upload - outgoing file transfer.
type upload struct {
	id   string
	file *os.File
	name string
	size int64
}

// SendFile - opens file and streams it to the relay in background: one header, then chunks.
// Open failure is returned at once and no frame is sent.
// Completion or failure is reported through NotifySystemEvent. Returns transfer id.
func (e *Engine) SendFile(path string) (string, error) {
	if e.scope.Context().Err() != nil {
		return "", ErrClosed
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("client.SendFile: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return "", fmt.Errorf("client.SendFile: %w", err)
	}
	if !stat.Mode().IsRegular() {
		f.Close()
		return "", fmt.Errorf("client.SendFile: %s is not a regular file", path)
	}
	t := &upload{
		id:   uuid.NewString(),
		file: f,
		name: wireFileName(path),
		size: stat.Size(),
	}
	if !e.scope.Go(func(ctx context.Context) { e.upload(ctx, t) }) {
		f.Close()
		return "", ErrClosed
	}
	return t.id, nil
}

// wireFileName - base name of the file, separator is replaced to keep header parseable.
func wireFileName(path string) string {
	return strings.ReplaceAll(filepath.Base(path), string(protocol.Separator), "_")
}

func (e *Engine) upload(ctx context.Context, t *upload) {
	defer t.file.Close()
	log := e.log.With("transfer", t.id, "file", t.name)

	e.uploads.Lock()
	defer e.uploads.Unlock()

	log.Info("upload started", "size", t.size)
	sent, err := e.stream(ctx, t)
	if err != nil {
		log.Error("upload failed", "sent", sent, "size", t.size, "err", err)
		e.notifier.NotifySystemEvent(fmt.Sprintf("file %s was not sent: %v", t.name, err))
		return
	}
	log.Info("upload completed", "sent", sent, "size", t.size)
	e.notifier.NotifySystemEvent(fmt.Sprintf("file %s sent (%d bytes)", t.name, sent))
}

// stream - writes header and chunks, returns number of payload bytes sent.
func (e *Engine) stream(ctx context.Context, t *upload) (int64, error) {
	if _, err := e.conn.Write(protocol.FileHeader(t.name, t.size)); err != nil {
		return 0, err
	}
	if !pause(ctx, e.headerPause) {
		return 0, ErrClosed
	}

	// file may grow after stat, the header has declared the size already
	src := io.LimitReader(t.file, t.size)
	buf := make([]byte, protocol.MaxChunkPayload(e.frameSize))
	frame := make([]byte, 0, e.frameSize)
	var sent int64
	for {
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			frame = protocol.AppendChunk(frame[:0], buf[:n])
			if _, werr := e.conn.Write(frame); werr != nil {
				return sent, werr
			}
			sent += int64(n)
			if !pause(ctx, e.chunkPause) {
				return sent, ErrClosed
			}
		}
		switch {
		case err == io.EOF, err == io.ErrUnexpectedEOF:
			if sent < t.size {
				return sent, fmt.Errorf("file shrank to %d of declared %d bytes", sent, t.size)
			}
			return sent, nil
		case err != nil:
			return sent, err
		}
	}
}
