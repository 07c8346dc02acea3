package protocol

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/wtask/relaychat/internal/chat/message"
)

// IsChunk - reports whether raw frame starts with file chunk tag.
func IsChunk(raw []byte) bool {
	return bytes.HasPrefix(raw, chunkPrefix)
}

// IsFileHeader - reports whether raw frame starts with file header tag.
func IsFileHeader(raw []byte) bool {
	return bytes.HasPrefix(raw, headerPrefix)
}

// IsFileFrame - reports whether raw frame belongs to file transfer
// and must be relayed without sender stamp.
func IsFileFrame(raw []byte) bool {
	return IsFileHeader(raw) || IsChunk(raw)
}

// Classify - classifies raw frame taking into account the state of file reception on the connection.
// While reception is active every frame must be a chunk, anything else is ErrUnexpectedFrame.
func Classify(raw []byte, receiving bool) (Frame, error) {
	if !receiving {
		return Parse(raw)
	}
	if !IsChunk(raw) {
		return Frame{}, fmt.Errorf("%w: %d byte(s) without %s tag", ErrUnexpectedFrame, len(raw), TagData)
	}
	return NewFileChunk(raw[ChunkTagLen:]), nil
}

// Parse - classifies raw frame by its prefix: file chunk, file header, system notice, otherwise text.
// Payload of returned chunk refers to raw.
func Parse(raw []byte) (Frame, error) {
	switch {
	case IsChunk(raw):
		return NewFileChunk(raw[ChunkTagLen:]), nil
	case IsFileHeader(raw):
		return parseHeader(raw[len(headerPrefix):])
	case bytes.HasPrefix(raw, systemPrefix):
		return NewSystemNotice(message.Decode(raw[len(systemPrefix):])), nil
	default:
		return parseText(raw)
	}
}

func parseHeader(rest []byte) (Frame, error) {
	i := bytes.IndexByte(rest, Separator)
	if i < 0 {
		return Frame{}, fmt.Errorf("%w: missing size separator", ErrMalformedHeader)
	}
	if i == 0 {
		return Frame{}, fmt.Errorf("%w: empty file name", ErrMalformedHeader)
	}
	size, err := strconv.ParseInt(string(rest[i+1:]), 10, 64)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: invalid size %q", ErrMalformedHeader, rest[i+1:])
	}
	if size < 0 {
		return Frame{}, fmt.Errorf("%w: negative size %d", ErrMalformedHeader, size)
	}
	return NewFileHeader(message.Decode(rest[:i]), size), nil
}

func parseText(raw []byte) (Frame, error) {
	text := message.Decode(raw)
	i := strings.IndexByte(text, Separator)
	if i < 0 {
		return Frame{}, ErrMalformedText
	}
	return NewText(text[:i], text[i+1:]), nil
}
