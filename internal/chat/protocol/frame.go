// Package protocol implements the relay wire format.
//
// The format has no explicit framing: one transport read is one frame.
// Stream transports may split or merge frames on a slow link,
// the format is kept as is to stay compatible with existing peers.
//
//	Text (server to client)  <name>:<body>
//	System notice            [SYSTEM]:<body>
//	File header              [FILE]:<basename>:<decimal size>
//	File chunk               [DATA]<raw payload>
//
// Clients send chat text without any prefix, the relay stamps it with the sender name.
package protocol

import "fmt"

const (
	// TagSystem - marks notices generated by the relay.
	TagSystem = "[SYSTEM]"
	// TagFile - marks file header.
	TagFile = "[FILE]"
	// TagData - marks file chunk. Chunk tag is not followed by separator.
	TagData = "[DATA]"
	// Separator - delimits fields of text, notice and header frames.
	Separator = ':'

	// ChunkTagLen - length of file chunk tag in bytes.
	ChunkTagLen = len(TagData)
	// DefaultFrameSize - ceiling of bytes taken by a single transport read.
	DefaultFrameSize = 4096
	// DefaultMaxNameLen - default limit for display name length in bytes.
	DefaultMaxNameLen = 32
)

var (
	systemPrefix = []byte(TagSystem + string(Separator))
	headerPrefix = []byte(TagFile + string(Separator))
	chunkPrefix  = []byte(TagData)
)

// Kind - frame variant.
type Kind int

const (
	_ Kind = iota
	// KindText - chat text stamped with sender name.
	KindText
	// KindSystem - relay notice.
	KindSystem
	// KindFileHeader - announces file name and size, chunks follow.
	KindFileHeader
	// KindFileChunk - part of file content.
	KindFileChunk
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSystem:
		return "system"
	case KindFileHeader:
		return "file-header"
	case KindFileChunk:
		return "file-chunk"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Frame - classified unit of wire exchange.
// Only the fields related to Kind are meaningful.
type Frame struct {
	Kind Kind
	// Sender and Body of text frame, Body of system notice
	Sender, Body string
	// Name and Size declared by file header
	Name string
	Size int64
	// Payload of file chunk, refers to the source buffer when frame is parsed
	Payload []byte
}

// NewText - builds text frame.
func NewText(sender, body string) Frame {
	return Frame{Kind: KindText, Sender: sender, Body: body}
}

// NewSystemNotice - builds system notice frame.
func NewSystemNotice(body string) Frame {
	return Frame{Kind: KindSystem, Body: body}
}

// NewFileHeader - builds file header frame.
func NewFileHeader(name string, size int64) Frame {
	return Frame{Kind: KindFileHeader, Name: name, Size: size}
}

// NewFileChunk - builds file chunk frame.
func NewFileChunk(payload []byte) Frame {
	return Frame{Kind: KindFileChunk, Payload: payload}
}

// MaxChunkPayload - returns max payload size of file chunk fitting into frame of given size.
func MaxChunkPayload(frameSize int) int {
	if frameSize <= ChunkTagLen {
		return 0
	}
	return frameSize - ChunkTagLen
}
