package protocol

import (
	"fmt"
	"strconv"
)

// Build - encodes frame into wire bytes.
func Build(f Frame) ([]byte, error) {
	switch f.Kind {
	case KindText:
		return Stamp(f.Sender, []byte(f.Body)), nil
	case KindSystem:
		return SystemNotice(f.Body), nil
	case KindFileHeader:
		return FileHeader(f.Name, f.Size), nil
	case KindFileChunk:
		return AppendChunk(nil, f.Payload), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, f.Kind)
	}
}

// Stamp - prefixes client text with sender name, as the relay does before broadcast.
func Stamp(sender string, body []byte) []byte {
	b := make([]byte, 0, len(sender)+1+len(body))
	b = append(b, sender...)
	b = append(b, Separator)
	return append(b, body...)
}

// SystemNotice - encodes relay notice.
func SystemNotice(body string) []byte {
	b := make([]byte, 0, len(systemPrefix)+len(body))
	b = append(b, systemPrefix...)
	return append(b, body...)
}

// FileHeader - encodes file header.
func FileHeader(name string, size int64) []byte {
	b := make([]byte, 0, len(headerPrefix)+len(name)+21)
	b = append(b, headerPrefix...)
	b = append(b, name...)
	b = append(b, Separator)
	return strconv.AppendInt(b, size, 10)
}

// AppendChunk - appends tagged file chunk to dst and returns extended slice.
// Reuse dst[:0] to encode chunks of the same file without allocations.
func AppendChunk(dst, payload []byte) []byte {
	dst = append(dst, chunkPrefix...)
	return append(dst, payload...)
}
