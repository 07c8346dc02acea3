package protocol

import "errors"

var (
	// ErrMalformedHeader - file header misses a separator, has empty name or invalid size.
	ErrMalformedHeader = errors.New("protocol: malformed file header")

	// ErrMalformedText - text frame has no sender separator.
	// Client-authored frames always fail this way, only relay-stamped text is parseable.
	ErrMalformedText = errors.New("protocol: text frame without sender")

	// ErrUnexpectedFrame - frame without chunk tag arrived while file reception is active.
	ErrUnexpectedFrame = errors.New("protocol: unexpected frame during file reception")

	// ErrUnknownKind - frame kind can not be encoded.
	ErrUnknownKind = errors.New("protocol: unknown frame kind")
)
