package client

import "errors"

var (
	// ErrInvalidName - display name is empty, too long or contains separator.
	ErrInvalidName = errors.New("client: invalid display name")

	// ErrInvalidText - chat text is too long to fit single frame or mimics file frame.
	ErrInvalidText = errors.New("client: invalid chat text")

	// ErrInvalidFileName - declared file name can not be used for staging path.
	ErrInvalidFileName = errors.New("client: invalid file name")

	// ErrClosed - engine is closed.
	ErrClosed = errors.New("client: engine is closed")
)
