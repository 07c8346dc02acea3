package broker

import "errors"

var (
	// ErrUnderStopCondition - returns in case if Broker is under stop condition
	// and will not accept any new connections, so you should close such connection by your own.
	ErrUnderStopCondition = errors.New("broker.Broker: under stop condition")

	// ErrFull - returns when every registry slot is occupied.
	// The connection is not kept, close it by your own.
	ErrFull = errors.New("broker.Registry: capacity exceeded")

	// ErrUnknownSlot - returns when slot is empty or out of range.
	ErrUnknownSlot = errors.New("broker.Registry: unknown slot")
)
