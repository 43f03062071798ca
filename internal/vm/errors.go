package vm

import "errors"

var (
	// ErrNoImage is returned when a run is requested with no images loaded.
	ErrNoImage = errors.New("lc3vm: no image loaded")

	// ErrImageTooLarge is returned by the loader when an image's origin
	// plus its word count would run past the end of memory.
	ErrImageTooLarge = errors.New("lc3vm: image exceeds available memory")

	// ErrInstructionLimitExceeded is returned by Run when the optional
	// instruction ceiling is reached before HALT. It is an ambient safety
	// valve, not an ISA-defined condition.
	ErrInstructionLimitExceeded = errors.New("lc3vm: instruction limit exceeded")

	// ErrHostIO wraps a failure from the host ReadChar/WriteChar/Flush
	// primitives encountered while servicing a trap.
	ErrHostIO = errors.New("lc3vm: host I/O failure")
)
