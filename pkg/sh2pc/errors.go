package sh2pc

import (
	"errors"
	"fmt"
)

var (
	ErrBadPeers     = errors.New("sh2pc: invalid peers/self configuration")
	ErrNilTransport = errors.New("sh2pc: transport must not be nil")
	ErrJobClosed    = errors.New("sh2pc: job has been closed")

	// ErrProtocol indicates a malformed or unexpected message from the peer.
	ErrProtocol = errors.New("sh2pc: protocol failure")

	// ErrWidthMismatch indicates an operation on integers of different widths.
	ErrWidthMismatch = errors.New("sh2pc: integer width mismatch")

	// ErrInvalidWidth indicates an integer width outside [1, MaxIntegerWidth].
	ErrInvalidWidth = errors.New("sh2pc: invalid integer width")

	// ErrShortBuffer indicates a share buffer smaller than the layout it is
	// read with. It is raised through panic: sizing buffers is the caller's job.
	ErrShortBuffer = errors.New("sh2pc: share buffer too short")

	// ErrNoJob indicates a protocol operation on values that are all public
	// where a job is needed, such as sharing input.
	ErrNoJob = errors.New("sh2pc: no job bound to operands")
)

// Error wraps a failure of an engine operation with the operation name.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sh2pc.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

func protocolErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrProtocol}, args...)...)
}

// mustf panics with an error wrapping sentinel. It marks caller contract
// violations such as undersized buffers, never data-dependent conditions.
func mustf(sentinel error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}
