package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded reports that an arena ran out of reserved capacity
	// or commit budget.
	ErrCapacityExceeded = errors.New("arena: capacity exceeded")
	// ErrReleased is the panic value for use of an arena after Release.
	ErrReleased = errors.New("arena: use after release")
	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = errors.New("arena: invalid capacity")
	// ErrInvalidSnapshot is returned when a snapshot is malformed or corrupt.
	ErrInvalidSnapshot = errors.New("arena: invalid snapshot")
)

// ExhaustedError is the panic value of an allocation that cannot be satisfied.
//
// errors.Is(err, ErrCapacityExceeded) holds for every ExhaustedError; the
// underlying cause (for example a denied commit budget) is reachable as well.
type ExhaustedError struct {
	Requested int
	Align     int
	Pos       int
	Capacity  int
	cause     error
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("arena: cannot allocate %d bytes (align %d) at position %d of %d",
		e.Requested, e.Align, e.Pos, e.Capacity)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *ExhaustedError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrCapacityExceeded}
	}
	return []error{ErrCapacityExceeded, e.cause}
}
