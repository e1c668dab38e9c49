package handle

import "errors"

var (
	// ErrCapacityExceeded is the panic value when the 24-bit index space is used up.
	ErrCapacityExceeded = errors.New("handle: index space exhausted")

	// ErrCorrupt is returned by Validate when internal invariants do not hold.
	ErrCorrupt = errors.New("handle: corrupt state")
)
