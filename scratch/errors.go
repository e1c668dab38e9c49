package scratch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/framemem/arena"
)

var (
	// ErrPoolExhausted is the panic value when every arena of a pool is checked out.
	// It wraps arena.ErrCapacityExceeded.
	ErrPoolExhausted = fmt.Errorf("scratch: pool exhausted: %w", arena.ErrCapacityExceeded)

	// ErrClosed is returned when the pool or registry has been closed.
	ErrClosed = errors.New("scratch: closed")

	// ErrTooManyWorkers is returned by Acquire when the worker limit is reached.
	ErrTooManyWorkers = errors.New("scratch: too many workers")

	// ErrOutstanding is returned when a pool is handed back with live checkouts.
	ErrOutstanding = errors.New("scratch: pool has outstanding checkouts")
)
