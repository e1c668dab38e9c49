package framemem

import (
	"errors"

	"github.com/hupe1980/framemem/arena"
	"github.com/hupe1980/framemem/handle"
	"github.com/hupe1980/framemem/scratch"
)

var (
	// ErrClosed is returned when the System has been closed.
	ErrClosed = errors.New("framemem: closed")

	// ErrForeignArena is returned by ReleaseArena for an arena the System did not create.
	ErrForeignArena = errors.New("framemem: arena not created by this system")
)

// IsExhausted reports whether v, a recovered panic value or an error, signals
// exhaustion: arena capacity, commit budget, scratch depth or handle index space.
func IsExhausted(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	return errors.Is(err, arena.ErrCapacityExceeded) ||
		errors.Is(err, scratch.ErrPoolExhausted) ||
		errors.Is(err, handle.ErrCapacityExceeded)
}

// Guard runs fn and converts an exhaustion panic into an error. Any other
// panic propagates unchanged.
//
// Exhaustion is a configuration error; Guard is meant for the outer edge of a
// service that prefers failing one request to crashing.
func Guard(fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if !IsExhausted(v) {
				panic(v)
			}
			err = v.(error)
		}
	}()
	fn()
	return nil
}
