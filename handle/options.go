package handle

import (
	"log/slog"

	"github.com/hupe1980/framemem/arena"
)

// Observer receives Map events.
type Observer interface {
	// HandleStale is called when Destroy receives a stale handle.
	HandleStale()
}

type options struct {
	alloc    arena.Allocator
	capacity int
	logger   *slog.Logger
	observer Observer
}

// Option configures a Map.
type Option func(*options)

// WithAllocator places the dense arrays and the slot table in alloc.
// Values stored through an arena must not contain Go pointers.
func WithAllocator(alloc arena.Allocator) Option {
	return func(o *options) {
		o.alloc = alloc
	}
}

// WithCapacity preallocates room for n values.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets the logger used for stale-handle diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers an observer for stale-handle events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
