package arena

import (
	"context"
	"log/slog"

	"github.com/hupe1980/framemem/internal/mmap"
)

// MemorySource is the virtual memory primitive an arena reserves and commits from.
type MemorySource = mmap.Source

// SystemSource returns the operating system's virtual memory source.
func SystemSource() MemorySource { return mmap.System() }

// HeapSource returns a source backed by the Go heap.
func HeapSource() MemorySource { return mmap.Heap{} }

// MemoryAcquirer charges committed pages against a shared budget.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

// Observer receives commit accounting events.
type Observer interface {
	ArenaCommitted(bytes int)
	ArenaDecommitted(bytes int)
	ArenaExhausted()
}

// IOLimiter paces snapshot writes.
type IOLimiter interface {
	WaitIO(ctx context.Context, bytes int) error
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithSource sets the virtual memory source. Defaults to SystemSource.
func WithSource(src MemorySource) Option {
	return func(a *Arena) {
		a.source = src
	}
}

// WithMemoryAcquirer sets the commit budget for the arena.
// A denied acquisition is treated like running out of capacity.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithObserver sets the observer notified about commits and decommits.
func WithObserver(o Observer) Option {
	return func(a *Arena) {
		a.observer = o
	}
}

// WithLogger sets the logger. Defaults to discarding all output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithIOLimiter paces WriteSnapshot.
func WithIOLimiter(l IOLimiter) Option {
	return func(a *Arena) {
		a.io = l
	}
}

// WithRetainCommitted keeps at least n bytes committed when the arena shrinks.
// The default of 0 decommits every whole page above the current position.
func WithRetainCommitted(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.retain = n
		}
	}
}
