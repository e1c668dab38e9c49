package framemem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hupe1980/framemem/arena"
	"github.com/hupe1980/framemem/handle"
	"github.com/hupe1980/framemem/internal/resource"
	"github.com/hupe1980/framemem/scratch"
)

// System ties arenas, scratch pools and handle maps to one commit budget, one
// worker limit, one logger and one metrics collector.
//
// System methods are safe for concurrent use. The arenas, pools and maps it
// hands out are not; each has one owner at a time.
type System struct {
	mu       sync.Mutex
	opts     options
	ctrl     *resource.Controller
	registry *scratch.Registry
	arenas   map[*arena.Arena]struct{}
	closed   bool
}

// Stats is a point-in-time view of a System.
type Stats struct {
	// Arenas is the number of live arenas created with NewArena.
	Arenas int
	// Committed is the number of bytes committed across all arenas, scratch included.
	Committed int64
	// CommitLimit is the configured budget (0 if unlimited).
	CommitLimit int64
	// Workers is the number of goroutines currently holding a scratch pool.
	Workers int64
	// IdlePools is the number of scratch pools waiting for reuse.
	IdlePools int
}

// New creates a System.
func New(optFns ...Option) (*System, error) {
	o := applyOptions(optFns)

	if o.commitLimit < 0 || o.maxWorkers < 0 || o.snapshotRate < 0 {
		return nil, fmt.Errorf("framemem: negative limit (commit %d, workers %d, snapshot rate %d)",
			o.commitLimit, o.maxWorkers, o.snapshotRate)
	}

	s := &System{
		opts: o,
		ctrl: resource.NewController(resource.Config{
			CommitLimitBytes:    o.commitLimit,
			MaxWorkers:          o.maxWorkers,
			SnapshotBytesPerSec: o.snapshotRate,
		}),
		arenas: make(map[*arena.Arena]struct{}),
	}

	s.registry = scratch.NewRegistry(scratch.Config{
		Depth:         o.scratchDepth,
		ArenaCapacity: o.scratchCapacity,
		ArenaOptions:  s.arenaOptions("scratch"),
		Workers:       s.ctrl,
		Observer:      o.metricsCollector,
		Logger:        o.logger.WithComponent("scratch").Logger,
	})

	o.logger.Debug("framemem system created",
		"commit_limit", o.commitLimit,
		"max_workers", o.maxWorkers,
		"scratch_depth", o.scratchDepth,
	)

	return s, nil
}

func (s *System) arenaOptions(component string) []arena.Option {
	opts := []arena.Option{
		arena.WithMemoryAcquirer(s.ctrl),
		arena.WithIOLimiter(s.ctrl),
		arena.WithObserver(s.opts.metricsCollector),
		arena.WithLogger(s.opts.logger.WithComponent(component).Logger),
	}
	if s.opts.source != nil {
		opts = append(opts, arena.WithSource(s.opts.source))
	}
	if s.opts.retainCommitted > 0 {
		opts = append(opts, arena.WithRetainCommitted(s.opts.retainCommitted))
	}
	return opts
}

// NewArena reserves an arena of the given capacity. The arena shares the
// System's commit budget and reports to its metrics collector.
func (s *System) NewArena(capacity int) (*arena.Arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	a, err := arena.New(capacity, s.arenaOptions("arena")...)
	s.opts.logger.LogArenaCreated(context.Background(), capacity, err)
	if err != nil {
		return nil, err
	}

	s.arenas[a] = struct{}{}
	return a, nil
}

// ReleaseArena releases an arena created by NewArena.
func (s *System) ReleaseArena(a *arena.Arena) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.arenas[a]; !ok {
		return ErrForeignArena
	}
	delete(s.arenas, a)

	return s.release(a)
}

func (s *System) release(a *arena.Arena) error {
	peak := a.Stats().Peak
	err := a.Release()
	s.opts.logger.LogArenaReleased(context.Background(), a.Capacity(), peak, err)
	return err
}

// Scratch returns the registry that hands out per-goroutine scratch pools.
func (s *System) Scratch() *scratch.Registry {
	return s.registry
}

// Run starts n workers, each owning its own scratch pool, and waits for them.
// See scratch.Run.
func (s *System) Run(ctx context.Context, n int, fn func(ctx context.Context, p *scratch.Pool, worker int) error) error {
	if s.isClosed() {
		return ErrClosed
	}
	return scratch.Run(ctx, s.registry, n, func(ctx context.Context, p *scratch.Pool, worker int) error {
		err := fn(ctx, p, worker)
		s.opts.logger.LogWorker(ctx, worker, err)
		return err
	})
}

// WriteSnapshot writes the used part of a to w. Writes are paced by the
// configured snapshot rate.
func (s *System) WriteSnapshot(ctx context.Context, a *arena.Arena, w io.Writer, c arena.Compression) (int64, error) {
	start := time.Now()
	n, err := a.WriteSnapshot(ctx, w, c)
	s.opts.metricsCollector.RecordSnapshot(n, time.Since(start), err)
	s.opts.logger.LogSnapshot(ctx, "write", n, c.String(), err)
	return n, err
}

// RestoreSnapshot replaces the contents of a with a snapshot read from r.
func (s *System) RestoreSnapshot(ctx context.Context, a *arena.Arena, r io.Reader) error {
	start := time.Now()
	err := a.RestoreSnapshot(ctx, r)
	n := int64(0)
	if err == nil {
		n = int64(a.Pos())
	}
	s.opts.metricsCollector.RecordSnapshot(n, time.Since(start), err)
	s.opts.logger.LogSnapshot(ctx, "restore", n, "", err)
	return err
}

// NewMap creates a handle map that reports stale handles to the System's
// metrics collector and logger. opts are applied after the System's own.
func NewMap[T any](s *System, opts ...handle.Option) *handle.Map[T] {
	base := []handle.Option{
		handle.WithObserver(s.opts.metricsCollector),
		handle.WithLogger(s.opts.logger.WithComponent("handle").Logger),
	}
	return handle.NewMap[T](append(base, opts...)...)
}

// Stats returns current System statistics.
func (s *System) Stats() Stats {
	s.mu.Lock()
	n := len(s.arenas)
	s.mu.Unlock()

	return Stats{
		Arenas:      n,
		Committed:   s.ctrl.MemoryUsage(),
		CommitLimit: s.ctrl.MemoryLimit(),
		Workers:     s.ctrl.Workers(),
		IdlePools:   s.registry.Idle(),
	}
}

func (s *System) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases every arena created by NewArena and every idle scratch pool.
// Pools still held by workers are released when handed back. Close is
// idempotent.
func (s *System) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for a := range s.arenas {
		if err := s.release(a); err != nil {
			errs = append(errs, err)
		}
	}
	clear(s.arenas)

	if err := s.registry.Close(); err != nil {
		errs = append(errs, err)
	}

	s.opts.logger.Debug("framemem system closed")

	return errors.Join(errs...)
}
