package scratch

import (
	"errors"
	"sync"
)

// Registry hands each worker goroutine its own Pool. Pools are reused across
// workers once handed back, so their arenas stay reserved between tasks.
type Registry struct {
	mu     sync.Mutex
	cfg    Config
	idle   []*Pool
	active int
	closed bool
}

// NewRegistry creates a registry whose pools use cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg.withDefaults()}
}

// Acquire returns a pool for the calling goroutine's exclusive use. It returns
// ErrTooManyWorkers when the worker limit is reached and ErrClosed after Close.
func (r *Registry) Acquire() (*Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.cfg.Workers != nil && !r.cfg.Workers.TryAcquireWorker() {
		return nil, ErrTooManyWorkers
	}

	r.active++

	if n := len(r.idle); n > 0 {
		p := r.idle[n-1]
		r.idle[n-1] = nil
		r.idle = r.idle[:n-1]
		return p, nil
	}

	return NewPool(r.cfg), nil
}

// Release hands p back. The pool must have no outstanding checkouts.
func (r *Registry) Release(p *Pool) error {
	if p.Outstanding() > 0 {
		return ErrOutstanding
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.done()

	if r.closed || p.closed {
		return p.Close()
	}
	r.idle = append(r.idle, p)
	return nil
}

// discard drops p without returning it to the idle list.
func (r *Registry) discard(p *Pool) error {
	r.mu.Lock()
	r.done()
	r.mu.Unlock()

	r.cfg.Logger.Warn("scratch pool discarded", "outstanding", p.Outstanding())
	return p.Close()
}

func (r *Registry) done() {
	r.active--
	if r.cfg.Workers != nil {
		r.cfg.Workers.ReleaseWorker()
	}
}

// Do runs fn with a pool owned for the duration of the call. A pool that still
// has checkouts when fn returns, or when fn panics, is closed instead of being
// reused.
func (r *Registry) Do(fn func(p *Pool) error) (err error) {
	p, err := r.Acquire()
	if err != nil {
		return err
	}

	defer func() {
		if p.Outstanding() > 0 {
			derr := r.discard(p)
			if err == nil {
				err = errors.Join(ErrOutstanding, derr)
			}
			return
		}
		if rerr := r.Release(p); err == nil {
			err = rerr
		}
	}()

	return fn(p)
}

// Active returns the number of pools currently acquired.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Idle returns the number of pools waiting for reuse.
func (r *Registry) Idle() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.idle)
}

// Committed returns the bytes committed by idle pools.
func (r *Registry) Committed() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.idle {
		n += p.Committed()
	}
	return n
}

// Close releases every idle pool. Pools still acquired are closed when they
// are released. Close is idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, p := range r.idle {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.idle = nil

	return errors.Join(errs...)
}
