package scratch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/framemem/arena"
)

const (
	// DefaultDepth is the number of arenas per pool.
	DefaultDepth = 4

	// DefaultArenaCapacity is the address space reserved per scratch arena.
	DefaultArenaCapacity = 1 << 30
)

// WorkerLimiter bounds the number of pools a Registry hands out at once.
type WorkerLimiter interface {
	TryAcquireWorker() bool
	ReleaseWorker()
}

// Observer receives checkout events.
type Observer interface {
	ScratchCheckedOut(outstanding int)
	ScratchReleased()
}

// Config configures pools.
type Config struct {
	// Depth is the number of arenas per pool (DefaultDepth if <= 0).
	Depth int

	// ArenaCapacity is the capacity of each arena (DefaultArenaCapacity if <= 0).
	ArenaCapacity int

	// ArenaOptions are applied to every arena a pool creates.
	ArenaOptions []arena.Option

	// Workers optionally limits the number of pools in use (Registry only).
	Workers WorkerLimiter

	// Observer is optional.
	Observer Observer

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Depth <= 0 {
		c.Depth = DefaultDepth
	}
	if c.ArenaCapacity <= 0 {
		c.ArenaCapacity = DefaultArenaCapacity
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

type checkout struct {
	arena *arena.Arena
	id    uint64
}

// Pool is a fixed set of scratch arenas owned by one goroutine.
type Pool struct {
	cfg     Config
	slots   []*arena.Arena
	out     []checkout
	seq     uint64
	created bool
	closed  bool
}

// NewPool creates a pool. Its arenas are reserved on the first Get.
func NewPool(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	return &Pool{
		cfg:   cfg,
		slots: make([]*arena.Arena, cfg.Depth),
	}
}

func (p *Pool) create() {
	for i := range p.slots {
		a, err := arena.New(p.cfg.ArenaCapacity, p.cfg.ArenaOptions...)
		if err != nil {
			panic(fmt.Errorf("scratch: create arena %d of %d: %w", i+1, len(p.slots), err))
		}
		p.slots[i] = a
	}
	p.created = true
	p.cfg.Logger.Debug("scratch pool created", "depth", len(p.slots), "capacity", p.cfg.ArenaCapacity)
}

// Get checks out an arena. Slots are scanned from the highest index down.
// It panics with ErrPoolExhausted when all Depth arenas are checked out.
func (p *Pool) Get() Scratch {
	if p.closed {
		panic(ErrClosed)
	}
	if !p.created {
		p.create()
	}

	for i := len(p.slots) - 1; i >= 0; i-- {
		a := p.slots[i]
		if a == nil {
			continue
		}
		p.slots[i] = nil
		p.seq++
		p.out = append(p.out, checkout{arena: a, id: p.seq})
		if p.cfg.Observer != nil {
			p.cfg.Observer.ScratchCheckedOut(len(p.out))
		}
		return Scratch{Arena: a, pool: p, pos: a.Pos(), id: p.seq}
	}

	p.cfg.Logger.Error("scratch pool exhausted", "depth", len(p.slots))
	panic(fmt.Errorf("%w: all %d arenas checked out", ErrPoolExhausted, len(p.slots)))
}

func (p *Pool) retire(s Scratch) {
	k := -1
	for i, c := range p.out {
		if c.arena == s.Arena && c.id == s.id {
			k = i
			break
		}
	}
	if k < 0 {
		panic("scratch: checkout released twice")
	}
	p.out = append(p.out[:k], p.out[k+1:]...)

	a := s.Arena
	a.PopTo(min(s.pos, a.Pos()))

	if p.cfg.Observer != nil {
		p.cfg.Observer.ScratchReleased()
	}

	if !p.closed {
		for i := range p.slots {
			if p.slots[i] == nil {
				p.slots[i] = a
				return
			}
		}
		p.cfg.Logger.Warn("scratch pool has no empty slot, releasing arena")
	}

	if err := a.Release(); err != nil {
		p.cfg.Logger.Warn("scratch arena release failed", "error", err)
	}
}

// Outstanding returns the number of live checkouts.
func (p *Pool) Outstanding() int {
	return len(p.out)
}

// Depth returns the number of arenas in the pool.
func (p *Pool) Depth() int {
	return len(p.slots)
}

// Committed returns the bytes committed by the arenas currently in the pool.
func (p *Pool) Committed() int {
	n := 0
	for _, a := range p.slots {
		if a != nil {
			n += a.Committed()
		}
	}
	return n
}

// Close releases every arena in the pool. Arenas still checked out are
// released when their checkout is. Close is idempotent.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for i, a := range p.slots {
		if a == nil {
			continue
		}
		if err := a.Release(); err != nil {
			errs = append(errs, err)
		}
		p.slots[i] = nil
	}
	return errors.Join(errs...)
}

// Scratch is a checked-out arena. Allocate through the embedded arena and call
// Release exactly once when done.
type Scratch struct {
	*arena.Arena
	pool *Pool
	pos  int
	id   uint64
}

// Release rewinds the arena to the position it had at checkout and returns it
// to the pool. Releasing the same checkout twice panics.
func (s Scratch) Release() {
	s.pool.retire(s)
}

// Checkpoint returns the arena position taken at checkout.
func (s Scratch) Checkpoint() int {
	return s.pos
}
