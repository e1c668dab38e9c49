package arena

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/hupe1980/framemem/internal/mmap"
)

const (
	// DefaultAlignment is the alignment used when Alloc is called with align <= 0.
	DefaultAlignment = 8

	// PoisonByte fills rewound memory and alignment padding in debug builds.
	PoisonByte = 0xDD
)

// Arena is a bump allocator over one reserved region.
//
// Invariants: 0 <= pos <= capacity, committed is a whole number of pages and
// every byte in [0, pos) is committed. Bytes at or above dirty have not been
// written since they were committed and therefore read as zero.
type Arena struct {
	res       *mmap.Reservation
	buf       []byte
	base      uintptr
	page      int
	pos       int
	committed int
	dirty     int
	capacity  int
	retain    int
	released  bool

	source   mmap.Source
	acquirer MemoryAcquirer
	observer Observer
	io       IOLimiter
	logger   *slog.Logger

	stats counters
}

type counters struct {
	peak      int
	allocs    uint64
	commits   uint64
	decommits uint64
}

// New reserves capacity bytes of address space and returns an empty arena.
// Nothing is committed until the first allocation.
func New(capacity int, opts ...Option) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	a := &Arena{
		capacity: capacity,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.source == nil {
		a.source = mmap.System()
	}

	res, err := mmap.Reserve(a.source, capacity)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", capacity, err)
	}

	a.res = res
	a.buf = res.Bytes()
	a.base = uintptr(unsafe.Pointer(unsafe.SliceData(a.buf))) //nolint:gosec // alignment math only
	a.page = res.PageSize()

	a.logger.Debug("arena created", "capacity", capacity, "reserved", res.Size())

	return a, nil
}

// Alloc returns size zeroed bytes aligned to align (DefaultAlignment if align <= 0).
// It returns nil for size 0. Running past the capacity panics with *ExhaustedError.
func (a *Arena) Alloc(size, align int) []byte {
	if a.released {
		panic(ErrReleased)
	}
	if size <= 0 {
		return nil
	}
	if align <= 0 {
		align = DefaultAlignment
	}
	if align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}

	// Padding is taken from the address, the base is only page aligned.
	pad := int(-(a.base + uintptr(a.pos)) & uintptr(align-1))
	free := a.capacity - a.pos
	if pad > free || size > free-pad {
		a.exhausted(size, align, nil)
	}

	start := a.pos + pad
	end := start + size
	a.extend(start, end, size, align)
	a.stats.allocs++

	return a.buf[start:end:end]
}

// AllocPointer allocates memory for a value of the given size and alignment.
func (a *Arena) AllocPointer(size, align int) unsafe.Pointer {
	b := a.Alloc(size, align)
	if b == nil {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(b)) //nolint:gosec // unsafe is required for arena implementation
}

// extend moves the bump pointer to end, committing pages as needed, poisoning
// the padding in [pos, start) and zeroing any reused bytes in [start, end).
func (a *Arena) extend(start, end, size, align int) {
	if end > a.committed {
		a.commit(end, size, align)
	}
	a.poison(a.pos, start)
	if start < a.dirty {
		clear(a.buf[start:min(end, a.dirty)])
	}
	a.pos = end
	a.dirty = max(a.dirty, end)
	a.stats.peak = max(a.stats.peak, end)
}

func (a *Arena) commit(end, size, align int) {
	if err := a.tryCommit(end); err != nil {
		a.exhausted(size, align, err)
	}
}

// tryCommit commits the pages up to end. On error nothing changes.
func (a *Arena) tryCommit(end int) error {
	target := min(mmap.RoundUp(end, a.page), len(a.buf))
	n := target - a.committed

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(n)); err != nil {
			return err
		}
	}

	if err := a.res.Commit(a.committed, n); err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(n))
		}
		return fmt.Errorf("commit %d bytes: %w", n, err)
	}

	a.committed = target
	a.stats.commits++
	if a.observer != nil {
		a.observer.ArenaCommitted(n)
	}
	return nil
}

// rewind moves the bump pointer back to pos and decommits the whole pages
// above the page that holds pos.
func (a *Arena) rewind(pos int) {
	a.poison(pos, a.pos)
	a.pos = pos

	keep := max(mmap.RoundUp(pos, a.page), mmap.RoundUp(a.retain, a.page))
	if keep >= a.committed {
		return
	}

	n := a.committed - keep
	if err := a.res.Decommit(keep, n); err != nil {
		// The pages stay committed and usable.
		a.logger.Warn("arena decommit failed", "offset", keep, "bytes", n, "error", err)
		return
	}

	a.committed = keep
	a.dirty = min(a.dirty, keep)
	a.stats.decommits++

	if a.acquirer != nil {
		a.acquirer.ReleaseMemory(int64(n))
	}
	if a.observer != nil {
		a.observer.ArenaDecommitted(n)
	}
}

func (a *Arena) poison(from, to int) {
	if Debug && to > from {
		b := a.buf[from:to]
		for i := range b {
			b[i] = PoisonByte
		}
	}
}

func (a *Arena) exhausted(size, align int, cause error) {
	err := &ExhaustedError{
		Requested: size,
		Align:     align,
		Pos:       a.pos,
		Capacity:  a.capacity,
		cause:     cause,
	}
	a.logger.Error("arena exhausted",
		"requested", size,
		"align", align,
		"pos", a.pos,
		"capacity", a.capacity,
		"committed", a.committed,
		"error", err,
	)
	if a.observer != nil {
		a.observer.ArenaExhausted()
	}
	panic(err)
}

// offset returns the position of b's first byte if it lies in [0, pos).
func (a *Arena) offset(b []byte) (int, bool) {
	if a.released || len(b) == 0 {
		return 0, false
	}
	off, ok := a.res.Offset(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address comparison only
	if !ok || off >= a.pos {
		return 0, false
	}
	return off, true
}

// TryResize grows or shrinks b in place. It succeeds only when b is the most
// recent allocation (b ends at the bump pointer). Growing past the capacity
// panics like Alloc; shrinking decommits freed whole pages.
func (a *Arena) TryResize(b []byte, newSize int) ([]byte, bool) {
	if newSize < 0 {
		return nil, false
	}
	off, ok := a.offset(b)
	if !ok || off+len(b) != a.pos {
		return nil, false
	}

	end := off + newSize
	switch {
	case newSize > len(b):
		if end > a.capacity || end < off {
			a.exhausted(newSize-len(b), 1, nil)
		}
		a.extend(a.pos, end, newSize-len(b), 1)
	case newSize < len(b):
		a.rewind(end)
	}

	return a.buf[off:end:end], true
}

// Owns reports whether b starts inside the live part of the arena.
func (a *Arena) Owns(b []byte) bool {
	_, ok := a.offset(b)
	return ok
}

// Free pops b if it is the most recent allocation. Otherwise it does nothing;
// the memory is reclaimed when the arena is rewound.
func (a *Arena) Free(b []byte) {
	off, ok := a.offset(b)
	if ok && off+len(b) == a.pos {
		a.rewind(off)
	}
}

// Pos returns the current bump position.
func (a *Arena) Pos() int {
	return a.pos
}

// PopTo rewinds the arena to pos, invalidating every allocation made after it.
// pos must not be ahead of the current position.
func (a *Arena) PopTo(pos int) {
	if a.released {
		panic(ErrReleased)
	}
	if pos < 0 || pos > a.pos {
		panic(fmt.Sprintf("arena: cannot rewind to %d from %d", pos, a.pos))
	}
	a.rewind(pos)
}

// Reset rewinds the arena to its start.
func (a *Arena) Reset() {
	a.PopTo(0)
}

// Capacity returns the logical capacity in bytes.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Committed returns the number of bytes currently backed by memory.
func (a *Arena) Committed() int {
	return a.committed
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool {
	return a.released
}

// Release returns the whole region to the OS. It is idempotent.
// Every slice handed out by the arena becomes invalid.
func (a *Arena) Release() error {
	if a.released {
		return nil
	}
	a.released = true

	if a.committed > 0 {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(a.committed))
		}
		if a.observer != nil {
			a.observer.ArenaDecommitted(a.committed)
		}
	}

	err := a.res.Close()

	a.logger.Debug("arena released", "capacity", a.capacity, "peak", a.stats.peak)

	a.buf = nil
	a.pos = 0
	a.committed = 0
	a.dirty = 0

	return err
}
