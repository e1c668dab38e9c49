package mmap

import (
	"sync/atomic"
	"unsafe"
)

// Reservation is a reserved range of virtual memory.
// It owns the range and is responsible for releasing it.
type Reservation struct {
	src    Source
	data   []byte
	page   int
	closed atomic.Bool
}

// Reserve reserves at least size bytes of address space from src.
// The size is rounded up to a whole number of pages. No page is committed.
func Reserve(src Source, size int) (*Reservation, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if src == nil {
		src = System()
	}

	page := src.PageSize()
	size = RoundUp(size, page)

	data, err := src.Reserve(size)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		src:  src,
		data: data,
		page: page,
	}, nil
}

// Bytes returns the whole reserved range.
// Only committed pages may be accessed; touching anything else faults.
// Returns nil after Close.
func (r *Reservation) Bytes() []byte {
	if r.closed.Load() {
		return nil
	}
	return r.data
}

// Size returns the size of the reservation in bytes.
func (r *Reservation) Size() int {
	return len(r.data)
}

// PageSize returns the commit granularity of the reservation.
func (r *Reservation) PageSize() int {
	return r.page
}

// Commit backs [off, off+n) with zeroed memory.
// off must be page aligned; n is rounded up to whole pages.
func (r *Reservation) Commit(off, n int) error {
	b, err := r.pages(off, n)
	if err != nil || b == nil {
		return err
	}
	return r.src.Commit(b)
}

// Decommit returns the pages in [off, off+n) to the OS. The range stays
// reserved and can be committed again.
func (r *Reservation) Decommit(off, n int) error {
	b, err := r.pages(off, n)
	if err != nil || b == nil {
		return err
	}
	return r.src.Decommit(b)
}

func (r *Reservation) pages(off, n int) ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if off%r.page != 0 {
		return nil, ErrUnaligned
	}
	if n == 0 {
		return nil, nil
	}
	end := off + RoundUp(n, r.page)
	if off < 0 || n < 0 || end > len(r.data) {
		return nil, ErrOutOfBounds
	}
	return r.data[off:end:end], nil
}

// Offset reports the offset of p within the reservation.
// ok is false if p does not point into the reserved range.
func (r *Reservation) Offset(p unsafe.Pointer) (off int, ok bool) {
	if p == nil || len(r.data) == 0 || r.closed.Load() {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.data))) //nolint:gosec // address comparison only
	addr := uintptr(p)
	if addr < base || addr >= base+uintptr(len(r.data)) {
		return 0, false
	}
	return int(addr - base), true
}

// Close releases the reservation. It is idempotent.
func (r *Reservation) Close() error {
	if r.closed.Swap(true) {
		return nil // Already closed
	}
	if r.data == nil {
		return nil
	}
	err := r.src.Release(r.data)
	r.data = nil
	return err
}

// RoundUp rounds n up to a multiple of align, which must be a power of two.
func RoundUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// RoundDown rounds n down to a multiple of align, which must be a power of two.
func RoundDown(n, align int) int {
	return n &^ (align - 1)
}
