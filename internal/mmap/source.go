package mmap

import (
	"os"

	"github.com/hupe1980/framemem/internal/mem"
)

// Source is the virtual memory primitive: reserve address space, then commit
// and decommit page ranges inside it, and finally release it.
//
// Commit and Decommit receive page-aligned sub-slices of a slice previously
// returned by Reserve. Release receives exactly that slice.
type Source interface {
	Reserve(size int) ([]byte, error)
	Commit(b []byte) error
	Decommit(b []byte) error
	Release(b []byte) error
	PageSize() int
}

type system struct{}

// System returns the operating system's virtual memory source.
func System() Source {
	return system{}
}

func (system) Reserve(size int) ([]byte, error) { return osReserve(size) }
func (system) Commit(b []byte) error            { return osCommit(b) }
func (system) Decommit(b []byte) error          { return osDecommit(b) }
func (system) Release(b []byte) error           { return osRelease(b) }
func (system) PageSize() int                    { return osPageSize() }

// Heap is a Source backed by the Go heap.
//
// Reserve allocates the whole range up front (the runtime still maps it lazily),
// Commit is a no-op and Decommit zeroes the range so recommitted pages read as
// zero. It exists for platforms without virtual memory control and for tests.
type Heap struct{}

// Reserve allocates a page-aligned buffer of the given size.
func (Heap) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return mem.AllocAligned(size, os.Getpagesize()), nil
}

// Commit implements Source.
func (Heap) Commit([]byte) error { return nil }

// Decommit implements Source.
func (Heap) Decommit(b []byte) error {
	clear(b)
	return nil
}

// Release implements Source. The buffer is reclaimed by the garbage collector.
func (Heap) Release([]byte) error { return nil }

// PageSize implements Source.
func (Heap) PageSize() int { return os.Getpagesize() }
