package arena

import (
	"github.com/hupe1980/framemem/internal/mem"
)

// Allocator is the capability generic containers allocate through.
//
// Alloc returns size zeroed bytes aligned to align, or nil for size 0.
// Free gives memory back where the implementation can reuse it.
// TryResize resizes b in place and reports false when the caller must
// allocate, copy and free instead. Owns reports whether b came from this
// allocator and is still live.
type Allocator interface {
	Alloc(size, align int) []byte
	Free(b []byte)
	TryResize(b []byte, newSize int) ([]byte, bool)
	Owns(b []byte) bool
}

var (
	_ Allocator = (*Arena)(nil)
	_ Allocator = Heap{}
)

// DefaultHeap is the Go-heap allocator.
var DefaultHeap = Heap{}

// Heap is the allocator that delegates to Go's built-in heap.
// The generic helpers (New, MakeSlice, Grow) detect it and use new/make/append
// directly, so values may contain Go pointers.
type Heap struct{}

// Alloc allocates size bytes on the Go heap.
func (Heap) Alloc(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= DefaultAlignment && size >= align {
		return make([]byte, size)
	}
	return mem.AllocAligned(size, align)
}

// Free is a no-op; the garbage collector reclaims the memory.
func (Heap) Free([]byte) {}

// TryResize always reports false.
func (Heap) TryResize([]byte, int) ([]byte, bool) { return nil, false }

// Owns always reports false.
func (Heap) Owns([]byte) bool { return false }
