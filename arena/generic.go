package arena

import (
	"slices"
	"unsafe"
)

func isHeap(a Allocator) bool {
	switch a.(type) {
	case nil, Heap, *Heap:
		return true
	}
	return false
}

// NewValue allocates and zeros a single value of type T from the given allocator.
// When the allocator is the heap (or nil), this is plain new(T).
func NewValue[T any](a Allocator) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if isHeap(a) || size == 0 {
		return new(T)
	}
	ptr := unsafe.SliceData(a.Alloc(size, int(unsafe.Alignof(zero))))
	return (*T)(unsafe.Pointer(ptr)) //nolint:gosec // unsafe is required for arena implementation
}

// MakeSlice allocates a zeroed slice of type []T with the given length and
// capacity. When the allocator is the heap (or nil), this is plain make.
func MakeSlice[T any](a Allocator, length, capacity int) []T {
	capacity = max(length, capacity)
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if isHeap(a) || elem == 0 || capacity == 0 {
		return make([]T, length, capacity)
	}
	ptr := unsafe.SliceData(a.Alloc(elem*capacity, int(unsafe.Alignof(zero))))
	return unsafe.Slice((*T)(unsafe.Pointer(ptr)), capacity)[:length] //nolint:gosec // unsafe is required for arena implementation
}

// Grow guarantees room for n more elements in s. Allocator-owned slices are
// first grown in place; otherwise the elements move to fresh storage and the
// old storage is freed.
func Grow[T any](a Allocator, s []T, n int) []T {
	if n < 0 {
		panic("arena: negative Grow count")
	}
	need := len(s) + n
	if need <= cap(s) {
		return s
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if isHeap(a) || elem == 0 {
		return slices.Grow(s, n)
	}

	newCap := max(need, 2*cap(s), 4)

	if cap(s) > 0 {
		if b, ok := a.TryResize(rawBytes(s), newCap*elem); ok {
			ptr := unsafe.SliceData(b)
			return unsafe.Slice((*T)(unsafe.Pointer(ptr)), newCap)[:len(s)] //nolint:gosec // unsafe is required for arena implementation
		}
	}

	ns := MakeSlice[T](a, len(s), newCap)
	copy(ns, s)
	Free(a, s)
	return ns
}

// Append appends values to s, growing it through a.
func Append[T any](a Allocator, s []T, values ...T) []T {
	s = Grow(a, s, len(values))
	return append(s, values...)
}

// Clone copies s into storage obtained from a.
func Clone[T any](a Allocator, s []T) []T {
	if s == nil {
		return nil
	}
	ns := MakeSlice[T](a, len(s), len(s))
	copy(ns, s)
	return ns
}

// Free releases the full capacity of s back to a.
func Free[T any](a Allocator, s []T) {
	if isHeap(a) || cap(s) == 0 {
		return
	}
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return
	}
	a.Free(rawBytes(s))
}

// rawBytes views the full capacity of s as bytes.
func rawBytes[T any](s []T) []byte {
	var zero T
	n := cap(s) * int(unsafe.Sizeof(zero))
	ptr := unsafe.SliceData(s[:cap(s)])
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n) //nolint:gosec // unsafe is required for arena implementation
}
