package container

import (
	"fmt"

	"github.com/hupe1980/framemem/arena"
)

// Vec is a growable array whose storage comes from an allocator.
// A nil allocator means the Go heap.
//
// Elements stored through an arena allocator must not contain Go pointers.
type Vec[T any] struct {
	alloc arena.Allocator
	items []T
}

// NewVec creates a Vec with room for capacity elements.
func NewVec[T any](alloc arena.Allocator, capacity int) *Vec[T] {
	if alloc == nil {
		alloc = arena.DefaultHeap
	}
	v := &Vec[T]{alloc: alloc}
	if capacity > 0 {
		v.items = arena.MakeSlice[T](alloc, 0, capacity)
	}
	return v
}

// Allocator returns the allocator backing the Vec.
func (v *Vec[T]) Allocator() arena.Allocator {
	return v.alloc
}

// Push appends x.
func (v *Vec[T]) Push(x T) {
	v.items = arena.Grow(v.alloc, v.items, 1)
	v.items = append(v.items, x)
}

// Pop removes and returns the last element.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	n := len(v.items)
	if n == 0 {
		return zero, false
	}
	x := v.items[n-1]
	v.items[n-1] = zero
	v.items = v.items[:n-1]
	return x, true
}

// At returns the element at i. It panics if i is out of range.
func (v *Vec[T]) At(i int) T {
	return v.items[i]
}

// Ptr returns a pointer to the element at i. The pointer is invalidated by
// any operation that grows the Vec.
func (v *Vec[T]) Ptr(i int) *T {
	return &v.items[i]
}

// Set replaces the element at i.
func (v *Vec[T]) Set(i int, x T) {
	v.items[i] = x
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	return len(v.items)
}

// Cap returns the number of elements the Vec can hold without growing.
func (v *Vec[T]) Cap() int {
	return cap(v.items)
}

// Slice exposes the elements directly. The slice aliases the Vec's storage.
func (v *Vec[T]) Slice() []T {
	return v.items
}

// SwapRemove removes the element at i by moving the last element into its
// place and returns the removed element.
func (v *Vec[T]) SwapRemove(i int) T {
	n := len(v.items)
	if i < 0 || i >= n {
		panic(fmt.Sprintf("container: index %d out of range [0:%d]", i, n))
	}
	x := v.items[i]
	v.items[i] = v.items[n-1]
	var zero T
	v.items[n-1] = zero
	v.items = v.items[:n-1]
	return x
}

// Truncate shortens the Vec to n elements. It is a no-op if n >= Len.
func (v *Vec[T]) Truncate(n int) {
	if n < 0 {
		panic(fmt.Sprintf("container: negative length %d", n))
	}
	if n >= len(v.items) {
		return
	}
	clear(v.items[n:])
	v.items = v.items[:n]
}

// Reset removes every element but keeps the storage.
func (v *Vec[T]) Reset() {
	v.Truncate(0)
}

// Release gives the storage back to the allocator.
func (v *Vec[T]) Release() {
	arena.Free(v.alloc, v.items)
	v.items = nil
}
