package handle

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/framemem/arena"
	"github.com/hupe1980/framemem/container"
)

// Map stores values of type T behind generational handles.
//
// Values live in a dense array in insertion order until a Destroy moves the
// last value into the freed position. Pointers returned by Get are valid until
// the next Insert, Destroy or Clear.
type Map[T any] struct {
	index    IndexMap
	values   *container.Vec[T]
	handles  *container.Vec[Handle[T]]
	logger   *slog.Logger
	observer Observer
	stale    rate.Sometimes
}

// NewMap creates an empty Map.
func NewMap[T any](opts ...Option) *Map[T] {
	o := options{
		alloc:  arena.DefaultHeap,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = arena.DefaultHeap
	}

	return &Map[T]{
		index:    IndexMap{alloc: o.alloc},
		values:   container.NewVec[T](o.alloc, o.capacity),
		handles:  container.NewVec[Handle[T]](o.alloc, o.capacity),
		logger:   o.logger,
		observer: o.observer,
		stale:    rate.Sometimes{First: 1, Interval: time.Second},
	}
}

// Insert stores v and returns its handle.
func (m *Map[T]) Insert(v T) Handle[T] {
	m.check("insert")

	id := m.index.New()
	if i, _ := m.index.Resolve(id); i != m.values.Len() {
		panic(fmt.Errorf("%w: new handle %s maps to %d, len %d", ErrCorrupt, id, i, m.values.Len()))
	}

	h := Handle[T]{id: id}
	m.values.Push(v)
	m.handles.Push(h)

	m.check("insert")
	return h
}

// Get returns a pointer to the value behind h.
func (m *Map[T]) Get(h Handle[T]) (*T, bool) {
	i, ok := m.index.Resolve(h.id)
	if !ok {
		return nil, false
	}
	return m.values.Ptr(i), true
}

// Value returns a copy of the value behind h.
func (m *Map[T]) Value(h Handle[T]) (T, bool) {
	i, ok := m.index.Resolve(h.id)
	if !ok {
		var zero T
		return zero, false
	}
	return m.values.At(i), true
}

// Set replaces the value behind h and reports whether h was live.
func (m *Map[T]) Set(h Handle[T], v T) bool {
	i, ok := m.index.Resolve(h.id)
	if ok {
		m.values.Set(i, v)
	}
	return ok
}

// Contains reports whether h is live.
func (m *Map[T]) Contains(h Handle[T]) bool {
	return m.index.Contains(h.id)
}

// Destroy removes the value behind h. A stale handle is ignored and Destroy
// returns false.
func (m *Map[T]) Destroy(h Handle[T]) bool {
	m.check("destroy")

	hint := Invalid
	if n := m.handles.Len(); n > 0 {
		hint = m.handles.At(n - 1).id
	}

	cmd := m.index.Free(h.id, hint)
	switch cmd.Op {
	case Nop:
		if m.observer != nil {
			m.observer.HandleStale()
		}
		m.stale.Do(func() {
			m.logger.Debug("stale handle destroyed", "handle", h.id.String(), "len", m.values.Len())
		})
		return false
	case DeleteLast:
		m.values.Pop()
		m.handles.Pop()
	case SwapDeleteLast:
		m.values.SwapRemove(cmd.Filled)
		m.handles.SwapRemove(cmd.Filled)
	}

	m.check("destroy")
	return true
}

// Len returns the number of live values.
func (m *Map[T]) Len() int {
	return m.values.Len()
}

// Values exposes the dense value array. It aliases the map's storage.
func (m *Map[T]) Values() []T {
	return m.values.Slice()
}

// Handles exposes the dense handle array, parallel to Values.
func (m *Map[T]) Handles() []Handle[T] {
	return m.handles.Slice()
}

// All yields every live handle with a pointer to its value, in dense order.
// The map must not be modified during iteration.
func (m *Map[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		handles := m.handles.Slice()
		values := m.values.Slice()
		for i := range values {
			if !yield(handles[i], &values[i]) {
				return
			}
		}
	}
}

// Clear destroys every value. All handles become stale.
func (m *Map[T]) Clear() {
	m.index.Reset()
	m.values.Reset()
	m.handles.Reset()
	m.check("clear")
}

// Release gives all storage back to the allocator. The map is empty afterwards
// and must not be used with handles issued before the call.
func (m *Map[T]) Release() {
	m.values.Release()
	m.handles.Release()
	m.index.Release()
}

// Validate checks that every dense handle resolves to its own position.
func (m *Map[T]) Validate() error {
	if err := m.index.Validate(); err != nil {
		return err
	}
	n := m.values.Len()
	if m.handles.Len() != n || m.index.Len() != n {
		return fmt.Errorf("%w: %d values, %d handles, %d live ids", ErrCorrupt, n, m.handles.Len(), m.index.Len())
	}
	for i, h := range m.handles.Slice() {
		j, ok := m.index.Resolve(h.id)
		if !ok || j != i {
			return fmt.Errorf("%w: handle %s at %d resolves to %d (live %t)", ErrCorrupt, h.id, i, j, ok)
		}
	}
	return nil
}

// check validates the map in debug builds.
func (m *Map[T]) check(op string) {
	if !arena.Debug {
		return
	}
	if err := m.Validate(); err != nil {
		panic(fmt.Errorf("handle: %s: %w", op, err))
	}
}
