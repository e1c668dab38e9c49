package handle

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/framemem/arena"
)

// Op tells the owner of the dense arrays what to do after Free.
type Op uint8

const (
	// Nop means the ID was stale and nothing changed.
	Nop Op = iota
	// DeleteLast means the freed element was last; pop the dense arrays.
	DeleteLast
	// SwapDeleteLast means the last element moves into Filled; swap-remove there.
	SwapDeleteLast
)

func (op Op) String() string {
	switch op {
	case Nop:
		return "nop"
	case DeleteLast:
		return "delete-last"
	case SwapDeleteLast:
		return "swap-delete-last"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Command is the result of Free.
type Command struct {
	Op Op
	// Filled is the dense index that receives the last element (SwapDeleteLast only).
	Filled int
}

type slotState uint8

const (
	slotFree slotState = iota
	slotLive
	slotRetired
)

// slot holds the dense index of a live element, or the next free slot plus one
// (0 ends the list).
type slot struct {
	link  uint32
	gen   uint8
	state slotState
}

// slotLimit caps the slot table. Tests lower it.
var slotLimit = MaxIndex + 1

// IndexMap maps generational IDs to dense indices.
//
// The zero value is an empty map on the Go heap.
type IndexMap struct {
	alloc   arena.Allocator
	slots   []slot
	free    uint32 // head of the free list plus one; 0 when empty
	freeLen int
	live    int
	retired int
}

// NewIndexMap creates an IndexMap whose slot table lives in alloc.
// A nil allocator means the Go heap.
func NewIndexMap(alloc arena.Allocator) *IndexMap {
	return &IndexMap{alloc: alloc}
}

// New issues an ID bound to the next dense index (Len before the call).
// It reuses the most recently freed slot, keeping its bumped generation, or
// appends a slot with generation 0. Running out of slots panics with
// ErrCapacityExceeded.
func (m *IndexMap) New() ID {
	dense := uint32(m.live)

	if m.free != 0 {
		i := m.free - 1
		s := &m.slots[i]
		m.free = s.link
		m.freeLen--
		s.link = dense
		s.state = slotLive
		m.live++
		return MakeID(s.gen, i)
	}

	if len(m.slots) >= slotLimit {
		panic(fmt.Errorf("%w: %d slots, %d retired", ErrCapacityExceeded, len(m.slots), m.retired))
	}

	i := uint32(len(m.slots))
	m.slots = arena.Append(m.alloc, m.slots, slot{link: dense, state: slotLive})
	m.live++
	return MakeID(0, i)
}

// Resolve returns the dense index of id if id is live.
func (m *IndexMap) Resolve(id ID) (int, bool) {
	i := id.Index()
	if int(i) >= len(m.slots) {
		return 0, false
	}
	s := m.slots[i]
	if s.state != slotLive || s.gen != id.Generation() {
		return 0, false
	}
	return int(s.link), true
}

// Contains reports whether id is live.
func (m *IndexMap) Contains(id ID) bool {
	_, ok := m.Resolve(id)
	return ok
}

// Free invalidates id and tells the caller how to fix its dense arrays.
//
// hint should be the ID stored at the last dense index; it makes Free O(1).
// With Invalid or a wrong hint, Free scans the slot table to find that ID.
// A stale id returns Nop.
func (m *IndexMap) Free(id ID, hint ID) Command {
	freed, ok := m.Resolve(id)
	if !ok {
		return Command{Op: Nop}
	}

	m.release(id.Index())
	m.live--

	last := m.live
	if freed == last {
		return Command{Op: DeleteLast}
	}

	moved := m.findDense(last, hint)
	m.slots[moved].link = uint32(freed)

	return Command{Op: SwapDeleteLast, Filled: freed}
}

// release bumps the slot's generation and pushes it onto the free list, or
// retires it when the generation is exhausted.
func (m *IndexMap) release(i uint32) {
	s := &m.slots[i]
	if s.gen == MaxGeneration {
		s.state = slotRetired
		s.link = 0
		m.retired++
		return
	}
	s.gen++
	s.state = slotFree
	s.link = m.free
	m.free = i + 1
	m.freeLen++
}

// findDense returns the slot that maps to dense index d.
func (m *IndexMap) findDense(d int, hint ID) uint32 {
	if idx, ok := m.Resolve(hint); ok && idx == d {
		return hint.Index()
	}
	for i, s := range m.slots {
		if s.state == slotLive && int(s.link) == d {
			return uint32(i)
		}
	}
	panic(fmt.Errorf("%w: no slot maps to dense index %d", ErrCorrupt, d))
}

// Len returns the number of live IDs.
func (m *IndexMap) Len() int {
	return m.live
}

// Slots returns the size of the slot table.
func (m *IndexMap) Slots() int {
	return len(m.slots)
}

// Retired returns the number of slots retired by generation wrap.
func (m *IndexMap) Retired() int {
	return m.retired
}

// Reset invalidates every live ID. Slots keep their bumped generations.
func (m *IndexMap) Reset() {
	for i := range m.slots {
		if m.slots[i].state == slotLive {
			m.release(uint32(i))
		}
	}
	m.live = 0
}

// Release gives the slot table back to the allocator and invalidates every ID
// ever issued by the map.
//
// The map restarts from generation 0 afterwards, so old IDs may resolve again
// once reissued. Only release a map whose IDs are no longer in circulation.
func (m *IndexMap) Release() {
	arena.Free(m.alloc, m.slots)
	m.slots = nil
	m.free = 0
	m.freeLen = 0
	m.live = 0
	m.retired = 0
}

// Validate checks the slot table: live slots map to distinct dense indices in
// [0, Len), the free list is acyclic and holds exactly the free slots.
func (m *IndexMap) Validate() error {
	dense := roaring.New()
	var live, free, retired int

	for i, s := range m.slots {
		switch s.state {
		case slotLive:
			live++
			if int(s.link) >= m.live {
				return fmt.Errorf("%w: slot %d maps to dense index %d, len %d", ErrCorrupt, i, s.link, m.live)
			}
			if !dense.CheckedAdd(s.link) {
				return fmt.Errorf("%w: dense index %d mapped twice", ErrCorrupt, s.link)
			}
		case slotFree:
			free++
		case slotRetired:
			retired++
		}
	}

	if live != m.live {
		return fmt.Errorf("%w: %d live slots, len %d", ErrCorrupt, live, m.live)
	}
	if retired != m.retired {
		return fmt.Errorf("%w: %d retired slots, counted %d", ErrCorrupt, retired, m.retired)
	}

	seen := roaring.New()
	n := 0
	for next := m.free; next != 0; next = m.slots[next-1].link {
		i := next - 1
		if int(i) >= len(m.slots) {
			return fmt.Errorf("%w: free list points past the table at %d", ErrCorrupt, i)
		}
		if m.slots[i].state != slotFree {
			return fmt.Errorf("%w: free list holds non-free slot %d", ErrCorrupt, i)
		}
		if !seen.CheckedAdd(i) {
			return fmt.Errorf("%w: free list cycles at slot %d", ErrCorrupt, i)
		}
		n++
	}

	if n != free || n != m.freeLen {
		return fmt.Errorf("%w: free list holds %d slots, %d free, counted %d", ErrCorrupt, n, free, m.freeLen)
	}

	return nil
}
