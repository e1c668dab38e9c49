package handle

import "fmt"

// ID is a bit-packed {generation, index} pair. The generation occupies the top
// byte and the slot index the low 24 bits. Two IDs are equal iff their bits are.
type ID uint32

const (
	indexBits = 24
	indexMask = 1<<indexBits - 1

	// MaxIndex is the largest slot index ever issued.
	MaxIndex = indexMask - 1

	// MaxGeneration is the last generation a slot can carry before it is retired.
	MaxGeneration = 255

	// Invalid never resolves. Its index lies above MaxIndex, so it is never issued.
	Invalid ID = 0xFFFFFFFF
)

// MakeID packs a generation and a slot index.
func MakeID(generation uint8, index uint32) ID {
	return ID(uint32(generation)<<indexBits | index&indexMask)
}

// Generation returns the generation stored in the top byte.
func (id ID) Generation() uint8 {
	return uint8(id >> indexBits)
}

// Index returns the slot index stored in the low 24 bits.
func (id ID) Index() uint32 {
	return uint32(id) & indexMask
}

// IsValid reports whether id is not Invalid. It says nothing about liveness.
func (id ID) IsValid() bool {
	return id != Invalid
}

func (id ID) String() string {
	if id == Invalid {
		return "invalid"
	}
	return fmt.Sprintf("%dv%d", id.Index(), id.Generation())
}

// Handle is an ID typed by the value it refers to.
//
// The zero Handle is the first slot's first generation, not a null handle.
// Use InvalidHandle for "no handle".
type Handle[T any] struct {
	id ID
}

// InvalidHandle returns a handle that never resolves.
func InvalidHandle[T any]() Handle[T] {
	return Handle[T]{id: Invalid}
}

// HandleOf wraps a raw ID, for example one received from another module.
func HandleOf[T any](id ID) Handle[T] {
	return Handle[T]{id: id}
}

// ID returns the raw bit-packed ID.
func (h Handle[T]) ID() ID {
	return h.id
}

// IsValid reports whether h is not the invalid handle.
func (h Handle[T]) IsValid() bool {
	return h.id.IsValid()
}

func (h Handle[T]) String() string {
	return h.id.String()
}
