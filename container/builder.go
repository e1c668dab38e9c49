package container

import (
	"io"
	"unicode/utf8"
	"unsafe"

	"github.com/hupe1980/framemem/arena"
)

// Builder builds a string in allocator memory.
//
// String returns a view of the builder's bytes without copying. With an arena
// allocator that string is valid until the arena is rewound past it.
type Builder struct {
	alloc arena.Allocator
	buf   []byte
}

var (
	_ io.Writer       = (*Builder)(nil)
	_ io.ByteWriter   = (*Builder)(nil)
	_ io.StringWriter = (*Builder)(nil)
)

// NewBuilder returns an empty Builder. A nil allocator means the Go heap.
func NewBuilder(alloc arena.Allocator) *Builder {
	if alloc == nil {
		alloc = arena.DefaultHeap
	}
	return &Builder{alloc: alloc}
}

// Grow guarantees room for n more bytes.
func (b *Builder) Grow(n int) {
	b.buf = arena.Grow(b.alloc, b.buf, n)
}

func (b *Builder) Write(p []byte) (int, error) {
	b.Grow(len(p))
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte appends c.
func (b *Builder) WriteByte(c byte) error {
	b.Grow(1)
	b.buf = append(b.buf, c)
	return nil
}

// WriteRune appends the UTF-8 encoding of r.
func (b *Builder) WriteRune(r rune) (int, error) {
	b.Grow(utf8.UTFMax)
	n := len(b.buf)
	b.buf = utf8.AppendRune(b.buf, r)
	return len(b.buf) - n, nil
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	b.Grow(len(s))
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// Len returns the number of bytes written.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying storage.
func (b *Builder) Cap() int {
	return cap(b.buf)
}

// Bytes returns the written bytes. The slice aliases the builder's storage.
func (b *Builder) Bytes() []byte {
	return b.buf
}

func (b *Builder) String() string {
	return unsafe.String(unsafe.SliceData(b.buf), len(b.buf))
}

// Reset gives the storage back to the allocator and empties the builder.
// Strings returned earlier must not be used afterwards if the allocator can
// reuse the memory.
func (b *Builder) Reset() {
	arena.Free(b.alloc, b.buf)
	b.buf = nil
}
