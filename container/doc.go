// Package container provides allocator-agnostic containers.
//
// Vec and Builder obtain their storage through an arena.Allocator, so the same
// code runs against a per-frame scratch arena, a persistent arena, or the Go
// heap. Storage handed out by an arena is only valid until that arena is
// rewound past it.
package container
