// Package handle implements generational handles over dense arrays.
//
// An IndexMap hands out IDs that pack an 8-bit generation and a 24-bit slot
// index. Freeing an ID bumps the slot's generation, so every copy of the old ID
// stops resolving even after the slot is reused. Map[T] pairs an IndexMap with
// two dense arrays (values and handles) kept gap-free by swap-remove, which
// makes iteration a walk over contiguous memory.
//
// Stale handles are not errors: Get reports absence and Destroy does nothing.
//
// # Generation wrap
//
// A slot whose generation would wrap past 255 is retired: it never returns to
// the free list, so an old ID can never alias a newer one. Each retired slot
// costs one slot of the 24-bit index space.
//
// Neither IndexMap nor Map is safe for concurrent mutation.
package handle
