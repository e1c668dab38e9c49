// Package arena provides a linear allocator over one reserved virtual memory region.
//
// An Arena reserves a large range of address space up front and commits pages
// only as the bump pointer reaches them. Allocation is a pointer increment;
// freeing happens in bulk by rewinding to an earlier position.
//
// # Features
//
//   - Off-heap allocation via reserve/commit (no GC pressure)
//   - Stack-discipline checkpoints (Temp, PopTo) for scoped temporary memory
//   - In-place growth and shrink of the most recent allocation (TryResize)
//   - Uniform Allocator interface shared with a Go-heap fallback (Heap)
//   - Compressed snapshots of the used region (none, LZ4, zstd)
//
// # Usage
//
//	a, err := arena.New(1 << 30) // reserve 1 GiB, commit nothing yet
//	if err != nil { ... }
//	defer a.Release()
//
//	t := a.Temp()
//	buf := a.Alloc(4096, 64)
//	...
//	t.End() // buf is invalid from here on
//
// # Failure Model
//
// Running out of capacity is a configuration error, not a runtime condition:
// Alloc panics with an *ExhaustedError. Arenas are meant to be over-provisioned;
// reserving address space is nearly free and only touched pages cost memory.
// TryResize returning false is a normal result that asks the caller to
// allocate fresh storage and copy.
//
// # Safety
//
// An Arena is not safe for concurrent use. Memory handed out by an arena that
// does not use the Heap source is invisible to the garbage collector: values
// stored there must not contain Go pointers. Building with the framemem_debug
// tag fills rewound memory and alignment padding with PoisonByte so stale reads
// stand out.
package arena
