// Package mmap provides reserved virtual memory ranges with on-demand commit.
//
// # Overview
//
// A Reservation claims a contiguous range of address space without backing it
// with physical memory. Pages become usable only after Commit and can be handed
// back to the OS with Decommit while the address range stays reserved. This is
// the primitive underneath the arena allocator: an arena reserves far more than
// it will ever touch and only pays for the pages it actually uses.
//
// # Usage
//
//	r, err := mmap.Reserve(mmap.System(), 1<<30)
//	if err != nil { ... }
//	defer r.Close()
//
//	// Back the first page with memory
//	if err := r.Commit(0, r.PageSize()); err != nil { ... }
//	buf := r.Bytes()[:r.PageSize()]
//
// # Platform Support
//
// The package provides a unified Source across platforms:
//
//   - Unix (Linux, macOS, BSD): mmap(2) with PROT_NONE to reserve, mprotect(2) to
//     commit, madvise(2) + mprotect(2) to decommit, munmap(2) to release
//   - Windows: VirtualAlloc with MEM_RESERVE / MEM_COMMIT, VirtualFree with
//     MEM_DECOMMIT / MEM_RELEASE
//   - Everything else: the Go heap (see Heap)
//
// Committed memory always reads as zero, including pages that were decommitted
// and committed again.
//
// # Thread Safety
//
// Close is idempotent and protected by atomic operations. Commit and Decommit
// must not race with each other on overlapping ranges; the arena that owns a
// reservation serializes them.
package mmap
