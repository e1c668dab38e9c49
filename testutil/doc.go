// Package testutil provides testing utilities for framemem.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for allocation
// workloads.
//
// # Allocation Workloads
//
//	rng := testutil.NewRNG(seed)
//	reqs := rng.AllocRequests(1000, 4096) // sizes skewed toward small
//	for _, r := range reqs {
//		a.Alloc(r.Size, r.Align)
//	}
package testutil
