// Package resource implements the Controller for global memory governance.
//
// The Controller provides centralized management of three resource types:
//
//   - Commit budget: physical memory committed by arenas (non-blocking, fail-fast)
//   - Workers: goroutines that own a private scratch pool
//   - Snapshot IO: pacing of arena snapshot writes
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Commit Budget  │  Worker Slots   │  Snapshot IO Limiter    │
//	│  (fail-fast)    │  (sem)          │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  TryAcquire-    │  WaitIO                 │
//	│  (non-blocking) │  Worker         │  TryAcquireIO           │
//	│  ReleaseMemory  │  ReleaseWorker  │                         │
//	│  MemoryUsage    │  Workers        │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Commit Budget
//
// Arenas reserve generous address space but only commit the pages they touch.
// The commit budget caps the sum of committed bytes across all arenas wired to
// the controller. AcquireMemory never blocks; an arena that cannot commit treats
// the denial as fatal exhaustion:
//
//	rc := resource.NewController(resource.Config{
//	    CommitLimitBytes: 1 << 30, // 1GB of physical backing
//	})
//
//	if err := rc.AcquireMemory(64 << 10); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(64 << 10)
//
// # Worker Slots
//
// Every worker registered with a scratch registry holds one slot for its
// lifetime:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers: 8,
//	})
//
//	if !rc.TryAcquireWorker() {
//	    return scratch.ErrTooManyWorkers
//	}
//	defer rc.ReleaseWorker()
//
// # Snapshot IO
//
// Token bucket limiter so a large arena snapshot does not saturate the disk:
//
//	rc := resource.NewController(resource.Config{
//	    SnapshotBytesPerSec: 64 * 1024 * 1024, // 64MB/s
//	})
//
//	if err := rc.WaitIO(ctx, len(block)); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use. The underlying
// implementations use atomic operations and sync primitives.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
