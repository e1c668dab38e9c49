package framemem

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/framemem/arena"
	"github.com/hupe1980/framemem/handle"
	"github.com/hupe1980/framemem/scratch"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// A collector is registered as the observer of every arena, scratch pool and
// handle map the System creates, so its methods may be called from several
// goroutines at once.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    framemem.NoopMetricsCollector
//	    committed prometheus.Gauge
//	}
//
//	func (p *PrometheusCollector) ArenaCommitted(bytes int) {
//	    p.committed.Add(float64(bytes))
//	}
type MetricsCollector interface {
	// ArenaCommitted is called after an arena commits bytes of new pages.
	ArenaCommitted(bytes int)

	// ArenaDecommitted is called after an arena returns bytes of pages.
	ArenaDecommitted(bytes int)

	// ArenaExhausted is called right before an arena panics for lack of capacity
	// or commit budget.
	ArenaExhausted()

	// ScratchCheckedOut is called after a scratch checkout. outstanding is the
	// number of live checkouts on that pool, this one included.
	ScratchCheckedOut(outstanding int)

	// ScratchReleased is called after a scratch checkout is returned.
	ScratchReleased()

	// HandleStale is called when a handle map is asked to destroy a stale handle.
	HandleStale()

	// RecordSnapshot is called after each snapshot write or restore.
	RecordSnapshot(bytes int64, duration time.Duration, err error)
}

var (
	_ arena.Observer   = MetricsCollector(nil)
	_ scratch.Observer = MetricsCollector(nil)
	_ handle.Observer  = MetricsCollector(nil)
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) ArenaCommitted(int)                         {}
func (NoopMetricsCollector) ArenaDecommitted(int)                       {}
func (NoopMetricsCollector) ArenaExhausted()                            {}
func (NoopMetricsCollector) ScratchCheckedOut(int)                      {}
func (NoopMetricsCollector) ScratchReleased()                           {}
func (NoopMetricsCollector) HandleStale()                               {}
func (NoopMetricsCollector) RecordSnapshot(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CommittedBytes     atomic.Int64
	CommitCount        atomic.Int64
	DecommitCount      atomic.Int64
	ExhaustedCount     atomic.Int64
	ScratchCheckouts   atomic.Int64
	ScratchOutstanding atomic.Int64
	ScratchMaxNesting  atomic.Int64
	StaleHandles       atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotBytes      atomic.Int64
	SnapshotTotalNanos atomic.Int64
}

// ArenaCommitted implements MetricsCollector.
func (b *BasicMetricsCollector) ArenaCommitted(bytes int) {
	b.CommittedBytes.Add(int64(bytes))
	b.CommitCount.Add(1)
}

// ArenaDecommitted implements MetricsCollector.
func (b *BasicMetricsCollector) ArenaDecommitted(bytes int) {
	b.CommittedBytes.Add(-int64(bytes))
	b.DecommitCount.Add(1)
}

// ArenaExhausted implements MetricsCollector.
func (b *BasicMetricsCollector) ArenaExhausted() {
	b.ExhaustedCount.Add(1)
}

// ScratchCheckedOut implements MetricsCollector.
func (b *BasicMetricsCollector) ScratchCheckedOut(outstanding int) {
	b.ScratchCheckouts.Add(1)
	b.ScratchOutstanding.Add(1)
	for {
		cur := b.ScratchMaxNesting.Load()
		if int64(outstanding) <= cur || b.ScratchMaxNesting.CompareAndSwap(cur, int64(outstanding)) {
			return
		}
	}
}

// ScratchReleased implements MetricsCollector.
func (b *BasicMetricsCollector) ScratchReleased() {
	b.ScratchOutstanding.Add(-1)
}

// HandleStale implements MetricsCollector.
func (b *BasicMetricsCollector) HandleStale() {
	b.StaleHandles.Add(1)
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(bytes int64, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CommittedBytes:     b.CommittedBytes.Load(),
		CommitCount:        b.CommitCount.Load(),
		DecommitCount:      b.DecommitCount.Load(),
		ExhaustedCount:     b.ExhaustedCount.Load(),
		ScratchCheckouts:   b.ScratchCheckouts.Load(),
		ScratchOutstanding: b.ScratchOutstanding.Load(),
		ScratchMaxNesting:  b.ScratchMaxNesting.Load(),
		StaleHandles:       b.StaleHandles.Load(),
		SnapshotCount:      b.SnapshotCount.Load(),
		SnapshotErrors:     b.SnapshotErrors.Load(),
		SnapshotBytes:      b.SnapshotBytes.Load(),
		SnapshotAvgNanos:   b.getAvgSnapshotNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgSnapshotNanos() int64 {
	count := b.SnapshotCount.Load()
	if count == 0 {
		return 0
	}
	return b.SnapshotTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CommittedBytes     int64
	CommitCount        int64
	DecommitCount      int64
	ExhaustedCount     int64
	ScratchCheckouts   int64
	ScratchOutstanding int64
	ScratchMaxNesting  int64
	StaleHandles       int64
	SnapshotCount      int64
	SnapshotErrors     int64
	SnapshotBytes      int64
	SnapshotAvgNanos   int64
}
