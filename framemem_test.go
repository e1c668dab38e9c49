package framemem_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/framemem"
	"github.com/hupe1980/framemem/arena"
	"github.com/hupe1980/framemem/scratch"
)

func newSystem(t *testing.T, opts ...framemem.Option) *framemem.System {
	t.Helper()
	sys, err := framemem.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Close() })
	return sys
}

func TestNew_InvalidLimits(t *testing.T) {
	_, err := framemem.New(framemem.WithCommitLimit(-1))
	assert.Error(t, err)

	_, err = framemem.New(framemem.WithMaxWorkers(-1))
	assert.Error(t, err)
}

func TestSystem_Arenas(t *testing.T) {
	metrics := &framemem.BasicMetricsCollector{}
	sys := newSystem(t, framemem.WithMetricsCollector(metrics))

	a, err := sys.NewArena(1 << 20)
	require.NoError(t, err)
	a.Alloc(10000, 8)

	stats := sys.Stats()
	assert.Equal(t, 1, stats.Arenas)
	assert.Equal(t, int64(a.Committed()), stats.Committed)
	assert.Equal(t, int64(a.Committed()), metrics.GetStats().CommittedBytes)

	require.NoError(t, sys.ReleaseArena(a))
	assert.True(t, a.Released())
	assert.Equal(t, 0, sys.Stats().Arenas)
	assert.Equal(t, int64(0), sys.Stats().Committed)
	assert.Equal(t, int64(0), metrics.GetStats().CommittedBytes)

	assert.ErrorIs(t, sys.ReleaseArena(a), framemem.ErrForeignArena)

	_, err = sys.NewArena(0)
	assert.ErrorIs(t, err, arena.ErrInvalidCapacity)
}

func TestSystem_CommitLimit(t *testing.T) {
	sys := newSystem(t,
		framemem.WithCommitLimit(1<<20),
		framemem.WithMemorySource(arena.HeapSource()),
	)

	a, err := sys.NewArena(8 << 20)
	require.NoError(t, err)
	b, err := sys.NewArena(8 << 20)
	require.NoError(t, err)

	a.Alloc(768<<10, 8)

	// The budget is shared, so the second arena runs out first.
	err = framemem.Guard(func() { b.Alloc(512<<10, 8) })
	require.Error(t, err)
	assert.True(t, framemem.IsExhausted(err))

	a.Reset()
	assert.NoError(t, framemem.Guard(func() { b.Alloc(512<<10, 8) }))
}

func TestSystem_Run(t *testing.T) {
	metrics := &framemem.BasicMetricsCollector{}
	sys := newSystem(t,
		framemem.WithMaxWorkers(8),
		framemem.WithScratchDepth(2),
		framemem.WithScratchCapacity(1<<20),
		framemem.WithMetricsCollector(metrics),
	)

	var mu sync.Mutex
	seen := map[*scratch.Pool]bool{}

	// Every worker holds its pool until all have started, so none is reused.
	var barrier sync.WaitGroup
	barrier.Add(8)

	err := sys.Run(context.Background(), 8, func(ctx context.Context, p *scratch.Pool, worker int) error {
		barrier.Done()
		barrier.Wait()

		assert.Equal(t, 2, p.Depth())

		outer := p.Get()
		defer outer.Release()
		inner := p.Get()
		defer inner.Release()
		inner.Alloc(1024, 16)

		mu.Lock()
		seen[p] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, 8)
	stats := metrics.GetStats()
	assert.Equal(t, int64(16), stats.ScratchCheckouts)
	assert.Equal(t, int64(0), stats.ScratchOutstanding)
	assert.Equal(t, int64(2), stats.ScratchMaxNesting)
	assert.Equal(t, int64(0), sys.Stats().Workers)
	assert.Equal(t, 8, sys.Stats().IdlePools)
}

func TestSystem_RunTooManyWorkers(t *testing.T) {
	sys := newSystem(t, framemem.WithMaxWorkers(1), framemem.WithScratchCapacity(1<<16))

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- sys.Run(context.Background(), 1, func(context.Context, *scratch.Pool, int) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := sys.Run(context.Background(), 1, func(context.Context, *scratch.Pool, int) error { return nil })
	assert.ErrorIs(t, err, scratch.ErrTooManyWorkers)

	close(release)
	require.NoError(t, <-done)
}

func TestSystem_Snapshot(t *testing.T) {
	metrics := &framemem.BasicMetricsCollector{}
	sys := newSystem(t, framemem.WithMetricsCollector(metrics), framemem.WithSnapshotRate(1<<30))

	src, err := sys.NewArena(1 << 20)
	require.NoError(t, err)
	b := src.Alloc(5000, 8)
	copy(b, "frame state")

	var buf bytes.Buffer
	n, err := sys.WriteSnapshot(context.Background(), src, &buf, arena.CompressionZstd)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	dst, err := sys.NewArena(1 << 20)
	require.NoError(t, err)
	require.NoError(t, sys.RestoreSnapshot(context.Background(), dst, &buf))
	assert.Equal(t, src.Pos(), dst.Pos())

	small, err := sys.NewArena(1024)
	require.NoError(t, err)
	buf.Reset()
	_, err = sys.WriteSnapshot(context.Background(), src, &buf, arena.CompressionNone)
	require.NoError(t, err)
	assert.ErrorIs(t, sys.RestoreSnapshot(context.Background(), small, &buf), arena.ErrCapacityExceeded)

	stats := metrics.GetStats()
	assert.Equal(t, int64(4), stats.SnapshotCount)
	assert.Equal(t, int64(1), stats.SnapshotErrors)
}

func TestSystem_NewMap(t *testing.T) {
	metrics := &framemem.BasicMetricsCollector{}
	sys := newSystem(t, framemem.WithMetricsCollector(metrics))

	m := framemem.NewMap[string](sys)
	h := m.Insert("mesh")
	m.Destroy(h)
	m.Destroy(h)

	assert.Equal(t, int64(1), metrics.GetStats().StaleHandles)
}

func TestSystem_Close(t *testing.T) {
	sys, err := framemem.New(framemem.WithScratchCapacity(1 << 16))
	require.NoError(t, err)

	a, err := sys.NewArena(1 << 16)
	require.NoError(t, err)
	require.NoError(t, sys.Scratch().Do(func(p *scratch.Pool) error {
		p.Get().Release()
		return nil
	}))

	require.NoError(t, sys.Close())
	require.NoError(t, sys.Close())
	assert.True(t, a.Released())
	assert.Equal(t, 0, sys.Stats().IdlePools)

	_, err = sys.NewArena(1 << 16)
	assert.ErrorIs(t, err, framemem.ErrClosed)
	assert.ErrorIs(t, sys.Run(context.Background(), 1, nil), framemem.ErrClosed)
}

func TestSystem_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := framemem.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sys := newSystem(t, framemem.WithLogger(logger))

	a, err := sys.NewArena(1 << 16)
	require.NoError(t, err)
	require.NoError(t, sys.ReleaseArena(a))

	boom := errors.New("boom")
	err = sys.Run(context.Background(), 1, func(context.Context, *scratch.Pool, int) error { return boom })
	assert.ErrorIs(t, err, boom)

	out := buf.String()
	assert.Contains(t, out, "arena reserved")
	assert.Contains(t, out, "arena released")
	assert.Contains(t, out, "scratch worker failed")
	assert.Contains(t, out, "component=arena")
}
