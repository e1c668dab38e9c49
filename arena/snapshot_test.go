package arena

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/framemem/internal/resource"
	"github.com/hupe1980/framemem/testutil"
)

func fillArena(t *testing.T, a *Arena, n int) []byte {
	t.Helper()
	rng := testutil.NewRNG(42)
	b := a.Alloc(n, 8)
	for i := range b {
		// Runs of equal bytes keep the payload compressible.
		b[i] = byte(rng.Intn(4))
	}
	return append([]byte(nil), b...)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			src := newTestArena(t, 1<<22)
			want := fillArena(t, src, 300<<10)

			var buf bytes.Buffer
			n, err := src.WriteSnapshot(context.Background(), &buf, c)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			dst := newTestArena(t, 1<<22)
			dst.Alloc(123, 8)
			require.NoError(t, dst.RestoreSnapshot(context.Background(), &buf))

			assert.Equal(t, len(want), dst.Pos())
			assert.True(t, bytes.Equal(want, dst.buf[:dst.Pos()]))
		})
	}
}

func TestSnapshot_Empty(t *testing.T) {
	src := newTestArena(t, 1<<16)

	var buf bytes.Buffer
	_, err := src.WriteSnapshot(context.Background(), &buf, CompressionLZ4)
	require.NoError(t, err)

	dst := newTestArena(t, 1<<16)
	dst.Alloc(64, 8)
	require.NoError(t, dst.RestoreSnapshot(context.Background(), &buf))
	assert.Equal(t, 0, dst.Pos())
}

func TestSnapshot_Corrupt(t *testing.T) {
	src := newTestArena(t, 1<<20)
	fillArena(t, src, 4096)

	var buf bytes.Buffer
	_, err := src.WriteSnapshot(context.Background(), &buf, CompressionNone)
	require.NoError(t, err)
	raw := buf.Bytes()

	t.Run("checksum", func(t *testing.T) {
		bad := bytes.Clone(raw)
		bad[len(bad)-1] ^= 0xFF

		dst := newTestArena(t, 1<<20)
		err := dst.RestoreSnapshot(context.Background(), bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
		assert.Equal(t, 0, dst.Pos())
	})

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(raw)
		bad[0] = 'X'

		dst := newTestArena(t, 1<<20)
		assert.ErrorIs(t, dst.RestoreSnapshot(context.Background(), bytes.NewReader(bad)), ErrInvalidSnapshot)
	})

	t.Run("truncated", func(t *testing.T) {
		dst := newTestArena(t, 1<<20)
		err := dst.RestoreSnapshot(context.Background(), bytes.NewReader(raw[:len(raw)/2]))
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
		assert.Equal(t, 0, dst.Pos())
	})

	t.Run("unknown compression", func(t *testing.T) {
		bad := bytes.Clone(raw)
		bad[5] = 9

		dst := newTestArena(t, 1<<20)
		assert.ErrorIs(t, dst.RestoreSnapshot(context.Background(), bytes.NewReader(bad)), ErrInvalidSnapshot)
	})
}

func TestSnapshot_TooLarge(t *testing.T) {
	src := newTestArena(t, 1<<20)
	fillArena(t, src, 8192)

	var buf bytes.Buffer
	_, err := src.WriteSnapshot(context.Background(), &buf, CompressionZstd)
	require.NoError(t, err)

	dst := newTestArena(t, 4096)
	err = dst.RestoreSnapshot(context.Background(), &buf)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestSnapshot_CommitBudgetDenied(t *testing.T) {
	src := newTestArena(t, 1<<20)
	want := fillArena(t, src, 16<<10)

	var buf bytes.Buffer
	_, err := src.WriteSnapshot(context.Background(), &buf, CompressionNone)
	require.NoError(t, err)

	ctrl := resource.NewController(resource.Config{CommitLimitBytes: 4096})
	dst := newTestArena(t, 1<<20, WithMemoryAcquirer(ctrl))
	require.Less(t, int64(4096), int64(len(want)))

	require.NotPanics(t, func() {
		err = dst.RestoreSnapshot(context.Background(), bytes.NewReader(buf.Bytes()))
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, 0, dst.Pos())
	assert.Equal(t, int64(0), ctrl.MemoryUsage())
}

type recordingLimiter struct {
	bytes int
}

func (l *recordingLimiter) WaitIO(ctx context.Context, n int) error {
	l.bytes += n
	return ctx.Err()
}

func TestSnapshot_IOLimiter(t *testing.T) {
	lim := &recordingLimiter{}
	src := newTestArena(t, 1<<20, WithIOLimiter(lim))
	fillArena(t, src, 10000)

	var buf bytes.Buffer
	n, err := src.WriteSnapshot(context.Background(), &buf, CompressionNone)
	require.NoError(t, err)
	assert.Equal(t, int(n), lim.bytes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.WriteSnapshot(ctx, &bytes.Buffer{}, CompressionNone)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_Released(t *testing.T) {
	a, err := New(1 << 16)
	require.NoError(t, err)
	require.NoError(t, a.Release())

	_, err = a.WriteSnapshot(context.Background(), &bytes.Buffer{}, CompressionNone)
	assert.ErrorIs(t, err, ErrReleased)
	assert.ErrorIs(t, a.RestoreSnapshot(context.Background(), &bytes.Buffer{}), ErrReleased)
}
