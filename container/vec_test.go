package container

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/framemem/arena"
)

func allocators(t *testing.T) map[string]arena.Allocator {
	t.Helper()
	a, err := arena.New(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Release() })
	return map[string]arena.Allocator{"heap": arena.DefaultHeap, "arena": a}
}

func TestVec(t *testing.T) {
	for name, alloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			v := NewVec[int64](alloc, 2)
			assert.Equal(t, 0, v.Len())
			assert.GreaterOrEqual(t, v.Cap(), 2)

			for i := range int64(50) {
				v.Push(i * 10)
			}
			require.Equal(t, 50, v.Len())
			assert.Equal(t, int64(490), v.At(49))

			v.Set(0, -1)
			assert.Equal(t, int64(-1), v.At(0))
			*v.Ptr(1) = -2
			assert.Equal(t, int64(-2), v.Slice()[1])

			x, ok := v.Pop()
			assert.True(t, ok)
			assert.Equal(t, int64(490), x)
			assert.Equal(t, 49, v.Len())

			removed := v.SwapRemove(0)
			assert.Equal(t, int64(-1), removed)
			assert.Equal(t, int64(480), v.At(0))
			assert.Equal(t, 48, v.Len())

			v.Truncate(10)
			assert.Equal(t, 10, v.Len())
			v.Truncate(100)
			assert.Equal(t, 10, v.Len())

			v.Reset()
			assert.Equal(t, 0, v.Len())
			_, ok = v.Pop()
			assert.False(t, ok)

			v.Release()
			assert.Equal(t, 0, v.Cap())
			v.Push(1)
			assert.Equal(t, 1, v.Len())
		})
	}
}

func TestVec_Panics(t *testing.T) {
	v := NewVec[int](nil, 0)
	assert.Panics(t, func() { v.SwapRemove(0) })
	assert.Panics(t, func() { v.Truncate(-1) })
	assert.Panics(t, func() { v.At(0) })
}

func TestVec_ArenaGrowsInPlace(t *testing.T) {
	a, err := arena.New(1 << 20)
	require.NoError(t, err)
	defer func() { _ = a.Release() }()

	v := NewVec[uint32](a, 4)
	for i := range uint32(4) {
		v.Push(i)
	}
	pos := a.Pos()
	v.Push(4)

	// The Vec's storage was the last allocation, so it grew in place.
	assert.Equal(t, v.Cap()*4, a.Pos())
	assert.Greater(t, a.Pos(), pos)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, v.Slice())

	v.Release()
	assert.Equal(t, 0, a.Pos())
}

func ExampleVec() {
	a, err := arena.New(1 << 16)
	if err != nil {
		panic(err)
	}
	defer func() { _ = a.Release() }()

	v := NewVec[int](a, 0)
	v.Push(1)
	v.Push(2)
	v.Push(3)
	fmt.Println(v.Slice())
	// Output: [1 2 3]
}
