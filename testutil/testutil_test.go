package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReset(t *testing.T) {
	rng := NewRNG(4711)

	a := rng.Intn(1000)
	b := rng.Uint64()
	rng.Reset()

	assert.Equal(t, a, rng.Intn(1000))
	assert.Equal(t, b, rng.Uint64())
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestPerm(t *testing.T) {
	rng := NewRNG(1)

	p := rng.Perm(10)
	assert.Len(t, p, 10)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p)
}

func TestZipf(t *testing.T) {
	rng := NewRNG(4711)

	counts := make([]int, 10)
	for range 10000 {
		k := rng.Zipf(10, 1.5)
		assert.GreaterOrEqual(t, k, 0)
		assert.Less(t, k, 10)
		counts[k]++
	}

	assert.Greater(t, counts[0], counts[9])
	assert.Equal(t, 0, rng.Zipf(1, 1.5))
}

func TestAllocRequests(t *testing.T) {
	rng := NewRNG(4711)

	reqs := rng.AllocRequests(1000, 4096)
	assert.Len(t, reqs, 1000)

	small := 0
	for _, r := range reqs {
		assert.GreaterOrEqual(t, r.Size, 1)
		assert.LessOrEqual(t, r.Size, 4096)
		assert.Zero(t, r.Align&(r.Align-1))
		assert.LessOrEqual(t, r.Align, 64)
		if r.Size <= 1024 {
			small++
		}
	}
	assert.Greater(t, small, 500)
	assert.Greater(t, TotalSize(reqs), 1000)
}

func TestFill(t *testing.T) {
	rng := NewRNG(4711)

	b := make([]byte, 256)
	rng.Fill(b)

	nonZero := 0
	for _, v := range b {
		if v != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 200)
}
