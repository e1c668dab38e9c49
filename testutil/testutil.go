package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Perm returns a pseudo-random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Fill fills dst with random bytes.
func (r *RNG) Fill(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = byte(r.rand.Intn(256))
	}
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// AllocRequest is one Alloc call of a generated workload.
type AllocRequest struct {
	Size  int
	Align int
}

// AllocRequests generates n requests with sizes in [1, maxSize] skewed toward
// small sizes and power-of-two alignments up to 64.
func (r *RNG) AllocRequests(n, maxSize int) []AllocRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Sizes come from 64 Zipf buckets over [1, maxSize].
	const buckets = 64
	width := max(1, maxSize/buckets)

	out := make([]AllocRequest, n)
	for i := range out {
		b := r.zipfLocked(buckets, 1.2)
		size := min(maxSize, 1+b*width+r.rand.Intn(width))
		out[i] = AllocRequest{
			Size:  size,
			Align: 1 << r.rand.Intn(7),
		}
	}
	return out
}

// TotalSize returns the bytes a workload needs in the worst case, counting
// alignment padding.
func TotalSize(reqs []AllocRequest) int {
	n := 0
	for _, r := range reqs {
		n += r.Size + r.Align - 1
	}
	return n
}
