package arena

import "fmt"

// Stats tracks arena memory usage metrics.
//
// Note on semantics:
//   - Capacity: logical limit requested at creation
//   - Reserved: address space reserved from the OS (Capacity rounded to pages)
//   - Committed: bytes currently backed by physical memory
//   - Used: current bump position, including alignment padding
//   - Peak: high-water mark of Used
type Stats struct {
	Capacity  int
	Reserved  int
	Committed int
	Used      int
	Peak      int
	Allocs    uint64 // Historical: total allocations
	Commits   uint64 // Historical: commit calls
	Decommits uint64 // Historical: decommit calls
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		Capacity:  a.capacity,
		Reserved:  a.res.Size(),
		Committed: a.committed,
		Used:      a.pos,
		Peak:      a.stats.peak,
		Allocs:    a.stats.allocs,
		Commits:   a.stats.commits,
		Decommits: a.stats.decommits,
	}
}

// Usage returns the used share of the capacity in percent.
func (a *Arena) Usage() float64 {
	if a.capacity == 0 {
		return 0
	}
	return float64(a.pos) / float64(a.capacity) * 100
}

func (a *Arena) String() string {
	stats := a.Stats()
	return fmt.Sprintf(
		"Arena{capacity: %.2f MB, committed: %.2f KB, used: %.2f KB, peak: %.2f KB, usage: %.1f%%, allocs: %d}",
		float64(stats.Capacity)/(1024*1024),
		float64(stats.Committed)/1024,
		float64(stats.Used)/1024,
		float64(stats.Peak)/1024,
		a.Usage(),
		stats.Allocs,
	)
}
