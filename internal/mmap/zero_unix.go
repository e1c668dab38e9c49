//go:build unix && !linux

package mmap

// Other kernels may keep the old page contents after MADV_DONTNEED.
const clearOnCommit = true
