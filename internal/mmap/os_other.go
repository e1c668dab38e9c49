//go:build !unix && !windows

package mmap

// Without virtual memory control the system source degrades to the Go heap.

func osPageSize() int                    { return Heap{}.PageSize() }
func osReserve(size int) ([]byte, error) { return Heap{}.Reserve(size) }
func osCommit(b []byte) error            { return Heap{}.Commit(b) }
func osDecommit(b []byte) error          { return Heap{}.Decommit(b) }
func osRelease(b []byte) error           { return Heap{}.Release(b) }
