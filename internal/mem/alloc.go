// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the default byte alignment (one AVX-512 register, one cache line).
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first byte
// sits at an address divisible by align. align must be a power of two; values
// below 1 select Alignment.
//
// Note: This function allocates up to align-1 extra bytes to find an aligned start.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 {
		align = Alignment
	}

	buf := make([]byte, size+align-1)

	// Calculate the offset to the first aligned byte
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether the first byte of b sits on an align boundary.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 {
		return true
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address inspection only
	return addr&uintptr(align-1) == 0
}
