// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides Go-heap buffers aligned to any power-of-two boundary. The arena's
// heap fallback and the heap memory source build on it.
package mem
