//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

func osPageSize() int {
	return unix.Getpagesize()
}

func osReserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	// PROT_NONE keeps the range out of the commit charge until pages are
	// explicitly made accessible.
	prot := unix.PROT_NONE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE

	return unix.Mmap(-1, 0, size, prot, flags)
}

func osCommit(b []byte) error {
	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return err
	}
	if clearOnCommit {
		clear(b)
	}
	return nil
}

func osDecommit(b []byte) error {
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil {
		return err
	}
	return unix.Mprotect(b, unix.PROT_NONE)
}

func osRelease(b []byte) error {
	return unix.Munmap(b)
}
