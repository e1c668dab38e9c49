//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osPageSize() int {
	return windows.Getpagesize()
}

func osReserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	// MEM_RESERVE claims address space only; nothing is charged against the
	// paging file until MEM_COMMIT.
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil //nolint:govet,gosec // address returned by VirtualAlloc
}

func osCommit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	// Freshly committed pages are zero-filled by the system.
	_, err := windows.VirtualAlloc(addrOf(b), uintptr(len(b)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func osDecommit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return windows.VirtualFree(addrOf(b), uintptr(len(b)), windows.MEM_DECOMMIT)
}

func osRelease(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	// MEM_RELEASE requires size 0 and the base address of the reservation.
	return windows.VirtualFree(addrOf(b), 0, windows.MEM_RELEASE)
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // passed straight to the syscall
}
