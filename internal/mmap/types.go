package mmap

import "errors"

var (
	// ErrClosed is returned when attempting to use a released reservation.
	ErrClosed = errors.New("mmap: reservation is closed")
	// ErrInvalidSize is returned when the requested size is zero or negative.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a range lies outside the reservation.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrUnaligned is returned when a range does not start on a page boundary.
	ErrUnaligned = errors.New("mmap: range not page aligned")
)
