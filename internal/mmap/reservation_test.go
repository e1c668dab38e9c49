package mmap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sources() map[string]Source {
	return map[string]Source{
		"system": System(),
		"heap":   Heap{},
	}
}

func TestReservation_CommitReadWrite(t *testing.T) {
	for name, src := range sources() {
		t.Run(name, func(t *testing.T) {
			r, err := Reserve(src, 1<<20)
			require.NoError(t, err)
			defer r.Close()

			page := r.PageSize()
			assert.Equal(t, 0, r.Size()%page)

			require.NoError(t, r.Commit(0, 2*page))
			buf := r.Bytes()[:2*page]
			for i, b := range buf {
				if b != 0 {
					t.Fatalf("byte %d not zero after commit", i)
				}
			}

			buf[0] = 0xAB
			buf[2*page-1] = 0xCD
			assert.Equal(t, byte(0xAB), r.Bytes()[0])
		})
	}
}

func TestReservation_DecommitZeroes(t *testing.T) {
	for name, src := range sources() {
		t.Run(name, func(t *testing.T) {
			r, err := Reserve(src, 1<<20)
			require.NoError(t, err)
			defer r.Close()

			page := r.PageSize()
			require.NoError(t, r.Commit(0, 2*page))
			r.Bytes()[page] = 42

			require.NoError(t, r.Decommit(page, page))
			require.NoError(t, r.Commit(page, page))
			assert.Equal(t, byte(0), r.Bytes()[page])
		})
	}
}

func TestReservation_RangeChecks(t *testing.T) {
	r, err := Reserve(Heap{}, 4*Heap{}.PageSize())
	require.NoError(t, err)
	defer r.Close()

	page := r.PageSize()

	assert.ErrorIs(t, r.Commit(1, page), ErrUnaligned)
	assert.ErrorIs(t, r.Commit(0, r.Size()+1), ErrOutOfBounds)
	assert.ErrorIs(t, r.Decommit(-page, page), ErrOutOfBounds)
	assert.NoError(t, r.Commit(page, 0))
}

func TestReservation_Offset(t *testing.T) {
	r, err := Reserve(Heap{}, 1<<16)
	require.NoError(t, err)
	defer r.Close()

	data := r.Bytes()
	off, ok := r.Offset(unsafe.Pointer(&data[100]))
	assert.True(t, ok)
	assert.Equal(t, 100, off)

	other := make([]byte, 8)
	_, ok = r.Offset(unsafe.Pointer(&other[0]))
	assert.False(t, ok)

	_, ok = r.Offset(nil)
	assert.False(t, ok)
}

func TestReservation_CloseIdempotent(t *testing.T) {
	r, err := Reserve(System(), 1<<16)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Commit(0, r.PageSize()), ErrClosed)
}

func TestReserve_InvalidSize(t *testing.T) {
	_, err := Reserve(System(), 0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Reserve(Heap{}, -1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRoundUpDown(t *testing.T) {
	assert.Equal(t, 0, RoundUp(0, 4096))
	assert.Equal(t, 4096, RoundUp(1, 4096))
	assert.Equal(t, 4096, RoundUp(4096, 4096))
	assert.Equal(t, 16, RoundUp(10, 8))
	assert.Equal(t, 4096, RoundDown(8191, 4096))
}
