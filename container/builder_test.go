package container

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/framemem/arena"
)

func TestBuilder(t *testing.T) {
	for name, alloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			b := NewBuilder(alloc)
			assert.Equal(t, "", b.String())

			_, err := b.WriteString("frame ")
			require.NoError(t, err)
			require.NoError(t, b.WriteByte('#'))
			_, err = fmt.Fprintf(b, "%d", 42)
			require.NoError(t, err)
			_, err = b.WriteRune('é')
			require.NoError(t, err)
			_, err = b.Write([]byte(" done"))
			require.NoError(t, err)

			assert.Equal(t, "frame #42é done", b.String())
			assert.Equal(t, len("frame #42é done"), b.Len())
			assert.Equal(t, []byte("frame #42é done"), b.Bytes())

			b.Reset()
			assert.Equal(t, 0, b.Len())
			assert.Equal(t, "", b.String())
		})
	}
}

func TestBuilder_Large(t *testing.T) {
	a, err := arena.New(1 << 20)
	require.NoError(t, err)
	defer func() { _ = a.Release() }()

	b := NewBuilder(a)
	want := strings.Repeat("abcdefgh", 4096)
	for range 4096 {
		_, _ = b.WriteString("abcdefgh")
	}
	assert.Equal(t, want, b.String())
	assert.True(t, a.Owns(b.Bytes()))

	// Growth stayed in place, so the builder holds exactly one allocation.
	assert.Equal(t, b.Cap(), a.Pos())
}
