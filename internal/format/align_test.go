package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 100: 104, 200: 200}
	for in, want := range cases {
		require.Equal(t, want, Align(in), "Align(%d)", in)
	}
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, 1024, AlignDown(1024))
	require.Equal(t, 1024, AlignDown(1031))
	require.Equal(t, 0, AlignDown(7))
}

func TestBlockSize(t *testing.T) {
	require.Equal(t, HeaderSize+8, BlockSize(1))
	require.Equal(t, HeaderSize+104, BlockSize(100))
	require.True(t, Aligned(BlockSize(13)))
}
