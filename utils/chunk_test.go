package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkBytes(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		size     int
		expected int
		lastLen  int
	}{
		{"empty input", []byte{}, 4, 0, 0},
		{"exact multiple", []byte("abcdefgh"), 4, 2, 4},
		{"remainder", []byte("abcdefghi"), 4, 3, 1},
		{"single oversized chunk", []byte("ab"), 1024, 1, 2},
		{"size one", []byte("abc"), 1, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkBytes(tt.data, tt.size)
			require.Len(t, chunks, tt.expected)

			// concatenation must round-trip
			assert.Equal(t, tt.data, bytes.Join(append([][]byte{{}}, chunks...), nil))

			for i, chunk := range chunks {
				if i < len(chunks)-1 {
					assert.Len(t, chunk, tt.size)
				}
			}
			if tt.expected > 0 {
				assert.Len(t, chunks[len(chunks)-1], tt.lastLen)
			}
		})
	}
}

func TestChunkBytes_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { ChunkBytes([]byte("abc"), 0) })
	assert.Panics(t, func() { ChunkBytes([]byte("abc"), -1) })
}

func TestBundle(t *testing.T) {
	items := make([]int, 0, 250)
	for i := 0; i < 250; i++ {
		items = append(items, i)
	}

	bundles := Bundle(items, 100)
	require.Len(t, bundles, 3)
	assert.Len(t, bundles[0], 100)
	assert.Len(t, bundles[1], 100)
	assert.Len(t, bundles[2], 50)

	// round-trip in order
	flat := make([]int, 0, 250)
	for _, bundle := range bundles {
		flat = append(flat, bundle...)
	}
	assert.Equal(t, items, flat)

	assert.Empty(t, Bundle([]string{}, 5))
	assert.Panics(t, func() { Bundle(items, 0) })
}

func TestDecodeTransferMessage(t *testing.T) {
	// "\x001,2,3" hex encoded, as wallets send plain messages
	decoded, err := DecodeTransferMessage("00312C322C33")
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", decoded)

	_, err = DecodeTransferMessage("zz")
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	selection, err := ParseSelection("1,2,3,4,5,6", 6)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, selection)

	_, err = ParseSelection("1,2,3", 6)
	assert.Error(t, err)

	_, err = ParseSelection("1,2,x,4,5,6", 6)
	assert.Error(t, err)

	_, err = ParseSelection("1,2,-3,4,5,6", 6)
	assert.Error(t, err)
}
