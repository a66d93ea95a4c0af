package bitset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsWidths(t *testing.T) {
	_, err := New(16, 64)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = New(16, 0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = New(-1, 4)
	assert.Error(t, err)
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		length int
		bits   uint8
		words  int
	}{
		{4096, 1, 64},
		{4096, 4, 256},
		{4096, 5, 342}, // 12 per word
		{4096, 6, 410}, // 10 per word
		{4096, 7, 456}, // 9 per word
		{4096, 13, 1024},
		{4096, 33, 4096},
		{0, 3, 0},
		{1, 63, 1},
	}
	for _, tt := range tests {
		m, err := New(tt.length, tt.bits)
		require.NoError(t, err)
		assert.Equal(t, tt.words, m.WordCount(), "length=%d bits=%d", tt.length, tt.bits)
	}
}

func TestBitsForPaletteSize(t *testing.T) {
	assert.Equal(t, uint8(0), BitsForPaletteSize(1))
	assert.Equal(t, uint8(1), BitsForPaletteSize(2))
	assert.Equal(t, uint8(2), BitsForPaletteSize(3))
	assert.Equal(t, uint8(2), BitsForPaletteSize(4))
	assert.Equal(t, uint8(3), BitsForPaletteSize(5))
	assert.Equal(t, uint8(16), BitsForPaletteSize(65536))
}

func TestRoundTripAllWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for w := uint8(1); w <= 62; w++ {
		length := 1000 + int(w)*7
		m, err := New(length, w)
		require.NoError(t, err)

		want := make([]uint64, length)
		for i := range want {
			want[i] = rng.Uint64() & ((uint64(1) << w) - 1)
			m.Set(i, want[i])
		}
		for i := range want {
			require.Equal(t, want[i], m.Get(i), "bits=%d index=%d", w, i)
		}
	}
}

func TestSetLeavesNeighboursUntouched(t *testing.T) {
	m, err := New(100, 5)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		m.Set(i, 31)
	}
	m.Set(50, 0)
	for i := 0; i < 100; i++ {
		if i == 50 {
			assert.Equal(t, uint64(0), m.Get(i))
			continue
		}
		assert.Equal(t, uint64(31), m.Get(i))
	}
}

func TestSetMasksOverflow(t *testing.T) {
	m, err := New(4, 3)
	require.NoError(t, err)
	m.Set(1, 0xFF)
	assert.Equal(t, uint64(7), m.Get(1))
	assert.Equal(t, uint64(0), m.Get(0))
	assert.Equal(t, uint64(0), m.Get(2))
}

func TestNonSpanningLayout(t *testing.T) {
	// 5 bits: 12 values per word, bits 60..63 unused.
	m, err := New(13, 5)
	require.NoError(t, err)
	m.Set(11, 0b10101)
	m.Set(12, 0b00011)

	words := m.Words()
	require.Len(t, words, 2)
	assert.Equal(t, uint64(0b10101)<<55, uint64(words[0]))
	assert.Equal(t, int64(0b00011), words[1])
}

func TestLoadWordsReinterpretsSign(t *testing.T) {
	m, err := New(16, 4)
	require.NoError(t, err)
	m.LoadWords([]int64{-1})
	for i := 0; i < 16; i++ {
		assert.Equal(t, uint64(15), m.Get(i))
	}
	assert.Equal(t, []int64{-1}, m.Words())
}
