// Package bitset implements the fixed-width packed arrays used by chunk
// section block storage.
package bitset

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrInvalidWidth = errors.New("bitset: bits per value must be in [1, 63]")

// MultiBitSet stores Len values of Bits bits each in 64-bit words. A value
// never straddles two words: each word holds floor(64/Bits) values starting
// at bit 0 and any remaining high bits are padding.
type MultiBitSet struct {
	words  []uint64
	length int
	bits   uint8
}

// ValuesPerWord returns floor(64/bitsPerValue).
func ValuesPerWord(bitsPerValue uint8) int {
	return 64 / int(bitsPerValue)
}

// RequiredWords returns the number of words needed for length values.
func RequiredWords(length int, bitsPerValue uint8) int {
	per := ValuesPerWord(bitsPerValue)
	return (length + per - 1) / per
}

// BitsForPaletteSize returns ceil(log2(n)), the width used to index a palette
// of n entries. It is 0 for n <= 1.
func BitsForPaletteSize(n int) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8(bits.Len(uint(n - 1)))
}

// New allocates a zeroed set of length values.
func New(length int, bitsPerValue uint8) (*MultiBitSet, error) {
	if bitsPerValue == 0 || bitsPerValue >= 64 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, bitsPerValue)
	}
	if length < 0 {
		return nil, fmt.Errorf("bitset: negative length %d", length)
	}
	return &MultiBitSet{
		words:  make([]uint64, RequiredWords(length, bitsPerValue)),
		length: length,
		bits:   bitsPerValue,
	}, nil
}

func (m *MultiBitSet) Len() int {
	return m.length
}

func (m *MultiBitSet) Bits() uint8 {
	return m.bits
}

// WordCount returns the number of 64-bit words backing the set.
func (m *MultiBitSet) WordCount() int {
	return len(m.words)
}

func (m *MultiBitSet) mask() uint64 {
	return (uint64(1) << m.bits) - 1
}

func (m *MultiBitSet) locate(index int) (word int, shift uint) {
	per := ValuesPerWord(m.bits)
	return index / per, uint(index%per) * uint(m.bits)
}

// Get returns the value at index. index must be in [0, Len).
func (m *MultiBitSet) Get(index int) uint64 {
	word, shift := m.locate(index)
	return (m.words[word] >> shift) & m.mask()
}

// Set stores value at index. Bits of value above the configured width are
// discarded.
func (m *MultiBitSet) Set(index int, value uint64) {
	word, shift := m.locate(index)
	mask := m.mask()
	m.words[word] = m.words[word]&^(mask<<shift) | (value&mask)<<shift
}

// LoadWords replaces the backing words with the bit patterns of words. The
// caller is responsible for checking len(words) against WordCount first.
func (m *MultiBitSet) LoadWords(words []int64) {
	m.words = make([]uint64, len(words))
	for i, w := range words {
		m.words[i] = uint64(w)
	}
}

// Words returns the backing words as signed values, the form stored in
// TAG_Long_Array.
func (m *MultiBitSet) Words() []int64 {
	out := make([]int64, len(m.words))
	for i, w := range m.words {
		out[i] = int64(w)
	}
	return out
}
