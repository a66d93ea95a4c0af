// Package world reads Anvil saves and converts their chunk sections into
// schematic regions.
package world

import (
	"errors"
	"fmt"

	"github.com/astei/mcschem/bitset"
	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
)

const (
	sectionSide    = 16
	sectionVolume  = sectionSide * sectionSide * sectionSide
	lightArraySize = sectionVolume / 2
	fullBrightness = 15
)

var (
	ErrDataLength  = errors.New("world: packed block data has the wrong length")
	ErrLightLength = errors.New("world: light array has the wrong length")
	ErrNotASection = errors.New("world: region is not a 16x16x16 section")
)

// SectionError reports a malformed section tag together with its path and the
// expected and found counts.
type SectionError struct {
	Path     string
	Expected int
	Found    int
	Err      error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %d, found %d", e.Path, e.Err, e.Expected, e.Found)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// SectionFormat describes how block indices of a section are packed.
type SectionFormat struct {
	// MinBits is a lower bound on the bits per packed index.
	MinBits uint8
}

var (
	// PackedSection uses exactly ceil(log2(len(palette))) bits per index.
	PackedSection = SectionFormat{}
	// AnvilSection is the layout written by the game, which never packs block
	// states below four bits.
	AnvilSection = SectionFormat{MinBits: 4}
)

func (f SectionFormat) bits(paletteLen int) uint8 {
	b := bitset.BitsForPaletteSize(paletteLen)
	if b < f.MinBits {
		return f.MinBits
	}
	return b
}

// DecodeSection decodes a section with PackedSection.
func DecodeSection(sect tag.Compound, path string) (*schem.Region, error) {
	return PackedSection.Decode(sect, path)
}

// EncodeSection encodes a section with PackedSection.
func EncodeSection(r *schem.Region) (tag.Compound, error) {
	return PackedSection.Encode(r)
}

// Decode turns a section compound into a 16x16x16 region. Missing light arrays
// leave the region at full brightness.
func (f SectionFormat) Decode(sect tag.Compound, path string) (*schem.Region, error) {
	r, err := schem.NewRegionWithShape([3]int{sectionSide, sectionSide, sectionSide})
	if err != nil {
		return nil, err
	}

	states, err := tag.OptionalCompound(sect, "block_states", path)
	if err != nil {
		return nil, err
	}
	statesPath := tag.Join(path, "block_states")
	palette, err := tag.ListOfCompounds(states, "palette", statesPath)
	if err != nil {
		return nil, err
	}
	palettePath := tag.Join(statesPath, "palette")
	if len(palette) == 0 {
		return nil, fmt.Errorf("%s: %w", palettePath, schem.ErrPaletteEmpty)
	}
	if len(palette) > schem.MaxPaletteLen {
		return nil, fmt.Errorf("%s: %w", palettePath, schem.ErrPaletteTooLong)
	}
	r.Palette = make([]block.Block, len(palette))
	for i, entry := range palette {
		if r.Palette[i], err = schem.ParseBlockTag(entry, fmt.Sprintf("%s[%d]", palettePath, i)); err != nil {
			return nil, err
		}
	}

	if len(palette) > 1 {
		if err := f.decodeIndices(r, states, statesPath); err != nil {
			return nil, err
		}
	}

	if err := decodeLight(r, sect, path); err != nil {
		return nil, err
	}
	return r, nil
}

func (f SectionFormat) decodeIndices(r *schem.Region, states tag.Compound, statesPath string) error {
	dataPath := tag.Join(statesPath, "data")
	var words []int64
	if _, ok := states["data"]; ok {
		var err error
		if words, err = tag.LongArray(states, "data", statesPath); err != nil {
			return err
		}
	}

	packed, err := bitset.New(sectionVolume, f.bits(len(r.Palette)))
	if err != nil {
		return err
	}
	if len(words) != packed.WordCount() {
		return &SectionError{Path: dataPath, Expected: packed.WordCount(), Found: len(words), Err: ErrDataLength}
	}
	packed.LoadWords(words)

	i := 0
	for y := 0; y < sectionSide; y++ {
		for z := 0; z < sectionSide; z++ {
			for x := 0; x < sectionSide; x++ {
				idx := packed.Get(i)
				if idx >= uint64(len(r.Palette)) {
					return &SectionError{Path: dataPath, Expected: len(r.Palette), Found: int(idx), Err: schem.ErrIndexOutOfRange}
				}
				if err := r.SetBlockID([3]int{x, y, z}, uint16(idx)); err != nil {
					return err
				}
				i++
			}
		}
	}
	return nil
}

func lightArray(sect tag.Compound, key, path string) ([]byte, error) {
	if _, ok := sect[key]; !ok {
		return nil, nil
	}
	arr, err := tag.ByteArray(sect, key, path)
	if err != nil {
		return nil, err
	}
	if len(arr) != lightArraySize {
		return nil, &SectionError{Path: tag.Join(path, key), Expected: lightArraySize, Found: len(arr), Err: ErrLightLength}
	}
	return arr, nil
}

func nibble(arr []byte, i int) uint8 {
	if arr == nil {
		return fullBrightness
	}
	return arr[i/2] >> (4 * (i % 2)) & 0xF
}

func decodeLight(r *schem.Region, sect tag.Compound, path string) error {
	sky, err := lightArray(sect, "SkyLight", path)
	if err != nil {
		return err
	}
	blockLight, err := lightArray(sect, "BlockLight", path)
	if err != nil {
		return err
	}
	if sky == nil && blockLight == nil {
		return nil
	}

	i := 0
	for y := 0; y < sectionSide; y++ {
		for z := 0; z < sectionSide; z++ {
			for x := 0; x < sectionSide; x++ {
				if err := r.SetLight([3]int{x, y, z}, schem.NewLight(nibble(sky, i), nibble(blockLight, i))); err != nil {
					return err
				}
				i++
			}
		}
	}
	return nil
}

// Encode is the inverse of Decode. Light arrays are written only when the
// region carries light.
func (f SectionFormat) Encode(r *schem.Region) (tag.Compound, error) {
	if r.Shape() != [3]int{sectionSide, sectionSide, sectionSide} {
		return nil, fmt.Errorf("%w: shape %v", ErrNotASection, r.Shape())
	}
	if len(r.Palette) == 0 {
		return nil, schem.ErrPaletteEmpty
	}

	palette := make([]tag.Compound, len(r.Palette))
	for i, b := range r.Palette {
		palette[i] = schem.BlockTag(b)
	}
	states := tag.Compound{"palette": palette}

	if len(r.Palette) > 1 {
		packed, err := bitset.New(sectionVolume, f.bits(len(r.Palette)))
		if err != nil {
			return nil, err
		}
		i := 0
		for y := 0; y < sectionSide; y++ {
			for z := 0; z < sectionSide; z++ {
				for x := 0; x < sectionSide; x++ {
					idx, _ := r.BlockIndexAt([3]int{x, y, z})
					packed.Set(i, uint64(idx))
					i++
				}
			}
		}
		states["data"] = packed.Words()
	}

	sect := tag.Compound{"block_states": states}
	if r.HasLight() {
		sky := make([]byte, lightArraySize)
		blockLight := make([]byte, lightArraySize)
		i := 0
		for y := 0; y < sectionSide; y++ {
			for z := 0; z < sectionSide; z++ {
				for x := 0; x < sectionSide; x++ {
					l := r.LightAt([3]int{x, y, z})
					shift := 4 * (i % 2)
					sky[i/2] |= l.Sky() << shift
					blockLight[i/2] |= l.Block() << shift
					i++
				}
			}
		}
		sect["SkyLight"] = sky
		sect["BlockLight"] = blockLight
	}
	return sect, nil
}
