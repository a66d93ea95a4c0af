package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
)

func testSection(t *testing.T, kinds int) *schem.Region {
	t.Helper()
	r, err := schem.NewRegionWithShape([3]int{16, 16, 16})
	require.NoError(t, err)
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				b := block.New("stone")
				b.SetProperty("n", string(rune('a'+(x+y*3+z*7)%kinds)))
				require.NoError(t, r.SetBlock([3]int{x, y, z}, b))
			}
		}
	}
	return r
}

func TestSectionRoundTrip(t *testing.T) {
	for _, format := range []SectionFormat{PackedSection, AnvilSection} {
		for _, kinds := range []int{2, 3, 5, 17} {
			src := testSection(t, kinds)
			sect, err := format.Encode(src)
			require.NoError(t, err)

			got, err := format.Decode(sect, "sect")
			require.NoError(t, err)
			require.Equal(t, len(src.Palette), len(got.Palette))
			for y := 0; y < 16; y++ {
				for z := 0; z < 16; z++ {
					for x := 0; x < 16; x++ {
						pos := [3]int{x, y, z}
						require.True(t, src.BlockAt(pos).Equal(*got.BlockAt(pos)), "at %v", pos)
					}
				}
			}
			assert.False(t, got.HasLight())
		}
	}
}

func TestSectionWordCount(t *testing.T) {
	src := testSection(t, 3)
	// palette of air + 3 variants: 2 bits, 32 per word
	sect, err := EncodeSection(src)
	require.NoError(t, err)
	assert.Len(t, sect["block_states"].(tag.Compound)["data"], 128)

	sect, err = AnvilSection.Encode(src)
	require.NoError(t, err)
	assert.Len(t, sect["block_states"].(tag.Compound)["data"], 256)
}

func TestSectionSingleEntryPalette(t *testing.T) {
	sect := tag.Compound{
		"block_states": tag.Compound{
			"palette": []tag.Compound{{"Name": "minecraft:stone"}},
		},
	}
	r, err := DecodeSection(sect, "s")
	require.NoError(t, err)
	assert.Equal(t, 4096, r.TotalBlocks(false))
	assert.Equal(t, "stone", r.BlockAt([3]int{15, 15, 15}).ID)
}

func TestSectionDataLengthMismatch(t *testing.T) {
	sect := tag.Compound{
		"block_states": tag.Compound{
			"palette": []tag.Compound{{"Name": "minecraft:air"}, {"Name": "minecraft:stone"}},
			"data":    make([]int64, 63),
		},
	}
	_, err := DecodeSection(sect, "chunk/sections[0]")
	require.ErrorIs(t, err, ErrDataLength)

	var se *SectionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "chunk/sections[0]/block_states/data", se.Path)
	assert.Equal(t, 64, se.Expected)
	assert.Equal(t, 63, se.Found)

	delete(sect["block_states"].(tag.Compound), "data")
	_, err = DecodeSection(sect, "s")
	assert.ErrorIs(t, err, ErrDataLength)
}

func TestSectionIndexOutOfRange(t *testing.T) {
	// 3 entries need 2 bits; index 3 is past the palette
	data := make([]int64, 128)
	data[10] = 0b11 << 6
	sect := tag.Compound{
		"block_states": tag.Compound{
			"palette": []tag.Compound{{"Name": "air"}, {"Name": "stone"}, {"Name": "dirt"}},
			"data":    data,
		},
	}
	_, err := DecodeSection(sect, "s")
	assert.ErrorIs(t, err, schem.ErrIndexOutOfRange)
}

func TestSectionEmptyPalette(t *testing.T) {
	_, err := DecodeSection(tag.Compound{}, "s")
	assert.ErrorIs(t, err, schem.ErrPaletteEmpty)

	_, err = DecodeSection(tag.Compound{"block_states": tag.Compound{"palette": []tag.Compound{{"Name": 1}}}}, "s")
	var pe *tag.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "s/block_states/palette[0]/Name", pe.Path)
}

func TestSectionLight(t *testing.T) {
	sky := make([]byte, 2048)
	sky[0] = 0x5A // index 0 -> 10, index 1 -> 5
	sect := tag.Compound{
		"block_states": tag.Compound{"palette": []tag.Compound{{"Name": "air"}}},
		"SkyLight":     sky,
	}
	r, err := DecodeSection(sect, "s")
	require.NoError(t, err)
	require.True(t, r.HasLight())

	l := r.LightAt([3]int{0, 0, 0})
	assert.Equal(t, uint8(10), l.Sky())
	assert.Equal(t, uint8(15), l.Block())
	assert.Equal(t, uint8(5), r.LightAt([3]int{1, 0, 0}).Sky())
	assert.Equal(t, uint8(0), r.LightAt([3]int{2, 0, 0}).Sky())

	enc, err := EncodeSection(r)
	require.NoError(t, err)
	assert.Equal(t, sky, enc["SkyLight"])
	blockLight := enc["BlockLight"].([]byte)
	assert.Equal(t, byte(0xFF), blockLight[1000])
}

func TestSectionLightDefaults(t *testing.T) {
	r, err := DecodeSection(tag.Compound{"block_states": tag.Compound{"palette": []tag.Compound{{"Name": "air"}}}}, "s")
	require.NoError(t, err)
	l := r.LightAt([3]int{3, 4, 5})
	assert.Equal(t, uint8(15), l.Sky())
	assert.Equal(t, uint8(15), l.Block())
}

func TestSectionLightLength(t *testing.T) {
	sect := tag.Compound{
		"block_states": tag.Compound{"palette": []tag.Compound{{"Name": "air"}}},
		"BlockLight":   make([]byte, 2047),
	}
	_, err := DecodeSection(sect, "s")
	require.ErrorIs(t, err, ErrLightLength)
	var se *SectionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "s/BlockLight", se.Path)
	assert.Equal(t, 2048, se.Expected)
}

func TestEncodeRejectsWrongShape(t *testing.T) {
	r, err := schem.NewRegionWithShape([3]int{16, 15, 16})
	require.NoError(t, err)
	_, err = EncodeSection(r)
	assert.ErrorIs(t, err, ErrNotASection)
}
