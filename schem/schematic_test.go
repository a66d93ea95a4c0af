package schem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/tag"
)

func filled(t *testing.T, shape, offset [3]int, b block.Block) *Region {
	t.Helper()
	r, err := NewRegionWithShape(shape)
	require.NoError(t, err)
	r.Offset = offset
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				require.NoError(t, r.SetBlock([3]int{x, y, z}, b))
			}
		}
	}
	return r
}

// overlapping returns two 2x2x2 regions: stone at the origin and glass
// shifted by one on every axis.
func overlapping(t *testing.T) *Schematic {
	s := New()
	s.Regions = []*Region{
		filled(t, [3]int{2, 2, 2}, [3]int{0, 0, 0}, block.New("stone")),
		filled(t, [3]int{2, 2, 2}, [3]int{1, 1, 1}, block.New("glass")),
	}
	return s
}

func TestSchematicShape(t *testing.T) {
	s := overlapping(t)
	assert.Equal(t, [3]int{3, 3, 3}, s.Shape())
	assert.Equal(t, 27, s.Volume())
	assert.Equal(t, [3]int{0, 0, 0}, New().Shape())
}

func TestFirstWins(t *testing.T) {
	s := overlapping(t)
	overlap := [3]int{1, 1, 1}

	for i := 0; i < 3; i++ {
		// lookups elsewhere must not change the answer
		s.FirstBlockAt([3]int{2, 2, 2})
		assert.Equal(t, "stone", s.FirstBlockAt(overlap).ID)
	}
	ri, ok := s.FirstRegionIndexAt(overlap)
	require.True(t, ok)
	assert.Equal(t, 0, ri)

	ri, ok = s.FirstRegionIndexAt([3]int{2, 2, 2})
	require.True(t, ok)
	assert.Equal(t, 1, ri)
	assert.Equal(t, "glass", s.FirstBlockAt([3]int{2, 2, 2}).ID)

	assert.Nil(t, s.FirstBlockAt([3]int{2, 0, 0}))
	_, ok = s.FirstBlockIndexAt([3]int{2, 0, 0})
	assert.False(t, ok)
	_, ok = s.FirstBlockInfoAt([3]int{2, 0, 0})
	assert.False(t, ok)
}

func TestAllMatches(t *testing.T) {
	s := overlapping(t)
	blocks := s.BlocksAt([3]int{1, 1, 1})
	require.Len(t, blocks, 2)
	assert.Equal(t, "stone", blocks[0].ID)
	assert.Equal(t, "glass", blocks[1].ID)
	assert.Equal(t, []uint16{1, 1}, s.BlockIndicesAt([3]int{1, 1, 1}))
	assert.Empty(t, s.BlocksAt([3]int{0, 2, 0}))

	be := &BlockEntity{Tags: tag.Compound{"id": "minecraft:sign"}}
	require.NoError(t, s.Regions[1].SetBlockEntity([3]int{0, 0, 0}, be))
	assert.Equal(t, []*BlockEntity{be}, s.BlockEntitiesAt([3]int{1, 1, 1}))
	assert.Nil(t, s.FirstBlockEntityAt([3]int{1, 1, 1}))
}

func TestFullPalette(t *testing.T) {
	s := overlapping(t)
	extra := filled(t, [3]int{1, 1, 1}, [3]int{0, 0, 0}, block.New("glass"))
	s.Regions = append(s.Regions, extra)

	palette, lut, err := s.FullPalette()
	require.NoError(t, err)
	require.Len(t, palette, 3)
	assert.Equal(t, "air", palette[0].ID)
	assert.Equal(t, "stone", palette[1].ID)
	assert.Equal(t, "glass", palette[2].ID)
	assert.Equal(t, [][]uint16{{0, 1}, {0, 2}, {0, 2}}, lut)

	for ri, r := range s.Regions {
		for pi := range r.Palette {
			assert.True(t, r.Palette[pi].Equal(palette[lut[ri][pi]]))
		}
	}
}

func TestFlattenSingleRegion(t *testing.T) {
	s := New()
	r, err := NewRegionWithShape([3]int{3, 2, 2})
	require.NoError(t, err)
	require.NoError(t, r.SetBlock([3]int{0, 0, 0}, block.New("stone")))
	require.NoError(t, r.SetBlock([3]int{2, 1, 1}, block.New("dirt")))
	s.Regions = []*Region{r}

	flat, err := s.ToSingleRegion(block.Air())
	require.NoError(t, err)
	assert.Equal(t, r.Shape(), flat.Shape())
	for y := 0; y < 2; y++ {
		for z := 0; z < 2; z++ {
			for x := 0; x < 3; x++ {
				pos := [3]int{x, y, z}
				assert.True(t, r.BlockAt(pos).Equal(*flat.BlockAt(pos)), "at %v", pos)
			}
		}
	}
}

func TestFlattenOverlapping(t *testing.T) {
	s := overlapping(t)
	chest := &BlockEntity{Tags: tag.Compound{"id": "minecraft:chest"}}
	require.NoError(t, s.Regions[1].SetBlockEntity([3]int{1, 1, 1}, chest))
	require.NoError(t, s.Regions[1].SetPendingTick([3]int{1, 1, 1}, &PendingTick{Time: 2, Kind: TickFluid, ID: "minecraft:water"}))
	s.Regions[1].Entities = append(s.Regions[1].Entities, Entity{Position: [3]float64{0.5, 0, 0.5}})

	bg := block.New("barrier")
	flat, err := s.ToSingleRegion(bg)
	require.NoError(t, err)
	assert.Equal(t, [3]int{3, 3, 3}, flat.Shape())
	assert.Equal(t, [3]int{0, 0, 0}, flat.Offset)

	assert.Equal(t, "stone", flat.BlockAt([3]int{1, 1, 1}).ID)
	assert.Equal(t, "glass", flat.BlockAt([3]int{2, 2, 2}).ID)
	assert.Equal(t, "barrier", flat.BlockAt([3]int{2, 0, 0}).ID)

	got := flat.BlockEntities[[3]int{2, 2, 2}]
	require.NotNil(t, got)
	assert.Equal(t, "minecraft:chest", got.Tags["id"])
	got.Tags["id"] = "changed"
	assert.Equal(t, "minecraft:chest", chest.Tags["id"])

	tick := flat.PendingTicks[[3]int{2, 2, 2}]
	require.NotNil(t, tick)
	assert.Equal(t, TickFluid, tick.Kind)

	require.Len(t, flat.Entities, 1)
	assert.Equal(t, [3]float64{1.5, 1, 1.5}, flat.Entities[0].Position)
	assert.Equal(t, [3]float64{0.5, 0, 0.5}, s.Regions[1].Entities[0].Position)

	for _, idx := range flat.indices {
		assert.Less(t, int(idx), len(flat.Palette))
	}
}

func TestFlattenCopiesPalette(t *testing.T) {
	s := New()
	s.Regions = []*Region{filled(t, [3]int{1, 1, 1}, [3]int{0, 0, 0}, block.New("wool"))}
	flat, err := s.ToSingleRegion(block.Air())
	require.NoError(t, err)

	s.Regions[0].Palette[1].SetProperty("color", "red")
	_, ok := flat.BlockAt([3]int{0, 0, 0}).Property("color")
	assert.False(t, ok)
}

func TestFlattenRejectsNegativeOffset(t *testing.T) {
	s := overlapping(t)
	s.Regions[1].Offset = [3]int{-1, 0, 0}
	_, err := s.ToSingleRegion(block.Air())
	assert.ErrorIs(t, err, ErrNegativeOffset)
	assert.ErrorIs(t, s.MergeRegions(block.Air()), ErrNegativeOffset)
	assert.Len(t, s.Regions, 2)
}

func TestMergeRegions(t *testing.T) {
	s := overlapping(t)
	require.NoError(t, s.MergeRegions(block.Air()))
	require.Len(t, s.Regions, 1)
	assert.Equal(t, "stone", s.FirstBlockAt([3]int{1, 1, 1}).ID)

	assert.ErrorIs(t, New().MergeRegions(block.Air()), ErrNoRegions)
}

func TestSlice(t *testing.T) {
	s := overlapping(t)

	sl, err := s.Slice([3]int{1, 1, 1}, [3]int{2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 1, 1}, sl.Origin())
	assert.Equal(t, [3]int{2, 2, 2}, sl.Shape())

	info, ok := sl.BlockInfoAt([3]int{0, 0, 0})
	require.True(t, ok)
	assert.Equal(t, "stone", info.Block.ID)
	_, ok = sl.BlockInfoAt([3]int{2, 0, 0})
	assert.False(t, ok)

	assert.Equal(t, 8, sl.TotalBlocks(false))

	_, err = s.Slice([3]int{-1, 0, 0}, [3]int{1, 1, 1})
	assert.ErrorIs(t, err, ErrCoordOutOfRange)
	_, err = s.Slice([3]int{0, 0, 0}, [3]int{1, -1, 1})
	assert.ErrorIs(t, err, ErrCoordOutOfRange)
	_, err = s.Slice([3]int{1, 0, 0}, [3]int{3, 1, 1})
	assert.ErrorIs(t, err, ErrCoordOutOfRange)

	whole, err := s.Slice([3]int{0, 0, 0}, s.Shape())
	require.NoError(t, err)
	assert.Equal(t, 15, whole.TotalBlocks(true))
}

func TestSliceTotalBlocksSkipsAirAndVoid(t *testing.T) {
	s := New()
	r, err := NewRegionWithShape([3]int{3, 1, 1})
	require.NoError(t, err)
	require.NoError(t, r.SetBlock([3]int{1, 0, 0}, block.New("stone")))
	require.NoError(t, r.SetBlock([3]int{2, 0, 0}, block.StructureVoid()))
	s.Regions = []*Region{r}

	sl, err := s.Slice([3]int{0, 0, 0}, [3]int{3, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, sl.TotalBlocks(false))
	assert.Equal(t, 2, sl.TotalBlocks(true))
	assert.Equal(t, r.TotalBlocks(true), sl.TotalBlocks(true))
}

func TestDuplicatedBlocks(t *testing.T) {
	s := overlapping(t)
	dups := s.DuplicatedBlocks()
	require.Len(t, dups, 1)
	assert.Equal(t, [3]int{1, 1, 1}, dups[0].Pos)
	require.Len(t, dups[0].Blocks, 2)

	// equal blocks in overlapping regions are not a conflict
	same := New()
	same.Regions = []*Region{
		filled(t, [3]int{2, 1, 1}, [3]int{0, 0, 0}, block.New("stone")),
		filled(t, [3]int{2, 1, 1}, [3]int{1, 0, 0}, block.New("stone")),
	}
	assert.Empty(t, same.DuplicatedBlocks())
}

func TestParseBlockTag(t *testing.T) {
	c := tag.Compound{
		"Name":       "minecraft:oak_log",
		"Properties": tag.Compound{"axis": "x"},
	}
	b, err := ParseBlockTag(c, "palette[0]")
	require.NoError(t, err)
	assert.Equal(t, "minecraft:oak_log[axis=x]", b.String())
	assert.Equal(t, c, BlockTag(b))

	b, err = ParseBlockTag(tag.Compound{"Name": "stone"}, "p")
	require.NoError(t, err)
	assert.Equal(t, tag.Compound{"Name": "minecraft:stone"}, BlockTag(b))

	_, err = ParseBlockTag(tag.Compound{}, "p")
	assert.ErrorIs(t, err, tag.ErrTagMissing)

	_, err = ParseBlockTag(tag.Compound{"Name": "stone", "Properties": tag.Compound{"n": int32(1)}}, "p")
	var pe *tag.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "p/Properties/n", pe.Path)

	_, err = ParseBlockTag(tag.Compound{"Name": "stone[a=b]"}, "p")
	assert.ErrorIs(t, err, block.ErrInvalidBlockString)
}
