package schem

import (
	"fmt"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/version"
)

// MetaData is the format-agnostic metadata carried between formats. Fields a
// format does not know are left at their zero value.
type MetaData struct {
	Name        string
	Author      string
	Description string
	// Unix milliseconds.
	TimeCreated  int64
	TimeModified int64

	LitematicaVersion    int32
	LitematicaSubVersion int32

	// SchemVersion is the Sponge schematic version of a .schem file.
	SchemVersion int32
	// Offset is the Sponge Offset; WEOffset the WorldEdit copy origin.
	Offset   [3]int
	WEOffset [3]int
}

// Schematic is an ordered list of regions sharing one coordinate space. When
// regions overlap the first one in order wins.
type Schematic struct {
	DataVersion version.DataVersion
	Metadata    MetaData
	Regions     []*Region
}

func New() *Schematic {
	return &Schematic{DataVersion: version.Latest}
}

// Shape is the component-wise max of offset+shape over all regions. The
// schematic spans [0, Shape()), so voxels of a region placed at a negative
// offset are not counted.
func (s *Schematic) Shape() [3]int {
	var out [3]int
	for _, r := range s.Regions {
		shape := r.Shape()
		for dim := 0; dim < 3; dim++ {
			if end := r.Offset[dim] + shape[dim]; end > out[dim] {
				out[dim] = end
			}
		}
	}
	return out
}

func (s *Schematic) Volume() int {
	shape := s.Shape()
	return shape[0] * shape[1] * shape[2]
}

// BlocksAt returns the block of every region covering global.
func (s *Schematic) BlocksAt(global [3]int) []*block.Block {
	var out []*block.Block
	for _, r := range s.Regions {
		if b := r.BlockAt(r.GlobalPosToRelativePos(global)); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (s *Schematic) BlockIndicesAt(global [3]int) []uint16 {
	var out []uint16
	for _, r := range s.Regions {
		if idx, ok := r.BlockIndexAt(r.GlobalPosToRelativePos(global)); ok {
			out = append(out, idx)
		}
	}
	return out
}

// BlockEntitiesAt returns the block entity of every region covering global
// that has one there.
func (s *Schematic) BlockEntitiesAt(global [3]int) []*BlockEntity {
	var out []*BlockEntity
	for _, r := range s.Regions {
		rel := r.GlobalPosToRelativePos(global)
		if !r.ContainsCoord(rel) {
			continue
		}
		if be, ok := r.BlockEntities[rel]; ok {
			out = append(out, be)
		}
	}
	return out
}

// FirstRegionIndexAt returns the index of the first region covering global.
func (s *Schematic) FirstRegionIndexAt(global [3]int) (int, bool) {
	for i, r := range s.Regions {
		if r.ContainsCoord(r.GlobalPosToRelativePos(global)) {
			return i, true
		}
	}
	return 0, false
}

func (s *Schematic) FirstBlockAt(global [3]int) *block.Block {
	i, ok := s.FirstRegionIndexAt(global)
	if !ok {
		return nil
	}
	r := s.Regions[i]
	return r.BlockAt(r.GlobalPosToRelativePos(global))
}

func (s *Schematic) FirstBlockIndexAt(global [3]int) (uint16, bool) {
	i, ok := s.FirstRegionIndexAt(global)
	if !ok {
		return 0, false
	}
	r := s.Regions[i]
	return r.BlockIndexAt(r.GlobalPosToRelativePos(global))
}

// FirstBlockEntityAt returns the block entity of the first region covering
// global. A later region's entity is never returned even if the first region
// has none there.
func (s *Schematic) FirstBlockEntityAt(global [3]int) *BlockEntity {
	i, ok := s.FirstRegionIndexAt(global)
	if !ok {
		return nil
	}
	r := s.Regions[i]
	return r.BlockEntities[r.GlobalPosToRelativePos(global)]
}

func (s *Schematic) FirstBlockInfoAt(global [3]int) (BlockInfo, bool) {
	i, ok := s.FirstRegionIndexAt(global)
	if !ok {
		return BlockInfo{}, false
	}
	r := s.Regions[i]
	return r.BlockInfoAt(r.GlobalPosToRelativePos(global))
}

// FullPalette deduplicates the palettes of all regions. lut[r][i] is the
// global index of palette entry i of region r.
func (s *Schematic) FullPalette() (palette []block.Block, lut [][]uint16, err error) {
	byHash := make(map[uint64][]int)
	lut = make([][]uint16, len(s.Regions))
	for ri, r := range s.Regions {
		lut[ri] = make([]uint16, len(r.Palette))
		for pi, b := range r.Palette {
			h := b.Hash()
			found := -1
			for _, gi := range byHash[h] {
				if palette[gi].Equal(b) {
					found = gi
					break
				}
			}
			if found < 0 {
				if len(palette) >= MaxPaletteLen {
					return nil, nil, ErrPaletteTooLong
				}
				found = len(palette)
				palette = append(palette, b.Clone())
				byHash[h] = append(byHash[h], found)
			}
			lut[ri][pi] = uint16(found)
		}
	}
	return palette, lut, nil
}

// ToSingleRegion flattens every region into one region covering [0, Shape()).
// Voxels no region covers hold background; elsewhere the first region wins.
// Entities of every region are kept, moved into schematic coordinates. A
// region at a negative offset is rejected instead of being cropped.
func (s *Schematic) ToSingleRegion(background block.Block) (*Region, error) {
	if len(s.Regions) == 0 {
		return nil, ErrNoRegions
	}
	for _, r := range s.Regions {
		if r.Offset[0] < 0 || r.Offset[1] < 0 || r.Offset[2] < 0 {
			return nil, fmt.Errorf("%w: region %q at %v", ErrNegativeOffset, r.Name, r.Offset)
		}
	}
	out, err := NewRegionWithShape(s.Shape())
	if err != nil {
		return nil, err
	}
	out.Name = s.Regions[0].Name
	out.Palette = []block.Block{background.Clone()}

	luts := make([][]uint16, len(s.Regions))
	hasLight := false
	for ri, r := range s.Regions {
		luts[ri] = make([]uint16, len(r.Palette))
		for pi, b := range r.Palette {
			if luts[ri][pi], err = out.FindOrAppendToPalette(b); err != nil {
				return nil, fmt.Errorf("could not merge region %q: %w", r.Name, err)
			}
		}
		hasLight = hasLight || r.HasLight()
	}

	shape := out.Shape()
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				pos := [3]int{x, y, z}
				ri, ok := s.FirstRegionIndexAt(pos)
				if !ok {
					continue
				}
				src := s.Regions[ri]
				rel := src.GlobalPosToRelativePos(pos)
				info, _ := src.BlockInfoAt(rel)
				out.indices[out.flat(pos)] = luts[ri][info.Index]
				if info.Entity != nil {
					out.BlockEntities[pos] = info.Entity.Clone()
				}
				if info.Tick != nil {
					tick := *info.Tick
					out.PendingTicks[pos] = &tick
				}
				if hasLight {
					if err := out.SetLight(pos, src.LightAt(rel)); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	for _, r := range s.Regions {
		for _, e := range r.Entities {
			moved := e.Clone()
			for dim := 0; dim < 3; dim++ {
				moved.Position[dim] += float64(r.Offset[dim])
			}
			out.Entities = append(out.Entities, moved)
		}
	}
	return out, nil
}

// MergeRegions replaces the region list with the result of ToSingleRegion.
func (s *Schematic) MergeRegions(background block.Block) error {
	r, err := s.ToSingleRegion(background)
	if err != nil {
		return err
	}
	s.Regions = []*Region{r}
	return nil
}

// Duplicate is a coordinate where overlapping regions disagree.
type Duplicate struct {
	Pos    [3]int
	Blocks []*block.Block
}

// DuplicatedBlocks lists every coordinate holding two or more distinct blocks,
// in YZX order.
func (s *Schematic) DuplicatedBlocks() []Duplicate {
	var out []Duplicate
	if len(s.Regions) < 2 {
		return out
	}
	shape := s.Shape()
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				pos := [3]int{x, y, z}
				var distinct []*block.Block
				for _, b := range s.BlocksAt(pos) {
					if !containsBlock(distinct, b) {
						distinct = append(distinct, b)
					}
				}
				if len(distinct) >= 2 {
					out = append(out, Duplicate{Pos: pos, Blocks: distinct})
				}
			}
		}
	}
	return out
}

func containsBlock(list []*block.Block, b *block.Block) bool {
	for _, e := range list {
		if e.Equal(*b) {
			return true
		}
	}
	return false
}

// TotalBlocks sums Region.TotalBlocks over every region, counting overlapping
// voxels once per region.
func (s *Schematic) TotalBlocks(includeAir bool) int {
	n := 0
	for _, r := range s.Regions {
		n += r.TotalBlocks(includeAir)
	}
	return n
}
