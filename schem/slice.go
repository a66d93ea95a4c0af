package schem

import "fmt"

// WorldSlice is a read-only box of blocks.
type WorldSlice interface {
	Origin() [3]int
	Shape() [3]int
	TotalBlocks(includeAir bool) int
	BlockInfoAt(pos [3]int) (BlockInfo, bool)
}

var (
	_ WorldSlice = (*Region)(nil)
	_ WorldSlice = (*Slice)(nil)
)

// Slice is a view over a box of a schematic. Lookups resolve to the first
// region covering each voxel.
type Slice struct {
	source *Schematic
	offset [3]int
	shape  [3]int
}

// Slice returns a view of the box [offset, offset+shape). It fails when the box
// has a negative extent or leaves the schematic's bounding box.
func (s *Schematic) Slice(offset, shape [3]int) (*Slice, error) {
	full := s.Shape()
	for dim := 0; dim < 3; dim++ {
		if offset[dim] < 0 || shape[dim] < 0 || offset[dim]+shape[dim] > full[dim] {
			return nil, fmt.Errorf("%w: slice at %v of shape %v does not fit in %v",
				ErrCoordOutOfRange, offset, shape, full)
		}
	}
	return &Slice{source: s, offset: offset, shape: shape}, nil
}

func (sl *Slice) Origin() [3]int {
	return sl.offset
}

func (sl *Slice) Shape() [3]int {
	return sl.shape
}

// TotalBlocks counts covered voxels that are not structure void, and not air
// unless includeAir is set.
func (sl *Slice) TotalBlocks(includeAir bool) int {
	n := 0
	for y := 0; y < sl.shape[1]; y++ {
		for z := 0; z < sl.shape[2]; z++ {
			for x := 0; x < sl.shape[0]; x++ {
				b := sl.source.FirstBlockAt(sl.global([3]int{x, y, z}))
				if b == nil || b.IsStructureVoid() || (!includeAir && b.IsAir()) {
					continue
				}
				n++
			}
		}
	}
	return n
}

// BlockInfoAt looks up a coordinate relative to the slice origin.
func (sl *Slice) BlockInfoAt(pos [3]int) (BlockInfo, bool) {
	for dim := 0; dim < 3; dim++ {
		if pos[dim] < 0 || pos[dim] >= sl.shape[dim] {
			return BlockInfo{}, false
		}
	}
	return sl.source.FirstBlockInfoAt(sl.global(pos))
}

func (sl *Slice) global(pos [3]int) [3]int {
	return [3]int{pos[0] + sl.offset[0], pos[1] + sl.offset[1], pos[2] + sl.offset[2]}
}
