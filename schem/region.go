// Package schem holds the in-memory schematic model: regions with their own
// palettes, placed at offsets inside one schematic.
package schem

import (
	"errors"
	"fmt"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/tag"
)

// MaxPaletteLen bounds a palette so every index fits in a uint16.
const MaxPaletteLen = 1 << 16

// MaxVolume bounds the voxel count of one region.
const MaxVolume = 1 << 28

var (
	ErrPaletteTooLong  = errors.New("schem: palette longer than 65536 entries")
	ErrPaletteEmpty    = errors.New("schem: palette is empty")
	ErrIndexOutOfRange = errors.New("schem: block index out of palette range")
	ErrCoordOutOfRange = errors.New("schem: coordinate outside of region")
	ErrInvalidShape    = errors.New("schem: invalid region shape")
	ErrNoRegions       = errors.New("schem: schematic has no regions")
	ErrNegativeOffset  = errors.New("schem: region offset is negative")
)

// BlockEntity is the extra per-block data of a block such as a chest or sign.
type BlockEntity struct {
	Tags tag.Compound
}

func (e *BlockEntity) Clone() *BlockEntity {
	return &BlockEntity{Tags: tag.CloneCompound(e.Tags)}
}

// Entity is a free-floating entity. Position is relative to the region.
type Entity struct {
	Tags     tag.Compound
	Position [3]float64
}

func (e Entity) Clone() Entity {
	return Entity{Tags: tag.CloneCompound(e.Tags), Position: e.Position}
}

type TickKind uint8

const (
	TickBlock TickKind = iota
	TickFluid
)

func (k TickKind) String() string {
	if k == TickFluid {
		return "fluid"
	}
	return "block"
}

// PendingTick is a scheduled block or fluid update.
type PendingTick struct {
	Priority int32
	SubTick  int64
	Time     int32
	Kind     TickKind
	// ID is the block or fluid that scheduled the tick.
	ID string
}

// Light packs sky light in the high nibble and block light in the low nibble.
type Light uint8

// FullLight is used wherever light was never recorded.
const FullLight = Light(0xFF)

func NewLight(sky, blockLight uint8) Light {
	return Light((sky&0xF)<<4 | blockLight&0xF)
}

func (l Light) Sky() uint8 {
	return uint8(l) >> 4
}

func (l Light) Block() uint8 {
	return uint8(l) & 0xF
}

// BlockInfo bundles everything stored at one coordinate.
type BlockInfo struct {
	Index  uint16
	Block  *block.Block
	Entity *BlockEntity
	Tick   *PendingTick
}

// Region is one box of blocks with its own palette. Blocks are stored in YZX
// order: index = (y*sz + z)*sx + x.
type Region struct {
	Name   string
	Offset [3]int

	Palette       []block.Block
	BlockEntities map[[3]int]*BlockEntity
	PendingTicks  map[[3]int]*PendingTick
	Entities      []Entity

	shape   [3]int
	indices []uint16
	light   []Light
}

// NewRegion creates a 1x1x1 region filled with air.
func NewRegion() *Region {
	return &Region{
		Name:          "NewRegion",
		Palette:       []block.Block{block.Air()},
		BlockEntities: make(map[[3]int]*BlockEntity),
		PendingTicks:  make(map[[3]int]*PendingTick),
		shape:         [3]int{1, 1, 1},
		indices:       make([]uint16, 1),
	}
}

// NewRegionWithShape creates an air-filled region of the given shape.
func NewRegionWithShape(shape [3]int) (*Region, error) {
	r := NewRegion()
	if err := r.Reshape(shape); err != nil {
		return nil, err
	}
	return r, nil
}

// Reshape resizes the region and resets every voxel to palette index 0. Block
// entities, pending ticks and light are dropped. An empty palette gets air.
func (r *Region) Reshape(shape [3]int) error {
	volume, err := ShapeVolume(shape)
	if err != nil {
		return err
	}
	r.shape = shape
	r.indices = make([]uint16, volume)
	r.light = nil
	r.BlockEntities = make(map[[3]int]*BlockEntity)
	r.PendingTicks = make(map[[3]int]*PendingTick)
	if len(r.Palette) == 0 {
		r.Palette = append(r.Palette, block.Air())
	}
	return nil
}

// ShapeVolume returns the voxel count of shape. Every dimension must be at
// least 1 and the product at most MaxVolume.
func ShapeVolume(shape [3]int) (int, error) {
	volume := 1
	for _, n := range shape {
		if n < 1 {
			return 0, fmt.Errorf("%w: %v: every dimension must be at least 1", ErrInvalidShape, shape)
		}
		if n > MaxVolume/volume {
			return 0, fmt.Errorf("%w: %v: more than %d voxels", ErrInvalidShape, shape, MaxVolume)
		}
		volume *= n
	}
	return volume, nil
}

func (r *Region) Shape() [3]int {
	return r.shape
}

func (r *Region) Volume() int {
	return r.shape[0] * r.shape[1] * r.shape[2]
}

// Origin returns the region offset in schematic coordinates.
func (r *Region) Origin() [3]int {
	return r.Offset
}

// ContainsCoord reports whether pos lies in [0, shape) on every axis.
func (r *Region) ContainsCoord(pos [3]int) bool {
	for dim := 0; dim < 3; dim++ {
		if pos[dim] < 0 || pos[dim] >= r.shape[dim] {
			return false
		}
	}
	return true
}

func (r *Region) flat(pos [3]int) int {
	return (pos[1]*r.shape[2]+pos[2])*r.shape[0] + pos[0]
}

// BlockIndexAt returns the palette index stored at pos.
func (r *Region) BlockIndexAt(pos [3]int) (uint16, bool) {
	if !r.ContainsCoord(pos) {
		return 0, false
	}
	return r.indices[r.flat(pos)], true
}

// BlockAt returns the palette entry stored at pos, nil outside the region.
// The pointer aliases the palette and is invalidated by the next append to it.
func (r *Region) BlockAt(pos [3]int) *block.Block {
	idx, ok := r.BlockIndexAt(pos)
	if !ok {
		return nil
	}
	return &r.Palette[idx]
}

// BlockInfoAt returns everything stored at pos. Block aliases the palette like
// the result of BlockAt.
func (r *Region) BlockInfoAt(pos [3]int) (BlockInfo, bool) {
	idx, ok := r.BlockIndexAt(pos)
	if !ok {
		return BlockInfo{}, false
	}
	return BlockInfo{
		Index:  idx,
		Block:  &r.Palette[idx],
		Entity: r.BlockEntities[pos],
		Tick:   r.PendingTicks[pos],
	}, true
}

// SetBlockID stores a palette index at pos.
func (r *Region) SetBlockID(pos [3]int, idx uint16) error {
	if int(idx) >= len(r.Palette) {
		return fmt.Errorf("%w: index %d, palette has %d entries", ErrIndexOutOfRange, idx, len(r.Palette))
	}
	if !r.ContainsCoord(pos) {
		return fmt.Errorf("%w: %v not in shape %v", ErrCoordOutOfRange, pos, r.shape)
	}
	r.indices[r.flat(pos)] = idx
	return nil
}

// SetBlock finds or appends b in the palette and stores it at pos.
func (r *Region) SetBlock(pos [3]int, b block.Block) error {
	if !r.ContainsCoord(pos) {
		return fmt.Errorf("%w: %v not in shape %v", ErrCoordOutOfRange, pos, r.shape)
	}
	idx, err := r.FindOrAppendToPalette(b)
	if err != nil {
		return err
	}
	r.indices[r.flat(pos)] = idx
	return nil
}

// FindOrAppendToPalette returns the index of a block equal to b, appending a
// copy of b when none exists.
func (r *Region) FindOrAppendToPalette(b block.Block) (uint16, error) {
	for i := range r.Palette {
		if r.Palette[i].Equal(b) {
			return uint16(i), nil
		}
	}
	if len(r.Palette) >= MaxPaletteLen {
		return 0, ErrPaletteTooLong
	}
	r.Palette = append(r.Palette, b.Clone())
	return uint16(len(r.Palette) - 1), nil
}

// GlobalPosToRelativePos translates a schematic coordinate into this region.
// The result is not bounds checked.
func (r *Region) GlobalPosToRelativePos(global [3]int) [3]int {
	return [3]int{global[0] - r.Offset[0], global[1] - r.Offset[1], global[2] - r.Offset[2]}
}

// TotalBlocks counts voxels that are not structure void, and not air unless
// includeAir is set.
func (r *Region) TotalBlocks(includeAir bool) int {
	counted := make([]bool, len(r.Palette))
	for i, b := range r.Palette {
		counted[i] = !b.IsStructureVoid() && (includeAir || !b.IsAir())
	}
	n := 0
	for _, idx := range r.indices {
		if counted[idx] {
			n++
		}
	}
	return n
}

// HasLight reports whether any light value was recorded.
func (r *Region) HasLight() bool {
	return r.light != nil
}

func (r *Region) SetLight(pos [3]int, l Light) error {
	if !r.ContainsCoord(pos) {
		return fmt.Errorf("%w: %v not in shape %v", ErrCoordOutOfRange, pos, r.shape)
	}
	if r.light == nil {
		r.light = make([]Light, len(r.indices))
		for i := range r.light {
			r.light[i] = FullLight
		}
	}
	r.light[r.flat(pos)] = l
	return nil
}

// LightAt returns the recorded light at pos, FullLight when none was recorded.
func (r *Region) LightAt(pos [3]int) Light {
	if r.light == nil || !r.ContainsCoord(pos) {
		return FullLight
	}
	return r.light[r.flat(pos)]
}

func (r *Region) SetBlockEntity(pos [3]int, be *BlockEntity) error {
	if !r.ContainsCoord(pos) {
		return fmt.Errorf("%w: %v not in shape %v", ErrCoordOutOfRange, pos, r.shape)
	}
	if be == nil {
		delete(r.BlockEntities, pos)
		return nil
	}
	r.BlockEntities[pos] = be
	return nil
}

func (r *Region) SetPendingTick(pos [3]int, t *PendingTick) error {
	if !r.ContainsCoord(pos) {
		return fmt.Errorf("%w: %v not in shape %v", ErrCoordOutOfRange, pos, r.shape)
	}
	if t == nil {
		delete(r.PendingTicks, pos)
		return nil
	}
	r.PendingTicks[pos] = t
	return nil
}

// ShrinkPalette drops palette entries no voxel refers to and renumbers the
// index array. The first entry is kept when nothing is referenced.
func (r *Region) ShrinkPalette() {
	used := make([]bool, len(r.Palette))
	for _, idx := range r.indices {
		used[idx] = true
	}
	remap := make([]uint16, len(r.Palette))
	kept := r.Palette[:0:0]
	for i, b := range r.Palette {
		if used[i] {
			remap[i] = uint16(len(kept))
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, r.Palette[0])
	}
	for i, idx := range r.indices {
		r.indices[i] = remap[idx]
	}
	r.Palette = kept
}
