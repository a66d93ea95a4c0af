package format

import (
	"fmt"
	"math"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
	"github.com/astei/mcschem/version"
)

// vanillaFile is the structure block file layout used for writing.
type vanillaFile struct {
	DataVersion int32           `nbt:"DataVersion"`
	Size        []int32         `nbt:"size" nbt_type:"list"`
	Palette     []tag.Compound  `nbt:"palette"`
	Blocks      []vanillaBlock  `nbt:"blocks"`
	Entities    []vanillaEntity `nbt:"entities"`
}

type vanillaBlock struct {
	State int32        `nbt:"state"`
	Pos   []int32      `nbt:"pos" nbt_type:"list"`
	NBT   tag.Compound `nbt:"nbt,omitempty"`
}

type vanillaEntity struct {
	Pos      []float64    `nbt:"pos"`
	BlockPos []int32      `nbt:"blockPos" nbt_type:"list"`
	NBT      tag.Compound `nbt:"nbt"`
}

func decodeVanilla(root tag.Compound) (*schem.Schematic, error) {
	const path = ""
	s := schem.New()
	dv, err := tag.Int(root, "DataVersion", path)
	if err != nil {
		return nil, err
	}
	s.DataVersion = version.DataVersion(dv)

	shape, err := tag.IntTriple(root, "size", path)
	if err != nil {
		return nil, err
	}
	r, err := schem.NewRegionWithShape(shape)
	if err != nil {
		return nil, err
	}
	r.Name = "Unnamed"
	// Positions without a block entry are structure void.
	r.Palette = []block.Block{block.StructureVoid()}

	palette, palettePath, err := vanillaPalette(root)
	if err != nil {
		return nil, err
	}
	lut := make([]uint16, len(palette))
	for i, entry := range palette {
		b, err := schem.ParseBlockTag(entry, fmt.Sprintf("%s[%d]", palettePath, i))
		if err != nil {
			return nil, err
		}
		if lut[i], err = r.FindOrAppendToPalette(b); err != nil {
			return nil, err
		}
	}

	blocks, err := tag.ListOfCompounds(root, "blocks", path)
	if err != nil {
		return nil, err
	}
	for i, b := range blocks {
		bPath := fmt.Sprintf("/blocks[%d]", i)
		state, err := tag.Int(b, "state", bPath)
		if err != nil {
			return nil, err
		}
		if state < 0 || int(state) >= len(lut) {
			return nil, fmt.Errorf("%s: %w: state %d, palette has %d entries",
				bPath, schem.ErrIndexOutOfRange, state, len(lut))
		}
		pos, err := tag.IntTriple(b, "pos", bPath)
		if err != nil {
			return nil, err
		}
		if err := r.SetBlockID(pos, lut[state]); err != nil {
			return nil, fmt.Errorf("%s: %w", bPath, err)
		}
		data, err := tag.OptionalCompound(b, "nbt", bPath)
		if err != nil {
			return nil, err
		}
		if data != nil {
			if err := r.SetBlockEntity(pos, &schem.BlockEntity{Tags: withoutKeys(data)}); err != nil {
				return nil, fmt.Errorf("%s: %w", bPath, err)
			}
		}
	}

	entities, err := tag.ListOfCompounds(root, "entities", path)
	if err != nil {
		return nil, err
	}
	for i, e := range entities {
		ePath := fmt.Sprintf("/entities[%d]", i)
		pos, err := tag.DoubleTriple(e, "pos", ePath)
		if err != nil {
			return nil, err
		}
		data, err := tag.OptionalCompound(e, "nbt", ePath)
		if err != nil {
			return nil, err
		}
		r.Entities = append(r.Entities, schem.Entity{Tags: withoutKeys(data, "Pos"), Position: pos})
	}

	s.Regions = []*schem.Region{r}
	return s, nil
}

// vanillaPalette returns the palette, or the first variant for structures
// that carry several (shipwrecks and the like).
func vanillaPalette(root tag.Compound) ([]tag.Compound, string, error) {
	if _, ok := root["palette"]; ok {
		l, err := tag.ListOfCompounds(root, "palette", "")
		return l, "/palette", err
	}
	variants, err := tag.List(root, "palettes", "")
	if err != nil {
		return nil, "", err
	}
	if len(variants) == 0 {
		return nil, "", fmt.Errorf("/palettes: %w", schem.ErrPaletteEmpty)
	}
	first, err := tag.Elem(variants, 0, "/palettes", tag.KindList)
	if err != nil {
		return nil, "", err
	}
	l, err := tag.Compounds(tag.AsList(first), "/palettes[0]")
	return l, "/palettes[0]", err
}

func encodeVanilla(s *schem.Schematic) (string, any, error) {
	r, err := singleRegion(s, block.StructureVoid())
	if err != nil {
		return "", nil, err
	}
	shape := r.Shape()

	// Structure void is implied by the absence of a block entry, so it gets
	// no palette slot.
	states := make([]int32, len(r.Palette))
	palette := make([]tag.Compound, 0, len(r.Palette))
	for i, b := range r.Palette {
		if b.IsStructureVoid() {
			states[i] = -1
			continue
		}
		states[i] = int32(len(palette))
		palette = append(palette, schem.BlockTag(b))
	}

	blocks := make([]vanillaBlock, 0)
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				pos := [3]int{x, y, z}
				idx, _ := r.BlockIndexAt(pos)
				if states[idx] < 0 {
					continue
				}
				vb := vanillaBlock{
					State: states[idx],
					Pos:   []int32{int32(x), int32(y), int32(z)},
				}
				if be := r.BlockEntities[pos]; be != nil {
					vb.NBT = withoutKeys(be.Tags)
				}
				blocks = append(blocks, vb)
			}
		}
	}

	entities := make([]vanillaEntity, 0, len(r.Entities))
	for _, e := range r.Entities {
		p := e.Position
		data := withoutKeys(e.Tags)
		data["Pos"] = []float64{p[0], p[1], p[2]}
		entities = append(entities, vanillaEntity{
			Pos: []float64{p[0], p[1], p[2]},
			BlockPos: []int32{
				int32(math.Floor(p[0])),
				int32(math.Floor(p[1])),
				int32(math.Floor(p[2])),
			},
			NBT: data,
		})
	}

	return "", vanillaFile{
		DataVersion: int32(s.DataVersion),
		Size:        []int32{int32(shape[0]), int32(shape[1]), int32(shape[2])},
		Palette:     palette,
		Blocks:      blocks,
		Entities:    entities,
	}, nil
}
