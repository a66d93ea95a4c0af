package format

import (
	"fmt"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/legacy"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
	"github.com/astei/mcschem/version"
)

// decodeWorldEdit12 reads an MCEdit schematic as written by WorldEdit before
// 1.13. Numeric ids are mapped to block states once per (id, damage) pair.
func decodeWorldEdit12(root tag.Compound) (*schem.Schematic, error) {
	const path = ""
	if _, ok := root["AddBlocks"]; ok {
		return nil, ErrAddBlocksUnsupported
	}
	if materials, err := tag.OptionalString(root, "Materials", path, "Alpha"); err != nil {
		return nil, err
	} else if materials != "Alpha" {
		return nil, fmt.Errorf("tag %s: unsupported materials %q", tag.Join(path, "Materials"), materials)
	}

	var shape [3]int
	for i, key := range [3]string{"Width", "Height", "Length"} {
		n, err := tag.Short(root, key, path)
		if err != nil {
			return nil, err
		}
		shape[i] = int(uint16(n))
	}
	volume, err := schem.ShapeVolume(shape)
	if err != nil {
		return nil, err
	}

	ids, err := tag.ByteArray(root, "Blocks", path)
	if err != nil {
		return nil, err
	}
	damages, err := tag.ByteArray(root, "Data", path)
	if err != nil {
		return nil, err
	}
	if len(ids) != volume {
		return nil, fmt.Errorf("%w: %s: expected %d bytes, found %d", ErrLength, "/Blocks", volume, len(ids))
	}
	if len(damages) != volume {
		return nil, fmt.Errorf("%w: %s: expected %d bytes, found %d", ErrLength, "/Data", volume, len(damages))
	}
	r, err := schem.NewRegionWithShape(shape)
	if err != nil {
		return nil, err
	}
	r.Name = "Unnamed"

	type legacyKey struct{ id, damage uint8 }
	cache := make(map[legacyKey]uint16)
	i := 0
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				// the game only ever stores the low nibble
				k := legacyKey{id: ids[i], damage: damages[i] & 0x0F}
				i++
				idx, ok := cache[k]
				if !ok {
					var b block.Block
					if b, err = legacy.Resolve(k.id, k.damage, version.Java1_12_2); err != nil {
						return nil, fmt.Errorf("at %v: %w", [3]int{x, y, z}, err)
					}
					if idx, err = r.FindOrAppendToPalette(b); err != nil {
						return nil, err
					}
					cache[k] = idx
				}
				if err := r.SetBlockID([3]int{x, y, z}, idx); err != nil {
					return nil, err
				}
			}
		}
	}

	tileEntities, err := tag.ListOfCompounds(root, "TileEntities", path)
	if err != nil {
		return nil, err
	}
	for i, te := range tileEntities {
		tePath := fmt.Sprintf("%s[%d]", tag.Join(path, "TileEntities"), i)
		pos, err := intXYZ(te, tePath)
		if err != nil {
			return nil, err
		}
		if err := r.SetBlockEntity(pos, &schem.BlockEntity{Tags: withoutKeys(te, "x", "y", "z")}); err != nil {
			return nil, fmt.Errorf("%s: %w", tePath, err)
		}
	}

	entities, err := tag.ListOfCompounds(root, "Entities", path)
	if err != nil {
		return nil, err
	}
	for i, e := range entities {
		ePath := fmt.Sprintf("%s[%d]", tag.Join(path, "Entities"), i)
		pos, err := tag.DoubleTriple(e, "Pos", ePath)
		if err != nil {
			return nil, err
		}
		r.Entities = append(r.Entities, schem.Entity{Tags: withoutKeys(e, "Pos"), Position: pos})
	}

	s := schem.New()
	s.DataVersion = version.Java1_12_2
	for i, key := range [3]string{"WEOffsetX", "WEOffsetY", "WEOffsetZ"} {
		n, err := tag.OptionalInt(root, key, path, 0)
		if err != nil {
			return nil, err
		}
		s.Metadata.WEOffset[i] = int(n)
	}
	for i, key := range [3]string{"WEOriginX", "WEOriginY", "WEOriginZ"} {
		n, err := tag.OptionalInt(root, key, path, 0)
		if err != nil {
			return nil, err
		}
		s.Metadata.Offset[i] = int(n)
	}
	s.Regions = []*schem.Region{r}
	return s, nil
}
