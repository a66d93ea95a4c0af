package format

import (
	"encoding/binary"
	"fmt"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
	"github.com/astei/mcschem/version"
)

const (
	spongeVersion   = 2
	spongeMaxLength = 1<<16 - 1
)

func decodeWorldEdit13(root tag.Compound) (*schem.Schematic, error) {
	path := ""
	// Version 3 nests everything below a Schematic compound.
	if inner, ok := root["Schematic"].(tag.Compound); ok {
		root, path = inner, "/Schematic"
	}

	s := schem.New()
	v, err := tag.Int(root, "Version", path)
	if err != nil {
		return nil, err
	}
	s.Metadata.SchemVersion = v
	if v < 1 || v > 3 {
		return nil, fmt.Errorf("tag %s: unsupported schematic version %d", tag.Join(path, "Version"), v)
	}
	// Version 1 predates DataVersion and was only written by 1.13.2.
	dv, err := tag.OptionalInt(root, "DataVersion", path, int32(version.Java1_13_2))
	if err != nil {
		return nil, err
	}
	s.DataVersion = version.DataVersion(dv)

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

	blocks, blocksPath := root, path
	if v == 3 {
		if blocks, err = tag.OptionalCompound(root, "Blocks", path); err != nil {
			return nil, err
		}
		blocksPath = tag.Join(path, "Blocks")
	}
	if blocks != nil {
		// every voxel takes at least one varint byte
		dataKey := spongeDataKey(v)
		data, err := tag.ByteArray(blocks, dataKey, blocksPath)
		if err != nil {
			return nil, err
		}
		if len(data) < volume {
			return nil, fmt.Errorf("%w: %s: %d voxels need at least %d bytes, found %d",
				ErrLength, tag.Join(blocksPath, dataKey), volume, volume, len(data))
		}
	}

	r, err := schem.NewRegionWithShape(shape)
	if err != nil {
		return nil, err
	}
	r.Name = "Unnamed"

	if _, ok := root["Offset"]; ok {
		if s.Metadata.Offset, err = tag.IntTriple(root, "Offset", path); err != nil {
			return nil, err
		}
	}
	if err := decodeSpongeMetadata(root, path, &s.Metadata); err != nil {
		return nil, err
	}

	if blocks != nil {
		if err := decodeSpongeBlocks(r, blocks, blocksPath, v); err != nil {
			return nil, err
		}
	}
	if err := decodeSpongeEntities(r, root, path, v); err != nil {
		return nil, err
	}
	s.Regions = []*schem.Region{r}
	return s, nil
}

func decodeSpongeMetadata(root tag.Compound, path string, m *schem.MetaData) error {
	meta, err := tag.OptionalCompound(root, "Metadata", path)
	if err != nil || meta == nil {
		return err
	}
	path = tag.Join(path, "Metadata")
	if m.Name, err = tag.OptionalString(meta, "Name", path, ""); err != nil {
		return err
	}
	if m.Author, err = tag.OptionalString(meta, "Author", path, ""); err != nil {
		return err
	}
	if m.TimeCreated, err = tag.OptionalLong(meta, "Date", path, 0); err != nil {
		return err
	}
	for i, key := range [3]string{"WEOffsetX", "WEOffsetY", "WEOffsetZ"} {
		n, err := tag.OptionalInt(meta, key, path, 0)
		if err != nil {
			return err
		}
		m.WEOffset[i] = int(n)
	}
	return nil
}

func spongeDataKey(v int32) string {
	if v == 3 {
		return "Data"
	}
	return "BlockData"
}

func decodeSpongeBlocks(r *schem.Region, c tag.Compound, path string, v int32) error {
	dataKey := spongeDataKey(v)

	palette, err := tag.Child(c, "Palette", path)
	if err != nil {
		return err
	}
	palettePath := tag.Join(path, "Palette")
	if len(palette) == 0 {
		return fmt.Errorf("%s: %w", palettePath, schem.ErrPaletteEmpty)
	}
	if len(palette) > schem.MaxPaletteLen {
		return fmt.Errorf("%s: %w", palettePath, schem.ErrPaletteTooLong)
	}
	blocks := make([]block.Block, len(palette))
	seen := make([]bool, len(palette))
	for str := range palette {
		idx, err := tag.Int(palette, str, palettePath)
		if err != nil {
			return err
		}
		if idx < 0 || int(idx) >= len(palette) || seen[idx] {
			return fmt.Errorf("%s: %w: %q maps to %d", palettePath, schem.ErrIndexOutOfRange, str, idx)
		}
		b, err := block.Parse(str)
		if err != nil {
			return fmt.Errorf("%s: %w", palettePath, err)
		}
		blocks[idx], seen[idx] = b, true
	}
	r.Palette = blocks

	data, err := tag.ByteArray(c, dataKey, path)
	if err != nil {
		return err
	}
	dataPath := tag.Join(path, dataKey)
	shape := r.Shape()
	i := 0
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				idx, n := binary.Uvarint(data[i:])
				if n <= 0 {
					return fmt.Errorf("%w: %s: truncated varint at byte %d", ErrLength, dataPath, i)
				}
				i += n
				if idx >= uint64(len(r.Palette)) {
					return fmt.Errorf("%s: %w: %d", dataPath, schem.ErrIndexOutOfRange, idx)
				}
				if err := r.SetBlockID([3]int{x, y, z}, uint16(idx)); err != nil {
					return err
				}
			}
		}
	}
	if i != len(data) {
		return fmt.Errorf("%w: %s: %d trailing bytes", ErrLength, dataPath, len(data)-i)
	}

	key := "BlockEntities"
	if v == 1 {
		key = "TileEntities"
	}
	list, err := tag.ListOfCompounds(c, key, path)
	if err != nil {
		return err
	}
	for i, be := range list {
		bePath := fmt.Sprintf("%s[%d]", tag.Join(path, key), i)
		pos, err := tag.IntTriple(be, "Pos", bePath)
		if err != nil {
			return err
		}
		tags, err := spongeTags(be, bePath, v)
		if err != nil {
			return err
		}
		if err := r.SetBlockEntity(pos, &schem.BlockEntity{Tags: tags}); err != nil {
			return fmt.Errorf("%s: %w", bePath, err)
		}
	}
	return nil
}

func decodeSpongeEntities(r *schem.Region, root tag.Compound, path string, v int32) error {
	list, err := tag.ListOfCompounds(root, "Entities", path)
	if err != nil {
		return err
	}
	for i, e := range list {
		ePath := fmt.Sprintf("%s[%d]", tag.Join(path, "Entities"), i)
		pos, err := tag.DoubleTriple(e, "Pos", ePath)
		if err != nil {
			return err
		}
		tags, err := spongeTags(e, ePath, v)
		if err != nil {
			return err
		}
		r.Entities = append(r.Entities, schem.Entity{Tags: tags, Position: pos})
	}
	return nil
}

// spongeTags turns a Sponge entry into the in-game tag layout: the id moves
// to "id" and version 3 payloads are lifted out of Data.
func spongeTags(c tag.Compound, path string, v int32) (tag.Compound, error) {
	id, err := tag.String(c, "Id", path)
	if err != nil {
		return nil, err
	}
	var tags tag.Compound
	if v == 3 {
		data, err := tag.OptionalCompound(c, "Data", path)
		if err != nil {
			return nil, err
		}
		tags = withoutKeys(data)
	} else {
		tags = withoutKeys(c, "Id", "Pos", "ContentVersion")
	}
	tags["id"] = id
	return tags, nil
}

func encodeWorldEdit13(s *schem.Schematic) (string, any, error) {
	r, err := singleRegion(s, block.Air())
	if err != nil {
		return "", nil, err
	}
	shape := r.Shape()
	for i, n := range shape {
		if n > spongeMaxLength {
			return "", nil, fmt.Errorf("%w: dimension %d is %d, at most %d fit", schem.ErrInvalidShape, i, n, spongeMaxLength)
		}
	}

	// Palette ids are reassigned by first use so unused entries are dropped.
	remap := make(map[uint16]int32)
	palette := make(tag.Compound)
	data := make([]byte, 0, r.Volume())
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				idx, _ := r.BlockIndexAt([3]int{x, y, z})
				id, ok := remap[idx]
				if !ok {
					key := r.Palette[idx].String()
					if existing, dup := palette[key]; dup {
						id = existing.(int32)
					} else {
						id = int32(len(palette))
						palette[key] = id
					}
					remap[idx] = id
				}
				data = binary.AppendUvarint(data, uint64(id))
			}
		}
	}

	blockEntities := make([]tag.Compound, 0, len(r.BlockEntities))
	for _, pos := range sortedPositions(r.BlockEntities) {
		be := withoutKeys(r.BlockEntities[pos].Tags, "id")
		be["Id"] = entityID(r.BlockEntities[pos].Tags)
		be["Pos"] = []int32{int32(pos[0]), int32(pos[1]), int32(pos[2])}
		blockEntities = append(blockEntities, be)
	}

	entities := make([]tag.Compound, 0, len(r.Entities))
	for _, e := range r.Entities {
		c := withoutKeys(e.Tags, "id")
		c["Id"] = entityID(e.Tags)
		c["Pos"] = []float64{e.Position[0], e.Position[1], e.Position[2]}
		entities = append(entities, c)
	}

	m := s.Metadata
	meta := tag.Compound{
		"WEOffsetX": int32(m.WEOffset[0]),
		"WEOffsetY": int32(m.WEOffset[1]),
		"WEOffsetZ": int32(m.WEOffset[2]),
	}
	if m.Name != "" {
		meta["Name"] = m.Name
	}
	if m.Author != "" {
		meta["Author"] = m.Author
	}
	if m.TimeCreated != 0 {
		meta["Date"] = m.TimeCreated
	}

	root := tag.Compound{
		"Version":       int32(spongeVersion),
		"DataVersion":   int32(s.DataVersion),
		"Width":         int16(uint16(shape[0])),
		"Height":        int16(uint16(shape[1])),
		"Length":        int16(uint16(shape[2])),
		"Offset":        []int32{int32(m.Offset[0]), int32(m.Offset[1]), int32(m.Offset[2])},
		"Metadata":      meta,
		"PaletteMax":    int32(len(palette)),
		"Palette":       palette,
		"BlockData":     data,
		"BlockEntities": blockEntities,
		"Entities":      entities,
	}
	return "Schematic", root, nil
}

func entityID(tags tag.Compound) string {
	if id, ok := tags["id"].(string); ok {
		return id
	}
	return ""
}
