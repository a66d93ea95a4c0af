package format

import (
	"fmt"
	"sort"
	"time"

	"github.com/astei/mcschem/bitset"
	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
	"github.com/astei/mcschem/version"
)

const (
	litematicaVersion    = 6
	litematicaSubVersion = 1
)

// spanningArray packs values back to back, so a value may continue in the next
// word. Litematica stores BlockStates this way.
type spanningArray struct {
	words []uint64
	bits  uint
	mask  uint64
}

// spanningWords returns how many longs hold length entries of bits each.
func spanningWords(length int, bits uint) int {
	return int((int64(length)*int64(bits) + 63) / 64)
}

func newSpanningArray(length int, bits uint) *spanningArray {
	return &spanningArray{
		words: make([]uint64, spanningWords(length, bits)),
		bits:  bits,
		mask:  uint64(1)<<bits - 1,
	}
}

func litematicaBits(paletteLen int) uint {
	b := uint(bitset.BitsForPaletteSize(paletteLen))
	if b < 2 {
		return 2
	}
	return b
}

func (a *spanningArray) get(i int) uint64 {
	start := uint(i) * a.bits
	w, off := start/64, start%64
	v := a.words[w] >> off
	if off+a.bits > 64 {
		v |= a.words[w+1] << (64 - off)
	}
	return v & a.mask
}

func (a *spanningArray) set(i int, v uint64) {
	v &= a.mask
	start := uint(i) * a.bits
	w, off := start/64, start%64
	a.words[w] = a.words[w]&^(a.mask<<off) | v<<off
	if off+a.bits > 64 {
		hi := 64 - off
		a.words[w+1] = a.words[w+1]&^(a.mask>>hi) | v>>hi
	}
}

func (a *spanningArray) load(words []int64) {
	for i, w := range words {
		a.words[i] = uint64(w)
	}
}

func (a *spanningArray) export() []int64 {
	out := make([]int64, len(a.words))
	for i, w := range a.words {
		out[i] = int64(w)
	}
	return out
}

func decodeLitematica(root tag.Compound) (*schem.Schematic, error) {
	s := schem.New()
	dv, err := tag.Int(root, "MinecraftDataVersion", "")
	if err != nil {
		return nil, err
	}
	s.DataVersion = version.DataVersion(dv)
	if s.Metadata.LitematicaVersion, err = tag.Int(root, "Version", ""); err != nil {
		return nil, err
	}
	if s.Metadata.LitematicaSubVersion, err = tag.OptionalInt(root, "SubVersion", "", 0); err != nil {
		return nil, err
	}

	meta, err := tag.Child(root, "Metadata", "")
	if err != nil {
		return nil, err
	}
	if err := decodeLitematicaMeta(meta, &s.Metadata); err != nil {
		return nil, err
	}

	regions, err := tag.Child(root, "Regions", "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	var corners [][3]int
	for _, name := range names {
		r, corner, err := decodeLitematicaRegion(regions, name, "/Regions")
		if err != nil {
			return nil, err
		}
		s.Regions = append(s.Regions, r)
		corners = append(corners, corner)
	}

	// Regions may sit at negative positions; shift so the lowest corner is 0.
	if len(corners) > 0 {
		lo := corners[0]
		for _, c := range corners[1:] {
			for dim := 0; dim < 3; dim++ {
				if c[dim] < lo[dim] {
					lo[dim] = c[dim]
				}
			}
		}
		for i, r := range s.Regions {
			for dim := 0; dim < 3; dim++ {
				r.Offset[dim] = corners[i][dim] - lo[dim]
			}
		}
	}
	return s, nil
}

func decodeLitematicaMeta(meta tag.Compound, m *schem.MetaData) error {
	const path = "/Metadata"
	var err error
	if m.Name, err = tag.OptionalString(meta, "Name", path, ""); err != nil {
		return err
	}
	if m.Author, err = tag.OptionalString(meta, "Author", path, ""); err != nil {
		return err
	}
	if m.Description, err = tag.OptionalString(meta, "Description", path, ""); err != nil {
		return err
	}
	if m.TimeCreated, err = tag.OptionalLong(meta, "TimeCreated", path, 0); err != nil {
		return err
	}
	if m.TimeModified, err = tag.OptionalLong(meta, "TimeModified", path, 0); err != nil {
		return err
	}
	return nil
}

// decodeLitematicaRegion returns the region and the schematic coordinate of
// its minimum corner. A negative size extends the region from Position
// towards lower coordinates.
func decodeLitematicaRegion(regions tag.Compound, name, parent string) (*schem.Region, [3]int, error) {
	var corner [3]int
	c, err := tag.Child(regions, name, parent)
	if err != nil {
		return nil, corner, err
	}
	path := tag.Join(parent, name)

	pos, err := tag.XYZ(c, "Position", path)
	if err != nil {
		return nil, corner, err
	}
	size, err := tag.XYZ(c, "Size", path)
	if err != nil {
		return nil, corner, err
	}
	var shape [3]int
	for dim := 0; dim < 3; dim++ {
		switch {
		case size[dim] > 0:
			corner[dim], shape[dim] = pos[dim], size[dim]
		case size[dim] < 0:
			corner[dim], shape[dim] = pos[dim]+size[dim]+1, -size[dim]
		default:
			return nil, corner, fmt.Errorf("%s: %w: size %v", tag.Join(path, "Size"), schem.ErrInvalidShape, size)
		}
	}

	volume, err := schem.ShapeVolume(shape)
	if err != nil {
		return nil, corner, fmt.Errorf("%s: %w", tag.Join(path, "Size"), err)
	}

	palette, err := tag.ListOfCompounds(c, "BlockStatePalette", path)
	if err != nil {
		return nil, corner, err
	}
	palettePath := tag.Join(path, "BlockStatePalette")
	if len(palette) == 0 {
		return nil, corner, fmt.Errorf("%s: %w", palettePath, schem.ErrPaletteEmpty)
	}
	if len(palette) > schem.MaxPaletteLen {
		return nil, corner, fmt.Errorf("%s: %w", palettePath, schem.ErrPaletteTooLong)
	}
	words, err := tag.LongArray(c, "BlockStates", path)
	if err != nil {
		return nil, corner, err
	}
	bits := litematicaBits(len(palette))
	if want := spanningWords(volume, bits); len(words) != want {
		return nil, corner, fmt.Errorf("%w: %s: expected %d longs, found %d",
			ErrLength, tag.Join(path, "BlockStates"), want, len(words))
	}

	r, err := schem.NewRegionWithShape(shape)
	if err != nil {
		return nil, corner, err
	}
	r.Name = name
	r.Palette = make([]block.Block, len(palette))
	for i, entry := range palette {
		if r.Palette[i], err = schem.ParseBlockTag(entry, fmt.Sprintf("%s[%d]", palettePath, i)); err != nil {
			return nil, corner, err
		}
	}
	states := newSpanningArray(volume, bits)
	states.load(words)
	i := 0
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				idx := states.get(i)
				if idx >= uint64(len(r.Palette)) {
					return nil, corner, fmt.Errorf("%s: %w: %d, palette has %d entries",
						tag.Join(path, "BlockStates"), schem.ErrIndexOutOfRange, idx, len(r.Palette))
				}
				if err := r.SetBlockID([3]int{x, y, z}, uint16(idx)); err != nil {
					return nil, corner, err
				}
				i++
			}
		}
	}

	if err := decodeLitematicaTileEntities(r, c, path); err != nil {
		return nil, corner, err
	}
	if err := decodeLitematicaEntities(r, c, path); err != nil {
		return nil, corner, err
	}
	if err := decodeLitematicaTicks(r, c, path, "PendingBlockTicks", "Block", schem.TickBlock); err != nil {
		return nil, corner, err
	}
	if err := decodeLitematicaTicks(r, c, path, "PendingFluidTicks", "Fluid", schem.TickFluid); err != nil {
		return nil, corner, err
	}
	return r, corner, nil
}

func intXYZ(c tag.Compound, path string) ([3]int, error) {
	var out [3]int
	for i, axis := range [3]string{"x", "y", "z"} {
		v, err := tag.Int(c, axis, path)
		if err != nil {
			return out, err
		}
		out[i] = int(v)
	}
	return out, nil
}

func decodeLitematicaTileEntities(r *schem.Region, c tag.Compound, path string) error {
	list, err := tag.ListOfCompounds(c, "TileEntities", path)
	if err != nil {
		return err
	}
	for i, te := range list {
		tePath := fmt.Sprintf("%s[%d]", tag.Join(path, "TileEntities"), i)
		pos, err := intXYZ(te, tePath)
		if err != nil {
			return err
		}
		if err := r.SetBlockEntity(pos, &schem.BlockEntity{Tags: withoutKeys(te, "x", "y", "z")}); err != nil {
			return fmt.Errorf("%s: %w", tePath, err)
		}
	}
	return nil
}

func decodeLitematicaEntities(r *schem.Region, c tag.Compound, path string) error {
	list, err := tag.ListOfCompounds(c, "Entities", path)
	if err != nil {
		return err
	}
	for i, e := range list {
		ePath := fmt.Sprintf("%s[%d]", tag.Join(path, "Entities"), i)
		pos, err := tag.DoubleTriple(e, "Pos", ePath)
		if err != nil {
			return err
		}
		r.Entities = append(r.Entities, schem.Entity{Tags: withoutKeys(e, "Pos"), Position: pos})
	}
	return nil
}

func decodeLitematicaTicks(r *schem.Region, c tag.Compound, path, key, idKey string, kind schem.TickKind) error {
	list, err := tag.ListOfCompounds(c, key, path)
	if err != nil {
		return err
	}
	for i, t := range list {
		tPath := fmt.Sprintf("%s[%d]", tag.Join(path, key), i)
		pos, err := intXYZ(t, tPath)
		if err != nil {
			return err
		}
		tick := &schem.PendingTick{Kind: kind}
		if tick.ID, err = tag.String(t, idKey, tPath); err != nil {
			return err
		}
		if tick.Priority, err = tag.OptionalInt(t, "Priority", tPath, 0); err != nil {
			return err
		}
		if tick.SubTick, err = tag.OptionalLong(t, "SubTick", tPath, 0); err != nil {
			return err
		}
		if tick.Time, err = tag.Int(t, "Time", tPath); err != nil {
			return err
		}
		if err := r.SetPendingTick(pos, tick); err != nil {
			return fmt.Errorf("%s: %w", tPath, err)
		}
	}
	return nil
}

func encodeLitematica(s *schem.Schematic) (string, any, error) {
	regions := make(tag.Compound, len(s.Regions))
	for i, r := range s.Regions {
		name := r.Name
		if _, dup := regions[name]; dup || name == "" {
			name = fmt.Sprintf("%s#%d", r.Name, i)
		}
		regions[name] = encodeLitematicaRegion(r)
	}

	m := s.Metadata
	modified := m.TimeModified
	if modified == 0 {
		modified = time.Now().UnixMilli()
	}
	created := m.TimeCreated
	if created == 0 {
		created = modified
	}
	v, sub := m.LitematicaVersion, m.LitematicaSubVersion
	if v == 0 {
		v, sub = litematicaVersion, litematicaSubVersion
	}

	root := tag.Compound{
		"MinecraftDataVersion": int32(s.DataVersion),
		"Version":              v,
		"SubVersion":           sub,
		"Metadata": tag.Compound{
			"Name":          m.Name,
			"Author":        m.Author,
			"Description":   m.Description,
			"RegionCount":   int32(len(s.Regions)),
			"TimeCreated":   created,
			"TimeModified":  modified,
			"TotalBlocks":   int32(s.TotalBlocks(false)),
			"TotalVolume":   int32(s.Volume()),
			"EnclosingSize": xyzTag(s.Shape()),
		},
		"Regions": regions,
	}
	return "", root, nil
}

func encodeLitematicaRegion(r *schem.Region) tag.Compound {
	palette := make([]tag.Compound, len(r.Palette))
	for i, b := range r.Palette {
		palette[i] = schem.BlockTag(b)
	}

	shape := r.Shape()
	states := newSpanningArray(r.Volume(), litematicaBits(len(r.Palette)))
	i := 0
	for y := 0; y < shape[1]; y++ {
		for z := 0; z < shape[2]; z++ {
			for x := 0; x < shape[0]; x++ {
				idx, _ := r.BlockIndexAt([3]int{x, y, z})
				states.set(i, uint64(idx))
				i++
			}
		}
	}

	tileEntities := make([]tag.Compound, 0, len(r.BlockEntities))
	for _, pos := range sortedPositions(r.BlockEntities) {
		te := withoutKeys(r.BlockEntities[pos].Tags)
		te["x"], te["y"], te["z"] = int32(pos[0]), int32(pos[1]), int32(pos[2])
		tileEntities = append(tileEntities, te)
	}

	entities := make([]tag.Compound, 0, len(r.Entities))
	for _, e := range r.Entities {
		c := withoutKeys(e.Tags)
		c["Pos"] = []float64{e.Position[0], e.Position[1], e.Position[2]}
		entities = append(entities, c)
	}

	blockTicks := make([]tag.Compound, 0)
	fluidTicks := make([]tag.Compound, 0)
	for _, pos := range sortedPositions(r.PendingTicks) {
		t := r.PendingTicks[pos]
		c := tag.Compound{
			"Priority": t.Priority,
			"SubTick":  t.SubTick,
			"Time":     t.Time,
			"x":        int32(pos[0]),
			"y":        int32(pos[1]),
			"z":        int32(pos[2]),
		}
		if t.Kind == schem.TickFluid {
			c["Fluid"] = t.ID
			fluidTicks = append(fluidTicks, c)
		} else {
			c["Block"] = t.ID
			blockTicks = append(blockTicks, c)
		}
	}

	return tag.Compound{
		"Position":          xyzTag(r.Offset),
		"Size":              xyzTag(shape),
		"BlockStatePalette": palette,
		"BlockStates":       states.export(),
		"TileEntities":      tileEntities,
		"Entities":          entities,
		"PendingBlockTicks": blockTicks,
		"PendingFluidTicks": fluidTicks,
	}
}
