package world

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/Tnze/go-mc/nbt"

	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
	"github.com/astei/mcschem/version"
)

var ErrUnsupportedChunkVersion = errors.New("world: chunks older than 1.18 are not supported")

// chunkData is the part of a 1.18+ chunk that schematics care about.
type chunkData struct {
	DataVersion   int32          `nbt:"DataVersion"`
	X             int32          `nbt:"xPos"`
	Z             int32          `nbt:"zPos"`
	Status        string         `nbt:"Status"`
	Sections      []tag.Compound `nbt:"sections"`
	BlockEntities []tag.Compound `nbt:"block_entities"`
}

type ChunkPos struct {
	X int
	Z int
}

// Chunk is a decoded chunk. Each section is a 16x16x16 region whose Offset is
// its minimum corner in world coordinates.
type Chunk struct {
	Pos         ChunkPos
	DataVersion version.DataVersion
	Status      string
	Sections    map[int]*schem.Region
}

// LoadChunk decodes one chunk from its NBT stream. Sections without block
// states are skipped.
func LoadChunk(r io.Reader) (*Chunk, error) {
	var data chunkData
	if _, err := nbt.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not deserialize chunk: %w", err)
	}
	if version.DataVersion(data.DataVersion) < version.Java1_18 {
		return nil, fmt.Errorf("%w: data version %d", ErrUnsupportedChunkVersion, data.DataVersion)
	}

	c := &Chunk{
		Pos:         ChunkPos{X: int(data.X), Z: int(data.Z)},
		DataVersion: version.DataVersion(data.DataVersion),
		Status:      data.Status,
		Sections:    make(map[int]*schem.Region),
	}
	for i, sect := range data.Sections {
		path := fmt.Sprintf("chunk[%d,%d]/sections[%d]", c.Pos.X, c.Pos.Z, i)
		if _, ok := sect["block_states"]; !ok {
			continue
		}
		sy, err := tag.Byte(sect, "Y", path)
		if err != nil {
			return nil, err
		}
		region, err := AnvilSection.Decode(sect, path)
		if err != nil {
			return nil, err
		}
		region.Name = fmt.Sprintf("section %d,%d,%d", c.Pos.X, sy, c.Pos.Z)
		region.Offset = [3]int{c.Pos.X * sectionSide, int(sy) * sectionSide, c.Pos.Z * sectionSide}
		c.Sections[int(sy)] = region
	}

	for i, be := range data.BlockEntities {
		path := fmt.Sprintf("chunk[%d,%d]/block_entities[%d]", c.Pos.X, c.Pos.Z, i)
		if err := c.addBlockEntity(be, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SectionYs returns the section indices of c in ascending order.
func (c *Chunk) SectionYs() []int {
	ys := make([]int, 0, len(c.Sections))
	for y := range c.Sections {
		ys = append(ys, y)
	}
	sort.Ints(ys)
	return ys
}

func (c *Chunk) addBlockEntity(be tag.Compound, path string) error {
	var pos [3]int
	for i, axis := range [3]string{"x", "y", "z"} {
		v, err := tag.Int(be, axis, path)
		if err != nil {
			return err
		}
		pos[i] = int(v)
	}
	sy := floorDiv(pos[1], sectionSide)
	region, ok := c.Sections[sy]
	if !ok {
		return nil
	}
	rel := region.GlobalPosToRelativePos(pos)
	tags := tag.CloneCompound(be)
	delete(tags, "x")
	delete(tags, "y")
	delete(tags, "z")
	if err := region.SetBlockEntity(rel, &schem.BlockEntity{Tags: tags}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
