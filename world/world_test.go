package world

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
	"github.com/astei/mcschem/version"
)

// chunkNBT encodes a chunk at cx, cz with one section at sy whose voxel
// (1, 2, 3) is stone and a chest block entity at that spot.
func chunkNBT(t *testing.T, cx, cz int, sy int8) []byte {
	t.Helper()
	r, err := schem.NewRegionWithShape([3]int{16, 16, 16})
	require.NoError(t, err)
	require.NoError(t, r.SetBlock([3]int{1, 2, 3}, block.New("stone")))
	sect, err := AnvilSection.Encode(r)
	require.NoError(t, err)
	sect["Y"] = sy

	root := tag.Compound{
		"DataVersion": int32(version.Java1_20_1),
		"xPos":        int32(cx),
		"zPos":        int32(cz),
		"yPos":        int32(-4),
		"Status":      "minecraft:full",
		"sections": []tag.Compound{
			sect,
			{"Y": int8(sy + 1)},
		},
		"block_entities": []tag.Compound{{
			"id": "minecraft:chest",
			"x":  int32(cx*16 + 1),
			"y":  int32(int(sy)*16 + 2),
			"z":  int32(cz*16 + 3),
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, tag.Encode(&buf, "", root))
	return buf.Bytes()
}

// regionFileBytes lays out an .mca file with each payload zlib-compressed in
// its own run of sectors.
func regionFileBytes(t *testing.T, payloads map[[2]int][]byte) []byte {
	t.Helper()
	out := make([]byte, 2*regionSectorSize)
	sector := 2
	for pos, payload := range payloads {
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		_, err := zw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		var chunk bytes.Buffer
		require.NoError(t, binary.Write(&chunk, binary.BigEndian, int32(compressed.Len()+1)))
		chunk.WriteByte(byte(CompressionZlib))
		chunk.Write(compressed.Bytes())
		sectors := (chunk.Len() + regionSectorSize - 1) / regionSectorSize
		chunk.Write(make([]byte, sectors*regionSectorSize-chunk.Len()))

		binary.BigEndian.PutUint32(out[4*(pos[0]+pos[1]*32):], uint32(sector<<8|sectors))
		out = append(out, chunk.Bytes()...)
		sector += sectors
	}
	return out
}

func TestLoadChunk(t *testing.T) {
	c, err := LoadChunk(bytes.NewReader(chunkNBT(t, 2, -1, -3)))
	require.NoError(t, err)
	assert.Equal(t, ChunkPos{X: 2, Z: -1}, c.Pos)
	assert.Equal(t, version.Java1_20_1, c.DataVersion)
	assert.Equal(t, []int{-3}, c.SectionYs())

	sect := c.Sections[-3]
	assert.Equal(t, [3]int{32, -48, -16}, sect.Offset)
	assert.Equal(t, "stone", sect.BlockAt([3]int{1, 2, 3}).ID)
	assert.True(t, sect.BlockAt([3]int{0, 0, 0}).IsAir())

	be := sect.BlockEntities[[3]int{1, 2, 3}]
	require.NotNil(t, be)
	assert.Equal(t, "minecraft:chest", be.Tags["id"])
	assert.NotContains(t, be.Tags, "x")
}

func TestLoadChunkRejectsOldVersions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tag.Encode(&buf, "", tag.Compound{"DataVersion": int32(version.Java1_16_5)}))
	_, err := LoadChunk(&buf)
	assert.ErrorIs(t, err, ErrUnsupportedChunkVersion)
}

func TestRegionFile(t *testing.T) {
	data := regionFileBytes(t, map[[2]int][]byte{
		{0, 0}:  chunkNBT(t, 0, 0, 0),
		{5, 31}: chunkNBT(t, 5, 31, 1),
	})
	f, err := NewRegionFile(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, f.ChunkExists(0, 0))
	assert.True(t, f.ChunkExists(5, 31))
	assert.False(t, f.ChunkExists(31, 5))
	_, err = f.ReadChunk(31, 5)
	assert.ErrorIs(t, err, ErrNoChunk)

	r, err := f.ReadChunk(5, 31)
	require.NoError(t, err)
	defer r.Close()
	c, err := LoadChunk(r)
	require.NoError(t, err)
	assert.Equal(t, ChunkPos{X: 5, Z: 31}, c.Pos)
}

func TestRegionFileBadCompression(t *testing.T) {
	data := regionFileBytes(t, map[[2]int][]byte{{0, 0}: chunkNBT(t, 0, 0, 0)})
	data[2*regionSectorSize+4] = 9
	f, err := NewRegionFile(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = f.ReadChunk(0, 0)
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestRegionFileChunkLongerThanItsSectors(t *testing.T) {
	data := regionFileBytes(t, map[[2]int][]byte{{0, 0}: chunkNBT(t, 0, 0, 0)})
	binary.BigEndian.PutUint32(data[2*regionSectorSize:], 1<<28)
	f, err := NewRegionFile(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = f.ReadChunk(0, 0)
	assert.ErrorIs(t, err, ErrInvalidChunkLength)

	// exactly filling the reserved sectors is fine
	sectors := int(binary.BigEndian.Uint32(data[0:]) & 0xFF)
	binary.BigEndian.PutUint32(data[2*regionSectorSize:], uint32(sectors*regionSectorSize-4))
	f, err = NewRegionFile(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = f.ReadChunk(0, 0)
	assert.NotErrorIs(t, err, ErrInvalidChunkLength)
}

func TestRegionFileTruncatedHeader(t *testing.T) {
	_, err := NewRegionFile(bytes.NewReader(make([]byte, 100)))
	assert.Error(t, err)
}

func TestOpenWorldAndExtract(t *testing.T) {
	dir := t.TempDir()
	regionDir := filepath.Join(dir, "region")
	require.NoError(t, os.Mkdir(regionDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "r.0.0.mca"),
		regionFileBytes(t, map[[2]int][]byte{{0, 0}: chunkNBT(t, 0, 0, 0)}), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "r.1.0.mca"),
		regionFileBytes(t, map[[2]int][]byte{{0, 0}: chunkNBT(t, 32, 0, 0)}), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "notes.txt"), []byte("x"), 0o644))

	w, err := OpenWorld(dir, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []ChunkPos{{0, 0}, {32, 0}}, w.Positions())

	s, err := w.Extract([3]int{3, 5, 6}, [3]int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, version.Java1_20_1, s.DataVersion)
	require.Len(t, s.Regions, 1)
	r := s.Regions[0]
	assert.Equal(t, [3]int{4, 6, 7}, r.Shape())
	assert.Equal(t, "stone", r.BlockAt([3]int{1, 2, 3}).ID)
	assert.Equal(t, 1, r.TotalBlocks(false))
	assert.NotNil(t, r.BlockEntities[[3]int{1, 2, 3}])
	assert.Len(t, r.Palette, 2)
}

func TestExtractOutsideLoadedChunks(t *testing.T) {
	w := NewWorld("empty")
	s, err := w.Extract([3]int{100, 0, 100}, [3]int{101, 1, 101})
	require.NoError(t, err)
	assert.Equal(t, version.Latest, s.DataVersion)
	assert.Equal(t, 0, s.Regions[0].TotalBlocks(false))
	assert.Equal(t, 8, s.Regions[0].TotalBlocks(true))
}

func TestOpenWorldReportsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r.0.0.mca"), []byte("short"), 0o644))
	_, err := OpenWorld(dir, 0)
	assert.Error(t, err)
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 16))
	assert.Equal(t, -1, floorDiv(-16, 16))
	assert.Equal(t, -2, floorDiv(-17, 16))
	assert.Equal(t, 0, floorDiv(15, 16))
}
