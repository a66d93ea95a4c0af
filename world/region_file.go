package world

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const regionChunks = 1024
const regionSectorSize = 4096

var ErrNoChunk = errors.New("anvil: chunk not found")
var ErrInvalidChunkLength = errors.New("anvil: invalid chunk length")
var ErrInvalidCompression = errors.New("anvil: invalid compression format")

type Compression byte

const (
	CompressionGzip         Compression = 1
	CompressionZlib         Compression = 2
	CompressionUncompressed Compression = 3
)

// RegionFile reads chunks out of one .mca file. It is not safe for concurrent
// use.
type RegionFile struct {
	source    io.ReadSeeker
	locations []int32
	Name      string
}

// NewRegionFile takes ownership of source and reads its location table.
func NewRegionFile(source io.ReadSeeker) (*RegionFile, error) {
	f := &RegionFile{
		source:    source,
		locations: make([]int32, regionChunks),
	}
	if file, ok := source.(*os.File); ok {
		f.Name = file.Name()
	}
	if err := f.readLocations(); err != nil {
		return nil, fmt.Errorf("could not read location table of %s: %w", f.Name, err)
	}
	return f, nil
}

func OpenRegionFile(path string) (*RegionFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := NewRegionFile(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return f, nil
}

func (f *RegionFile) readLocations() error {
	if _, err := f.source.Seek(0, io.SeekStart); err != nil {
		return err
	}
	raw := make([]byte, regionSectorSize)
	if _, err := io.ReadFull(f.source, raw); err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(raw), binary.BigEndian, f.locations)
}

// ReadChunk returns the decompressed NBT stream of the chunk at x, z. The
// coordinates are relative to the region file, in [0, 32). The caller closes
// the stream.
func (f *RegionFile) ReadChunk(x, z int) (io.ReadCloser, error) {
	loc := f.locations[x+z*32]
	start := loc >> 8
	if start == 0 {
		return nil, ErrNoChunk
	}
	if _, err := f.source.Seek(int64(start)*regionSectorSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek: %w", err)
	}

	var header struct {
		Length      int32
		Compression Compression
	}
	if err := binary.Read(f.source, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("could not read payload header: %w", err)
	}
	// the payload must fit in the sectors the location table reserves
	limit := int64(loc&0xFF)*regionSectorSize - 4
	if header.Length <= 1 || int64(header.Length) > limit {
		return nil, fmt.Errorf("%w: %d, at most %d fit", ErrInvalidChunkLength, header.Length, limit)
	}

	payload := make([]byte, header.Length-1)
	if _, err := io.ReadFull(f.source, payload); err != nil {
		return nil, fmt.Errorf("could not read payload data: %w", err)
	}

	r := bytes.NewReader(payload)
	switch header.Compression {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZlib:
		return zlib.NewReader(r)
	case CompressionUncompressed:
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, header.Compression)
	}
}

func (f *RegionFile) ChunkExists(x, z int) bool {
	return f.locations[x+z*32] != 0
}

func (f *RegionFile) Close() error {
	if closer, ok := f.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
