package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/version"
)

// World holds every chunk of a save that has block data.
type World struct {
	Name   string
	chunks map[ChunkPos]*Chunk
}

// OpenWorld reads every region file below dir, which may be a save directory
// or its region directory. At most workers region files are read at once; a
// value below 1 reads them all concurrently.
func OpenWorld(dir string, workers int) (*World, error) {
	regionDir := dir
	if info, err := os.Stat(filepath.Join(dir, "region")); err == nil && info.IsDir() {
		regionDir = filepath.Join(dir, "region")
	}
	entries, err := os.ReadDir(regionDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mca") {
			paths = append(paths, filepath.Join(regionDir, e.Name()))
		}
	}
	if workers < 1 {
		workers = len(paths)
	}

	type result struct {
		chunks []*Chunk
		err    error
	}
	var wg sync.WaitGroup
	wg.Add(len(paths))
	results := make(chan result, len(paths))
	slots := make(chan struct{}, workers)
	for _, path := range paths {
		go func(path string) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()
			chunks, err := readRegionFile(path)
			results <- result{chunks: chunks, err: err}
		}(path)
	}
	wg.Wait()
	close(results)

	w := &World{Name: filepath.Base(filepath.Clean(dir)), chunks: make(map[ChunkPos]*Chunk)}
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		for _, c := range res.chunks {
			w.chunks[c.Pos] = c
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return w, nil
}

func readRegionFile(path string) ([]*Chunk, error) {
	f, err := OpenRegionFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []*Chunk
	for x := 0; x < 32; x++ {
		for z := 0; z < 32; z++ {
			if !f.ChunkExists(x, z) {
				continue
			}
			c, err := readChunk(f, x, z)
			if err != nil {
				return nil, fmt.Errorf("chunk %d,%d in %s: %w", x, z, path, err)
			}
			if len(c.Sections) > 0 {
				chunks = append(chunks, c)
			}
		}
	}
	return chunks, nil
}

func readChunk(f *RegionFile, x, z int) (*Chunk, error) {
	r, err := f.ReadChunk(x, z)
	if err != nil {
		return nil, fmt.Errorf("could not read chunk: %w", err)
	}
	defer r.Close()
	return LoadChunk(r)
}

// NewWorld builds a world from already decoded chunks.
func NewWorld(name string, chunks ...*Chunk) *World {
	w := &World{Name: name, chunks: make(map[ChunkPos]*Chunk, len(chunks))}
	for _, c := range chunks {
		w.chunks[c.Pos] = c
	}
	return w
}

func (w *World) Len() int {
	return len(w.chunks)
}

func (w *World) Chunk(pos ChunkPos) (*Chunk, bool) {
	c, ok := w.chunks[pos]
	return c, ok
}

// Positions returns the loaded chunk positions sorted by X, then Z.
func (w *World) Positions() []ChunkPos {
	out := make([]ChunkPos, 0, len(w.chunks))
	for p := range w.chunks {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Z < out[j].Z
	})
	return out
}

// Extract copies the inclusive box between two corners into a one-region
// schematic. Voxels in chunks that were not loaded are air.
func (w *World) Extract(from, to [3]int) (*schem.Schematic, error) {
	var lo, shape [3]int
	for dim := 0; dim < 3; dim++ {
		a, b := from[dim], to[dim]
		if a > b {
			a, b = b, a
		}
		lo[dim] = a
		shape[dim] = b - a + 1
	}
	out, err := schem.NewRegionWithShape(shape)
	if err != nil {
		return nil, err
	}
	out.Name = w.Name

	s := schem.New()
	s.DataVersion = 0
	s.Metadata.Name = w.Name
	s.Regions = []*schem.Region{out}

	for _, pos := range w.Positions() {
		c := w.chunks[pos]
		for _, sy := range c.SectionYs() {
			copied, err := copySection(out, c.Sections[sy], lo)
			if err != nil {
				return nil, err
			}
			if copied && c.DataVersion > s.DataVersion {
				s.DataVersion = c.DataVersion
			}
		}
	}
	if s.DataVersion == 0 {
		s.DataVersion = version.Latest
	}
	out.ShrinkPalette()
	return s, nil
}

// copySection copies the part of sect that overlaps out, which starts at lo in
// world coordinates.
func copySection(out, sect *schem.Region, lo [3]int) (bool, error) {
	var start, end [3]int
	for dim := 0; dim < 3; dim++ {
		start[dim] = max(sect.Offset[dim], lo[dim])
		end[dim] = min(sect.Offset[dim]+sectionSide, lo[dim]+out.Shape()[dim])
		if start[dim] >= end[dim] {
			return false, nil
		}
	}

	lut := make([]uint16, len(sect.Palette))
	for i, b := range sect.Palette {
		idx, err := out.FindOrAppendToPalette(b)
		if err != nil {
			return false, err
		}
		lut[i] = idx
	}

	for y := start[1]; y < end[1]; y++ {
		for z := start[2]; z < end[2]; z++ {
			for x := start[0]; x < end[0]; x++ {
				src := sect.GlobalPosToRelativePos([3]int{x, y, z})
				dst := [3]int{x - lo[0], y - lo[1], z - lo[2]}
				info, _ := sect.BlockInfoAt(src)
				if err := out.SetBlockID(dst, lut[info.Index]); err != nil {
					return false, err
				}
				if info.Entity != nil {
					if err := out.SetBlockEntity(dst, info.Entity.Clone()); err != nil {
						return false, err
					}
				}
				if sect.HasLight() {
					if err := out.SetLight(dst, sect.LightAt(src)); err != nil {
						return false, err
					}
				}
			}
		}
	}
	return true, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
