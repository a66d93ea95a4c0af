// Package format reads and writes schematic files. The file suffix selects the
// format; every format is gzip-compressed NBT.
package format

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/schem"
	"github.com/astei/mcschem/tag"
)

var (
	ErrLoadOnly             = errors.New("format: format can only be loaded")
	ErrLength               = errors.New("format: array length does not match the region")
	ErrAddBlocksUnsupported = errors.New("format: block ids above 255 (AddBlocks) are not supported")
)

// UnknownExtensionError is returned for a file suffix no format claims.
type UnknownExtensionError struct {
	Ext string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("format: unknown file extension %q", e.Ext)
}

type Format int

const (
	Litematica Format = iota + 1
	WorldEdit13
	WorldEdit12
	VanillaStructure
)

type codec struct {
	name   string
	ext    string
	decode func(root tag.Compound) (*schem.Schematic, error)
	// encode returns the root tag name and a value the nbt encoder accepts.
	encode func(s *schem.Schematic) (string, any, error)
}

var codecs = map[Format]codec{
	Litematica:       {name: "Litematica", ext: ".litematic", decode: decodeLitematica, encode: encodeLitematica},
	WorldEdit13:      {name: "WorldEdit 1.13+", ext: ".schem", decode: decodeWorldEdit13, encode: encodeWorldEdit13},
	WorldEdit12:      {name: "WorldEdit 1.12", ext: ".schematic", decode: decodeWorldEdit12},
	VanillaStructure: {name: "vanilla structure", ext: ".nbt", decode: decodeVanilla, encode: encodeVanilla},
}

func (f Format) String() string {
	if c, ok := codecs[f]; ok {
		return c.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file suffix including the dot.
func (f Format) Extension() string {
	return codecs[f].ext
}

// CanSave reports whether files of this format can be written.
func (f Format) CanSave() bool {
	return codecs[f].encode != nil
}

// ForPath picks the format from the suffix of path.
func ForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for f, c := range codecs {
		if c.ext == ext {
			return f, nil
		}
	}
	return 0, &UnknownExtensionError{Ext: ext}
}

// Read decodes a gzip-compressed schematic of format f.
func Read(r io.Reader, f Format) (*schem.Schematic, error) {
	c, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("format: unknown format %d", int(f))
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open gzip stream: %w", err)
	}
	defer gz.Close()
	_, root, err := tag.Decode(gz)
	if err != nil {
		return nil, err
	}
	return c.decode(root)
}

// Write encodes s as format f and gzip-compresses it.
func Write(w io.Writer, s *schem.Schematic, f Format) error {
	c, ok := codecs[f]
	if !ok {
		return fmt.Errorf("format: unknown format %d", int(f))
	}
	if c.encode == nil {
		return fmt.Errorf("%w: %s", ErrLoadOnly, c.name)
	}
	if len(s.Regions) == 0 {
		return schem.ErrNoRegions
	}
	name, root, err := c.encode(s)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(w)
	if err := tag.Encode(gz, name, root); err != nil {
		return err
	}
	return gz.Close()
}

// Load reads the schematic at path, choosing the format by suffix.
func Load(path string) (*schem.Schematic, error) {
	f, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	s, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path, choosing the format by suffix.
func Save(s *schem.Schematic, path string) error {
	f, err := ForPath(path)
	if err != nil {
		return err
	}
	if !f.CanSave() {
		return fmt.Errorf("%w: %s", ErrLoadOnly, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, s, f); err != nil {
		file.Close()
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return file.Close()
}

// sortedPositions returns the keys of m in YZX order.
func sortedPositions[V any](m map[[3]int]V) [][3]int {
	out := make([][3]int, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		if a[2] != b[2] {
			return a[2] < b[2]
		}
		return a[0] < b[0]
	})
	return out
}

// withoutKeys clones c and drops keys.
func withoutKeys(c tag.Compound, keys ...string) tag.Compound {
	out := tag.CloneCompound(c)
	if out == nil {
		out = make(tag.Compound)
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func xyzTag(v [3]int) tag.Compound {
	return tag.Compound{"x": int32(v[0]), "y": int32(v[1]), "z": int32(v[2])}
}

// singleRegion returns the only region of s, or s flattened over background.
func singleRegion(s *schem.Schematic, background block.Block) (*schem.Region, error) {
	if len(s.Regions) == 1 {
		return s.Regions[0], nil
	}
	return s.ToSingleRegion(background)
}
