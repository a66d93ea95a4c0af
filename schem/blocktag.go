package schem

import (
	"fmt"
	"strings"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/tag"
)

// ParseBlockTag reads a palette compound of the form
// {Name: "minecraft:oak_log", Properties: {axis: "x"}}.
func ParseBlockTag(c tag.Compound, path string) (block.Block, error) {
	name, err := tag.String(c, "Name", path)
	if err != nil {
		return block.Block{}, err
	}
	if strings.ContainsRune(name, '[') {
		return block.Block{}, fmt.Errorf("%w: %s: %q carries properties in its name",
			block.ErrInvalidBlockString, tag.Join(path, "Name"), name)
	}
	b, err := block.Parse(name)
	if err != nil {
		return block.Block{}, fmt.Errorf("%s: %w", tag.Join(path, "Name"), err)
	}

	props, err := tag.OptionalCompound(c, "Properties", path)
	if err != nil {
		return block.Block{}, err
	}
	propsPath := tag.Join(path, "Properties")
	for key := range props {
		value, err := tag.String(props, key, propsPath)
		if err != nil {
			return block.Block{}, err
		}
		b.SetProperty(key, value)
	}
	return b, nil
}

// BlockTag is the inverse of ParseBlockTag. Properties is omitted for blocks
// without properties.
func BlockTag(b block.Block) tag.Compound {
	c := tag.Compound{"Name": b.FullID()}
	if len(b.Properties) > 0 {
		props := make(tag.Compound, len(b.Properties))
		for k, v := range b.Properties {
			props[k] = v
		}
		c["Properties"] = props
	}
	return c
}
