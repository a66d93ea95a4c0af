// Package block defines the block state value shared by every schematic format.
package block

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultNamespace is assumed when a block string carries no namespace.
const DefaultNamespace = "minecraft"

var ErrInvalidBlockString = errors.New("block: invalid block string")

// Block is one block state: a namespaced id and a set of string properties.
// Property order does not matter for equality; String sorts keys so that the
// textual form is canonical.
type Block struct {
	Namespace  string
	ID         string
	Properties map[string]string
}

// New creates a block in the minecraft namespace without properties.
func New(id string) Block {
	return Block{Namespace: DefaultNamespace, ID: id}
}

func NewNamespaced(namespace, id string) Block {
	return Block{Namespace: namespace, ID: id}
}

// Air is minecraft:air.
func Air() Block {
	return New("air")
}

// StructureVoid is minecraft:structure_void.
func StructureVoid() Block {
	return New("structure_void")
}

// SetProperty sets or overwrites a property. Setting the same value twice is a no-op.
func (b *Block) SetProperty(key, value string) {
	if b.Properties == nil {
		b.Properties = make(map[string]string)
	}
	b.Properties[key] = value
}

// Property returns the value of a property.
func (b Block) Property(key string) (string, bool) {
	v, ok := b.Properties[key]
	return v, ok
}

// Clone returns a copy that shares no property storage with b.
func (b Block) Clone() Block {
	out := Block{Namespace: b.Namespace, ID: b.ID}
	if len(b.Properties) > 0 {
		out.Properties = make(map[string]string, len(b.Properties))
		for k, v := range b.Properties {
			out.Properties[k] = v
		}
	}
	return out
}

// Equal reports whether both blocks have the same id and property set.
func (b Block) Equal(o Block) bool {
	if b.namespace() != o.namespace() || b.ID != o.ID || len(b.Properties) != len(o.Properties) {
		return false
	}
	for k, v := range b.Properties {
		if ov, ok := o.Properties[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (b Block) Hash() uint64 {
	return xxhash.Sum64String(b.String())
}

func (b Block) namespace() string {
	if b.Namespace == "" {
		return DefaultNamespace
	}
	return b.Namespace
}

// FullID returns namespace:id.
func (b Block) FullID() string {
	return b.namespace() + ":" + b.ID
}

// String renders the block as namespace:id[key=value,...] with sorted keys.
func (b Block) String() string {
	var sb strings.Builder
	sb.WriteString(b.FullID())
	if len(b.Properties) == 0 {
		return sb.String()
	}
	sb.WriteByte('[')
	for i, k := range b.PropertyKeys() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(b.Properties[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

// PropertyKeys returns the property names in sorted order.
func (b Block) PropertyKeys() []string {
	keys := make([]string, 0, len(b.Properties))
	for k := range b.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b Block) IsAir() bool {
	if b.namespace() != DefaultNamespace {
		return false
	}
	switch b.ID {
	case "air", "cave_air", "void_air":
		return true
	}
	return false
}

func (b Block) IsStructureVoid() bool {
	return b.namespace() == DefaultNamespace && b.ID == "structure_void"
}

// Parse reads a block string such as "minecraft:oak_log[axis=x]" or "stone".
func Parse(s string) (Block, error) {
	idPart, propPart := s, ""
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return Block{}, fmt.Errorf("%w: %q: missing closing bracket", ErrInvalidBlockString, s)
		}
		idPart, propPart = s[:i], s[i+1:len(s)-1]
	}

	namespace, id := DefaultNamespace, idPart
	if i := strings.IndexByte(idPart, ':'); i >= 0 {
		namespace, id = idPart[:i], idPart[i+1:]
	}
	if !validIdentifier(namespace, false) {
		return Block{}, fmt.Errorf("%w: %q: bad namespace %q", ErrInvalidBlockString, s, namespace)
	}
	if !validIdentifier(id, true) {
		return Block{}, fmt.Errorf("%w: %q: bad id %q", ErrInvalidBlockString, s, id)
	}

	b := NewNamespaced(namespace, id)
	if propPart == "" {
		return b, nil
	}
	for _, pair := range strings.Split(propPart, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" || v == "" {
			return Block{}, fmt.Errorf("%w: %q: bad property %q", ErrInvalidBlockString, s, pair)
		}
		if _, dup := b.Properties[k]; dup {
			return Block{}, fmt.Errorf("%w: %q: duplicate property %q", ErrInvalidBlockString, s, k)
		}
		b.SetProperty(k, v)
	}
	return b, nil
}

// validIdentifier accepts the resource location alphabet; '/' only in paths.
func validIdentifier(s string, path bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		case r == '/' && path:
		default:
			return false
		}
	}
	return true
}
