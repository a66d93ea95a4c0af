package tag

import (
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
)

// Decode reads one named root compound.
func Decode(r io.Reader) (name string, root Compound, err error) {
	root = make(Compound)
	if name, err = nbt.NewDecoder(r).Decode(&root); err != nil {
		return "", nil, fmt.Errorf("could not decode nbt: %w", err)
	}
	return name, root, nil
}

// Encode writes v as a named root tag. v is usually a Compound but may be any
// value the nbt encoder accepts, such as a tagged struct.
func Encode(w io.Writer, name string, v any) error {
	if err := nbt.NewEncoder(w).Encode(v, name); err != nil {
		return fmt.Errorf("could not encode nbt: %w", err)
	}
	return nil
}

// Clone deep-copies a decoded tree so the copy shares no slices or maps with
// the source.
func Clone(v any) any {
	switch t := v.(type) {
	case Compound:
		return CloneCompound(t)
	case []Compound:
		out := make([]Compound, len(t))
		for i, c := range t {
			out[i] = CloneCompound(c)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case []byte:
		return append([]byte(nil), t...)
	case []int8:
		return append([]int8(nil), t...)
	case []int32:
		return append([]int32(nil), t...)
	case []int64:
		return append([]int64(nil), t...)
	case []float32:
		return append([]float32(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

// CloneCompound deep-copies a compound. A nil compound stays nil.
func CloneCompound(c Compound) Compound {
	if c == nil {
		return nil
	}
	out := make(Compound, len(c))
	for k, v := range c {
		out[k] = Clone(v)
	}
	return out
}

// XYZ reads three int components stored as x, y and z keys of a compound.
func XYZ(c Compound, key, path string) ([3]int, error) {
	var out [3]int
	sub, err := Child(c, key, path)
	if err != nil {
		return out, err
	}
	subPath := Join(path, key)
	for i, axis := range [3]string{"x", "y", "z"} {
		v, err := Int(sub, axis, subPath)
		if err != nil {
			return out, err
		}
		out[i] = int(v)
	}
	return out, nil
}

// IntTriple reads a list of three TAG_Int or an int array of length 3.
func IntTriple(c Compound, key, path string) ([3]int, error) {
	var out [3]int
	if arr, ok := c[key].([]int32); ok {
		if len(arr) != 3 {
			return out, fmt.Errorf("tag %s: expected 3 elements, found %d", Join(path, key), len(arr))
		}
		for i := range out {
			out[i] = int(arr[i])
		}
		return out, nil
	}
	l, err := List(c, key, path)
	if err != nil {
		return out, err
	}
	if len(l) != 3 {
		return out, fmt.Errorf("tag %s: expected 3 elements, found %d", Join(path, key), len(l))
	}
	for i := range out {
		v, err := Elem(l, i, Join(path, key), KindInt)
		if err != nil {
			return out, err
		}
		out[i] = int(v.(int32))
	}
	return out, nil
}

// DoubleTriple reads a list of three TAG_Double.
func DoubleTriple(c Compound, key, path string) ([3]float64, error) {
	var out [3]float64
	l, err := List(c, key, path)
	if err != nil {
		return out, err
	}
	if len(l) != 3 {
		return out, fmt.Errorf("tag %s: expected 3 elements, found %d", Join(path, key), len(l))
	}
	for i := range out {
		v, err := Elem(l, i, Join(path, key), KindDouble)
		if err != nil {
			return out, err
		}
		out[i] = v.(float64)
	}
	return out, nil
}
