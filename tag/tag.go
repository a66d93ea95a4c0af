// Package tag provides typed, path-annotated access to decoded NBT trees.
//
// Trees are the generic values produced by github.com/Tnze/go-mc/nbt when
// decoding into interface values: compounds are map[string]any, lists are
// []any and the numeric and array kinds use their natural Go types.
package tag

import (
	"errors"
	"fmt"
)

// Kind identifies an NBT tag kind. The numeric values match the on-disk tag ids.
type Kind byte

const (
	KindByte Kind = iota + 1
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

var kindNames = [...]string{
	KindByte:      "TAG_Byte",
	KindShort:     "TAG_Short",
	KindInt:       "TAG_Int",
	KindLong:      "TAG_Long",
	KindFloat:     "TAG_Float",
	KindDouble:    "TAG_Double",
	KindByteArray: "TAG_Byte_Array",
	KindString:    "TAG_String",
	KindList:      "TAG_List",
	KindCompound:  "TAG_Compound",
	KindIntArray:  "TAG_Int_Array",
	KindLongArray: "TAG_Long_Array",
}

func (k Kind) String() string {
	if k >= KindByte && k <= KindLongArray {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Compound is a decoded TAG_Compound.
type Compound = map[string]any

var (
	ErrTagMissing = errors.New("tag: missing")
	ErrTagType    = errors.New("tag: wrong type")
)

// PathError reports a missing or mistyped tag together with its full path.
type PathError struct {
	Path     string
	Expected Kind
	Found    Kind // zero when the tag is missing
	Err      error
}

func (e *PathError) Error() string {
	if errors.Is(e.Err, ErrTagMissing) {
		return fmt.Sprintf("tag %s: missing, expected %s", e.Path, e.Expected)
	}
	return fmt.Sprintf("tag %s: expected %s, found %s", e.Path, e.Expected, e.Found)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// KindOf classifies a decoded value.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case int8, uint8, bool:
		return KindByte, true
	case int16:
		return KindShort, true
	case int32:
		return KindInt, true
	case int64:
		return KindLong, true
	case float32:
		return KindFloat, true
	case float64:
		return KindDouble, true
	case []byte, []int8:
		return KindByteArray, true
	case string:
		return KindString, true
	case []any, []Compound, []float32, []float64, []string:
		return KindList, true
	case Compound:
		return KindCompound, true
	case []int32:
		return KindIntArray, true
	case []int64:
		return KindLongArray, true
	}
	return 0, false
}

// Join appends a key to a tag path.
func Join(path, key string) string {
	return path + "/" + key
}

func lookup(c Compound, key, path string, want Kind) (any, error) {
	v, ok := c[key]
	if !ok {
		return nil, &PathError{Path: Join(path, key), Expected: want, Err: ErrTagMissing}
	}
	return check(v, Join(path, key), want)
}

func check(v any, fullPath string, want Kind) (any, error) {
	if v == nil && want == KindList {
		// empty lists may decode as a nil interface
		return []any{}, nil
	}
	got, _ := KindOf(v)
	if got != want {
		return nil, &PathError{Path: fullPath, Expected: want, Found: got, Err: ErrTagType}
	}
	return v, nil
}

func Byte(c Compound, key, path string) (int8, error) {
	v, err := lookup(c, key, path, KindByte)
	if err != nil {
		return 0, err
	}
	switch b := v.(type) {
	case uint8:
		return int8(b), nil
	case bool:
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return v.(int8), nil
}

func Short(c Compound, key, path string) (int16, error) {
	v, err := lookup(c, key, path, KindShort)
	if err != nil {
		return 0, err
	}
	return v.(int16), nil
}

func Int(c Compound, key, path string) (int32, error) {
	v, err := lookup(c, key, path, KindInt)
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}

func Long(c Compound, key, path string) (int64, error) {
	v, err := lookup(c, key, path, KindLong)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func Float(c Compound, key, path string) (float32, error) {
	v, err := lookup(c, key, path, KindFloat)
	if err != nil {
		return 0, err
	}
	return v.(float32), nil
}

func Double(c Compound, key, path string) (float64, error) {
	v, err := lookup(c, key, path, KindDouble)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func ByteArray(c Compound, key, path string) ([]byte, error) {
	v, err := lookup(c, key, path, KindByteArray)
	if err != nil {
		return nil, err
	}
	if s, ok := v.([]int8); ok {
		out := make([]byte, len(s))
		for i, b := range s {
			out[i] = byte(b)
		}
		return out, nil
	}
	return v.([]byte), nil
}

func String(c Compound, key, path string) (string, error) {
	v, err := lookup(c, key, path, KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func List(c Compound, key, path string) ([]any, error) {
	v, err := lookup(c, key, path, KindList)
	if err != nil {
		return nil, err
	}
	return AsList(v), nil
}

func Child(c Compound, key, path string) (Compound, error) {
	v, err := lookup(c, key, path, KindCompound)
	if err != nil {
		return nil, err
	}
	return v.(Compound), nil
}

func IntArray(c Compound, key, path string) ([]int32, error) {
	v, err := lookup(c, key, path, KindIntArray)
	if err != nil {
		return nil, err
	}
	return v.([]int32), nil
}

func LongArray(c Compound, key, path string) ([]int64, error) {
	v, err := lookup(c, key, path, KindLongArray)
	if err != nil {
		return nil, err
	}
	return v.([]int64), nil
}

// AsList converts any decoded list representation to []any.
func AsList(v any) []any {
	switch l := v.(type) {
	case []Compound:
		return toAny(l)
	case []float32:
		return toAny(l)
	case []float64:
		return toAny(l)
	case []string:
		return toAny(l)
	}
	return v.([]any)
}

func toAny[T any](l []T) []any {
	out := make([]any, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// ListOfCompounds reads a list whose elements must all be compounds. An absent
// key yields an empty list.
func ListOfCompounds(c Compound, key, path string) ([]Compound, error) {
	if _, ok := c[key]; !ok {
		return nil, nil
	}
	l, err := List(c, key, path)
	if err != nil {
		return nil, err
	}
	return Compounds(l, Join(path, key))
}

// Compounds checks that every element of a decoded list is a compound.
func Compounds(l []any, listPath string) ([]Compound, error) {
	out := make([]Compound, len(l))
	for i, e := range l {
		elemPath := fmt.Sprintf("%s[%d]", listPath, i)
		v, err := check(e, elemPath, KindCompound)
		if err != nil {
			return nil, err
		}
		out[i] = v.(Compound)
	}
	return out, nil
}

// Elem checks the kind of a list element and returns it unchanged.
func Elem(l []any, idx int, listPath string, want Kind) (any, error) {
	return check(l[idx], fmt.Sprintf("%s[%d]", listPath, idx), want)
}

// OptionalInt returns def when key is absent.
func OptionalInt(c Compound, key, path string, def int32) (int32, error) {
	if _, ok := c[key]; !ok {
		return def, nil
	}
	return Int(c, key, path)
}

// OptionalLong returns def when key is absent.
func OptionalLong(c Compound, key, path string, def int64) (int64, error) {
	if _, ok := c[key]; !ok {
		return def, nil
	}
	return Long(c, key, path)
}

// OptionalString returns def when key is absent.
func OptionalString(c Compound, key, path string, def string) (string, error) {
	if _, ok := c[key]; !ok {
		return def, nil
	}
	return String(c, key, path)
}

// OptionalCompound returns nil when key is absent.
func OptionalCompound(c Compound, key, path string) (Compound, error) {
	if _, ok := c[key]; !ok {
		return nil, nil
	}
	return Child(c, key, path)
}
