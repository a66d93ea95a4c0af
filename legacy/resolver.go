// Package legacy translates pre-1.13 numeric block ids and damage values into
// block states.
package legacy

import (
	"errors"
	"fmt"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/version"
)

var (
	ErrNotAnOldVersion  = errors.New("legacy: data version does not use numeric block ids")
	ErrReservedBlockID  = errors.New("legacy: reserved block id")
	ErrDamageOutOfRange = errors.New("legacy: damage value is more than 15")
	ErrDamageNotDefined = errors.New("legacy: damage value is not defined for this block")
)

// ResolveError carries the input that failed to resolve.
type ResolveError struct {
	ID      uint8
	Damage  uint8
	Version version.DataVersion
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s (id=%d, damage=%d, version=%s)", e.Err, e.ID, e.Damage, e.Version)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

func isReserved(id uint8) bool {
	return id == 253 || id == 254
}

// CheckDamage validates an id/damage pair against the validity table.
func CheckDamage(id, damage uint8) error {
	if isReserved(id) {
		return ErrReservedBlockID
	}
	if damage >= 16 {
		return ErrDamageOutOfRange
	}
	if validDamage[id]&(1<<damage) == 0 {
		return ErrDamageNotDefined
	}
	return nil
}

// NumValidDamageValues returns how many damage values are defined for id.
func NumValidDamageValues(id uint8) int {
	return len(ValidDamageValues(id))
}

// ValidDamageValues lists the defined damage values of id in ascending order.
func ValidDamageValues(id uint8) []uint8 {
	if isReserved(id) {
		return nil
	}
	out := make([]uint8, 0, 16)
	for d := uint8(0); d < 16; d++ {
		if validDamage[id]&(1<<d) != 0 {
			out = append(out, d)
		}
	}
	return out
}

// BlockName returns the pre-flattening name of id, empty for reserved ids.
func BlockName(id uint8) string {
	return names[id]
}

// Resolve converts a numeric id and damage value into a block state.
func Resolve(id, damage uint8, v version.DataVersion) (block.Block, error) {
	fail := func(err error) (block.Block, error) {
		return block.Block{}, &ResolveError{ID: id, Damage: damage, Version: v, Err: err}
	}
	if !v.IsLegacy() {
		return fail(ErrNotAnOldVersion)
	}
	if err := CheckDamage(id, damage); err != nil {
		return fail(err)
	}

	name := names[id]
	if name == "" {
		return fail(ErrReservedBlockID)
	}
	b := block.New(name)
	if NumValidDamageValues(id) == 1 {
		return b, nil
	}

	derive, ok := rules[id]
	if !ok {
		panic(fmt.Sprintf("legacy: no derivation rule for id %d with %d damage values", id, NumValidDamageValues(id)))
	}
	if err := derive(&b, id, damage); err != nil {
		return fail(err)
	}
	return b, nil
}
