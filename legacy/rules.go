package legacy

import (
	"strconv"

	"github.com/astei/mcschem/block"
)

// rule sets the properties encoded in damage on b. b arrives with the base
// name of id and no properties.
type rule func(b *block.Block, id, damage uint8) error

// rules is the closed dispatch table for every id with more than one defined
// damage value.
var rules = buildRules()

func buildRules() map[uint8]rule {
	m := make(map[uint8]rule)
	add := func(r rule, ids ...uint8) {
		for _, id := range ids {
			if _, dup := m[id]; dup {
				panic("legacy: duplicate rule for id " + strconv.Itoa(int(id)))
			}
			m[id] = r
		}
	}

	add(stone, 1)
	add(dirt, 3)
	add(planks, 5)
	add(sapling, 6)
	add(flowing, 8, 10)
	add(still, 9, 11)
	add(sand, 12)
	add(logs, 17, 162)
	add(leaves, 18, 161)
	add(color, 35, 95, 159, 160, 171, 251, 252)
	add(torch, 50, 75, 76)
	// 181 has a single damage value and resolves to its bare name.
	add(stoneSlab, 43, 44, 182)
	add(woodenSlab, 125, 126)
	add(purpurSlab, 204, 205)

	add(flag("wet", 1), 19)
	add(dispenser, 23, 158)
	add(sandstone, 24, 179)
	add(bed, 26)
	add(poweredRail, 27, 28, 157)
	add(rail, 66)
	add(piston, 29, 33)
	add(pistonPart, 34, 36)
	add(lookup("type", tallGrass[:]), 31)
	add(fixed("type", "dandelion"), 37)
	add(lookup("type", redFlowers[:]), 38)
	add(intValue("age", 15), 51, 59, 81, 83, 104, 105, 115, 141, 142, 200, 207)
	add(stairs, 53, 67, 108, 109, 114, 128, 134, 135, 136, 156, 163, 164, 180, 203)
	add(wallFacing, 54, 61, 62, 65, 68, 130, 146, 177)
	add(intValue("power", 15), 55, 147, 148, 151, 178)
	add(intValue("moisture", 7), 60)
	add(intValue("rotation", 15), 63, 176)
	add(door, 64, 71, 193, 194, 195, 196, 197)
	add(lever, 69)
	add(flag("powered", 1), 70, 72)
	add(button, 77, 143)
	add(snowLayer, 78)
	add(noProperties, 80, 172)
	add(flag("has_record", 1), 84)
	add(horizontal, 86, 91, 235, 236, 237, 238, 239, 240, 241, 242, 243, 244, 245, 246, 247, 248, 249, 250)
	add(portal, 90)
	add(intValue("bites", 15), 92)
	add(repeater, 93, 94)
	add(trapdoor, 96, 167)
	add(lookup("variant", monsterEggVariants[:]), 97)
	add(lookup("variant", stoneBrickVariants[:]), 98)
	add(lookup("variant", mushroomVariants[:]), 99, 100)
	add(vine, 106)
	add(fenceGate, 107, 183, 184, 185, 186, 187)
	add(brewingStand, 117)
	add(intValue("level", 3), 118)
	add(endPortalFrame, 120)
	add(cocoa, 127)
	add(tripwireHook, 131)
	add(tripwire, 132)
	add(commandBlock, 137, 210, 211)
	add(lookup("variant", []string{"cobblestone", "mossy_cobblestone"}), 139)
	add(intValue("legacy_data", 15), 140)
	add(skull, 144)
	add(anvil, 145)
	add(comparator, 149, 150)
	add(hopper, 154)
	add(lookup("variant", quartzVariants[:]), 155)
	add(lookup("variant", prismarineVariants[:]), 168)
	add(doublePlant, 175)
	add(facing6("facing"), 198)
	add(observer, 218)
	add(lookup("mode", structureModes[:]), 255)
	return m
}

func boolString(v bool) string {
	return strconv.FormatBool(v)
}

// woodSpecies returns the species at idx, or "" when idx is outside the table.
func woodSpecies(idx uint8) string {
	if int(idx) < len(woodVariants) {
		return woodVariants[idx]
	}
	return ""
}

func stone(b *block.Block, _, damage uint8) error {
	if int(damage) >= len(stoneVariants) {
		return ErrDamageNotDefined
	}
	b.SetProperty("variant", stoneVariants[damage])
	return nil
}

func dirt(b *block.Block, _, damage uint8) error {
	b.SetProperty("snowy", "false")
	if int(damage) >= len(dirtVariants) {
		return ErrDamageNotDefined
	}
	b.SetProperty("variant", dirtVariants[damage])
	return nil
}

func planks(b *block.Block, _, damage uint8) error {
	variant := woodSpecies(damage)
	if variant == "" {
		return ErrDamageNotDefined
	}
	b.SetProperty("variant", variant)
	return nil
}

func sapling(b *block.Block, _, damage uint8) error {
	variant := woodSpecies(damage & 0b111)
	if variant == "" {
		return ErrDamageNotDefined
	}
	b.SetProperty("variant", variant)
	return nil
}

// flowing rewrites flowing_water/flowing_lava to the still block with an
// explicit level.
func flowing(b *block.Block, id, damage uint8) error {
	if id == 8 {
		b.ID = "water"
	} else {
		b.ID = "lava"
	}
	b.SetProperty("level", strconv.Itoa(int(damage)))
	return nil
}

func still(b *block.Block, _, _ uint8) error {
	b.SetProperty("level", "0")
	return nil
}

func sand(b *block.Block, _, damage uint8) error {
	switch damage {
	case 0:
		b.SetProperty("variant", "sand")
	case 1:
		b.SetProperty("variant", "red_sand")
	default:
		return ErrDamageNotDefined
	}
	return nil
}

func logs(b *block.Block, id, damage uint8) error {
	species := damage & 0b11
	if id == 162 {
		species = (damage & 0b11) + 4
	}
	variant := woodSpecies(species)
	if variant == "" {
		return ErrDamageNotDefined
	}

	axis := (damage & 0b1100) >> 2
	if axis == 3 {
		// bark on all six sides
		b.ID = variant + "_wood"
		b.SetProperty("axis", "y")
		return nil
	}
	b.SetProperty("variant", variant)
	b.SetProperty("axis", axes[axis])
	return nil
}

func leaves(b *block.Block, id, damage uint8) error {
	species := damage & 0b11
	if id == 161 {
		species = (damage & 0b11) + 4
	}
	variant := woodSpecies(species)
	if variant == "" {
		return ErrDamageNotDefined
	}

	var decayable bool
	if id == 18 {
		decayable = (damage >= 4 && damage <= 7) || (damage >= 12 && damage <= 15)
	} else {
		decayable = (damage >= 4 && damage <= 5) || (damage >= 12 && damage <= 13)
	}
	b.SetProperty("variant", variant)
	b.SetProperty("check_decay", boolString(damage >= 8))
	b.SetProperty("decayable", boolString(decayable))
	return nil
}

func color(b *block.Block, _, damage uint8) error {
	b.SetProperty("color", colors[damage])
	return nil
}

func torch(b *block.Block, _, damage uint8) error {
	if damage == 5 {
		// standing torch
		return nil
	}
	if int(damage) >= len(torchFacings) || torchFacings[damage] == "" {
		return ErrDamageNotDefined
	}
	b.SetProperty("facing", torchFacings[damage])
	return nil
}

// slab sets variant and, for single slabs, half.
func slab(b *block.Block, variant string, double bool, damage uint8) {
	b.SetProperty("variant", variant)
	if double {
		return
	}
	if damage >= 8 {
		b.SetProperty("half", "top")
	} else {
		b.SetProperty("half", "bottom")
	}
}

func stoneSlab(b *block.Block, id, damage uint8) error {
	variant := "red_sandstone"
	if id == 43 || id == 44 {
		variant = stoneSlabVariants[damage&0b111]
	}
	slab(b, variant, id == 43, damage)
	return nil
}

func woodenSlab(b *block.Block, id, damage uint8) error {
	variant := woodSpecies(damage & 0b111)
	if variant == "" {
		return ErrDamageNotDefined
	}
	slab(b, variant, id == 125, damage)
	return nil
}

func purpurSlab(b *block.Block, id, damage uint8) error {
	slab(b, "default", id == 204, damage)
	return nil
}

func noProperties(*block.Block, uint8, uint8) error {
	return nil
}

// flag sets key to whether damage equals on.
func flag(key string, on uint8) rule {
	return func(b *block.Block, _, damage uint8) error {
		b.SetProperty(key, boolString(damage == on))
		return nil
	}
}

func fixed(key, value string) rule {
	return func(b *block.Block, _, _ uint8) error {
		b.SetProperty(key, value)
		return nil
	}
}

// lookup indexes values by damage, falling back to the first entry like the
// game does for out-of-range metadata.
func lookup(key string, values []string) rule {
	return func(b *block.Block, _, damage uint8) error {
		v := values[0]
		if int(damage) < len(values) {
			v = values[damage]
		}
		b.SetProperty(key, v)
		return nil
	}
}

func intValue(key string, mask uint8) rule {
	return func(b *block.Block, _, damage uint8) error {
		b.SetProperty(key, strconv.Itoa(int(damage&mask)))
		return nil
	}
}

func front(damage uint8) string {
	return frontFacings[(damage&0b111)%6]
}

func facing6(key string) rule {
	return func(b *block.Block, _, damage uint8) error {
		b.SetProperty(key, front(damage))
		return nil
	}
}

func horizontal(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	return nil
}

func dispenser(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", front(damage))
	b.SetProperty("triggered", boolString(damage&0b1000 != 0))
	return nil
}

func sandstone(b *block.Block, id, damage uint8) error {
	prefix := ""
	if id == 179 {
		prefix = "red_"
	}
	switch damage {
	case 0:
		b.SetProperty("type", prefix+"sandstone")
	case 1:
		b.SetProperty("type", "chiseled_"+prefix+"sandstone")
	case 2:
		b.SetProperty("type", "smooth_"+prefix+"sandstone")
	default:
		return ErrDamageNotDefined
	}
	return nil
}

func bed(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("occupied", boolString(damage&0b100 != 0))
	if damage&0b1000 != 0 {
		b.SetProperty("part", "head")
	} else {
		b.SetProperty("part", "foot")
	}
	return nil
}

func poweredRail(b *block.Block, _, damage uint8) error {
	shape := damage & 0b111
	if shape > 5 {
		shape = 0
	}
	b.SetProperty("shape", railShapes[shape])
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}

func rail(b *block.Block, _, damage uint8) error {
	if int(damage) >= len(railShapes) {
		return ErrDamageNotDefined
	}
	b.SetProperty("shape", railShapes[damage])
	return nil
}

func piston(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", front(damage))
	b.SetProperty("extended", boolString(damage&0b1000 != 0))
	return nil
}

func pistonPart(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", front(damage))
	if damage&0b1000 != 0 {
		b.SetProperty("type", "sticky")
	} else {
		b.SetProperty("type", "normal")
	}
	return nil
}

func stairs(b *block.Block, _, damage uint8) error {
	// 0 east, 1 west, 2 south, 3 north
	b.SetProperty("facing", frontFacings[5-(damage&0b11)])
	if damage&0b100 != 0 {
		b.SetProperty("half", "top")
	} else {
		b.SetProperty("half", "bottom")
	}
	return nil
}

// wallFacing covers blocks that only face horizontally but encode the
// direction with the six-way numbering (2..5).
func wallFacing(b *block.Block, _, damage uint8) error {
	f := front(damage)
	if f == "up" || f == "down" {
		f = "north"
	}
	b.SetProperty("facing", f)
	return nil
}

// doorLowerFacings is the horizontal direction rotated counter-clockwise.
var doorLowerFacings = [...]string{"east", "south", "west", "north"}

func door(b *block.Block, _, damage uint8) error {
	if damage&0b1000 != 0 {
		b.SetProperty("half", "upper")
		if damage&0b1 != 0 {
			b.SetProperty("hinge", "right")
		} else {
			b.SetProperty("hinge", "left")
		}
		b.SetProperty("powered", boolString(damage&0b10 != 0))
		return nil
	}
	b.SetProperty("half", "lower")
	b.SetProperty("facing", doorLowerFacings[damage&0b11])
	b.SetProperty("open", boolString(damage&0b100 != 0))
	return nil
}

func lever(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", leverFacings[damage&0b111])
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}

func button(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", buttonFacings[damage&0b111])
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}

func snowLayer(b *block.Block, _, damage uint8) error {
	b.SetProperty("layers", strconv.Itoa(int(damage&0b111)+1))
	return nil
}

func portal(b *block.Block, _, damage uint8) error {
	if damage&0b11 == 2 {
		b.SetProperty("axis", "z")
	} else {
		b.SetProperty("axis", "x")
	}
	return nil
}

func repeater(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("delay", strconv.Itoa(int(damage>>2)+1))
	return nil
}

func comparator(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	if damage&0b100 != 0 {
		b.SetProperty("mode", "subtract")
	} else {
		b.SetProperty("mode", "compare")
	}
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}

func trapdoor(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", trapdoorFacings[damage&0b11])
	b.SetProperty("open", boolString(damage&0b100 != 0))
	if damage&0b1000 != 0 {
		b.SetProperty("half", "top")
	} else {
		b.SetProperty("half", "bottom")
	}
	return nil
}

func vine(b *block.Block, _, damage uint8) error {
	b.SetProperty("south", boolString(damage&0b1 != 0))
	b.SetProperty("west", boolString(damage&0b10 != 0))
	b.SetProperty("north", boolString(damage&0b100 != 0))
	b.SetProperty("east", boolString(damage&0b1000 != 0))
	return nil
}

func fenceGate(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("open", boolString(damage&0b100 != 0))
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}

func brewingStand(b *block.Block, _, damage uint8) error {
	b.SetProperty("has_bottle_0", boolString(damage&0b1 != 0))
	b.SetProperty("has_bottle_1", boolString(damage&0b10 != 0))
	b.SetProperty("has_bottle_2", boolString(damage&0b100 != 0))
	return nil
}

func endPortalFrame(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("eye", boolString(damage&0b100 != 0))
	return nil
}

func cocoa(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("age", strconv.Itoa(int(damage>>2)))
	return nil
}

func tripwireHook(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("attached", boolString(damage&0b100 != 0))
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}

func tripwire(b *block.Block, _, damage uint8) error {
	b.SetProperty("powered", boolString(damage&0b1 != 0))
	b.SetProperty("attached", boolString(damage&0b100 != 0))
	b.SetProperty("disarmed", boolString(damage&0b1000 != 0))
	return nil
}

func commandBlock(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", front(damage))
	b.SetProperty("conditional", boolString(damage&0b1000 != 0))
	return nil
}

func skull(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", front(damage))
	b.SetProperty("nodrop", boolString(damage&0b1000 != 0))
	return nil
}

func anvil(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", horizontalFacings[damage&0b11])
	b.SetProperty("damage", strconv.Itoa(int(damage>>2)))
	return nil
}

func hopper(b *block.Block, _, damage uint8) error {
	f := front(damage)
	if f == "up" {
		f = "down"
	}
	b.SetProperty("facing", f)
	b.SetProperty("enabled", boolString(damage&0b1000 == 0))
	return nil
}

func doublePlant(b *block.Block, _, damage uint8) error {
	if damage&0b1000 != 0 {
		// the upper half takes its variant from the block below
		b.SetProperty("half", "upper")
		return nil
	}
	idx := damage & 0b111
	if int(idx) >= len(doublePlantVariants) {
		return ErrDamageNotDefined
	}
	b.SetProperty("half", "lower")
	b.SetProperty("variant", doublePlantVariants[idx])
	return nil
}

func observer(b *block.Block, _, damage uint8) error {
	b.SetProperty("facing", front(damage))
	b.SetProperty("powered", boolString(damage&0b1000 != 0))
	return nil
}
