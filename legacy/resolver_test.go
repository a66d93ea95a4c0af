package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astei/mcschem/block"
	"github.com/astei/mcschem/version"
)

func props(kv ...string) map[string]string {
	m := make(map[string]string)
	for i := 0; i < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func TestEveryValidDamageResolves(t *testing.T) {
	for id := 0; id < 256; id++ {
		if id == 253 || id == 254 {
			continue
		}
		require.GreaterOrEqual(t, NumValidDamageValues(uint8(id)), 1, "id %d", id)
		for d := uint8(0); d < 16; d++ {
			b, err := Resolve(uint8(id), d, version.Java1_12_2)
			if validDamage[id]&(1<<d) != 0 {
				require.NoError(t, err, "id %d damage %d", id, d)
				assert.NotEmpty(t, b.ID)
			} else {
				assert.ErrorIs(t, err, ErrDamageNotDefined, "id %d damage %d", id, d)
			}
		}
	}
}

func TestReservedIDs(t *testing.T) {
	for _, id := range []uint8{253, 254} {
		for _, d := range []uint8{0, 7, 15, 200} {
			for _, v := range []version.DataVersion{version.Java1_12, version.Java1_12_2} {
				_, err := Resolve(id, d, v)
				assert.ErrorIs(t, err, ErrReservedBlockID)
			}
		}
		assert.Equal(t, 0, NumValidDamageValues(id))
		assert.Empty(t, BlockName(id))
	}
}

func TestVersionGate(t *testing.T) {
	_, err := Resolve(1, 0, version.Java1_13)
	assert.ErrorIs(t, err, ErrNotAnOldVersion)

	// the version check runs first
	_, err = Resolve(253, 0, version.Java1_20_4)
	assert.ErrorIs(t, err, ErrNotAnOldVersion)
}

func TestDamageOutOfRange(t *testing.T) {
	_, err := Resolve(1, 16, version.Java1_12_2)
	assert.ErrorIs(t, err, ErrDamageOutOfRange)

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, uint8(1), re.ID)
	assert.Equal(t, uint8(16), re.Damage)
	assert.Contains(t, err.Error(), "damage=16")
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		id     uint8
		damage uint8
		want   block.Block
	}{
		{"air", 0, 0, block.New("air")},
		{"flowing water", 8, 5, block.Block{Namespace: "minecraft", ID: "water", Properties: props("level", "5")}},
		{"still water", 9, 3, block.Block{Namespace: "minecraft", ID: "water", Properties: props("level", "0")}},
		{"flowing lava", 10, 2, block.Block{Namespace: "minecraft", ID: "lava", Properties: props("level", "2")}},
		{"spruce log x", 17, 0b0101, block.Block{Namespace: "minecraft", ID: "log", Properties: props("variant", "spruce", "axis", "x")}},
		{"birch log z", 17, 0b1010, block.Block{Namespace: "minecraft", ID: "log", Properties: props("variant", "birch", "axis", "z")}},
		{"oak wood", 17, 0b1100, block.Block{Namespace: "minecraft", ID: "oak_wood", Properties: props("axis", "y")}},
		{"dark oak log", 162, 0b0001, block.Block{Namespace: "minecraft", ID: "log2", Properties: props("variant", "dark_oak", "axis", "y")}},
		{"acacia wood", 162, 0b1100, block.Block{Namespace: "minecraft", ID: "acacia_wood", Properties: props("axis", "y")}},
		{"smooth andesite", 1, 6, block.Block{Namespace: "minecraft", ID: "stone", Properties: props("variant", "smooth_andesite")}},
		{"podzol", 3, 2, block.Block{Namespace: "minecraft", ID: "dirt", Properties: props("variant", "podzol", "snowy", "false")}},
		{"red sand", 12, 1, block.Block{Namespace: "minecraft", ID: "sand", Properties: props("variant", "red_sand")}},
		{"jungle planks", 5, 3, block.Block{Namespace: "minecraft", ID: "planks", Properties: props("variant", "jungle")}},
		{"birch sapling stage 1", 6, 0b1010, block.Block{Namespace: "minecraft", ID: "sapling", Properties: props("variant", "birch")}},
		{"leaves", 18, 13, block.Block{Namespace: "minecraft", ID: "leaves", Properties: props("variant", "spruce", "check_decay", "true", "decayable", "true")}},
		{"leaves2", 161, 9, block.Block{Namespace: "minecraft", ID: "leaves2", Properties: props("variant", "dark_oak", "check_decay", "true", "decayable", "false")}},
		{"black wool", 35, 15, block.Block{Namespace: "minecraft", ID: "wool", Properties: props("color", "black")}},
		{"silver carpet", 171, 8, block.Block{Namespace: "minecraft", ID: "carpet", Properties: props("color", "silver")}},
		{"standing torch", 50, 5, block.New("torch")},
		{"wall torch", 76, 3, block.Block{Namespace: "minecraft", ID: "redstone_torch", Properties: props("facing", "south")}},
		{"double red sandstone slab", 181, 0, block.New("double_stone_slab2")},
		{"double stone slab", 43, 5, block.Block{Namespace: "minecraft", ID: "double_stone_slab", Properties: props("variant", "stone_brick")}},
		{"top quartz slab", 44, 15, block.Block{Namespace: "minecraft", ID: "stone_slab", Properties: props("variant", "quartz", "half", "top")}},
		{"red sandstone slab", 182, 8, block.Block{Namespace: "minecraft", ID: "stone_slab2", Properties: props("variant", "red_sandstone", "half", "top")}},
		{"double wooden slab", 125, 4, block.Block{Namespace: "minecraft", ID: "double_wooden_slab", Properties: props("variant", "acacia")}},
		{"bottom wooden slab", 126, 1, block.Block{Namespace: "minecraft", ID: "wooden_slab", Properties: props("variant", "spruce", "half", "bottom")}},
		{"stairs", 53, 2, block.Block{Namespace: "minecraft", ID: "oak_stairs", Properties: props("facing", "south", "half", "bottom")}},
		{"chest", 54, 4, block.Block{Namespace: "minecraft", ID: "chest", Properties: props("facing", "west")}},
		{"upper door", 64, 9, block.Block{Namespace: "minecraft", ID: "wooden_door", Properties: props("half", "upper", "hinge", "right", "powered", "false")}},
		{"lower door", 64, 6, block.Block{Namespace: "minecraft", ID: "wooden_door", Properties: props("half", "lower", "facing", "west", "open", "true")}},
		{"curved rail", 66, 9, block.Block{Namespace: "minecraft", ID: "rail", Properties: props("shape", "north_east")}},
		{"snow layers", 78, 7, block.Block{Namespace: "minecraft", ID: "snow_layer", Properties: props("layers", "8")}},
		{"repeater", 93, 13, block.Block{Namespace: "minecraft", ID: "unpowered_repeater", Properties: props("facing", "west", "delay", "4")}},
		{"snow block ignores damage", 80, 9, block.New("snow")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.id, tt.damage, version.Java1_12_2)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestUndefinedDamage(t *testing.T) {
	tests := []struct {
		id, damage uint8
	}{
		{1, 7},   // stone has seven variants
		{3, 3},   // dirt has three
		{50, 0},  // torches have no damage 0
		{50, 6},  // nor anything above 5
		{162, 2}, // log2 only has two species
		{161, 3},
		{6, 6}, // sapling species 6 does not exist
		{126, 7},
		{12, 2},
	}
	for _, tt := range tests {
		_, err := Resolve(tt.id, tt.damage, version.Java1_12_2)
		assert.ErrorIs(t, err, ErrDamageNotDefined, "id %d damage %d", tt.id, tt.damage)
	}
}

func TestValidDamageValues(t *testing.T) {
	assert.Equal(t, []uint8{0, 1, 2, 3, 4, 5, 6}, ValidDamageValues(1))
	assert.Equal(t, []uint8{1, 2, 3, 4, 5}, ValidDamageValues(50))
	assert.Equal(t, []uint8{0, 8}, ValidDamageValues(182))
	assert.Equal(t, 16, NumValidDamageValues(35))
	assert.Equal(t, 1, NumValidDamageValues(7))
	assert.Equal(t, "structure_block", BlockName(255))
}

func TestCheckDamage(t *testing.T) {
	assert.NoError(t, CheckDamage(1, 6))
	assert.ErrorIs(t, CheckDamage(1, 7), ErrDamageNotDefined)
	assert.ErrorIs(t, CheckDamage(254, 0), ErrReservedBlockID)
	assert.ErrorIs(t, CheckDamage(1, 16), ErrDamageOutOfRange)
}
