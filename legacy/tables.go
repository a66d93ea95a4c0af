package legacy

// names maps a numeric id to its pre-flattening block name. Ids 253 and 254
// are reserved and have no name.
var names = [256]string{
	"air", "stone", "grass", "dirt", "cobblestone", "planks",
	"sapling", "bedrock", "flowing_water", "water", "flowing_lava", "lava",
	"sand", "gravel", "gold_ore", "iron_ore", "coal_ore", "log",
	"leaves", "sponge", "glass", "lapis_ore", "lapis_block", "dispenser",
	"sandstone", "noteblock", "bed", "golden_rail", "detector_rail", "sticky_piston",
	"web", "tallgrass", "deadbush", "piston", "piston_head", "wool",
	"piston_extension", "yellow_flower", "red_flower", "brown_mushroom", "red_mushroom", "gold_block",
	"iron_block", "double_stone_slab", "stone_slab", "brick_block", "tnt", "bookshelf",
	"mossy_cobblestone", "obsidian", "torch", "fire", "mob_spawner", "oak_stairs",
	"chest", "redstone_wire", "diamond_ore", "diamond_block", "crafting_table", "wheat",
	"farmland", "furnace", "lit_furnace", "standing_sign", "wooden_door", "ladder",
	"rail", "stone_stairs", "wall_sign", "lever", "stone_pressure_plate", "iron_door",
	"wooden_pressure_plate", "redstone_ore", "lit_redstone_ore", "unlit_redstone_torch", "redstone_torch", "stone_button",
	"snow_layer", "ice", "snow", "cactus", "clay", "reeds",
	"jukebox", "fence", "pumpkin", "netherrack", "soul_sand", "glowstone",
	"portal", "lit_pumpkin", "cake", "unpowered_repeater", "powered_repeater", "stained_glass",
	"trapdoor", "monster_egg", "stonebrick", "brown_mushroom_block", "red_mushroom_block", "iron_bars",
	"glass_pane", "melon_block", "pumpkin_stem", "melon_stem", "vine", "fence_gate",
	"brick_stairs", "stone_brick_stairs", "mycelium", "waterlily", "nether_bricks", "nether_brick_fence",
	"nether_brick_stairs", "nether_wart", "enchanting_table", "brewing_stand", "cauldron", "end_portal",
	"end_portal_frame", "end_stone", "dragon_egg", "redstone_lamp", "lit_redstone_lamp", "double_wooden_slab",
	"wooden_slab", "cocoa", "sandstone_stairs", "emerald_ore", "ender_chest", "tripwire_hook",
	"tripwire", "emerald_block", "spruce_stairs", "birch_stairs", "jungle_stairs", "command_block",
	"beacon", "cobblestone_wall", "flower_pot", "carrots", "potatoes", "wooden_button",
	"skull", "anvil", "trapped_chest", "light_weighted_pressure_plate", "heavy_weighted_pressure_plate", "unpowered_comparator",
	"powered_comparator", "daylight_detector", "redstone_block", "quartz_ore", "hopper", "quartz_block",
	"quartz_stairs", "activator_rail", "dropper", "stained_hardened_clay", "stained_glass_pane", "leaves2",
	"log2", "acacia_stairs", "dark_oak_stairs", "slime", "barrier", "iron_trapdoor",
	"prismarine", "sea_lantern", "hay_block", "carpet", "hardened_clay", "coal_block",
	"packed_ice", "double_plant", "standing_banner", "wall_banner", "daylight_detector_inverted", "red_sandstone",
	"red_sandstone_stairs", "double_stone_slab2", "stone_slab2", "spruce_fence_gate", "birch_fence_gate", "jungle_fence_gate",
	"dark_oak_fence_gate", "acacia_fence_gate", "spruce_fence", "birch_fence", "jungle_fence", "dark_oak_fence",
	"acacia_fence", "spruce_door", "birch_door", "jungle_door", "acacia_door", "dark_oak_door",
	"end_rod", "chorus_plant", "chorus_flower", "purpur_block", "purpur_pillar", "purpur_stairs",
	"purpur_double_slab", "purpur_slab", "end_bricks", "beetroots", "grass_path", "end_gateway",
	"repeating_command_block", "chain_command_block", "frosted_ice", "magma", "nether_wart_block", "red_nether_bricks",
	"bone_block", "structure_void", "observer", "white_shulker_box", "orange_shulker_box", "magenta_shulker_box",
	"light_blue_shulker_box", "yellow_shulker_box", "lime_shulker_box", "pink_shulker_box", "gray_shulker_box", "silver_shulker_box",
	"cyan_shulker_box", "purple_shulker_box", "blue_shulker_box", "brown_shulker_box", "green_shulker_box", "red_shulker_box",
	"black_shulker_box", "white_glazed_terracotta", "orange_glazed_terracotta", "magenta_glazed_terracotta", "light_blue_glazed_terracotta", "yellow_glazed_terracotta",
	"lime_glazed_terracotta", "pink_glazed_terracotta", "gray_glazed_terracotta", "silver_glazed_terracotta", "cyan_glazed_terracotta", "purple_glazed_terracotta",
	"blue_glazed_terracotta", "brown_glazed_terracotta", "green_glazed_terracotta", "red_glazed_terracotta", "black_glazed_terracotta", "concrete",
	"concrete_powder", "", "", "structure_block",
}

// validDamage has bit d set when damage value d is defined for the id.
var validDamage = [256]uint16{
	0x0001, 0x007f, 0x0001, 0x0007, 0x0001, 0x003f, 0x3f3f, 0x0001, // 0-7
	0xffff, 0xffff, 0xffff, 0xffff, 0x0003, 0x0001, 0x0001, 0x0001, // 8-15
	0x0001, 0xffff, 0xffff, 0x0003, 0x0001, 0x0001, 0x0001, 0x003f, // 16-23
	0x0007, 0x0001, 0xffff, 0xffff, 0xffff, 0x3f3f, 0x0001, 0x0003, // 24-31
	0x0001, 0x3f3f, 0x3f3f, 0xffff, 0x3f3f, 0x01ff, 0x01ff, 0x0001, // 32-39
	0x0001, 0x0001, 0x0001, 0x00ff, 0xffff, 0x0001, 0x0001, 0x0001, // 40-47
	0x0001, 0x0001, 0x003e, 0xffff, 0x0001, 0x000f, 0x003c, 0xffff, // 48-55
	0x0001, 0x0001, 0x0001, 0x00ff, 0x01ff, 0x003c, 0x003c, 0xffff, // 56-63
	0xffff, 0x003c, 0x03ff, 0x000f, 0x003c, 0xffff, 0x0003, 0xffff, // 64-71
	0x0003, 0x0001, 0x0001, 0x003e, 0x003e, 0xffff, 0x00ff, 0x0001, // 72-79
	0xffff, 0xffff, 0x0001, 0xffff, 0x0003, 0x0001, 0x000f, 0x0001, // 80-87
	0x0001, 0x0001, 0x0007, 0x000f, 0x007f, 0xffff, 0xffff, 0xffff, // 88-95
	0x00ff, 0x003f, 0x000f, 0xffff, 0xffff, 0x0001, 0x0001, 0x0001, // 96-103
	0x00ff, 0x00ff, 0xffff, 0xffff, 0x000f, 0x000f, 0x0001, 0x0001, // 104-111
	0x0001, 0x0001, 0x000f, 0x000f, 0x0001, 0x00ff, 0xffff, 0x0001, // 112-119
	0x00ff, 0x0001, 0x0001, 0x0001, 0x0001, 0x003f, 0x3f3f, 0xffff, // 120-127
	0x000f, 0x0001, 0x003c, 0xffff, 0xffff, 0x0001, 0x000f, 0x000f, // 128-135
	0x000f, 0xffff, 0x0001, 0x0003, 0x3fff, 0x00ff, 0x00ff, 0xffff, // 136-143
	0x003e, 0x0fff, 0x003c, 0xffff, 0xffff, 0xffff, 0xffff, 0xffff, // 144-151
	0x0001, 0x0001, 0x003d, 0xffff, 0x000f, 0xffff, 0x003f, 0xffff, // 152-159
	0xffff, 0x3333, 0x3333, 0x000f, 0x000f, 0x0001, 0x0001, 0x00ff, // 160-167
	0x0007, 0x0001, 0x0001, 0xffff, 0xffff, 0x0001, 0x0001, 0x3f3f, // 168-175
	0xffff, 0x003c, 0xffff, 0x0007, 0x000f, 0x0001, 0x0101, 0xffff, // 176-183
	0xffff, 0xffff, 0xffff, 0xffff, 0x0001, 0x0001, 0x0001, 0x0001, // 184-191
	0x0001, 0xffff, 0xffff, 0xffff, 0xffff, 0xffff, 0x003f, 0x0001, // 192-199
	0x003f, 0x0001, 0x0001, 0x000f, 0x000f, 0x000f, 0x0001, 0x000f, // 200-207
	0x0001, 0x0001, 0xffff, 0xffff, 0x0001, 0x0001, 0x0001, 0x0001, // 208-215
	0x0001, 0x0001, 0x003f, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, // 216-223
	0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, // 224-231
	0x0001, 0x0001, 0x0001, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, // 232-239
	0x000f, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, // 240-247
	0x000f, 0x000f, 0x000f, 0xffff, 0xffff, 0x0001, 0x0001, 0x003f, // 248-255
}
var woodVariants = [...]string{"oak", "spruce", "birch", "jungle", "acacia", "dark_oak"}

var axes = [...]string{"y", "x", "z"}

var colors = [...]string{
	"white", "orange", "magenta", "light_blue", "yellow", "lime", "pink", "gray",
	"silver", "cyan", "purple", "blue", "brown", "green", "red", "black",
}

var torchFacings = [...]string{1: "east", 2: "west", 3: "south", 4: "north"}

var stoneSlabVariants = [...]string{
	"stone", "sandstone", "wooden", "cobblestone", "brick", "stone_brick", "nether_brick", "quartz",
}

var stoneVariants = [...]string{
	"stone", "granite", "smooth_granite", "diorite", "smooth_diorite", "andesite", "smooth_andesite",
}

var dirtVariants = [...]string{"dirt", "coarse_dirt", "podzol"}

// frontFacings is indexed by the 3-bit direction used by dispensers, pistons
// and other six-way blocks.
var frontFacings = [...]string{"down", "up", "north", "south", "west", "east"}

// horizontalFacings is indexed by the 2-bit horizontal direction.
var horizontalFacings = [...]string{"south", "west", "north", "east"}

var railShapes = [...]string{
	"north_south", "east_west", "ascending_east", "ascending_west", "ascending_north",
	"ascending_south", "south_east", "south_west", "north_west", "north_east",
}

var leverFacings = [...]string{"down_x", "east", "west", "south", "north", "up_z", "up_x", "down_z"}

var buttonFacings = [...]string{"down", "east", "west", "south", "north", "up", "up", "up"}

var trapdoorFacings = [...]string{"north", "south", "west", "east"}

var redFlowers = [...]string{
	"poppy", "blue_orchid", "allium", "houstonia", "red_tulip", "orange_tulip", "white_tulip", "pink_tulip", "oxeye_daisy",
}

var tallGrass = [...]string{"dead_bush", "tall_grass", "fern"}

var monsterEggVariants = [...]string{
	"stone", "cobblestone", "stone_brick", "mossy_brick", "cracked_brick", "chiseled_brick",
}

var stoneBrickVariants = [...]string{"stonebrick", "mossy_stonebrick", "cracked_stonebrick", "chiseled_stonebrick"}

var mushroomVariants = [...]string{
	"all_inside", "north_west", "north", "north_east", "west", "center", "east", "south_west",
	"south", "south_east", "stem", "all_inside", "all_inside", "all_inside", "all_outside", "all_stem",
}

var quartzVariants = [...]string{"default", "chiseled", "lines_y", "lines_x", "lines_z"}

var prismarineVariants = [...]string{"prismarine", "prismarine_bricks", "dark_prismarine"}

var doublePlantVariants = [...]string{"sunflower", "syringa", "double_grass", "double_fern", "double_rose", "paeonia"}

var structureModes = [...]string{"save", "load", "corner", "data"}
