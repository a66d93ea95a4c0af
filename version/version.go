// Package version names Minecraft Java edition data versions.
package version

import "fmt"

// DataVersion is the MinecraftDataVersion / DataVersion number stored in saves.
type DataVersion int32

const (
	Java1_12   DataVersion = 1139
	Java1_12_1 DataVersion = 1241
	Java1_12_2 DataVersion = 1343
	Java1_13   DataVersion = 1519
	Java1_13_2 DataVersion = 1631
	Java1_14   DataVersion = 1952
	Java1_14_4 DataVersion = 1976
	Java1_15   DataVersion = 2225
	Java1_15_2 DataVersion = 2230
	Java1_16   DataVersion = 2566
	Java1_16_5 DataVersion = 2586
	Java1_17   DataVersion = 2724
	Java1_17_1 DataVersion = 2730
	Java1_18   DataVersion = 2860
	Java1_18_2 DataVersion = 2975
	Java1_19   DataVersion = 3105
	Java1_19_4 DataVersion = 3337
	Java1_20   DataVersion = 3463
	Java1_20_1 DataVersion = 3465
	Java1_20_2 DataVersion = 3578
	Java1_20_4 DataVersion = 3700

	// LastLegacy is the last release that stored blocks as numeric id + damage.
	LastLegacy = Java1_12_2
	// Latest is written when a schematic carries no data version.
	Latest = Java1_20_4
)

var names = map[DataVersion]string{
	Java1_12:   "1.12",
	Java1_12_1: "1.12.1",
	Java1_12_2: "1.12.2",
	Java1_13:   "1.13",
	Java1_13_2: "1.13.2",
	Java1_14:   "1.14",
	Java1_14_4: "1.14.4",
	Java1_15:   "1.15",
	Java1_15_2: "1.15.2",
	Java1_16:   "1.16",
	Java1_16_5: "1.16.5",
	Java1_17:   "1.17",
	Java1_17_1: "1.17.1",
	Java1_18:   "1.18",
	Java1_18_2: "1.18.2",
	Java1_19:   "1.19",
	Java1_19_4: "1.19.4",
	Java1_20:   "1.20",
	Java1_20_1: "1.20.1",
	Java1_20_2: "1.20.2",
	Java1_20_4: "1.20.4",
}

// IsLegacy reports whether v predates string block ids.
func (v DataVersion) IsLegacy() bool {
	return v <= LastLegacy
}

func (v DataVersion) String() string {
	if n, ok := names[v]; ok {
		return fmt.Sprintf("Java %s (%d)", n, int32(v))
	}
	return fmt.Sprintf("DataVersion(%d)", int32(v))
}
