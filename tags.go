// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import "fmt"

// Tag identifies a persisted field. Tags form one registry shared by every
// writer and reader: a value, once released, is never reassigned and new
// tags are only ever appended.
type Tag uint16

// MaxTag is the largest tag that fits in a field key.
const MaxTag Tag = 1<<13 - 1

const (
	// TagEnd terminates every object scope.
	TagEnd Tag = 0

	TagAreaID               Tag = 1
	TagAreaWater            Tag = 2
	TagAreaNumTiles         Tag = 3
	TagAreaNumOwnedTiles    Tag = 4
	TagAreaNumRiverEdges    Tag = 5
	TagAreaNumUnits         Tag = 6
	TagAreaNumCities        Tag = 7
	TagAreaTotalPopulation  Tag = 8
	TagAreaNumStartingPlots Tag = 9
	TagAreaUnitsPerPlayer   Tag = 10
	TagAreaCitiesPerPlayer  Tag = 11
	TagAreaRevealedTiles    Tag = 12
	TagAreaBonuses          Tag = 13
	TagAreaImprovements     Tag = 14

	TagMapGridWidth      Tag = 32
	TagMapGridHeight     Tag = 33
	TagMapLandPlots      Tag = 34
	TagMapOwnedPlots     Tag = 35
	TagMapTopLatitude    Tag = 36
	TagMapBottomLatitude Tag = 37
	TagMapWrapX          Tag = 38
	TagMapWrapY          Tag = 39
	TagMapWorldSize      Tag = 40
	TagMapClimate        Tag = 41
	TagMapSeaLevel       Tag = 42
	TagMapCustomOptions  Tag = 43
	TagMapBonusCount     Tag = 44
	TagMapBonusCountLand Tag = 45
	TagMapPlot           Tag = 46
	TagMapArea           Tag = 47
	TagMapName           Tag = 48

	TagPlotX                   Tag = 64
	TagPlotY                   Tag = 65
	TagPlotArea                Tag = 66
	TagPlotFeatureVariety      Tag = 67
	TagPlotOwnershipDuration   Tag = 68
	TagPlotImprovementDuration Tag = 69
	TagPlotUpgradeProgress     Tag = 70
	TagPlotForceUnowned        Tag = 71
	TagPlotStartingPlot        Tag = 72
	TagPlotHills               Tag = 73
	TagPlotRiverNS             Tag = 74
	TagPlotRiverWE             Tag = 75
	TagPlotType                Tag = 76
	TagPlotTerrain             Tag = 77
	TagPlotFeature             Tag = 78
	TagPlotBonus               Tag = 79
	TagPlotImprovement         Tag = 80
	TagPlotRoute               Tag = 81
	TagPlotOwner               Tag = 82
	TagPlotRevealed            Tag = 83
	TagPlotYields              Tag = 84
	TagPlotCulture             Tag = 85
	TagPlotUnit                Tag = 86

	TagUnitID          Tag = 96
	TagUnitX           Tag = 97
	TagUnitY           Tag = 98
	TagUnitType        Tag = 99
	TagUnitProfession  Tag = 100
	TagUnitDamage      Tag = 101
	TagUnitMoves       Tag = 102
	TagUnitExperience  Tag = 103
	TagUnitLevel       Tag = 104
	TagUnitFacing      Tag = 105
	TagUnitName        Tag = 106
	TagUnitPromotions  Tag = 107
	TagUnitOwner       Tag = 108
	TagUnitAI          Tag = 109
	TagUnitYieldStored Tag = 110
	// TagUnitFortifyTurns is retired.
	TagUnitFortifyTurns Tag = 111

	TagUnitAIType         Tag = 128
	TagUnitAIBirthmark    Tag = 129
	TagUnitAIMovePriority Tag = 130
	TagUnitAIGroupFlag    Tag = 131

	// TagTypeID carries the registered type of an interface-valued object.
	TagTypeID Tag = MaxTag
)

var tagNames = map[Tag]string{
	TagEnd: "end",

	TagAreaID:               "area.id",
	TagAreaWater:            "area.water",
	TagAreaNumTiles:         "area.num_tiles",
	TagAreaNumOwnedTiles:    "area.num_owned_tiles",
	TagAreaNumRiverEdges:    "area.num_river_edges",
	TagAreaNumUnits:         "area.num_units",
	TagAreaNumCities:        "area.num_cities",
	TagAreaTotalPopulation:  "area.total_population",
	TagAreaNumStartingPlots: "area.num_starting_plots",
	TagAreaUnitsPerPlayer:   "area.units_per_player",
	TagAreaCitiesPerPlayer:  "area.cities_per_player",
	TagAreaRevealedTiles:    "area.revealed_tiles",
	TagAreaBonuses:          "area.bonuses",
	TagAreaImprovements:     "area.improvements",

	TagMapGridWidth:      "map.grid_width",
	TagMapGridHeight:     "map.grid_height",
	TagMapLandPlots:      "map.land_plots",
	TagMapOwnedPlots:     "map.owned_plots",
	TagMapTopLatitude:    "map.top_latitude",
	TagMapBottomLatitude: "map.bottom_latitude",
	TagMapWrapX:          "map.wrap_x",
	TagMapWrapY:          "map.wrap_y",
	TagMapWorldSize:      "map.world_size",
	TagMapClimate:        "map.climate",
	TagMapSeaLevel:       "map.sea_level",
	TagMapCustomOptions:  "map.custom_options",
	TagMapBonusCount:     "map.bonus_count",
	TagMapBonusCountLand: "map.bonus_count_land",
	TagMapPlot:           "map.plot",
	TagMapArea:           "map.area",
	TagMapName:           "map.name",

	TagPlotX:                   "plot.x",
	TagPlotY:                   "plot.y",
	TagPlotArea:                "plot.area",
	TagPlotFeatureVariety:      "plot.feature_variety",
	TagPlotOwnershipDuration:   "plot.ownership_duration",
	TagPlotImprovementDuration: "plot.improvement_duration",
	TagPlotUpgradeProgress:     "plot.upgrade_progress",
	TagPlotForceUnowned:        "plot.force_unowned",
	TagPlotStartingPlot:        "plot.starting_plot",
	TagPlotHills:               "plot.hills",
	TagPlotRiverNS:             "plot.river_ns",
	TagPlotRiverWE:             "plot.river_we",
	TagPlotType:                "plot.type",
	TagPlotTerrain:             "plot.terrain",
	TagPlotFeature:             "plot.feature",
	TagPlotBonus:               "plot.bonus",
	TagPlotImprovement:         "plot.improvement",
	TagPlotRoute:               "plot.route",
	TagPlotOwner:               "plot.owner",
	TagPlotRevealed:            "plot.revealed",
	TagPlotYields:              "plot.yields",
	TagPlotCulture:             "plot.culture",
	TagPlotUnit:                "plot.unit",

	TagUnitID:           "unit.id",
	TagUnitX:            "unit.x",
	TagUnitY:            "unit.y",
	TagUnitType:         "unit.type",
	TagUnitProfession:   "unit.profession",
	TagUnitDamage:       "unit.damage",
	TagUnitMoves:        "unit.moves",
	TagUnitExperience:   "unit.experience",
	TagUnitLevel:        "unit.level",
	TagUnitFacing:       "unit.facing",
	TagUnitName:         "unit.name",
	TagUnitPromotions:   "unit.promotions",
	TagUnitOwner:        "unit.owner",
	TagUnitAI:           "unit.ai",
	TagUnitYieldStored:  "unit.yield_stored",
	TagUnitFortifyTurns: "unit.fortify_turns",

	TagUnitAIType:         "unit_ai.type",
	TagUnitAIBirthmark:    "unit_ai.birthmark",
	TagUnitAIMovePriority: "unit_ai.move_priority",
	TagUnitAIGroupFlag:    "unit_ai.group_flag",

	TagTypeID: "type_id",
}

// retiredTags are no longer written or read. They keep their number and
// name so the number is never handed out again, but a reader steps over
// them like tags it does not know. A tag that stays known while no reader
// asks for it would hide every field written after it in the same scope.
var retiredTags = map[Tag]struct{}{
	TagUnitFortifyTurns: {},
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for t, name := range tagNames {
		m[name] = t
	}
	return m
}()

// ParseTag returns the tag registered under name.
func ParseTag(name string) (Tag, bool) {
	t, ok := tagsByName[name]
	return t, ok
}

// Known reports whether t is a live tag of the registry of this build.
// Tags written by a newer build and retired tags are unknown and get
// skipped on load.
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok && !t.Retired()
}

// Retired reports whether t was taken out of use.
func (t Tag) Retired() bool {
	_, ok := retiredTags[t]
	return ok
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", uint16(t))
}

// WireType says how the payload after a field key is laid out, which is
// what allows a reader to step over fields it does not know.
type WireType uint8

const (
	WireFixed8  WireType = 0
	WireFixed16 WireType = 1
	WireFixed32 WireType = 2
	WireFixed64 WireType = 3
	// WireBytes payloads carry a 4-byte length prefix.
	WireBytes WireType = 4
	// WireObject payloads are a field list closed by TagEnd.
	WireObject WireType = 5
)

const wireTypeBits = 3

func (wt WireType) String() string {
	switch wt {
	case WireFixed8:
		return "fixed8"
	case WireFixed16:
		return "fixed16"
	case WireFixed32:
		return "fixed32"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "bytes"
	case WireObject:
		return "object"
	default:
		return fmt.Sprintf("wire(%d)", uint8(wt))
	}
}

// fixedLen returns the payload length of fixed wire types.
func (wt WireType) fixedLen() (int, bool) {
	switch wt {
	case WireFixed8:
		return ByteLen, true
	case WireFixed16:
		return ShortLen, true
	case WireFixed32:
		return IntLen, true
	case WireFixed64:
		return LongLen, true
	default:
		return 0, false
	}
}

func fieldKey(t Tag, wt WireType) uint16 {
	return uint16(t)<<wireTypeBits | uint16(wt)
}

func splitKey(key uint16) (Tag, WireType) {
	return Tag(key >> wireTypeBits), WireType(key & (1<<wireTypeBits - 1))
}

// endKey is the key that closes an object scope.
var endKey = fieldKey(TagEnd, WireFixed8)
