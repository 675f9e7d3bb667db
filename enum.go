// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"

	"github.com/luxfi/savegame/catalog"
)

// Strategy is how the values of an enumerated type are persisted.
type Strategy uint8

const (
	// Raw values are stored as 4-byte integers. Only for types whose
	// numbering does not depend on catalog content.
	Raw Strategy = iota
	// Translated values are content indices and go through the
	// translation table.
	Translated
)

func (s Strategy) String() string {
	switch s {
	case Raw:
		return "raw"
	case Translated:
		return "translated"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// Enum is an enumerated type that appears in saves.
type Enum uint8

const (
	CardinalDirectionEnum Enum = iota
	CalendarEnum
	CustomMapOptionEnum
	DirectionEnum
	GameTypeEnum
	PlayerEnum
	PlotEnum
	SlotClaimEnum
	SlotStatusEnum
	TeamEnum
	TurnTimerEnum

	ArtStyleEnum
	BonusEnum
	BuildEnum
	BuildingEnum
	BuildingClassEnum
	SpecialBuildingEnum
	CivEffectEnum
	CivicEnum
	CivicOptionEnum
	CivilizationEnum
	ClimateEnum
	ColorEnum
	CultureLevelEnum
	DiplomacyEnum
	EmphasizeEnum
	EraEnum
	EuropeEnum
	EventEnum
	EventTriggerEnum
	FatherEnum
	FatherPointEnum
	FeatureEnum
	GameOptionEnum
	GameSpeedEnum
	GoodyEnum
	HandicapEnum
	HurryEnum
	ImprovementEnum
	LeaderHeadEnum
	MemoryEnum
	PlayerColorEnum
	PlayerOptionEnum
	ProfessionEnum
	PromotionEnum
	RouteEnum
	SeaLevelEnum
	TerrainEnum
	TraitEnum
	UnitEnum
	UnitAIEnum
	UnitClassEnum
	UnitCombatEnum
	SpecialUnitEnum
	VictoryEnum
	YieldEnum
	WorldSizeEnum

	NumEnums
)

type enumInfo struct {
	name     string
	strategy Strategy
	category catalog.Category
}

func raw(name string) enumInfo {
	return enumInfo{name: name, strategy: Raw}
}

func translated(c catalog.Category) enumInfo {
	return enumInfo{name: c.String(), strategy: Translated, category: c}
}

// enumTable is the only place the persistence strategy of an enum is
// decided. Marking a catalog-backed type Raw corrupts saves as soon as the
// catalog changes.
var enumTable = [NumEnums]enumInfo{
	CardinalDirectionEnum: raw("cardinal_direction"),
	CalendarEnum:          raw("calendar"),
	CustomMapOptionEnum:   raw("custom_map_option"),
	DirectionEnum:         raw("direction"),
	GameTypeEnum:          raw("game_type"),
	PlayerEnum:            raw("player"),
	PlotEnum:              raw("plot"),
	SlotClaimEnum:         raw("slot_claim"),
	SlotStatusEnum:        raw("slot_status"),
	TeamEnum:              raw("team"),
	TurnTimerEnum:         raw("turn_timer"),

	ArtStyleEnum:        translated(catalog.ArtStyle),
	BonusEnum:           translated(catalog.Bonus),
	BuildEnum:           translated(catalog.Build),
	BuildingEnum:        translated(catalog.Building),
	BuildingClassEnum:   translated(catalog.BuildingClass),
	SpecialBuildingEnum: translated(catalog.SpecialBuilding),
	CivEffectEnum:       translated(catalog.CivEffect),
	CivicEnum:           translated(catalog.Civic),
	CivicOptionEnum:     translated(catalog.CivicOption),
	CivilizationEnum:    translated(catalog.Civilization),
	ClimateEnum:         translated(catalog.Climate),
	ColorEnum:           translated(catalog.Color),
	CultureLevelEnum:    translated(catalog.CultureLevel),
	DiplomacyEnum:       translated(catalog.Diplomacy),
	EmphasizeEnum:       translated(catalog.Emphasize),
	EraEnum:             translated(catalog.Era),
	EuropeEnum:          translated(catalog.Europe),
	EventEnum:           translated(catalog.Event),
	EventTriggerEnum:    translated(catalog.EventTrigger),
	FatherEnum:          translated(catalog.Father),
	FatherPointEnum:     translated(catalog.FatherPoint),
	FeatureEnum:         translated(catalog.Feature),
	GameOptionEnum:      translated(catalog.GameOption),
	GameSpeedEnum:       translated(catalog.GameSpeed),
	GoodyEnum:           translated(catalog.Goody),
	HandicapEnum:        translated(catalog.Handicap),
	HurryEnum:           translated(catalog.Hurry),
	ImprovementEnum:     translated(catalog.Improvement),
	LeaderHeadEnum:      translated(catalog.LeaderHead),
	MemoryEnum:          translated(catalog.Memory),
	PlayerColorEnum:     translated(catalog.PlayerColor),
	PlayerOptionEnum:    translated(catalog.PlayerOption),
	ProfessionEnum:      translated(catalog.Profession),
	PromotionEnum:       translated(catalog.Promotion),
	RouteEnum:           translated(catalog.Route),
	SeaLevelEnum:        translated(catalog.SeaLevel),
	TerrainEnum:         translated(catalog.Terrain),
	TraitEnum:           translated(catalog.Trait),
	UnitEnum:            translated(catalog.Unit),
	UnitAIEnum:          translated(catalog.UnitAI),
	UnitClassEnum:       translated(catalog.UnitClass),
	UnitCombatEnum:      translated(catalog.UnitCombat),
	SpecialUnitEnum:     translated(catalog.SpecialUnit),
	VictoryEnum:         translated(catalog.Victory),
	YieldEnum:           translated(catalog.Yield),
	WorldSizeEnum:       translated(catalog.WorldSize),
}

// Valid reports whether e is a known enum.
func (e Enum) Valid() bool {
	return e < NumEnums
}

func (e Enum) String() string {
	if !e.Valid() {
		return fmt.Sprintf("enum(%d)", uint8(e))
	}
	return enumTable[e].name
}

// ParseEnum returns the enum whose name is name.
func ParseEnum(name string) (Enum, bool) {
	for e := Enum(0); e < NumEnums; e++ {
		if enumTable[e].name == name {
			return e, true
		}
	}
	return 0, false
}

// Strategy returns how values of e are persisted.
func (e Enum) Strategy() Strategy {
	if !e.Valid() {
		return Raw
	}
	return enumTable[e].strategy
}

// Category returns the catalog category behind a Translated enum.
func (e Enum) Category() (catalog.Category, bool) {
	if !e.Valid() || enumTable[e].strategy != Translated {
		return 0, false
	}
	return enumTable[e].category, true
}
