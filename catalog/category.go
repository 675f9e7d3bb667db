// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catalog

import "fmt"

// Category identifies a class of editable game content. The numeric value is
// persisted in translation table headers, so categories may only be appended.
type Category uint16

const (
	ArtStyle Category = iota
	Bonus
	Build
	Building
	BuildingClass
	SpecialBuilding
	CivEffect
	Civic
	CivicOption
	Civilization
	Climate
	Color
	CultureLevel
	Diplomacy
	Emphasize
	Era
	Europe
	Event
	EventTrigger
	Father
	FatherPoint
	Feature
	GameOption
	GameSpeed
	Goody
	Handicap
	Hurry
	Improvement
	LeaderHead
	Memory
	PlayerColor
	PlayerOption
	Profession
	Promotion
	Route
	SeaLevel
	Terrain
	Trait
	Unit
	UnitAI
	UnitClass
	UnitCombat
	SpecialUnit
	Victory
	Yield
	WorldSize

	// NumCategories is the number of categories known to this build.
	NumCategories
)

var categoryNames = [NumCategories]string{
	ArtStyle:        "art_style",
	Bonus:           "bonus",
	Build:           "build",
	Building:        "building",
	BuildingClass:   "building_class",
	SpecialBuilding: "special_building",
	CivEffect:       "civ_effect",
	Civic:           "civic",
	CivicOption:     "civic_option",
	Civilization:    "civilization",
	Climate:         "climate",
	Color:           "color",
	CultureLevel:    "culture_level",
	Diplomacy:       "diplomacy",
	Emphasize:       "emphasize",
	Era:             "era",
	Europe:          "europe",
	Event:           "event",
	EventTrigger:    "event_trigger",
	Father:          "father",
	FatherPoint:     "father_point",
	Feature:         "feature",
	GameOption:      "game_option",
	GameSpeed:       "game_speed",
	Goody:           "goody",
	Handicap:        "handicap",
	Hurry:           "hurry",
	Improvement:     "improvement",
	LeaderHead:      "leader_head",
	Memory:          "memory",
	PlayerColor:     "player_color",
	PlayerOption:    "player_option",
	Profession:      "profession",
	Promotion:       "promotion",
	Route:           "route",
	SeaLevel:        "sea_level",
	Terrain:         "terrain",
	Trait:           "trait",
	Unit:            "unit",
	UnitAI:          "unit_ai",
	UnitClass:       "unit_class",
	UnitCombat:      "unit_combat",
	SpecialUnit:     "special_unit",
	Victory:         "victory",
	Yield:           "yield",
	WorldSize:       "world_size",
}

// Valid reports whether c is known to this build. Saves written by a newer
// build may carry categories that are not.
func (c Category) Valid() bool {
	return c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint16(c))
	}
	return categoryNames[c]
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// All returns every known category in ascending order.
func All() []Category {
	all := make([]Category, NumCategories)
	for i := range all {
		all[i] = Category(i)
	}
	return all
}
