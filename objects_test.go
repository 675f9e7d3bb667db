// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/savegame/catalog"
)

const numTeams = 4

const numYields = 6

type testUnit struct {
	ID         int32
	Type       catalog.Index
	Damage     int32
	Facing     int32
	Name       string
	Promotions []int8
	Birthmark  int32
}

func (u *testUnit) write(w Writer) error {
	w.AssignClassType(ClassUnit)
	w.WriteTaggedInt32(TagUnitID, u.ID, 0)
	w.WriteTaggedContentIndex(TagUnitType, catalog.Unit, u.Type, catalog.None)
	w.WriteTaggedInt32(TagUnitDamage, u.Damage, 0)
	w.WriteTaggedEnum(TagUnitFacing, DirectionEnum, u.Facing, -1)
	w.WriteTaggedWString(TagUnitName, u.Name, "")
	WriteCategoryArray(&w, TagUnitPromotions, catalog.Promotion, u.Promotions, 0)
	return w.WriteObject(TagUnitAI, func(ai Writer) error {
		ai.AssignClassType(ClassUnitAI)
		ai.WriteTaggedInt32(TagUnitAIBirthmark, u.Birthmark, 0)
		return nil
	})
}

func (u *testUnit) read(r Reader) error {
	r.AssignClassType(ClassUnit)
	u.ID = r.ReadTaggedInt32(TagUnitID, 0)
	u.Type = r.ReadTaggedContentIndex(TagUnitType, catalog.Unit, catalog.None)
	u.Damage = r.ReadTaggedInt32(TagUnitDamage, 0)
	u.Facing = r.ReadTaggedEnum(TagUnitFacing, DirectionEnum, -1)
	u.Name = r.ReadTaggedWString(TagUnitName, "")
	u.Promotions = ReadCategoryArray(&r, TagUnitPromotions, catalog.Promotion, int8(0))
	_, err := r.ReadObject(TagUnitAI, func(ai Reader) error {
		ai.AssignClassType(ClassUnitAI)
		u.Birthmark = ai.ReadTaggedInt32(TagUnitAIBirthmark, 0)
		return ai.Err()
	})
	if err != nil {
		return err
	}
	if r.ClassType() != ClassUnit {
		return fmt.Errorf("scope class is %s after nested read", r.ClassType())
	}
	return r.Err()
}

type testPlot struct {
	X, Y     int16
	Terrain  catalog.Index
	Hills    bool
	Owner    int32
	Yields   []int16
	Revealed BitArray
	Units    []testUnit
}

func (p *testPlot) write(w Writer) error {
	w.AssignClassType(ClassPlot)
	w.WriteTaggedInt16(TagPlotX, p.X, 0)
	w.WriteTaggedInt16(TagPlotY, p.Y, 0)
	w.WriteTaggedBool(TagPlotHills, p.Hills, false)
	w.WriteTaggedEnum(TagPlotOwner, PlayerEnum, p.Owner, -1)
	w.WriteTaggedContentIndex(TagPlotTerrain, catalog.Terrain, p.Terrain, catalog.None)
	w.WriteTaggedBitArray(TagPlotRevealed, p.Revealed)
	WriteTaggedSparseArray(&w, TagPlotYields, p.Yields, 0)
	for i := range p.Units {
		if err := w.WriteObject(TagPlotUnit, p.Units[i].write); err != nil {
			return err
		}
	}
	if w.ClassType() != ClassPlot {
		return fmt.Errorf("scope class is %s after nested write", w.ClassType())
	}
	return w.Err()
}

func (p *testPlot) read(r Reader) error {
	r.AssignClassType(ClassPlot)
	p.X = r.ReadTaggedInt16(TagPlotX, 0)
	p.Y = r.ReadTaggedInt16(TagPlotY, 0)
	p.Hills = r.ReadTaggedBool(TagPlotHills, false)
	p.Owner = r.ReadTaggedEnum(TagPlotOwner, PlayerEnum, -1)
	p.Terrain = r.ReadTaggedContentIndex(TagPlotTerrain, catalog.Terrain, catalog.None)
	p.Revealed = r.ReadTaggedBitArray(TagPlotRevealed, numTeams)
	p.Yields = ReadTaggedSparseArray(&r, TagPlotYields, numYields, int16(0))
	for {
		var u testUnit
		ok, err := r.ReadObject(TagPlotUnit, u.read)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		p.Units = append(p.Units, u)
	}
	return r.Err()
}

type testMap struct {
	Width, Height int32
	WrapX         bool
	WorldSize     int32
	Name          string
	Plots         []testPlot
}

func (m *testMap) write(w Writer) error {
	w.AssignClassType(ClassMap)
	w.WriteTaggedInt32(TagMapGridWidth, m.Width, 0)
	w.WriteTaggedInt32(TagMapGridHeight, m.Height, 0)
	w.WriteTaggedBool(TagMapWrapX, m.WrapX, false)
	w.WriteTaggedEnum(TagMapWorldSize, WorldSizeEnum, m.WorldSize, -1)
	for i := range m.Plots {
		if err := w.WriteObject(TagMapPlot, m.Plots[i].write); err != nil {
			return err
		}
	}
	w.WriteTaggedString(TagMapName, m.Name, "")
	return w.Err()
}

func (m *testMap) read(r Reader) error {
	r.AssignClassType(ClassMap)
	m.Width = r.ReadTaggedInt32(TagMapGridWidth, 0)
	m.Height = r.ReadTaggedInt32(TagMapGridHeight, 0)
	m.WrapX = r.ReadTaggedBool(TagMapWrapX, false)
	m.WorldSize = r.ReadTaggedEnum(TagMapWorldSize, WorldSizeEnum, -1)
	for {
		var p testPlot
		ok, err := r.ReadObject(TagMapPlot, p.read)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		m.Plots = append(m.Plots, p)
	}
	m.Name = r.ReadTaggedString(TagMapName, "")
	return r.Err()
}

func testCatalog(t *testing.T) *catalog.Static {
	return newStatic(t, map[catalog.Category][]string{
		catalog.Unit:      {"UNIT_COLONIST", "UNIT_SOLDIER", "UNIT_SCOUT"},
		catalog.Terrain:   {"TERRAIN_GRASS", "TERRAIN_PLAINS", "TERRAIN_OCEAN"},
		catalog.Promotion: {"PROMOTION_COMBAT1", "PROMOTION_AMBUSH", "PROMOTION_MEDIC"},
		catalog.WorldSize: {"WORLDSIZE_SMALL", "WORLDSIZE_LARGE"},
	})
}

func revealed(teams ...int) BitArray {
	b := NewBitArray(numTeams)
	for _, team := range teams {
		b.Set(team, true)
	}
	return b
}

func testWorld() *testMap {
	return &testMap{
		Width:     2,
		Height:    1,
		WrapX:     true,
		WorldSize: 1,
		Name:      "New World",
		Plots: []testPlot{
			{
				X:        0,
				Y:        0,
				Terrain:  catalog.Index(1),
				Hills:    true,
				Owner:    3,
				Yields:   []int16{0, 4, 0, 0, -2, 0},
				Revealed: revealed(0, 3),
				Units: []testUnit{
					{
						ID:         1,
						Type:       catalog.Index(2),
						Damage:     25,
						Facing:     5,
						Name:       "Père Marquette",
						Promotions: []int8{0, 1, 2},
						Birthmark:  77,
					},
					{
						ID:         2,
						Type:       catalog.Index(0),
						Facing:     -1,
						Promotions: []int8{0, 0, 0},
					},
				},
			},
			{
				X:        1,
				Terrain:  catalog.None,
				Owner:    -1,
				Yields:   make([]int16, numYields),
				Revealed: revealed(),
			},
		},
	}
}

func encodeWith(t *testing.T, c catalog.Catalog, cfg Config, fn func(Writer) error) []byte {
	t.Helper()
	enc := NewEncoder(c, cfg)
	require.NoError(t, fn(enc.Writer()))
	data, err := enc.Bytes()
	require.NoError(t, err)
	return data
}

func decodeWith(t *testing.T, c catalog.Catalog, cfg Config, data []byte) *Decoder {
	t.Helper()
	dec := NewDecoder(c, cfg)
	require.NoError(t, dec.LoadBytes(data))
	return dec
}
