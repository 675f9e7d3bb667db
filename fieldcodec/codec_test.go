// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fieldcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
)

type unitAI struct {
	Type      int32 `save:"unit_ai.type,category=unit_ai"`
	Birthmark int32 `save:"unit_ai.birthmark"`
	GroupFlag bool  `save:"unit_ai.group_flag"`
}

func (*unitAI) SaveClass() savegame.ClassType { return savegame.ClassUnitAI }

type unit struct {
	ID         int32         `save:"unit.id"`
	Type       catalog.Index `save:"unit.type,category=unit"`
	Damage     int32         `save:"unit.damage"`
	Facing     int32         `save:"unit.facing,enum=direction,default=-1"`
	Moves      uint16        `save:"unit.moves,default=3"`
	Name       string        `save:"unit.name,wide"`
	Promotions []int8        `save:"unit.promotions,category=promotion"`
	AI         *unitAI       `save:"unit.ai"`

	selected bool
}

func (*unit) SaveClass() savegame.ClassType { return savegame.ClassUnit }

type plot struct {
	X        int16             `save:"plot.x"`
	Y        int16             `save:"plot.y"`
	Hills    bool              `save:"plot.hills"`
	Terrain  catalog.Index     `save:"plot.terrain,category=terrain"`
	Culture  []int32           `save:"plot.culture,sparse"`
	Revealed savegame.BitArray `save:"plot.revealed,bits=4"`
	Units    []unit            `save:"plot.unit"`
	Scratch  string            `save:"-"`
}

func (*plot) SaveClass() savegame.ClassType { return savegame.ClassPlot }

type gameMap struct {
	Width  int32  `save:"map.grid_width"`
	Height int32  `save:"map.grid_height"`
	WrapX  bool   `save:"map.wrap_x,default=true"`
	Size   int32  `save:"map.world_size,enum=world_size,default=-1"`
	Plots  []plot `save:"map.plot"`
	Name   string `save:"map.name,default=Unnamed"`
}

func (*gameMap) SaveClass() savegame.ClassType { return savegame.ClassMap }

func newCatalog(t *testing.T, lists map[catalog.Category][]string) *catalog.Static {
	t.Helper()
	s := catalog.NewStatic()
	for c, names := range lists {
		require.NoError(t, s.Set(c, names...))
	}
	return s
}

func testCatalog(t *testing.T) *catalog.Static {
	return newCatalog(t, map[catalog.Category][]string{
		catalog.Unit:      {"UNIT_COLONIST", "UNIT_SOLDIER"},
		catalog.UnitAI:    {"UNITAI_COLONIST", "UNITAI_DEFENSIVE"},
		catalog.Terrain:   {"TERRAIN_GRASS", "TERRAIN_TUNDRA"},
		catalog.Promotion: {"PROMOTION_COMBAT1", "PROMOTION_AMBUSH"},
		catalog.WorldSize: {"WORLDSIZE_SMALL", "WORLDSIZE_LARGE"},
	})
}

func testMap() *gameMap {
	revealed := savegame.NewBitArray(4)
	revealed.Set(2, true)
	return &gameMap{
		Width:  3,
		Height: 1,
		WrapX:  false,
		Size:   1,
		Name:   "Unnamed",
		Plots: []plot{
			{
				X:        1,
				Terrain:  1,
				Hills:    true,
				Culture:  []int32{0, 0, 120, 0},
				Revealed: revealed,
				Units: []unit{
					{
						ID:         7,
						Type:       1,
						Damage:     10,
						Facing:     2,
						Moves:      3,
						Name:       "Général",
						Promotions: []int8{0, 1},
						AI:         &unitAI{Type: 1, Birthmark: 99},
					},
					{
						ID:         8,
						Type:       0,
						Facing:     -1,
						Moves:      0,
						Promotions: []int8{0, 0},
					},
				},
			},
			{
				X:        2,
				Terrain:  catalog.None,
				Revealed: savegame.NewBitArray(4),
			},
		},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	cat := testCatalog(t)
	c := NewDefault()
	want := testMap()

	data, err := c.Encode(cat, savegame.DefaultConfig(), want)
	require.NoError(t, err)

	var got gameMap
	dec, err := c.Decode(cat, savegame.DefaultConfig(), data, &got)
	require.NoError(t, err)
	assert.Zero(t, dec.Unresolved())
	assert.Equal(t, want, &got)
}

func TestCodec_MatchesHandWrittenSerializer(t *testing.T) {
	cat := testCatalog(t)
	c := NewDefault()
	v := unitAI{Type: 1, Birthmark: 4}

	reflected, err := c.Encode(cat, savegame.DefaultConfig(), &v)
	require.NoError(t, err)

	enc := savegame.NewEncoder(cat, savegame.DefaultConfig())
	w := enc.Writer()
	w.WriteTaggedContentIndex(savegame.TagUnitAIType, catalog.UnitAI, 1, catalog.None)
	w.WriteTaggedInt32(savegame.TagUnitAIBirthmark, 4, 0)
	w.WriteTaggedBool(savegame.TagUnitAIGroupFlag, false, false)
	manual, err := enc.Bytes()
	require.NoError(t, err)

	assert.Equal(t, manual, reflected)
}

func TestCodec_DefaultsOnMissingFields(t *testing.T) {
	cat := testCatalog(t)
	c := NewDefault()

	data, err := c.Encode(cat, savegame.DefaultConfig(), &gameMap{})
	require.NoError(t, err)

	got := gameMap{Width: 12, Plots: []plot{{}}}
	_, err = c.Decode(cat, savegame.DefaultConfig(), data, &got)
	require.NoError(t, err)
	// WrapX and Name differ from their defaults, so they were written.
	assert.Equal(t, gameMap{Name: "", Size: 0}, got)

	var u unit
	data, err = c.Encode(cat, savegame.DefaultConfig(), &unit{Type: catalog.None, Facing: -1, Moves: 3})
	require.NoError(t, err)
	_, err = c.Decode(cat, savegame.DefaultConfig(), data, &u)
	require.NoError(t, err)
	assert.Equal(t, catalog.None, u.Type)
	assert.Equal(t, int32(-1), u.Facing)
	assert.Equal(t, uint16(3), u.Moves)
	assert.Nil(t, u.AI)
	assert.Equal(t, []int8{0, 0}, u.Promotions)
}

type yieldPlot struct {
	Yields   []int16           `save:"plot.yields,sparse,len=3,default=1"`
	Culture  []int32           `save:"plot.culture,sparse"`
	Revealed savegame.BitArray `save:"plot.revealed"`
}

func TestCodec_ElidedArraysKeepLength(t *testing.T) {
	cat := testCatalog(t)
	c := NewDefault()

	data, err := c.Encode(cat, savegame.DefaultConfig(), &yieldPlot{
		Yields:   []int16{1, 1, 1},
		Culture:  []int32{0, 0, 0, 0},
		Revealed: savegame.NewBitArray(5),
	})
	require.NoError(t, err)

	t.Run("sized by option", func(t *testing.T) {
		var got yieldPlot
		_, err := c.Decode(cat, savegame.DefaultConfig(), data, &got)
		require.NoError(t, err)
		assert.Equal(t, []int16{1, 1, 1}, got.Yields)
		assert.Nil(t, got.Culture)
		assert.Zero(t, got.Revealed.Len())
	})

	t.Run("sized by destination", func(t *testing.T) {
		stale := savegame.NewBitArray(5)
		stale.Set(1, true)
		got := yieldPlot{
			Culture:  []int32{9, 9, 9, 9},
			Revealed: stale,
		}
		_, err := c.Decode(cat, savegame.DefaultConfig(), data, &got)
		require.NoError(t, err)
		assert.Equal(t, []int16{1, 1, 1}, got.Yields)
		assert.Equal(t, []int32{0, 0, 0, 0}, got.Culture)
		assert.Equal(t, savegame.NewBitArray(5), got.Revealed)
	})
}

type order interface {
	isOrder()
}

type moveOrder struct {
	X int16 `save:"unit.x"`
	Y int16 `save:"unit.y"`
}

func (moveOrder) isOrder() {}

type fortifyOrder struct {
	Turns int32 `save:"unit.moves"`
}

func (*fortifyOrder) isOrder() {}

type orders struct {
	Current order `save:"unit.ai"`
	Next    order `save:"plot.unit"`
	None    order `save:"map.area"`
}

func TestCodec_InterfaceFields(t *testing.T) {
	cat := testCatalog(t)
	c := NewDefault()
	require.NoError(t, c.RegisterType(moveOrder{}))
	c.SkipRegistrations(3)
	require.NoError(t, c.RegisterType(&fortifyOrder{}))

	want := orders{
		Current: moveOrder{X: 4, Y: 5},
		Next:    &fortifyOrder{Turns: 2},
	}
	data, err := c.Encode(cat, savegame.DefaultConfig(), &want)
	require.NoError(t, err)

	var got orders
	_, err = c.Decode(cat, savegame.DefaultConfig(), data, &got)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	t.Run("unregistered on write", func(t *testing.T) {
		_, err := NewDefault().Encode(cat, savegame.DefaultConfig(), &want)
		require.ErrorIs(t, err, ErrTypeNotFound)
	})

	t.Run("unregistered on read", func(t *testing.T) {
		other := NewDefault()
		require.NoError(t, other.RegisterType(moveOrder{}))
		var got orders
		_, err := other.Decode(cat, savegame.DefaultConfig(), data, &got)
		require.ErrorIs(t, err, ErrTypeNotFound)
	})
}

func TestCodec_RegisterType(t *testing.T) {
	c := NewDefault()
	require.NoError(t, c.RegisterType(moveOrder{}))
	require.ErrorIs(t, c.RegisterType(moveOrder{}), ErrCantRegisterType)
	require.NoError(t, c.RegisterType(&moveOrder{}))
	require.ErrorIs(t, c.RegisterType(3), ErrCantRegisterType)
	require.ErrorIs(t, c.RegisterType(nil), ErrCantRegisterType)
}

func TestCodec_CatalogEdited(t *testing.T) {
	c := NewDefault()
	want := testMap()
	data, err := c.Encode(testCatalog(t), savegame.DefaultConfig(), want)
	require.NoError(t, err)

	edited := newCatalog(t, map[catalog.Category][]string{
		catalog.Unit:      {"UNIT_SOLDIER", "UNIT_COLONIST"},
		catalog.UnitAI:    {"UNITAI_DEFENSIVE"},
		catalog.Terrain:   {"TERRAIN_TUNDRA", "TERRAIN_GRASS"},
		catalog.Promotion: {"PROMOTION_AMBUSH", "PROMOTION_COMBAT1"},
		catalog.WorldSize: {"WORLDSIZE_LARGE"},
	})
	var got gameMap
	dec, err := c.Decode(edited, savegame.DefaultConfig(), data, &got)
	require.NoError(t, err)
	assert.True(t, dec.CatalogChanged())
	assert.Zero(t, dec.Unresolved())

	assert.Equal(t, int32(0), got.Size)
	assert.Equal(t, catalog.Index(0), got.Plots[0].Terrain)
	units := got.Plots[0].Units
	require.Len(t, units, 2)
	assert.Equal(t, catalog.Index(0), units[0].Type)
	assert.Equal(t, catalog.Index(1), units[1].Type)
	assert.Equal(t, []int8{1, 0}, units[0].Promotions)
	require.NotNil(t, units[0].AI)
	assert.Equal(t, int32(0), units[0].AI.Type)
}

func TestCodec_BadStructs(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		name string
		val  any
		want error
	}{
		{
			name: "unknown tag",
			val: &struct {
				A int32 `save:"unit.nothing"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "retired tag",
			val: &struct {
				A int32 `save:"unit.fortify_turns"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "bad length",
			val: &struct {
				A []int16 `save:"plot.yields,sparse,len=-1"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "reused tag",
			val: &struct {
				A int32 `save:"unit.id"`
				B int32 `save:"unit.id"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "index without category",
			val: &struct {
				A catalog.Index `save:"unit.type"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "unknown option",
			val: &struct {
				A int32 `save:"unit.id,compact"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "bad default",
			val: &struct {
				A int32 `save:"unit.id,default=x"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "plain integer slice",
			val: &struct {
				A []int32 `save:"plot.culture"`
			}{},
			want: ErrBadFieldTag,
		},
		{
			name: "float",
			val: &struct {
				A float64 `save:"unit.moves"`
			}{},
			want: ErrUnsupportedType,
		},
		{
			name: "not a struct",
			val:  42,
			want: ErrUnsupportedType,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewDefault().Encode(cat, savegame.DefaultConfig(), test.val)
			require.ErrorIs(t, err, test.want)
		})
	}

	var m gameMap
	err := NewDefault().Unmarshal(nil, m)
	require.ErrorIs(t, err, ErrNeedPointer)
}

func TestCodec_MaxSliceLen(t *testing.T) {
	cat := testCatalog(t)
	m := &gameMap{Plots: make([]plot, 3)}

	_, err := New(2).Encode(cat, savegame.DefaultConfig(), m)
	require.ErrorIs(t, err, ErrMaxSliceLenExceeded)

	data, err := New(3).Encode(cat, savegame.DefaultConfig(), m)
	require.NoError(t, err)
	var got gameMap
	_, err = New(2).Decode(cat, savegame.DefaultConfig(), data, &got)
	require.ErrorIs(t, err, ErrMaxSliceLenExceeded)
}
