// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
	"github.com/luxfi/savegame/compress"
	"github.com/luxfi/savegame/inspect"
)

const yamlCatalog = `
terrain: [TERRAIN_DESERT, TERRAIN_GRASS]
bonus: [BONUS_WHEAT]
`

const jsonCatalog = `{
	// reordered and trimmed
	"terrain": ["TERRAIN_DESERT", "TERRAIN_GRASS"],
	"bonus": ["BONUS_WHEAT"],
}`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// fixture writes a save against a catalog that still has BONUS_OX.
func fixture(t *testing.T) (dir, save string) {
	t.Helper()
	before := catalog.NewStatic()
	require.NoError(t, before.Set(catalog.Terrain, "TERRAIN_GRASS", "TERRAIN_DESERT"))
	require.NoError(t, before.Set(catalog.Bonus, "BONUS_OX", "BONUS_WHEAT"))

	enc := savegame.NewEncoder(before, savegame.Config{Compression: compress.LZ4})
	w := enc.Writer()
	require.NoError(t, w.WriteObject(savegame.TagMapPlot, func(plot savegame.Writer) error {
		plot.WriteTaggedContentIndex(savegame.TagPlotTerrain, catalog.Terrain, 1, catalog.None)
		plot.WriteTaggedContentIndex(savegame.TagPlotBonus, catalog.Bonus, 0, catalog.None)
		return nil
	}))
	data, err := enc.Bytes()
	require.NoError(t, err)

	dir = t.TempDir()
	return dir, writeFile(t, dir, "game.sav", data)
}

func TestRun_JSON(t *testing.T) {
	dir, save := fixture(t)
	cat := writeFile(t, dir, "content.yaml", []byte(yamlCatalog))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--catalog", cat, "--format", "json", save}, nil, &stdout, &stderr))

	var report inspect.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.True(t, report.CatalogChanged)
	assert.Equal(t, 1, report.Unresolved)
	assert.Equal(t, "lz4", report.Compression)
	require.Len(t, report.Tables, 2)

	// Not a terminal, so the warning is logged as JSON.
	assert.Contains(t, stderr.String(), `"msg":"save was written against a different catalog"`)
}

func TestRun_CBOR(t *testing.T) {
	dir, save := fixture(t)
	cat := writeFile(t, dir, "content.jsonc", []byte(jsonCatalog))

	var stdout bytes.Buffer
	require.NoError(t, run([]string{"--catalog", cat, "--format", "cbor", "--fields", save}, nil, &stdout, &bytes.Buffer{}))

	var report inspect.Report
	require.NoError(t, cbor.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 1, report.Unresolved)
	require.Len(t, report.Fields, 3)
	assert.Equal(t, "map.plot", report.Fields[0].Name)
}

func TestRun_TextFromStdin(t *testing.T) {
	dir, save := fixture(t)
	cat := writeFile(t, dir, "content.yml", []byte(yamlCatalog))
	data, err := os.ReadFile(save)
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, run([]string{"--catalog", cat, "--fields", "-"}, bytes.NewReader(data), &stdout, &bytes.Buffer{}))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "-\n"))
	assert.Contains(t, out, "unresolved:  1\n")
	assert.Contains(t, out, "BONUS_OX (unresolved)")
	assert.Contains(t, out, "TERRAIN_DESERT -> 0")
	assert.Contains(t, out, "map.plot {}")
	assert.Contains(t, out, "plot.terrain fixed32 = 0")
	assert.NotContains(t, out, "\x1b[")
}

func TestRun_Errors(t *testing.T) {
	dir, save := fixture(t)
	cat := writeFile(t, dir, "content.yaml", []byte(yamlCatalog))
	toml := writeFile(t, dir, "content.toml", nil)
	corrupt := writeFile(t, dir, "corrupt.sav", []byte{1, 2, 3})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing catalog",
			args: []string{save},
			want: "--catalog is required",
		},
		{
			name: "unknown catalog format",
			args: []string{"--catalog", toml, save},
			want: "unsupported catalog format",
		},
		{
			name: "no saves",
			args: []string{"--catalog", cat},
			want: "no save files given",
		},
		{
			name: "unknown output format",
			args: []string{"--catalog", cat, "--format", "xml", save},
			want: `unknown format "xml"`,
		},
		{
			name: "bad log level",
			args: []string{"--catalog", cat, "--log-level", "loud", save},
			want: "invalid --log-level",
		},
		{
			name: "missing save",
			args: []string{"--catalog", cat, filepath.Join(dir, "nope.sav")},
			want: "reading save",
		},
		{
			name: "corrupt save",
			args: []string{"--catalog", cat, corrupt},
			want: "inspecting " + corrupt,
		},
		{
			name: "unknown flag",
			args: []string{"--catalog", cat, "--bogus"},
			want: "unknown flag",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, nil, &bytes.Buffer{}, &bytes.Buffer{})
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	require.NoError(t, run([]string{"--help"}, nil, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "savedump - inspect savegame files")
	assert.Contains(t, stderr.String(), "--max-fields")
}

func TestRenderText_Truncated(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderText(&out, "x.sav", &inspect.Report{
		Size:       2048,
		PayloadLen: 4096,
		Fields: []inspect.Field{
			{Depth: 0, Offset: 2, Name: "tag(5000)", Wire: "bytes", Len: 1500},
		},
		Truncated: true,
	}, false))
	assert.Contains(t, out.String(), "size:        2.0 kB (4.1 kB payload, )")
	assert.Contains(t, out.String(), "@2 tag(5000) 1.5 kB")
	assert.Contains(t, out.String(), "field listing truncated")
}
