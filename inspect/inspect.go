// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package inspect describes the contents of a save without knowing the
// objects it holds.
package inspect

import (
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
)

// DefaultMaxFields bounds the number of fields listed in a report.
const DefaultMaxFields = 10_000

var errEnoughFields = errors.New("field limit reached")

// Options selects what Inspect reports.
type Options struct {
	// Fields lists the tagged stream field by field.
	Fields bool
	// MaxFields bounds the listing; 0 means DefaultMaxFields.
	MaxFields int
}

// Slot is one entry of a translation table.
type Slot struct {
	Slot     uint32 `json:"slot"`
	Name     string `json:"name"`
	Index    int32  `json:"index"`
	Resolved bool   `json:"resolved"`
}

// Table is the translation table of one category.
type Table struct {
	ID       uint16 `json:"id"`
	Category string `json:"category"`
	Slots    []Slot `json:"slots"`
}

// Field is one field of the tagged stream.
type Field struct {
	Depth  int    `json:"depth"`
	Offset int    `json:"offset"`
	Tag    uint16 `json:"tag"`
	Name   string `json:"name"`
	Known  bool   `json:"known"`
	Wire   string `json:"wire"`
	Len    int    `json:"len,omitempty"`
	Value  uint64 `json:"value,omitempty"`
}

// Report describes one save.
type Report struct {
	Size           int     `json:"size"`
	Version        uint16  `json:"version"`
	Compression    string  `json:"compression"`
	PayloadLen     uint32  `json:"payload_len"`
	SavedCatalog   string  `json:"saved_catalog"`
	CurrentCatalog string  `json:"current_catalog"`
	CatalogChanged bool    `json:"catalog_changed"`
	Unresolved     int     `json:"unresolved"`
	Tables         []Table `json:"tables"`
	Fields         []Field `json:"fields,omitempty"`
	// Truncated is set when the field listing hit its limit.
	Truncated bool `json:"truncated,omitempty"`
}

// Inspect decodes the envelope and translation tables of data against cat.
func Inspect(data []byte, cat catalog.Catalog, cfg savegame.Config, opts Options) (*Report, error) {
	dec := savegame.NewDecoder(cat, cfg)
	if err := dec.LoadBytes(data); err != nil {
		return nil, err
	}

	h := dec.Header()
	current := catalog.Fingerprint(cat)
	report := &Report{
		Size:           len(data),
		Version:        h.Version,
		Compression:    h.Compression.String(),
		PayloadLen:     h.PayloadLen,
		SavedCatalog:   hex.EncodeToString(h.Catalog[:]),
		CurrentCatalog: hex.EncodeToString(current[:]),
		CatalogChanged: dec.CatalogChanged(),
		Unresolved:     dec.Unresolved(),
		Tables:         tables(dec.Tables()),
	}
	if !opts.Fields {
		return report, nil
	}

	limit := opts.MaxFields
	if limit <= 0 {
		limit = DefaultMaxFields
	}
	err := dec.Walk(func(f savegame.Field) error {
		if len(report.Fields) == limit {
			return errEnoughFields
		}
		report.Fields = append(report.Fields, Field{
			Depth:  f.Depth,
			Offset: f.Offset,
			Tag:    uint16(f.Tag),
			Name:   f.Tag.String(),
			Known:  f.Tag.Known(),
			Wire:   f.Wire.String(),
			Len:    f.Len,
			Value:  f.Value,
		})
		return nil
	})
	switch {
	case errors.Is(err, errEnoughFields):
		report.Truncated = true
	case err != nil:
		return report, fmt.Errorf("walking fields: %w", err)
	}
	return report, nil
}

func tables(loaded map[catalog.Category][]savegame.TableEntry) []Table {
	out := make([]Table, 0, len(loaded))
	for _, c := range slices.Sorted(maps.Keys(loaded)) {
		entries := loaded[c]
		t := Table{
			ID:       uint16(c),
			Category: c.String(),
			Slots:    make([]Slot, len(entries)),
		}
		for s, e := range entries {
			t.Slots[s] = Slot{
				Slot:     uint32(s),
				Name:     e.Name,
				Index:    int32(e.Index),
				Resolved: e.Index.Valid(),
			}
		}
		out = append(out, t)
	}
	return out
}
