// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/luxfi/savegame/catalog"
)

const (
	// noSlot is the persisted form of catalog.None.
	noSlot = ^uint32(0)
	// unresolvedSlot is the persisted form of catalog.Unresolved, so a value
	// loaded from an older catalog can be saved again as it is.
	unresolvedSlot = noSlot - 1
)

// slotTable is the write-side table of one category. Slots are assigned in
// order of first reference and never reused.
type slotTable struct {
	names []string
	slots map[catalog.Index]uint32
}

// translationWriter collects the stable names referenced by a write pass.
type translationWriter struct {
	catalog catalog.Catalog
	tables  map[catalog.Category]*slotTable
}

func newTranslationWriter(c catalog.Catalog) *translationWriter {
	return &translationWriter{
		catalog: c,
		tables:  make(map[catalog.Category]*slotTable),
	}
}

// slot returns the slot of index i in category c, assigning the next free
// one on first reference. The catalog is consulted once per distinct index.
func (t *translationWriter) slot(c catalog.Category, i catalog.Index) (uint32, error) {
	switch i {
	case catalog.None:
		return noSlot, nil
	case catalog.Unresolved:
		return unresolvedSlot, nil
	}
	table := t.tables[c]
	if table == nil {
		table = &slotTable{slots: make(map[catalog.Index]uint32)}
		t.tables[c] = table
	}
	if s, ok := table.slots[i]; ok {
		return s, nil
	}
	name, ok := t.catalog.Name(c, i)
	if !ok {
		return 0, fmt.Errorf("%w: %s index %d", ErrUnknownContent, c, i)
	}
	s := uint32(len(table.names))
	table.names = append(table.names, name)
	table.slots[i] = s
	return s, nil
}

// categories returns the used categories in ascending order.
func (t *translationWriter) categories() []catalog.Category {
	used := make([]catalog.Category, 0, len(t.tables))
	for c := range t.tables {
		used = append(used, c)
	}
	slices.Sort(used)
	return used
}

// pack writes every used table: the category count, then per category its
// number, its slot count and one name per slot in slot order.
func (t *translationWriter) pack(p *Packer) {
	used := t.categories()
	p.PackShort(uint16(len(used)))
	for _, c := range used {
		table := t.tables[c]
		p.PackShort(uint16(c))
		p.PackInt(uint32(len(table.names)))
		for _, name := range table.names {
			p.PackStr(name)
		}
	}
}

// TableEntry is one slot of a loaded translation table.
type TableEntry struct {
	Name  string
	Index catalog.Index
}

// translationReader maps the slots of a loaded save onto the current
// catalog.
type translationReader struct {
	tables     map[catalog.Category][]TableEntry
	unresolved int
}

// unpackTranslation reads the tables written by translationWriter.pack and
// resolves every name once against c.
func unpackTranslation(p *Packer, c catalog.Catalog, log *slog.Logger) *translationReader {
	t := &translationReader{tables: make(map[catalog.Category][]TableEntry)}
	count := int(p.UnpackShort())
	for j := 0; j < count && !p.Errored(); j++ {
		category := catalog.Category(p.UnpackShort())
		n := int(p.UnpackInt())
		if p.Errored() {
			break
		}
		// Each name needs at least its length prefix.
		if n > p.Remaining()/ShortLen {
			p.Add(fmt.Errorf("%w: %d slots for %s", ErrInsufficientLength, n, category))
			break
		}
		entries := make([]TableEntry, n)
		for s := range entries {
			name := p.UnpackStr()
			if p.Errored() {
				break
			}
			entries[s] = TableEntry{Name: name, Index: catalog.Unresolved}
			if !category.Valid() {
				continue
			}
			if index, ok := c.Index(category, name); ok {
				entries[s].Index = index
				continue
			}
			t.unresolved++
			log.Warn("saved content no longer in catalog",
				slog.String("category", category.String()),
				slog.String("name", name),
			)
		}
		if !category.Valid() {
			log.Debug("ignoring table of unknown category",
				slog.Int("category", int(category)),
				slog.Int("slots", n),
			)
		}
		t.tables[category] = entries
		log.Debug("loaded translation table",
			slog.String("category", category.String()),
			slog.Int("slots", n),
		)
	}
	return t
}

// resolve returns the current index bound to slot s of category c.
func (t *translationReader) resolve(c catalog.Category, s uint32) (catalog.Index, error) {
	switch s {
	case noSlot:
		return catalog.None, nil
	case unresolvedSlot:
		return catalog.Unresolved, nil
	}
	table := t.tables[c]
	if int64(s) >= int64(len(table)) {
		return catalog.Unresolved, fmt.Errorf("%w: %s slot %d of %d", ErrBadSlot, c, s, len(table))
	}
	return table[s].Index, nil
}
