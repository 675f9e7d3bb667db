// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/luxfi/savegame/inspect"
)

var (
	headingStyle    = lipgloss.NewStyle().Bold(true)
	unresolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderText writes a human readable report. Styling is only applied when
// styled is set, so piped output stays plain.
func renderText(w io.Writer, path string, r *inspect.Report, styled bool) error {
	heading := func(s string) string {
		if styled {
			return headingStyle.Render(s)
		}
		return s
	}
	missing := func(s string) string {
		if styled {
			return unresolvedStyle.Render(s)
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", heading(path))
	fmt.Fprintf(&b, "  size:        %s (%s payload, %s)\n",
		humanize.Bytes(uint64(r.Size)), humanize.Bytes(uint64(r.PayloadLen)), r.Compression)
	fmt.Fprintf(&b, "  version:     %d\n", r.Version)
	fmt.Fprintf(&b, "  catalog:     %s\n", r.SavedCatalog)
	if r.CatalogChanged {
		fmt.Fprintf(&b, "  current:     %s (changed)\n", r.CurrentCatalog)
	}
	fmt.Fprintf(&b, "  unresolved:  %d\n", r.Unresolved)

	if len(r.Tables) > 0 {
		fmt.Fprintf(&b, "%s\n", heading("tables"))
	}
	for _, t := range r.Tables {
		fmt.Fprintf(&b, "  %s (%d slots)\n", t.Category, len(t.Slots))
		for _, s := range t.Slots {
			if s.Resolved {
				fmt.Fprintf(&b, "    %4d  %s -> %d\n", s.Slot, s.Name, s.Index)
				continue
			}
			fmt.Fprintf(&b, "    %4d  %s\n", s.Slot, missing(s.Name+" (unresolved)"))
		}
	}

	if len(r.Fields) > 0 {
		fmt.Fprintf(&b, "%s\n", heading("fields"))
	}
	for _, f := range r.Fields {
		indent := strings.Repeat("  ", f.Depth+1)
		switch {
		case f.Wire == "object":
			fmt.Fprintf(&b, "%s@%d %s {}\n", indent, f.Offset, f.Name)
		case f.Wire == "bytes":
			fmt.Fprintf(&b, "%s@%d %s %s\n", indent, f.Offset, f.Name, humanize.Bytes(uint64(f.Len)))
		default:
			fmt.Fprintf(&b, "%s@%d %s %s = %d\n", indent, f.Offset, f.Name, f.Wire, f.Value)
		}
	}
	if r.Truncated {
		fmt.Fprintf(&b, "  ... field listing truncated\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
