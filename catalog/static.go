// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var _ Catalog = (*Static)(nil)

// Static is an in-memory catalog built from ordered name lists.
type Static struct {
	names [NumCategories][]string
	index [NumCategories]map[string]Index
}

// NewStatic returns an empty catalog.
func NewStatic() *Static {
	return &Static{}
}

// Set replaces the items of category c. The position of each name is its
// index.
func (s *Static) Set(c Category, names ...string) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, uint16(c))
	}
	index := make(map[string]Index, len(names))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("%w: %s[%d]", ErrEmptyName, c, i)
		}
		if _, exists := index[name]; exists {
			return fmt.Errorf("%w: %s %q", ErrDuplicateName, c, name)
		}
		index[name] = Index(i)
	}
	s.names[c] = append([]string(nil), names...)
	s.index[c] = index
	return nil
}

// Name implements Catalog.
func (s *Static) Name(c Category, i Index) (string, bool) {
	if !c.Valid() || i < 0 || int(i) >= len(s.names[c]) {
		return "", false
	}
	return s.names[c][i], true
}

// Index implements Catalog.
func (s *Static) Index(c Category, name string) (Index, bool) {
	if !c.Valid() {
		return Unresolved, false
	}
	i, ok := s.index[c][name]
	if !ok {
		return Unresolved, false
	}
	return i, true
}

// Len implements Catalog.
func (s *Static) Len(c Category) int {
	if !c.Valid() {
		return 0
	}
	return len(s.names[c])
}

// LoadYAML reads a catalog from a document mapping category names to ordered
// lists of stable names:
//
//	unit: [UNIT_COLONIST, UNIT_SOLDIER]
//	yield: [YIELD_FOOD, YIELD_LUMBER]
func LoadYAML(r io.Reader) (*Static, error) {
	var doc map[string][]string
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return fromDocument(doc)
}

// LoadJSON reads the same document as LoadYAML written as JSON. Comments
// and trailing commas are allowed.
func LoadJSON(r io.Reader) (*Static, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var doc map[string][]string
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc map[string][]string) (*Static, error) {
	s := NewStatic()
	for key, names := range doc {
		c, err := ParseCategory(key)
		if err != nil {
			return nil, err
		}
		if err := s.Set(c, names...); err != nil {
			return nil, err
		}
	}
	return s, nil
}
