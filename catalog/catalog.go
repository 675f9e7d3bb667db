// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package catalog describes the game content a save refers to.
//
// A content index is only meaningful against the catalog that is currently
// loaded. Stable names are what survive a catalog edit, so the savegame codec
// only ever persists names and resolves them back through a Catalog.
package catalog

import (
	"errors"
	"math"
)

//go:generate mockgen -package=catalogmock -destination=catalogmock/catalog.go -mock_names=Catalog=Catalog . Catalog

var (
	ErrUnknownCategory = errors.New("unknown content category")
	ErrDuplicateName   = errors.New("duplicate content name")
	ErrEmptyName       = errors.New("empty content name")
)

// Index is the position of an item within its category in the currently
// loaded catalog.
type Index int32

const (
	// None is the persisted "no item" value.
	None Index = -1
	// Unresolved is returned when a saved name no longer exists in the
	// loaded catalog.
	Unresolved Index = math.MinInt32
)

// Valid reports whether i refers to an item.
func (i Index) Valid() bool {
	return i >= 0
}

// Catalog resolves content indices to stable names and back. It must not
// change while a save or load is in progress.
type Catalog interface {
	// Name returns the stable name of item i in category c.
	Name(c Category, i Index) (string, bool)
	// Index returns the current index of the item named name in category c.
	Index(c Category, name string) (Index, bool)
	// Len returns the number of items in category c.
	Len(c Category) int
}
