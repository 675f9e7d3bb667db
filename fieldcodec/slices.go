// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fieldcodec

import (
	"reflect"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
)

// sliceOps bridges reflected integer slices to the generic array helpers.
type sliceOps struct {
	writeSparse   func(w *savegame.Writer, t savegame.Tag, v any, def int64)
	readSparse    func(r *savegame.Reader, t savegame.Tag, n int, def int64) any
	writeCategory func(w *savegame.Writer, t savegame.Tag, c catalog.Category, v any, def int64)
	readCategory  func(r *savegame.Reader, t savegame.Tag, c catalog.Category, def int64) any
}

func opsFor[T savegame.Integer]() sliceOps {
	return sliceOps{
		writeSparse: func(w *savegame.Writer, t savegame.Tag, v any, def int64) {
			savegame.WriteTaggedSparseArray(w, t, v.([]T), T(def))
		},
		readSparse: func(r *savegame.Reader, t savegame.Tag, n int, def int64) any {
			return savegame.ReadTaggedSparseArray(r, t, n, T(def))
		},
		writeCategory: func(w *savegame.Writer, t savegame.Tag, c catalog.Category, v any, def int64) {
			savegame.WriteCategoryArray(w, t, c, v.([]T), T(def))
		},
		readCategory: func(r *savegame.Reader, t savegame.Tag, c catalog.Category, def int64) any {
			return savegame.ReadCategoryArray(r, t, c, T(def))
		},
	}
}

// sliceOpsByElem only holds unnamed element types: a []T can not be viewed
// as a slice of its underlying type.
var sliceOpsByElem = map[reflect.Type]sliceOps{
	reflect.TypeOf(int8(0)):   opsFor[int8](),
	reflect.TypeOf(int16(0)):  opsFor[int16](),
	reflect.TypeOf(int32(0)):  opsFor[int32](),
	reflect.TypeOf(int64(0)):  opsFor[int64](),
	reflect.TypeOf(uint8(0)):  opsFor[uint8](),
	reflect.TypeOf(uint16(0)): opsFor[uint16](),
	reflect.TypeOf(uint32(0)): opsFor[uint32](),
	reflect.TypeOf(uint64(0)): opsFor[uint64](),
}
