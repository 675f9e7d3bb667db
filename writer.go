// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"

	"github.com/luxfi/savegame/catalog"
)

// Writer is the write scope of one object. It is a lightweight view onto
// the Encoder's buffer: pass it by value into the serializer of a nested
// object, which may assign its own class type without affecting the
// caller's copy. A Writer must not outlive the call it was handed to.
type Writer struct {
	enc   *Encoder
	class ClassType
	depth int
}

// AssignClassType records which kind of object this scope writes.
func (w *Writer) AssignClassType(c ClassType) {
	w.class = c
}

// ClassType returns the class type of this scope.
func (w *Writer) ClassType() ClassType {
	return w.class
}

// Err returns the first error of the pass.
func (w *Writer) Err() error {
	return w.enc.Err()
}

func (w *Writer) packer() *Packer {
	return w.enc.packer()
}

func (w *Writer) fail(err error) {
	w.packer().Add(fmt.Errorf("%w (in %s scope)", err, w.class))
}

func (w *Writer) writeKey(t Tag, wt WireType) {
	if t == TagEnd || t > MaxTag {
		w.fail(fmt.Errorf("%w: tag %d", ErrBadKey, uint16(t)))
		return
	}
	if t.Retired() {
		w.fail(fmt.Errorf("%w: %s is retired", ErrBadKey, t))
		return
	}
	w.packer().PackShort(fieldKey(t, wt))
}

// beginBytes writes the key of a WireBytes field and a length placeholder.
// The returned mark is handed to endBytes once the payload is written.
func (w *Writer) beginBytes(t Tag) int {
	w.writeKey(t, WireBytes)
	p := w.packer()
	mark := p.Offset
	p.PackInt(0)
	return mark
}

func (w *Writer) endBytes(mark int) {
	p := w.packer()
	p.PutIntAt(mark, uint32(p.Offset-mark-IntLen))
}

// WriteBool writes a bool as one byte.
func (w *Writer) WriteBool(v bool) { w.packer().PackBool(v) }

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) { w.packer().PackByte(byte(v)) }

// WriteUint8 writes a byte.
func (w *Writer) WriteUint8(v uint8) { w.packer().PackByte(v) }

// WriteInt16 writes a big-endian int16.
func (w *Writer) WriteInt16(v int16) { w.packer().PackShort(uint16(v)) }

// WriteUint16 writes a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) { w.packer().PackShort(v) }

// WriteInt32 writes a big-endian int32.
func (w *Writer) WriteInt32(v int32) { w.packer().PackInt(uint32(v)) }

// WriteUint32 writes a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) { w.packer().PackInt(v) }

// WriteInt64 writes a big-endian int64.
func (w *Writer) WriteInt64(v int64) { w.packer().PackLong(uint64(v)) }

// WriteUint64 writes a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) { w.packer().PackLong(v) }

// WriteString writes a narrow string.
func (w *Writer) WriteString(v string) {
	w.packer().PackStr(v)
}

// WriteWString writes a wide (UTF-16) string.
func (w *Writer) WriteWString(v string) {
	w.packer().PackWStr(v)
}

// WriteBitArray writes the bit count and the packed bits.
func (w *Writer) WriteBitArray(b BitArray) {
	packBits(w.packer(), b)
}

// WriteContentIndex writes the translation slot of index i in category c.
// catalog.None and catalog.Unresolved are persisted as reserved slots.
func (w *Writer) WriteContentIndex(c catalog.Category, i catalog.Index) {
	if w.packer().Errored() {
		return
	}
	slot, err := w.enc.translation.slot(c, i)
	if err != nil {
		w.fail(err)
		return
	}
	w.packer().PackInt(slot)
}

// WriteEnum writes v according to the strategy of e.
func (w *Writer) WriteEnum(e Enum, v int32) {
	if !e.Valid() {
		w.fail(fmt.Errorf("%w: %d", ErrUnknownEnum, uint8(e)))
		return
	}
	if c, ok := e.Category(); ok {
		w.WriteContentIndex(c, catalog.Index(v))
		return
	}
	w.WriteInt32(v)
}

// WriteSparseArray writes values in whichever of the dense or the
// (position, value) layout is smaller. An array whose elements all equal
// def costs only its header.
func WriteSparseArray[T Integer](w *Writer, values []T, def T) {
	packSparse(w.packer(), values, def)
}

func wireFixed(width int) WireType {
	switch width {
	case ByteLen:
		return WireFixed8
	case ShortLen:
		return WireFixed16
	case IntLen:
		return WireFixed32
	default:
		return WireFixed64
	}
}

func writeTaggedFixed[T Integer](w *Writer, t Tag, v, def T) {
	if v == def {
		return
	}
	width := elemLen[T]()
	w.writeKey(t, wireFixed(width))
	packElem(w.packer(), width, v)
}

// The WriteTagged methods emit nothing when the value equals the default,
// so a save grows with how far its objects deviate from their defaults.

// WriteTaggedInt8 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedInt8(t Tag, v, def int8) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedUint8 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedUint8(t Tag, v, def uint8) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedInt16 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedInt16(t Tag, v, def int16) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedUint16 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedUint16(t Tag, v, def uint16) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedInt32 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedInt32(t Tag, v, def int32) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedUint32 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedUint32(t Tag, v, def uint32) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedInt64 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedInt64(t Tag, v, def int64) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedUint64 writes v as field t unless it equals def.
func (w *Writer) WriteTaggedUint64(t Tag, v, def uint64) { writeTaggedFixed(w, t, v, def) }

// WriteTaggedBool writes v as field t unless it equals def.
func (w *Writer) WriteTaggedBool(t Tag, v, def bool) {
	if v == def {
		return
	}
	w.writeKey(t, WireFixed8)
	w.packer().PackBool(v)
}

// WriteTaggedString writes the narrow string v as field t unless it equals def.
func (w *Writer) WriteTaggedString(t Tag, v, def string) {
	if v == def {
		return
	}
	mark := w.beginBytes(t)
	w.packer().PackStr(v)
	w.endBytes(mark)
}

// WriteTaggedWString writes the wide string v as field t unless it equals def.
func (w *Writer) WriteTaggedWString(t Tag, v, def string) {
	if v == def {
		return
	}
	mark := w.beginBytes(t)
	w.packer().PackWStr(v)
	w.endBytes(mark)
}

// WriteTaggedBitArray emits b only when at least one bit is set.
func (w *Writer) WriteTaggedBitArray(t Tag, b BitArray) {
	if !b.Any() {
		return
	}
	mark := w.beginBytes(t)
	packBits(w.packer(), b)
	w.endBytes(mark)
}

// WriteTaggedContentIndex emits the slot of i unless i equals def.
func (w *Writer) WriteTaggedContentIndex(t Tag, c catalog.Category, i, def catalog.Index) {
	if i == def {
		return
	}
	w.writeKey(t, WireFixed32)
	w.WriteContentIndex(c, i)
}

// WriteTaggedEnum writes v of enum e as field t unless it equals def.
func (w *Writer) WriteTaggedEnum(t Tag, e Enum, v, def int32) {
	if v == def {
		return
	}
	w.writeKey(t, WireFixed32)
	w.WriteEnum(e, v)
}

// WriteTaggedSparseArray emits values only when an element differs from
// def.
func WriteTaggedSparseArray[T Integer](w *Writer, t Tag, values []T, def T) {
	if countNonDefault(values, def) == 0 {
		return
	}
	mark := w.beginBytes(t)
	packSparse(w.packer(), values, def)
	w.endBytes(mark)
}

// WriteCategoryArray emits an array indexed by the content indices of
// category c. Positions are persisted as translation slots so the array
// survives catalog edits. Nothing is emitted when every element equals def.
func WriteCategoryArray[T Integer](w *Writer, t Tag, c catalog.Category, values []T, def T) {
	k := countNonDefault(values, def)
	if k == 0 {
		return
	}
	mark := w.beginBytes(t)
	p := w.packer()
	p.PackInt(uint32(k))
	width := elemLen[T]()
	for i, v := range values {
		if v == def {
			continue
		}
		w.WriteContentIndex(c, catalog.Index(i))
		packElem(p, width, v)
	}
	w.endBytes(mark)
}

// WriteObject writes a nested object. fn receives a child scope bound to the
// same buffer; the object is closed with an end marker when fn returns.
// Objects nest at most MaxDepth deep.
func (w *Writer) WriteObject(t Tag, fn func(Writer) error) error {
	if w.depth+1 > MaxDepth {
		w.fail(fmt.Errorf("%w: %d", ErrMaxDepthExceeded, w.depth+1))
		return w.Err()
	}
	w.writeKey(t, WireObject)
	child := *w
	child.depth++
	if err := fn(child); err != nil {
		w.packer().Add(err)
		return err
	}
	w.packer().PackShort(endKey)
	return w.Err()
}
