// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"
	"log/slog"

	"github.com/luxfi/savegame/catalog"
)

// Reader is the read scope of one object and the mirror of Writer. Fields
// must be read in the order they were written; a field that is not next in
// the stream reads as its default.
type Reader struct {
	dec   *Decoder
	class ClassType
	depth int
}

// AssignClassType records which kind of object this scope reads.
func (r *Reader) AssignClassType(c ClassType) {
	r.class = c
}

// ClassType returns the class type of this scope.
func (r *Reader) ClassType() ClassType {
	return r.class
}

// Err returns the first error of the pass.
func (r *Reader) Err() error {
	return r.dec.Err()
}

func (r *Reader) packer() *Packer {
	return r.dec.body
}

func (r *Reader) fail(err error) {
	r.packer().Add(fmt.Errorf("%w (in %s scope)", err, r.class))
}

// ReadBool reads a bool written by WriteBool.
func (r *Reader) ReadBool() bool { return r.packer().UnpackBool() }

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() int8 { return int8(r.packer().UnpackByte()) }

// ReadUint8 reads a byte.
func (r *Reader) ReadUint8() uint8 { return r.packer().UnpackByte() }

// ReadInt16 reads a big-endian int16.
func (r *Reader) ReadInt16() int16 { return int16(r.packer().UnpackShort()) }

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() uint16 { return r.packer().UnpackShort() }

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() int32 { return int32(r.packer().UnpackInt()) }

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() uint32 { return r.packer().UnpackInt() }

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() int64 { return int64(r.packer().UnpackLong()) }

// ReadUint64 reads a big-endian uint64.
func (r *Reader) ReadUint64() uint64 { return r.packer().UnpackLong() }

// ReadString reads a narrow string.
func (r *Reader) ReadString() string {
	return r.packer().UnpackStr()
}

// ReadWString reads a wide (UTF-16) string.
func (r *Reader) ReadWString() string {
	return r.packer().UnpackWStr()
}

// ReadBitArray reads a bit array written by WriteBitArray.
func (r *Reader) ReadBitArray() BitArray {
	return unpackBits(r.packer())
}

// ReadContentIndex reads a translated content index of category c. A name
// that is gone from the current catalog reads as catalog.Unresolved; the
// pass carries on.
func (r *Reader) ReadContentIndex(c catalog.Category) catalog.Index {
	slot := r.packer().UnpackInt()
	if r.packer().Errored() {
		return catalog.None
	}
	i, err := r.dec.translation.resolve(c, slot)
	if err != nil {
		r.fail(err)
		return catalog.None
	}
	return i
}

// ReadEnum reads a value written by WriteEnum. Translated values that no
// longer resolve read as int32(catalog.Unresolved).
func (r *Reader) ReadEnum(e Enum) int32 {
	if !e.Valid() {
		r.fail(fmt.Errorf("%w: %d", ErrUnknownEnum, uint8(e)))
		return 0
	}
	if c, ok := e.Category(); ok {
		return int32(r.ReadContentIndex(c))
	}
	return r.ReadInt32()
}

// ReadSparseArray reads an array written by WriteSparseArray. def must be
// the default the array was written with.
func ReadSparseArray[T Integer](r *Reader, def T) []T {
	return unpackSparse(r.packer(), def)
}

// seek positions the cursor on the payload of field t and reports whether
// the field is present. Fields unknown to this build are skipped on the way.
// A known field other than t means t was elided.
func (r *Reader) seek(t Tag, want WireType) bool {
	p := r.packer()
	for !p.Errored() {
		key, ok := p.PeekShort()
		if !ok || key == endKey {
			return false
		}
		tag, wt := splitKey(key)
		if tag == t {
			if wt != want {
				r.fail(fmt.Errorf("%w: %s is %s, expected %s", ErrWireTypeMismatch, t, wt, want))
				return false
			}
			p.Skip(KeyLen)
			return true
		}
		if tag.Known() {
			return false
		}
		p.Skip(KeyLen)
		r.dec.log.Debug("skipping unknown field",
			slog.String("class", r.class.String()),
			slog.Int("tag", int(tag)),
			slog.String("wire", wt.String()),
		)
		r.skipValue(tag, wt, r.depth, nil)
	}
	return false
}

// skipValue steps over the payload of a field whose key was consumed. When
// visit is set it is shown every field on the way.
func (r *Reader) skipValue(tag Tag, wt WireType, depth int, visit func(Field) error) {
	p := r.packer()
	if tag == TagEnd {
		r.fail(fmt.Errorf("%w: end tag with %s payload", ErrBadKey, wt))
		return
	}
	f := Field{Depth: depth, Offset: p.Offset - KeyLen, Tag: tag, Wire: wt}
	if n, ok := wt.fixedLen(); ok {
		if visit == nil {
			p.Skip(n)
			return
		}
		for _, b := range p.take(n) {
			f.Value = f.Value<<8 | uint64(b)
		}
		f.Len = n
		r.visit(visit, f)
		return
	}
	switch wt {
	case WireBytes:
		n := p.UnpackInt()
		if uint64(n) > uint64(p.Remaining()) {
			r.fail(fmt.Errorf("%w: %s payload of %d bytes", ErrInsufficientLength, tag, n))
			return
		}
		f.Len = int(n)
		r.visit(visit, f)
		p.Skip(int(n))
	case WireObject:
		if depth+1 > MaxDepth {
			r.fail(fmt.Errorf("%w: %d", ErrMaxDepthExceeded, depth+1))
			return
		}
		r.visit(visit, f)
		r.skipFields(true, depth+1, visit)
	default:
		r.fail(fmt.Errorf("%w: %s with %s", ErrUnknownWireType, tag, wt))
	}
}

func (r *Reader) visit(visit func(Field) error, f Field) {
	if visit == nil || r.packer().Errored() {
		return
	}
	if err := visit(f); err != nil {
		r.packer().Add(err)
	}
}

// skipFields skips every field up to the end of the current scope. Nested
// scopes consume their end marker; the root scope ends with the payload.
func (r *Reader) skipFields(nested bool, depth int, visit func(Field) error) {
	p := r.packer()
	for !p.Errored() {
		key, ok := p.PeekShort()
		if !ok {
			switch {
			case nested:
				r.fail(ErrMissingEnd)
			case p.Remaining() != 0:
				r.fail(ErrTrailingData)
			}
			return
		}
		p.Skip(KeyLen)
		if key == endKey {
			if !nested {
				r.fail(ErrTrailingData)
			}
			return
		}
		tag, wt := splitKey(key)
		r.skipValue(tag, wt, depth, visit)
	}
}

// readBytes positions the cursor on the payload of WireBytes field t and
// returns the offset the payload must end at.
func (r *Reader) readBytes(t Tag) (int, bool) {
	if !r.seek(t, WireBytes) {
		return 0, false
	}
	p := r.packer()
	n := p.UnpackInt()
	if p.Errored() {
		return 0, false
	}
	if uint64(n) > uint64(p.Remaining()) {
		r.fail(fmt.Errorf("%w: %s payload of %d bytes", ErrInsufficientLength, t, n))
		return 0, false
	}
	return p.Offset + int(n), true
}

// checkBytes verifies the payload decoder stopped exactly at end.
func (r *Reader) checkBytes(t Tag, end int) {
	p := r.packer()
	if !p.Errored() && p.Offset != end {
		r.fail(fmt.Errorf("%w: %s payload ends at %d, expected %d", ErrBadLength, t, p.Offset, end))
	}
}

func readTaggedFixed[T Integer](r *Reader, t Tag, def T) T {
	width := elemLen[T]()
	if !r.seek(t, wireFixed(width)) {
		return def
	}
	v := unpackElem[T](r.packer(), width)
	if r.packer().Errored() {
		return def
	}
	return v
}

// ReadTaggedInt8 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedInt8(t Tag, def int8) int8 { return readTaggedFixed(r, t, def) }

// ReadTaggedUint8 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedUint8(t Tag, def uint8) uint8 { return readTaggedFixed(r, t, def) }

// ReadTaggedInt16 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedInt16(t Tag, def int16) int16 { return readTaggedFixed(r, t, def) }

// ReadTaggedUint16 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedUint16(t Tag, def uint16) uint16 { return readTaggedFixed(r, t, def) }

// ReadTaggedInt32 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedInt32(t Tag, def int32) int32 { return readTaggedFixed(r, t, def) }

// ReadTaggedUint32 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedUint32(t Tag, def uint32) uint32 { return readTaggedFixed(r, t, def) }

// ReadTaggedInt64 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedInt64(t Tag, def int64) int64 { return readTaggedFixed(r, t, def) }

// ReadTaggedUint64 reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedUint64(t Tag, def uint64) uint64 { return readTaggedFixed(r, t, def) }

// ReadTaggedBool reads field t, or returns def when it was elided.
func (r *Reader) ReadTaggedBool(t Tag, def bool) bool {
	if !r.seek(t, WireFixed8) {
		return def
	}
	return r.packer().UnpackBool()
}

// ReadTaggedString reads the narrow string field t, or returns def when it was elided.
func (r *Reader) ReadTaggedString(t Tag, def string) string {
	end, ok := r.readBytes(t)
	if !ok {
		return def
	}
	v := r.packer().UnpackStr()
	r.checkBytes(t, end)
	return v
}

// ReadTaggedWString reads the wide string field t, or returns def when it was elided.
func (r *Reader) ReadTaggedWString(t Tag, def string) string {
	end, ok := r.readBytes(t)
	if !ok {
		return def
	}
	v := r.packer().UnpackWStr()
	r.checkBytes(t, end)
	return v
}

// ReadTaggedBitArray returns a cleared array of n bits when the field was
// elided.
func (r *Reader) ReadTaggedBitArray(t Tag, n int) BitArray {
	end, ok := r.readBytes(t)
	if !ok {
		return NewBitArray(n)
	}
	b := unpackBits(r.packer())
	r.checkBytes(t, end)
	return b
}

// ReadTaggedContentIndex reads the content index field t of category c, or returns def when it
// was elided.
func (r *Reader) ReadTaggedContentIndex(t Tag, c catalog.Category, def catalog.Index) catalog.Index {
	if !r.seek(t, WireFixed32) {
		return def
	}
	return r.ReadContentIndex(c)
}

// ReadTaggedEnum reads field t of enum e, or returns def when it was elided.
func (r *Reader) ReadTaggedEnum(t Tag, e Enum, def int32) int32 {
	if !r.seek(t, WireFixed32) {
		return def
	}
	return r.ReadEnum(e)
}

// ReadTaggedSparseArray returns n elements equal to def when the field was
// elided, or nil when n is not positive. A present field reads back at the
// length it was written with.
func ReadTaggedSparseArray[T Integer](r *Reader, t Tag, n int, def T) []T {
	end, ok := r.readBytes(t)
	if !ok {
		if n <= 0 {
			return nil
		}
		values := make([]T, n)
		for i := range values {
			values[i] = def
		}
		return values
	}
	values := unpackSparse(r.packer(), def)
	r.checkBytes(t, end)
	return values
}

// ReadCategoryArray returns an array with one element per item of category
// c in the current catalog. Elements of items that were added since the save
// hold def; saved elements of removed items are dropped.
func ReadCategoryArray[T Integer](r *Reader, t Tag, c catalog.Category, def T) []T {
	values := make([]T, r.dec.catalog.Len(c))
	for i := range values {
		values[i] = def
	}
	end, ok := r.readBytes(t)
	if !ok {
		return values
	}
	p := r.packer()
	k := int(p.UnpackInt())
	width := elemLen[T]()
	if k > p.Remaining()/(IntLen+width) {
		r.fail(fmt.Errorf("%w: %d entries in %s", ErrInsufficientLength, k, t))
		return values
	}
	for j := 0; j < k && !p.Errored(); j++ {
		i := r.ReadContentIndex(c)
		v := unpackElem[T](p, width)
		if i.Valid() && int(i) < len(values) {
			values[i] = v
		}
	}
	r.checkBytes(t, end)
	return values
}

// ReadObject reads the nested object t written by WriteObject. It reports
// false when the object is absent. Fields fn leaves unread are skipped.
func (r *Reader) ReadObject(t Tag, fn func(Reader) error) (bool, error) {
	if !r.seek(t, WireObject) {
		return false, r.Err()
	}
	if r.depth+1 > MaxDepth {
		r.fail(fmt.Errorf("%w: %d", ErrMaxDepthExceeded, r.depth+1))
		return false, r.Err()
	}
	child := *r
	child.depth++
	if err := fn(child); err != nil {
		r.packer().Add(err)
		return true, err
	}
	child.skipFields(true, child.depth, nil)
	return true, r.Err()
}
