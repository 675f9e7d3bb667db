// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/luxfi/ids"
)

// MaxStringLen is the maximum string length that can be packed, in bytes for
// narrow strings and in UTF-16 units for wide strings.
const MaxStringLen = math.MaxUint16

// Packer is the byte core of a save or load pass. Writes append to Bytes;
// reads advance Offset. The first error is kept in Err and turns every
// later call into a no-op.
type Packer struct {
	Errs

	Bytes  []byte
	Offset int

	// MaxSize bounds the number of bytes a write pass may produce. Zero
	// means unbounded.
	MaxSize int
}

// NewPacker returns a write-side Packer that refuses to grow beyond maxSize.
func NewPacker(maxSize int) *Packer {
	if maxSize < 0 {
		maxSize = 0
	}
	initial := maxSize
	// Avoid huge upfront allocations; capacity will grow as needed.
	if initial == 0 || initial > DefaultInitialSize {
		initial = DefaultInitialSize
	}
	return &Packer{
		Bytes:   make([]byte, 0, initial),
		MaxSize: maxSize,
	}
}

// PackerFromBytes returns a read-side Packer over b.
func PackerFromBytes(b []byte) *Packer {
	return &Packer{
		Bytes: b,
	}
}

// Remaining returns the number of bytes remaining to read
func (p *Packer) Remaining() int {
	return len(p.Bytes) - p.Offset
}

// expand ensures capacity for n more bytes
func (p *Packer) expand(n int) {
	if p.Err != nil {
		return
	}
	needed := p.Offset + n
	if p.MaxSize > 0 && needed > p.MaxSize {
		p.Err = fmt.Errorf("%w: %d > %d", ErrMaxSizeExceeded, needed, p.MaxSize)
		return
	}
	if needed > cap(p.Bytes) {
		newCap := max(cap(p.Bytes)*2, needed)
		newBytes := make([]byte, len(p.Bytes), newCap)
		copy(newBytes, p.Bytes)
		p.Bytes = newBytes
	}
	if needed > len(p.Bytes) {
		p.Bytes = p.Bytes[:needed]
	}
}

// take returns the next n bytes without copying and advances past them. On
// out-of-data the cursor stays where it was.
func (p *Packer) take(n int) []byte {
	if p.Err != nil {
		return nil
	}
	if n < 0 {
		p.Err = ErrNegativeLength
		return nil
	}
	if n > p.Remaining() {
		p.Err = fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrInsufficientLength, n, p.Offset, p.Remaining())
		return nil
	}
	b := p.Bytes[p.Offset : p.Offset+n]
	p.Offset += n
	return b
}

// PackByte packs a byte
func (p *Packer) PackByte(val byte) {
	p.expand(ByteLen)
	if p.Err != nil {
		return
	}
	p.Bytes[p.Offset] = val
	p.Offset++
}

// UnpackByte unpacks a byte
func (p *Packer) UnpackByte() byte {
	b := p.take(ByteLen)
	if b == nil {
		return 0
	}
	return b[0]
}

// PackShort packs a uint16
func (p *Packer) PackShort(val uint16) {
	p.expand(ShortLen)
	if p.Err != nil {
		return
	}
	binary.BigEndian.PutUint16(p.Bytes[p.Offset:], val)
	p.Offset += ShortLen
}

// UnpackShort unpacks a uint16
func (p *Packer) UnpackShort() uint16 {
	b := p.take(ShortLen)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// PeekShort returns the next uint16 without consuming it. ok is false when
// fewer than two bytes remain; no error is recorded in that case.
func (p *Packer) PeekShort() (val uint16, ok bool) {
	if p.Err != nil || p.Remaining() < ShortLen {
		return 0, false
	}
	return binary.BigEndian.Uint16(p.Bytes[p.Offset:]), true
}

// PackInt packs a uint32
func (p *Packer) PackInt(val uint32) {
	p.expand(IntLen)
	if p.Err != nil {
		return
	}
	binary.BigEndian.PutUint32(p.Bytes[p.Offset:], val)
	p.Offset += IntLen
}

// UnpackInt unpacks a uint32
func (p *Packer) UnpackInt() uint32 {
	b := p.take(IntLen)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// PutIntAt overwrites the uint32 previously packed at offset.
func (p *Packer) PutIntAt(offset int, val uint32) {
	if p.Err != nil {
		return
	}
	if offset < 0 || offset+IntLen > len(p.Bytes) {
		p.Err = fmt.Errorf("%w: patch at %d", ErrBadLength, offset)
		return
	}
	binary.BigEndian.PutUint32(p.Bytes[offset:], val)
}

// PackLong packs a uint64
func (p *Packer) PackLong(val uint64) {
	p.expand(LongLen)
	if p.Err != nil {
		return
	}
	binary.BigEndian.PutUint64(p.Bytes[p.Offset:], val)
	p.Offset += LongLen
}

// UnpackLong unpacks a uint64
func (p *Packer) UnpackLong() uint64 {
	b := p.take(LongLen)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// PackBool packs a bool
func (p *Packer) PackBool(val bool) {
	if val {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
}

// UnpackBool unpacks a bool
func (p *Packer) UnpackBool() bool {
	return p.UnpackByte() != 0
}

// PackFixedBytes packs a fixed-length byte slice
func (p *Packer) PackFixedBytes(val []byte) {
	p.expand(len(val))
	if p.Err != nil {
		return
	}
	copy(p.Bytes[p.Offset:], val)
	p.Offset += len(val)
}

// UnpackFixedBytes unpacks a fixed-length byte slice. It returns nil, and
// leaves the cursor in place, when fewer than n bytes remain.
func (p *Packer) UnpackFixedBytes(n int) []byte {
	b := p.take(n)
	if b == nil {
		return nil
	}
	val := make([]byte, n)
	copy(val, b)
	return val
}

// Skip advances past n bytes.
func (p *Packer) Skip(n int) {
	p.take(n)
}

// PackStr packs a narrow string with a 2-byte length prefix
func (p *Packer) PackStr(val string) {
	if len(val) > MaxStringLen {
		p.Add(fmt.Errorf("%w: string of %d bytes", ErrBadLength, len(val)))
		return
	}
	p.PackShort(uint16(len(val)))
	p.PackFixedBytes([]byte(val))
}

// UnpackStr unpacks a narrow string
func (p *Packer) UnpackStr() string {
	strLen := p.UnpackShort()
	return string(p.take(int(strLen)))
}

// PackWStr packs a wide string as a 2-byte count of UTF-16 units followed
// by the units.
func (p *Packer) PackWStr(val string) {
	units := utf16.Encode([]rune(val))
	if len(units) > MaxStringLen {
		p.Add(fmt.Errorf("%w: wide string of %d units", ErrBadLength, len(units)))
		return
	}
	p.PackShort(uint16(len(units)))
	for _, u := range units {
		p.PackShort(u)
	}
}

// UnpackWStr unpacks a wide string
func (p *Packer) UnpackWStr() string {
	n := int(p.UnpackShort())
	b := p.take(n * ShortLen)
	if b == nil {
		return ""
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(b[i*ShortLen:])
	}
	return string(utf16.Decode(units))
}

// PackID packs an ID
func (p *Packer) PackID(id ids.ID) {
	p.PackFixedBytes(id[:])
}

// UnpackID unpacks an ID
func (p *Packer) UnpackID() ids.ID {
	bytes := p.take(ids.IDLen)
	if bytes == nil {
		return ids.Empty
	}
	id, err := ids.ToID(bytes)
	if err != nil {
		p.Err = err
		return ids.Empty
	}
	return id
}
