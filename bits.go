// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import "math/bits"

// BitArray is a fixed-size set of booleans packed eight to a byte, least
// significant bit first.
type BitArray struct {
	n     int
	bytes []byte
}

// NewBitArray returns a BitArray of n cleared bits.
func NewBitArray(n int) BitArray {
	if n < 0 {
		n = 0
	}
	return BitArray{
		n:     n,
		bytes: make([]byte, packedLen(n)),
	}
}

func packedLen(n int) int {
	return (n + 7) / 8
}

// Len returns the number of bits.
func (b BitArray) Len() int {
	return b.n
}

// Get reports bit i. Out of range bits read as false.
func (b BitArray) Get(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.bytes[i/8]&(1<<(i%8)) != 0
}

// Set assigns bit i. Out of range bits are ignored.
func (b BitArray) Set(i int, v bool) {
	if i < 0 || i >= b.n {
		return
	}
	if v {
		b.bytes[i/8] |= 1 << (i % 8)
	} else {
		b.bytes[i/8] &^= 1 << (i % 8)
	}
}

// Count returns the number of set bits.
func (b BitArray) Count() int {
	count := 0
	for _, v := range b.bytes {
		count += bits.OnesCount8(v)
	}
	return count
}

// Any reports whether at least one bit is set.
func (b BitArray) Any() bool {
	for _, v := range b.bytes {
		if v != 0 {
			return true
		}
	}
	return false
}

// Equal reports whether b and o hold the same bits.
func (b BitArray) Equal(o BitArray) bool {
	if b.n != o.n {
		return false
	}
	for i := range b.bytes {
		if b.bytes[i] != o.bytes[i] {
			return false
		}
	}
	return true
}

// packBits writes the bit count followed by ceil(n/8) bytes.
func packBits(p *Packer, b BitArray) {
	p.PackInt(uint32(b.n))
	p.PackFixedBytes(b.bytes)
}

func unpackBits(p *Packer) BitArray {
	n := int(p.UnpackInt())
	if p.Errored() {
		return BitArray{}
	}
	raw := p.UnpackFixedBytes(packedLen(n))
	if p.Errored() {
		return BitArray{}
	}
	// Bits past n are never set by packBits; clear them so Equal and Count
	// stay exact on hand-crafted input.
	if rem := n % 8; rem != 0 {
		raw[len(raw)-1] &= 1<<rem - 1
	}
	return BitArray{n: n, bytes: raw}
}
