// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"
	"unsafe"
)

// Integer is the element type of sparse arrays. Elements are packed at
// their natural width.
type Integer interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

// MaxArrayLen bounds the length of a decoded sparse array.
const MaxArrayLen = 1 << 24

// Sparse array layouts, chosen per array by encoded size.
const (
	sparseEmpty byte = 0
	sparseDense byte = 1
	sparsePairs byte = 2
)

func elemLen[T Integer]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// indexLen is the width of a position in the pairs layout.
func indexLen(n int) int {
	if n <= 1<<16 {
		return ShortLen
	}
	return IntLen
}

func packElem[T Integer](p *Packer, width int, v T) {
	u := uint64(v)
	switch width {
	case ByteLen:
		p.PackByte(byte(u))
	case ShortLen:
		p.PackShort(uint16(u))
	case IntLen:
		p.PackInt(uint32(u))
	default:
		p.PackLong(u)
	}
}

// unpackElem sign-extends through the signed type of the same width, which
// is a no-op for unsigned T.
func unpackElem[T Integer](p *Packer, width int) T {
	switch width {
	case ByteLen:
		return T(int8(p.UnpackByte()))
	case ShortLen:
		return T(int16(p.UnpackShort()))
	case IntLen:
		return T(int32(p.UnpackInt()))
	default:
		return T(int64(p.UnpackLong()))
	}
}

func packIndex(p *Packer, width, i int) {
	if width == ShortLen {
		p.PackShort(uint16(i))
		return
	}
	p.PackInt(uint32(i))
}

func unpackIndex(p *Packer, width int) int {
	if width == ShortLen {
		return int(p.UnpackShort())
	}
	return int(p.UnpackInt())
}

func countNonDefault[T Integer](values []T, def T) int {
	k := 0
	for _, v := range values {
		if v != def {
			k++
		}
	}
	return k
}

// sparseLen returns the encoded size of values and the layout packSparse
// would pick.
func sparseLen[T Integer](values []T, def T) (int, byte) {
	n := len(values)
	k := countNonDefault(values, def)
	header := IntLen + ByteLen
	if k == 0 {
		return header, sparseEmpty
	}
	width := elemLen[T]()
	dense := n * width
	pairs := IntLen + k*(indexLen(n)+width)
	if dense <= pairs {
		return header + dense, sparseDense
	}
	return header + pairs, sparsePairs
}

// packSparse writes the array length, a layout byte and then either nothing
// (every element equals def), every element, or the (position, value) pairs
// of the elements that differ from def.
func packSparse[T Integer](p *Packer, values []T, def T) {
	n := len(values)
	if n > MaxArrayLen {
		p.Add(fmt.Errorf("%w: array of %d elements", ErrBadLength, n))
		return
	}
	_, mode := sparseLen(values, def)
	p.PackInt(uint32(n))
	p.PackByte(mode)

	width := elemLen[T]()
	switch mode {
	case sparseDense:
		for _, v := range values {
			packElem(p, width, v)
		}
	case sparsePairs:
		p.PackInt(uint32(countNonDefault(values, def)))
		iw := indexLen(n)
		for i, v := range values {
			if v != def {
				packIndex(p, iw, i)
				packElem(p, width, v)
			}
		}
	}
}

func unpackSparse[T Integer](p *Packer, def T) []T {
	n := int(p.UnpackInt())
	mode := p.UnpackByte()
	if p.Errored() {
		return nil
	}
	if n > MaxArrayLen {
		p.Add(fmt.Errorf("%w: array of %d elements", ErrBadLength, n))
		return nil
	}

	width := elemLen[T]()
	switch mode {
	case sparseEmpty:
	case sparseDense:
		if n*width > p.Remaining() {
			p.Add(fmt.Errorf("%w: dense array of %d elements", ErrInsufficientLength, n))
			return nil
		}
	case sparsePairs:
	default:
		p.Add(fmt.Errorf("%w: %d", ErrBadSparseMode, mode))
		return nil
	}

	values := make([]T, n)
	if mode == sparseDense {
		for i := range values {
			values[i] = unpackElem[T](p, width)
		}
		return values
	}
	for i := range values {
		values[i] = def
	}
	if mode == sparsePairs {
		k := int(p.UnpackInt())
		iw := indexLen(n)
		if k > n || k*(iw+width) > p.Remaining() {
			p.Add(fmt.Errorf("%w: %d pairs for %d elements", ErrBadLength, k, n))
			return nil
		}
		for j := 0; j < k; j++ {
			i := unpackIndex(p, iw)
			v := unpackElem[T](p, width)
			if i >= n {
				p.Add(fmt.Errorf("%w: position %d of %d", ErrBadLength, i, n))
				return nil
			}
			values[i] = v
		}
	}
	if p.Errored() {
		return nil
	}
	return values
}
