// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripSparse[T Integer](t *testing.T, values []T, def T) ([]T, byte, int) {
	t.Helper()
	p := NewPacker(0)
	packSparse(p, values, def)
	require.NoError(t, p.Err)
	size, mode := sparseLen(values, def)
	assert.Equal(t, size, p.Offset)

	r := PackerFromBytes(p.Bytes[:p.Offset])
	got := unpackSparse(r, def)
	require.NoError(t, r.Err)
	assert.Zero(t, r.Remaining())
	return got, mode, p.Offset
}

func TestSparse_RoundTrip(t *testing.T) {
	t.Run("all default", func(t *testing.T) {
		values := []int32{-1, -1, -1, -1}
		got, mode, size := roundTripSparse(t, values, -1)
		assert.Equal(t, values, got)
		assert.Equal(t, sparseEmpty, mode)
		assert.Equal(t, IntLen+ByteLen, size)
	})

	t.Run("some differ", func(t *testing.T) {
		values := make([]int32, 100)
		values[3] = 7
		values[97] = -250
		got, mode, _ := roundTripSparse(t, values, 0)
		assert.Equal(t, values, got)
		assert.Equal(t, sparsePairs, mode)
	})

	t.Run("all differ", func(t *testing.T) {
		values := []int16{1, 2, 3, -4, 5}
		got, mode, size := roundTripSparse(t, values, 0)
		assert.Equal(t, values, got)
		assert.Equal(t, sparseDense, mode)
		assert.Equal(t, IntLen+ByteLen+len(values)*ShortLen, size)
	})

	t.Run("empty array", func(t *testing.T) {
		got, mode, _ := roundTripSparse(t, []uint8{}, 0)
		assert.Empty(t, got)
		assert.Equal(t, sparseEmpty, mode)
	})

	t.Run("non zero default", func(t *testing.T) {
		values := []uint8{255, 255, 1, 255}
		got, _, _ := roundTripSparse(t, values, 255)
		assert.Equal(t, values, got)
	})

	t.Run("wide elements", func(t *testing.T) {
		values := []int64{0, -1 << 40, 0, 0, 0, 0, 0, 0}
		got, _, _ := roundTripSparse(t, values, 0)
		assert.Equal(t, values, got)
	})

	t.Run("named element type", func(t *testing.T) {
		type yield int16
		values := []yield{0, 0, -3, 0}
		got, _, _ := roundTripSparse(t, values, 0)
		assert.Equal(t, values, got)
	})

	t.Run("long array uses wide positions", func(t *testing.T) {
		values := make([]uint8, 70000)
		values[69999] = 1
		got, mode, size := roundTripSparse(t, values, 0)
		assert.Equal(t, values, got)
		assert.Equal(t, sparsePairs, mode)
		assert.Equal(t, IntLen+ByteLen+IntLen+IntLen+ByteLen, size)
	})
}

func TestSparse_PicksSmallerLayout(t *testing.T) {
	// Five int32 elements: dense costs 20 bytes, each pair 6.
	tests := []struct {
		name    string
		nonZero int
		mode    byte
	}{
		{"one differs", 1, sparsePairs},
		{"two differ", 2, sparsePairs},
		{"three differ", 3, sparseDense},
		{"five differ", 5, sparseDense},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := make([]int32, 5)
			for i := 0; i < tc.nonZero; i++ {
				values[i] = int32(i + 1)
			}
			_, mode := sparseLen(values, 0)
			assert.Equal(t, tc.mode, mode)
		})
	}
}

func TestSparse_CorruptInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"bad mode", []byte{0, 0, 0, 1, 9}, ErrBadSparseMode},
		{"dense too short", []byte{0, 0, 0, 4, sparseDense, 1}, ErrInsufficientLength},
		{"position out of range", []byte{0, 0, 0, 2, sparsePairs, 0, 0, 0, 1, 0, 5, 1}, ErrBadLength},
		{"too many pairs", []byte{0, 0, 0, 2, sparsePairs, 0, 0, 0, 3}, ErrBadLength},
		{"huge length", []byte{0xFF, 0xFF, 0xFF, 0xFF, sparseEmpty}, ErrBadLength},
		{"missing header", []byte{0, 0}, ErrInsufficientLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := PackerFromBytes(tc.data)
			got := unpackSparse[uint8](r, 0)
			assert.Nil(t, got)
			assert.ErrorIs(t, r.Err, tc.err)
		})
	}
}
