// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compress implements the payload compression used by the save
// envelope.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies the compression applied to a save payload. Tags are stored
// in the save header, so existing values must never change.
type Tag uint8

const (
	None Tag = 0
	LZ4  Tag = 1
	Zstd Tag = 2
)

var (
	ErrUnknownTag   = errors.New("unknown compression tag")
	ErrSizeMismatch = errors.New("decompressed size mismatch")

	// errIncompressible is returned when the output would not be smaller
	// than the input.
	errIncompressible = errors.New("data is incompressible")
)

func (t Tag) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Parse parses the name of a compression tag.
func Parse(name string) (Tag, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
}

// Compress compresses data with tag. When the result would not be smaller
// than the input, data is returned unchanged with None.
func Compress(data []byte, tag Tag) ([]byte, Tag, error) {
	var (
		out []byte
		err error
	)
	switch tag {
	case None:
		return data, None, nil
	case LZ4:
		out, err = compressLZ4(data)
	case Zstd:
		out, err = compressZstd(data)
	default:
		return nil, None, fmt.Errorf("%w: %d", ErrUnknownTag, tag)
	}
	if errors.Is(err, errIncompressible) {
		return data, None, nil
	}
	if err != nil {
		return nil, None, err
	}
	return out, tag, nil
}

// Decompress reverses Compress. size must be the exact uncompressed length.
func Decompress(data []byte, tag Tag, size int) ([]byte, error) {
	switch tag {
	case None:
		if len(data) != size {
			return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, len(data), size)
		}
		return data, nil
	case LZ4:
		return decompressLZ4(data, size)
	case Zstd:
		return decompressZstd(data, size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, tag)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock reports 0 for incompressible input.
	if n == 0 || n >= len(data) {
		return nil, errIncompressible
	}
	return dst[:n], nil
}

func decompressLZ4(data []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, n, size)
	}
	return dst, nil
}

// zstdEncoder is safe for concurrent use through EncodeAll.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	out := zstdEncoder.EncodeAll(data, nil)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

// decompressZstd streams the frame into a buffer of exactly size bytes, so a
// frame that inflates past the declared length is rejected after producing
// at most one extra byte.
func decompressZstd(data []byte, size int) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	defer dec.Close()

	out := make([]byte, size)
	n, err := io.ReadFull(dec, out)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, n, size)
	case err != nil:
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}

	var extra [1]byte
	n, err = dec.Read(extra[:])
	switch {
	case n > 0:
		return nil, fmt.Errorf("%w: more than %d bytes", ErrSizeMismatch, size)
	case err != nil && !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}
