// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package savegame encodes game saves so that they stay readable after the
// content catalog they refer to is edited.
//
// A save is written by one Encoder and read by one Decoder. Each serialized
// object gets its own Writer or Reader scope bound to the pass's buffer.
// Fields are tagged and elided when equal to their default, and every
// reference to catalog content is stored as a slot in a per-category table
// of stable names that is resolved against the catalog loaded at read time.
package savegame

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/savegame/compress"
)

// CurrentVersion is the format version written by this build.
const CurrentVersion uint16 = 1

// HeaderLen is the size of the save header.
const HeaderLen = ShortLen + ByteLen + ids.IDLen + IntLen

// Header precedes the payload of every save.
type Header struct {
	Version     uint16
	Compression compress.Tag
	// Catalog is the fingerprint of the catalog the save was written with.
	Catalog ids.ID
	// PayloadLen is the uncompressed payload size.
	PayloadLen uint32
}

func packHeader(p *Packer, h Header) {
	p.PackShort(h.Version)
	p.PackByte(byte(h.Compression))
	p.PackID(h.Catalog)
	p.PackInt(h.PayloadLen)
}

// ParseHeader reads the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderLen {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrBadHeader, len(data))
	}
	p := PackerFromBytes(data)
	h := Header{
		Version:     p.UnpackShort(),
		Compression: compress.Tag(p.UnpackByte()),
		Catalog:     p.UnpackID(),
		PayloadLen:  p.UnpackInt(),
	}
	if p.Err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrBadHeader, p.Err)
	}
	if h.Version == 0 || h.Version > CurrentVersion {
		return h, fmt.Errorf("%w: %d", ErrUnknownVersion, h.Version)
	}
	return h, nil
}
