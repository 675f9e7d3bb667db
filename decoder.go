// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"

	"github.com/luxfi/savegame/catalog"
	"github.com/luxfi/savegame/compress"
)

// Decoder owns the buffer of one load. The whole save is read into memory
// at once; translation tables are resolved against the catalog before the
// first Reader is handed out.
type Decoder struct {
	cfg         Config
	log         *slog.Logger
	catalog     catalog.Catalog
	header      Header
	body        *Packer
	translation *translationReader
	changed     bool
}

// NewDecoder prepares a load against catalog c.
func NewDecoder(c catalog.Catalog, cfg Config) *Decoder {
	return &Decoder{
		cfg:     cfg,
		log:     cfg.logger(),
		catalog: c,
		body:    PackerFromBytes(nil),
	}
}

// Load reads the complete save from r.
func (d *Decoder) Load(r io.Reader) error {
	data, err := readAll(r, d.limit())
	if err != nil {
		return err
	}
	return d.LoadBytes(data)
}

func (d *Decoder) limit() int {
	if d.cfg.MaxSize <= 0 {
		return 0
	}
	return HeaderLen + d.cfg.MaxSize
}

// readAll reads r to the end. The buffer is sized up front when r can
// report its length.
func readAll(r io.Reader, limit int) ([]byte, error) {
	size := 0
	switch s := r.(type) {
	case interface{ Len() int }:
		size = s.Len()
	case interface{ Stat() (fs.FileInfo, error) }:
		if info, err := s.Stat(); err == nil && info.Mode().IsRegular() {
			size = int(info.Size())
		}
	}
	if limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: save of %d bytes", ErrMaxSizeExceeded, size)
	}

	var buf bytes.Buffer
	buf.Grow(size + bytes.MinRead)
	src := r
	if limit > 0 {
		src = io.LimitReader(r, int64(limit)+1)
	}
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if limit > 0 && buf.Len() > limit {
		return nil, fmt.Errorf("%w: save exceeds %d bytes", ErrMaxSizeExceeded, limit)
	}
	return buf.Bytes(), nil
}

// LoadBytes takes a complete save, decompresses its payload and resolves
// its translation tables.
func (d *Decoder) LoadBytes(data []byte) error {
	h, err := ParseHeader(data)
	if err != nil {
		return err
	}
	if d.cfg.MaxSize > 0 && int64(h.PayloadLen) > int64(d.cfg.MaxSize) {
		return fmt.Errorf("%w: payload of %d bytes", ErrMaxSizeExceeded, h.PayloadLen)
	}
	payload, err := compress.Decompress(data[HeaderLen:], h.Compression, int(h.PayloadLen))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadHeader, err)
	}

	d.header = h
	d.changed = h.Catalog != catalog.Fingerprint(d.catalog)
	if d.changed {
		d.log.Info("catalog changed since save was written; translating references")
	}

	d.body = PackerFromBytes(payload)
	d.translation = unpackTranslation(d.body, d.catalog, d.log)
	return d.body.Err
}

// Header returns the header of the loaded save.
func (d *Decoder) Header() Header {
	return d.header
}

// Version returns the format version the loaded save was written with.
func (d *Decoder) Version() uint16 {
	return d.header.Version
}

// CatalogChanged reports whether the save was written against a catalog
// other than the one it is being read with.
func (d *Decoder) CatalogChanged() bool {
	return d.changed
}

// Unresolved returns the number of saved names that are missing from the
// current catalog.
func (d *Decoder) Unresolved() int {
	if d.translation == nil {
		return 0
	}
	return d.translation.unresolved
}

// Tables returns the loaded translation tables by category.
func (d *Decoder) Tables() map[catalog.Category][]TableEntry {
	if d.translation == nil {
		return nil
	}
	return maps.Clone(d.translation.tables)
}

// Reader returns the root read scope.
func (d *Decoder) Reader() Reader {
	return Reader{dec: d}
}

// Err returns the first error of the pass.
func (d *Decoder) Err() error {
	return d.body.Err
}

// Finish skips whatever the root scope left unread and returns the first
// error of the pass.
func (d *Decoder) Finish() error {
	if d.translation == nil {
		return d.Err()
	}
	r := d.Reader()
	r.skipFields(false, 0, nil)
	return d.Err()
}

// Field describes one field met by Walk.
type Field struct {
	// Depth is the object nesting level, 0 for the root scope.
	Depth int
	// Offset of the field key within the payload.
	Offset int
	Tag    Tag
	Wire   WireType
	// Len is the payload size of fixed and bytes fields.
	Len int
	// Value holds the raw big-endian payload of fixed fields.
	Value uint64
}

// Walk visits every field the root scope has left unread, descending into
// objects, and consumes them. It stops at the first error fn returns.
func (d *Decoder) Walk(fn func(Field) error) error {
	if d.translation == nil {
		return d.Err()
	}
	r := d.Reader()
	r.skipFields(false, 0, fn)
	return d.Err()
}
