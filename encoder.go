// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/luxfi/savegame/catalog"
	"github.com/luxfi/savegame/compress"
)

// Encoder owns the buffer of one save. The tagged stream is accumulated in
// memory; the translation tables are only known once every object has been
// written, so they are put in front of the stream when the save is
// finished.
type Encoder struct {
	cfg         Config
	log         *slog.Logger
	catalog     catalog.Catalog
	body        *Packer
	translation *translationWriter

	finished bool
	out      []byte
}

// NewEncoder starts a save against catalog c.
func NewEncoder(c catalog.Catalog, cfg Config) *Encoder {
	return &Encoder{
		cfg:         cfg,
		log:         cfg.logger(),
		catalog:     c,
		body:        NewPacker(cfg.MaxSize),
		translation: newTranslationWriter(c),
	}
}

// Writer returns the root write scope.
func (e *Encoder) Writer() Writer {
	return Writer{enc: e}
}

// Err returns the first error of the pass.
func (e *Encoder) Err() error {
	return e.body.Err
}

func (e *Encoder) packer() *Packer {
	if e.finished {
		e.body.Add(ErrPassFinished)
	}
	return e.body
}

// Bytes finishes the save and returns the complete blob. Later writes fail
// with ErrPassFinished.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.finished {
		return e.out, e.Err()
	}
	if err := e.Err(); err != nil {
		return nil, err
	}

	tables := NewPacker(0)
	e.translation.pack(tables)
	if tables.Err != nil {
		return nil, tables.Err
	}
	payloadLen := tables.Offset + e.body.Offset
	if e.cfg.MaxSize > 0 && payloadLen > e.cfg.MaxSize {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrMaxSizeExceeded, payloadLen)
	}
	payload := make([]byte, 0, payloadLen)
	payload = append(payload, tables.Bytes[:tables.Offset]...)
	payload = append(payload, e.body.Bytes[:e.body.Offset]...)

	compressed, tag, err := compress.Compress(payload, e.cfg.Compression)
	if err != nil {
		return nil, err
	}

	out := NewPacker(0)
	packHeader(out, Header{
		Version:     CurrentVersion,
		Compression: tag,
		Catalog:     catalog.Fingerprint(e.catalog),
		PayloadLen:  uint32(payloadLen),
	})
	out.PackFixedBytes(compressed)
	if out.Err != nil {
		return nil, out.Err
	}

	e.finished = true
	e.out = out.Bytes[:out.Offset]
	e.log.Debug("save encoded",
		slog.Int("tables", len(e.translation.tables)),
		slog.Int("payload", payloadLen),
		slog.Int("size", len(e.out)),
		slog.String("compression", tag.String()),
	)
	return e.out, nil
}

// Flush finishes the save and writes it to w in a single call. Any storage
// failure aborts the save.
func (e *Encoder) Flush(w io.Writer) error {
	out, err := e.Bytes()
	if err != nil {
		return err
	}
	n, err := w.Write(out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if n != len(out) {
		return fmt.Errorf("%w: %w: wrote %d of %d bytes", ErrStorage, ErrShortWrite, n, len(out))
	}
	return nil
}
