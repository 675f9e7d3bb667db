// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import "errors"

// Fatal codec errors. Any of these aborts the whole save or load.
var (
	// ErrInsufficientLength is the out-of-data condition: a read asked for
	// more bytes than remain in the payload.
	ErrInsufficientLength = errors.New("savegame: insufficient length")
	ErrNegativeLength     = errors.New("savegame: negative length")
	ErrBadLength          = errors.New("savegame: bad length")
	ErrMaxSizeExceeded    = errors.New("savegame: max size exceeded")
	ErrStorage            = errors.New("savegame: storage failure")
	ErrShortWrite         = errors.New("savegame: short write")
	ErrBadHeader          = errors.New("savegame: bad header")
	ErrUnknownVersion     = errors.New("savegame: unknown format version")
	ErrUnknownWireType    = errors.New("savegame: unknown wire type")
	ErrWireTypeMismatch   = errors.New("savegame: wire type mismatch")
	ErrBadKey             = errors.New("savegame: bad field key")
	ErrMissingEnd         = errors.New("savegame: object scope not terminated")
	ErrMaxDepthExceeded   = errors.New("savegame: max object depth exceeded")
	ErrUnknownContent     = errors.New("savegame: content index has no name")
	ErrBadSlot            = errors.New("savegame: translation slot out of range")
	ErrBadSparseMode      = errors.New("savegame: bad sparse array mode")
	ErrUnknownEnum        = errors.New("savegame: unknown enum type")
	ErrTrailingData       = errors.New("savegame: trailing data after last scope")
	ErrPassFinished       = errors.New("savegame: pass already finished")
)

// Size constants for binary packing
const (
	// ByteLen is the number of bytes per byte
	ByteLen = 1
	// ShortLen is the number of bytes per short
	ShortLen = 2
	// IntLen is the number of bytes per int
	IntLen = 4
	// LongLen is the number of bytes per long
	LongLen = 8
	// KeyLen is the number of bytes per field key
	KeyLen = ShortLen
)

// Errs collects errors during a series of operations.
// It stores only the first error encountered.
type Errs struct {
	Err error
}

// Errored returns true if an error has been recorded.
func (errs *Errs) Errored() bool {
	return errs.Err != nil
}

// Add records the first non-nil error.
func (errs *Errs) Add(errors ...error) {
	if errs.Err == nil {
		for _, err := range errors {
			if err != nil {
				errs.Err = err
				break
			}
		}
	}
}
