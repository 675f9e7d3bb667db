// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import (
	"io"
	"log/slog"

	"github.com/luxfi/savegame/compress"
)

const (
	// DefaultMaxSize is the default bound on an uncompressed save (256 MiB).
	DefaultMaxSize = 256 * 1024 * 1024
	// DefaultInitialSize is the capacity a write pass starts with (1 MiB).
	DefaultInitialSize = 1024 * 1024
	// MaxDepth bounds the nesting of objects.
	MaxDepth = 64
)

// Config holds the settings of a save or load pass.
type Config struct {
	// MaxSize bounds the uncompressed payload, on both write and read.
	MaxSize int
	// Compression is applied to the payload on flush. Loading accepts
	// every known tag regardless of this setting.
	Compression compress.Tag
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxSize:     DefaultMaxSize,
		Compression: compress.Zstd,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
