// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catalog

import (
	"encoding/binary"

	"github.com/luxfi/ids"
	"github.com/zeebo/blake3"
)

// Fingerprint hashes every name of every known category in index order.
// Two catalogs with the same fingerprint assign the same index to every name.
func Fingerprint(c Catalog) ids.ID {
	hasher := blake3.New()
	var scratch [4]byte
	for _, category := range All() {
		n := c.Len(category)
		binary.BigEndian.PutUint16(scratch[:2], uint16(category))
		_, _ = hasher.Write(scratch[:2])
		binary.BigEndian.PutUint32(scratch[:], uint32(n))
		_, _ = hasher.Write(scratch[:])
		for i := 0; i < n; i++ {
			name, _ := c.Name(category, Index(i))
			binary.BigEndian.PutUint32(scratch[:], uint32(len(name)))
			_, _ = hasher.Write(scratch[:])
			_, _ = hasher.Write([]byte(name))
		}
	}
	var id ids.ID
	copy(id[:], hasher.Sum(nil))
	return id
}
