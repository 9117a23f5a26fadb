// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package querycache

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// DefaultCompressThreshold is the snapshot size above which entries
// are LZ4-compressed. Single tickets stay below it; event pages and
// ticket lists usually exceed it.
const DefaultCompressThreshold = 4 << 10

// snapshot is an encoded cache value.
type snapshot struct {
	data        []byte
	compressed  bool
	rawSize     int
	fingerprint Fingerprint
}

// Fingerprint is the BLAKE3-256 digest of an uncompressed snapshot.
type Fingerprint [32]byte

// String returns the first 8 bytes in hex, enough to tell snapshots
// apart in logs.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%x", f[:8])
}

// IsZero reports whether f is the zero fingerprint.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// newSnapshot fingerprints raw and compresses it when it is larger
// than threshold and LZ4 actually shrinks it. A threshold <= 0
// disables compression.
func newSnapshot(raw []byte, threshold int) (snapshot, error) {
	result := snapshot{
		data:        raw,
		rawSize:     len(raw),
		fingerprint: blake3.Sum256(raw),
	}
	if threshold <= 0 || len(raw) <= threshold {
		return result, nil
	}

	destination := make([]byte, lz4.CompressBlockBound(len(raw)))
	written, err := lz4.CompressBlock(raw, destination, nil)
	if err != nil {
		return snapshot{}, fmt.Errorf("lz4 compress: %w", err)
	}
	// Zero means incompressible.
	if written == 0 || written >= len(raw) {
		return result, nil
	}
	result.data = destination[:written]
	result.compressed = true
	return result, nil
}

// bytes returns the uncompressed snapshot.
func (s snapshot) bytes() ([]byte, error) {
	if !s.compressed {
		return s.data, nil
	}
	destination := make([]byte, s.rawSize)
	read, err := lz4.UncompressBlock(s.data, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != s.rawSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, s.rawSize)
	}
	return destination, nil
}
