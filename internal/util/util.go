// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package util contains small helpers used across the repository
package util

import (
	"encoding/binary"

	"golang.org/x/crypto/cryptobyte"
)

// AddUint48 appends a big-endian, 48-bit value to the byte string.
func AddUint48(b *cryptobyte.Builder, v uint64) {
	b.AddBytes([]byte{
		byte(v >> 40),
		byte(v >> 32),
		byte(v >> 24),
		byte(v >> 16),
		byte(v >> 8),
		byte(v),
	})
}

// BigEndianUint48 reads a big-endian, 48-bit value out of raw.
// raw must be at least 6 bytes long.
func BigEndianUint48(raw []byte) uint64 {
	var padded [8]byte
	copy(padded[2:], raw[:6])

	return binary.BigEndian.Uint64(padded[:])
}
