// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package ciphersuite provides the per-epoch AEAD contexts driving record
// protection
package ciphersuite

import (
	"encoding/binary"
	"errors"

	"github.com/seqguard/dtlsrec/pkg/protocol"
)

var (
	//nolint:err113
	errNotEnoughRoomForNonce = &protocol.TemporaryError{Err: errors.New("buffer not long enough to contain nonce")}
	//nolint:err113
	errDecryptPacket = &protocol.TemporaryError{Err: errors.New("failed to decrypt packet")}
	//nolint:err113
	errMaskNotSupported = &protocol.InternalError{Err: errors.New("cipher does not support record number masks")}
	//nolint:err113
	errShortMaskSample = &protocol.TemporaryError{Err: errors.New("ciphertext sample too short to derive a mask")}
	//nolint:err113
	errExtraNotSupported = &protocol.InternalError{Err: errors.New("cipher does not support trailing extra bytes")}
)

// AEAD protects one direction of one epoch. A context installed for
// reading only Opens; a context installed for writing only Seals. The
// record number passed in is the nonce input: epoch<<48|sequence for
// DTLS 1.2 contexts, the bare per-epoch sequence for DTLS 1.3 contexts.
type AEAD interface {
	// Open authenticates and decrypts a record body. header is the record
	// header exactly as it appeared on the wire (sequence bytes unmasked),
	// used as associated data. dst is appended to and returned.
	Open(dst []byte, recordNumber uint64, header, ciphertext []byte) ([]byte, error)

	// Seal encrypts plaintext followed by extra, authenticating header.
	// DTLS 1.3 contexts use extra to smuggle the real content type into
	// the protected payload. dst is appended to and returned.
	Seal(dst []byte, recordNumber uint64, header, plaintext, extra []byte) ([]byte, error)

	// CiphertextLen returns the record body size Seal produces for a
	// plaintext of the given length, including any explicit nonce and tag.
	CiphertextLen(plaintextLen int) int

	// MaxOverhead is the worst-case difference between plaintext and
	// record body sizes.
	MaxOverhead() int

	// ExplicitNonceLen is the number of nonce bytes carried at the start
	// of the record body, 0 for ciphers with implicit nonces.
	ExplicitNonceLen() int

	// GenerateRecordNumberMask derives the mask hiding wire sequence
	// number bytes from a sample of the record ciphertext. Only DTLS 1.3
	// contexts support it.
	GenerateRecordNumberMask(sample []byte) ([]byte, error)

	// RecordVersion is the legacy version value written into record
	// headers produced under this context.
	RecordVersion() protocol.Version

	// IsNullCipher reports whether records pass through unprotected.
	IsNullCipher() bool
}

// legacyAdditionalData builds the TLS 1.2 AEAD associated data from a
// 13-byte record header. The authenticated length is the plaintext length,
// which differs from the body length the header declares.
//
// additional_data = seq_num + type + version + length
// https://tools.ietf.org/html/rfc5246#section-6.2.3.3
func legacyAdditionalData(header []byte, payloadLen int) []byte {
	var additionalData [13]byte

	copy(additionalData[:8], header[3:11]) // epoch || 48-bit sequence
	additionalData[8] = header[0]          // content type
	additionalData[9] = header[1]
	additionalData[10] = header[2] // version
	binary.BigEndian.PutUint16(additionalData[11:], uint16(payloadLen)) //nolint:gosec

	return additionalData[:]
}
