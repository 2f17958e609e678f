// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/seqguard/dtlsrec/pkg/protocol"
)

const (
	gcmTagLength           = 16
	gcmNonceLength         = 12
	gcmExplicitNonceLength = 8
)

// GCM protects one direction of a DTLS 1.2 connection with AES-GCM.
// The 8-byte explicit nonce carried in each record body is the record
// number (epoch || sequence), per RFC 9325 guidance on nonce reuse.
type GCM struct {
	aead cipher.AEAD
	iv   []byte
}

// NewGCM creates a DTLS 1.2 AES-GCM context for one direction.
func NewGCM(key, iv []byte) (*GCM, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &GCM{aead: aead, iv: append([]byte{}, iv...)}, nil
}

// Seal encrypts a record body. extra is rejected; DTLS 1.2 has no inner
// content type.
func (g *GCM) Seal(dst []byte, recordNumber uint64, header, plaintext, extra []byte) ([]byte, error) {
	if len(extra) != 0 {
		return nil, errExtraNotSupported
	}

	var nonce [gcmNonceLength]byte
	copy(nonce[:4], g.iv[:4])
	binary.BigEndian.PutUint64(nonce[4:], recordNumber)

	out := append(dst, nonce[4:]...)

	return g.aead.Seal(out, nonce[:], plaintext, legacyAdditionalData(header, len(plaintext))), nil
}

// Open authenticates and decrypts a record body. The nonce comes from the
// explicit bytes at the front of the body; recordNumber is unused.
func (g *GCM) Open(dst []byte, _ uint64, header, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < gcmExplicitNonceLength+gcmTagLength {
		return nil, errNotEnoughRoomForNonce
	}

	var nonce [gcmNonceLength]byte
	copy(nonce[:4], g.iv[:4])
	copy(nonce[4:], ciphertext[:gcmExplicitNonceLength])
	body := ciphertext[gcmExplicitNonceLength:]

	out, err := g.aead.Open(dst, nonce[:], body, legacyAdditionalData(header, len(body)-gcmTagLength))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecryptPacket, err) //nolint:errorlint
	}

	return out, nil
}

// CiphertextLen returns the body size for a plaintext of the given length.
func (g *GCM) CiphertextLen(plaintextLen int) int {
	return gcmExplicitNonceLength + plaintextLen + gcmTagLength
}

// MaxOverhead returns the explicit nonce plus tag size.
func (g *GCM) MaxOverhead() int { return gcmExplicitNonceLength + gcmTagLength }

// ExplicitNonceLen returns 8.
func (g *GCM) ExplicitNonceLen() int { return gcmExplicitNonceLength }

// GenerateRecordNumberMask fails; DTLS 1.2 records are never masked.
func (g *GCM) GenerateRecordNumberMask([]byte) ([]byte, error) {
	return nil, errMaskNotSupported
}

// RecordVersion returns the DTLS 1.2 version.
func (g *GCM) RecordVersion() protocol.Version { return protocol.Version1_2 }

// IsNullCipher returns false.
func (g *GCM) IsNullCipher() bool { return false }
