// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/seqguard/dtlsrec/pkg/crypto/hkdf13"
	"github.com/seqguard/dtlsrec/pkg/protocol"
)

// GCM13 protects one direction of one DTLS 1.3 epoch with AES-GCM. The
// nonce is the traffic IV XORed with the padded record sequence number;
// the sequence number key drives record number masking.
//
// https://datatracker.ietf.org/doc/html/rfc9147#name-record-payload-protection
type GCM13 struct {
	aead cipher.AEAD
	iv   []byte
	sn   cipher.Block
}

// NewGCM13 creates a DTLS 1.3 AES-GCM context for one direction from
// traffic keys, typically derived with hkdf13.DeriveTrafficKeys.
func NewGCM13(keys *hkdf13.TrafficKeys) (*GCM13, error) {
	block, err := aes.NewCipher(keys.Key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	snBlock, err := aes.NewCipher(keys.SN)
	if err != nil {
		return nil, err
	}

	return &GCM13{aead: aead, iv: append([]byte{}, keys.IV...), sn: snBlock}, nil
}

func (g *GCM13) nonce(recordNumber uint64) [gcmNonceLength]byte {
	var nonce [gcmNonceLength]byte
	binary.BigEndian.PutUint64(nonce[gcmNonceLength-8:], recordNumber)
	for i := range nonce {
		nonce[i] ^= g.iv[i]
	}

	return nonce
}

// Seal encrypts plaintext followed by extra, authenticating header.
func (g *GCM13) Seal(dst []byte, recordNumber uint64, header, plaintext, extra []byte) ([]byte, error) {
	nonce := g.nonce(recordNumber)

	buf := make([]byte, 0, len(plaintext)+len(extra))
	buf = append(buf, plaintext...)
	buf = append(buf, extra...)

	return g.aead.Seal(dst, nonce[:], buf, header), nil
}

// Open authenticates and decrypts a record body.
func (g *GCM13) Open(dst []byte, recordNumber uint64, header, ciphertext []byte) ([]byte, error) {
	nonce := g.nonce(recordNumber)

	out, err := g.aead.Open(dst, nonce[:], ciphertext, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecryptPacket, err) //nolint:errorlint
	}

	return out, nil
}

// CiphertextLen returns the body size for a plaintext of the given length.
func (g *GCM13) CiphertextLen(plaintextLen int) int { return plaintextLen + gcmTagLength }

// MaxOverhead returns the tag size.
func (g *GCM13) MaxOverhead() int { return gcmTagLength }

// ExplicitNonceLen returns 0.
func (g *GCM13) ExplicitNonceLen() int { return 0 }

// GenerateRecordNumberMask derives the sequence number mask from the first
// 16 bytes of the record ciphertext, per RFC 9147 section 4.2.3.
func (g *GCM13) GenerateRecordNumberMask(sample []byte) ([]byte, error) {
	if len(sample) < aes.BlockSize {
		return nil, errShortMaskSample
	}

	mask := make([]byte, aes.BlockSize)
	g.sn.Encrypt(mask, sample[:aes.BlockSize])

	return mask, nil
}

// RecordVersion returns the legacy version written into plaintext-format
// headers; unified headers carry no version.
func (g *GCM13) RecordVersion() protocol.Version { return protocol.Version1_2 }

// IsNullCipher returns false.
func (g *GCM13) IsNullCipher() bool { return false }
