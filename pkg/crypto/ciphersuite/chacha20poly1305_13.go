// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/seqguard/dtlsrec/pkg/crypto/hkdf13"
	"github.com/seqguard/dtlsrec/pkg/protocol"
)

const (
	chachaTagLength   = 16
	chachaNonceLength = 12

	// The mask sample feeds a 4-byte block counter and a 12-byte nonce.
	chachaSampleLength = 16
)

// ChaCha20Poly1305_13 protects one direction of one DTLS 1.3 epoch with
// ChaCha20-Poly1305. Record number masks come from the ChaCha20 keystream
// keyed by the sequence number key, per RFC 9147 section 4.2.3.
//
//nolint:revive,stylecheck
type ChaCha20Poly1305_13 struct {
	aead cipher.AEAD
	iv   []byte
	sn   []byte
}

// NewChaCha20Poly1305_13 creates a DTLS 1.3 ChaCha20-Poly1305 context for
// one direction from traffic keys.
//
//nolint:revive,stylecheck
func NewChaCha20Poly1305_13(keys *hkdf13.TrafficKeys) (*ChaCha20Poly1305_13, error) {
	aead, err := chacha20poly1305.New(keys.Key)
	if err != nil {
		return nil, err
	}

	return &ChaCha20Poly1305_13{
		aead: aead,
		iv:   append([]byte{}, keys.IV...),
		sn:   append([]byte{}, keys.SN...),
	}, nil
}

func (c *ChaCha20Poly1305_13) nonce(recordNumber uint64) [chachaNonceLength]byte {
	var nonce [chachaNonceLength]byte
	binary.BigEndian.PutUint64(nonce[chachaNonceLength-8:], recordNumber)
	for i := range nonce {
		nonce[i] ^= c.iv[i]
	}

	return nonce
}

// Seal encrypts plaintext followed by extra, authenticating header.
func (c *ChaCha20Poly1305_13) Seal(dst []byte, recordNumber uint64, header, plaintext, extra []byte) ([]byte, error) {
	nonce := c.nonce(recordNumber)

	buf := make([]byte, 0, len(plaintext)+len(extra))
	buf = append(buf, plaintext...)
	buf = append(buf, extra...)

	return c.aead.Seal(dst, nonce[:], buf, header), nil
}

// Open authenticates and decrypts a record body.
func (c *ChaCha20Poly1305_13) Open(dst []byte, recordNumber uint64, header, ciphertext []byte) ([]byte, error) {
	nonce := c.nonce(recordNumber)

	out, err := c.aead.Open(dst, nonce[:], ciphertext, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecryptPacket, err) //nolint:errorlint
	}

	return out, nil
}

// CiphertextLen returns the body size for a plaintext of the given length.
func (c *ChaCha20Poly1305_13) CiphertextLen(plaintextLen int) int { return plaintextLen + chachaTagLength }

// MaxOverhead returns the tag size.
func (c *ChaCha20Poly1305_13) MaxOverhead() int { return chachaTagLength }

// ExplicitNonceLen returns 0.
func (c *ChaCha20Poly1305_13) ExplicitNonceLen() int { return 0 }

// GenerateRecordNumberMask derives the sequence number mask: the first
// bytes of the ChaCha20 keystream with the block counter taken from
// sample[0:4] and the nonce from sample[4:16].
func (c *ChaCha20Poly1305_13) GenerateRecordNumberMask(sample []byte) ([]byte, error) {
	if len(sample) < chachaSampleLength {
		return nil, errShortMaskSample
	}

	stream, err := chacha20.NewUnauthenticatedCipher(c.sn, sample[4:chachaSampleLength])
	if err != nil {
		return nil, err
	}
	stream.SetCounter(binary.LittleEndian.Uint32(sample[:4]))

	mask := make([]byte, 2)
	stream.XORKeyStream(mask, mask)

	return mask, nil
}

// RecordVersion returns the legacy version written into plaintext-format
// headers; unified headers carry no version.
func (c *ChaCha20Poly1305_13) RecordVersion() protocol.Version { return protocol.Version1_2 }

// IsNullCipher returns false.
func (c *ChaCha20Poly1305_13) IsNullCipher() bool { return false }
