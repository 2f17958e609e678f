// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"github.com/seqguard/dtlsrec/pkg/protocol"
)

// NullCipher passes record bodies through unmodified. It backs epoch 0,
// before the first handshake keys are installed.
type NullCipher struct{}

// Open returns the record body as-is.
func (NullCipher) Open(dst []byte, _ uint64, _, ciphertext []byte) ([]byte, error) {
	return append(dst, ciphertext...), nil
}

// Seal returns the plaintext as-is.
func (NullCipher) Seal(dst []byte, _ uint64, _, plaintext, extra []byte) ([]byte, error) {
	if len(extra) != 0 {
		return nil, errExtraNotSupported
	}

	return append(dst, plaintext...), nil
}

// CiphertextLen returns plaintextLen unchanged.
func (NullCipher) CiphertextLen(plaintextLen int) int { return plaintextLen }

// MaxOverhead returns 0.
func (NullCipher) MaxOverhead() int { return 0 }

// ExplicitNonceLen returns 0.
func (NullCipher) ExplicitNonceLen() int { return 0 }

// GenerateRecordNumberMask fails; plaintext records are never masked.
func (NullCipher) GenerateRecordNumberMask([]byte) ([]byte, error) {
	return nil, errMaskNotSupported
}

// RecordVersion returns the DTLS 1.2 legacy version.
func (NullCipher) RecordVersion() protocol.Version { return protocol.Version1_2 }

// IsNullCipher returns true.
func (NullCipher) IsNullCipher() bool { return true }
