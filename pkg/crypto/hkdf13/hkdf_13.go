// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package hkdf13 implements the DTLS 1.3 key derivation functions
package hkdf13

import (
	"errors"
	"hash"
	"io"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/hkdf"
)

var (
	errLabelTooSmall = errors.New("HKDF-Expand-Label expected a label with length >= 7")
	errLabelTooBig   = errors.New("HKDF-Expand-Label expected a label with length <= 255")
	errContextTooBig = errors.New("HKDF-Expand-Label expected a context with length <= 255")
)

// Prefix applied to every HKDF label, per RFC 9147 section 5.9.
const Prefix = "dtls13"

// ExpandLabel implements HKDF-Expand-Label from RFC 8446 section 7.1 with
// the DTLS prefix from RFC 9147 section 5.9.
func ExpandLabel(hashFunc func() hash.Hash, secret []byte, label string, context []byte, length int) ([]byte, error) {
	fullLabel := []byte(Prefix + label)

	if len(fullLabel) < 7 {
		return nil, errLabelTooSmall
	} else if len(fullLabel) > 255 {
		return nil, errLabelTooBig
	}
	if len(context) > 255 {
		return nil, errContextTooBig
	}

	// The HkdfLabel struct (RFC 8446 section 7.1).
	var builder cryptobyte.Builder
	builder.AddUint16(uint16(length)) //nolint:gosec
	builder.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(fullLabel)
	})
	builder.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(context)
	})

	hkdfLabel, err := builder.Bytes()
	if err != nil {
		return nil, err
	}

	out := make([]byte, length)
	r := hkdf.Expand(hashFunc, secret, hkdfLabel)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}

	return out, nil
}

// TrafficKeys is the keying material protecting one direction of one epoch.
type TrafficKeys struct {
	Key []byte // AEAD key
	IV  []byte // per-record nonce base
	SN  []byte // sequence number encryption key, RFC 9147 section 4.2.3
}

// DeriveTrafficKeys derives the AEAD key, IV and sequence number key from a
// traffic secret, per RFC 9147 section 5.9 and RFC 8446 section 7.3.
func DeriveTrafficKeys(hashFunc func() hash.Hash, secret []byte, keyLen, ivLen int) (*TrafficKeys, error) {
	key, err := ExpandLabel(hashFunc, secret, "key", nil, keyLen)
	if err != nil {
		return nil, err
	}
	iv, err := ExpandLabel(hashFunc, secret, "iv", nil, ivLen)
	if err != nil {
		return nil, err
	}
	sn, err := ExpandLabel(hashFunc, secret, "sn", nil, keyLen)
	if err != nil {
		return nil, err
	}

	return &TrafficKeys{Key: key, IV: iv, SN: sn}, nil
}
