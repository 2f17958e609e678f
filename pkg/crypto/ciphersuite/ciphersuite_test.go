// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqguard/dtlsrec/pkg/crypto/hkdf13"
)

func legacyHeader(payloadLen int) []byte {
	return []byte{
		0x17,       // application data
		0xfe, 0xfd, // DTLS 1.2
		0x00, 0x01, // epoch
		0x00, 0x00, 0x00, 0x00, 0x00, 0x05, // sequence number
		byte(payloadLen >> 8), byte(payloadLen),
	}
}

func TestGCMRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 4)
	for i := range key {
		key[i] = byte(i)
	}

	sealer, err := NewGCM(key, iv)
	require.NoError(t, err)
	opener, err := NewGCM(key, iv)
	require.NoError(t, err)

	plaintext := []byte("exampledata")
	recordNumber := uint64(1)<<48 | 5
	header := legacyHeader(sealer.CiphertextLen(len(plaintext)))

	body, err := sealer.Seal(nil, recordNumber, header, plaintext, nil)
	require.NoError(t, err)
	assert.Len(t, body, sealer.CiphertextLen(len(plaintext)))

	out, err := opener.Open(nil, recordNumber, header, body)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)

	// Flipping any body bit must fail authentication.
	body[len(body)-1] ^= 0xff
	_, err = opener.Open(nil, recordNumber, header, body)
	assert.ErrorIs(t, err, errDecryptPacket)
	body[len(body)-1] ^= 0xff

	// The header is bound as associated data.
	badHeader := legacyHeader(len(body))
	badHeader[3] ^= 0x01
	_, err = opener.Open(nil, recordNumber, badHeader, body)
	assert.ErrorIs(t, err, errDecryptPacket)

	// Bodies shorter than nonce+tag are rejected up front.
	_, err = opener.Open(nil, recordNumber, header, body[:gcmExplicitNonceLength+gcmTagLength-1])
	assert.ErrorIs(t, err, errNotEnoughRoomForNonce)
}

func TestGCMRejectsExtra(t *testing.T) {
	sealer, err := NewGCM(make([]byte, 16), make([]byte, 4))
	require.NoError(t, err)

	_, err = sealer.Seal(nil, 0, legacyHeader(0), nil, []byte{0x17})
	assert.ErrorIs(t, err, errExtraNotSupported)
}

func testAEAD13(t *testing.T, newAEAD func(*hkdf13.TrafficKeys) (AEAD, error), keyLen int) {
	t.Helper()

	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(0xa0 + i)
	}
	keys, err := hkdf13.DeriveTrafficKeys(sha256.New, secret, keyLen, 12)
	require.NoError(t, err)

	sealer, err := newAEAD(keys)
	require.NoError(t, err)
	opener, err := newAEAD(keys)
	require.NoError(t, err)

	header := []byte{0x2c, 0x00, 0x05, 0x00, 0x1d}
	plaintext := []byte("exampledata")
	extra := []byte{0x17}

	body, err := sealer.Seal(nil, 5, header, plaintext, extra)
	require.NoError(t, err)
	assert.Len(t, body, sealer.CiphertextLen(len(plaintext)+len(extra)))

	out, err := opener.Open(nil, 5, header, body)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, plaintext...), extra...), out)

	// A different record number yields a different nonce and fails.
	_, err = opener.Open(nil, 6, header, body)
	assert.ErrorIs(t, err, errDecryptPacket)

	// Masks are deterministic per sample and differ between samples.
	mask1, err := sealer.GenerateRecordNumberMask(body)
	require.NoError(t, err)
	mask2, err := sealer.GenerateRecordNumberMask(body)
	require.NoError(t, err)
	assert.Equal(t, mask1, mask2)
	assert.GreaterOrEqual(t, len(mask1), 2)

	other := append([]byte{}, body...)
	other[0] ^= 0xff
	mask3, err := sealer.GenerateRecordNumberMask(other)
	require.NoError(t, err)
	assert.NotEqual(t, mask1, mask3)

	_, err = sealer.GenerateRecordNumberMask(body[:15])
	assert.ErrorIs(t, err, errShortMaskSample)
}

func TestGCM13(t *testing.T) {
	testAEAD13(t, func(keys *hkdf13.TrafficKeys) (AEAD, error) {
		return NewGCM13(keys)
	}, 16)
}

func TestChaCha20Poly1305_13(t *testing.T) {
	testAEAD13(t, func(keys *hkdf13.TrafficKeys) (AEAD, error) {
		return NewChaCha20Poly1305_13(keys)
	}, 32)
}

func TestNullCipher(t *testing.T) {
	var null NullCipher

	body, err := null.Seal(nil, 0, nil, []byte("plain"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), body)

	out, err := null.Open(nil, 0, nil, body)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), out)

	assert.True(t, null.IsNullCipher())
	assert.Zero(t, null.MaxOverhead())

	_, err = null.GenerateRecordNumberMask(make([]byte, 16))
	assert.ErrorIs(t, err, errMaskNotSupported)
}
