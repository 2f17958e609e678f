// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedHeader(t *testing.T) {
	uh := UnifiedHeader{SequenceNumber: 0xaabb, Length: 42, EpochLow: 15}

	raw, err := uh.Marshal()
	assert.NoError(t, err)

	expect := []byte{
		0x2f,       // 0b00101111
		0xaa, 0xbb, // Sequence number
		0x00, 0x2a, // length
	}
	assert.Equal(t, expect, raw)

	newUh := UnifiedHeader{}
	err = newUh.Unmarshal(expect)

	assert.NoError(t, err)
	assert.Equal(t, uh.SequenceNumber, newUh.SequenceNumber)
	assert.Equal(t, 2, newUh.SequenceNumberLen)
	assert.Equal(t, uh.Length, newUh.Length)
	assert.True(t, newUh.LengthPresent)
	assert.Equal(t, uint8(0b11), newUh.EpochLow)
	assert.Equal(t, len(expect), newUh.Size())
}

func TestUnifiedHeader_Minimal(t *testing.T) {
	uh := UnifiedHeader{SequenceNumber: 0x42}

	raw, err := uh.Marshal()
	assert.NoError(t, err)

	expect := []byte{
		0x20, // 0b00100000
		0x42, // Sequence number
	}
	assert.Equal(t, expect, raw)

	newUh := UnifiedHeader{}
	err = newUh.Unmarshal(expect)

	assert.NoError(t, err)
	assert.Equal(t, uh.SequenceNumber, newUh.SequenceNumber)
	assert.Equal(t, 1, newUh.SequenceNumberLen)
	assert.False(t, newUh.LengthPresent)
	assert.Equal(t, uint8(0b00), newUh.EpochLow)
	assert.Equal(t, len(expect), newUh.Size())
}

func TestUnifiedHeader_CIDRejected(t *testing.T) {
	data := []byte{
		0x30,       // 0b00110000, CID bit set
		0x04,       // CID length
		0x01, 0x02, // CID
		0x03, 0x04, // CID
		0xaa, // Seq no
	}

	var uh UnifiedHeader
	assert.ErrorIs(t, uh.Unmarshal(data), errConnectionIDNotSupported)
}

func TestUnifiedHeader_Truncated(t *testing.T) {
	for _, data := range [][]byte{
		{},                 // no flags
		{0x28},             // 16-bit seq flag, no seq bytes
		{0x28, 0xaa},       // 16-bit seq flag, one seq byte
		{0x24, 0x01},       // length flag, missing length
		{0x24, 0x01, 0x00}, // length flag, half a length
	} {
		var uh UnifiedHeader
		assert.Error(t, uh.Unmarshal(data), "data %#v", data)
	}

	// Legacy header first byte is not a unified header.
	var uh UnifiedHeader
	assert.ErrorIs(t, uh.Unmarshal([]byte{0x16, 0xfe, 0xfd}), errInvalidContentType)
}
