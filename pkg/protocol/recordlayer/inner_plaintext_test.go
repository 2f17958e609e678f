// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqguard/dtlsrec/pkg/protocol"
)

func TestInnerPlaintextRoundTrip(t *testing.T) {
	for zeros := 0; zeros < 32; zeros++ {
		p := InnerPlaintext{
			Content:  []byte("hello"),
			RealType: protocol.ContentTypeApplicationData,
			Zeros:    zeros,
		}
		raw, err := p.Marshal()
		require.NoError(t, err)
		assert.Len(t, raw, len(p.Content)+1+zeros)

		var parsed InnerPlaintext
		require.NoError(t, parsed.Unmarshal(raw))
		assert.Equal(t, p.Content, parsed.Content)
		assert.Equal(t, p.RealType, parsed.RealType)
		assert.Equal(t, zeros, parsed.Zeros)
	}
}

func TestInnerPlaintextEmptyContent(t *testing.T) {
	var parsed InnerPlaintext
	require.NoError(t, parsed.Unmarshal([]byte{byte(protocol.ContentTypeAlert), 0x00, 0x00}))
	assert.Empty(t, parsed.Content)
	assert.Equal(t, protocol.ContentTypeAlert, parsed.RealType)
	assert.Equal(t, 2, parsed.Zeros)
}

func TestInnerPlaintextAllZeros(t *testing.T) {
	for length := 0; length < 16; length++ {
		var parsed InnerPlaintext
		err := parsed.Unmarshal(make([]byte, length))
		assert.ErrorIs(t, err, errPaddingOnlyPlaintext, "length %d", length)
	}
}
