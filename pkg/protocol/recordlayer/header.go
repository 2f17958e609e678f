// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/seqguard/dtlsrec/internal/util"
	"github.com/seqguard/dtlsrec/pkg/protocol"
)

// Header is the DTLS 1.2 record header, also carried by plaintext DTLS 1.3
// records (DTLSPlaintext).
//
// https://tools.ietf.org/html/rfc6347#section-4.1
type Header struct {
	ContentType    protocol.ContentType
	Version        protocol.Version
	Epoch          uint16
	SequenceNumber uint64 // uint48 on the wire
	ContentLen     uint16
}

// Size returns the encoded size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Marshal encodes the header to binary.
func (h *Header) Marshal() ([]byte, error) {
	if h.SequenceNumber > MaxSequenceNumber {
		return nil, errSequenceNumberOverflow
	}

	var b cryptobyte.Builder
	b.AddUint8(uint8(h.ContentType))
	b.AddUint8(h.Version.Major)
	b.AddUint8(h.Version.Minor)
	b.AddUint16(h.Epoch)
	util.AddUint48(&b, h.SequenceNumber)
	b.AddUint16(h.ContentLen)

	return b.Bytes()
}

// Unmarshal populates the header from binary data. The declared body is not
// required to be present.
func (h *Header) Unmarshal(data []byte) error {
	if len(data) < HeaderSize {
		return errBufferTooSmall
	}

	str := cryptobyte.String(data)
	var contentType uint8
	var seqBytes []byte
	if !str.ReadUint8(&contentType) ||
		!str.ReadUint8(&h.Version.Major) ||
		!str.ReadUint8(&h.Version.Minor) ||
		!str.ReadUint16(&h.Epoch) ||
		!str.ReadBytes(&seqBytes, 6) ||
		!str.ReadUint16(&h.ContentLen) {
		return errBufferTooSmall
	}
	h.ContentType = protocol.ContentType(contentType)
	h.SequenceNumber = util.BigEndianUint48(seqBytes)

	if !protocol.IsValidBytes(h.Version.Major, h.Version.Minor) {
		return errUnsupportedProtocolVersion
	}

	return nil
}
