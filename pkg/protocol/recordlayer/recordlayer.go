// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package recordlayer implements the DTLS record layer wire formats
// https://tools.ietf.org/html/rfc6347#section-4.1
package recordlayer

import (
	"encoding/binary"
)

const (
	// HeaderSize is the size of the DTLS 1.2 record header.
	HeaderSize = 13

	// MaxSequenceNumber is the highest sequence number representable in the
	// 48 bits the wire format carries. Exceeding it forces a rekey.
	MaxSequenceNumber = 0x0000FFFFFFFFFFFF

	// MaxPlaintextLen is the largest record plaintext permitted by the
	// protocol (2^14, RFC 5246 section 6.2.1).
	MaxPlaintextLen = 1 << 14

	// MaxCiphertextLen bounds the length a record header may declare
	// (RFC 5246 section 6.2.3).
	MaxCiphertextLen = MaxPlaintextLen + 2048
)

// UnpackDatagram extracts all DTLS records from a datagram. Note that as
// with TLS, multiple handshake messages may be placed in the same DTLS
// record, provided that there is room and that they are part of the same
// flight. Thus, there are two acceptable ways to pack two DTLS messages
// into the same datagram: in the same record or in separate records.
//
// https://tools.ietf.org/html/rfc6347#section-4.2.3
func UnpackDatagram(buf []byte) ([][]byte, error) {
	out := [][]byte{}

	for offset := 0; len(buf) != offset; {
		if len(buf)-offset <= HeaderSize {
			return nil, ErrInvalidPacketLength
		}

		pktLen := (HeaderSize + int(binary.BigEndian.Uint16(buf[offset+11:])))
		if offset+pktLen > len(buf) {
			return nil, ErrInvalidPacketLength
		}

		out = append(out, buf[offset:offset+pktLen])
		offset += pktLen
	}

	return out, nil
}
