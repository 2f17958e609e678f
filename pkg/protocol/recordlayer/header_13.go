// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"math"

	"golang.org/x/crypto/cryptobyte"

	"github.com/seqguard/dtlsrec/pkg/protocol"
)

// UnifiedHeader implements the DTLS 1.3 Unified Header.
// See RFC 9147 section 4. The DTLS Record Layer
//
// https://datatracker.ietf.org/doc/html/rfc9147#name-the-dtls-record-layer
//
//	 0 1 2 3 4 5 6 7
//	+-+-+-+-+-+-+-+-+
//	|0|0|1|C|S|L|E E|
//	+-+-+-+-+-+-+-+-+
//	|  8 or 16 bit  |   Legend:
//	|Sequence Number|
//	+-+-+-+-+-+-+-+-+   C   - Connection ID (CID) present, rejected
//	| 16 bit Length |   S   - Sequence number length
//	| (if present)  |   L   - Length present
//	+-+-+-+-+-+-+-+-+   E   - Epoch
//
// Connection IDs are not supported; headers carrying the C bit fail to
// parse and the record is discarded.
type UnifiedHeader struct {
	SequenceNumber    uint16
	SequenceNumberLen int // encoded length in bytes, 1 or 2
	Length            uint16
	LengthPresent     bool
	EpochLow          uint8 // epoch mod 4
}

// Unified header flag bits.
const (
	UnifiedHeaderFixedBits = 0b00100000
	UnifiedHeaderCIDBit    = 0b00010000
	UnifiedHeaderSeqBit    = 0b00001000
	UnifiedHeaderLengthBit = 0b00000100
	TwoLowBitsMask         = 0b11

	// UnifiedHeaderSeqOffset is the offset of the (maskable) sequence
	// number bytes from the start of the header.
	UnifiedHeaderSeqOffset = 1
)

// Size returns the encoded size of the header.
func (u *UnifiedHeader) Size() int {
	size := 1 + u.seqLen()
	if u.LengthPresent || u.Length > 0 {
		size += 2
	}

	return size
}

func (u *UnifiedHeader) seqLen() int {
	if u.SequenceNumberLen == 2 || u.SequenceNumber > math.MaxUint8 {
		return 2
	}

	return 1
}

// Marshal encodes a DTLS 1.3 Unified Header to binary.
func (u *UnifiedHeader) Marshal() ([]byte, error) {
	flags := uint8(UnifiedHeaderFixedBits)
	var head cryptobyte.Builder

	if u.seqLen() == 2 {
		flags |= UnifiedHeaderSeqBit
		head.AddUint16(u.SequenceNumber)
	} else {
		head.AddUint8(uint8(u.SequenceNumber)) //nolint:gosec
	}

	if u.LengthPresent || u.Length > 0 {
		flags |= UnifiedHeaderLengthBit
		head.AddUint16(u.Length)
	}

	flags |= u.EpochLow & TwoLowBitsMask

	headBytes, err := head.Bytes()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1+len(headBytes))
	out[0] = flags
	copy(out[1:], headBytes)

	return out, nil
}

// Unmarshal populates a DTLS 1.3 Unified Header from binary.
func (u *UnifiedHeader) Unmarshal(data []byte) error {
	str := cryptobyte.String(data)

	var flags uint8
	if !str.ReadUint8(&flags) || !protocol.IsDTLS13Ciphertext(protocol.ContentType(flags)) {
		return errInvalidContentType
	}

	if flags&UnifiedHeaderCIDBit != 0 {
		return errConnectionIDNotSupported
	}

	if flags&UnifiedHeaderSeqBit != 0 {
		var seq uint16
		if !str.ReadUint16(&seq) {
			return errInvalidUnifiedHeaderFormat
		}
		u.SequenceNumber = seq
		u.SequenceNumberLen = 2
	} else {
		var seq uint8
		if !str.ReadUint8(&seq) {
			return errInvalidUnifiedHeaderFormat
		}
		u.SequenceNumber = uint16(seq)
		u.SequenceNumberLen = 1
	}

	u.EpochLow = flags & TwoLowBitsMask

	u.LengthPresent = flags&UnifiedHeaderLengthBit != 0
	u.Length = 0
	if u.LengthPresent {
		if !str.ReadUint16(&u.Length) {
			return errInvalidUnifiedHeaderFormat
		}
	}

	return nil
}
