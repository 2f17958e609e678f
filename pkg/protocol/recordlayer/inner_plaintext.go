// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"github.com/seqguard/dtlsrec/pkg/protocol"
)

// InnerPlaintext is the DTLSInnerPlaintext structure carried inside every
// protected DTLS 1.3 record: the real content followed by the real content
// type and any number of zero padding bytes.
//
// https://datatracker.ietf.org/doc/html/rfc9147#section-4-4
type InnerPlaintext struct {
	Content  []byte
	RealType protocol.ContentType
	Zeros    int
}

// Marshal encodes the inner plaintext to binary.
func (p *InnerPlaintext) Marshal() ([]byte, error) {
	out := make([]byte, 0, len(p.Content)+1+p.Zeros)
	out = append(out, p.Content...)
	out = append(out, byte(p.RealType))
	out = append(out, make([]byte, p.Zeros)...)

	return out, nil
}

// Unmarshal strips the zero padding from the tail of an opened record and
// recovers the real content type. Data consisting only of zeros carries no
// content type and is invalid.
func (p *InnerPlaintext) Unmarshal(data []byte) error {
	i := len(data) - 1
	for i >= 0 && data[i] == 0 {
		i--
	}
	if i < 0 {
		return errPaddingOnlyPlaintext
	}

	p.RealType = protocol.ContentType(data[i])
	p.Content = data[:i]
	p.Zeros = len(data) - 1 - i

	return nil
}
