// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package protocol

// ContentType represents the IANA registered ContentTypes
//
// https://tools.ietf.org/html/rfc4346#section-6.2.1
type ContentType uint8

// ContentType enums.
const (
	ContentTypeChangeCipherSpec ContentType = 20
	ContentTypeAlert            ContentType = 21
	ContentTypeHandshake        ContentType = 22
	ContentTypeApplicationData  ContentType = 23
	ContentTypeConnectionID     ContentType = 25
)

// IsDTLS13Ciphertext reports whether the byte carries the DTLS 1.3 unified
// header marker bits (001) in its top three bits.
//
// https://datatracker.ietf.org/doc/html/rfc9147#name-demultiplexing-dtls-records
func IsDTLS13Ciphertext(contentType ContentType) bool {
	return uint8(contentType)&0b11100000 == 0b00100000
}
