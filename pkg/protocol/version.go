// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package protocol provides the DTLS wire format
package protocol

// Version enums.
var (
	Version1_0 = Version{Major: 0xfe, Minor: 0xff} //nolint:gochecknoglobals
	Version1_2 = Version{Major: 0xfe, Minor: 0xfd} //nolint:gochecknoglobals
	Version1_3 = Version{Major: 0xfe, Minor: 0xfc} //nolint:gochecknoglobals
)

// Version is the minor/major value in the record layer
// and ClientHello/ServerHello
//
// https://tools.ietf.org/html/rfc4346#section-6.2.1
type Version struct {
	Major, Minor uint8
}

// Equal determines if two protocol versions are equal.
func (v Version) Equal(x Version) bool {
	return v.Major == x.Major && v.Minor == x.Minor
}

// IsValidBytes returns true if the bytes represent a valid DTLS version as
// defined in RFC 9147 (see legacy_version).
//
// https://tools.ietf.org/html/rfc9147#section-5.3
func IsValidBytes(major uint8, minor uint8) bool {
	return major == 0xfe && (minor == 0xff || minor == 0xfd || minor == 0xfc)
}

// IsValidVersion returns true if v represents a valid DTLS version as
// defined in RFC 9147 (see legacy_version).
//
// https://tools.ietf.org/html/rfc9147#section-5.3
func IsValidVersion(v Version) bool {
	return v.Equal(Version1_0) || v.Equal(Version1_2) || v.Equal(Version1_3)
}
