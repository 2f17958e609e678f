// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"errors"

	"github.com/seqguard/dtlsrec/pkg/protocol"
)

var (
	// ErrInvalidPacketLength is returned when a datagram does not hold the
	// record lengths its headers declare.
	ErrInvalidPacketLength = &protocol.TemporaryError{Err: errors.New("packet length and declared length do not match")} //nolint:err113

	errBufferTooSmall             = &protocol.TemporaryError{Err: errors.New("buffer is too small")}                 //nolint:err113
	errSequenceNumberOverflow     = &protocol.InternalError{Err: errors.New("sequence number overflow")}             //nolint:err113
	errUnsupportedProtocolVersion = &protocol.FatalError{Err: errors.New("unsupported protocol version")}            //nolint:err113
	errInvalidContentType         = &protocol.TemporaryError{Err: errors.New("invalid content type")}                //nolint:err113
	errInvalidUnifiedHeaderFormat = &protocol.TemporaryError{Err: errors.New("invalid unified header format")}       //nolint:err113
	errConnectionIDNotSupported   = &protocol.TemporaryError{Err: errors.New("connection IDs are not supported")}    //nolint:err113
	errPaddingOnlyPlaintext       = &protocol.TemporaryError{Err: errors.New("plaintext contains only zero padding")} //nolint:err113
)
