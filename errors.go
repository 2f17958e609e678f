// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package dtlsrec

import (
	"errors"

	"github.com/seqguard/dtlsrec/pkg/protocol"
)

var (
	// ErrConnClosed is returned by reads and writes after a close_notify
	// alert has been delivered or sent.
	ErrConnClosed = &protocol.FatalError{Err: errors.New("conn is closed")} //nolint:err113

	// ErrSequenceNumberOverflow is returned by SealRecord when the write
	// sequence number for an epoch has exhausted its 48-bit space. The
	// epoch must be rekeyed; wrapping would reuse AEAD nonces.
	ErrSequenceNumberOverflow = &protocol.InternalError{Err: errors.New("sequence number overflow, rekey required")} //nolint:err113

	// ErrUnknownWriteEpoch is returned by SealRecord for an epoch with no
	// installed write context.
	ErrUnknownWriteEpoch = &protocol.InternalError{Err: errors.New("no write context installed for epoch")} //nolint:err113

	errBufferTooSmall  = &protocol.TemporaryError{Err: errors.New("buffer is too small")}                  //nolint:err113
	errRecordTooLarge  = &protocol.InternalError{Err: errors.New("record plaintext exceeds maximum size")} //nolint:err113
	errEpochRegression = &protocol.InternalError{Err: errors.New("epochs must not decrease")}              //nolint:err113
)
