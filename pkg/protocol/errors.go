// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package protocol

import (
	"fmt"
	"net"
)

var (
	_ net.Error = &FatalError{}
	_ net.Error = &TemporaryError{}
	_ net.Error = &InternalError{}
	_ net.Error = &TimeoutError{}
)

// FatalError indicates that the connection is no longer available.
// It is mainly caused by wrong configuration of server or client.
type FatalError struct {
	Err error
}

// Timeout implements net.Error.Timeout().
func (*FatalError) Timeout() bool { return false }

// Temporary implements net.Error.Temporary().
func (*FatalError) Temporary() bool { return false }

// Unwrap returns the wrapped error.
func (e *FatalError) Unwrap() error { return e.Err }

// Error implements fmt.Stringer.
func (e *FatalError) Error() string { return fmt.Sprintf("dtls fatal: %v", e.Err) }

// InternalError indicates an internal error caused by the implementation,
// after which the connection is no longer available.
type InternalError struct {
	Err error
}

// Timeout implements net.Error.Timeout().
func (*InternalError) Timeout() bool { return false }

// Temporary implements net.Error.Temporary().
func (*InternalError) Temporary() bool { return false }

// Unwrap returns the wrapped error.
func (e *InternalError) Unwrap() error { return e.Err }

// Error implements fmt.Stringer.
func (e *InternalError) Error() string { return fmt.Sprintf("dtls internal: %v", e.Err) }

// TemporaryError indicates that the connection is still available, but the
// request failed temporarily.
type TemporaryError struct {
	Err error
}

// Timeout implements net.Error.Timeout().
func (*TemporaryError) Timeout() bool { return false }

// Temporary implements net.Error.Temporary().
func (*TemporaryError) Temporary() bool { return true }

// Unwrap returns the wrapped error.
func (e *TemporaryError) Unwrap() error { return e.Err }

// Error implements fmt.Stringer.
func (e *TemporaryError) Error() string { return fmt.Sprintf("dtls temporary: %v", e.Err) }

// TimeoutError indicates that the request timed out.
type TimeoutError struct {
	Err error
}

// Timeout implements net.Error.Timeout().
func (*TimeoutError) Timeout() bool { return true }

// Temporary implements net.Error.Temporary().
func (*TimeoutError) Temporary() bool { return true }

// Unwrap returns the wrapped error.
func (e *TimeoutError) Unwrap() error { return e.Err }

// Error implements fmt.Stringer.
func (e *TimeoutError) Error() string { return fmt.Sprintf("dtls timeout: %v", e.Err) }
