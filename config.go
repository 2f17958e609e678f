// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package dtlsrec

import (
	"github.com/pion/logging"

	"github.com/seqguard/dtlsrec/pkg/protocol"
	"github.com/seqguard/dtlsrec/pkg/protocol/alert"
)

const defaultReplayProtectionWindow = 64

// Config collects the record layer options. A zero value is usable: DTLS
// 1.2 record format, a 64-record replay window and no logging.
type Config struct {
	// LoggerFactory supplies the logger. Discarded records are reported
	// at trace level only; nothing is logged above debug on the record
	// path.
	LoggerFactory logging.LoggerFactory

	// ReplayProtectionWindow is the width in records of the anti-replay
	// window kept for the current read epoch. Records older than the
	// window are discarded unconditionally. Defaults to 64.
	ReplayProtectionWindow int

	// Version is the negotiated protocol version. Records for encrypted
	// epochs use the DTLS 1.3 unified header format when this is
	// Version1_3, the 13-byte format otherwise.
	Version protocol.Version

	// AlertHandler, when set, observes every authenticated alert record,
	// close_notify included. Alert policy beyond delivery is the
	// caller's.
	AlertHandler func(alert.Alert)
}

func (c *Config) replayProtectionWindow() uint {
	if c.ReplayProtectionWindow <= 0 {
		return defaultReplayProtectionWindow
	}

	return uint(c.ReplayProtectionWindow)
}

func (c *Config) loggerFactory() logging.LoggerFactory {
	if c.LoggerFactory == nil {
		return logging.NewDefaultLoggerFactory()
	}

	return c.LoggerFactory
}

func (c *Config) version() protocol.Version {
	if (c.Version == protocol.Version{}) {
		return protocol.Version1_2
	}

	return c.Version
}
