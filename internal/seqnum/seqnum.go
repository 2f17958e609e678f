// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

// Package seqnum reconstructs full DTLS 1.3 record numbers from the
// truncated bits carried on the wire.
//
// https://datatracker.ietf.org/doc/html/rfc9147#name-reconstructing-the-sequence
package seqnum

// ReconstructSequence returns the 64-bit sequence number that is congruent
// to wireSeq modulo seqMask+1 and numerically closest to expected, the next
// sequence number the receiver anticipates. Ties between the two candidate
// values are broken toward the lower one. seqMask must be one less than a
// power of two; wireSeq must not exceed it.
func ReconstructSequence(wireSeq, seqMask, expected uint64) uint64 {
	step := seqMask + 1
	diff := (wireSeq - expected) & seqMask
	candidate := expected + diff

	// The two candidates are expected+diff and expected+diff-step. Take the
	// lower one when it is closer, when the upper wrapped past 2^64, but
	// never when the subtraction itself would wrap below zero.
	if candidate < expected || (diff > seqMask/2 && candidate >= step) {
		candidate -= step
	}

	return candidate
}

// ReconstructEpoch returns the most recent epoch consistent with the two
// epoch bits observed on the wire. currentEpoch is the receiver's active
// read epoch; the result never exceeds it unless no epoch at or below it
// matches the observed bits.
func ReconstructEpoch(wireEpoch uint8, currentEpoch uint16) uint16 {
	candidate := uint16(wireEpoch&0b11) | (currentEpoch & 0xfffc)
	if candidate > currentEpoch && currentEpoch&0xfffc > 0 {
		candidate -= 4
	}

	return candidate
}
