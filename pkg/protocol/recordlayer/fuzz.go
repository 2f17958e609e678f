// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

//go:build gofuzz
// +build gofuzz

package recordlayer

import (
	"fmt"
)

// FuzzHeaders exercises both header parsers on arbitrary input and checks
// that anything that parses re-serializes to an equivalent header.
func FuzzHeaders(data []byte) int {
	score := 0

	var h Header
	if err := h.Unmarshal(data); err == nil {
		buf, err := h.Marshal()
		if err != nil {
			panic(err) // nolint
		}
		var reparsed Header
		if err := reparsed.Unmarshal(buf); err != nil {
			panic(err) // nolint
		}
		if reparsed != h {
			panic(fmt.Sprintf("legacy header mismatch: %+v != %+v", reparsed, h)) // nolint
		}
		score = 1
	}

	var u UnifiedHeader
	if err := u.Unmarshal(data); err == nil {
		buf, err := u.Marshal()
		if err != nil {
			panic(err) // nolint
		}
		var reparsed UnifiedHeader
		if err := reparsed.Unmarshal(buf); err != nil {
			panic(err) // nolint
		}
		if reparsed.SequenceNumber != u.SequenceNumber || reparsed.EpochLow != u.EpochLow {
			panic(fmt.Sprintf("unified header mismatch: %+v != %+v", reparsed, u)) // nolint
		}
		score = 1
	}

	return score
}
