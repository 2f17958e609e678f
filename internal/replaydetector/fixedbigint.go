// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package replaydetector

import "fmt"

// fixedBigInt is a fixed-width, unsigned big integer supporting the few
// operations the sliding window needs. Bits shifted above the width are
// dropped.
type fixedBigInt struct {
	bits    []uint64
	n       uint
	msbMask uint64
}

func newFixedBigInt(n uint) *fixedBigInt {
	chunkSize := (n + 63) / 64
	if chunkSize == 0 {
		chunkSize = 1
	}

	// Bits valid in the most significant chunk.
	msbMask := ^uint64(0)
	if rem := n % 64; rem != 0 {
		msbMask = (1 << rem) - 1
	}

	return &fixedBigInt{
		bits:    make([]uint64, chunkSize),
		n:       n,
		msbMask: msbMask,
	}
}

// Lsh shifts left by n bits.
func (bi *fixedBigInt) Lsh(n uint) {
	if n == 0 {
		return
	}
	nChunk := int(n / 64)
	nN := n % 64

	for i := len(bi.bits) - 1; i >= 0; i-- {
		var carry uint64
		if i-nChunk >= 0 {
			carry = bi.bits[i-nChunk] << nN
			if nN != 0 && i-nChunk-1 >= 0 {
				carry |= bi.bits[i-nChunk-1] >> (64 - nN)
			}
		}
		bi.bits[i] = carry
	}
	bi.bits[len(bi.bits)-1] &= bi.msbMask
}

// Bit returns i-th bit of the fixedBigInt.
func (bi *fixedBigInt) Bit(i uint) uint {
	if i >= bi.n {
		return 0
	}
	chunk := i / 64
	pos := i % 64
	if bi.bits[chunk]&(1<<pos) != 0 {
		return 1
	}

	return 0
}

// SetBit sets i-th bit to 1.
func (bi *fixedBigInt) SetBit(i uint) {
	if i >= bi.n {
		return
	}
	chunk := i / 64
	pos := i % 64
	bi.bits[chunk] |= 1 << pos
}

// String returns the hex representation of the fixedBigInt.
func (bi *fixedBigInt) String() string {
	var out string
	for i := len(bi.bits) - 1; i >= 0; i-- {
		out += fmt.Sprintf("%016X", bi.bits[i])
	}

	return out
}
