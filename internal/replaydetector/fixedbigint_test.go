// SPDX-FileCopyrightText: 2026 The dtlsrec authors
// SPDX-License-Identifier: MIT

package replaydetector

import "testing"

func TestFixedBigInt(t *testing.T) {
	bi := newFixedBigInt(100)

	bi.SetBit(0)
	if bi.Bit(0) != 1 {
		t.Error("Bit(0) is not set")
	}

	bi.Lsh(1)
	if bi.Bit(0) != 0 || bi.Bit(1) != 1 {
		t.Errorf("Lsh(1) produced wrong state: %s", bi)
	}

	// Crossing the chunk boundary must carry the bit.
	bi.Lsh(63)
	if bi.Bit(64) != 1 {
		t.Errorf("Lsh(63) lost the carried bit: %s", bi)
	}

	// Shifting past the width drops the bit entirely.
	bi.Lsh(100)
	for i := uint(0); i < 100; i++ {
		if bi.Bit(i) != 0 {
			t.Fatalf("bit %d survived a full-width shift: %s", i, bi)
		}
	}

	// Bits at or above the width are ignored.
	bi.SetBit(100)
	if bi.Bit(100) != 0 {
		t.Error("SetBit above the width must be a no-op")
	}

	// The highest in-range bit survives shifts up to it.
	bi.SetBit(0)
	bi.Lsh(99)
	if bi.Bit(99) != 1 {
		t.Errorf("bit 99 was clipped by the top-chunk mask: %s", bi)
	}
	bi.Lsh(1)
	if bi.Bit(99) != 0 {
		t.Error("bit 99 must fall off after one more shift")
	}
}
