// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package rrr

import "math/bits"

// Block/super-block geometry, fixed per spec.
const (
	t             = 63   // Bits per block; must leave one free bit in a 64-bit word.
	f             = 32   // Blocks per super-block.
	s             = t * f // Bits per super-block (2016).
	bitsPerClass  = 6    // log2(t+1) rounded up; class is in [0, t].
	allOnesBlock  = uint64(1)<<t - 1
)

// BinomialTable holds C(n, k) for n, k in [0, t], used by the enumerative
// class/offset coding kernel (OffsetOf/OfOffset). Per spec.md's own
// boundary convention, C[0][*] and C[*][0] are forced to 0 rather than the
// mathematically standard 1. The kernel only ever reads BinomialTable with
// k >= 1 (it stops scanning once the remaining class count reaches 0), and
// the n = 0 row it can reach holds C(0, k) for k >= 1, which is 0 under
// either convention, so the convention never changes a value the kernel
// sees; it exists purely so property tests can assert the table's shape
// against the spec's stated convention.
var BinomialTable [t + 1][t + 1]uint64

// bitsForOffset[c] = ceil(log2(trueBinomial(t, c) + 1)), the width in bits
// of the stored offset for a block of class c. This is computed from the
// TRUE (unzeroed) binomial coefficients — in particular trueBinomial(t, 0)
// and trueBinomial(t, t) are both 1, each needing exactly 1 bit, even
// though BinomialTable itself reports 0 at k=0 per the convention above.
var bitsForOffset [t + 1]int

// maxBitsForOffset is the largest entry in bitsForOffset; it upper-bounds
// the bit-width of an Elias-Fano upper value declared for offsetPosSamples
// (see Builder.Build), since the exact maximum position isn't known until
// the whole offset_codes stream has been written.
var maxBitsForOffset int

func init() {
	// Standard Pascal's-triangle construction using the conventional
	// boundary (C(n,0) = 1) so bitsForOffset sees true values.
	var trueC [t + 1][t + 1]uint64
	for n := 0; n <= t; n++ {
		trueC[n][0] = 1
		for k := 1; k <= n; k++ {
			trueC[n][k] = trueC[n-1][k-1] + trueC[n-1][k]
		}
	}

	for c := 0; c <= t; c++ {
		bitsForOffset[c] = bitsNeeded(trueC[t][c])
		if bitsForOffset[c] > maxBitsForOffset {
			maxBitsForOffset = bitsForOffset[c]
		}
	}

	BinomialTable = trueC
	for k := 0; k <= t; k++ {
		BinomialTable[0][k] = 0
	}
	for n := 0; n <= t; n++ {
		BinomialTable[n][0] = 0
	}
}

// bitsNeeded returns ceil(log2(v+1)) for v >= 0 (the number of bits needed
// to represent any value in [0, v]).
func bitsNeeded(v uint64) int {
	if v == 0 {
		return 0
	}
	return bits.Len64(v)
}

// OffsetOf computes the lexicographic rank (within the set of t-bit
// strings of the given class) of the block value v, by scanning bit
// positions t-1 down to 0 and, for each set bit, adding BinomialTable[i][c]
// and decrementing c. It stops once c reaches 0.
func OffsetOf(v uint64, class int) uint64 {
	var offset uint64
	c := class
	for i := t - 1; i >= 0 && c > 0; i-- {
		if v&(uint64(1)<<uint(i)) != 0 {
			offset += BinomialTable[i][c]
			c--
		}
	}
	return offset
}

// OfOffset is the inverse of OffsetOf: it reconstructs the t-bit block
// value of the given class whose lexicographic rank is offset.
func OfOffset(offset uint64, class int) uint64 {
	var v uint64
	c := class
	for i := t - 1; i >= 0 && c > 0; i-- {
		if offset >= BinomialTable[i][c] {
			v |= uint64(1) << uint(i)
			offset -= BinomialTable[i][c]
			c--
		}
	}
	return v
}
