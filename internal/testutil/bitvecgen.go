// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package testutil provides shared fixtures for the succinct vector test
// suites, keeping random-data generation in one place rather than
// duplicated per package.
package testutil

import (
	"math/rand"

	"github.com/dsnet/golib/bits"
)

// Sizes is the set of boundary-relevant bit-vector lengths exercised by
// every package's boundary-case tests: zero, one, an RRR block (63), a
// PlainBV word (64) and one past it, a PlainBV large block (512) with one
// either side, an RRR super-block (2016) and one past it, and a length
// spanning several super-blocks (4001).
var Sizes = []uint64{0, 1, 63, 64, 65, 511, 512, 513, 2016, 2017, 4001}

// RandomBits returns n pseudo-random bits generated from the given seed,
// as a []bool slice suitable for driving any of plain/ef/rrr's Set/Push.
func RandomBits(seed int64, n uint64) []bool {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]bool, n)
	for i := range out {
		out[i] = rnd.Intn(2) == 1
	}
	return out
}

// SkewedBits is like RandomBits, but each bit is true with probability p
// (0 <= p <= 1), producing long runs useful for exercising RRR's all-zero
// and all-one block/super-block short-circuits.
func SkewedBits(seed int64, n uint64, p float64) []bool {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]bool, n)
	for i := range out {
		out[i] = rnd.Float64() < p
	}
	return out
}

// PopCount counts the 1-bits in bits, packing them MSB-first into bytes and
// delegating to bits.Count. It exists as an independent cross-check of
// internal/bitops.PopCount64 against a differently-sourced counting
// routine over the same logical data.
func PopCount(bs []bool) int {
	buf := make([]byte, (len(bs)+7)/8)
	for i, b := range bs {
		if b {
			buf[i/8] |= 1 << uint(7-i%8)
		}
	}
	return bits.Count(buf)
}

// PopCountByte is a one-byte convenience wrapper around bits.CountByte.
func PopCountByte(b byte) int {
	return bits.CountByte(b)
}
