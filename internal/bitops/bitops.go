// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitops implements the broadword kernels shared by the succinct
// vector implementations: whole-word bit reversal and constant-time
// select-within-a-word.
//
// For performance reasons, these functions lack strong error checking and
// require that the caller ensure that strict invariants are kept.
package bitops

import "math/bits"

var (
	// IdentityLUT returns the input key itself.
	IdentityLUT [256]byte

	// ReverseLUT returns the input key with its bits reversed.
	ReverseLUT [256]byte
)

func init() {
	for i := range IdentityLUT {
		IdentityLUT[i] = uint8(i)
	}
	for i := range ReverseLUT {
		b := uint8(i)
		b = (b&0xaa)>>1 | (b&0x55)<<1
		b = (b&0xcc)>>2 | (b&0x33)<<2
		b = (b&0xf0)>>4 | (b&0x0f)<<4
		ReverseLUT[i] = b
	}
}

// ReverseUint64 reverses the bit order of v, treating v as a 64-bit word.
//
// This is the single point where the two bit-order conventions of the
// library meet: BitBuffer stores words MSB-first, while PlainBV stores
// words LSB-first so that its broadword kernels reduce to a popcount of a
// suffix mask. PlainBV.Build calls this once per word on ingest.
func ReverseUint64(v uint64) (x uint64) {
	x |= uint64(ReverseLUT[byte(v>>0)]) << 56
	x |= uint64(ReverseLUT[byte(v>>8)]) << 48
	x |= uint64(ReverseLUT[byte(v>>16)]) << 40
	x |= uint64(ReverseLUT[byte(v>>24)]) << 32
	x |= uint64(ReverseLUT[byte(v>>32)]) << 24
	x |= uint64(ReverseLUT[byte(v>>40)]) << 16
	x |= uint64(ReverseLUT[byte(v>>48)]) << 8
	x |= uint64(ReverseLUT[byte(v>>56)]) << 0
	return x
}

// PopCount64 returns the number of set bits in v.
func PopCount64(v uint64) int {
	return bits.OnesCount64(v)
}

// Select64 locates the bit-position of the k-th (0-indexed) bit equal to bit
// within word, using a cascading popcount narrowing technique: at each step
// the population count of the lower half decides whether the target lies in
// the lower or upper half, which is then narrowed by 16 and 8; once at most
// 8 candidate bits remain, the k lower set bits are cleared and a single
// TrailingZeros64 call yields the position. Every step is O(1), so the
// whole kernel is O(1).
//
// It reports ok=false if word does not contain a k-th such bit.
func Select64(word uint64, k uint, bit bool) (pos uint, ok bool) {
	if !bit {
		word = ^word
	}
	if k >= uint(bits.OnesCount64(word)) {
		return 0, false
	}

	var acc uint
	if c := uint(bits.OnesCount32(uint32(word))); c <= k {
		acc += 32
		word >>= 32
		k -= c
	}
	if c := uint(bits.OnesCount16(uint16(word))); c <= k {
		acc += 16
		word >>= 16
		k -= c
	}
	if c := uint(bits.OnesCount8(uint8(word))); c <= k {
		acc += 8
		word >>= 8
		k -= c
	}
	// At most 8 candidate bits remain; k < 8, so this loop is bounded.
	for ; k > 0; k-- {
		word &= word - 1 // Clear the lowest set bit.
	}
	return acc + uint(bits.TrailingZeros64(word)), true
}
