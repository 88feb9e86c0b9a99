// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build gofuzz

package rrr

import (
	"bytes"

	"github.com/dsnet/succinct/plain"
	"github.com/dsnet/succinct/rrr"
)

// Fuzz treats the input as a bit-string (each byte contributes its 8 bits,
// MSB first) and checks that RRRBV agrees with PlainBV on every query, and
// that RRRBV losslessly round-trips through serialization.
func Fuzz(data []byte) int {
	bits := decodeBits(data)
	if len(bits) == 0 {
		return 0
	}

	var pb plain.Builder
	var rb rrr.Builder
	for _, bit := range bits {
		pb.Push(bit)
		rb.Push(bit)
	}
	p := pb.Build()
	r := rb.Build()

	testEquivalence(p, r, bits)
	testRoundTrip(r)
	return 1
}

func decodeBits(data []byte) []bool {
	bits := make([]bool, 0, 8*len(data))
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, b&(1<<uint(i)) != 0)
		}
	}
	return bits
}

func testEquivalence(p *plain.BV, r *rrr.BV, bits []bool) {
	n := uint64(len(bits))
	for i := uint64(0); i <= n; i++ {
		if r.Rank(i, true) != p.Rank(i, true) || r.Rank(i, false) != p.Rank(i, false) {
			panic("rank mismatch between RRRBV and PlainBV")
		}
	}
	for i := uint64(0); i < n; i++ {
		if r.Get(i) != p.Get(i) {
			panic("access mismatch between RRRBV and PlainBV")
		}
	}
	for _, b := range []bool{true, false} {
		size := p.SizeB(b)
		for k := uint64(0); k < size; k++ {
			if r.Select(k, b) != p.Select(k, b) {
				panic("select mismatch between RRRBV and PlainBV")
			}
		}
	}
}

func testRoundTrip(r *rrr.BV) {
	bb := new(bytes.Buffer)
	if _, err := r.WriteTo(bb); err != nil {
		panic(err)
	}
	got := new(rrr.BV)
	if _, err := got.ReadFrom(bb); err != nil {
		panic(err)
	}
	if !r.Equal(got) {
		panic("mismatching round-trip")
	}
	if r.Hash() != got.Hash() {
		panic("equal values with mismatching hash")
	}
}
