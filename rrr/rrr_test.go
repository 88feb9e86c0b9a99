// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package rrr

import (
	"bytes"
	"testing"

	"github.com/dsnet/succinct/internal/testutil"
	"github.com/dsnet/succinct/plain"
)

func buildFromBits(bits []bool) *BV {
	var b Builder
	for _, bit := range bits {
		b.Push(bit)
	}
	return b.Build()
}

func buildPlainFromBits(bits []bool) *plain.BV {
	var b plain.Builder
	for _, bit := range bits {
		b.Push(bit)
	}
	return b.Build()
}

// TestS1SetBitsAtPositions covers spec scenario S1 against RRRBV.
func TestS1SetBitsAtPositions(t *testing.T) {
	positions := []uint64{0, 511, 512, 1000, 2000, 2015, 2016, 2017, 3000}
	bits := make([]bool, 3001)
	for _, p := range positions {
		bits[p] = true
	}
	v := buildFromBits(bits)

	for k, want := range positions {
		if got := v.Select1(uint64(k)); got != want {
			t.Errorf("Select1(%d) = %d, want %d", k, got, want)
		}
	}
	if got, want := v.Rank1(3001), uint64(len(positions)); got != want {
		t.Errorf("Rank1(3001) = %d, want %d", got, want)
	}
	if !v.Get(2016) || !v.Get(2015) {
		t.Errorf("Get(2016)/Get(2015) expected true")
	}
}

func checkInvariants(t *testing.T, v *BV, bits []bool) {
	t.Helper()
	n := uint64(len(bits))

	for i := uint64(0); i < n; i++ {
		if got := v.Rank1(i+1) - v.Rank1(i); (got == 1) != bits[i] {
			t.Fatalf("n=%d i=%d: get/rank1-delta mismatch", n, i)
		}
	}
	for i := uint64(0); i <= n; i++ {
		if got := v.Rank1(i) + v.Rank0(i); got != i {
			t.Fatalf("n=%d i=%d: rank1+rank0 = %d, want %d", n, i, got, i)
		}
	}
	for _, b := range []bool{true, false} {
		size := v.SizeB(b)
		for k := uint64(0); k < size; k++ {
			pos := v.Select(k, b)
			if v.Get(pos) != b {
				t.Fatalf("n=%d b=%v k=%d: Get(Select(k,b))=%v, want %v", n, b, k, v.Get(pos), b)
			}
			if got := v.Rank(pos, b); got != k {
				t.Fatalf("n=%d b=%v k=%d: Rank(Select(k,b),b) = %d, want %d", n, b, k, got, k)
			}
		}
	}
	for i := uint64(0); i < n; i++ {
		b := bits[i]
		if got := v.Select(v.Rank(i, b), b); got != i {
			t.Fatalf("n=%d i=%d: Select(Rank(i,b),b) = %d, want %d", n, i, got, i)
		}
	}
}

func TestInvariantsRandom(t *testing.T) {
	for _, n := range testutil.Sizes {
		bits := testutil.RandomBits(int64(n)+100, n)
		checkInvariants(t, buildFromBits(bits), bits)
	}
}

func TestAllZerosAllOnes(tt *testing.T) {
	// Parameter named tt: the package already defines a const t (block
	// size) used in the slice literal below.
	for _, n := range []uint64{0, 1, t, t + 1, s, s + 1} {
		zeros := make([]bool, n)
		ones := make([]bool, n)
		for i := range ones {
			ones[i] = true
		}
		checkInvariants(tt, buildFromBits(zeros), zeros)
		checkInvariants(tt, buildFromBits(ones), ones)
	}
}

func TestSkewedBlocksAndSuperBlocks(tt *testing.T) {
	// Sparse and dense inputs produce many all-zero and all-one blocks,
	// exercising fetchBlock's class-0/class-t short-circuits in rank1/Select.
	// A uniform super-block is practically impossible at these densities;
	// TestAllZerosAllOnes covers the super-block short-circuits.
	for _, n := range []uint64{2000, s*3 + 500} {
		bits := testutil.SkewedBits(int64(n)+7, n, 0.02)
		checkInvariants(tt, buildFromBits(bits), bits)
		bits = testutil.SkewedBits(int64(n)+8, n, 0.98)
		checkInvariants(tt, buildFromBits(bits), bits)
	}
}

// TestS4PlainVsRRREquivalence covers spec scenario S4 / invariant 7.
func TestS4PlainVsRRREquivalence(t *testing.T) {
	bits := testutil.RandomBits(123, 10000)
	p := buildPlainFromBits(bits)
	r := buildFromBits(bits)

	for i := uint64(0); i <= 10000; i++ {
		for _, b := range []bool{true, false} {
			if got, want := r.Rank(i, b), p.Rank(i, b); got != want {
				t.Fatalf("i=%d b=%v: RRRBV.Rank = %d, want %d (PlainBV)", i, b, got, want)
			}
		}
	}
	for _, b := range []bool{true, false} {
		size := p.SizeB(b)
		for k := uint64(0); k < size; k++ {
			if got, want := r.Select(k, b), p.Select(k, b); got != want {
				t.Fatalf("b=%v k=%d: RRRBV.Select = %d, want %d (PlainBV)", b, k, got, want)
			}
		}
	}
	for i := uint64(0); i < 10000; i++ {
		if r.Get(i) != p.Get(i) {
			t.Fatalf("i=%d: Get mismatch between RRRBV and PlainBV", i)
		}
	}
}

// TestS5Serialization covers spec scenario S5.
func TestS5Serialization(t *testing.T) {
	bits := testutil.RandomBits(321, 10000)
	r := buildFromBits(bits)

	var out bytes.Buffer
	if _, err := r.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got := new(BV)
	if _, err := got.ReadFrom(&out); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !r.Equal(got) {
		t.Fatalf("round-trip mismatch")
	}
	if r.Hash() != got.Hash() {
		t.Fatalf("Equal but Hash differs")
	}
	for i := uint64(0); i < r.Size(); i++ {
		if r.Get(i) != got.Get(i) {
			t.Fatalf("Get(%d) mismatch after round-trip", i)
		}
	}
}

func TestS6BoundaryErrors(t *testing.T) {
	v := buildFromBits(testutil.RandomBits(42, 5000))

	expectPanic := func(name string, want error, fn func()) {
		t.Helper()
		defer func() {
			if r := recover(); r != want {
				t.Errorf("%s panic = %v, want %v", name, r, want)
			}
		}()
		fn()
	}

	expectPanic("Get(n)", ErrOutOfBounds, func() { v.Get(v.Size()) })
	expectPanic("Rank(n+1)", ErrOutOfBounds, func() { v.Rank(v.Size()+1, true) })
	expectPanic("Select(size(b), b)", ErrOutOfBounds, func() { v.Select(v.SizeB(true), true) })

	var unbuilt BV
	expectPanic("unbuilt Rank", ErrNotBuilt, func() { unbuilt.Rank(0, true) })
	expectPanic("unbuilt Select", ErrNotBuilt, func() { unbuilt.Select(0, true) })
}
