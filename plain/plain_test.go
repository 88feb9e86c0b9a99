// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package plain

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/dsnet/succinct/internal/testutil"
)

func buildFromBits(bits []bool) *BV {
	var b Builder
	for _, bit := range bits {
		b.Push(bit)
	}
	return b.Build()
}

// TestS1SetBitsAtPositions covers spec scenario S1.
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
	if !v.Get(2016) {
		t.Errorf("Get(2016) = false, want true")
	}
	if !v.Get(2015) {
		t.Errorf("Get(2015) = false, want true")
	}
}

func TestInvariantsRandom(t *testing.T) {
	for _, n := range testutil.Sizes {
		bits := testutil.RandomBits(int64(n)+1, n)
		v := buildFromBits(bits)
		checkInvariants(t, v, bits)
	}
}

func checkInvariants(t *testing.T, v *BV, bits []bool) {
	t.Helper()
	n := uint64(len(bits))

	var ones, zeros uint64
	for i := uint64(0); i < n; i++ {
		if bits[i] {
			ones++
		} else {
			zeros++
		}
		// Invariant 2: get(i) == rank_1(i+1) - rank_1(i).
		if got := v.Rank1(i+1) - v.Rank1(i); (got == 1) != bits[i] {
			t.Fatalf("n=%d i=%d: get/rank1-delta mismatch", n, i)
		}
	}
	if ones != v.Size1() || zeros != v.Size0() {
		t.Fatalf("n=%d: Size1/Size0 = %d/%d, want %d/%d", n, v.Size1(), v.Size0(), ones, zeros)
	}

	// Invariant 1: rank_1(i) + rank_0(i) == i, for all i in [0, n].
	for i := uint64(0); i <= n; i++ {
		if got := v.Rank1(i) + v.Rank0(i); got != i {
			t.Fatalf("n=%d i=%d: rank1+rank0 = %d, want %d", n, i, got, i)
		}
	}

	for _, b := range []bool{true, false} {
		size := v.SizeB(b)
		for k := uint64(0); k < size; k++ {
			pos := v.Select(k, b)
			// Invariant 3.
			if v.Get(pos) != b {
				t.Fatalf("n=%d b=%v k=%d: Get(Select(k,b))=%v, want %v", n, b, k, v.Get(pos), b)
			}
			if got := v.Rank(pos, b); got != k {
				t.Fatalf("n=%d b=%v k=%d: Rank(Select(k,b),b) = %d, want %d", n, b, k, got, k)
			}
		}
	}

	// Invariant 4: for all i with get(i)==b, select_b(rank_b(i)) == i.
	for i := uint64(0); i < n; i++ {
		b := bits[i]
		if got := v.Select(v.Rank(i, b), b); got != i {
			t.Fatalf("n=%d i=%d: Select(Rank(i,b),b) = %d, want %d", n, i, got, i)
		}
	}
}

func TestAllZerosAllOnes(t *testing.T) {
	for _, n := range []uint64{0, 1, 64, 512, 2017} {
		zeros := make([]bool, n)
		ones := make([]bool, n)
		for i := range ones {
			ones[i] = true
		}
		checkInvariants(t, buildFromBits(zeros), zeros)
		checkInvariants(t, buildFromBits(ones), ones)
	}
}

func TestS6BoundaryErrors(t *testing.T) {
	v := buildFromBits(testutil.RandomBits(42, 100))

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

func TestSerializationRoundTrip(t *testing.T) {
	v := buildFromBits(testutil.RandomBits(7, 10000))
	var out bytes.Buffer
	if _, err := v.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got := new(BV)
	if _, err := got.ReadFrom(&out); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !v.Equal(got) {
		t.Fatalf("round-trip mismatch")
	}
	if v.Hash() != got.Hash() {
		t.Fatalf("Equal but Hash differs")
	}
	for i := uint64(0); i < v.Size(); i += 97 {
		if v.Get(i) != got.Get(i) {
			t.Fatalf("Get(%d) mismatch after round-trip", i)
		}
	}
}

func TestCrossCheckPopCount(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	bits := make([]bool, 777)
	for i := range bits {
		bits[i] = rnd.Intn(2) == 1
	}
	v := buildFromBits(bits)
	if got, want := v.Size1(), uint64(testutil.PopCount(bits)); got != want {
		t.Fatalf("Size1() = %d, want %d (independent cross-check)", got, want)
	}
}
