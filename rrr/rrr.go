// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rrr implements RRRBV, a Raman-Raman-Rao compressed bit vector.
// Bits are grouped into fixed-size blocks; each block is recorded as a
// class (its population count) and an offset (its lexicographic rank among
// same-class blocks), via the enumerative coding kernel in tables.go. A
// super-block layer of Elias-Fano sequences samples cumulative rank and
// offset-stream position so access/rank/select stay O(1) amortized without
// ever materializing the uncompressed bit vector.
package rrr

import (
	"encoding/binary"
	"io"

	"github.com/dsnet/succinct/bitbuffer"
	"github.com/dsnet/succinct/ef"
	"github.com/dsnet/succinct/internal/bitops"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "rrr: " + string(e) }

var (
	// ErrOutOfBounds indicates an index or count beyond the valid range.
	ErrOutOfBounds error = Error("index out of bounds")

	// ErrNotBuilt indicates a query against a BV that has not been built.
	ErrNotBuilt error = Error("query before build")
)

// Builder accumulates bits for an RRRBV. The zero value is an empty,
// ready-to-use Builder.
type Builder struct {
	bb bitbuffer.BitBuffer
}

// Set sets bit i, growing the vector's length to i+1 if it is currently
// shorter.
func (b *Builder) Set(i uint64, bit bool) { b.bb.Set(i, bit) }

// Push appends a single bit, advancing the write cursor.
func (b *Builder) Push(bit bool) {
	var v uint64
	if bit {
		v = 1
	}
	b.bb.Push(v, 1)
}

// Len reports the number of bits accumulated so far.
func (b *Builder) Len() uint64 { return b.bb.Len() }

// Build performs the single linear sweep that splits the accumulated bits
// into fixed-size blocks, enumeratively codes each block's class and
// offset, and samples cumulative rank and offset-position once per
// super-block, returning an immutable, query-ready BV.
func (b *Builder) Build() *BV {
	n := b.bb.Len()
	numBlocks := (n + t - 1) / t
	numSuperBlocks := (numBlocks + f - 1) / f

	var classCodes, offsetCodes bitbuffer.BitBuffer
	rankBuilder := ef.NewBuilder(numSuperBlocks, n)
	// The exact maximum offset_codes bit length isn't known until the
	// stream is fully written, so offsetPosSamples declares a safe (if
	// loose) upper bound: the worst case where every block needs the
	// widest possible offset code.
	offsetPosBuilder := ef.NewBuilder(numSuperBlocks, numBlocks*uint64(maxBitsForOffset))

	var rankSum uint64
	for i := uint64(0); i < numBlocks; i++ {
		if i%f == 0 {
			mustPush(rankBuilder, rankSum)
			mustPush(offsetPosBuilder, offsetCodes.Len())
		}
		block := b.bb.Fetch64(i*t, t)
		class := bitops.PopCount64(block)
		offset := OffsetOf(block, class)
		assertBlockRoundTrip(block, class, offset)
		classCodes.Push(uint64(class), bitsPerClass)
		offsetCodes.Push(offset, bitsForOffset[class])
		rankSum += uint64(class)
	}

	return &BV{
		n:                n,
		s1:               rankSum,
		classCodes:       classCodes,
		offsetCodes:      offsetCodes,
		rankSamples:      rankBuilder.Build(),
		offsetPosSamples: offsetPosBuilder.Build(),
		built:            true,
	}
}

// mustPush pushes a value already known to respect the builder's capacity
// and upper bound; a failure here indicates a geometry bug in Build.
func mustPush(b *ef.Builder, v uint64) {
	if err := b.Push(v); err != nil {
		panic(err)
	}
}

// BV is a built, immutable RRRBV. The zero value is an unbuilt BV: every
// query method on it panics with ErrNotBuilt.
type BV struct {
	n, s1 uint64

	classCodes  bitbuffer.BitBuffer // count(i) entries of bitsPerClass bits.
	offsetCodes bitbuffer.BitBuffer // count(i) entries of bitsForOffset[class] bits.

	rankSamples      *ef.Seq // Per super-block: cumulative rank_1 at its first block.
	offsetPosSamples *ef.Seq // Per super-block: bit position in offsetCodes of its first block.

	built bool
}

// Size reports the vector's bit length n.
func (v *BV) Size() uint64 { return v.n }

// Size1 reports the number of 1-bits.
func (v *BV) Size1() uint64 { return v.s1 }

// Size0 reports the number of 0-bits.
func (v *BV) Size0() uint64 { return v.n - v.s1 }

// SizeB reports the number of bits equal to b.
func (v *BV) SizeB(b bool) uint64 {
	if b {
		return v.s1
	}
	return v.n - v.s1
}

// Built reports whether Build (or a successful ReadFrom) has populated v.
func (v *BV) Built() bool { return v.built }

func (v *BV) checkBuilt() {
	if !v.built {
		panic(ErrNotBuilt)
	}
}

func (v *BV) numBlocks() uint64 { return (v.n + t - 1) / t }

func (v *BV) classOfBlock(i uint64) int {
	return int(v.classCodes.Fetch64(i*bitsPerClass, bitsPerClass))
}

// offsetPosOfBlock returns the bit position in offsetCodes where block i's
// offset code begins, by walking forward from the nearest super-block
// sample. f is small (32), so this scan is bounded.
func (v *BV) offsetPosOfBlock(i uint64) uint64 {
	sb := i / f
	pos := v.offsetPosSamples.Get(sb)
	for j := sb * f; j < i; j++ {
		pos += uint64(bitsForOffset[v.classOfBlock(j)])
	}
	return pos
}

// fetchBlock decodes the full t-bit value of block i, short-circuiting the
// all-zeros and all-ones classes so the enumerative decode kernel is only
// invoked for mixed blocks.
func (v *BV) fetchBlock(i uint64) uint64 {
	class := v.classOfBlock(i)
	switch class {
	case 0:
		return 0
	case t:
		return allOnesBlock
	}
	pos := v.offsetPosOfBlock(i)
	width := bitsForOffset[class]
	offset := v.offsetCodes.Fetch64(pos, width)
	return OfOffset(offset, class)
}

// Get reports the value of bit i. It panics with ErrNotBuilt if the vector
// has not been built, or ErrOutOfBounds if i >= Size().
func (v *BV) Get(i uint64) bool {
	v.checkBuilt()
	if i >= v.n {
		panic(ErrOutOfBounds)
	}
	b := i / t
	class := v.classOfBlock(b)
	if class == 0 {
		return false
	}
	if class == t {
		return true
	}
	block := v.fetchBlock(b)
	p := i % t
	mask := uint64(1) << (t - 1 - p)
	return block&mask != 0
}

// Rank1 counts the number of 1-bits in [0, i). It is a convenience wrapper
// around Rank(i, true).
func (v *BV) Rank1(i uint64) uint64 { return v.Rank(i, true) }

// Rank0 counts the number of 0-bits in [0, i). It is a convenience wrapper
// around Rank(i, false).
func (v *BV) Rank0(i uint64) uint64 { return v.Rank(i, false) }

// Rank counts the number of bits equal to b in [0, i), for i in [0, n]. It
// panics with ErrNotBuilt if the vector has not been built, or
// ErrOutOfBounds if i > Size().
//
// As in package plain, Rank always computes rank_1 directly and derives
// rank_0 as i - rank_1, so invariant rank_1(i) + rank_0(i) == i holds
// unconditionally, including at super-block and final-block boundaries.
func (v *BV) Rank(i uint64, b bool) uint64 {
	v.checkBuilt()
	if i > v.n {
		panic(ErrOutOfBounds)
	}
	rank1 := v.rank1(i)
	if b {
		return rank1
	}
	return i - rank1
}

func (v *BV) rank1(i uint64) uint64 {
	if i == 0 {
		return 0
	}
	if i == v.n {
		// When n is a multiple of s, i/s is one past the last rank sample.
		return v.s1
	}
	sb := i / s
	start := v.rankSamples.Get(sb)

	if nSB := v.rankSamples.Len(); sb+1 < nSB {
		delta := v.rankSamples.Get(sb+1) - start
		switch delta {
		case 0:
			return start // Super-block is entirely 0-bits.
		case s:
			return start + (i - sb*s) // Super-block is entirely 1-bits.
		}
	}

	rank := start
	bEnd := i / t
	for j := sb * f; j < bEnd; j++ {
		rank += uint64(v.classOfBlock(j))
	}
	if im := i % t; im > 0 {
		block := v.fetchBlock(bEnd)
		rank += uint64(bitops.PopCount64(block >> (t - im)))
	}
	return rank
}

// Select1 locates the position of the k-th (0-indexed) 1-bit. It is a
// convenience wrapper around Select(k, true).
func (v *BV) Select1(k uint64) uint64 { return v.Select(k, true) }

// Select0 locates the position of the k-th (0-indexed) 0-bit. It is a
// convenience wrapper around Select(k, false).
func (v *BV) Select0(k uint64) uint64 { return v.Select(k, false) }

// Select locates the position of the k-th (0-indexed) bit equal to b. It
// panics with ErrNotBuilt if the vector has not been built, or
// ErrOutOfBounds if k >= SizeB(b).
func (v *BV) Select(k uint64, b bool) uint64 {
	v.checkBuilt()
	if k >= v.SizeB(b) {
		panic(ErrOutOfBounds)
	}

	nSB := v.rankSamples.Len()
	lr := func(j uint64) uint64 {
		start := v.rankSamples.Get(j)
		if b {
			return start
		}
		return j*s - start
	}

	// Binary search rankSamples for the largest super-block sb with
	// lr(sb) <= k.
	lo, hi := uint64(0), nSB-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lr(mid) <= k {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	sb := lo
	rem := k - lr(sb)

	if sb+1 < nSB {
		start := v.rankSamples.Get(sb)
		delta := v.rankSamples.Get(sb+1) - start
		if delta == 0 && !b {
			return sb*s + rem
		}
		if delta == s && b {
			return sb*s + rem
		}
	}

	numBlocks := v.numBlocks()
	lastBlock := numBlocks - 1
	q := sb * f
	for {
		class := v.classOfBlock(q)
		validWidth := uint64(t)
		if q == lastBlock {
			if tail := v.n % t; tail != 0 {
				validWidth = tail
			}
		}
		var cnt uint64
		if b {
			cnt = uint64(class)
		} else {
			cnt = validWidth - uint64(class)
		}
		if rem < cnt {
			break
		}
		rem -= cnt
		q++
	}

	block := v.fetchBlock(q)
	// Left-align the t-bit block into a 64-bit word, then reverse it so the
	// shared Select64 kernel (which expects its k-th-bit position to equal
	// the bit's mask-1<<p index) sees logical position p at local index p.
	// This bridges the same MSB-first/LSB-first convention gap that
	// plain.Builder.Build resolves once per word on ingest.
	word := bitops.ReverseUint64(block << (64 - t))
	if !b {
		// Local index 63 is a structural artifact of the 64-t alignment
		// shift and is never a real bit; mask it out of the zero search.
		pad := uint64(1) << 63
		if q == lastBlock {
			if tail := v.n % t; tail != 0 {
				pad |= ^uint64(0) << tail
			}
		}
		word |= pad
	}
	local, ok := bitops.Select64(word, uint(rem), b)
	if !ok {
		panic(ErrOutOfBounds)
	}
	return q*t + uint64(local)
}

// Equal reports whether v and other hold bit-identical content, including
// the built index.
func (v *BV) Equal(other *BV) bool {
	if v.built != other.built {
		return false
	}
	if !v.built {
		return true
	}
	if v.n != other.n || v.s1 != other.s1 {
		return false
	}
	if !v.classCodes.Equal(&other.classCodes) || !v.offsetCodes.Equal(&other.offsetCodes) {
		return false
	}
	return v.rankSamples.Equal(other.rankSamples) && v.offsetPosSamples.Equal(other.offsetPosSamples)
}

// Hash returns a content hash satisfying Equal(a, b) implies a.Hash() ==
// b.Hash(); see bitbuffer.BitBuffer.Hash for the combining scheme used.
func (v *BV) Hash() uint64 {
	h := uint64(31)*1 + v.n
	h = 31*h + v.s1
	h = 31*h + v.classCodes.Hash()
	h = 31*h + v.offsetCodes.Hash()
	h = 31*h + v.rankSamples.Hash()
	h = 31*h + v.offsetPosSamples.Hash()
	return h
}

// WriteTo serializes v in the contractual format: n (u64), s1 (u64), then
// classCodes and offsetCodes (BitBuffer format), then rankSamples and
// offsetPosSamples (EliasFanoSeq format).
func (v *BV) WriteTo(w io.Writer) (n int64, err error) {
	v.checkBuilt()
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], v.n)
	binary.LittleEndian.PutUint64(hdr[8:16], v.s1)
	nn, err := w.Write(hdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}

	writers := []io.WriterTo{&v.classCodes, &v.offsetCodes, v.rankSamples, v.offsetPosSamples}
	for _, wt := range writers {
		n2, err := wt.WriteTo(w)
		n += n2
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadFrom deserializes v from the format written by WriteTo, replacing any
// existing content and marking v as built.
func (v *BV) ReadFrom(r io.Reader) (n int64, err error) {
	var hdr [16]byte
	nn, err := io.ReadFull(r, hdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}
	v.n = binary.LittleEndian.Uint64(hdr[0:8])
	v.s1 = binary.LittleEndian.Uint64(hdr[8:16])

	var classCodes, offsetCodes bitbuffer.BitBuffer
	n2, err := classCodes.ReadFrom(r)
	n += n2
	if err != nil {
		return n, err
	}
	n3, err := offsetCodes.ReadFrom(r)
	n += n3
	if err != nil {
		return n, err
	}
	v.classCodes, v.offsetCodes = classCodes, offsetCodes

	rankSamples := new(ef.Seq)
	n4, err := rankSamples.ReadFrom(r)
	n += n4
	if err != nil {
		return n, err
	}
	offsetPosSamples := new(ef.Seq)
	n5, err := offsetPosSamples.ReadFrom(r)
	n += n5
	if err != nil {
		return n, err
	}
	v.rankSamples, v.offsetPosSamples = rankSamples, offsetPosSamples
	v.built = true
	return n, nil
}
