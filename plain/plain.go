// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package plain implements PlainBV, an uncompressed succinct bit vector: an
// n-bit sequence augmented with a two-level rank dictionary and a
// rank-indexed, broadword select kernel. It answers access(i), rank_b(i),
// and select_b(k) in O(1) amortized time using o(n) bits of index on top
// of the n bits of raw storage.
package plain

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/dsnet/succinct/bitbuffer"
	"github.com/dsnet/succinct/internal/bitops"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "plain: " + string(e) }

var (
	// ErrOutOfBounds indicates an index or count beyond the valid range.
	ErrOutOfBounds error = Error("index out of bounds")

	// ErrNotBuilt indicates a query against a BV that has not been built.
	ErrNotBuilt error = Error("query before build")
)

// Index tuning parameters, fixed per spec.
const (
	smallBlock = 64  // Bits per small block (one word).
	largeBlock = 512 // Bits per large block.
	ratio      = largeBlock / smallBlock
)

// Builder accumulates bits for a PlainBV. The zero value is an empty,
// ready-to-use Builder. Builders are single-writer; concurrent Set/Push
// calls are not safe.
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

// Build performs the single linear sweep that constructs the two-level
// rank index, returning an immutable, query-ready BV. The Builder's own
// MSB-first words are bit-reversed on ingest so that the broadword
// kernels used by Rank/Select can operate LSB-first.
func (b *Builder) Build() *BV {
	src := b.bb.Words()
	n := b.bb.Len()

	words := make([]uint64, len(src))
	r := make([]uint64, 0, (len(src)+ratio-1)/ratio)

	var rank uint64
	for i, w := range src {
		if i%ratio == 0 {
			r = append(r, rank)
		}
		words[i] = bitops.ReverseUint64(w)
		rank += uint64(bitops.PopCount64(w))
	}

	return &BV{n: n, s1: rank, words: words, r: r, built: true}
}

// BV is a built, immutable PlainBV. The zero value is an unbuilt BV: every
// query method on it panics with ErrNotBuilt.
//
// Word storage is LSB-first relative to the logical bit index: word q
// holds logical bits [64q, 64q+64), with local bit position p stored at
// mask 1<<p. This is the opposite convention from bitbuffer.BitBuffer
// (MSB-first); Builder.Build performs the one bit-reversal that bridges
// the two conventions, so the broadword rank/select kernels below can
// stay simple suffix/prefix popcounts.
type BV struct {
	n     uint64   // Number of bits.
	s1    uint64   // rank_1(n): total population count.
	words []uint64 // LSB-first words.
	r     []uint64 // r[j] = rank_1(j*largeBlock).
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

// Get reports the value of bit i. It panics with ErrNotBuilt if the vector
// has not been built, or ErrOutOfBounds if i >= Size().
func (v *BV) Get(i uint64) bool {
	v.checkBuilt()
	if i >= v.n {
		panic(ErrOutOfBounds)
	}
	q, p := i/64, i%64
	return v.words[q]&(uint64(1)<<p) != 0
}

// Rank1 counts the number of 1-bits in [0, i). It is a convenience
// wrapper around Rank(i, true).
func (v *BV) Rank1(i uint64) uint64 { return v.Rank(i, true) }

// Rank0 counts the number of 0-bits in [0, i). It is a convenience
// wrapper around Rank(i, false).
func (v *BV) Rank0(i uint64) uint64 { return v.Rank(i, false) }

// Rank counts the number of bits equal to b in [0, i), for i in [0, n].
// It panics with ErrNotBuilt if the vector has not been built, or
// ErrOutOfBounds if i > Size().
//
// Rank always computes rank_1 directly (large-block sum + small-block
// popcounts + masked final word) and derives rank_0 as i - rank_1. This
// sidesteps the sense-flipped "q_large*LARGE - r[q_large]" shortcut that
// spec.md's Open Questions flag as unverified at boundaries: i - rank_1(i)
// satisfies invariant 1 (rank_1(i) + rank_0(i) == i) by construction for
// every i, including the partial final word.
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
	ip := i - 1
	qLarge := ip / largeBlock
	qSmall := ip / smallBlock
	rMod := ip % smallBlock

	rank := v.r[qLarge]
	for k := qLarge * ratio; k < qSmall; k++ {
		rank += uint64(bitops.PopCount64(v.words[k]))
	}

	mask := ^uint64(0) >> (63 - rMod) // Low rMod+1 bits set.
	rank += uint64(bitops.PopCount64(v.words[qSmall] & mask))
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

	lr := func(j int) uint64 {
		if b {
			return v.r[j]
		}
		return uint64(j)*largeBlock - v.r[j]
	}

	// Binary search r for the largest j with lr(j) <= k.
	j := sort.Search(len(v.r), func(j int) bool { return lr(j) > k }) - 1
	rem := k - lr(j)

	// The last word of the vector may be partial: positions >= n within it
	// are zero-padding, not logical 0-bits, so a naive smallBlock-cnt
	// complement would over-count zeros there. wordZeros reports the
	// number of genuine 0-bits in word q, accounting for that tail.
	lastWord := len(v.words) - 1
	wordZeros := func(q int, cnt uint64) uint64 {
		if q == lastWord {
			if tail := v.n % smallBlock; tail != 0 {
				return tail - cnt
			}
		}
		return smallBlock - cnt
	}

	q := j * ratio
	for {
		word := v.words[q]
		cnt := uint64(bitops.PopCount64(word))
		if b {
			if rem < cnt {
				break
			}
			rem -= cnt
		} else {
			zeros := wordZeros(q, cnt)
			if rem < zeros {
				break
			}
			rem -= zeros
		}
		q++
	}

	word := v.words[q]
	if !b && q == lastWord {
		if tail := v.n % smallBlock; tail != 0 {
			word |= ^uint64(0) << tail // Mask the tail padding out of the zero search.
		}
	}
	pos, ok := bitops.Select64(word, uint(rem), b)
	if !ok {
		panic(ErrOutOfBounds)
	}
	return uint64(q)*smallBlock + uint64(pos)
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
	if len(v.words) != len(other.words) || len(v.r) != len(other.r) {
		return false
	}
	for i := range v.words {
		if v.words[i] != other.words[i] {
			return false
		}
	}
	for i := range v.r {
		if v.r[i] != other.r[i] {
			return false
		}
	}
	return true
}

// Hash returns a content hash satisfying Equal(a, b) implies a.Hash() ==
// b.Hash(); see bitbuffer.BitBuffer.Hash for the combining scheme used.
func (v *BV) Hash() uint64 {
	h := uint64(31)*1 + v.n
	h = 31*h + v.s1
	for _, w := range v.words {
		h = 31*h + w
	}
	for _, r := range v.r {
		h = 31*h + r
	}
	return h
}

// WriteTo serializes v in the contractual format: n (u64), s1 (u64),
// |words| (i32), words (u64 each), |r| (i32), large-block sums (u64 each).
func (v *BV) WriteTo(w io.Writer) (n int64, err error) {
	v.checkBuilt()
	var hdr [20]byte
	binary.LittleEndian.PutUint64(hdr[0:8], v.n)
	binary.LittleEndian.PutUint64(hdr[8:16], v.s1)
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(len(v.words)))
	nn, err := w.Write(hdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}
	sn, err := writeUint64Slice(w, v.words)
	n += sn
	if err != nil {
		return n, err
	}

	var rhdr [4]byte
	binary.LittleEndian.PutUint32(rhdr[:], uint32(len(v.r)))
	wn, err := w.Write(rhdr[:])
	n += int64(wn)
	if err != nil {
		return n, err
	}
	sn, err = writeUint64Slice(w, v.r)
	n += sn
	if err != nil {
		return n, err
	}
	return n, nil
}

// ReadFrom deserializes v from the format written by WriteTo, replacing
// any existing content and marking v as built.
func (v *BV) ReadFrom(r io.Reader) (n int64, err error) {
	var hdr [20]byte
	nn, err := io.ReadFull(r, hdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}
	vn := binary.LittleEndian.Uint64(hdr[0:8])
	s1 := binary.LittleEndian.Uint64(hdr[8:16])
	nwords := binary.LittleEndian.Uint32(hdr[16:20])

	words, rn, err := readUint64Slice(r, int(nwords))
	n += rn
	if err != nil {
		return n, err
	}

	var rhdr [4]byte
	nn, err = io.ReadFull(r, rhdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}
	nr := binary.LittleEndian.Uint32(rhdr[:])

	rsamp, rn, err := readUint64Slice(r, int(nr))
	n += rn
	if err != nil {
		return n, err
	}

	v.n, v.s1, v.words, v.r, v.built = vn, s1, words, rsamp, true
	return n, nil
}

func writeUint64Slice(w io.Writer, s []uint64) (n int64, err error) {
	var buf [8]byte
	for _, v := range s {
		binary.LittleEndian.PutUint64(buf[:], v)
		nn, err := w.Write(buf[:])
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func readUint64Slice(r io.Reader, count int) (out []uint64, n int64, err error) {
	out = make([]uint64, count)
	var buf [8]byte
	for i := range out {
		nn, err := io.ReadFull(r, buf[:])
		n += int64(nn)
		if err != nil {
			return out, n, err
		}
		out[i] = binary.LittleEndian.Uint64(buf[:])
	}
	return out, n, nil
}
