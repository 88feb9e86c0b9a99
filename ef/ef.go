// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package ef implements EliasFanoSeq, a succinct encoding of a
// non-decreasing sequence of bounded integers. It is both useful on its
// own (monotone sequences, inverted-list gaps) and the index substrate
// that package rrr uses for its super-block rank/offset-position samples.
package ef

import (
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/dsnet/succinct/bitbuffer"
	"github.com/dsnet/succinct/plain"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "ef: " + string(e) }

var (
	// ErrOrderViolation indicates a Push value smaller than the previous one.
	ErrOrderViolation error = Error("value out of non-decreasing order")

	// ErrCapacityExceeded indicates more than n_cap values were pushed.
	ErrCapacityExceeded error = Error("capacity exceeded")

	// ErrUpperBoundExceeded indicates a pushed value exceeds U.
	ErrUpperBoundExceeded error = Error("value exceeds upper bound")

	// ErrOutOfBounds indicates an index beyond the sequence's count.
	ErrOutOfBounds error = Error("index out of bounds")

	// ErrNotBuilt indicates a query before Build.
	ErrNotBuilt error = Error("query before build")
)

// Builder accumulates a non-decreasing integer sequence bounded by an
// upper value U, up to a declared capacity nCap. The zero value is not
// usable; construct with NewBuilder.
type Builder struct {
	nCap, u uint64
	ell     uint
	mask    uint64

	lows  bitbuffer.BitBuffer
	highs plain.Builder

	count   uint64
	lastVal uint64
}

// NewBuilder creates a Builder for a sequence of at most nCap values, each
// in [0, u]. The low-bits width is ell = max(0, floor(log2(u/nCap))), per
// spec.md's Elias-Fano parameterization.
func NewBuilder(nCap, u uint64) *Builder {
	ell := computeEll(nCap, u)
	return &Builder{
		nCap: nCap,
		u:    u,
		ell:  ell,
		mask: uint64(1)<<ell - 1,
	}
}

func computeEll(nCap, u uint64) uint {
	if nCap == 0 {
		return 0
	}
	q := u / nCap
	if q == 0 {
		return 0
	}
	return uint(bits.Len64(q) - 1)
}

// Push appends v to the sequence. v must be >= the previous pushed value
// and <= u; the builder must not already hold nCap values.
func (b *Builder) Push(v uint64) error {
	if b.count > 0 && v < b.lastVal {
		return ErrOrderViolation
	}
	if b.count >= b.nCap {
		return ErrCapacityExceeded
	}
	if v > b.u {
		return ErrUpperBoundExceeded
	}

	low := v & b.mask
	b.lows.Push(low, int(b.ell))

	high := v >> b.ell
	b.highs.Set(high+b.count, true)

	b.count++
	b.lastVal = v
	return nil
}

// Len reports the number of values pushed so far.
func (b *Builder) Len() uint64 { return b.count }

// Build finalizes the underlying highs index, returning an immutable,
// query-ready Seq.
func (b *Builder) Build() *Seq {
	return &Seq{
		nCap:    b.nCap,
		u:       b.u,
		ell:     b.ell,
		mask:    b.mask,
		lows:    b.lows,
		highs:   b.highs.Build(),
		count:   b.count,
		lastVal: b.lastVal,
	}
}

// Seq is a built, immutable Elias-Fano sequence. The zero value is an
// unbuilt Seq: every query method on it panics with ErrNotBuilt.
type Seq struct {
	nCap, u uint64
	ell     uint
	mask    uint64

	lows  bitbuffer.BitBuffer
	highs *plain.BV

	count   uint64
	lastVal uint64
}

// Len reports the number of stored values.
func (s *Seq) Len() uint64 { return s.count }

func (s *Seq) checkBuilt() {
	if s.highs == nil || !s.highs.Built() {
		panic(ErrNotBuilt)
	}
}

// Get returns the i-th (0-indexed) stored value. It panics with
// ErrNotBuilt before Build, or ErrOutOfBounds if i >= Len().
//
// get(i) = (highs.select_1(i) - i) << ell | lows.fetch64(i*ell, ell); when
// ell == 0 the low part is empty and only the high part is returned.
func (s *Seq) Get(i uint64) uint64 {
	s.checkBuilt()
	if i >= s.count {
		panic(ErrOutOfBounds)
	}
	high := s.highs.Select1(i) - i
	if s.ell == 0 {
		return high
	}
	low := s.lows.Fetch64(i*uint64(s.ell), int(s.ell))
	return high<<s.ell | low
}

// Equal reports whether s and other hold bit-identical content.
func (s *Seq) Equal(other *Seq) bool {
	if s.nCap != other.nCap || s.u != other.u || s.ell != other.ell ||
		s.mask != other.mask || s.count != other.count || s.lastVal != other.lastVal {
		return false
	}
	if !s.lows.Equal(&other.lows) {
		return false
	}
	return s.highs.Equal(other.highs)
}

// Hash returns a content hash satisfying Equal(a, b) implies a.Hash() ==
// b.Hash(); see bitbuffer.BitBuffer.Hash for the combining scheme used.
func (s *Seq) Hash() uint64 {
	h := uint64(31)*1 + uint64(s.ell)
	h = 31*h + s.mask
	h = 31*h + s.u
	h = 31*h + s.nCap
	h = 31*h + s.count
	h = 31*h + s.lastVal
	h = 31*h + s.lows.Hash()
	h = 31*h + s.highs.Hash()
	return h
}

// WriteTo serializes s in the contractual format: ell (i32), mask (u64),
// U (u64), n_cap (u64), count (u64), last_val (u64), then lows (BitBuffer
// format), then highs (PlainBV format).
func (s *Seq) WriteTo(w io.Writer) (n int64, err error) {
	s.checkBuilt()
	var hdr [4 + 8*5]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(s.ell))
	binary.LittleEndian.PutUint64(hdr[4:12], s.mask)
	binary.LittleEndian.PutUint64(hdr[12:20], s.u)
	binary.LittleEndian.PutUint64(hdr[20:28], s.nCap)
	binary.LittleEndian.PutUint64(hdr[28:36], s.count)
	binary.LittleEndian.PutUint64(hdr[36:44], s.lastVal)
	nn, err := w.Write(hdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}

	n2, err := s.lows.WriteTo(w)
	n += n2
	if err != nil {
		return n, err
	}
	n3, err := s.highs.WriteTo(w)
	n += n3
	return n, err
}

// ReadFrom deserializes s from the format written by WriteTo, replacing
// any existing content.
func (s *Seq) ReadFrom(r io.Reader) (n int64, err error) {
	var hdr [4 + 8*5]byte
	nn, err := io.ReadFull(r, hdr[:])
	n += int64(nn)
	if err != nil {
		return n, err
	}
	s.ell = uint(binary.LittleEndian.Uint32(hdr[0:4]))
	s.mask = binary.LittleEndian.Uint64(hdr[4:12])
	s.u = binary.LittleEndian.Uint64(hdr[12:20])
	s.nCap = binary.LittleEndian.Uint64(hdr[20:28])
	s.count = binary.LittleEndian.Uint64(hdr[28:36])
	s.lastVal = binary.LittleEndian.Uint64(hdr[36:44])

	var lows bitbuffer.BitBuffer
	n2, err := lows.ReadFrom(r)
	n += n2
	if err != nil {
		return n, err
	}
	s.lows = lows

	highs := new(plain.BV)
	n3, err := highs.ReadFrom(r)
	n += n3
	if err != nil {
		return n, err
	}
	s.highs = highs
	return n, nil
}
