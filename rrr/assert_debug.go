// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build debug

package rrr

import (
	"github.com/dsnet/golib/errs"

	"github.com/dsnet/succinct/internal/bitops"
)

// assertBlockRoundTrip verifies that decoding the enumerative code just
// produced for block reproduces the original value and class exactly. It
// is only compiled into debug builds (go build -tags debug): the
// round-trip itself does the same work as encoding, so running it on every
// Build() would defeat the point of the O(1)-per-block compression pass in
// release builds.
func assertBlockRoundTrip(block uint64, class int, offset uint64) {
	errs.Assert(OfOffset(offset, class) == block, errBlockCorrupt)
	errs.Assert(bitops.PopCount64(block) == class, errBlockCorrupt)
}

var errBlockCorrupt = Error("block round-trip assertion failed")
