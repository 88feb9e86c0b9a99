// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build !debug

package rrr

// assertBlockRoundTrip is a no-op in release builds; see assert_debug.go.
func assertBlockRoundTrip(block uint64, class int, offset uint64) {}
