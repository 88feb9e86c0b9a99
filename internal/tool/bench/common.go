// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the query performance of the succinct bit-vector
// implementations with respect to access, rank, and select throughput.
package bench

import (
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/succinct/internal/testutil"
	"github.com/dsnet/succinct/plain"
	"github.com/dsnet/succinct/rrr"
)

const (
	QueryAccess = iota
	QueryRank
	QuerySelect
)

const (
	CodecPlain = "plain"
	CodecRRR   = "rrr"
)

type Result struct {
	R float64 // Rate (queries/us)
	D float64 // Delta relative to primary benchmark
}

// vector is the common query surface both plain.BV and rrr.BV expose.
type vector interface {
	Get(i uint64) bool
	Rank(i uint64, b bool) uint64
	Select(k uint64, b bool) uint64
	SizeB(b bool) uint64
}

func build(codec string, bits []bool) vector {
	switch codec {
	case CodecPlain:
		var b plain.Builder
		for _, bit := range bits {
			b.Push(bit)
		}
		return b.Build()
	case CodecRRR:
		var b rrr.Builder
		for _, bit := range bits {
			b.Push(bit)
		}
		return b.Build()
	default:
		return nil
	}
}

// BenchmarkQuery benchmarks a single codec's query throughput against bits
// and reports the result.
func BenchmarkQuery(query int, codec string, bits []bool) testing.BenchmarkResult {
	v := build(codec, bits)
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if v == nil {
			b.Fatalf("unexpected error: unknown codec %q", codec)
		}
		n := uint64(len(bits))
		if n == 0 {
			n = 1
		}
		size := v.SizeB(true)
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			switch query {
			case QueryAccess:
				v.Get(uint64(i) % n)
			case QueryRank:
				v.Rank(uint64(i)%n, true)
			case QuerySelect:
				if size > 0 {
					v.Select(uint64(i)%size, true)
				}
			}
		}
	})
}

// BenchmarkQuerySuite runs access/rank/select throughput benchmarks across
// both vector implementations, for the given bit-vector sizes and fill
// ratios.
//
// The values returned have the following structure:
//
//	results: [len(sizes)*len(densities)][len(codecs)]Result
//	names:   [len(sizes)*len(densities)]string
func BenchmarkQuerySuite(query int, codecs []string, sizes []uint64, densities []float64, tick func()) (results [][]Result, names []string) {
	d0 := len(sizes) * len(densities)
	d1 := len(codecs)
	results = make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names = make([]string, d0)

	var i int
	for _, n := range sizes {
		for _, p := range densities {
			bits := testutil.SkewedBits(int64(n)+int64(p*1000), n, p)
			names[i] = getName(n, p)
			for j, c := range codecs {
				if tick != nil {
					tick()
				}
				result := BenchmarkQuery(query, c, bits)
				if result.N == 0 {
					continue
				}
				us := float64(result.T.Nanoseconds()) / 1e3
				results[i][j] = Result{R: float64(result.N) / us}
				results[i][j].D = results[i][j].R / results[i][0].R
			}
			i++
		}
	}
	return results, names
}

func getName(n uint64, p float64) string {
	s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
	s = strings.Replace(s, ".00", "", -1)
	return fmt.Sprintf("%s:%.2f", s, p)
}
