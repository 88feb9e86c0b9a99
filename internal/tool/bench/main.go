// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build ignore

// Benchmark tool to compare access/rank/select throughput between the
// succinct bit-vector implementations.
//
// Example usage:
//	$ go build -o benchmark main.go
//	$ ./benchmark \
//		-queries  access,rank,select \
//		-codecs   plain,rrr          \
//		-sizes    1e4,1e5,1e6        \
//		-densities 0.01,0.5,0.99
//
//
//	BENCHMARK: rank
//		benchmark         plain q/us  delta      rrr q/us  delta
//		9.8K:0.01             42.11  1.00x         18.55  0.44x
//		9.8K:0.50             41.88  1.00x         17.90  0.43x
//		9.8K:0.99             42.03  1.00x         18.20  0.43x
//		96K:0.01              40.55  1.00x         17.12  0.42x
//		96K:0.50              40.10  1.00x         16.88  0.42x
//		96K:0.99              40.22  1.00x         17.01  0.42x
//
//
//	RUNTIME: 3.217s
package main

import (
	"fmt"
	"flag"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/golib/strconv"
	"github.com/dsnet/succinct/internal/tool/bench"
)

const (
	defaultSizes     = "1e4,1e5,1e6"
	defaultDensities = "0.01,0.50,0.99"
)

var (
	queryToEnum = map[string]int{
		"access": bench.QueryAccess,
		"rank":   bench.QueryRank,
		"select": bench.QuerySelect,
	}
	enumToQuery = map[int]string{
		bench.QueryAccess: "access",
		bench.QueryRank:   "rank",
		bench.QuerySelect: "select",
	}
)

func defaultQueries() string {
	var d []int
	for k := range enumToQuery {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToQuery[v])
	}
	return strings.Join(s, ",")
}

func defaultCodecs() string {
	return strings.Join([]string{bench.CodecPlain, bench.CodecRRR}, ",")
}

func main() {
	f0 := flag.String("queries", defaultQueries(), "List of query types to benchmark")
	f1 := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	f2 := flag.String("sizes", defaultSizes, "List of bit-vector sizes to benchmark")
	f3 := flag.String("densities", defaultDensities, "List of set-bit densities to benchmark")
	flag.Parse()

	sep := regexp.MustCompile("[,:]")
	var codecs []string
	var queries []int
	var sizes []uint64
	var densities []float64
	codecs = sep.Split(*f1, -1)
	for _, s := range sep.Split(*f0, -1) {
		q, ok := queryToEnum[s]
		if !ok {
			panic("invalid query type")
		}
		queries = append(queries, q)
	}
	for _, s := range sep.Split(*f2, -1) {
		n, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			panic("invalid size")
		}
		sizes = append(sizes, uint64(n))
	}
	for _, s := range sep.Split(*f3, -1) {
		var p float64
		fmt.Sscanf(s, "%g", &p)
		densities = append(densities, p)
	}

	ts := time.Now()
	runBenchmarks(queries, codecs, sizes, densities)
	te := time.Now()
	fmt.Printf("RUNTIME: %v\n", te.Sub(ts))
}

func runBenchmarks(queries []int, codecs []string, sizes []uint64, densities []float64) {
	for _, q := range queries {
		fmt.Printf("BENCHMARK: %s\n", enumToQuery[q])

		var cnt int
		tick := func() {
			total := len(codecs) * len(sizes) * len(densities)
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Printf("\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		results, names := bench.BenchmarkQuerySuite(q, codecs, sizes, densities, tick)
		printResults(results, names, codecs)
		fmt.Println()
	}
}

func printResults(results [][]bench.Result, names, codecs []string) {
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " q/us"
		cells[0][2+2*i] = "delta"
	}

	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R)
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	for _, row := range cells {
		fmt.Print("\t")
		for i, s := range row {
			switch {
			case i == 0:
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1:
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0:
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Print(row[i])
		}
		fmt.Println()
	}
}
