// Copyright 2026 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/liftover"
)

var (
	chromStyle  = flag.String("chrom-style", "asis", "Output chromosome naming: 'asis' (follow the input's chr prefix), 'short' (1, X, MT) or 'long' (chr1, chrX)")
	compat      = flag.String("compat", "improved", "Compatibility mode: 'improved' or 'strict'")
	mode        = flag.String("mode", "region", "Output mode: 'region' (one merged interval per input line) or 'segments' (one line per chain block)")
	minRatio    = flag.Float64("min-ratio", liftover.DefaultMinRatio, "In region mode, minimum fraction of an interval's bases that must be aligned")
	mmapMB      = flag.Int64("mmap-threshold-mb", chain.DefaultOpts.MmapThreshold>>20, "Memory-map local uncompressed chain files at least this many MiB")
	outPath     = flag.String("out", "-", "Output path; '-' for stdout")
	unmapPath   = flag.String("unmapped", "", "Path for intervals that failed to map; defaults to <out>.unmap, or stderr when writing to stdout")
	parallelism = flag.Int("parallelism", 0, "Number of goroutines mapping intervals in segments mode; 0 = runtime.NumCPU()")
	region      = flag.String("region", "", "Map this region (chrom:start-end, 1-based inclusive) instead of reading intervals")
	samHeader   = flag.String("sam-header", "", "If set, write a SAM header describing the target assembly to this path")
)

func bioLiftoverUsage() {
	fmt.Printf("Usage: %s [OPTIONS] chainpath [inpath]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioLiftoverUsage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		log.Fatalf("Expected chainpath and optional inpath; got '%s'", strings.Join(args, " "))
	}
	inPath := "-"
	if len(args) == 2 {
		inPath = args[1]
	}
	style, err := liftover.ParseChromStyle(*chromStyle)
	if err != nil {
		log.Fatalf("%v", err)
	}
	compatMode, err := liftover.ParseCompatMode(*compat)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *parallelism <= 0 {
		*parallelism = runtime.NumCPU()
	}
	opts := runOpts{
		ChainPath:   args[0],
		InPath:      inPath,
		OutPath:     *outPath,
		UnmapPath:   *unmapPath,
		Region:      *region,
		SAMHeader:   *samHeader,
		Mode:        *mode,
		MinRatio:    *minRatio,
		Parallelism: *parallelism,
		Mapper:      liftover.Opts{Style: style, Compat: compatMode},
		Chain:       chain.Opts{MmapThreshold: *mmapMB << 20},
	}
	if err := run(vcontext.Background(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
