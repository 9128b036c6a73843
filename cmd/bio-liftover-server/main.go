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

// bio-liftover-server serves coordinate lookups over HTTP from one chain file
// loaded at startup.
//
//   GET /map?chrom=chr1&start=100&end=200&strand=+
//   GET /map?region=chr1:101-200
//   GET /region?region=chr1:101-200&min_ratio=0.9
//   GET /info

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/interval"
	"github.com/grailbio/liftover/liftover"
	"github.com/pkg/errors"
)

var (
	port       = flag.Int("port", 8080, "HTTP service port")
	chromStyle = flag.String("chrom-style", "asis", "Output chromosome naming: 'asis', 'short' or 'long'")
	compat     = flag.String("compat", "improved", "Compatibility mode: 'improved' or 'strict'")
	minRatio   = flag.Float64("min-ratio", liftover.DefaultMinRatio, "Default minimum aligned fraction for /region")
	mmapMB     = flag.Int64("mmap-threshold-mb", chain.DefaultOpts.MmapThreshold>>20, "Memory-map local uncompressed chain files at least this many MiB")
	debug      = flag.Bool("debug", false, "Run gin in debug mode")
)

func loadMapper(path string, opts liftover.Opts, chainOpts chain.Opts) (*liftover.Mapper, error) {
	idx, err := interval.LoadChainIndexOpts(path, chainOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading chain file %s", path)
	}
	return liftover.NewWithOpts(idx, opts), nil
}

func main() {
	flag.Usage = func() {
		fmt.Printf("Usage: %s [OPTIONS] chainpath\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) != 1 {
		log.Fatalf("Expected one chain path; got '%s'", strings.Join(args, " "))
	}
	style, err := liftover.ParseChromStyle(*chromStyle)
	if err != nil {
		log.Fatalf("%v", err)
	}
	compatMode, err := liftover.ParseCompatMode(*compat)
	if err != nil {
		log.Fatalf("%v", err)
	}
	m, err := loadMapper(args[0], liftover.Opts{Style: style, Compat: compatMode}, chain.Opts{MmapThreshold: *mmapMB << 20})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(m, *minRatio)
	addr := fmt.Sprintf(":%d", *port)
	log.Printf("serving %s on %s", args[0], addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("%v", err)
	}
}
