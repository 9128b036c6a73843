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
package cmd

import (
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/liftover/interval"
)

type viewFlags struct {
	regions *string
}

// Parse flag of form "chr0:beg0-end0,...,chrk:begk-endk".
func parseRegionsFlag(flag string) ([]interval.Region, error) {
	var regions []interval.Region
	for _, val := range strings.Split(flag, ",") {
		r, err := interval.ParseRegion(strings.TrimSpace(val))
		if err != nil {
			return nil, errors.E(errors.Invalid, err)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func writeHit(w *tsv.Writer, h *interval.Hit) error {
	w.WriteString(h.SourceChrom)
	w.WriteInt64(h.SourceStart)
	w.WriteInt64(h.SourceEnd)
	w.WriteString(h.TargetChrom)
	w.WriteInt64(h.TargetStart)
	w.WriteInt64(h.TargetEnd)
	w.WriteByte(h.TargetStrand.Byte())
	return w.EndLine()
}

func view(flags viewFlags, path string, out io.Writer) error {
	var regions []interval.Region
	if *flags.regions != "" {
		var err error
		if regions, err = parseRegionsFlag(*flags.regions); err != nil {
			return err
		}
	}
	f, err := loadChain(path)
	if err != nil {
		return err
	}
	w := tsv.NewWriter(out)
	if len(regions) == 0 {
		for _, b := range f.Blocks {
			h := interval.Hit{
				SourceStart: b.SourceStart,
				SourceEnd:   b.SourceEnd,
				Value: interval.Value{
					SourceChrom:  b.SourceChrom,
					TargetChrom:  b.TargetChrom,
					TargetStart:  b.TargetStart,
					TargetEnd:    b.TargetEnd,
					TargetStrand: b.TargetStrand,
				},
			}
			if err := writeHit(w, &h); err != nil {
				return err
			}
		}
		return w.Flush()
	}
	idx := interval.NewChainIndex(f)
	for _, r := range regions {
		hits := idx.QueryIntervals(r.Chrom, r.Start, r.End)
		for i := range hits {
			if err := writeHit(w, &hits[i]); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
