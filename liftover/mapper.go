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
package liftover

import (
	"fmt"

	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/interval"
)

// Strand is re-exported so that callers rarely need encoding/chain.
type Strand = chain.Strand

// Plus and Minus re-export the chain package's strands for callers that only
// import liftover.
const (
	Plus  = chain.Plus
	Minus = chain.Minus
)

// MapResult is a stranded range on one chromosome.
type MapResult struct {
	Chrom      string
	Start, End int64
	Strand     Strand
}

func (r MapResult) String() string {
	return fmt.Sprintf("%s:%d-%d(%v)", r.Chrom, r.Start, r.End, r.Strand)
}

// Segment pairs the part of a query covered by one chain block with its
// image in the target assembly.  Source and Target have equal lengths.
type Segment struct {
	Source MapResult
	Target MapResult
}

// Opts configures a Mapper.
type Opts struct {
	Style  ChromStyle
	Compat CompatMode
}

// DefaultOpts is the Mapper configuration used by New.
var DefaultOpts = Opts{Style: AsIs, Compat: Improved}

// Mapper lifts coordinates through a ChainIndex.  Like the index, it is
// immutable and safe for concurrent use.
type Mapper struct {
	idx  *interval.ChainIndex
	opts Opts
}

// New returns a Mapper with the given naming style and Improved
// compatibility.
func New(idx *interval.ChainIndex, style ChromStyle) *Mapper {
	opts := DefaultOpts
	opts.Style = style
	return NewWithOpts(idx, opts)
}

// NewWithOpts returns a Mapper configured by opts.
func NewWithOpts(idx *interval.ChainIndex, opts Opts) *Mapper {
	return &Mapper{idx: idx, opts: opts}
}

// Index returns the chain index the Mapper reads from.
func (m *Mapper) Index() *interval.ChainIndex { return m.idx }

// Style returns the chromosome naming style applied to results.
func (m *Mapper) Style() ChromStyle { return m.opts.Style }

// Compat returns the compatibility mode the Mapper was built with.
func (m *Mapper) Compat() CompatMode { return m.opts.Compat }

// TargetSizes returns a copy of the target assembly's chromosome lengths.
func (m *Mapper) TargetSizes() map[string]int64 { return m.idx.TargetSizes() }

// SourceSizes returns a copy of the source assembly's chromosome lengths.
func (m *Mapper) SourceSizes() map[string]int64 { return m.idx.SourceSizes() }

// QueryIntervals returns the raw chain blocks overlapping [start, end).
func (m *Mapper) QueryIntervals(chrom string, start, end int64) []interval.Hit {
	return m.idx.QueryIntervals(chrom, start, end)
}

// Intersect returns the intersection of [s1, e1) and [s2, e2), or ok=false
// if it is empty.
func Intersect(s1, e1, s2, e2 int64) (start, end int64, ok bool) {
	if s1 >= e2 || e1 <= s2 {
		return 0, 0, false
	}
	start, end = s1, e1
	if s2 > start {
		start = s2
	}
	if e2 < end {
		end = e2
	}
	return start, end, true
}

func (m *Mapper) targetChrom(query, target string) string {
	if m.opts.Style == AsIs {
		return asIsChrom(query, target)
	}
	return UpdateChromID(target, m.opts.Style)
}

// Map lifts [start, end) on chrom, read on strand, to the target assembly.
// It returns one Segment per overlapping chain block, ordered by block start.
//
// ok is false iff chrom is not in the chain file.  A known chromosome with no
// aligned bases in range yields an empty, non-nil slice.
func (m *Mapper) Map(chrom string, start, end int64, strand Strand) (segs []Segment, ok bool) {
	if !m.idx.HasChrom(chrom) {
		return nil, false
	}
	hits := m.idx.QueryIntervals(chrom, start, end)
	segs = make([]Segment, 0, len(hits))
	sourceChrom := chrom
	if m.opts.Style != AsIs {
		sourceChrom = UpdateChromID(chrom, m.opts.Style)
	}
	for i := range hits {
		h := &hits[i]
		realStart, realEnd, overlaps := Intersect(start, end, h.SourceStart, h.SourceEnd)
		if !overlaps {
			continue
		}
		leftOffset := realStart - h.SourceStart
		size := realEnd - realStart
		var targetStart int64
		if h.TargetStrand == chain.Minus {
			// Target coordinates are stored flipped, so walk back from the end.
			targetStart = h.TargetEnd - leftOffset - size
		} else {
			targetStart = h.TargetStart + leftOffset
		}
		segs = append(segs, Segment{
			Source: MapResult{Chrom: sourceChrom, Start: realStart, End: realEnd, Strand: strand},
			Target: MapResult{
				Chrom:  m.targetChrom(chrom, h.TargetChrom),
				Start:  targetStart,
				End:    targetStart + size,
				Strand: strand.Combine(h.TargetStrand),
			},
		})
	}
	return segs, true
}

// MapSingle lifts the base at pos.  ok is false if the chromosome is unknown
// or the base is unaligned.
func (m *Mapper) MapSingle(chrom string, pos int64, strand Strand) (seg Segment, ok bool) {
	segs, _ := m.Map(chrom, pos, pos+1, strand)
	if len(segs) == 0 {
		return Segment{}, false
	}
	return segs[0], true
}
