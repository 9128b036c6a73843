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

// DefaultMinRatio is the default fraction of a region's bases that must map
// for MapRegion to succeed.
const DefaultMinRatio = 0.85

// FailureReason says why MapRegion could not lift a region.
type FailureReason uint8

const (
	// OK is the zero FailureReason: the region was mapped.
	OK FailureReason = iota
	// Unmap: the chromosome is unknown or no base of the region is aligned.
	Unmap
	// CrossChroms: aligned parts land on more than one target chromosome.
	CrossChroms
	// LowRatio: too few of the region's bases are aligned.
	LowRatio
	// InvalidFormat: the region is empty.
	InvalidFormat
)

func (r FailureReason) String() string {
	switch r {
	case OK:
		return "OK"
	case Unmap:
		return "Unmap"
	case CrossChroms:
		return "CrossChroms"
	case LowRatio:
		return "LowRatio"
	case InvalidFormat:
		return "InvalidFormat"
	}
	return "Unknown"
}

// RegionResult is a region lifted as one piece.
type RegionResult struct {
	MapResult
	// Ratio is the fraction of the query's bases that are aligned.
	Ratio float64
}

// MapRegion lifts [start, end) on chrom as a single region.  When the region
// spans several chain blocks the target pieces are merged into their
// bounding range, provided they are all on one chromosome and at least
// minRatio of the query is aligned.  The merged strand is that of the last
// piece.  On LowRatio only the Ratio field is set.
func (m *Mapper) MapRegion(chrom string, start, end int64, strand Strand, minRatio float64) (RegionResult, FailureReason) {
	queryLen := end - start
	if queryLen <= 0 {
		return RegionResult{}, InvalidFormat
	}
	segs, _ := m.Map(chrom, start, end, strand)
	switch len(segs) {
	case 0:
		return RegionResult{}, Unmap
	case 1:
		return RegionResult{MapResult: segs[0].Target, Ratio: 1}, OK
	}
	result := RegionResult{MapResult: segs[0].Target}
	var mapped int64
	for _, seg := range segs {
		mapped += seg.Source.End - seg.Source.Start
		if seg.Target.Chrom != result.Chrom {
			return RegionResult{}, CrossChroms
		}
		if seg.Target.Start < result.Start {
			result.Start = seg.Target.Start
		}
		if seg.Target.End > result.End {
			result.End = seg.Target.End
		}
		result.Strand = seg.Target.Strand
	}
	result.Ratio = float64(mapped) / float64(queryLen)
	if result.Ratio < minRatio {
		return RegionResult{Ratio: result.Ratio}, LowRatio
	}
	return result, OK
}
