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
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Query is one input of MapBatch.
type Query struct {
	Chrom      string
	Start, End int64
	Strand     Strand
}

// BatchResult is the outcome of one Query.
type BatchResult struct {
	Query
	// Segments is nil iff the chromosome is unknown.
	Segments []Segment
}

// Summary counts MapBatch outcomes.  Every query is counted in exactly one of
// Mapped, Unmapped and MissingChrom; Multi is the subset of Mapped with more
// than one segment.
type Summary struct {
	Total        int
	Mapped       int
	Multi        int
	Unmapped     int
	MissingChrom int
}

func (s *Summary) add(r *BatchResult) {
	s.Total++
	switch {
	case r.Segments == nil:
		s.MissingChrom++
	case len(r.Segments) == 0:
		s.Unmapped++
	default:
		s.Mapped++
		if len(r.Segments) > 1 {
			s.Multi++
		}
	}
}

func (s *Summary) merge(o Summary) {
	s.Total += o.Total
	s.Mapped += o.Mapped
	s.Multi += o.Multi
	s.Unmapped += o.Unmapped
	s.MissingChrom += o.MissingChrom
}

// MapBatch maps queries on up to parallelism goroutines.  results[i] always
// corresponds to queries[i], so the output does not depend on parallelism.
func (m *Mapper) MapBatch(queries []Query, parallelism int) (results []BatchResult, summary Summary) {
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > len(queries) {
		parallelism = len(queries)
	}
	results = make([]BatchResult, len(queries))
	shardSummaries := make([]Summary, parallelism)
	nQuery := len(queries)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nQuery) / parallelism
		endIdx := ((jobIdx + 1) * nQuery) / parallelism
		for i := startIdx; i < endIdx; i++ {
			q := &queries[i]
			r := &results[i]
			r.Query = *q
			r.Segments, _ = m.Map(q.Chrom, q.Start, q.End, q.Strand)
			shardSummaries[jobIdx].add(r)
		}
		return nil
	})
	if err != nil {
		// Map never fails.
		log.Panicf("liftover.MapBatch: %v", err)
	}
	for _, s := range shardSummaries {
		summary.merge(s)
	}
	log.Debug.Printf("liftover.MapBatch: %d queries on %d shards: %+v", nQuery, parallelism, summary)
	return results, summary
}
