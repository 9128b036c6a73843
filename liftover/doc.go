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

// Package liftover translates coordinates between genome assemblies using a
// chain file.
//
// Typical use:
//
//   idx, err := interval.LoadChainIndex("hg19ToHg38.over.chain.gz")
//   ...
//   m := liftover.New(idx, liftover.AsIs)
//   segs, ok := m.Map("chr1", 10000, 10100, liftover.Plus)
//
// Map returns one Segment per chain block overlapping the query; callers
// decide whether a multi-segment result is acceptable.  MapRegion collapses
// the segments into one region subject to a minimum aligned fraction, and
// MapBatch maps many queries in parallel.
package liftover
