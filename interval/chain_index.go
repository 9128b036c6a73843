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
package interval

import (
	"sort"
	"strings"

	ivtree "github.com/biogo/store/interval"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/grailbio/liftover/encoding/chain"
)

// Value is the target side of one indexed block.
type Value struct {
	TargetChrom string
	// TargetStart and TargetEnd are forward-strand coordinates, already
	// flipped for TargetStrand == chain.Minus.
	TargetStart  int64
	TargetEnd    int64
	TargetStrand chain.Strand
	// SourceChrom is the chromosome name as written in the chain file.
	SourceChrom string
}

// Hit is an indexed block: its source range plus its Value.
type Hit struct {
	SourceStart int64
	SourceEnd   int64
	Value
}

// node is the ivtree element for one block.  id is the block's ordinal in
// the chain file, which breaks ties between blocks with equal starts.
type node struct {
	start, end int
	id         uintptr
	hit        Hit
}

func (n *node) Overlap(r ivtree.IntRange) bool { return n.end > r.Start && n.start < r.End }
func (n *node) ID() uintptr                     { return n.id }
func (n *node) Range() ivtree.IntRange          { return ivtree.IntRange{Start: n.start, End: n.end} }

// span is a half-open query range.
type span struct{ start, end int }

func (s span) Overlap(r ivtree.IntRange) bool { return s.end > r.Start && s.start < r.End }

// ChainIndex maps source chromosome positions to chain blocks.  It is
// read-only after NewChainIndex returns.
type ChainIndex struct {
	// trees is keyed by the source chromosome name as written in the chain
	// file.
	trees map[string]*ivtree.IntTree
	// aliases maps aliasKey(name) to the name, for every key of trees.
	aliases     map[string]string
	sourceSizes map[string]int64
	targetSizes map[string]int64
	nIntervals  int
	fingerprint uint64
}

// NewChainIndex indexes every block of f.  f must not be modified afterwards.
func NewChainIndex(f *chain.File) *ChainIndex {
	idx := &ChainIndex{
		trees:       make(map[string]*ivtree.IntTree),
		aliases:     make(map[string]string),
		sourceSizes: f.SourceSizes,
		targetSizes: f.TargetSizes,
	}
	for i, b := range f.Blocks {
		tree := idx.trees[b.SourceChrom]
		if tree == nil {
			tree = &ivtree.IntTree{}
			idx.trees[b.SourceChrom] = tree
		}
		n := &node{
			start: int(b.SourceStart),
			end:   int(b.SourceEnd),
			id:    uintptr(i),
			hit: Hit{
				SourceStart: b.SourceStart,
				SourceEnd:   b.SourceEnd,
				Value: Value{
					TargetChrom:  b.TargetChrom,
					TargetStart:  b.TargetStart,
					TargetEnd:    b.TargetEnd,
					TargetStrand: b.TargetStrand,
					SourceChrom:  b.SourceChrom,
				},
			},
		}
		// Blocks always satisfy start < end, so Insert cannot fail.
		if err := tree.Insert(n, true); err != nil {
			log.Panicf("interval.NewChainIndex: block %d %s:[%d,%d): %v", i, b.SourceChrom, b.SourceStart, b.SourceEnd, err)
		}
		idx.nIntervals++
		idx.fingerprint = farm.Hash64WithSeed(blockKey(&b), idx.fingerprint)
	}
	// Sorted so that the alias for colliding names ("chr1" and "1") is
	// deterministic.
	for _, name := range idx.SourceChroms() {
		idx.trees[name].AdjustRanges()
		if _, ok := idx.aliases[aliasKey(name)]; !ok {
			idx.aliases[aliasKey(name)] = name
		}
	}
	return idx
}

func blockKey(b *chain.Block) []byte {
	buf := make([]byte, 0, len(b.SourceChrom)+len(b.TargetChrom)+2+4*8+1)
	buf = append(buf, b.SourceChrom...)
	buf = append(buf, 0)
	buf = append(buf, b.TargetChrom...)
	buf = append(buf, 0)
	for _, v := range []int64{b.SourceStart, b.SourceEnd, b.TargetStart, b.TargetEnd} {
		buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	}
	return append(buf, b.TargetStrand.Byte())
}

// LoadChainIndex parses the chain file at path (see chain.ParseFile) and
// indexes it.
func LoadChainIndex(path string) (*ChainIndex, error) {
	return LoadChainIndexOpts(path, chain.DefaultOpts)
}

// LoadChainIndexOpts is LoadChainIndex with explicit parse options.
func LoadChainIndexOpts(path string, opts chain.Opts) (*ChainIndex, error) {
	f, err := chain.ParseFileOpts(path, opts)
	if err != nil {
		return nil, err
	}
	idx := NewChainIndex(f)
	log.Printf("%s: indexed %d blocks on %d source chromosome(s)", path, idx.nIntervals, len(idx.trees))
	return idx, nil
}

// LoadChainIndexBytes parses and indexes an in-memory chain file.
func LoadChainIndexBytes(data []byte) (*ChainIndex, error) {
	f, err := chain.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return NewChainIndex(f), nil
}

// resolve finds the indexed name for chrom: an exact match, then the alias
// table, then a few literal spellings.
func (idx *ChainIndex) resolve(chrom string) (string, bool) {
	if _, ok := idx.trees[chrom]; ok {
		return chrom, true
	}
	if name, ok := idx.aliases[aliasKey(chrom)]; ok {
		return name, true
	}
	for _, v := range nameVariants(chrom) {
		if _, ok := idx.trees[v]; ok {
			return v, true
		}
	}
	return "", false
}

// Query returns the Values of all blocks on chrom overlapping the half-open
// range [start, end), ordered by block start.  It returns nil if chrom is
// unknown or the range is empty, and a non-nil empty slice if chrom is known
// but no block overlaps.
func (idx *ChainIndex) Query(chrom string, start, end int64) []Value {
	hits := idx.QueryIntervals(chrom, start, end)
	if hits == nil {
		return nil
	}
	vals := make([]Value, len(hits))
	for i := range hits {
		vals[i] = hits[i].Value
	}
	return vals
}

// QueryIntervals is Query, but also returns each block's source range.
func (idx *ChainIndex) QueryIntervals(chrom string, start, end int64) []Hit {
	name, ok := idx.resolve(chrom)
	if !ok || start >= end {
		return nil
	}
	hits := []Hit{}
	idx.trees[name].DoMatching(func(e ivtree.IntInterface) (done bool) {
		hits = append(hits, e.(*node).hit)
		return false
	}, span{start: int(start), end: int(end)})
	return hits
}

// HasChrom reports whether chrom resolves to an indexed source chromosome.
func (idx *ChainIndex) HasChrom(chrom string) bool {
	_, ok := idx.resolve(chrom)
	return ok
}

// CanonicalChrom returns the chain file's spelling of chrom.
func (idx *ChainIndex) CanonicalChrom(chrom string) (string, bool) {
	return idx.resolve(chrom)
}

// SourceChroms returns the indexed source chromosome names, sorted.
func (idx *ChainIndex) SourceChroms() []string {
	names := make([]string, 0, len(idx.trees))
	for name := range idx.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IntervalCount returns the number of blocks on chrom.
func (idx *ChainIndex) IntervalCount(chrom string) int {
	name, ok := idx.resolve(chrom)
	if !ok {
		return 0
	}
	return idx.trees[name].Len()
}

// TotalIntervals returns the number of indexed blocks.
func (idx *ChainIndex) TotalIntervals() int { return idx.nIntervals }

// Fingerprint is a FarmHash chained over the blocks in file order.  Equal
// chain files give equal fingerprints; it is not a cryptographic digest.
func (idx *ChainIndex) Fingerprint() uint64 { return idx.fingerprint }

func lookupSize(sizes map[string]int64, chrom string) (int64, bool) {
	if size, ok := sizes[chrom]; ok {
		return size, true
	}
	if strings.HasPrefix(chrom, "chr") {
		if size, ok := sizes[chrom[3:]]; ok {
			return size, true
		}
	}
	size, ok := sizes["chr"+chrom]
	return size, ok
}

// TargetChromSize returns the length of a target chromosome.  "chr" is added
// or stripped if the exact name is unknown.
func (idx *ChainIndex) TargetChromSize(chrom string) (int64, bool) {
	return lookupSize(idx.targetSizes, chrom)
}

// SourceChromSize returns the length of a source chromosome, with the same
// name fallbacks as TargetChromSize.
func (idx *ChainIndex) SourceChromSize(chrom string) (int64, bool) {
	return lookupSize(idx.sourceSizes, chrom)
}

func copySizes(sizes map[string]int64) map[string]int64 {
	c := make(map[string]int64, len(sizes))
	for k, v := range sizes {
		c[k] = v
	}
	return c
}

// TargetSizes returns a copy of the target chromosome lengths.
func (idx *ChainIndex) TargetSizes() map[string]int64 { return copySizes(idx.targetSizes) }

// SourceSizes returns a copy of the source chromosome lengths.
func (idx *ChainIndex) SourceSizes() map[string]int64 { return copySizes(idx.sourceSizes) }
