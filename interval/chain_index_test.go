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
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBlockChain = `chain 1000 chr1 1000 + 100 600 chr1 1000 + 100 600 1
100 300 300
100
`

func mustIndex(t *testing.T, text string) *ChainIndex {
	idx, err := LoadChainIndexBytes([]byte(text))
	require.NoError(t, err)
	return idx
}

func TestQueryTwoBlocks(t *testing.T) {
	idx := mustIndex(t, twoBlockChain)
	expect.EQ(t, idx.TotalIntervals(), 2)

	vals := idx.Query("chr1", 150, 160)
	require.Len(t, vals, 1)
	expect.EQ(t, vals[0], Value{
		TargetChrom:  "chr1",
		TargetStart:  100,
		TargetEnd:    200,
		TargetStrand: chain.Plus,
		SourceChrom:  "chr1",
	})

	vals = idx.Query("chr1", 0, 50)
	assert.NotNil(t, vals)
	assert.Len(t, vals, 0)

	// Half-open: [200, 500) touches neither block.
	assert.Len(t, idx.Query("chr1", 200, 500), 0)
	assert.Len(t, idx.Query("chr1", 199, 501), 2)

	assert.Nil(t, idx.Query("chrX", 0, 1000))
	assert.Nil(t, idx.Query("chr1", 160, 150))
	assert.Nil(t, idx.Query("chr1", 150, 150))

	hits := idx.QueryIntervals("chr1", 0, 1000)
	require.Len(t, hits, 2)
	expect.EQ(t, hits[0].SourceStart, int64(100))
	expect.EQ(t, hits[0].SourceEnd, int64(200))
	expect.EQ(t, hits[1].SourceStart, int64(500))
	expect.EQ(t, hits[1].SourceEnd, int64(600))
}

func TestQueryOverlappingChains(t *testing.T) {
	// Two chains align the same source bases to different targets.  Both must
	// be reported, in file order.
	idx := mustIndex(t, `chain 100 chr1 1000 + 0 100 chr1 1000 + 0 100 1
100

chain 50 chr1 1000 + 0 100 chr5 1000 - 0 100 2
100
`)
	vals := idx.Query("chr1", 10, 20)
	require.Len(t, vals, 2)
	expect.EQ(t, vals[0].TargetChrom, "chr1")
	expect.EQ(t, vals[1].TargetChrom, "chr5")
	expect.EQ(t, vals[1].TargetStart, int64(900))
	expect.EQ(t, vals[1].TargetStrand, chain.Minus)
}

func TestAliases(t *testing.T) {
	idx := mustIndex(t, twoBlockChain)
	for _, name := range []string{"chr1", "1", "CHR1", "Chr1", "cHr1"} {
		assert.True(t, idx.HasChrom(name), name)
		canonical, ok := idx.CanonicalChrom(name)
		assert.True(t, ok, name)
		expect.EQ(t, canonical, "chr1", name)
		expect.EQ(t, idx.Query(name, 150, 160), idx.Query("chr1", 150, 160), name)
		expect.EQ(t, idx.IntervalCount(name), 2, name)
	}
	assert.False(t, idx.HasChrom("chr2"))
	assert.False(t, idx.HasChrom("MT"))
	expect.EQ(t, idx.IntervalCount("chr2"), 0)

	// Names without a prefix in the file resolve from prefixed queries.
	idx = mustIndex(t, `chain 1 7 500 + 0 10 chr7 600 + 0 10
10
`)
	for _, name := range []string{"7", "chr7", "Chr7", "CHR7"} {
		canonical, ok := idx.CanonicalChrom(name)
		assert.True(t, ok, name)
		expect.EQ(t, canonical, "7", name)
	}
}

func TestSuggestChrom(t *testing.T) {
	idx := mustIndex(t, `chain 1 chr1 1000 + 0 10 chr1 1000 + 0 10
10

chain 1 chr12 1000 + 0 10 chr12 1000 + 0 10
10

chain 1 chrX_random 1000 + 0 10 chrX 1000 + 0 10
10
`)
	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"chr1", "", false},
		{"chr13", "chr1", true},
		{"X_randon", "chrX_random", true},
		{"chrUn_gl000220", "", false},
	}
	for _, test := range tests {
		got, ok := idx.SuggestChrom(test.query)
		expect.EQ(t, ok, test.ok, test.query)
		expect.EQ(t, got, test.want, test.query)
	}
}

func TestFingerprint(t *testing.T) {
	a := mustIndex(t, twoBlockChain)
	b := mustIndex(t, twoBlockChain)
	expect.EQ(t, a.Fingerprint(), b.Fingerprint())
	c := mustIndex(t, strings.Replace(twoBlockChain, "100 300 300", "100 300 301", 1))
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	// Same blocks, but on a different target strand.
	d := mustIndex(t, `chain 1000 chr1 1000 + 100 600 chr1 1000 - 100 600 1
100 300 300
100
`)
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestSizes(t *testing.T) {
	idx := mustIndex(t, `chain 1 chr1 1000 + 0 10 2 2000 + 0 10
10
`)
	size, ok := idx.SourceChromSize("chr1")
	assert.True(t, ok)
	expect.EQ(t, size, int64(1000))
	size, ok = idx.SourceChromSize("1")
	assert.True(t, ok)
	expect.EQ(t, size, int64(1000))
	size, ok = idx.TargetChromSize("chr2")
	assert.True(t, ok)
	expect.EQ(t, size, int64(2000))
	_, ok = idx.TargetChromSize("chr3")
	assert.False(t, ok)

	sizes := idx.TargetSizes()
	expect.EQ(t, sizes, map[string]int64{"2": 2000})
	sizes["2"] = 1
	expect.EQ(t, idx.TargetSizes()["2"], int64(2000))
	expect.EQ(t, idx.SourceSizes(), map[string]int64{"chr1": 1000})
	expect.EQ(t, idx.SourceChroms(), []string{"chr1"})
}

func TestLoadChainIndex(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	path := filepath.Join(tmpdir, "a.chain")
	require.NoError(t, ioutil.WriteFile(path, []byte(twoBlockChain), 0644))
	idx, err := LoadChainIndex(path)
	require.NoError(t, err)
	expect.EQ(t, idx.TotalIntervals(), 2)

	_, err = LoadChainIndex(filepath.Join(tmpdir, "missing.chain"))
	assert.True(t, chain.Is(chain.FileNotFound, err))
}

func TestLoadChainIndexRejectsOverflow(t *testing.T) {
	for _, text := range []string{
		"chain 1 chr1 100 + 0 100 chr1 100 + 0 100 1\n10 0 0\n9223372036854775800\n",
		"chain 1 chr1 100 + 0 100 chr1 100 + 0 100 1\n10 9223372036854775807 0\n5\n",
	} {
		var (
			idx *ChainIndex
			err error
		)
		require.NotPanics(t, func() { idx, err = LoadChainIndexBytes([]byte(text)) }, text)
		assert.Nil(t, idx, text)
		assert.True(t, chain.Is(chain.InvalidCoordinates, err), "%v", err)
	}
}

func randomFile(r *rand.Rand) *chain.File {
	f := &chain.File{
		SourceSizes: map[string]int64{},
		TargetSizes: map[string]int64{},
	}
	chroms := []string{"chr1", "chr2", "chr3"}
	for _, c := range chroms {
		f.SourceSizes[c] = 10000
		f.TargetSizes[c] = 10000
	}
	for i := 0; i < 300; i++ {
		start := r.Int63n(9900)
		size := 1 + r.Int63n(100)
		strand := chain.Plus
		if r.Intn(2) == 0 {
			strand = chain.Minus
		}
		tstart := r.Int63n(9900)
		f.Blocks = append(f.Blocks, chain.Block{
			SourceChrom:  chroms[r.Intn(len(chroms))],
			SourceStart:  start,
			SourceEnd:    start + size,
			TargetChrom:  chroms[r.Intn(len(chroms))],
			TargetStart:  tstart,
			TargetEnd:    tstart + size,
			TargetStrand: strand,
		})
	}
	return f
}

// bruteForce returns the blocks of f overlapping [start, end) on chrom,
// ordered by start then file order.
func bruteForce(f *chain.File, chrom string, start, end int64) []Hit {
	var hits []Hit
	for _, b := range f.Blocks {
		if b.SourceChrom == chrom && b.SourceStart < end && b.SourceEnd > start {
			hits = append(hits, Hit{
				SourceStart: b.SourceStart,
				SourceEnd:   b.SourceEnd,
				Value: Value{
					TargetChrom:  b.TargetChrom,
					TargetStart:  b.TargetStart,
					TargetEnd:    b.TargetEnd,
					TargetStrand: b.TargetStrand,
					SourceChrom:  b.SourceChrom,
				},
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].SourceStart < hits[j].SourceStart })
	return hits
}

func TestQueryMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 20; iter++ {
		f := randomFile(r)
		idx := NewChainIndex(f)
		expect.EQ(t, idx.TotalIntervals(), len(f.Blocks))
		for q := 0; q < 200; q++ {
			chrom := []string{"chr1", "chr2", "chr3"}[r.Intn(3)]
			start := r.Int63n(10000)
			end := start + 1 + r.Int63n(500)
			got := idx.QueryIntervals(chrom, start, end)
			want := bruteForce(f, chrom, start, end)
			if len(want) == 0 {
				assert.Len(t, got, 0)
				continue
			}
			require.Equal(t, want, got, "iter %d %s:%d-%d", iter, chrom, start, end)
		}
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		region string
		want   Region
	}{
		{"chr1:1-1000", Region{"chr1", 0, 1000}},
		{"chr1:1000", Region{"chr1", 999, 1000}},
		{"chr1:1,001-2,000", Region{"chr1", 1000, 2000}},
		{"chr1", Region{"chr1", 0, WholeChrom}},
		{"HLA-A*01:01:100-200", Region{"HLA-A*01:01", 99, 200}},
	}
	for _, tt := range tests {
		got, err := ParseRegion(tt.region)
		expect.NoError(t, err, tt.region)
		expect.EQ(t, got, tt.want, tt.region)
	}
	expect.EQ(t, Region{"chr1", 1000, 2000}.String(), "chr1:1001-2000")
	expect.EQ(t, Region{"chr1", 0, WholeChrom}.String(), "chr1")

	for _, bad := range []string{"", ":1-2", "chr1:0", "chr1:x", "chr1:10-5", "chr1:0-5", "chr1:1-y"} {
		_, err := ParseRegion(bad)
		assert.Error(t, err, bad)
	}
}
