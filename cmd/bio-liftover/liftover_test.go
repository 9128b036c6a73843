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
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/liftover"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChain = `chain 1000 chr1 1000 + 100 600 1 1000 + 100 600 1
100 300 300
100

chain 10 chr2 1000 + 0 100 2 1000 - 0 100 2
100
`

const testBED = `# comment
track name=foo
chr1	120	180	a	0	+
chr1	150	550	b	0	-
chr1	0	50
chr2	10	20	c	0	+
chrZ	1	2
chr1	x	2
chr1	150	160	-
`

func setup(t *testing.T) (string, runOpts, func()) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	chainPath := filepath.Join(tmpdir, "test.chain")
	require.NoError(t, ioutil.WriteFile(chainPath, []byte(testChain), 0644))
	inPath := filepath.Join(tmpdir, "in.bed")
	require.NoError(t, ioutil.WriteFile(inPath, []byte(testBED), 0644))
	opts := runOpts{
		ChainPath:   chainPath,
		InPath:      inPath,
		OutPath:     filepath.Join(tmpdir, "out.bed"),
		Mode:        "region",
		MinRatio:    liftover.DefaultMinRatio,
		Parallelism: 3,
		Mapper:      liftover.Opts{Style: liftover.AsIs},
		Chain:       chain.DefaultOpts,
	}
	return tmpdir, opts, func() { testutil.NoCleanupOnError(t, cleanup, tmpdir) }
}

func readLines(t *testing.T, path string) []string {
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestRunRegion(t *testing.T) {
	_, opts, cleanup := setup(t)
	defer cleanup()
	require.NoError(t, run(vcontext.Background(), opts))

	expect.EQ(t, readLines(t, opts.OutPath), []string{
		"chr1\t120\t180\ta\t0\t+\tmap_ratio=1.0000",
		"chr2\t980\t990\tc\t0\t-\tmap_ratio=1.0000",
		"chr1\t150\t160\t-\tmap_ratio=1.0000",
	})
	expect.EQ(t, readLines(t, opts.OutPath+".unmap"), []string{
		"chr1\t150\t550\tb\t0\t-\tFail\tmap_ratio=0.2500",
		"chr1\t0\t50\tFail\tUnmap",
		"chrZ\t1\t2\tFail\tUnmap",
		"chr1\tx\t2\tFail\tInvalidFormat",
	})
}

func TestRunSegments(t *testing.T) {
	tmpdir, opts, cleanup := setup(t)
	defer cleanup()
	opts.Mode = "segments"
	opts.Mapper.Style = liftover.Short
	opts.UnmapPath = filepath.Join(tmpdir, "failed.txt")
	opts.SAMHeader = filepath.Join(tmpdir, "target.sam")
	require.NoError(t, run(vcontext.Background(), opts))

	expect.EQ(t, readLines(t, opts.OutPath), []string{
		"1\t120\t180\t+\t1\t120\t180\t+",
		"1\t150\t200\t-\t1\t150\t200\t-",
		"1\t500\t550\t-\t1\t500\t550\t-",
		"2\t10\t20\t+\t2\t980\t990\t-",
		"1\t150\t160\t-\t1\t150\t160\t-",
	})
	expect.EQ(t, len(readLines(t, opts.UnmapPath)), 3)

	header := readLines(t, opts.SAMHeader)
	assert.Contains(t, header, "@SQ\tSN:1\tLN:1000")
	assert.Contains(t, header, "@SQ\tSN:2\tLN:1000")
}

func TestRunRegionFlag(t *testing.T) {
	_, opts, cleanup := setup(t)
	defer cleanup()
	opts.Region = "1:121-180"
	opts.Mapper.Style = liftover.Long
	require.NoError(t, run(vcontext.Background(), opts))
	expect.EQ(t, readLines(t, opts.OutPath), []string{"chr1\t120\t180\tmap_ratio=1.0000"})
}

func TestRunErrors(t *testing.T) {
	tmpdir, opts, cleanup := setup(t)
	defer cleanup()

	bad := opts
	bad.Mode = "bogus"
	assert.Error(t, run(vcontext.Background(), bad))

	bad = opts
	bad.ChainPath = filepath.Join(tmpdir, "missing.chain")
	err := run(vcontext.Background(), bad)
	assert.True(t, chain.Is(chain.FileNotFound, err), "%v", err)

	bad = opts
	bad.Region = "chr1:0-5"
	assert.Error(t, run(vcontext.Background(), bad))
}

func TestParseInputLine(t *testing.T) {
	in := parseInputLine("chr1 10 20 - ")
	assert.True(t, in.ok)
	expect.EQ(t, in.query, liftover.Query{Chrom: "chr1", Start: 10, End: 20, Strand: liftover.Minus})
	expect.EQ(t, in.strandCol, 3)

	in = parseInputLine("chr1\t10\t20\tname\t0\t+\textra")
	assert.True(t, in.ok)
	expect.EQ(t, in.strandCol, 5)

	for _, line := range []string{"chr1\t10", "chr1\t-1\t5", "chr1\t10\t5", "chr1\t1\ty"} {
		assert.False(t, parseInputLine(line).ok, line)
	}
}
