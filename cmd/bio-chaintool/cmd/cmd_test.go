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
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/liftover"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chain1 = `chain 1000 chr1 1000 + 100 600 1 1000 + 100 600 1
100 300 300
100

`

const chain2 = `chain 10 chr2 1000 + 0 100 2 1000 - 0 100 2
100

`

func writeChain(t *testing.T, dir, name, text string) string {
	path := filepath.Join(dir, name)
	data := []byte(text)
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		data = buf.Bytes()
	}
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

func TestChecksumIgnoresCompression(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	opts := checksumOpts{digest: true}
	var plain, gz bytes.Buffer
	require.NoError(t, checksum(writeChain(t, tmpdir, "a.chain", chain1+chain2), opts, &plain))
	require.NoError(t, checksum(writeChain(t, tmpdir, "a.chain.gz", chain1+chain2), opts, &gz))
	expect.EQ(t, plain.String(), gz.String())

	var csum fileChecksum
	require.NoError(t, json.Unmarshal(plain.Bytes(), &csum))
	require.Len(t, csum.Chroms, 2)
	expect.EQ(t, csum.Chroms[0].Name, "chr1")
	expect.EQ(t, csum.Chroms[0].NBlocks, int64(2))
	expect.EQ(t, csum.Chroms[0].AlignedBases, int64(200))
	expect.EQ(t, csum.Chroms[0].SumPos, uint64(600))
	expect.EQ(t, csum.Chroms[1].Name, "chr2")
	expect.EQ(t, csum.Chroms[1].NBlocks, int64(1))
	expect.EQ(t, len(csum.Digest), 64)
}

func TestChecksumDigestDependsOnOrder(t *testing.T) {
	f12, err := chain.ParseBytes([]byte(chain1 + chain2))
	require.NoError(t, err)
	f21, err := chain.ParseBytes([]byte(chain2 + chain1))
	require.NoError(t, err)

	c12, err := checksumFile(f12, checksumOpts{digest: true})
	require.NoError(t, err)
	c21, err := checksumFile(f21, checksumOpts{digest: true})
	require.NoError(t, err)
	assert.Equal(t, c12.Chroms, c21.Chroms)
	assert.NotEqual(t, c12.Digest, c21.Digest)

	c, err := checksumFile(f12, checksumOpts{})
	require.NoError(t, err)
	assert.Equal(t, "", c.Digest)
}

func TestChecksumSeesTargetChanges(t *testing.T) {
	f1, err := chain.ParseBytes([]byte(chain2))
	require.NoError(t, err)
	f2, err := chain.ParseBytes([]byte(strings.Replace(chain2, "1000 - 0 100", "1000 + 0 100", 1)))
	require.NoError(t, err)
	c1, err := checksumFile(f1, checksumOpts{})
	require.NoError(t, err)
	c2, err := checksumFile(f2, checksumOpts{})
	require.NoError(t, err)
	expect.EQ(t, c1.Chroms[0].SumPos, c2.Chroms[0].SumPos)
	assert.NotEqual(t, c1.Chroms[0].SumTarget, c2.Chroms[0].SumTarget)
}

func TestChecksumSeesHighPositions(t *testing.T) {
	// Source ranges that differ only above bit 32.
	const size = 1 << 33
	text := func(start int64) string {
		return fmt.Sprintf("chain 1 chr1 %d + %d %d chr1 %d + 0 10 1\n10\n\n", size, start, start+10, size)
	}
	f1, err := chain.ParseBytes([]byte(text(5)))
	require.NoError(t, err)
	f2, err := chain.ParseBytes([]byte(text(5 + 1<<32)))
	require.NoError(t, err)
	c1, err := checksumFile(f1, checksumOpts{})
	require.NoError(t, err)
	c2, err := checksumFile(f2, checksumOpts{})
	require.NoError(t, err)
	assert.NotEqual(t, c1.Chroms[0].SumTarget, c2.Chroms[0].SumTarget)
}

func TestView(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	path := writeChain(t, tmpdir, "a.chain", chain1+chain2)

	tests := []struct {
		regions string
		want    string
	}{
		{"", "chr1\t100\t200\t1\t100\t200\t+\n" +
			"chr1\t500\t600\t1\t500\t600\t+\n" +
			"chr2\t0\t100\t2\t900\t1000\t-\n"},
		{"chr1:150-160", "chr1\t100\t200\t1\t100\t200\t+\n"},
		{"1:550, chr2", "chr1\t500\t600\t1\t500\t600\t+\n" +
			"chr2\t0\t100\t2\t900\t1000\t-\n"},
		{"chr1:201-500", ""},
		{"chrZ:1-10", ""},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		regions := test.regions
		require.NoError(t, view(viewFlags{regions: &regions}, path, &buf), test.regions)
		assert.Equal(t, test.want, buf.String(), test.regions)
	}

	bad := "chr1:0-5"
	assert.Error(t, view(viewFlags{regions: &bad}, path, ioutil.Discard))
}

func TestStats(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	var buf bytes.Buffer
	require.NoError(t, stats(writeChain(t, tmpdir, "a.chain", chain1+chain2), &buf))
	var s fileStats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &s))
	expect.EQ(t, s.Chains, 2)
	expect.EQ(t, s.Blocks, 3)
	expect.EQ(t, s.AlignedBases, int64(300))
	expect.EQ(t, s.ScoreMin, int64(10))
	expect.EQ(t, s.ScoreMax, int64(1000))
	expect.EQ(t, s.Source, []chromStats{
		{Name: "chr1", Chains: 1, Blocks: 2, AlignedBases: 200, TargetChroms: []string{"1"}},
		{Name: "chr2", Chains: 1, Blocks: 1, AlignedBases: 100, TargetChroms: []string{"2"}},
	})
}

func TestSizes(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	path := writeChain(t, tmpdir, "a.chain", chain1+chain2)

	tests := []struct {
		opts sizesOpts
		want string
	}{
		{sizesOpts{}, "1\t1000\n2\t1000\n"},
		{sizesOpts{style: liftover.Long}, "chr1\t1000\nchr2\t1000\n"},
		{sizesOpts{source: true}, "chr1\t1000\nchr2\t1000\n"},
		{sizesOpts{source: true, style: liftover.Short}, "1\t1000\n2\t1000\n"},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		require.NoError(t, sizes(path, test.opts, &buf))
		assert.Equal(t, test.want, buf.String(), "%+v", test.opts)
	}

	var buf bytes.Buffer
	require.NoError(t, sizes(path, sizesOpts{sam: true, style: liftover.Long}, &buf))
	assert.Contains(t, buf.String(), "@SQ\tSN:chr1\tLN:1000")
	assert.Contains(t, buf.String(), "@SQ\tSN:chr2\tLN:1000")
}

func TestMissingFile(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	assert.Error(t, stats(filepath.Join(tmpdir, "missing.chain"), ioutil.Discard))
}
