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
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/interval"
	"github.com/minio/highwayhash"
)

type checksumOpts struct {
	// digest adds fileChecksum.Digest, which also depends on block order.
	digest bool
}

// chromChecksum is the checksum of the blocks on one source chromosome.
type chromChecksum struct {
	// Name is the source chromosome name.
	Name string
	// NBlocks is the # of blocks on this chromosome.
	NBlocks int64
	// AlignedBases is the total block length.
	AlignedBases int64
	// SumPos is the sum of block source starts.  A quick commutative hash.
	SumPos uint64
	// SumTarget is the sum of hashes of each block's target range.
	SumTarget uint64
}

// fileChecksum represents the checksum of a chain file.
type fileChecksum struct {
	Chroms []chromChecksum
	// Digest is the hex HighwayHash of all blocks in file order.
	Digest string `json:",omitempty"`
}

func hashTarget(h hash.Hash64, pos [16]byte, v *interval.Value) uint64 {
	var buf [17]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(v.TargetStart))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(v.TargetEnd))
	buf[16] = v.TargetStrand.Byte()
	h.Reset()
	h.Write(pos[:])
	h.Write(unsafe.StringToBytes(v.TargetChrom))
	h.Write(buf[:])
	return h.Sum64()
}

func (c *chromChecksum) add(hit *interval.Hit, h hash.Hash64) {
	c.NBlocks++
	c.AlignedBases += hit.SourceEnd - hit.SourceStart
	c.SumPos += uint64(hit.SourceStart)
	pos := [16]byte{}
	binary.LittleEndian.PutUint64(pos[:8], uint64(hit.SourceStart))
	binary.LittleEndian.PutUint64(pos[8:], uint64(hit.SourceEnd))
	c.SumTarget += hashTarget(h, pos, &hit.Value)
}

// digestKey is the HighwayHash key.  It only has to be fixed.
var digestKey = make([]byte, highwayhash.Size)

func digest(f *chain.File) (string, error) {
	h, err := highwayhash.New(digestKey)
	if err != nil {
		return "", err
	}
	var buf [8]byte
	for _, b := range f.Blocks {
		for _, s := range []string{b.SourceChrom, b.TargetChrom} {
			h.Write(unsafe.StringToBytes(s))
			h.Write([]byte{0})
		}
		for _, v := range []int64{b.SourceStart, b.SourceEnd, b.TargetStart, b.TargetEnd} {
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			h.Write(buf[:])
		}
		h.Write([]byte{b.TargetStrand.Byte()})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func checksumFile(f *chain.File, opts checksumOpts) (fileChecksum, error) {
	idx := interval.NewChainIndex(f)
	names := idx.SourceChroms()
	csum := fileChecksum{Chroms: make([]chromChecksum, len(names))}
	err := traverse.Each(len(names), func(i int) error {
		c := &csum.Chroms[i]
		c.Name = names[i]
		h := seahash.New()
		hits := idx.QueryIntervals(names[i], 0, interval.WholeChrom)
		for j := range hits {
			c.add(&hits[j], h)
		}
		return nil
	})
	if err != nil {
		return csum, err
	}
	if opts.digest {
		if csum.Digest, err = digest(f); err != nil {
			return csum, err
		}
	}
	return csum, nil
}

func checksum(path string, opts checksumOpts, w io.Writer) error {
	f, err := loadChain(path)
	if err != nil {
		return err
	}
	csum, err := checksumFile(f, opts)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(csum, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	_, err = fmt.Fprintln(w, string(js))
	return err
}
