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
package chain

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"golang.org/x/exp/mmap"
)

// Compression identifies the container format of a chain file.
type Compression int

const (
	// Plain is uncompressed text.
	Plain Compression = iota
	// Gzip covers both plain gzip and BGZF.
	Gzip
	// Bzip2 is bzip2.
	Bzip2
	// XZ is xz.
	XZ
	// Zstd is recognized so it can be rejected with a clear error.
	Zstd
	// Snappy is the snappy framing format.
	Snappy
)

func (c Compression) String() string {
	switch c {
	case Plain:
		return "plain"
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case XZ:
		return "xz"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	}
	return "unknown"
}

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	bzip2Magic  = []byte("BZh")
	xzMagic     = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// magicLen is the number of leading bytes needed by sniffCompression.
const magicLen = 10

// sniffCompression identifies the format from the first bytes of a stream.
// Anything unrecognized is Plain.
func sniffCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, bzip2Magic):
		return Bzip2
	case bytes.HasPrefix(head, xzMagic):
		return XZ
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, snappyMagic):
		return Snappy
	}
	return Plain
}

// compressionFromName identifies the format from the path suffix.  ok is
// false if the suffix says nothing.
func compressionFromName(path string) (c Compression, ok bool) {
	if fileio.DetermineType(path) == fileio.Gzip {
		return Gzip, true
	}
	switch {
	case strings.HasSuffix(path, ".bgz"):
		return Gzip, true
	case strings.HasSuffix(path, ".bz2"):
		return Bzip2, true
	case strings.HasSuffix(path, ".xz"):
		return XZ, true
	case strings.HasSuffix(path, ".zst"):
		return Zstd, true
	case strings.HasSuffix(path, ".sz"):
		return Snappy, true
	}
	return Plain, false
}

// DetectCompression identifies the format of the chain file at path.  The
// extension wins when it is a known compression suffix; otherwise the
// first bytes of the file are examined.
func DetectCompression(path string) (Compression, error) {
	if c, ok := compressionFromName(path); ok {
		return c, nil
	}
	ctx := vcontext.Background()
	f, err := openFile(path)
	if err != nil {
		return Plain, err
	}
	defer f.Close(ctx) // nolint: errcheck
	head, err := readHead(f.Reader(ctx))
	if err != nil {
		return Plain, err
	}
	return sniffCompression(head), nil
}

// DetectCompressionBytes identifies the format of an in-memory chain file
// from its magic bytes.
func DetectCompressionBytes(data []byte) Compression {
	return sniffCompression(data)
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, magicLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, readError(err, 0)
	}
	return head[:n], nil
}

// NewReader wraps r with a decompressor for c.
func NewReader(r io.Reader, c Compression) (io.Reader, error) {
	var (
		dec io.Reader
		err error
	)
	switch c {
	case Plain:
		return r, nil
	case Gzip:
		dec, err = gzip.NewReader(r)
	case Bzip2:
		dec, err = bzip2.NewReader(r, nil)
	case XZ:
		dec, err = xz.NewReader(r)
	case Snappy:
		dec = snappy.NewReader(r)
	default:
		return nil, &ParseError{Kind: UnsupportedCompression, Msg: c.String() + " compressed chain files are not supported"}
	}
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			e := newError(UnexpectedEOF, 0, nil, "truncated %s stream", c)
			e.Err = err
			return nil, e
		}
		e := newError(IOError, 0, nil, "could not read %s stream: %v", c, err)
		e.Err = err
		return nil, e
	}
	return dec, nil
}

// Opts controls ParseFileOpts.
type Opts struct {
	// MmapThreshold is the size, in bytes, at which an uncompressed local
	// chain file is memory-mapped instead of streamed.  <= 0 disables
	// mapping.
	MmapThreshold int64
}

// DefaultOpts is used by ParseFile.
var DefaultOpts = Opts{
	MmapThreshold: 100 << 20,
}

// ParseBytes parses an in-memory chain file.  Compressed buffers are
// recognized by their magic bytes.
func ParseBytes(data []byte) (*File, error) {
	r, err := NewReader(bytes.NewReader(data), DetectCompressionBytes(data))
	if err != nil {
		return nil, err
	}
	return Parse(r)
}

// ParseFile parses the chain file at path with DefaultOpts.
func ParseFile(path string) (*File, error) {
	return ParseFileOpts(path, DefaultOpts)
}

func openFile(path string) (file.File, error) {
	f, err := file.Open(vcontext.Background(), path)
	if err == nil {
		return f, nil
	}
	if errors.Is(errors.NotExist, err) || os.IsNotExist(err) {
		return nil, &ParseError{Kind: FileNotFound, Msg: "chain file not found: " + path, Err: err}
	}
	return nil, &ParseError{Kind: IOError, Msg: "could not open " + path + ": " + err.Error(), Err: err}
}

func isLocalPath(path string) bool {
	return !strings.Contains(path, "://")
}

// ParseFileOpts parses the chain file at path, which may be any path
// understood by grailbio/base/file.
func ParseFileOpts(path string, opts Opts) (f *File, err error) {
	ctx := vcontext.Background()
	in, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			f, err = nil, &ParseError{Kind: IOError, Msg: "close " + path + ": " + cerr.Error(), Err: cerr}
		}
	}()
	reader := in.Reader(ctx)
	comp, ok := compressionFromName(path)
	if !ok {
		head, err := readHead(reader)
		if err != nil {
			return nil, err
		}
		comp = sniffCompression(head)
		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			return nil, readError(err, 0)
		}
	}
	if comp == Plain && opts.MmapThreshold > 0 && isLocalPath(path) {
		info, err := in.Stat(ctx)
		if err != nil {
			return nil, readError(err, 0)
		}
		if info.Size() >= opts.MmapThreshold {
			return parseMmap(path)
		}
	}
	r, err := NewReader(reader, comp)
	if err != nil {
		return nil, err
	}
	if f, err = Parse(r); err != nil {
		return nil, err
	}
	log.Debug.Printf("%s: parsed %d chains, %d blocks (%s)", path, len(f.Headers), len(f.Blocks), comp)
	return f, nil
}

func parseMmap(path string) (*File, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, readError(err, 0)
	}
	defer ra.Close() // nolint: errcheck
	f, err := Parse(io.NewSectionReader(ra, 0, int64(ra.Len())))
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("%s: parsed %d chains, %d blocks (mmap)", path, len(f.Headers), len(f.Blocks))
	return f, nil
}
