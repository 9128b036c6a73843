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
	"bufio"
	"bytes"
	"io"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
)

// Side is one half of a chain header.
type Side struct {
	Name   string
	Size   int64
	Strand Strand
	// Start and End delimit the aligned region, 0-based half-open, in the
	// coordinates of Strand.
	Start int64
	End   int64
}

// Header is the parsed "chain" line.
type Header struct {
	Score int64
	// Source is the UCSC "t" side: the assembly being lifted from.
	Source Side
	// Target is the UCSC "q" side: the assembly being lifted to.
	Target Side
	// ID is the optional chain id, "" if absent.
	ID string
}

// Block is one ungapped alignment segment.  Both ranges are 0-based
// half-open, forward-strand coordinates, and have the same length.
type Block struct {
	SourceChrom  string
	SourceStart  int64
	SourceEnd    int64
	TargetChrom  string
	TargetStart  int64
	TargetEnd    int64
	TargetStrand Strand
}

// Len returns the number of aligned bases.
func (b Block) Len() int64 { return b.SourceEnd - b.SourceStart }

// File is a fully parsed chain file.  It is not modified after parsing.
type File struct {
	// Blocks lists every block in file order.
	Blocks []Block
	// Headers lists the chain headers in file order.
	Headers []Header
	// SourceSizes and TargetSizes map chromosome names to lengths, as
	// declared by the headers.
	SourceSizes map[string]int64
	TargetSizes map[string]int64
}

// readBufSize is the bufio buffer size for chain input.
const readBufSize = 128 << 10

var chainKeyword = []byte("chain")

// getTokens identifies up to the first len(tokens) whitespace-separated tokens
// of line, returning the number saved.  Any byte <= ' ' is a delimiter, which
// also takes care of stray '\r's.
func getTokens(tokens [][]byte, line []byte) int {
	posEnd := 0
	lineLen := len(line)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if line[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if line[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = line[pos:posEnd]
	}
	return len(tokens)
}

func parseCount(field []byte, what string, lineIdx int, line []byte) (int64, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(field), 10, 64)
	if err != nil || v < 0 {
		e := newError(InvalidNumber, lineIdx, line, "invalid %s value %q: expected a non-negative integer", what, field)
		e.Err = err
		return 0, e
	}
	return v, nil
}

func parseSide(fields [][]byte, label string, lineIdx int, line []byte) (side Side, err error) {
	side.Name = string(fields[0])
	if side.Size, err = parseCount(fields[1], label+" size", lineIdx, line); err != nil {
		return
	}
	strandField := fields[2]
	var ok bool
	if len(strandField) == 1 {
		side.Strand, ok = ParseStrand(strandField[0])
	}
	if !ok {
		err = newError(InvalidStrand, lineIdx, line, "invalid %s strand %q, expected '+' or '-'", label, strandField)
		return
	}
	if side.Start, err = parseCount(fields[3], label+" start", lineIdx, line); err != nil {
		return
	}
	if side.End, err = parseCount(fields[4], label+" end", lineIdx, line); err != nil {
		return
	}
	if side.Start > side.End {
		err = newError(InvalidCoordinates, lineIdx, line, "%s start (%d) > %s end (%d)", label, side.Start, label, side.End)
		return
	}
	if side.End > side.Size {
		err = newError(InvalidCoordinates, lineIdx, line, "%s end (%d) > %s size (%d)", label, side.End, label, side.Size)
	}
	return
}

// parseHeader parses a line of the form
//   chain score tName tSize tStrand tStart tEnd qName qSize qStrand qStart qEnd [id]
func parseHeader(line []byte, lineIdx int) (h Header, err error) {
	var tokens [13][]byte
	nToken := getTokens(tokens[:], line)
	if nToken < 12 {
		err = newError(InvalidHeader, lineIdx, line, "expected at least 12 fields, got %d", nToken)
		return
	}
	if !bytes.Equal(tokens[0], chainKeyword) {
		err = newError(InvalidHeader, lineIdx, line, "expected 'chain' keyword, got %q", tokens[0])
		return
	}
	if h.Score, err = parseCount(tokens[1], "score", lineIdx, line); err != nil {
		return
	}
	if h.Source, err = parseSide(tokens[2:7], "source", lineIdx, line); err != nil {
		return
	}
	if h.Target, err = parseSide(tokens[7:12], "target", lineIdx, line); err != nil {
		return
	}
	if nToken > 12 {
		h.ID = string(tokens[12])
	}
	return
}

// dataLine is "size dt dq", or just "size" at the end of a chain.  dt is the
// gap on the source side and dq the gap on the target side.
type dataLine struct {
	size      int64
	sourceGap int64
	targetGap int64
}

func parseDataLine(line []byte, lineIdx int) (d dataLine, err error) {
	var tokens [4][]byte
	nToken := getTokens(tokens[:], line)
	switch nToken {
	case 1, 3:
	case 4:
		err = newError(InvalidDataLine, lineIdx, line, "expected 1 or 3 fields, got more than 3")
		return
	default:
		err = newError(InvalidDataLine, lineIdx, line, "expected 1 or 3 fields, got %d", nToken)
		return
	}
	if d.size, err = parseCount(tokens[0], "block size", lineIdx, line); err != nil {
		return
	}
	if d.size == 0 {
		err = newError(InvalidDataLine, lineIdx, line, "block size must be greater than 0")
		return
	}
	if nToken == 3 {
		if d.sourceGap, err = parseCount(tokens[1], "source gap (dt)", lineIdx, line); err != nil {
			return
		}
		if d.targetGap, err = parseCount(tokens[2], "target gap (dq)", lineIdx, line); err != nil {
			return
		}
	}
	return
}

// blockRange places a block of the given size at offset pos on side s, and
// returns it in forward-strand coordinates.
func blockRange(s *Side, pos, size int64) (start, end int64, ok bool) {
	if pos < 0 || pos > s.Size || size > s.Size-pos {
		return 0, 0, false
	}
	if s.Strand == Minus {
		return s.Size - (pos + size), s.Size - pos, true
	}
	return pos, pos + size, true
}

// parser holds the state of one pass over a chain file.
type parser struct {
	f *File
	// cur is the active chain header, nil between chains.  It points into
	// f.Headers and is only valid until the next append.
	cur *Header
	// nCurBlocks counts blocks read for cur.
	nCurBlocks int
	// sourcePos and targetPos are the chain-relative cursors for the next
	// block.
	sourcePos int64
	targetPos int64
	// curLineIdx is the header line of cur.
	curLineIdx int
}

// endChain closes the active chain, which must have at least one block.
func (p *parser) endChain() error {
	if p.cur != nil && p.nCurBlocks == 0 {
		return newError(InvalidHeader, p.curLineIdx, nil, "chain %q has no alignment data", p.cur.ID)
	}
	p.cur = nil
	p.nCurBlocks = 0
	return nil
}

func (p *parser) header(line []byte, lineIdx int) error {
	if err := p.endChain(); err != nil {
		return err
	}
	h, err := parseHeader(line, lineIdx)
	if err != nil {
		return err
	}
	p.f.Headers = append(p.f.Headers, h)
	p.f.SourceSizes[h.Source.Name] = h.Source.Size
	p.f.TargetSizes[h.Target.Name] = h.Target.Size
	p.cur = &p.f.Headers[len(p.f.Headers)-1]
	p.nCurBlocks = 0
	p.sourcePos = h.Source.Start
	p.targetPos = h.Target.Start
	p.curLineIdx = lineIdx
	return nil
}

func (p *parser) data(line []byte, lineIdx int) error {
	if p.cur == nil {
		return newError(InvalidDataLine, lineIdx, line, "data line outside of a chain")
	}
	d, err := parseDataLine(line, lineIdx)
	if err != nil {
		return err
	}
	h := p.cur
	sStart, sEnd, ok := blockRange(&h.Source, p.sourcePos, d.size)
	if !ok {
		return newError(InvalidCoordinates, lineIdx, line, "block at source offset %d (size %d) extends past %s size %d",
			p.sourcePos, d.size, h.Source.Name, h.Source.Size)
	}
	tStart, tEnd, ok := blockRange(&h.Target, p.targetPos, d.size)
	if !ok {
		return newError(InvalidCoordinates, lineIdx, line, "block at target offset %d (size %d) extends past %s size %d",
			p.targetPos, d.size, h.Target.Name, h.Target.Size)
	}
	p.f.Blocks = append(p.f.Blocks, Block{
		SourceChrom:  h.Source.Name,
		SourceStart:  sStart,
		SourceEnd:    sEnd,
		TargetChrom:  h.Target.Name,
		TargetStart:  tStart,
		TargetEnd:    tEnd,
		TargetStrand: h.Target.Strand,
	})
	p.nCurBlocks++
	// blockRange guarantees pos+size <= Size, so only the gaps can overrun.
	p.sourcePos += d.size
	p.targetPos += d.size
	if d.sourceGap > h.Source.Size-p.sourcePos {
		return newError(InvalidCoordinates, lineIdx, line, "source gap %d at offset %d extends past %s size %d",
			d.sourceGap, p.sourcePos, h.Source.Name, h.Source.Size)
	}
	if d.targetGap > h.Target.Size-p.targetPos {
		return newError(InvalidCoordinates, lineIdx, line, "target gap %d at offset %d extends past %s size %d",
			d.targetGap, p.targetPos, h.Target.Name, h.Target.Size)
	}
	p.sourcePos += d.sourceGap
	p.targetPos += d.targetGap
	return nil
}

// Parse reads an uncompressed chain file from r.
func Parse(r io.Reader) (*File, error) {
	p := parser{
		f: &File{
			SourceSizes: make(map[string]int64),
			TargetSizes: make(map[string]int64),
		},
	}
	scanner := bufio.NewScanner(bufio.NewReaderSize(r, readBufSize))
	scanner.Buffer(make([]byte, 0, 64<<10), readBufSize)
	var tokens [1][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := scanner.Bytes()
		var err error
		if getTokens(tokens[:], line) == 0 || tokens[0][0] == '#' {
			if err = p.endChain(); err != nil {
				return nil, err
			}
			continue
		}
		if bytes.HasPrefix(tokens[0], chainKeyword) {
			err = p.header(line, lineIdx)
		} else {
			err = p.data(line, lineIdx)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, readError(err, lineIdx+1)
	}
	if p.cur != nil && p.nCurBlocks == 0 {
		return nil, newError(UnexpectedEOF, p.curLineIdx, nil, "input ends before any alignment data for chain %q", p.cur.ID)
	}
	return p.f, nil
}

// readError classifies a failure of the underlying reader.
func readError(err error, lineIdx int) *ParseError {
	kind := IOError
	if err == io.ErrUnexpectedEOF {
		kind = UnexpectedEOF
	}
	e := newError(kind, lineIdx, nil, "read failed: %v", err)
	e.Err = err
	return e
}
