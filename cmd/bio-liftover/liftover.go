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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/interval"
	"github.com/grailbio/liftover/liftover"
)

type runOpts struct {
	ChainPath   string
	InPath      string
	OutPath     string
	UnmapPath   string
	Region      string
	SAMHeader   string
	Mode        string
	MinRatio    float64
	Parallelism int
	Mapper      liftover.Opts
	Chain       chain.Opts
}

// inputLine is one parsed input interval.  fields holds all columns of the
// line; query is zero if ok is false.
type inputLine struct {
	raw    string
	fields []string
	query  liftover.Query
	ok     bool
	// strandCol is the index of the strand column, or -1.
	strandCol int
}

func parseInputLine(line string) inputLine {
	in := inputLine{raw: line, fields: strings.Split(line, "\t"), strandCol: -1}
	if len(in.fields) < 3 {
		in.fields = strings.Fields(line)
		if len(in.fields) < 3 {
			return in
		}
	}
	start, err := strconv.ParseInt(in.fields[1], 10, 64)
	if err != nil || start < 0 {
		return in
	}
	end, err := strconv.ParseInt(in.fields[2], 10, 64)
	if err != nil || end < start {
		return in
	}
	in.query = liftover.Query{Chrom: in.fields[0], Start: start, End: end, Strand: liftover.Plus}
	for _, col := range []int{5, 3} {
		if col < len(in.fields) && len(in.fields[col]) == 1 {
			if s, ok := chain.ParseStrand(in.fields[col][0]); ok {
				in.query.Strand = s
				in.strandCol = col
				break
			}
		}
	}
	in.ok = true
	return in
}

func skipLine(line string) bool {
	return len(line) == 0 || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser")
}

func readInput(ctx context.Context, path string) (lines []inputLine, err error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		var in file.File
		if in, err = file.Open(ctx, path); err != nil {
			return nil, errors.E(err, "open", path)
		}
		defer file.CloseAndReport(ctx, in, &err)
		r = in.Reader(ctx)
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if skipLine(line) {
			continue
		}
		lines = append(lines, parseInputLine(line))
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.E(err, "read", path)
	}
	return lines, nil
}

// createOutput opens path for writing; "-" selects stdio.  Paths ending in
// ".gz" are BGZF-compressed.
func createOutput(ctx context.Context, path string, stdio *os.File, parallelism int) (io.Writer, func() error, error) {
	if path == "-" {
		return stdio, func() error { return nil }, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return out.Writer(ctx), func() error { return out.Close(ctx) }, nil
	}
	if parallelism < 1 {
		parallelism = 1
	}
	bgzfWriter := bgzf.NewWriter(out.Writer(ctx), parallelism)
	return bgzfWriter, func() (err error) {
		if err = bgzfWriter.Close(); err != nil {
			out.Close(ctx) // nolint: errcheck
			return err
		}
		return out.Close(ctx)
	}, nil
}

func writeStrand(w *tsv.Writer, s liftover.Strand) {
	w.WriteByte(s.Byte())
}

func writeResult(w *tsv.Writer, r liftover.MapResult) {
	w.WriteString(r.Chrom)
	w.WriteInt64(r.Start)
	w.WriteInt64(r.End)
	writeStrand(w, r.Strand)
}

func writeFailure(w *tsv.Writer, in *inputLine, reason string) error {
	w.WriteString(in.raw)
	w.WriteString("Fail")
	w.WriteString(reason)
	return w.EndLine()
}

type counts struct {
	total, mapped, failed int
}

// missingChroms logs each source chromosome absent from the chain file once.
type missingChroms map[string]bool

func (seen missingChroms) note(m *liftover.Mapper, chrom string) {
	if seen[chrom] || m.Index().HasChrom(chrom) {
		return
	}
	seen[chrom] = true
	if name, ok := m.Index().SuggestChrom(chrom); ok {
		log.Printf("chromosome %s is not in the chain file; did you mean %s?", chrom, name)
		return
	}
	log.Printf("chromosome %s is not in the chain file", chrom)
}

// liftRegions writes one merged interval per input line.
func liftRegions(m *liftover.Mapper, lines []inputLine, minRatio float64, out, unmap *tsv.Writer) (c counts, err error) {
	missing := missingChroms{}
	for i := range lines {
		in := &lines[i]
		c.total++
		if !in.ok {
			c.failed++
			if err = writeFailure(unmap, in, liftover.InvalidFormat.String()); err != nil {
				return
			}
			continue
		}
		q := in.query
		r, reason := m.MapRegion(q.Chrom, q.Start, q.End, q.Strand, minRatio)
		if reason != liftover.OK {
			c.failed++
			if reason == liftover.Unmap {
				missing.note(m, q.Chrom)
			}
			msg := reason.String()
			if reason == liftover.LowRatio {
				msg = fmt.Sprintf("map_ratio=%.4f", r.Ratio)
			}
			if err = writeFailure(unmap, in, msg); err != nil {
				return
			}
			continue
		}
		c.mapped++
		fields := append([]string(nil), in.fields...)
		fields[0] = r.Chrom
		fields[1] = strconv.FormatInt(r.Start, 10)
		fields[2] = strconv.FormatInt(r.End, 10)
		if in.strandCol >= 0 {
			fields[in.strandCol] = r.Strand.String()
		}
		for _, f := range fields {
			out.WriteString(f)
		}
		out.WriteString(fmt.Sprintf("map_ratio=%.4f", r.Ratio))
		if err = out.EndLine(); err != nil {
			return
		}
	}
	return
}

// liftSegments writes one line per chain block overlapping each input line.
func liftSegments(m *liftover.Mapper, lines []inputLine, parallelism int, out, unmap *tsv.Writer) (c counts, err error) {
	queries := make([]liftover.Query, 0, len(lines))
	for i := range lines {
		if lines[i].ok {
			queries = append(queries, lines[i].query)
		}
	}
	results, summary := m.MapBatch(queries, parallelism)
	log.Printf("segments: %d queries, %d mapped (%d multi-block), %d unaligned, %d on unknown chromosomes",
		summary.Total, summary.Mapped, summary.Multi, summary.Unmapped, summary.MissingChrom)
	missing := missingChroms{}
	next := 0
	for i := range lines {
		in := &lines[i]
		c.total++
		if !in.ok {
			c.failed++
			if err = writeFailure(unmap, in, liftover.InvalidFormat.String()); err != nil {
				return
			}
			continue
		}
		r := &results[next]
		next++
		if len(r.Segments) == 0 {
			c.failed++
			if r.Segments == nil {
				missing.note(m, in.query.Chrom)
			}
			if err = writeFailure(unmap, in, liftover.Unmap.String()); err != nil {
				return
			}
			continue
		}
		c.mapped++
		for _, seg := range r.Segments {
			writeResult(out, seg.Source)
			writeResult(out, seg.Target)
			if err = out.EndLine(); err != nil {
				return
			}
		}
	}
	return
}

func writeSAMHeader(ctx context.Context, m *liftover.Mapper, path string) error {
	h, err := m.TargetSAMHeader()
	if err != nil {
		return err
	}
	text, err := h.MarshalText()
	if err != nil {
		return err
	}
	w, closer, err := createOutput(ctx, path, os.Stdout, 1)
	if err != nil {
		return err
	}
	if _, err = w.Write(text); err != nil {
		closer() // nolint: errcheck
		return errors.E(err, "write", path)
	}
	return closer()
}

func run(ctx context.Context, opts runOpts) (err error) {
	if opts.Mode != "region" && opts.Mode != "segments" {
		return errors.E(errors.Invalid, "unknown mode", opts.Mode)
	}
	idx, err := interval.LoadChainIndexOpts(opts.ChainPath, opts.Chain)
	if err != nil {
		return err
	}
	m := liftover.NewWithOpts(idx, opts.Mapper)
	if opts.SAMHeader != "" {
		if err = writeSAMHeader(ctx, m, opts.SAMHeader); err != nil {
			return err
		}
	}

	var lines []inputLine
	if opts.Region != "" {
		region, err := interval.ParseRegion(opts.Region)
		if err != nil {
			return errors.E(errors.Invalid, err)
		}
		lines = append(lines, parseInputLine(fmt.Sprintf("%s\t%d\t%d", region.Chrom, region.Start, region.End)))
	} else if lines, err = readInput(ctx, opts.InPath); err != nil {
		return err
	}

	unmapPath := opts.UnmapPath
	if unmapPath == "" {
		unmapPath = "-"
		if opts.OutPath != "-" {
			unmapPath = opts.OutPath + ".unmap"
		}
	}
	var e errors.Once
	outW, outClose, err := createOutput(ctx, opts.OutPath, os.Stdout, opts.Parallelism)
	if err != nil {
		return err
	}
	defer func() { e.Set(outClose()); err = e.Err() }()
	unmapW, unmapClose, err := createOutput(ctx, unmapPath, os.Stderr, opts.Parallelism)
	if err != nil {
		e.Set(err)
		return
	}
	defer func() { e.Set(unmapClose()); err = e.Err() }()

	out, unmap := tsv.NewWriter(outW), tsv.NewWriter(unmapW)
	var c counts
	if opts.Mode == "region" {
		c, err = liftRegions(m, lines, opts.MinRatio, out, unmap)
	} else {
		c, err = liftSegments(m, lines, opts.Parallelism, out, unmap)
	}
	e.Set(err)
	e.Set(out.Flush())
	e.Set(unmap.Flush())
	log.Printf("%s: %d intervals, %d mapped, %d failed", opts.InPath, c.total, c.mapped, c.failed)
	return e.Err()
}
