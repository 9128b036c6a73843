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
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/interval"
	"github.com/grailbio/liftover/liftover"
)

type chromStats struct {
	Name         string
	Chains       int
	Blocks       int
	AlignedBases int64
	// TargetChroms lists the target chromosomes this chromosome's chains
	// point to.
	TargetChroms []string
}

type fileStats struct {
	Chains       int
	Blocks       int
	AlignedBases int64
	Source       []chromStats
	// ScoreMin and ScoreMax bound the chain scores.
	ScoreMin, ScoreMax int64
}

func computeStats(f *chain.File) fileStats {
	s := fileStats{Chains: len(f.Headers), Blocks: len(f.Blocks)}
	byName := map[string]*chromStats{}
	targets := map[string]map[string]bool{}
	get := func(name string) *chromStats {
		c := byName[name]
		if c == nil {
			c = &chromStats{Name: name}
			byName[name] = c
			targets[name] = map[string]bool{}
		}
		return c
	}
	for i, h := range f.Headers {
		c := get(h.Source.Name)
		c.Chains++
		targets[h.Source.Name][h.Target.Name] = true
		if i == 0 || h.Score < s.ScoreMin {
			s.ScoreMin = h.Score
		}
		if i == 0 || h.Score > s.ScoreMax {
			s.ScoreMax = h.Score
		}
	}
	for _, b := range f.Blocks {
		c := get(b.SourceChrom)
		c.Blocks++
		c.AlignedBases += b.Len()
		s.AlignedBases += b.Len()
	}
	for name, c := range byName {
		for t := range targets[name] {
			c.TargetChroms = append(c.TargetChroms, t)
		}
		sort.Strings(c.TargetChroms)
		s.Source = append(s.Source, *c)
	}
	sort.Slice(s.Source, func(i, j int) bool { return s.Source[i].Name < s.Source[j].Name })
	return s
}

func stats(path string, w io.Writer) error {
	f, err := loadChain(path)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(computeStats(f), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(js))
	return err
}

type sizesOpts struct {
	// source selects the source assembly.
	source bool
	// sam prints the target assembly as a SAM header; source is ignored.
	sam   bool
	style liftover.ChromStyle
}

func sizes(path string, opts sizesOpts, w io.Writer) error {
	f, err := loadChain(path)
	if err != nil {
		return err
	}
	idx := interval.NewChainIndex(f)
	if opts.sam {
		h, err := liftover.New(idx, opts.style).TargetSAMHeader()
		if err != nil {
			return err
		}
		text, err := h.MarshalText()
		if err != nil {
			return err
		}
		_, err = w.Write(text)
		return err
	}
	m := idx.TargetSizes()
	if opts.source {
		m = idx.SourceSizes()
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	tw := tsv.NewWriter(w)
	for _, name := range names {
		tw.WriteString(liftover.UpdateChromID(name, opts.style))
		tw.WriteInt64(m[name])
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
