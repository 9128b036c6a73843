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
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grailbio/base/log"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/interval"
	"github.com/grailbio/liftover/liftover"
	"github.com/pkg/errors"
)

type intervalJSON struct {
	Chrom  string `json:"chrom"`
	Start  int64  `json:"start"`
	End    int64  `json:"end"`
	Strand string `json:"strand"`
}

type segmentJSON struct {
	Source intervalJSON `json:"source"`
	Target intervalJSON `json:"target"`
}

type mapResponse struct {
	Query    intervalJSON  `json:"query"`
	Segments []segmentJSON `json:"segments"`
}

type regionResponse struct {
	Query  intervalJSON  `json:"query"`
	Status string        `json:"status"`
	Target *intervalJSON `json:"target,omitempty"`
	Ratio  float64       `json:"ratio"`
}

type infoResponse struct {
	ChromStyle     string           `json:"chrom_style"`
	Compat         string           `json:"compat"`
	SourceChroms   []string         `json:"source_chroms"`
	TotalIntervals int              `json:"total_intervals"`
	TargetSizes    map[string]int64 `json:"target_sizes"`
	Fingerprint    string           `json:"fingerprint"`
}

func toJSON(r liftover.MapResult) intervalJSON {
	return intervalJSON{Chrom: r.Chrom, Start: r.Start, End: r.End, Strand: r.Strand.String()}
}

// queryParams reads either "region" (chrom:begin-end, 1-based inclusive) or
// "chrom", "start" and "end" (0-based half-open), plus an optional "strand".
func queryParams(c *gin.Context) (liftover.Query, error) {
	q := liftover.Query{Strand: liftover.Plus}
	// An unescaped "+" arrives as a space.
	if s := strings.TrimSpace(c.Query("strand")); s != "" {
		strand, ok := chain.ParseStrand(s[0])
		if !ok || len(s) != 1 {
			return q, errors.Errorf("invalid strand %q", s)
		}
		q.Strand = strand
	}
	if s := c.Query("region"); s != "" {
		r, err := interval.ParseRegion(s)
		if err != nil {
			return q, err
		}
		if r.End == interval.WholeChrom {
			return q, errors.Errorf("region %q needs a start and end", s)
		}
		q.Chrom, q.Start, q.End = r.Chrom, r.Start, r.End
		return q, nil
	}
	q.Chrom = c.Query("chrom")
	if q.Chrom == "" {
		return q, errors.New("missing chrom or region")
	}
	var err error
	if q.Start, err = strconv.ParseInt(c.Query("start"), 10, 64); err != nil {
		return q, errors.Wrap(err, "invalid start")
	}
	if q.End, err = strconv.ParseInt(c.Query("end"), 10, 64); err != nil {
		return q, errors.Wrap(err, "invalid end")
	}
	if q.Start < 0 || q.End < q.Start {
		return q, errors.Errorf("invalid interval [%d,%d)", q.Start, q.End)
	}
	return q, nil
}

func queryJSON(q liftover.Query) intervalJSON {
	return intervalJSON{Chrom: q.Chrom, Start: q.Start, End: q.End, Strand: q.Strand.String()}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// NewMapHandler returns a handler that maps one interval to its target
// segments.  A source chromosome absent from the chain file is a 404; an
// interval with no aligned bases is a 200 with no segments.
func NewMapHandler(m *liftover.Mapper) func(c *gin.Context) {
	return func(c *gin.Context) {
		q, err := queryParams(c)
		if err != nil {
			badRequest(c, err)
			return
		}
		segs, ok := m.Map(q.Chrom, q.Start, q.End, q.Strand)
		if !ok {
			log.Debug.Printf("map: chromosome %s not in chain file", q.Chrom)
			body := gin.H{"error": "chromosome not in chain file: " + q.Chrom}
			if name, ok := m.Index().SuggestChrom(q.Chrom); ok {
				body["suggestion"] = name
			}
			c.JSON(http.StatusNotFound, body)
			return
		}
		resp := mapResponse{Query: queryJSON(q), Segments: make([]segmentJSON, len(segs))}
		for i, s := range segs {
			resp.Segments[i] = segmentJSON{Source: toJSON(s.Source), Target: toJSON(s.Target)}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// NewRegionHandler returns a handler that maps one interval to a single
// target interval, the way bio-liftover's region mode does.
func NewRegionHandler(m *liftover.Mapper, defaultMinRatio float64) func(c *gin.Context) {
	return func(c *gin.Context) {
		q, err := queryParams(c)
		if err != nil {
			badRequest(c, err)
			return
		}
		minRatio := defaultMinRatio
		if s := c.Query("min_ratio"); s != "" {
			if minRatio, err = strconv.ParseFloat(s, 64); err != nil || minRatio < 0 || minRatio > 1 {
				badRequest(c, errors.Errorf("invalid min_ratio %q", s))
				return
			}
		}
		res, reason := m.MapRegion(q.Chrom, q.Start, q.End, q.Strand, minRatio)
		resp := regionResponse{Query: queryJSON(q), Status: reason.String(), Ratio: res.Ratio}
		if reason == liftover.OK {
			t := toJSON(res.MapResult)
			resp.Target = &t
		}
		c.JSON(http.StatusOK, resp)
	}
}

// NewInfoHandler describes the loaded chain file.
func NewInfoHandler(m *liftover.Mapper) func(c *gin.Context) {
	idx := m.Index()
	info := infoResponse{
		ChromStyle:     m.Style().String(),
		Compat:         m.Compat().String(),
		SourceChroms:   idx.SourceChroms(),
		TotalIntervals: idx.TotalIntervals(),
		TargetSizes:    m.TargetSizes(),
		Fingerprint:    fmt.Sprintf("%016x", idx.Fingerprint()),
	}
	etag := `"` + info.Fingerprint + `"`
	return func(c *gin.Context) {
		c.Header("ETag", etag)
		c.JSON(http.StatusOK, info)
	}
}

func newRouter(m *liftover.Mapper, minRatio float64) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/map", NewMapHandler(m))
	r.GET("/region", NewRegionHandler(m, minRatio))
	r.GET("/info", NewInfoHandler(m))
	return r
}
