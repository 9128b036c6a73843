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
	"fmt"
	"math"
	"strconv"
	"strings"
)

// WholeChrom is the End of a Region naming an entire chromosome.
const WholeChrom = int64(math.MaxInt64)

// Region is a 0-based half-open range on one chromosome.
type Region struct {
	Chrom      string
	Start, End int64
}

func (r Region) String() string {
	if r.Start == 0 && r.End == WholeChrom {
		return r.Chrom
	}
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start+1, r.End)
}

func parsePos(s string) (int64, error) {
	return strconv.ParseInt(strings.Replace(s, ",", "", -1), 10, 64)
}

// ParseRegion parses a samtools-style region string:
//
//   chr1:1,001-2,000   1-based inclusive, i.e. [1000, 2000)
//   chr1:1001          the single base [1000, 1001)
//   chr1               the whole chromosome
func ParseRegion(region string) (result Region, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.Chrom = region
		result.End = WholeChrom
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty chromosome name in %q", region)
		return
	}
	result.Chrom = region[:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = parsePos(rangeStr); err != nil {
			err = fmt.Errorf("interval.ParseRegion: %q: %v", region, err)
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegion: position %v in %q out of range", rangeStr, region)
			return
		}
		result.Start = pos1 - 1
		result.End = pos1
		return
	}
	var start1, end int64
	if start1, err = parsePos(rangeStr[:dashPos]); err != nil {
		err = fmt.Errorf("interval.ParseRegion: %q: %v", region, err)
		return
	}
	if end, err = parsePos(rangeStr[dashPos+1:]); err != nil {
		err = fmt.Errorf("interval.ParseRegion: %q: %v", region, err)
		return
	}
	if start1 <= 0 || end < start1 {
		err = fmt.Errorf("interval.ParseRegion: invalid range %v in %q", rangeStr, region)
		return
	}
	result.Start = start1 - 1
	result.End = end
	return
}
