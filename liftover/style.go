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
package liftover

import (
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/liftover/interval"
)

// ChromStyle controls how output chromosome names are spelled.
type ChromStyle uint8

const (
	// AsIs mirrors the query's "chr" convention onto target names.
	AsIs ChromStyle = iota
	// Short strips "chr": "chr1" -> "1".
	Short
	// Long adds "chr": "1" -> "chr1".  An existing prefix is lower-cased.
	Long
)

func (s ChromStyle) String() string {
	switch s {
	case AsIs:
		return "asis"
	case Short:
		return "short"
	case Long:
		return "long"
	}
	return "unknown"
}

// ParseChromStyle parses a -chrom-style flag value.
func ParseChromStyle(s string) (ChromStyle, error) {
	switch strings.ToLower(s) {
	case "asis", "as_is", "as-is", "":
		return AsIs, nil
	case "short", "s":
		return Short, nil
	case "long", "l":
		return Long, nil
	}
	return AsIs, errors.E(errors.Invalid, "unknown chromosome style", s)
}

// CompatMode selects edge-case behavior.  Strict is reserved for
// reproducing another liftover tool's results exactly; no mapping path
// currently distinguishes the two modes.
type CompatMode uint8

const (
	Improved CompatMode = iota
	Strict
)

func (m CompatMode) String() string {
	if m == Strict {
		return "strict"
	}
	return "improved"
}

// ParseCompatMode parses a -compat flag value.
func ParseCompatMode(s string) (CompatMode, error) {
	switch strings.ToLower(s) {
	case "improved", "default", "":
		return Improved, nil
	case "strict", "crossmap":
		return Strict, nil
	}
	return Improved, errors.E(errors.Invalid, "unknown compatibility mode", s)
}

// UpdateChromID respells chrom for style.  AsIs returns chrom unchanged.
func UpdateChromID(chrom string, style ChromStyle) string {
	switch style {
	case Short:
		if interval.HasChrPrefix(chrom) {
			return chrom[3:]
		}
	case Long:
		if interval.HasChrPrefix(chrom) {
			return "chr" + chrom[3:]
		}
		return "chr" + chrom
	}
	return chrom
}

// asIsChrom gives target the same "chr" convention as query.
func asIsChrom(query, target string) string {
	queryChr, targetChr := interval.HasChrPrefix(query), interval.HasChrPrefix(target)
	switch {
	case queryChr && !targetChr:
		return "chr" + target
	case !queryChr && targetChr:
		return target[3:]
	}
	return target
}

// NormalizeChrom returns a comparison key for chrom: "chr" stripped,
// upper-cased, and M spelled MT.
func NormalizeChrom(chrom string) string {
	if interval.HasChrPrefix(chrom) {
		chrom = chrom[3:]
	}
	chrom = strings.ToUpper(chrom)
	if chrom == "M" {
		return "MT"
	}
	return chrom
}

// ChromsEquivalent reports whether a and b name the same chromosome, e.g.
// "chrM" and "MT".
func ChromsEquivalent(a, b string) bool {
	return NormalizeChrom(a) == NormalizeChrom(b)
}
