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
	"strings"

	"github.com/antzucaro/matchr"
)

// HasChrPrefix reports whether chrom starts with "chr" in any case, followed
// by at least one more character.
func HasChrPrefix(chrom string) bool {
	return len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr")
}

// aliasKey lower-cases chrom and strips a leading "chr".  It is the key of
// ChainIndex.aliases.
func aliasKey(chrom string) string {
	lower := strings.ToLower(chrom)
	if strings.HasPrefix(lower, "chr") {
		return lower[3:]
	}
	return lower
}

// nameVariants lists the literal spellings tried after the alias table
// misses.
func nameVariants(chrom string) []string {
	variants := make([]string, 0, 5)
	for _, prefix := range []string{"chr", "Chr", "CHR"} {
		if strings.HasPrefix(chrom, prefix) {
			variants = append(variants, chrom[len(prefix):])
		}
	}
	return append(variants, "chr"+chrom, "Chr"+chrom)
}

// maxSuggestDistance bounds the edit distance of a SuggestChrom result.
const maxSuggestDistance = 2

// SuggestChrom returns the source chromosome whose alias key is nearest to
// chrom's in Levenshtein distance, for "did you mean" messages.  Ties go to
// the name that sorts first.  It returns false if chrom resolves, or if no
// name is within maxSuggestDistance edits.
func (idx *ChainIndex) SuggestChrom(chrom string) (string, bool) {
	if idx.HasChrom(chrom) {
		return "", false
	}
	key := aliasKey(chrom)
	best, bestDist := "", maxSuggestDistance+1
	for _, name := range idx.SourceChroms() {
		if d := matchr.Levenshtein(key, aliasKey(name)); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, best != ""
}
