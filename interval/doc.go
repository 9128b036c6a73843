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

/*Package interval indexes the alignment blocks of a chain file by source
  chromosome for overlap queries.

  Unlike a BED interval-union, blocks are tracked separately: two chains may
  align the same source bases to different places, and a query must see
  both.  Each chromosome gets an augmented interval tree
  (github.com/biogo/store/interval), so a query costs O(log n + k) for k
  hits.

  Chromosome names are resolved leniently: "chr1", "1", "CHR1" and "Chr1"
  all reach the same blocks.  Only case and the "chr" prefix are considered
  here; semantic aliases such as chrM/MT are left to callers.

  A ChainIndex is immutable once built and may be queried from any number of
  goroutines without locking.
*/
package interval
