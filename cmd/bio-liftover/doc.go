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

/*
bio-liftover converts BED-like intervals from one genome assembly to another
through a UCSC chain file (plain, gzip, bzip2, xz or snappy).

Input lines are "chrom start end [name [score [strand]]]" with 0-based
half-open coordinates; a 4-column line may give the strand in column 4.
Lines starting with '#', "track" or "browser" are skipped.

In the default region mode each input line yields at most one output line:
the input fields followed by the lifted chrom, start, end, strand and the
aligned fraction.  Intervals whose aligned fraction is below -min-ratio,
which land on several chromosomes, or which do not map at all are written to
the -unmapped file with the failure reason.

With -mode=segments every chain block overlapping an input interval yields
one output line (source chrom, start, end, strand, then target chrom, start,
end, strand); the input is mapped on -parallelism goroutines.

Sample usage:
bio-liftover \
    --chrom-style long \
    --out lifted.bed \
    hg19ToHg38.over.chain.gz \
    input.bed

bio-liftover --region chr1:1,000,001-1,000,100 hg19ToHg38.over.chain.gz
*/
package main
