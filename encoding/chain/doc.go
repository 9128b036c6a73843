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

/*Package chain reads UCSC chain files, the pairwise alignment format used
  by liftOver-style tools to translate coordinates between two genome
  assemblies.

  A chain file is a sequence of chains.  Each chain starts with a header

    chain score tName tSize tStrand tStart tEnd qName qSize qStrand qStart qEnd id

  followed by data lines of the form "size dt dq", the last of which carries
  only "size".  Blank lines (and '#' comments) end a chain.

  Naming: the UCSC "t" side is the assembly the caller's coordinates live in,
  so this package calls it the Source side.  The UCSC "q" side is where
  coordinates are lifted to, and is called the Target side.

  Every data line becomes one Block.  Target ranges on the '-' strand are
  flipped into forward-strand coordinates once, at parse time
  (pos -> size - pos), so consumers never redo strand arithmetic.

  Input may be plain text, gzip (including BGZF), bzip2, xz or framed snappy;
  the format is recognized from the file extension or from the leading magic
  bytes.
*/
package chain
