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
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// TargetSAMHeader returns a SAM header whose references are the target
// assembly's chromosomes, sorted by name and spelled per the Mapper's style
// (AsIs keeps the chain file's spelling).  Names that collide after
// respelling are emitted once.
func (m *Mapper) TargetSAMHeader() (*sam.Header, error) {
	sizes := m.idx.TargetSizes()
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	refs := make([]*sam.Reference, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		outName := UpdateChromID(name, m.opts.Style)
		if seen[outName] {
			continue
		}
		seen[outName] = true
		ref, err := sam.NewReference(outName, "", "", int(sizes[name]), nil, nil)
		if err != nil {
			return nil, errors.E(err, "target chromosome", name)
		}
		refs = append(refs, ref)
	}
	return sam.NewHeader(nil, refs)
}
