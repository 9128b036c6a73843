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
package chain

// Strand is a sequence orientation.  The zero value is Plus.
type Strand int8

const (
	// Plus is the forward strand.
	Plus Strand = iota
	// Minus is the reverse strand.
	Minus
)

// ParseStrand converts '+' or '-'.  ok is false for any other byte.
func ParseStrand(b byte) (s Strand, ok bool) {
	switch b {
	case '+':
		return Plus, true
	case '-':
		return Minus, true
	}
	return Plus, false
}

// Complement returns the opposite strand.
func (s Strand) Complement() Strand {
	if s == Minus {
		return Plus
	}
	return Minus
}

// Combine returns the orientation of a feature on strand s after it passes
// through an alignment on strand other: same strands give Plus, different
// strands give Minus.
func (s Strand) Combine(other Strand) Strand {
	if s == other {
		return Plus
	}
	return Minus
}

// Byte returns '+' or '-'.
func (s Strand) Byte() byte {
	if s == Minus {
		return '-'
	}
	return '+'
}

func (s Strand) String() string {
	if s == Minus {
		return "-"
	}
	return "+"
}
