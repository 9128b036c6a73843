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

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// InvalidHeader is a malformed "chain ..." line.
	InvalidHeader ErrorKind = iota
	// InvalidDataLine is a data line with the wrong shape, a zero block size,
	// or no enclosing chain.
	InvalidDataLine
	// InvalidStrand is a strand field other than '+' or '-'.
	InvalidStrand
	// InvalidNumber is a numeric field that is not a non-negative integer.
	InvalidNumber
	// InvalidCoordinates is a range violating start <= end <= size.
	InvalidCoordinates
	// UnexpectedEOF is input that ends in the middle of a chain or of a
	// compressed stream.
	UnexpectedEOF
	// IOError is a read or open failure other than a missing file.
	IOError
	// FileNotFound is a chain path that does not exist.
	FileNotFound
	// UnsupportedCompression is a recognized but unsupported compression
	// format.
	UnsupportedCompression
)

var kindNames = [...]string{
	InvalidHeader:          "InvalidHeader",
	InvalidDataLine:        "InvalidDataLine",
	InvalidStrand:          "InvalidStrand",
	InvalidNumber:          "InvalidNumber",
	InvalidCoordinates:     "InvalidCoordinates",
	UnexpectedEOF:          "UnexpectedEOF",
	IOError:                "IOError",
	FileNotFound:           "FileNotFound",
	UnsupportedCompression: "UnsupportedCompression",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// maxContentLen bounds ParseError.Content, in characters.
const maxContentLen = 100

// ParseError describes why a chain file could not be loaded.  Parsing stops
// at the first error.
type ParseError struct {
	Kind ErrorKind
	// Line is the 1-based line number, or 0 if the error is not tied to a
	// line (e.g. the file could not be opened).
	Line int
	Msg  string
	// Content is a prefix of the offending line, if any.
	Content string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("chain: line %d: %s", e.Line, e.Msg)
	}
	return "chain: " + e.Msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether err is a *ParseError of the given kind.
func Is(kind ErrorKind, err error) bool {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}

func newError(kind ErrorKind, line int, content []byte, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    kind,
		Line:    line,
		Msg:     fmt.Sprintf(format, args...),
		Content: truncateContent(content),
	}
}

func truncateContent(content []byte) string {
	if utf8.RuneCount(content) <= maxContentLen {
		return string(content)
	}
	n := 0
	for i := range string(content) {
		if n == maxContentLen {
			return string(content[:i])
		}
		n++
	}
	return string(content)
}
