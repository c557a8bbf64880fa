/*
 * Copyright 2026 The Couchkit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package path provides the addressing of nodes inside a document tree.
package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchkit/couchkit/pkg/errors"
)

// ErrInvalidPath is returned when a path expression cannot be parsed.
var ErrInvalidPath = errors.InvalidArgument("invalid path").WithCode("ErrInvalidPath")

// Segment is a single step of a path: either an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key creates a segment that selects a member of an object.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index creates a segment that selects an element of an array.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex returns whether the segment selects an array element.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Key returns the object key of the segment.
func (s Segment) Key() string {
	return s.key
}

// Index returns the array index of the segment.
func (s Segment) Index() int {
	return s.index
}

// String returns the key, or the decimal index.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path is an ordered list of segments from the document root. The zero value
// is the root path. Paths are values: every operation returns a new path and
// never aliases the segments of its receiver.
type Path struct {
	segments []Segment
}

// New creates a path of the given segments.
func New(segments ...Segment) Path {
	return Path{}.Append(segments...)
}

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// Append returns a new path with the given segments added at the end.
func (p Path) Append(segments ...Segment) Path {
	if len(segments) == 0 {
		return p
	}

	next := make([]Segment, 0, len(p.segments)+len(segments))
	next = append(next, p.segments...)
	next = append(next, segments...)
	return Path{segments: next}
}

// Parent returns the path without its last segment. It returns false for the
// root path, which has no parent.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Path{}, false
	}
	return Path{segments: p.segments[:len(p.segments)-1:len(p.segments)-1]}, true
}

// Root returns the root path.
func (p Path) Root() Path {
	return Path{}
}

// Last returns the last segment. It returns false for the root path.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// IsRoot returns whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	segments := make([]Segment, len(p.segments))
	copy(segments, p.segments)
	return segments
}

// Equal compares two paths segment by segment.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// String renders the path as "data.items[2].name". The root path renders as
// an empty string.
func (p Path) String() string {
	sb := strings.Builder{}
	for i, s := range p.segments {
		if s.isIndex {
			sb.WriteString(fmt.Sprintf("[%d]", s.index))
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(s.key)
	}
	return sb.String()
}

// Pointer renders the path as a JSON Pointer (RFC 6901).
func (p Path) Pointer() string {
	sb := strings.Builder{}
	for _, s := range p.segments {
		sb.WriteString("/")
		if s.isIndex {
			sb.WriteString(strconv.Itoa(s.index))
			continue
		}
		sb.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(s.key))
	}
	return sb.String()
}

// Parse parses a path rendered by String, e.g. "data.items[2].name".
// Keys cannot contain '.', '[' or ']'.
func Parse(expr string) (Path, error) {
	p := Path{}
	if expr == "" {
		return p, nil
	}

	for i, part := range strings.Split(expr, ".") {
		name, rest, hasIndex := strings.Cut(part, "[")
		if name == "" && (i > 0 || !hasIndex) {
			return Path{}, fmt.Errorf("%q: empty key: %w", expr, ErrInvalidPath)
		}
		if hasIndex && rest == "" {
			return Path{}, fmt.Errorf("%q: missing index: %w", expr, ErrInvalidPath)
		}
		if name != "" {
			if strings.Contains(name, "]") {
				return Path{}, fmt.Errorf("%q: unexpected ']': %w", expr, ErrInvalidPath)
			}
			p.segments = append(p.segments, Key(name))
		}

		for hasIndex {
			digits, after, ok := strings.Cut(rest, "]")
			if !ok {
				return Path{}, fmt.Errorf("%q: missing ']': %w", expr, ErrInvalidPath)
			}
			index, err := strconv.Atoi(digits)
			if err != nil || index < 0 {
				return Path{}, fmt.Errorf("%q: bad index %q: %w", expr, digits, ErrInvalidPath)
			}
			p.segments = append(p.segments, Index(index))

			if after == "" {
				hasIndex = false
				continue
			}
			if !strings.HasPrefix(after, "[") {
				return Path{}, fmt.Errorf("%q: unexpected %q: %w", expr, after, ErrInvalidPath)
			}
			rest = after[1:]
		}
	}

	return p, nil
}
