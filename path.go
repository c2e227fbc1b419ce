// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"strconv"
	"strings"
)

// PathSegment is one dot-separated component of a path: either an
// object key lookup or a numeric positional index into an array,
// column, or promoted column.
type PathSegment struct {
	Key     string
	IsIndex bool
	Index   int
}

// ParsePath splits a dot-path into its segments. A segment consisting
// entirely of decimal digits is treated as a positional index;
// everything else is an object key, taken literally (no escaping is
// defined — a key containing a literal dot cannot be addressed by a
// path and must be reached by manual iteration instead).
func ParsePath(path string) ([]PathSegment, error) {
	if path == "" {
		return nil, ErrDotPathParse
	}
	parts := strings.Split(path, ".")
	segs := make([]PathSegment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, ErrDotPathParse
		}
		if n, err := strconv.Atoi(p); err == nil && p[0] >= '0' && p[0] <= '9' {
			segs = append(segs, PathSegment{IsIndex: true, Index: n})
			continue
		}
		segs = append(segs, PathSegment{Key: p})
	}
	return segs, nil
}

func (s PathSegment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}
