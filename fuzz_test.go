// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "testing"

// FuzzOpenBytes replaces the teacher's go-fuzz-driven Fuzz(data []byte)
// entry point with the native testing/fuzz harness: OpenBytes must
// never panic on arbitrary input, only return an error.
func FuzzOpenBytes(f *testing.F) {
	seed := New(nil)
	f.Add(seed.Bytes())
	f.Add([]byte{})
	f.Add([]byte{0x02, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := OpenBytes(data, nil)
		if err != nil {
			return
		}
		_ = doc.Header()
		body, err := doc.Body()
		if err != nil {
			return
		}
		defer body.Drop()
		for {
			if more, err := body.HasNext(); err != nil || !more {
				return
			}
			if _, err := body.Next(); err != nil {
				return
			}
			ft, err := body.FieldType()
			if err != nil {
				return
			}
			switch ft {
			case FieldArray, FieldObject, FieldColumn:
				continue
			default:
				_, _ = body.Value()
			}
		}
	})
}

// FuzzFind exercises the path evaluator against arbitrary documents and
// arbitrary path strings; it must never panic.
func FuzzFind(f *testing.F) {
	seed := New(nil)
	f.Add(seed.Bytes(), "0")
	f.Add(seed.Bytes(), "a.b.0")

	f.Fuzz(func(t *testing.T, data []byte, path string) {
		doc, err := OpenBytes(data, nil)
		if err != nil {
			return
		}
		_, _ = doc.Find(path)
	})
}
