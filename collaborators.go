// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

// StringDictionary is the collaborator interface spec §6 carves out for
// record-key encoding and archive export; the core never calls it
// during ordinary document read/write. A reference implementation
// backed by a bloom filter and an id cache lives in package stringdict.
type StringDictionary interface {
	Insert(strs []string) ([]uint64, error)
	Extract(ids []uint64) ([]string, error)
	Locate(strs []string) (ids []uint64, found []bool, err error)
	Remove(ids []uint64) error
}

// MediaTypeRegistry resolves the numeric MIME id a binary field's
// header carries to and from its textual name. The core package does
// not call it: binary fields are neither encoded nor rendered through
// a registry lookup. A reference implementation lives in package
// mediatype.
type MediaTypeRegistry interface {
	Name(id uint64) (string, bool)
	ID(name string) (uint64, bool)
}

// Printer is a visitor interface for to_json-style rendering.
// Implementations own their own output buffer. The core package has no
// rendering routine and does not drive a Printer; a caller walks the
// document with the iterators and invokes the callbacks itself.
// A reference implementation lives in package carbonjson.
type Printer interface {
	BeginRecord()
	EndRecord()
	BeginObject()
	EndObject()
	BeginArray()
	EndArray()
	Key(name string)
	ScalarNull()
	ScalarBool(v bool)
	ScalarUint(v uint64)
	ScalarInt(v int64)
	ScalarFloat(v float32)
	ScalarString(v string)
	ScalarBinary(mimeName string, data []byte)
}
