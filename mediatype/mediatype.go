// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package mediatype is a reference implementation of
// carbon.MediaTypeRegistry: a small bidirectional table mapping a
// binary field's numeric MIME id to its textual name.
//
// This is deliberately built on the standard library only. A registry
// is a closed, in-process bidirectional map lookup guarded by a
// sync.RWMutex, with no persistence or parsing concern of its own — none of the retrieval
// pack's third-party libraries (bloom filters, TTL caches, codecs) are
// grounded in anything this component actually needs, so reaching for
// one would add a dependency with no job to do.
package mediatype

import "sync"

// Well-known ids, mirroring the small built-in table the original
// Jakson/Carbon media-type registry seeds itself with.
const (
	Unknown = iota
	OctetStream
	TextPlain
	ApplicationJSON
	ApplicationUTF16
)

var builtin = map[uint64]string{
	Unknown:          "application/x-unknown",
	OctetStream:      "application/octet-stream",
	TextPlain:        "text/plain",
	ApplicationJSON:  "application/json",
	ApplicationUTF16: "text/plain; charset=utf-16",
}

// Registry is a bidirectional MIME id <-> name table. Create one with
// New, which seeds it with the well-known ids; the zero value has no
// maps and is not ready to use.
type Registry struct {
	mu       sync.RWMutex
	byID     map[uint64]string
	byName   map[string]uint64
	nextFree uint64
}

// New returns a Registry pre-populated with the well-known ids.
func New() *Registry {
	r := &Registry{
		byID:     make(map[uint64]string, len(builtin)),
		byName:   make(map[string]uint64, len(builtin)),
		nextFree: uint64(len(builtin)),
	}
	for id, name := range builtin {
		r.byID[id] = name
		r.byName[name] = id
	}
	return r
}

// Name resolves id to its textual name.
func (r *Registry) Name(id uint64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byID[id]
	return name, ok
}

// ID resolves name to its numeric id, registering it with a freshly
// allocated id if it has not been seen before.
func (r *Registry) ID(name string) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[name]; ok {
		return id, true
	}
	id := r.nextFree
	r.nextFree++
	r.byName[name] = id
	r.byID[id] = name
	return id, true
}
