// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package carbonjson is a reference implementation of carbon.Printer:
// it renders the visitor callbacks the core drives during to_json-style
// traversal as JSON text.
//
// The output buffer is pooled with valyala/bytebufferpool the way
// rpcpool-yellowstone-faithful's bucketteer reader pools its read
// buffer, avoiding an allocation per render call. binary_custom fields
// tagged "utf16" decode through golang.org/x/text/encoding/unicode as
// little-endian UTF-16 with any byte-order mark ignored
// (unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)), so a document
// produced by embedding a PE-derived UTF-16 string round-trips as
// ordinary JSON text instead of an escaped byte dump.
package carbonjson

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/encoding/unicode"
)

// Printer renders carbon.Printer callbacks as JSON text into a pooled
// buffer. The zero value is not usable; construct with New.
type Printer struct {
	buf        *bytebufferpool.ByteBuffer
	needsComma []bool
}

// New returns a Printer with a freshly borrowed output buffer.
func New() *Printer {
	return &Printer{buf: bytebufferpool.Get()}
}

// String returns the JSON text rendered so far.
func (p *Printer) String() string { return p.buf.String() }

// Release returns the Printer's buffer to the pool. The Printer must
// not be used afterwards.
func (p *Printer) Release() {
	bytebufferpool.Put(p.buf)
	p.buf = nil
}

func (p *Printer) comma() {
	n := len(p.needsComma)
	if n == 0 {
		return
	}
	if p.needsComma[n-1] {
		p.buf.WriteByte(',')
	} else {
		p.needsComma[n-1] = true
	}
}

func (p *Printer) push() { p.needsComma = append(p.needsComma, false) }
func (p *Printer) pop()  { p.needsComma = p.needsComma[:len(p.needsComma)-1] }

// BeginRecord and EndRecord bracket the whole render; carbonjson emits
// no record-level wrapper of its own, since a record's body is either
// an object or an array and prints exactly as one.
func (p *Printer) BeginRecord() {}
func (p *Printer) EndRecord()   {}

func (p *Printer) BeginObject() {
	p.comma()
	p.buf.WriteByte('{')
	p.push()
}

func (p *Printer) EndObject() {
	p.pop()
	p.buf.WriteByte('}')
}

func (p *Printer) BeginArray() {
	p.comma()
	p.buf.WriteByte('[')
	p.push()
}

func (p *Printer) EndArray() {
	p.pop()
	p.buf.WriteByte(']')
}

func (p *Printer) Key(name string) {
	p.comma()
	p.writeQuoted(name)
	p.buf.WriteByte(':')
	// the value that follows must not itself see the object's comma
	// state a second time
	p.needsComma[len(p.needsComma)-1] = false
}

func (p *Printer) ScalarNull() {
	p.comma()
	p.buf.WriteString("null")
}

func (p *Printer) ScalarBool(v bool) {
	p.comma()
	if v {
		p.buf.WriteString("true")
	} else {
		p.buf.WriteString("false")
	}
}

func (p *Printer) ScalarUint(v uint64) {
	p.comma()
	p.buf.WriteString(strconv.FormatUint(v, 10))
}

func (p *Printer) ScalarInt(v int64) {
	p.comma()
	p.buf.WriteString(strconv.FormatInt(v, 10))
}

func (p *Printer) ScalarFloat(v float32) {
	p.comma()
	p.buf.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
}

func (p *Printer) ScalarString(v string) {
	p.comma()
	p.writeQuoted(v)
}

// ScalarBinary renders a binary field as a base64-agnostic JSON string:
// a field tagged "utf16" is decoded through the UTF-16LE decoder before
// quoting; everything else quotes its raw bytes read as UTF-8 text
// (invalid sequences become U+FFFD), since carbon does not mandate a
// binary encoding for arbitrary MIME types.
func (p *Printer) ScalarBinary(mimeName string, data []byte) {
	p.comma()
	if mimeName == "utf16" {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		if s, err := decoder.Bytes(data); err == nil {
			p.writeQuoted(string(s))
			return
		}
	}
	p.writeQuoted(string(data))
}

func (p *Printer) writeQuoted(s string) {
	p.buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			p.buf.WriteString(`\"`)
		case '\\':
			p.buf.WriteString(`\\`)
		case '\n':
			p.buf.WriteString(`\n`)
		case '\t':
			p.buf.WriteString(`\t`)
		default:
			p.buf.WriteRune(r)
		}
	}
	p.buf.WriteByte('"')
}
