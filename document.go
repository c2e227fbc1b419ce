// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"bytes"
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"go.uber.org/zap"
)

// Options configures how a Document is created or opened. The zero
// value is a sane default, the same convention the teacher's own
// Options struct follows.
type Options struct {
	// ReserveArray is the spare-capacity hint New passes to OpenArray
	// for the record body. ReserveObject is not read by any constructor
	// or by the Reviser.
	ReserveArray  int
	ReserveObject int

	// ColumnCapacity is not read by the package: every column is opened
	// with the capacity passed explicitly to OpenColumn or
	// Inserter.InsertColumn.
	ColumnCapacity int

	// ColumnGrowthFactor is reserved for a future override of the
	// Insert Engine's ceil((capacity+1)*1.7) column growth rule; every
	// column currently grows by the fixed 1.7 factor regardless of this
	// field's value.
	ColumnGrowthFactor float64

	// KeyKind/Key seed the record header written for a new document.
	// Ignored by OpenBytes/OpenFile, which read the header that is
	// already there.
	KeyKind    RecordKeyKind
	Key        string
	KeyCounter uint64

	// StringDict, MediaTypes, and Printer are the spec §6 collaborator
	// interfaces. All three are optional. The core package stores them
	// on the Document but does not call any of them itself.
	StringDict StringDictionary
	MediaTypes MediaTypeRegistry
	Printer    Printer

	// Logger receives non-fatal diagnostics; currently the only one is a
	// failed unmap in Document.Close. A nil Logger is replaced
	// with zap.NewNop(), the same default-to-silent convention the
	// teacher applies to its own Logger option.
	Logger *zap.Logger

	// ReadOnly opens a file-backed document without write access. It
	// has no effect on OpenBytes, which operates on the caller's slice
	// directly.
	ReadOnly bool
}

func (o *Options) logger() *zap.SugaredLogger {
	if o == nil || o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger.Sugar()
}

// Document is an open carbon document: a record header followed by a
// top-level array body, backed by a ByteFile (C1). It is the type
// every other component ultimately operates beneath.
type Document struct {
	bf     *ByteFile
	header RecordHeader
	body   int // offset of the top-level array opener
	opts   *Options
	log    *zap.SugaredLogger

	f    *os.File
	data mmap.MMap
}

// New creates a fresh, empty in-memory document: a record header (key
// per opts, a freshly generated commit hash) followed by an empty
// top-level array.
func New(opts *Options) *Document {
	if opts == nil {
		opts = &Options{}
	}
	bf := NewByteFile(nil)
	h := RecordHeader{KeyKind: opts.KeyKind, KeyString: opts.Key, KeyCounter: opts.KeyCounter, Commit: NewCommitHash()}
	enc, err := WriteRecordHeader(nil, h)
	if err != nil {
		// KeyKind is caller-supplied and validated by WriteRecordHeader;
		// a fresh document can only fail to encode if the caller passed
		// an out-of-range RecordKeyKind, which is a programming error.
		panic(fmt.Sprintf("carbon: invalid record header: %v", err))
	}
	bf.Write(enc)
	openerOffset := bf.Tell()
	OpenArray(bf, ListUnsortedMultiset, opts.ReserveArray)
	CloseArray(bf)
	return &Document{bf: bf, header: h, body: openerOffset, opts: opts, log: opts.logger()}
}

// OpenBytes parses an existing document out of data, which is taken by
// reference (not copied); callers that need an independent copy must
// clone it first.
func OpenBytes(data []byte, opts *Options) (*Document, error) {
	if opts == nil {
		opts = &Options{}
	}
	bf := NewByteFile(data)
	h, err := ReadRecordHeader(bf)
	if err != nil {
		return nil, err
	}
	body := bf.Tell()
	mb, err := bf.ByteAt(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyDocument, err)
	}
	if !IsArrayOrSubtype(Marker(mb)) {
		return nil, fmt.Errorf("%w: record body must be an array container", ErrMalformedDocument)
	}
	return &Document{bf: bf, header: h, body: body, opts: opts, log: opts.logger()}, nil
}

// OpenFile memory-maps name and parses the document it contains, the
// same way the teacher's pe.New maps a PE image instead of reading it
// into a heap buffer. The map is read-write unless opts.ReadOnly is
// set.
func OpenFile(name string, opts *Options) (*Document, error) {
	if opts == nil {
		opts = &Options{}
	}
	flag := os.O_RDWR
	if opts.ReadOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(name, flag, 0)
	if err != nil {
		return nil, err
	}
	mapFlag := mmap.RDWR
	if opts.ReadOnly {
		mapFlag = mmap.RDONLY
	}
	data, err := mmap.Map(f, mapFlag, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	doc, err := OpenBytes(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	doc.f = f
	doc.data = data
	return doc, nil
}

// Close releases a file-backed document's memory map and descriptor.
// It is a no-op for documents created with New or OpenBytes.
func (d *Document) Close() error {
	if d.data != nil {
		if err := d.data.Unmap(); err != nil {
			d.log.Warnw("unmap failed", "error", err)
		}
		d.data = nil
	}
	if d.f != nil {
		err := d.f.Close()
		d.f = nil
		return err
	}
	return nil
}

// Sync writes the document's current bytes back to its backing file.
// It exists because ByteFile.grow reallocates onto the heap once a
// mutation outgrows the original mmap, silently detaching further
// writes from the file — Sync is the only way such a document's
// changes reach disk. It is a no-op for documents with no backing
// file.
func (d *Document) Sync() error {
	if d.f == nil {
		return nil
	}
	cur := d.bf.Bytes()
	if d.data != nil && len(cur) > 0 && len(d.data) > 0 && len(cur) <= len(d.data) && &cur[0] == &d.data[0] {
		return d.data.Flush()
	}
	if err := d.f.Truncate(0); err != nil {
		return err
	}
	if _, err := d.f.Seek(0, 0); err != nil {
		return err
	}
	_, err := d.f.Write(d.bf.Bytes())
	return err
}

// Header returns the document's decoded record header.
func (d *Document) Header() RecordHeader { return d.header }

// Root returns the absolute offset of the top-level array opener, the
// base offset every path evaluation is relative to.
func (d *Document) Root() int { return d.body }

// Bytes returns the document's full wire encoding. The returned slice
// aliases the document's internal storage.
func (d *Document) Bytes() []byte { return d.bf.Bytes() }

// ByteFile exposes the document's underlying ByteFile for callers that
// need direct C1-C4 access beyond the Reviser facade.
func (d *Document) ByteFile() *ByteFile { return d.bf }

// Reviser returns the path-driven read/write facade (C8) for this
// document's body.
func (d *Document) Reviser() *Reviser { return NewReviser(d.bf, d.body) }

// Body opens an iterator over the document's top-level array. The
// caller must Drop it when done.
func (d *Document) Body() (*ArrayIterator, error) {
	return newRootArrayIterator(d.bf, d.body)
}

// Find evaluates a dot-path against the document's body.
func (d *Document) Find(path string) (FindResult, error) {
	return Find(d.bf, d.body, path)
}

// Equal reports whether d and other encode to byte-identical documents
// — the round-trip identity check the original Jakson/Carbon test
// suite relies on, and the check the Revision Facade could use to
// short-circuit a no-op Set (two successive updates with the same
// value should be indistinguishable from one).
func (d *Document) Equal(other *Document) bool {
	return bytes.Equal(d.bf.Bytes(), other.bf.Bytes())
}
