// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"fmt"

	"github.com/google/uuid"
)

// RecordKeyKind is the first byte of a document's record header,
// naming how (or whether) the record carries its own key.
type RecordKeyKind byte

const (
	// KeyNone means the record carries no key of its own; the embedder
	// addresses it some other way (e.g. a filename).
	KeyNone RecordKeyKind = iota
	// KeyAutoIncrement means the key payload is an 8-byte little-endian
	// counter value assigned by the embedder.
	KeyAutoIncrement
	// KeyString means the key payload is a length-prefixed string.
	KeyString
)

func (k RecordKeyKind) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyAutoIncrement:
		return "auto-increment"
	case KeyString:
		return "string"
	default:
		return "unknown"
	}
}

// CommitHash is the 8-byte value every record header carries after its
// key, used to detect whether an embedder's cached copy of a document
// is stale. carbon never interprets it beyond equality comparison.
type CommitHash [8]byte

// NewCommitHash derives a CommitHash from a fresh random UUID,
// truncated to its first 8 bytes — enough entropy to make accidental
// collisions between sibling documents implausible without paying for
// a full 16-byte field in every header.
func NewCommitHash() CommitHash {
	var h CommitHash
	id := uuid.New()
	copy(h[:], id[:8])
	return h
}

// RecordHeader is the decoded form of the bytes spec §6 places before a
// document's top-level array opener: a key-kind byte, an optional key
// payload, and a commit hash.
type RecordHeader struct {
	KeyKind    RecordKeyKind
	KeyString  string // meaningful when KeyKind == KeyString
	KeyCounter uint64 // meaningful when KeyKind == KeyAutoIncrement
	Commit     CommitHash
}

// WriteRecordHeader appends h's wire encoding to dst and returns the
// result.
func WriteRecordHeader(dst []byte, h RecordHeader) ([]byte, error) {
	dst = append(dst, byte(h.KeyKind))
	switch h.KeyKind {
	case KeyNone:
	case KeyAutoIncrement:
		buf := make([]byte, 8)
		for i := 0; i < 8; i++ {
			buf[i] = byte(h.KeyCounter >> (8 * i))
		}
		dst = append(dst, buf...)
	case KeyString:
		dst = appendVaruint(dst, uint64(len(h.KeyString)))
		dst = append(dst, h.KeyString...)
	default:
		return nil, fmt.Errorf("%w: unknown record key kind %d", ErrInternal, h.KeyKind)
	}
	return append(dst, h.Commit[:]...), nil
}

// ReadRecordHeader decodes the record header starting at the cursor of
// bf and advances the cursor to the offset of the top-level array
// opener that follows it.
func ReadRecordHeader(bf *ByteFile) (RecordHeader, error) {
	kindByte, err := bf.Read(1)
	if err != nil {
		return RecordHeader{}, err
	}
	h := RecordHeader{KeyKind: RecordKeyKind(kindByte[0])}
	switch h.KeyKind {
	case KeyNone:
	case KeyAutoIncrement:
		buf, err := bf.Read(8)
		if err != nil {
			return RecordHeader{}, err
		}
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(buf[i]) << (8 * i)
		}
		h.KeyCounter = v
	case KeyString:
		n, err := bf.ReadVaruint()
		if err != nil {
			return RecordHeader{}, err
		}
		data, err := bf.Read(int(n))
		if err != nil {
			return RecordHeader{}, err
		}
		h.KeyString = string(data)
	default:
		return RecordHeader{}, fmt.Errorf("%w: unknown record key kind %d", ErrMalformedDocument, h.KeyKind)
	}
	commit, err := bf.Read(8)
	if err != nil {
		return RecordHeader{}, err
	}
	copy(h.Commit[:], commit)
	return h, nil
}
