// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"fmt"
)

// maxVaruintBytes is the widest a varuint encoding of a u64 can get: seven
// payload bits per byte, ten bytes cover 70 bits which is enough slack for
// every u64 value.
const maxVaruintBytes = 10

// ByteFile is a growable byte buffer with a single movable read/write
// position, the foundation every other carbon component builds on (C1).
// All offsets are absolute byte positions from the start of the buffer.
//
// ByteFile is not safe for concurrent use; carbon serialises access to a
// document's ByteFile through the per-container lock tokens held by
// iterators (see iterator.go).
type ByteFile struct {
	buf    []byte
	pos    int
	saved  []int
	locked map[int]bool
}

// NewByteFile wraps buf as the backing store of a new ByteFile. The cursor
// starts at offset zero. buf is taken by reference; callers that need an
// independent copy must clone it first.
func NewByteFile(buf []byte) *ByteFile {
	if buf == nil {
		buf = make([]byte, 0, 64)
	}
	return &ByteFile{buf: buf}
}

// Bytes returns the full backing buffer. The slice aliases ByteFile's
// internal storage; callers must not retain it across further mutation.
func (bf *ByteFile) Bytes() []byte { return bf.buf }

// Size returns the total number of bytes currently in the buffer.
func (bf *ByteFile) Size() int { return len(bf.buf) }

// Tell returns the current absolute cursor position.
func (bf *ByteFile) Tell() int { return bf.pos }

// Seek moves the cursor to an absolute offset. Seeking past the end of the
// buffer is permitted; it is the caller's responsibility to EnsureSpace
// before writing there.
func (bf *ByteFile) Seek(absolute int) {
	bf.pos = absolute
}

// SeekRelative moves the cursor by delta bytes, which may be negative.
func (bf *ByteFile) SeekRelative(delta int) {
	bf.pos += delta
}

// SeekToEnd moves the cursor to the end of the buffer.
func (bf *ByteFile) SeekToEnd() {
	bf.pos = len(bf.buf)
}

// SavePosition pushes the current cursor onto a LIFO stack for later
// restoration. Saves nest; every save must be matched by a restore on
// every exit path of the caller.
func (bf *ByteFile) SavePosition() {
	bf.saved = append(bf.saved, bf.pos)
}

// RestorePosition pops the most recently saved cursor and seeks there.
// Restoring with an empty save stack is a usage error.
func (bf *ByteFile) RestorePosition() error {
	n := len(bf.saved)
	if n == 0 {
		return ErrNoSavedPosition
	}
	bf.pos = bf.saved[n-1]
	bf.saved = bf.saved[:n-1]
	return nil
}

// grow extends the buffer so that it is at least n bytes long, padding
// with zero bytes. It never truncates.
func (bf *ByteFile) grow(n int) {
	if n <= len(bf.buf) {
		return
	}
	if n <= cap(bf.buf) {
		bf.buf = bf.buf[:n]
		return
	}
	next := make([]byte, n)
	copy(next, bf.buf)
	bf.buf = next
}

// EnsureSpace grows the buffer if fewer than n bytes remain after the
// cursor, so that a subsequent Write of n bytes at the current position
// will not need to reallocate mid-write.
func (bf *ByteFile) EnsureSpace(n int) {
	bf.grow(bf.pos + n)
}

// Read returns the n bytes starting at the cursor and advances the cursor
// past them. The returned slice aliases the buffer.
func (bf *ByteFile) Read(n int) ([]byte, error) {
	b, err := bf.Peek(n)
	if err != nil {
		return nil, err
	}
	bf.pos += n
	return b, nil
}

// Peek returns the n bytes starting at the cursor without advancing it.
func (bf *ByteFile) Peek(n int) ([]byte, error) {
	if n < 0 || bf.pos < 0 || bf.pos+n > len(bf.buf) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrMalformedDocument, n, bf.pos, len(bf.buf))
	}
	return bf.buf[bf.pos : bf.pos+n], nil
}

// PeekByte returns the single byte at the cursor without advancing it.
func (bf *ByteFile) PeekByte() (byte, error) {
	b, err := bf.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Write writes bytes at the cursor, growing the buffer as needed, and
// advances the cursor past them. Bytes already present at the target
// offsets are overwritten in place; nothing shifts.
func (bf *ByteFile) Write(b []byte) {
	bf.grow(bf.pos + len(b))
	copy(bf.buf[bf.pos:], b)
	bf.pos += len(b)
}

// WriteByte writes a single byte at the cursor and advances past it.
func (bf *ByteFile) WriteByte(b byte) {
	bf.Write([]byte{b})
}

// InplaceInsert opens n bytes at the cursor, shifting the tail right, and
// returns the newly opened (zeroed) region for the caller to fill. The
// cursor is left at the start of the opened region. Any offset recorded
// by a caller for a position at or after the cursor is invalidated by n
// bytes; callers must save-position first or apply the known delta.
func (bf *ByteFile) InplaceInsert(n int) []byte {
	if n <= 0 {
		return bf.buf[bf.pos:bf.pos]
	}
	end := len(bf.buf)
	bf.grow(end + n)
	copy(bf.buf[bf.pos+n:], bf.buf[bf.pos:end])
	region := bf.buf[bf.pos : bf.pos+n]
	for i := range region {
		region[i] = 0
	}
	return region
}

// InplaceRemove closes n bytes at the cursor, shifting the tail left and
// shrinking the buffer by n. The cursor is unchanged (it now points at
// whatever followed the removed span).
func (bf *ByteFile) InplaceRemove(n int) {
	if n <= 0 {
		return
	}
	if bf.pos+n > len(bf.buf) {
		n = len(bf.buf) - bf.pos
	}
	copy(bf.buf[bf.pos:], bf.buf[bf.pos+n:])
	bf.buf = bf.buf[:len(bf.buf)-n]
}

// Lock acquires the per-container spinlock for the container whose
// opener sits at offset. It is the mechanism behind spec §5's "an
// iterator holds an exclusive spinlock on its container from
// construction until drop": acquiring twice for the same offset without
// an intervening Unlock is a usage error, since the model is
// single-threaded cooperative and a double-lock always indicates two
// live iterators over the same container.
func (bf *ByteFile) Lock(offset int) error {
	if bf.locked == nil {
		bf.locked = make(map[int]bool)
	}
	if bf.locked[offset] {
		return fmt.Errorf("%w: container at offset %d is already locked by another iterator", ErrInternal, offset)
	}
	bf.locked[offset] = true
	return nil
}

// Unlock releases the per-container spinlock acquired by Lock.
func (bf *ByteFile) Unlock(offset int) {
	delete(bf.locked, offset)
}

// SetByteAt overwrites the single byte at an absolute offset without
// touching the cursor. Used for in-place marker rewrites (e.g.
// UpdateType) where no resize is involved.
func (bf *ByteFile) SetByteAt(offset int, b byte) error {
	if offset < 0 || offset >= len(bf.buf) {
		return fmt.Errorf("%w: offset %d out of range (size %d)", ErrMalformedDocument, offset, len(bf.buf))
	}
	bf.buf[offset] = b
	return nil
}

// ByteAt returns the single byte at an absolute offset without touching
// the cursor.
func (bf *ByteFile) ByteAt(offset int) (byte, error) {
	if offset < 0 || offset >= len(bf.buf) {
		return 0, fmt.Errorf("%w: offset %d out of range (size %d)", ErrMalformedDocument, offset, len(bf.buf))
	}
	return bf.buf[offset], nil
}

// SliceAt returns the n bytes starting at an absolute offset without
// touching the cursor. The returned slice aliases the buffer.
func (bf *ByteFile) SliceAt(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(bf.buf) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrMalformedDocument, n, offset, len(bf.buf))
	}
	return bf.buf[offset : offset+n], nil
}

// VaruintAt decodes a varuint at an absolute offset without touching the
// cursor, returning the value and the number of bytes it occupied.
func (bf *ByteFile) VaruintAt(offset int) (value uint64, width int, err error) {
	return bf.peekVaruintAt(offset)
}

// --- varuint support -------------------------------------------------
//
// Each byte carries seven payload bits plus one continuation bit in the
// high position; the value is the little-endian concatenation of payload
// bits up to and including the first byte with the continuation bit
// cleared. Maximum encoded width is ten bytes (covers u64).

func varuintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

func appendVaruint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

func decodeVaruint(b []byte) (value uint64, n int, err error) {
	var shift uint
	for i := 0; i < len(b) && i < maxVaruintBytes; i++ {
		c := b[i]
		value |= uint64(c&0x7F) << shift
		if c&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("%w: truncated or oversized varuint", ErrMalformedDocument)
}

// WriteVaruint appends v as a varuint at the cursor and advances past it.
func (bf *ByteFile) WriteVaruint(v uint64) {
	buf := make([]byte, 0, maxVaruintBytes)
	buf = appendVaruint(buf, v)
	bf.Write(buf)
}

// ReadVaruint decodes the varuint at the cursor and advances past it.
func (bf *ByteFile) ReadVaruint() (uint64, error) {
	v, n, err := bf.peekVaruintAt(bf.pos)
	if err != nil {
		return 0, err
	}
	bf.pos += n
	return v, nil
}

// PeekVaruint decodes the varuint at the cursor without advancing it.
func (bf *ByteFile) PeekVaruint() (uint64, error) {
	v, _, err := bf.peekVaruintAt(bf.pos)
	return v, err
}

// SkipVaruint advances the cursor past the varuint at the current
// position without returning its value.
func (bf *ByteFile) SkipVaruint() error {
	_, n, err := bf.peekVaruintAt(bf.pos)
	if err != nil {
		return err
	}
	bf.pos += n
	return nil
}

func (bf *ByteFile) peekVaruintAt(offset int) (value uint64, n int, err error) {
	limit := len(bf.buf) - offset
	if limit <= 0 {
		return 0, 0, fmt.Errorf("%w: varuint at offset %d out of range", ErrMalformedDocument, offset)
	}
	if limit > maxVaruintBytes {
		limit = maxVaruintBytes
	}
	return decodeVaruint(bf.buf[offset : offset+limit])
}

// UpdateVaruint rewrites the varuint at the cursor with v, which may take
// a different encoded width than the value currently there. It returns
// the signed byte-count delta applied to the buffer (positive if the new
// encoding is longer) so callers can adjust any offsets they are tracking
// past this point. The cursor is left at the same logical position (the
// start of the rewritten varuint).
func (bf *ByteFile) UpdateVaruint(v uint64) (int, error) {
	start := bf.pos
	_, oldLen, err := bf.peekVaruintAt(start)
	if err != nil {
		return 0, err
	}
	newLen := varuintLen(v)
	delta := newLen - oldLen
	switch {
	case delta > 0:
		bf.pos = start
		bf.InplaceInsert(delta)
	case delta < 0:
		bf.pos = start
		bf.InplaceRemove(-delta)
	}
	bf.pos = start
	buf := make([]byte, 0, maxVaruintBytes)
	buf = appendVaruint(buf, v)
	bf.Write(buf)
	bf.pos = start
	return delta, nil
}
