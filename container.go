// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

// ReserveCapacity grows the backing slice's capacity (not its length) by
// at least n bytes beyond the current end of the buffer, without writing
// any content. It is the Go-native reading of spec §4.3's "reserve"
// parameter on open_array/open_object: a pure allocation hint the wire
// format never observes, since neither arrays nor objects carry a
// capacity field the way columns do (I3 still holds — no bytes are
// written into the logical content).
func (bf *ByteFile) ReserveCapacity(n int) {
	if n <= 0 || cap(bf.buf)-len(bf.buf) >= n {
		return
	}
	next := make([]byte, len(bf.buf), len(bf.buf)+n)
	copy(next, bf.buf)
	bf.buf = next
}

// OpenArray writes an array opener of the given abstract class at the
// cursor and returns the payload-start offset (the position immediately
// after the opener, where the first field would begin). reserve, if
// positive, is a capacity hint (see ReserveCapacity).
func OpenArray(bf *ByteFile, class ListClass, reserve int) int {
	bf.WriteByte(byte(ArrayMarker(class)))
	start := bf.Tell()
	bf.ReserveCapacity(reserve)
	return start
}

// CloseArray writes the array-end marker at the cursor.
func CloseArray(bf *ByteFile) {
	bf.WriteByte(byte(MarkerArrayEnd))
}

// OpenObject writes an object opener of the given abstract class at the
// cursor and returns the payload-start offset.
func OpenObject(bf *ByteFile, class MapClass, reserve int) int {
	bf.WriteByte(byte(ObjectMarker(class)))
	start := bf.Tell()
	bf.ReserveCapacity(reserve)
	return start
}

// CloseObject writes the object-end marker at the cursor.
func CloseObject(bf *ByteFile) {
	bf.WriteByte(byte(MarkerObjectEnd))
}

// OpenColumn writes a column[t] opener of the given abstract class, an
// empty num_elements varuint, the capacity varuint, and capacity *
// ValueSize(t) zeroed payload bytes. It returns the payload-start offset.
func OpenColumn(bf *ByteFile, t ElemType, class ListClass, capacity int) int {
	if capacity < 0 {
		capacity = 0
	}
	bf.WriteByte(byte(ColumnMarker(t, class)))
	bf.WriteVaruint(0)
	bf.WriteVaruint(uint64(capacity))
	start := bf.Tell()
	bf.Write(make([]byte, capacity*ValueSize(t)))
	return start
}

// CloseColumn is a logical close only: a column is self-delimiting from
// its header (num_elements, capacity), so the wire format has no
// column-end marker. CloseColumn exists so call sites that bracket every
// other container kind symmetrically (C5's *_begin/*_end) have a
// consistent shape; it performs no write.
func CloseColumn(*ByteFile) {}

// ColumnHeader reads a column's (num_elements, capacity) pair given the
// absolute offset of its opener marker, and returns the payload-start
// offset alongside them (C3's documented derivation: opener_byte +
// varuint(num_elements) + varuint(capacity)). The cursor is restored to
// its position on entry.
func ColumnHeader(bf *ByteFile, openerOffset int) (payloadStart, numElements, capacity int, err error) {
	bf.SavePosition()
	defer func() { _ = bf.RestorePosition() }()

	bf.Seek(openerOffset + 1)
	n, err := bf.ReadVaruint()
	if err != nil {
		return 0, 0, 0, err
	}
	c, err := bf.ReadVaruint()
	if err != nil {
		return 0, 0, 0, err
	}
	return bf.Tell(), int(n), int(c), nil
}
