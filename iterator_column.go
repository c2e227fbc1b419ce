// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ColumnIterator walks the fixed-width slots of a column container
// (C4). Unlike arrays and objects, a column's length is governed by an
// explicit (num_elements, capacity) header rather than an end marker;
// individual slots cannot carry their own marker, so out-of-range
// values are signalled through Fits rather than written directly (see
// promote.go for the rewrite-as-array path C6 takes when a caller
// ignores that signal).
type ColumnIterator struct {
	*base
	elem         ElemType
	class        ListClass
	payloadStart int
	numElements  int
	capacity     int
	idx          int // meaningful once state != BeforeFirst
}

// NewColumnIterator opens an iterator over the column whose opener
// marker sits at openerOffset.
func NewColumnIterator(bf *ByteFile, openerOffset int, parent *base) (*ColumnIterator, error) {
	mb, err := bf.ByteAt(openerOffset)
	if err != nil {
		return nil, err
	}
	m := Marker(mb)
	elem, err := ColumnElemOf(m)
	if err != nil {
		return nil, err
	}
	class, err := AbstractListClassOf(m)
	if err != nil {
		return nil, err
	}
	payloadStart, n, cap_, err := ColumnHeader(bf, openerOffset)
	if err != nil {
		return nil, err
	}
	b, err := newBase(bf, openerOffset, payloadStart, parent)
	if err != nil {
		return nil, err
	}
	return &ColumnIterator{
		base: b, elem: elem, class: class,
		payloadStart: payloadStart, numElements: n, capacity: cap_,
	}, nil
}

// ElemType returns the column's fixed element type.
func (c *ColumnIterator) ElemType() ElemType { return c.elem }

// Class returns the column's abstract list class.
func (c *ColumnIterator) Class() ListClass { return c.class }

// NumElements returns the column's current logical length.
func (c *ColumnIterator) NumElements() int { return c.numElements }

// Capacity returns the number of slots physically reserved.
func (c *ColumnIterator) Capacity() int { return c.capacity }

// IsMultiset reports whether the column's abstract class permits
// duplicate elements.
func (c *ColumnIterator) IsMultiset() bool { return !c.class.IsDistinct() }

// IsSet reports whether the column's abstract class declares unique
// elements.
func (c *ColumnIterator) IsSet() bool { return c.class.IsDistinct() }

// IsSorted reports whether the column's abstract class is sort-stated.
func (c *ColumnIterator) IsSorted() bool { return c.class.IsSorted() }

func (c *ColumnIterator) slotOffset(idx int) int {
	return c.payloadStart + idx*ValueSize(c.elem)
}

// Next advances to the next slot, returning false once past the last
// logical element (index >= num_elements).
func (c *ColumnIterator) Next() (bool, error) {
	if c.state == stateAfterLast {
		return false, nil
	}
	if c.state == stateAtField {
		c.idx++
	}
	if c.idx >= c.numElements {
		c.state = stateAfterLast
		return false, nil
	}
	c.pos = c.slotOffset(c.idx)
	c.state = stateAtField
	return true, nil
}

// HasNext reports whether a subsequent Next would land on a slot.
func (c *ColumnIterator) HasNext() (bool, error) {
	if c.state == stateAfterLast {
		return false, nil
	}
	next := c.idx
	if c.state == stateAtField {
		next++
	}
	return next < c.numElements, nil
}

// Prev moves back to the previous slot.
func (c *ColumnIterator) Prev() (bool, error) {
	if c.state != stateAtField || c.idx == 0 {
		return false, nil
	}
	c.idx--
	c.pos = c.slotOffset(c.idx)
	return true, nil
}

// FastForward moves directly past the last logical element.
func (c *ColumnIterator) FastForward() error {
	c.idx = c.numElements
	c.state = stateAfterLast
	return nil
}

// Index returns the zero-based slot index at the cursor.
func (c *ColumnIterator) Index() int { return c.idx }

// IsNull reports whether the slot at the cursor holds the element
// type's reserved null sentinel.
func (c *ColumnIterator) IsNull() (bool, error) {
	if c.state != stateAtField {
		return false, fmt.Errorf("%w: cursor is not positioned at a slot", ErrOutOfBounds)
	}
	return c.isNullAt(c.idx)
}

func (c *ColumnIterator) isNullAt(idx int) (bool, error) {
	off := c.slotOffset(idx)
	s, err := c.bf.SliceAt(off, ValueSize(c.elem))
	if err != nil {
		return false, err
	}
	switch c.elem {
	case ElemU8:
		return s[0] == nullU8, nil
	case ElemU16:
		return binary.LittleEndian.Uint16(s) == nullU16, nil
	case ElemU32:
		return binary.LittleEndian.Uint32(s) == nullU32, nil
	case ElemU64:
		return binary.LittleEndian.Uint64(s) == nullU64, nil
	case ElemI8:
		return int8(s[0]) == nullI8, nil
	case ElemI16:
		return int16(binary.LittleEndian.Uint16(s)) == nullI16, nil
	case ElemI32:
		return int32(binary.LittleEndian.Uint32(s)) == nullI32, nil
	case ElemI64:
		return int64(binary.LittleEndian.Uint64(s)) == nullI64, nil
	case ElemFloat:
		return binary.LittleEndian.Uint32(s) == nullFloatBits, nil
	case ElemBoolean:
		return s[0] == boolNull, nil
	default:
		return false, fmt.Errorf("%w: unknown element type %d", ErrInternal, c.elem)
	}
}

// Value decodes the slot at the cursor as a ScalarValue. A null slot
// decodes with IsNull set and the rest of the fields zeroed.
func (c *ColumnIterator) Value() (ScalarValue, error) {
	if c.state != stateAtField {
		return ScalarValue{}, fmt.Errorf("%w: cursor is not positioned at a slot", ErrOutOfBounds)
	}
	null, err := c.isNullAt(c.idx)
	if err != nil {
		return ScalarValue{}, err
	}
	ft := c.elem.fieldType()
	if null {
		return ScalarValue{Type: ft, IsNull: true}, nil
	}
	off := c.slotOffset(c.idx)
	s, err := c.bf.SliceAt(off, ValueSize(c.elem))
	if err != nil {
		return ScalarValue{}, err
	}
	switch c.elem {
	case ElemU8:
		return ScalarValue{Type: ft, U64: uint64(s[0])}, nil
	case ElemU16:
		return ScalarValue{Type: ft, U64: uint64(binary.LittleEndian.Uint16(s))}, nil
	case ElemU32:
		return ScalarValue{Type: ft, U64: uint64(binary.LittleEndian.Uint32(s))}, nil
	case ElemU64:
		return ScalarValue{Type: ft, U64: binary.LittleEndian.Uint64(s)}, nil
	case ElemI8:
		return ScalarValue{Type: ft, I64: int64(int8(s[0]))}, nil
	case ElemI16:
		return ScalarValue{Type: ft, I64: int64(int16(binary.LittleEndian.Uint16(s)))}, nil
	case ElemI32:
		return ScalarValue{Type: ft, I64: int64(int32(binary.LittleEndian.Uint32(s)))}, nil
	case ElemI64:
		return ScalarValue{Type: ft, I64: int64(binary.LittleEndian.Uint64(s))}, nil
	case ElemFloat:
		return ScalarValue{Type: ft, F32: math.Float32frombits(binary.LittleEndian.Uint32(s))}, nil
	case ElemBoolean:
		if s[0] == boolTrue {
			return ScalarValue{Type: FieldTrue, Bool: true}, nil
		}
		return ScalarValue{Type: FieldFalse, Bool: false}, nil
	default:
		return ScalarValue{}, fmt.Errorf("%w: unknown element type %d", ErrInternal, c.elem)
	}
}

// fieldType maps a column element type to the FieldType it decodes as.
func (e ElemType) fieldType() FieldType {
	switch e {
	case ElemU8:
		return FieldU8
	case ElemU16:
		return FieldU16
	case ElemU32:
		return FieldU32
	case ElemU64:
		return FieldU64
	case ElemI8:
		return FieldI8
	case ElemI16:
		return FieldI16
	case ElemI32:
		return FieldI32
	case ElemI64:
		return FieldI64
	case ElemFloat:
		return FieldFloat
	case ElemBoolean:
		return FieldTrue // boolean columns decode to true/false, never this sentinel itself
	default:
		return fieldTypeCount
	}
}

// Fits reports whether v can be written into a slot of this column's
// element type without loss — i.e. whether an Insert Engine call can
// write v directly rather than promoting the column to an array (C6).
func (c *ColumnIterator) Fits(v ScalarValue) bool {
	if v.Type == FieldNull {
		return true
	}
	switch c.elem {
	case ElemU8:
		return isUint(v.Type) && v.U64 <= 0xFE
	case ElemU16:
		return isUint(v.Type) && v.U64 <= 0xFFFE
	case ElemU32:
		return isUint(v.Type) && v.U64 <= 0xFFFF_FFFE
	case ElemU64:
		return isUint(v.Type) && v.U64 != nullU64
	case ElemI8:
		return isInt(v.Type) && v.I64 >= math.MinInt8+1 && v.I64 <= math.MaxInt8
	case ElemI16:
		return isInt(v.Type) && v.I64 >= math.MinInt16+1 && v.I64 <= math.MaxInt16
	case ElemI32:
		return isInt(v.Type) && v.I64 >= math.MinInt32+1 && v.I64 <= math.MaxInt32
	case ElemI64:
		return isInt(v.Type) && v.I64 != nullI64
	case ElemFloat:
		return v.Type == FieldFloat && math.Float32bits(v.F32) != nullFloatBits
	case ElemBoolean:
		return v.Type == FieldTrue || v.Type == FieldFalse
	default:
		return false
	}
}

func isUint(t FieldType) bool {
	switch t {
	case FieldU8, FieldU16, FieldU32, FieldU64:
		return true
	default:
		return false
	}
}

func isInt(t FieldType) bool {
	switch t {
	case FieldI8, FieldI16, FieldI32, FieldI64:
		return true
	default:
		return false
	}
}

// SetAt overwrites the slot at idx with v. The caller must have already
// established Fits(v); SetAt does not itself re-check range.
func (c *ColumnIterator) SetAt(idx int, v ScalarValue) error {
	if idx < 0 || idx >= c.numElements {
		return fmt.Errorf("%w: column index %d out of range (len %d)", ErrOutOfBounds, idx, c.numElements)
	}
	off := c.slotOffset(idx)
	buf := make([]byte, ValueSize(c.elem))
	if v.Type == FieldNull {
		c.writeNull(buf)
	} else if err := c.writeValue(buf, v); err != nil {
		return err
	}
	for i, b := range buf {
		if err := c.bf.SetByteAt(off+i, b); err != nil {
			return err
		}
	}
	return nil
}

func (c *ColumnIterator) writeNull(buf []byte) {
	switch c.elem {
	case ElemU8:
		buf[0] = nullU8
	case ElemU16:
		binary.LittleEndian.PutUint16(buf, nullU16)
	case ElemU32:
		binary.LittleEndian.PutUint32(buf, nullU32)
	case ElemU64:
		binary.LittleEndian.PutUint64(buf, nullU64)
	case ElemI8:
		buf[0] = byte(nullI8)
	case ElemI16:
		binary.LittleEndian.PutUint16(buf, uint16(nullI16))
	case ElemI32:
		binary.LittleEndian.PutUint32(buf, uint32(nullI32))
	case ElemI64:
		binary.LittleEndian.PutUint64(buf, uint64(nullI64))
	case ElemFloat:
		binary.LittleEndian.PutUint32(buf, nullFloatBits)
	case ElemBoolean:
		buf[0] = boolNull
	}
}

func (c *ColumnIterator) writeValue(buf []byte, v ScalarValue) error {
	switch c.elem {
	case ElemU8:
		buf[0] = byte(v.U64)
	case ElemU16:
		binary.LittleEndian.PutUint16(buf, uint16(v.U64))
	case ElemU32:
		binary.LittleEndian.PutUint32(buf, uint32(v.U64))
	case ElemU64:
		binary.LittleEndian.PutUint64(buf, v.U64)
	case ElemI8:
		buf[0] = byte(int8(v.I64))
	case ElemI16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(v.I64)))
	case ElemI32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v.I64)))
	case ElemI64:
		binary.LittleEndian.PutUint64(buf, uint64(v.I64))
	case ElemFloat:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v.F32))
	case ElemBoolean:
		if v.Type == FieldTrue {
			buf[0] = boolTrue
		} else {
			buf[0] = boolFalse
		}
	default:
		return fmt.Errorf("%w: unknown element type %d", ErrInternal, c.elem)
	}
	return nil
}

// nextColumnCapacity returns the Insert Engine's column growth target
// for a column currently at capacity: ceil((capacity+1)*1.7).
func nextColumnCapacity(capacity int) int {
	return int(math.Ceil(float64(capacity+1) * 1.7))
}

// Grow enlarges the column's capacity to at least minCapacity, filling
// the new slots with the element type's null sentinel. It is a no-op
// if the column is already at least that large.
func (c *ColumnIterator) Grow(minCapacity int) error {
	if minCapacity <= c.capacity {
		return nil
	}
	c.bf.Seek(c.beginOffset + 1)
	if err := c.bf.SkipVaruint(); err != nil {
		return err
	}
	capOffset := c.bf.Tell()
	c.bf.Seek(capOffset)
	delta, err := c.bf.UpdateVaruint(uint64(minCapacity))
	if err != nil {
		return err
	}
	c.payloadStart += delta
	c.addModSize(delta)

	size := ValueSize(c.elem)
	extra := minCapacity - c.capacity
	c.bf.Seek(c.payloadStart + c.capacity*size)
	region := c.bf.InplaceInsert(extra * size)
	for i := 0; i < extra; i++ {
		c.writeNull(region[i*size : (i+1)*size])
	}
	c.addModSize(extra * size)
	c.capacity = minCapacity
	return nil
}

// Append writes v to the first unused slot, growing the column's
// capacity first (ceil((capacity+1)*1.7), the Insert Engine's column
// growth rule) if it is full. It returns false without modifying the
// buffer when v does not fit the column's element type at all,
// signalling the caller to promote the column to an array instead
// (PromoteColumnToArray).
func (c *ColumnIterator) Append(v ScalarValue) (bool, error) {
	if !c.Fits(v) {
		return false, nil
	}
	if c.numElements >= c.capacity {
		if err := c.Grow(nextColumnCapacity(c.capacity)); err != nil {
			return false, err
		}
	}
	idx := c.numElements
	off := c.slotOffset(idx)
	buf := make([]byte, ValueSize(c.elem))
	if v.Type == FieldNull {
		c.writeNull(buf)
	} else if err := c.writeValue(buf, v); err != nil {
		return false, err
	}
	for i, b := range buf {
		if err := c.bf.SetByteAt(off+i, b); err != nil {
			return false, err
		}
	}
	if err := c.setNumElements(idx + 1); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAt deletes the element at idx, shifting later elements left by
// one slot and decrementing num_elements; capacity is unchanged.
func (c *ColumnIterator) RemoveAt(idx int) error {
	if idx < 0 || idx >= c.numElements {
		return fmt.Errorf("%w: column index %d out of range (len %d)", ErrOutOfBounds, idx, c.numElements)
	}
	tailStart := c.slotOffset(idx + 1)
	tailEnd := c.slotOffset(c.numElements)
	if tailEnd > tailStart {
		tail, err := c.bf.SliceAt(tailStart, tailEnd-tailStart)
		if err != nil {
			return err
		}
		dst := c.slotOffset(idx)
		for i, b := range tail {
			if err := c.bf.SetByteAt(dst+i, b); err != nil {
				return err
			}
		}
	}
	buf := make([]byte, ValueSize(c.elem))
	c.writeNull(buf)
	lastOff := c.slotOffset(c.numElements - 1)
	for i, b := range buf {
		if err := c.bf.SetByteAt(lastOff+i, b); err != nil {
			return err
		}
	}
	return c.setNumElements(c.numElements - 1)
}

// setNumElements rewrites the num_elements varuint in the column's
// header, shifting the capacity varuint and payload if its encoded
// width changes, and updates cached offsets accordingly.
func (c *ColumnIterator) setNumElements(n int) error {
	c.bf.Seek(c.beginOffset + 1)
	delta, err := c.bf.UpdateVaruint(uint64(n))
	if err != nil {
		return err
	}
	c.numElements = n
	if delta != 0 {
		c.payloadStart += delta
		c.addModSize(delta)
	}
	return nil
}

// UpdateType rewrites the column's opener marker to a different
// abstract class in place, preserving its element type.
func (c *ColumnIterator) UpdateType(newClass ListClass) error {
	if err := c.bf.SetByteAt(c.beginOffset, byte(ColumnMarker(c.elem, newClass))); err != nil {
		return err
	}
	c.class = newClass
	return nil
}
