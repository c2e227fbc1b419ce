// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"fmt"
	"math"
)

// Inserter splices new fields into a container at a fixed byte offset
// (C5). It is returned by an iterator's InsertBegin. Every Insert* call
// opens InplaceInsert space at at (InsertArray and InsertObject splice
// the opener and the end marker separately), writes into it, and
// advances at past what it wrote so a run of inserts appends in
// document order. Column growth (ColumnIterator.Grow) enlarges the
// document through its own splice, not through an Inserter.
//
// An Inserter does not hold the container's lock itself; it borrows the
// lock of the iterator that created it (owner) and must not outlive
// that iterator's Drop.
type Inserter struct {
	bf        *ByteFile
	at        int
	owner     *base
	container ContainerKind
}

// Tell returns the current absolute splice offset.
func (ins *Inserter) Tell() int { return ins.at }

func (ins *Inserter) grow(n int) []byte {
	ins.bf.Seek(ins.at)
	region := ins.bf.InplaceInsert(n)
	ins.owner.addModSize(n)
	ins.at += n
	return region
}

// InsertScalar splices v in as a bare field (valid inside an array, or
// as the value half of an object pair already positioned by
// InsertKey).
func (ins *Inserter) InsertScalar(v ScalarValue) error {
	enc, err := encodeScalar(nil, v)
	if err != nil {
		return err
	}
	copy(ins.grow(len(enc)), enc)
	return nil
}

// Unsigned splices v in as whichever of u8/u16/u32/u64 is the smallest
// width that represents it losslessly (spec §4.5's width-selecting
// convenience). It is forbidden inside a column context, where every
// slot shares one fixed element type and a narrower-than-expected
// write would silently misalign every other slot: ErrInsertTooDangerous
// is returned instead of guessing.
func (ins *Inserter) Unsigned(v uint64) error {
	if ins.container == ContainerColumn {
		return fmt.Errorf("%w: Unsigned inside a column", ErrInsertTooDangerous)
	}
	return ins.InsertScalar(ScalarValue{Type: smallestUnsignedType(v), U64: v})
}

// Signed splices v in as whichever of i8/i16/i32/i64 is the smallest
// width that represents it losslessly. Forbidden inside a column
// context for the same reason as Unsigned.
func (ins *Inserter) Signed(v int64) error {
	if ins.container == ContainerColumn {
		return fmt.Errorf("%w: Signed inside a column", ErrInsertTooDangerous)
	}
	return ins.InsertScalar(ScalarValue{Type: smallestSignedType(v), I64: v})
}

func smallestUnsignedType(v uint64) FieldType {
	switch {
	case v <= math.MaxUint8:
		return FieldU8
	case v <= math.MaxUint16:
		return FieldU16
	case v <= math.MaxUint32:
		return FieldU32
	default:
		return FieldU64
	}
}

func smallestSignedType(v int64) FieldType {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return FieldI8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return FieldI16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return FieldI32
	default:
		return FieldI64
	}
}

// InsertKey splices a bare object key (length-prefixed, no value) in
// ahead of a value-bearing call such as InsertScalar or InsertArray.
// Only meaningful when this Inserter was opened from an ObjectIterator.
func (ins *Inserter) InsertKey(key string) error {
	if ins.container != ContainerObject {
		return fmt.Errorf("%w: InsertKey is only valid inside an object", ErrUnsupportedContainer)
	}
	buf := appendVaruint(nil, uint64(len(key)))
	buf = append(buf, key...)
	copy(ins.grow(len(buf)), buf)
	return nil
}

// InsertArray splices an empty array opener of the given abstract
// class in, with reserve bytes of spare capacity, and returns a fresh
// ArrayIterator positioned at BeforeFirst inside it so the caller can
// immediately fill it in.
func (ins *Inserter) InsertArray(class ListClass, reserve int) (*ArrayIterator, error) {
	region := ins.grow(1)
	region[0] = byte(ArrayMarker(class))
	opener := ins.at - 1
	ins.bf.Seek(ins.at)
	ins.bf.ReserveCapacity(reserve)
	closeRegion := ins.grow(1)
	closeRegion[0] = byte(MarkerArrayEnd)
	return NewArrayIterator(ins.bf, opener, ins.owner)
}

// InsertObject splices an empty object opener of the given abstract
// class in, with reserve bytes of spare capacity, and returns a fresh
// ObjectIterator positioned at BeforeFirst inside it.
func (ins *Inserter) InsertObject(class MapClass, reserve int) (*ObjectIterator, error) {
	region := ins.grow(1)
	region[0] = byte(ObjectMarker(class))
	opener := ins.at - 1
	ins.bf.Seek(ins.at)
	ins.bf.ReserveCapacity(reserve)
	closeRegion := ins.grow(1)
	closeRegion[0] = byte(MarkerObjectEnd)
	return NewObjectIterator(ins.bf, opener, ins.owner)
}

// InsertColumn splices a column[t] of the given abstract class and
// capacity in, all slots initialised to the element type's null
// sentinel, and returns a fresh ColumnIterator over it.
func (ins *Inserter) InsertColumn(t ElemType, class ListClass, capacity int) (*ColumnIterator, error) {
	if capacity < 0 {
		capacity = 0
	}
	opener := ins.at
	header := append([]byte{byte(ColumnMarker(t, class))}, appendVaruint(nil, 0)...)
	header = appendVaruint(header, uint64(capacity))
	payload := make([]byte, capacity*ValueSize(t))
	tmp := &ColumnIterator{elem: t}
	for i := 0; i < capacity; i++ {
		tmp.writeNull(payload[i*ValueSize(t) : (i+1)*ValueSize(t)])
	}
	full := append(header, payload...)
	copy(ins.grow(len(full)), full)
	return NewColumnIterator(ins.bf, opener, ins.owner)
}
