// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// ObjectIterator walks the (key, value) pairs of an object container
// (C4). Keys are length-prefixed byte strings; values are ordinary
// fields, including nested containers.
type ObjectIterator struct {
	*base
	mc MapClass
	// valuePos is the offset of the value marker for the pair the cursor
	// currently sits on, once known; keyPos is always equal to o.pos.
	valuePos int
}

// NewObjectIterator opens an iterator over the object whose opener
// marker sits at openerOffset.
func NewObjectIterator(bf *ByteFile, openerOffset int, parent *base) (*ObjectIterator, error) {
	mb, err := bf.ByteAt(openerOffset)
	if err != nil {
		return nil, err
	}
	m := Marker(mb)
	if !IsObjectOrSubtype(m) {
		return nil, fmt.Errorf("%w: offset %d is not an object opener", ErrMalformedDocument, openerOffset)
	}
	mc, err := AbstractMapClassOf(m)
	if err != nil {
		return nil, err
	}
	b, err := newBase(bf, openerOffset, openerOffset+1, parent)
	if err != nil {
		return nil, err
	}
	return &ObjectIterator{base: b, mc: mc}, nil
}

// Class returns the object's abstract map class.
func (o *ObjectIterator) Class() MapClass { return o.mc }

// IsMultimap reports whether the object's abstract class permits
// duplicate keys.
func (o *ObjectIterator) IsMultimap() bool { return !o.mc.IsDistinct() }

// IsMap reports whether the object's abstract class declares unique
// keys.
func (o *ObjectIterator) IsMap() bool { return o.mc.IsDistinct() }

// IsSorted reports whether the object's abstract class is sort-stated.
func (o *ObjectIterator) IsSorted() bool { return o.mc.IsSorted() }

func (o *ObjectIterator) keyLen(keyOffset int) (adv, n int, err error) {
	nn, a, err := o.bf.VaruintAt(keyOffset)
	if err != nil {
		return 0, 0, err
	}
	return a, int(nn), nil
}

// Next advances to the next (key, value) pair, returning false once the
// object-end marker is reached.
func (o *ObjectIterator) Next() (bool, error) {
	if o.state == stateAfterLast {
		return false, nil
	}
	if o.state == stateAtField {
		adv, n, err := o.keyLen(o.pos)
		if err != nil {
			return false, err
		}
		valuePos := o.pos + adv + n
		end, err := fieldEnd(o.bf, valuePos)
		if err != nil {
			return false, err
		}
		o.pushHistory(o.pos)
		o.pos = end
	}
	b, err := o.bf.ByteAt(o.pos)
	if err != nil {
		return false, err
	}
	if Marker(b) == MarkerObjectEnd {
		o.state = stateAfterLast
		return false, nil
	}
	adv, n, err := o.keyLen(o.pos)
	if err != nil {
		return false, err
	}
	o.valuePos = o.pos + adv + n
	o.state = stateAtField
	return true, nil
}

// HasNext reports whether a subsequent Next would land on a pair.
func (o *ObjectIterator) HasNext() (bool, error) {
	if o.state == stateAfterLast {
		return false, nil
	}
	probe := o.pos
	if o.state == stateAtField {
		adv, n, err := o.keyLen(o.pos)
		if err != nil {
			return false, err
		}
		end, err := fieldEnd(o.bf, o.pos+adv+n)
		if err != nil {
			return false, err
		}
		probe = end
	}
	b, err := o.bf.ByteAt(probe)
	if err != nil {
		return false, err
	}
	return Marker(b) != MarkerObjectEnd, nil
}

// Prev returns to the previously visited pair, if any.
func (o *ObjectIterator) Prev() (bool, error) {
	off, ok := o.popHistory()
	if !ok {
		return false, nil
	}
	o.pos = off
	adv, n, err := o.keyLen(o.pos)
	if err != nil {
		return false, err
	}
	o.valuePos = o.pos + adv + n
	o.state = stateAtField
	return true, nil
}

// FastForward moves directly to the object-end marker.
func (o *ObjectIterator) FastForward() error {
	afterEnd, err := scanToObjectEnd(o.bf, o.beginOffset)
	if err != nil {
		return err
	}
	o.pos = afterEnd - 1
	o.state = stateAfterLast
	return nil
}

// Key returns the raw key bytes of the pair at the cursor.
func (o *ObjectIterator) Key() (string, error) {
	if o.state != stateAtField {
		return "", fmt.Errorf("%w: cursor is not positioned at a pair", ErrNoSuchKey)
	}
	adv, n, err := o.keyLen(o.pos)
	if err != nil {
		return "", err
	}
	data, err := o.bf.SliceAt(o.pos+adv, n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FieldType returns the static type of the value at the cursor.
func (o *ObjectIterator) FieldType() (FieldType, error) {
	if o.state != stateAtField {
		return 0, fmt.Errorf("%w: cursor is not positioned at a pair", ErrNoSuchKey)
	}
	mb, err := o.bf.ByteAt(o.valuePos)
	if err != nil {
		return 0, err
	}
	return FieldTypeOf(Marker(mb))
}

// Value decodes the scalar value at the cursor.
func (o *ObjectIterator) Value() (ScalarValue, error) {
	if o.state != stateAtField {
		return ScalarValue{}, fmt.Errorf("%w: cursor is not positioned at a pair", ErrNoSuchKey)
	}
	return decodeScalarAt(o.bf, o.valuePos)
}

// ArrayValue opens a nested iterator over the array value at the
// cursor.
func (o *ObjectIterator) ArrayValue() (*ArrayIterator, error) {
	ft, err := o.FieldType()
	if err != nil {
		return nil, err
	}
	if ft != FieldArray {
		return nil, fmt.Errorf("%w: value is %s, not array", ErrTypeMismatch, ft)
	}
	return NewArrayIterator(o.bf, o.valuePos, o.base)
}

// ObjectValue opens a nested iterator over the object value at the
// cursor.
func (o *ObjectIterator) ObjectValue() (*ObjectIterator, error) {
	ft, err := o.FieldType()
	if err != nil {
		return nil, err
	}
	if ft != FieldObject {
		return nil, fmt.Errorf("%w: value is %s, not object", ErrTypeMismatch, ft)
	}
	return NewObjectIterator(o.bf, o.valuePos, o.base)
}

// ColumnValue opens a nested iterator over the column value at the
// cursor.
func (o *ObjectIterator) ColumnValue() (*ColumnIterator, error) {
	ft, err := o.FieldType()
	if err != nil {
		return nil, err
	}
	if ft != FieldColumn {
		return nil, fmt.Errorf("%w: value is %s, not column", ErrTypeMismatch, ft)
	}
	return NewColumnIterator(o.bf, o.valuePos, o.base)
}

// UpdateType rewrites the object's opener marker to a different
// abstract class in place.
func (o *ObjectIterator) UpdateType(newClass MapClass) error {
	if err := o.bf.SetByteAt(o.beginOffset, byte(ObjectMarker(newClass))); err != nil {
		return err
	}
	o.mc = newClass
	return nil
}

// Remove deletes the (key, value) pair at the cursor.
func (o *ObjectIterator) Remove() error {
	if o.state != stateAtField {
		return fmt.Errorf("%w: Remove called with the cursor not at a pair", ErrNoSuchKey)
	}
	adv, n, err := o.keyLen(o.pos)
	if err != nil {
		return err
	}
	end, err := fieldEnd(o.bf, o.pos+adv+n)
	if err != nil {
		return err
	}
	total := end - o.pos
	o.bf.Seek(o.pos)
	o.bf.InplaceRemove(total)
	o.addModSize(-total)
	b, err := o.bf.ByteAt(o.pos)
	if err != nil {
		return err
	}
	if Marker(b) == MarkerObjectEnd {
		o.state = stateAfterLast
	} else {
		o.state = stateAtField
		kadv, kn, err := o.keyLen(o.pos)
		if err != nil {
			return err
		}
		o.valuePos = o.pos + kadv + kn
	}
	return nil
}

// Find performs a linear scan from the current position forward (and,
// if not found, does not wrap) for a pair whose key equals key,
// advancing the cursor there. It returns false without moving the
// cursor past the object-end marker if no such pair remains.
func (o *ObjectIterator) Find(key string) (bool, error) {
	for {
		if o.state != stateAtField {
			ok, err := o.Next()
			if err != nil || !ok {
				return false, err
			}
		}
		k, err := o.Key()
		if err != nil {
			return false, err
		}
		if k == key {
			return true, nil
		}
		ok, err := o.Next()
		if err != nil || !ok {
			return false, err
		}
	}
}

// InsertBegin returns an Inserter positioned to splice a new (key,
// value) pair in immediately before the pair currently under the
// cursor.
func (o *ObjectIterator) InsertBegin() *Inserter {
	at := o.pos
	if o.state == stateBeforeFirst {
		at = o.payload
	}
	return &Inserter{bf: o.bf, at: at, owner: o.base, container: ContainerObject}
}
