// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// ArrayIterator walks the fields of an array container, or of a column
// promoted in place to an array (C4). It holds the container's spinlock
// from construction until Drop.
type ArrayIterator struct {
	*base
	class  ListClass
	isRoot bool
}

// NewArrayIterator opens an iterator over the array whose opener marker
// sits at openerOffset. parent is nil for the document's top-level body
// iterator and non-nil for an iterator spawned from a field of another
// container, so mod_size can propagate up the chain on Drop.
func NewArrayIterator(bf *ByteFile, openerOffset int, parent *base) (*ArrayIterator, error) {
	mb, err := bf.ByteAt(openerOffset)
	if err != nil {
		return nil, err
	}
	m := Marker(mb)
	if !IsArrayOrSubtype(m) {
		return nil, fmt.Errorf("%w: offset %d is not an array opener", ErrMalformedDocument, openerOffset)
	}
	class, err := AbstractListClassOf(m)
	if err != nil {
		return nil, err
	}
	b, err := newBase(bf, openerOffset, openerOffset+1, parent)
	if err != nil {
		return nil, err
	}
	return &ArrayIterator{base: b, class: class}, nil
}

// newRootArrayIterator is like NewArrayIterator but additionally marks
// the iterator as the record body's top-level array, the only context
// in which IsUnit is meaningful.
func newRootArrayIterator(bf *ByteFile, openerOffset int) (*ArrayIterator, error) {
	a, err := NewArrayIterator(bf, openerOffset, nil)
	if err != nil {
		return nil, err
	}
	a.isRoot = true
	return a, nil
}

// Class returns the array's abstract list class.
func (a *ArrayIterator) Class() ListClass { return a.class }

// IsMultiset reports whether the array's abstract class permits
// duplicate elements.
func (a *ArrayIterator) IsMultiset() bool { return !a.class.IsDistinct() }

// IsSet reports whether the array's abstract class declares unique
// elements.
func (a *ArrayIterator) IsSet() bool { return a.class.IsDistinct() }

// IsSorted reports whether the array's abstract class is sort-stated.
func (a *ArrayIterator) IsSorted() bool { return a.class.IsSorted() }

// Next advances to the next field, returning false once the array-end
// marker is reached (the iterator is then AfterLast).
func (a *ArrayIterator) Next() (bool, error) {
	if a.state == stateAfterLast {
		return false, nil
	}
	if a.state == stateAtField {
		end, err := fieldEnd(a.bf, a.pos)
		if err != nil {
			return false, err
		}
		a.pushHistory(a.pos)
		a.pos = end
	}
	b, err := a.bf.ByteAt(a.pos)
	if err != nil {
		return false, err
	}
	if Marker(b) == MarkerArrayEnd {
		a.state = stateAfterLast
		return false, nil
	}
	a.state = stateAtField
	return true, nil
}

// HasNext reports whether a subsequent Next would land on a field,
// without moving the cursor.
func (a *ArrayIterator) HasNext() (bool, error) {
	if a.state == stateAfterLast {
		return false, nil
	}
	probe := a.pos
	if a.state == stateAtField {
		end, err := fieldEnd(a.bf, a.pos)
		if err != nil {
			return false, err
		}
		probe = end
	}
	b, err := a.bf.ByteAt(probe)
	if err != nil {
		return false, err
	}
	return Marker(b) != MarkerArrayEnd, nil
}

// Prev returns to the previously visited field, if Next has been called
// at least once since the last Rewind.
func (a *ArrayIterator) Prev() (bool, error) {
	off, ok := a.popHistory()
	if !ok {
		return false, nil
	}
	a.pos = off
	a.state = stateAtField
	return true, nil
}

// FastForward moves directly to the array-end marker, skipping fields
// without decoding their payloads beyond their declared length.
func (a *ArrayIterator) FastForward() error {
	afterEnd, err := scanToArrayEnd(a.bf, a.beginOffset)
	if err != nil {
		return err
	}
	a.pos = afterEnd - 1
	a.state = stateAfterLast
	return nil
}

// IsUnit reports whether this array is the record body's top-level
// array and contains exactly one field — the special case the dot-path
// evaluator descends through without consuming a path node.
func (a *ArrayIterator) IsUnit() (bool, error) {
	if !a.isRoot {
		return false, nil
	}
	first, err := a.bf.ByteAt(a.payload)
	if err != nil {
		return false, err
	}
	if Marker(first) == MarkerArrayEnd {
		return false, nil
	}
	afterFirst, err := fieldEnd(a.bf, a.payload)
	if err != nil {
		return false, err
	}
	afterMarker, err := a.bf.ByteAt(afterFirst)
	if err != nil {
		return false, err
	}
	return Marker(afterMarker) == MarkerArrayEnd, nil
}

// FieldType returns the static type of the field at the cursor. Valid
// only in state AtField.
func (a *ArrayIterator) FieldType() (FieldType, error) {
	if a.state != stateAtField {
		return 0, fmt.Errorf("%w: cursor is not positioned at a field", ErrNoSuchIndex)
	}
	mb, err := a.bf.ByteAt(a.pos)
	if err != nil {
		return 0, err
	}
	return FieldTypeOf(Marker(mb))
}

// Value decodes the scalar field at the cursor. It returns
// ErrTypeMismatch if the field is a container.
func (a *ArrayIterator) Value() (ScalarValue, error) {
	if a.state != stateAtField {
		return ScalarValue{}, fmt.Errorf("%w: cursor is not positioned at a field", ErrNoSuchIndex)
	}
	return decodeScalarAt(a.bf, a.pos)
}

// ArrayValue opens a nested iterator over the array at the cursor.
func (a *ArrayIterator) ArrayValue() (*ArrayIterator, error) {
	ft, err := a.FieldType()
	if err != nil {
		return nil, err
	}
	if ft != FieldArray {
		return nil, fmt.Errorf("%w: field is %s, not array", ErrTypeMismatch, ft)
	}
	return NewArrayIterator(a.bf, a.pos, a.base)
}

// ObjectValue opens a nested iterator over the object at the cursor.
func (a *ArrayIterator) ObjectValue() (*ObjectIterator, error) {
	ft, err := a.FieldType()
	if err != nil {
		return nil, err
	}
	if ft != FieldObject {
		return nil, fmt.Errorf("%w: field is %s, not object", ErrTypeMismatch, ft)
	}
	return NewObjectIterator(a.bf, a.pos, a.base)
}

// ColumnValue opens a nested iterator over the column at the cursor.
func (a *ArrayIterator) ColumnValue() (*ColumnIterator, error) {
	ft, err := a.FieldType()
	if err != nil {
		return nil, err
	}
	if ft != FieldColumn {
		return nil, fmt.Errorf("%w: field is %s, not column", ErrTypeMismatch, ft)
	}
	return NewColumnIterator(a.bf, a.pos, a.base)
}

// UpdateType rewrites the array's opener marker to a different abstract
// class in place. The marker occupies a single byte, so this never
// resizes the buffer or disturbs any offset.
func (a *ArrayIterator) UpdateType(newClass ListClass) error {
	if err := a.bf.SetByteAt(a.beginOffset, byte(ArrayMarker(newClass))); err != nil {
		return err
	}
	a.class = newClass
	return nil
}

// Remove deletes the field at the cursor, shifting subsequent bytes left
// and leaving the cursor positioned at whatever now occupies that slot
// (the next field, or the array-end marker).
func (a *ArrayIterator) Remove() error {
	if a.state != stateAtField {
		return fmt.Errorf("%w: Remove called with the cursor not at a field", ErrNoSuchIndex)
	}
	end, err := fieldEnd(a.bf, a.pos)
	if err != nil {
		return err
	}
	n := end - a.pos
	a.bf.Seek(a.pos)
	a.bf.InplaceRemove(n)
	a.addModSize(-n)
	b, err := a.bf.ByteAt(a.pos)
	if err != nil {
		return err
	}
	if Marker(b) == MarkerArrayEnd {
		a.state = stateAfterLast
	} else {
		a.state = stateAtField
	}
	return nil
}

// InsertBegin returns an Inserter positioned to splice a new field in
// immediately before the field currently under the cursor: at the start
// of the payload if the cursor is BeforeFirst, and at the array-end
// marker if it is AfterLast.
func (a *ArrayIterator) InsertBegin() *Inserter {
	at := a.pos
	if a.state == stateBeforeFirst {
		at = a.payload
	}
	return &Inserter{bf: a.bf, at: at, owner: a.base, container: ContainerArray}
}
