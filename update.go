// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// replaceSpan overwrites the byte range [start, end) with enc, shrinking
// or growing the buffer as needed, and reports the signed byte delta
// applied. When len(enc) == end-start no resize happens at all, which
// is the common case for same-width scalar replacement.
func replaceSpan(bf *ByteFile, start, end int, enc []byte) int {
	oldLen := end - start
	delta := len(enc) - oldLen
	switch {
	case delta > 0:
		bf.Seek(end)
		bf.InplaceInsert(delta)
	case delta < 0:
		bf.Seek(start)
		bf.InplaceRemove(-delta)
	}
	bf.Seek(start)
	bf.Write(enc)
	return delta
}

// fixedWidthFastUpdate overwrites the fixed-width field at markerOffset
// in place with v's payload, without touching the marker byte or
// resizing the buffer, when v encodes to exactly the same marker the
// field already carries. It reports whether the fast path applied;
// FieldString/FieldBinary/FieldBinaryCustom never qualify; neither does
// a v that would change the field's marker (e.g. replacing a u8 with a
// u16 still has to fall through to replaceSpan's resize path).
func fixedWidthFastUpdate(bf *ByteFile, markerOffset int, v ScalarValue) (bool, error) {
	wantMarker, ok := scalarMarkerFor(v.Type)
	if !ok {
		return false, nil
	}
	switch wantMarker {
	case MarkerString, MarkerBinary, MarkerBinaryCustom:
		return false, nil
	}
	haveByte, err := bf.ByteAt(markerOffset)
	if err != nil {
		return false, err
	}
	if Marker(haveByte) != wantMarker {
		return false, nil
	}
	enc, err := encodeScalar(nil, v)
	if err != nil {
		return false, err
	}
	bf.Seek(markerOffset)
	bf.Write(enc)
	return true, nil
}

// UpdateArrayValue replaces the scalar field at it's cursor with v,
// resizing the array in place if the new encoding is a different width
// (C6). it's cursor must be AtField and the field must currently be a
// scalar, not a container — callers that need to change a field's
// shape entirely should Remove and re-Insert instead.
func UpdateArrayValue(it *ArrayIterator, v ScalarValue) error {
	if it.state != stateAtField {
		return fmt.Errorf("%w: UpdateArrayValue called with the cursor not at a field", ErrNoSuchIndex)
	}
	ft, err := it.FieldType()
	if err != nil {
		return err
	}
	if ft == FieldArray || ft == FieldObject || ft == FieldColumn {
		return fmt.Errorf("%w: cannot overwrite a container field with a scalar update", ErrTypeMismatch)
	}
	if fast, err := fixedWidthFastUpdate(it.bf, it.pos, v); err != nil {
		return err
	} else if fast {
		return nil
	}
	end, err := fieldEnd(it.bf, it.pos)
	if err != nil {
		return err
	}
	enc, err := encodeScalar(nil, v)
	if err != nil {
		return err
	}
	delta := replaceSpan(it.bf, it.pos, end, enc)
	it.addModSize(delta)
	return nil
}

// UpdateObjectValue replaces the value half of the pair at it's cursor
// with v, leaving the key untouched.
func UpdateObjectValue(it *ObjectIterator, v ScalarValue) error {
	if it.state != stateAtField {
		return fmt.Errorf("%w: UpdateObjectValue called with the cursor not at a pair", ErrNoSuchKey)
	}
	ft, err := it.FieldType()
	if err != nil {
		return err
	}
	if ft == FieldArray || ft == FieldObject || ft == FieldColumn {
		return fmt.Errorf("%w: cannot overwrite a container value with a scalar update", ErrTypeMismatch)
	}
	if fast, err := fixedWidthFastUpdate(it.bf, it.valuePos, v); err != nil {
		return err
	} else if fast {
		return nil
	}
	end, err := fieldEnd(it.bf, it.valuePos)
	if err != nil {
		return err
	}
	enc, err := encodeScalar(nil, v)
	if err != nil {
		return err
	}
	delta := replaceSpan(it.bf, it.valuePos, end, enc)
	it.addModSize(delta)
	return nil
}

// UpdateColumnValue writes v into the column slot at idx. If v does
// not fit the column's element type the column is promoted to an array
// first (C6's column-to-array promotion path); the returned
// ArrayIterator is non-nil exactly when that happened, and it replaces
// it as the live iterator over the container — the caller must stop
// using it afterwards.
func UpdateColumnValue(it *ColumnIterator, idx int, v ScalarValue) (*ArrayIterator, error) {
	if idx < 0 || idx >= it.numElements {
		return nil, fmt.Errorf("%w: column index %d out of range (len %d)", ErrOutOfBounds, idx, it.numElements)
	}
	if it.Fits(v) {
		return nil, it.SetAt(idx, v)
	}
	promoted, err := PromoteColumnToArray(it)
	if err != nil {
		return nil, err
	}
	if ok, err := promoted.Next(); err != nil {
		return promoted, err
	} else if !ok {
		return promoted, fmt.Errorf("%w: promoted array unexpectedly empty", ErrInternal)
	}
	for i := 0; i < idx; i++ {
		if ok, err := promoted.Next(); err != nil {
			return promoted, err
		} else if !ok {
			return promoted, fmt.Errorf("%w: promoted array shorter than index %d", ErrOutOfBounds, idx)
		}
	}
	return promoted, UpdateArrayValue(promoted, v)
}
