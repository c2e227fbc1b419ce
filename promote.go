// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

// PromoteColumnToArray rewrites the column ci iterates as an array
// carrying the same elements, in the same order, under the same
// abstract class — the C6 response to a value that a column's element
// type cannot represent (ColumnIterator.Fits returning false, which is
// also when ColumnIterator.Append returns false; a full column is grown
// by Append rather than promoted). ci is
// consumed: its lock is released as part of the rewrite, and the
// caller must use the returned ArrayIterator in its place.
//
// Null slots promote to explicit null fields; every other slot decodes
// through ColumnIterator.Value and re-encodes through encodeScalar, so
// the promoted array is byte-for-byte equivalent to one built by hand.
func PromoteColumnToArray(ci *ColumnIterator) (*ArrayIterator, error) {
	values := make([]ScalarValue, ci.numElements)
	for i := 0; i < ci.numElements; i++ {
		null, err := ci.isNullAt(i)
		if err != nil {
			return nil, err
		}
		if null {
			values[i] = ScalarValue{Type: FieldNull, IsNull: true}
			continue
		}
		saved := ci.idx
		ci.idx = i
		ci.state = stateAtField
		v, err := ci.Value()
		if err != nil {
			return nil, err
		}
		values[i] = v
		ci.idx = saved
	}

	openerOffset := ci.beginOffset
	class := ci.class
	parent := ci.parent
	bf := ci.bf

	oldEnd, err := fieldEnd(bf, openerOffset)
	if err != nil {
		return nil, err
	}
	oldLen := oldEnd - openerOffset

	buf := []byte{byte(ArrayMarker(class))}
	for _, v := range values {
		buf, err = encodeScalar(buf, v)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, byte(MarkerArrayEnd))

	ci.Drop()

	bf.Seek(openerOffset)
	bf.InplaceRemove(oldLen)
	region := bf.InplaceInsert(len(buf))
	copy(region, buf)

	delta := len(buf) - oldLen
	if parent != nil {
		parent.addModSize(delta)
	}

	return NewArrayIterator(bf, openerOffset, parent)
}
