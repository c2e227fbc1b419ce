// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromoteColumnToArrayPreservesElementsAndClass(t *testing.T) {
	bf := NewByteFile(nil)
	OpenColumn(bf, ElemU8, ListSortedSet, 4)
	ci, err := NewColumnIterator(bf, 0, nil)
	require.NoError(t, err)

	ci.Append(ScalarValue{Type: FieldU8, U64: 1})
	ci.Append(ScalarValue{Type: FieldNull, IsNull: true})
	ci.Append(ScalarValue{Type: FieldU8, U64: 3})

	ai, err := PromoteColumnToArray(ci)
	require.NoError(t, err)
	defer ai.Drop()
	require.Equal(t, ListSortedSet, ai.Class())

	var vals []ScalarValue
	for {
		ok, err := ai.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		v, err := ai.Value()
		require.NoError(t, err)
		vals = append(vals, v)
	}
	require.Len(t, vals, 3)
	require.EqualValues(t, 1, vals[0].U64)
	require.True(t, vals[1].IsNull)
	require.EqualValues(t, 3, vals[2].U64)
}

func TestPromoteColumnToArrayNestedInParentArray(t *testing.T) {
	bf := NewByteFile(nil)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)
	outer, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	require.NoError(t, outer.FastForward())
	ins := outer.InsertBegin()
	col, err := ins.InsertColumn(ElemU8, ListUnsortedMultiset, 1)
	require.NoError(t, err)
	col.Append(ScalarValue{Type: FieldU8, U64: 1})

	ai, err := PromoteColumnToArray(col)
	require.NoError(t, err)
	ai.Drop()
	outer.Drop()

	rd, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	defer rd.Drop()
	ok, err := rd.Next()
	require.NoError(t, err)
	require.True(t, ok)
	ft, err := rd.FieldType()
	require.NoError(t, err)
	require.Equal(t, FieldArray, ft)
}
