// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInserterInsertArrayNestsProperly(t *testing.T) {
	bf := NewByteFile(nil)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)

	outer, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	require.NoError(t, outer.FastForward())
	ins := outer.InsertBegin()
	inner, err := ins.InsertArray(ListUnsortedSet, 0)
	require.NoError(t, err)
	require.NoError(t, inner.FastForward())
	innerIns := inner.InsertBegin()
	require.NoError(t, innerIns.InsertScalar(ScalarValue{Type: FieldU8, U64: 7}))
	inner.Drop()
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

	nested, err := rd.ArrayValue()
	require.NoError(t, err)
	defer nested.Drop()
	ok, err = nested.Next()
	require.NoError(t, err)
	require.True(t, ok)
	v, err := nested.Value()
	require.NoError(t, err)
	require.EqualValues(t, 7, v.U64)
}

func TestInserterInsertObjectAndKey(t *testing.T) {
	bf := NewByteFile(nil)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)
	outer, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	require.NoError(t, outer.FastForward())
	ins := outer.InsertBegin()
	obj, err := ins.InsertObject(MapUnsortedMap, 0)
	require.NoError(t, err)
	objIns := obj.InsertBegin()
	require.NoError(t, objIns.InsertKey("name"))
	require.NoError(t, objIns.InsertScalar(ScalarValue{Type: FieldString, Str: "carbon"}))
	obj.Drop()
	outer.Drop()

	rd, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	defer rd.Drop()
	ok, err := rd.Next()
	require.NoError(t, err)
	require.True(t, ok)
	ro, err := rd.ObjectValue()
	require.NoError(t, err)
	defer ro.Drop()
	found, err := ro.Find("name")
	require.NoError(t, err)
	require.True(t, found)
	v, err := ro.Value()
	require.NoError(t, err)
	require.Equal(t, "carbon", v.Str)
}

func TestInserterInsertColumnSeedsNullSlots(t *testing.T) {
	bf := NewByteFile(nil)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)
	outer, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	require.NoError(t, outer.FastForward())
	ins := outer.InsertBegin()
	col, err := ins.InsertColumn(ElemU32, ListUnsortedMultiset, 3)
	require.NoError(t, err)
	require.Equal(t, 3, col.Capacity())
	require.Equal(t, 0, col.NumElements())
	col.Drop()
	outer.Drop()
}

func TestInserterUnsignedSignedSelectSmallestWidth(t *testing.T) {
	bf := NewByteFile(nil)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)
	it, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()
	require.NoError(t, it.FastForward())
	ins := it.InsertBegin()

	require.NoError(t, ins.Unsigned(5))
	require.NoError(t, ins.Unsigned(1<<20))
	require.NoError(t, ins.Signed(-5))
	require.NoError(t, ins.Signed(-(1 << 20)))
	it.Drop()

	rd, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	defer rd.Drop()

	wantTypes := []FieldType{FieldU8, FieldU32, FieldI8, FieldI32}
	for _, want := range wantTypes {
		ok, err := rd.Next()
		require.NoError(t, err)
		require.True(t, ok)
		ft, err := rd.FieldType()
		require.NoError(t, err)
		require.Equal(t, want, ft)
	}
}

func TestInserterUnsignedSignedForbiddenInsideColumn(t *testing.T) {
	ins := &Inserter{container: ContainerColumn}
	require.ErrorIs(t, ins.Unsigned(1), ErrInsertTooDangerous)
	require.ErrorIs(t, ins.Signed(1), ErrInsertTooDangerous)
}

func TestInsertKeyOutsideObjectErrors(t *testing.T) {
	bf := NewByteFile(nil)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)
	it, err := NewArrayIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()
	require.NoError(t, it.FastForward())
	ins := it.InsertBegin()
	require.ErrorIs(t, ins.InsertKey("x"), ErrUnsupportedContainer)
}
