// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newU8Column(t *testing.T, capacity int) (*ByteFile, *ColumnIterator) {
	t.Helper()
	bf := NewByteFile(nil)
	OpenColumn(bf, ElemU8, ListUnsortedMultiset, capacity)
	ci, err := NewColumnIterator(bf, 0, nil)
	require.NoError(t, err)
	return bf, ci
}

func TestColumnAppendAndIterate(t *testing.T) {
	_, ci := newU8Column(t, 4)
	defer ci.Drop()

	for _, v := range []uint64{1, 2, 3} {
		ok, err := ci.Append(ScalarValue{Type: FieldU8, U64: v})
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, 3, ci.NumElements())

	var got []uint64
	for {
		ok, err := ci.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		v, err := ci.Value()
		require.NoError(t, err)
		got = append(got, v.U64)
	}
	require.Equal(t, []uint64{1, 2, 3}, got)
}

func TestColumnAppendGrowsCapacityWithoutPromotion(t *testing.T) {
	_, ci := newU8Column(t, 1)
	defer ci.Drop()

	ok, err := ci.Append(ScalarValue{Type: FieldU8, U64: 1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, ci.Capacity())

	ok, err = ci.Append(ScalarValue{Type: FieldU8, U64: 2})
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, ci.Capacity(), 1)
	require.Equal(t, 2, ci.NumElements())
}

func TestColumnAppendSignalsPromotionWhenValueDoesNotFit(t *testing.T) {
	_, ci := newU8Column(t, 2)
	defer ci.Drop()
	ok, err := ci.Append(ScalarValue{Type: FieldString, Str: "nope"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestColumnFitsBoundary(t *testing.T) {
	_, ci := newU8Column(t, 1)
	defer ci.Drop()
	require.True(t, ci.Fits(ScalarValue{Type: FieldU8, U64: 0xFE}))
	require.False(t, ci.Fits(ScalarValue{Type: FieldU8, U64: 0xFF})) // reserved null sentinel
}

func TestColumnNullSlotRoundTrip(t *testing.T) {
	_, ci := newU8Column(t, 2)
	defer ci.Drop()
	ok, err := ci.Append(ScalarValue{Type: FieldNull, IsNull: true})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = ci.Next()
	require.NoError(t, err)
	isNull, err := ci.IsNull()
	require.NoError(t, err)
	require.True(t, isNull)
}

func TestColumnSetAtOverwritesSlot(t *testing.T) {
	_, ci := newU8Column(t, 2)
	defer ci.Drop()
	ci.Append(ScalarValue{Type: FieldU8, U64: 1})
	ci.Append(ScalarValue{Type: FieldU8, U64: 2})

	require.NoError(t, ci.SetAt(0, ScalarValue{Type: FieldU8, U64: 99}))
	ci.Rewind()
	_, err := ci.Next()
	require.NoError(t, err)
	v, err := ci.Value()
	require.NoError(t, err)
	require.EqualValues(t, 99, v.U64)
}

func TestColumnRemoveAtShiftsTail(t *testing.T) {
	_, ci := newU8Column(t, 3)
	defer ci.Drop()
	ci.Append(ScalarValue{Type: FieldU8, U64: 1})
	ci.Append(ScalarValue{Type: FieldU8, U64: 2})
	ci.Append(ScalarValue{Type: FieldU8, U64: 3})

	require.NoError(t, ci.RemoveAt(0))
	require.Equal(t, 2, ci.NumElements())

	ci.Rewind()
	var got []uint64
	for {
		ok, err := ci.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		v, err := ci.Value()
		require.NoError(t, err)
		got = append(got, v.U64)
	}
	require.Equal(t, []uint64{2, 3}, got)
}

func TestColumnRemoveAtRenullsVacatedTailSlot(t *testing.T) {
	bf, ci := newU8Column(t, 3)
	defer ci.Drop()
	ci.Append(ScalarValue{Type: FieldU8, U64: 1})
	ci.Append(ScalarValue{Type: FieldU8, U64: 2})
	ci.Append(ScalarValue{Type: FieldU8, U64: 3})

	require.NoError(t, ci.RemoveAt(0))
	require.Equal(t, 2, ci.NumElements())
	require.Equal(t, 3, ci.Capacity())

	// physical slot 2 (the old last element) must be re-nulled, not left
	// holding a stale duplicate of the shifted value.
	b, err := bf.ByteAt(ci.slotOffset(2))
	require.NoError(t, err)
	require.Equal(t, byte(nullU8), b)
}

func TestColumnBooleanRoundTrip(t *testing.T) {
	bf := NewByteFile(nil)
	OpenColumn(bf, ElemBoolean, ListUnsortedMultiset, 2)
	ci, err := NewColumnIterator(bf, 0, nil)
	require.NoError(t, err)
	defer ci.Drop()

	ci.Append(ScalarValue{Type: FieldTrue, Bool: true})
	ci.Append(ScalarValue{Type: FieldFalse, Bool: false})

	ci.Rewind()
	_, err = ci.Next()
	require.NoError(t, err)
	v, err := ci.Value()
	require.NoError(t, err)
	require.True(t, v.Bool)
	require.Equal(t, FieldTrue, v.Type)

	_, err = ci.Next()
	require.NoError(t, err)
	v, err = ci.Value()
	require.NoError(t, err)
	require.False(t, v.Bool)
	require.Equal(t, FieldFalse, v.Type)
}

func TestNextColumnCapacityGrowsByFactor(t *testing.T) {
	require.Equal(t, 2, nextColumnCapacity(0))
	require.GreaterOrEqual(t, nextColumnCapacity(10), 18)
}

func TestColumnUpdateType(t *testing.T) {
	_, ci := newU8Column(t, 1)
	defer ci.Drop()
	require.NoError(t, ci.UpdateType(ListSortedSet))
	require.Equal(t, ListSortedSet, ci.Class())
}
