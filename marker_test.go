// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkerClassificationRoundTrip(t *testing.T) {
	for class := ListClass(0); class < 4; class++ {
		m := ArrayMarker(class)
		require.True(t, IsArrayOrSubtype(m))
		got, err := AbstractListClassOf(m)
		require.NoError(t, err)
		require.Equal(t, class, got)
		require.Equal(t, ContainerArray, ContainerKindOf(m))
	}
	for class := MapClass(0); class < 4; class++ {
		m := ObjectMarker(class)
		require.True(t, IsObjectOrSubtype(m))
		got, err := AbstractMapClassOf(m)
		require.NoError(t, err)
		require.Equal(t, class, got)
	}
	for elem := ElemType(0); elem < numElemTypes; elem++ {
		for class := ListClass(0); class < 4; class++ {
			m := ColumnMarker(elem, class)
			require.True(t, IsColumnOf(m, elem))
			gotElem, err := ColumnElemOf(m)
			require.NoError(t, err)
			require.Equal(t, elem, gotElem)
			gotClass, err := AbstractListClassOf(m)
			require.NoError(t, err)
			require.Equal(t, class, gotClass)
			require.Equal(t, ContainerColumn, ContainerKindOf(m))
		}
	}
}

func TestMarkerDistinctBandsNeverCollide(t *testing.T) {
	seen := map[Marker]bool{}
	record := func(m Marker) {
		require.False(t, seen[m], "marker 0x%02x reused", m)
		seen[m] = true
	}
	for c := ListClass(0); c < 4; c++ {
		record(ArrayMarker(c))
	}
	for c := MapClass(0); c < 4; c++ {
		record(ObjectMarker(c))
	}
	for e := ElemType(0); e < numElemTypes; e++ {
		for c := ListClass(0); c < 4; c++ {
			record(ColumnMarker(e, c))
		}
	}
}

func TestFieldTypeOfUnknownMarkerErrors(t *testing.T) {
	_, err := FieldTypeOf(Marker(0xEE))
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestValueSizeByElemType(t *testing.T) {
	require.Equal(t, 1, ValueSize(ElemU8))
	require.Equal(t, 2, ValueSize(ElemI16))
	require.Equal(t, 4, ValueSize(ElemFloat))
	require.Equal(t, 8, ValueSize(ElemU64))
}

func TestListClassPredicates(t *testing.T) {
	require.True(t, ListSortedSet.IsSorted())
	require.True(t, ListSortedSet.IsDistinct())
	require.True(t, ListUnsortedMultiset.IsBase())
	require.False(t, ListUnsortedSet.IsSorted())
	require.True(t, ListUnsortedSet.IsDistinct())
}

func TestMapClassPredicates(t *testing.T) {
	require.True(t, MapSortedMap.IsSorted())
	require.True(t, MapSortedMap.IsDistinct())
	require.True(t, MapUnsortedMultimap.IsBase())
}

func TestScalarMarkersClassify(t *testing.T) {
	require.True(t, IsBoolean(MarkerTrue))
	require.True(t, IsSigned(MarkerI32))
	require.True(t, IsUnsigned(MarkerU16))
	require.True(t, IsFloating(MarkerFloat))
	require.True(t, IsString(MarkerString))
	require.True(t, IsBinary(MarkerBinaryCustom))
	require.True(t, IsNull(MarkerNull))
	require.False(t, IsNumber(MarkerString))
}
