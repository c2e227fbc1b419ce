// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildObject(t *testing.T, class MapClass, pairs map[string]ScalarValue, order []string) *ByteFile {
	t.Helper()
	bf := NewByteFile(nil)
	OpenObject(bf, class, 0)
	for _, k := range order {
		buf := appendVaruint(nil, uint64(len(k)))
		buf = append(buf, k...)
		bf.Write(buf)
		enc, err := encodeScalar(nil, pairs[k])
		require.NoError(t, err)
		bf.Write(enc)
	}
	CloseObject(bf)
	return bf
}

func TestObjectIteratorWalksKeys(t *testing.T) {
	order := []string{"a", "b", "c"}
	pairs := map[string]ScalarValue{
		"a": {Type: FieldU8, U64: 1},
		"b": {Type: FieldString, Str: "x"},
		"c": {Type: FieldTrue, Bool: true},
	}
	bf := buildObject(t, MapUnsortedMap, pairs, order)
	it, err := NewObjectIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()

	var keys []string
	for {
		ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		k, err := it.Key()
		require.NoError(t, err)
		keys = append(keys, k)
	}
	require.Equal(t, order, keys)
}

func TestObjectIteratorFind(t *testing.T) {
	order := []string{"first", "second"}
	pairs := map[string]ScalarValue{
		"first":  {Type: FieldU8, U64: 11},
		"second": {Type: FieldU8, U64: 22},
	}
	bf := buildObject(t, MapUnsortedMap, pairs, order)
	it, err := NewObjectIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()

	ok, err := it.Find("second")
	require.NoError(t, err)
	require.True(t, ok)
	v, err := it.Value()
	require.NoError(t, err)
	require.EqualValues(t, 22, v.U64)

	ok, err = it.Find("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestObjectIteratorRemove(t *testing.T) {
	order := []string{"a", "b"}
	pairs := map[string]ScalarValue{
		"a": {Type: FieldU8, U64: 1},
		"b": {Type: FieldU8, U64: 2},
	}
	bf := buildObject(t, MapUnsortedMap, pairs, order)
	it, err := NewObjectIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()

	ok, err := it.Find("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, it.Remove())

	k, err := it.Key()
	require.NoError(t, err)
	require.Equal(t, "b", k)
}

func TestObjectIteratorUpdateType(t *testing.T) {
	bf := buildObject(t, MapUnsortedMultimap, nil, nil)
	it, err := NewObjectIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()
	require.NoError(t, it.UpdateType(MapSortedMap))
	require.Equal(t, MapSortedMap, it.Class())
}

func TestObjectIteratorInsertBegin(t *testing.T) {
	bf := buildObject(t, MapUnsortedMap, nil, nil)
	it, err := NewObjectIterator(bf, 0, nil)
	require.NoError(t, err)
	defer it.Drop()
	require.NoError(t, it.FastForward())
	ins := it.InsertBegin()
	require.NoError(t, ins.InsertKey("k"))
	require.NoError(t, ins.InsertScalar(ScalarValue{Type: FieldU8, U64: 5}))
	it.Drop()

	rd, err := NewObjectIterator(bf, 0, nil)
	require.NoError(t, err)
	defer rd.Drop()
	ok, err := rd.Find("k")
	require.NoError(t, err)
	require.True(t, ok)
	v, err := rd.Value()
	require.NoError(t, err)
	require.EqualValues(t, 5, v.U64)
}
