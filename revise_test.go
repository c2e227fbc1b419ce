// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildReviserDoc(t *testing.T) (*ByteFile, int) {
	t.Helper()
	bf := NewByteFile(nil)
	root := bf.Tell()
	OpenObject(bf, MapUnsortedMap, 0)
	for _, kv := range []struct {
		key string
		val ScalarValue
	}{
		{"name", ScalarValue{Type: FieldString, Str: "carbon"}},
		{"version", ScalarValue{Type: FieldU8, U64: 1}},
	} {
		kb := appendVaruint(nil, uint64(len(kv.key)))
		kb = append(kb, kv.key...)
		bf.Write(kb)
		enc, err := encodeScalar(nil, kv.val)
		require.NoError(t, err)
		bf.Write(enc)
	}
	tagKey := "tags"
	kb := appendVaruint(nil, uint64(len(tagKey)))
	kb = append(kb, tagKey...)
	bf.Write(kb)
	OpenArray(bf, ListUnsortedMultiset, 0)
	CloseArray(bf)
	CloseObject(bf)
	return bf, root
}

func TestReviserGetAndSet(t *testing.T) {
	bf, root := buildReviserDoc(t)
	r := NewReviser(bf, root)

	v, err := r.Get("name")
	require.NoError(t, err)
	require.Equal(t, "carbon", v.Str)

	require.NoError(t, r.Set("version", ScalarValue{Type: FieldU8, U64: 2}))
	v, err = r.Get("version")
	require.NoError(t, err)
	require.EqualValues(t, 2, v.U64)
}

func TestReviserSetRejectsContainerOverwrite(t *testing.T) {
	bf, root := buildReviserDoc(t)
	r := NewReviser(bf, root)
	err := r.Set("tags", ScalarValue{Type: FieldU8, U64: 1})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestReviserRemoveObjectField(t *testing.T) {
	bf, root := buildReviserDoc(t)
	r := NewReviser(bf, root)
	require.NoError(t, r.Remove("version"))
	_, err := r.Get("version")
	require.ErrorIs(t, err, ErrNoSuchKey)
	// sibling fields remain intact
	v, err := r.Get("name")
	require.NoError(t, err)
	require.Equal(t, "carbon", v.Str)
}

func TestReviserAppendToArray(t *testing.T) {
	bf, root := buildReviserDoc(t)
	r := NewReviser(bf, root)
	require.NoError(t, r.AppendToArray("tags", ScalarValue{Type: FieldString, Str: "fast"}))
	v, err := r.Get("tags.0")
	require.NoError(t, err)
	require.Equal(t, "fast", v.Str)
}

func TestReviserSetObjectFieldInsertsAndUpdates(t *testing.T) {
	bf := NewByteFile(nil)
	root := bf.Tell()
	OpenObject(bf, MapUnsortedMap, 0)
	CloseObject(bf)
	r := NewReviser(bf, root)

	require.NoError(t, r.SetObjectField("", "k", ScalarValue{Type: FieldU8, U64: 1}))
	v, err := r.Get("k")
	require.NoError(t, err)
	require.EqualValues(t, 1, v.U64)

	require.NoError(t, r.SetObjectField("", "k", ScalarValue{Type: FieldU8, U64: 9}))
	v, err = r.Get("k")
	require.NoError(t, err)
	require.EqualValues(t, 9, v.U64)
}
