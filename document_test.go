// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasEmptyBody(t *testing.T) {
	doc := New(nil)
	body, err := doc.Body()
	require.NoError(t, err)
	defer body.Drop()
	ok, err := body.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDocumentOpenBytesRoundTrip(t *testing.T) {
	doc := New(&Options{KeyKind: KeyString, Key: "rec-1"})
	data := append([]byte(nil), doc.Bytes()...)

	reopened, err := OpenBytes(data, nil)
	require.NoError(t, err)
	require.Equal(t, "rec-1", reopened.Header().KeyString)
	require.True(t, doc.Equal(reopened))
}

func TestDocumentOpenBytesRejectsNonArrayBody(t *testing.T) {
	bf := NewByteFile(nil)
	h := RecordHeader{KeyKind: KeyNone, Commit: NewCommitHash()}
	enc, err := WriteRecordHeader(nil, h)
	require.NoError(t, err)
	bf.Write(enc)
	bf.WriteByte(byte(MarkerU8)) // body must be an array, this is a bare scalar
	bf.WriteByte(1)

	_, err = OpenBytes(bf.Bytes(), nil)
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestDocumentReviserAddressesBody(t *testing.T) {
	doc := New(nil)
	r := doc.Reviser()
	body, err := doc.Body()
	require.NoError(t, err)
	require.NoError(t, body.FastForward())
	require.NoError(t, body.InsertBegin().InsertScalar(ScalarValue{Type: FieldU8, U64: 42}))
	body.Drop()

	v, err := r.Get("0")
	require.NoError(t, err)
	require.EqualValues(t, 42, v.U64)
}

func TestDocumentOpenFileAndSync(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "carbon-doc-*.bin")
	require.NoError(t, err)
	doc := New(nil)
	_, err = f.Write(doc.Bytes())
	require.NoError(t, err)
	require.NoError(t, f.Close())

	opened, err := OpenFile(f.Name(), nil)
	require.NoError(t, err)
	defer opened.Close()

	body, err := opened.Body()
	require.NoError(t, err)
	require.NoError(t, body.FastForward())
	require.NoError(t, body.InsertBegin().InsertScalar(ScalarValue{Type: FieldString, Str: "grown past mmap"}))
	body.Drop()

	require.NoError(t, opened.Sync())

	reread, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.Equal(t, opened.Bytes(), reread)
}
