// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteFileWriteReadRoundTrip(t *testing.T) {
	bf := NewByteFile(nil)
	bf.Write([]byte("hello"))
	require.Equal(t, 5, bf.Size())
	bf.Seek(0)
	b, err := bf.Read(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(b))
}

func TestByteFilePeekDoesNotAdvance(t *testing.T) {
	bf := NewByteFile([]byte{1, 2, 3})
	b, err := bf.Peek(2)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b)
	require.Equal(t, 0, bf.Tell())
}

func TestByteFileSavePositionStackIsLIFO(t *testing.T) {
	bf := NewByteFile(make([]byte, 10))
	bf.Seek(3)
	bf.SavePosition()
	bf.Seek(7)
	bf.SavePosition()
	bf.Seek(9)
	require.NoError(t, bf.RestorePosition())
	require.Equal(t, 7, bf.Tell())
	require.NoError(t, bf.RestorePosition())
	require.Equal(t, 3, bf.Tell())
	require.ErrorIs(t, bf.RestorePosition(), ErrNoSavedPosition)
}

func TestByteFileInplaceInsertShiftsTail(t *testing.T) {
	bf := NewByteFile([]byte("abcXYZ"))
	bf.Seek(3)
	region := bf.InplaceInsert(2)
	require.Len(t, region, 2)
	copy(region, "12")
	require.Equal(t, "abc12XYZ", string(bf.Bytes()))
}

func TestByteFileInplaceRemoveShiftsTail(t *testing.T) {
	bf := NewByteFile([]byte("abc12XYZ"))
	bf.Seek(3)
	bf.InplaceRemove(2)
	require.Equal(t, "abcXYZ", string(bf.Bytes()))
	require.Equal(t, 3, bf.Tell())
}

func TestByteFileLockPreventsDoubleLock(t *testing.T) {
	bf := NewByteFile(nil)
	require.NoError(t, bf.Lock(5))
	require.ErrorIs(t, bf.Lock(5), ErrInternal)
	bf.Unlock(5)
	require.NoError(t, bf.Lock(5))
}

func TestByteFileVaruintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 40, ^uint64(0)} {
		bf := NewByteFile(nil)
		bf.WriteVaruint(v)
		bf.Seek(0)
		got, err := bf.ReadVaruint()
		require.NoError(t, err)
		require.Equal(t, v, got, "round trip of %d", v)
	}
}

func TestByteFileUpdateVaruintGrowsPreservingTail(t *testing.T) {
	bf := NewByteFile(nil)
	bf.WriteVaruint(1)
	bf.Write([]byte("TAIL"))

	bf.Seek(0)
	delta, err := bf.UpdateVaruint(1 << 40)
	require.NoError(t, err)
	require.Greater(t, delta, 0)

	v, err := bf.PeekVaruint()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), v)

	n, width, err := bf.peekVaruintAt(0)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), n)
	tail, err := bf.SliceAt(width, 4)
	require.NoError(t, err)
	require.Equal(t, "TAIL", string(tail))
}

func TestByteFileOutOfRangeErrors(t *testing.T) {
	bf := NewByteFile([]byte{1, 2, 3})
	_, err := bf.ByteAt(10)
	require.ErrorIs(t, err, ErrMalformedDocument)
	_, err = bf.Peek(10)
	require.ErrorIs(t, err, ErrMalformedDocument)
}
