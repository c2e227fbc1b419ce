// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package stringdict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInsertAndExtractRoundTrip(t *testing.T) {
	d := New(100, time.Minute)
	defer d.Close()

	ids, err := d.Insert([]string{"alpha", "beta", "alpha"})
	require.NoError(t, err)
	require.Equal(t, ids[0], ids[2], "repeated string reuses its id")
	require.NotEqual(t, ids[0], ids[1])

	strs, err := d.Extract(ids)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "alpha"}, strs)
}

func TestLocateFindsInsertedStrings(t *testing.T) {
	d := New(100, time.Minute)
	defer d.Close()

	ids, err := d.Insert([]string{"gamma"})
	require.NoError(t, err)

	gotIDs, found, err := d.Locate([]string{"gamma", "never-inserted"})
	require.NoError(t, err)
	require.True(t, found[0])
	require.Equal(t, ids[0], gotIDs[0])
	require.False(t, found[1])
}

func TestRemoveDeletesMapping(t *testing.T) {
	d := New(100, time.Minute)
	defer d.Close()

	ids, err := d.Insert([]string{"delta"})
	require.NoError(t, err)
	require.NoError(t, d.Remove(ids))

	_, found, err := d.Locate([]string{"delta"})
	require.NoError(t, err)
	require.False(t, found[0])

	_, err = d.Extract(ids)
	require.Error(t, err)
}

func TestExtractUnknownIDErrors(t *testing.T) {
	d := New(10, time.Minute)
	defer d.Close()
	_, err := d.Extract([]uint64{42})
	require.Error(t, err)
}
