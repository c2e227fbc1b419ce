// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package mediatype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesWellKnownIDs(t *testing.T) {
	r := New()
	name, ok := r.Name(ApplicationJSON)
	require.True(t, ok)
	require.Equal(t, "application/json", name)

	id, ok := r.ID("application/json")
	require.True(t, ok)
	require.EqualValues(t, ApplicationJSON, id)
}

func TestRegistryAutoRegistersUnseenNames(t *testing.T) {
	r := New()
	id, ok := r.ID("application/x-custom")
	require.True(t, ok)

	name, ok := r.Name(id)
	require.True(t, ok)
	require.Equal(t, "application/x-custom", name)

	again, ok := r.ID("application/x-custom")
	require.True(t, ok)
	require.Equal(t, id, again)
}

func TestRegistryUnknownIDMiss(t *testing.T) {
	r := New()
	_, ok := r.Name(999999)
	require.False(t, ok)
}
