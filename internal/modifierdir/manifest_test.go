// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifierdir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathql/pathql/internal/modifierdir"
)

func TestParseManifest_Valid(t *testing.T) {
	m, err := modifierdir.ParseManifest([]byte(`
name: double
version: 1.0.0
entry: double.lua
description: doubles every number in a sequence
`))
	require.NoError(t, err)
	assert.Equal(t, "double", m.Name)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, "double.lua", m.Entry)
}

func TestParseManifest_EmptyData(t *testing.T) {
	_, err := modifierdir.ParseManifest(nil)
	assert.Error(t, err)
}

func TestParseManifest_RejectsBadName(t *testing.T) {
	cases := []string{"Double", "2x", "-lead", "with space"}
	for _, name := range cases {
		_, err := modifierdir.ParseManifest([]byte("name: " + name + "\nversion: 1.0.0\nentry: x.lua\n"))
		assert.Errorf(t, err, "expected %q to be rejected", name)
	}
}

func TestParseManifest_RejectsNonSemverVersion(t *testing.T) {
	_, err := modifierdir.ParseManifest([]byte("name: double\nversion: not-a-version\nentry: x.lua\n"))
	assert.Error(t, err)
}

func TestParseManifest_RequiresEntry(t *testing.T) {
	_, err := modifierdir.ParseManifest([]byte("name: double\nversion: 1.0.0\n"))
	assert.Error(t, err)
}
