// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifierdir_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathql/pathql/internal/luamodifier"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/modifierdir"
	"github.com/pathql/pathql/internal/value"
)

func writeBundle(t *testing.T, root, name, manifest, script string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modifier.yaml"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entry.lua"), []byte(script), 0o644))
}

const doubleManifest = "name: double\nversion: 1.0.0\nentry: entry.lua\n"
const doubleScript = `
function modify(current, options)
  return current * 2
end
`

func TestLoad_RegistersDiscoveredBundles(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "double-bundle", doubleManifest, doubleScript)

	reg := modifier.Builtins()
	host := luamodifier.NewHost()

	names, err := modifierdir.Load(context.Background(), root, reg, host)
	require.NoError(t, err)
	assert.Equal(t, []string{"double"}, names)

	fn, ok := reg.Lookup("double")
	require.True(t, ok)
	out, err := fn(value.IntOf(21), value.MapOf(nil))
	require.NoError(t, err)
	assert.EqualValues(t, 42, out.Int())
}

func TestLoad_SkipsSubdirectoriesWithoutManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-bundle"), 0o755))

	reg := modifier.Builtins()
	host := luamodifier.NewHost()

	names, err := modifierdir.Load(context.Background(), root, reg, host)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoad_RejectsCollisionWithBuiltin(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "sort-bundle", "name: sort\nversion: 1.0.0\nentry: entry.lua\n", doubleScript)

	reg := modifier.Builtins()
	host := luamodifier.NewHost()

	_, err := modifierdir.Load(context.Background(), root, reg, host)
	assert.Error(t, err)
}

func TestLoad_MissingDirectoryIsAnError(t *testing.T) {
	reg := modifier.Builtins()
	host := luamodifier.NewHost()
	_, err := modifierdir.Load(context.Background(), filepath.Join(t.TempDir(), "missing"), reg, host)
	assert.Error(t, err)
}
