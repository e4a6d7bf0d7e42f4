// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package luamodifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathql/pathql/internal/luamodifier"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/value"
)

const doubleScript = `
function modify(current, options)
  local out = {}
  for i, v in ipairs(current) do
    out[i] = v * 2
  end
  return out
end
`

func TestCompile_RunsScriptAgainstSequence(t *testing.T) {
	host := luamodifier.NewHost()
	fn, err := host.Compile("double", doubleScript)
	require.NoError(t, err)

	in := value.SeqOf([]value.Value{value.IntOf(1), value.IntOf(2), value.IntOf(3)})
	out, err := fn(in, value.MapOf(nil))
	require.NoError(t, err)
	require.Len(t, out.Seq(), 3)
	assert.EqualValues(t, 2, out.Seq()[0].Int())
	assert.EqualValues(t, 6, out.Seq()[2].Int())
}

func TestCompile_RejectsMissingModifyFunction(t *testing.T) {
	host := luamodifier.NewHost()
	_, err := host.Compile("broken", "local x = 1")
	assert.Error(t, err)
}

func TestCompile_RejectsSyntaxError(t *testing.T) {
	host := luamodifier.NewHost()
	_, err := host.Compile("broken", "function modify(")
	assert.Error(t, err)
}

func TestRegisterScript_WiresIntoRegistry(t *testing.T) {
	host := luamodifier.NewHost()
	reg := modifier.Builtins()

	require.NoError(t, host.RegisterScript(reg, "double", doubleScript))

	fn, ok := reg.Lookup("double")
	require.True(t, ok)

	in := value.SeqOf([]value.Value{value.IntOf(5)})
	out, err := fn(in, value.MapOf(nil))
	require.NoError(t, err)
	assert.EqualValues(t, 10, out.Seq()[0].Int())
}

func TestSandboxedState_BlocksOSLibrary(t *testing.T) {
	host := luamodifier.NewHost()
	_, err := host.Compile("escape", `
function modify(current, options)
  os.exit(1)
  return current
end
`)
	require.NoError(t, err) // compiles fine, os global just doesn't exist

	fn, _ := host.Compile("escape", `
function modify(current, options)
  return os.getenv("HOME")
end
`)
	_, err = fn(value.Null(), value.MapOf(nil))
	assert.Error(t, err, "os library must not be loaded in the sandbox")
}

func TestSandboxedState_BlocksMathRandom(t *testing.T) {
	host := luamodifier.NewHost()
	fn, err := host.Compile("random", `
function modify(current, options)
  return math.random()
end
`)
	require.NoError(t, err)
	_, err = fn(value.Null(), value.MapOf(nil))
	assert.Error(t, err, "math.random must be stripped so a modifier stays a deterministic function of its inputs")
}

func TestSandboxedState_BlocksPrint(t *testing.T) {
	host := luamodifier.NewHost()
	fn, err := host.Compile("noisy", `
function modify(current, options)
  print("side effect")
  return current
end
`)
	require.NoError(t, err)
	_, err = fn(value.IntOf(1), value.MapOf(nil))
	assert.Error(t, err, "print must be stripped so a modifier cannot produce an observable side effect")
}
