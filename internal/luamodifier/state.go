// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package luamodifier loads user-supplied Lua scripts as custom path
// modifiers (spec §5), running each in a sandboxed gopher-lua state with
// only the base, table, string, and math libraries available.
package luamodifier

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// defaultSafeLibraries returns the libraries safe to load in a sandboxed
// state. Blocked: os, io, debug, package — a custom modifier has no
// business touching the filesystem or the process.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// impureGlobals names base/math globals that stay loaded (their other
// members are legitimate value-transform helpers) but that individually
// break spec §5/§8's determinism and purity guarantees for a modifier:
// print emits an observable side effect a pure value-in/value-out
// function must not have, and math.random/math.randomseed make the
// modifier's result depend on something other than (current, options).
// A MUSH command script is expected to do both; a pathql modifier is not.
var impureGlobals = map[string][]string{
	lua.BaseLibName: {"print"},
	lua.MathLibName: {"random", "randomseed"},
}

// StateFactory creates sandboxed Lua states for running custom modifier
// scripts.
type StateFactory struct {
	libraries []safeLibrary
}

// NewStateFactory creates a new state factory.
func NewStateFactory() *StateFactory {
	return &StateFactory{libraries: defaultSafeLibraries()}
}

// NewState creates a fresh Lua state with only the safe libraries loaded,
// and with the globals named in impureGlobals stripped out afterward so a
// modifier script cannot observe or introduce nondeterminism (spec §5:
// "evaluation of a parsed path over a bounded value" is pure; spec §8:
// "evaluate(v, p) is a pure function of (v, p, registry state)").
func (f *StateFactory) NewState(_ context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open library %s: %w", lib.name, err)
		}
		stripImpureGlobals(L, lib.name)
	}

	return L, nil
}

// stripImpureGlobals removes the members of impureGlobals[libName] from
// libName's table (or, for the base library, from the global table itself,
// since base functions are installed as bare globals rather than under a
// library-named table).
func stripImpureGlobals(L *lua.LState, libName string) {
	names, ok := impureGlobals[libName]
	if !ok {
		return
	}
	if libName == lua.BaseLibName {
		for _, n := range names {
			L.SetGlobal(n, lua.LNil)
		}
		return
	}
	tbl, ok := L.GetGlobal(libName).(*lua.LTable)
	if !ok {
		return
	}
	for _, n := range names {
		tbl.RawSetString(n, lua.LNil)
	}
}
