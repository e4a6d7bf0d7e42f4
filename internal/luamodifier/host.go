// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package luamodifier

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/value"
)

// Host loads Lua scripts that define a `modify(current, options)` function
// and exposes them as modifier.Func values. Every invocation gets a fresh
// sandboxed state: scripts hold no state across calls.
type Host struct {
	factory *StateFactory
}

// NewHost creates a new Lua modifier host.
func NewHost() *Host {
	return &Host{factory: NewStateFactory()}
}

// Compile validates a script's syntax and that it defines `modify`,
// returning a modifier.Func that evaluates the script fresh on each call.
func (h *Host) Compile(name, script string) (modifier.Func, error) {
	L, err := h.factory.NewState(context.Background())
	if err != nil {
		return nil, oops.In("luamodifier").With("modifier", name).Wrap(err)
	}
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return nil, oops.In("luamodifier").With("modifier", name).Hint("syntax error").Wrap(err)
	}
	if fn := L.GetGlobal("modify"); fn.Type() == lua.LTNil {
		return nil, oops.In("luamodifier").With("modifier", name).New("script does not define a modify(current, options) function")
	}

	return func(current, options value.Value) (value.Value, error) {
		return h.run(name, script, current, options)
	}, nil
}

// RegisterScript compiles script and registers it under name in reg.
func (h *Host) RegisterScript(reg *modifier.Registry, name, script string) error {
	fn, err := h.Compile(name, script)
	if err != nil {
		return err
	}
	return modifier.Register(reg, name, fn)
}

func (h *Host) run(name, script string, current, options value.Value) (value.Value, error) {
	L, err := h.factory.NewState(context.Background())
	if err != nil {
		return value.Value{}, oops.In("luamodifier").With("modifier", name).Wrap(err)
	}
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return value.Value{}, oops.In("luamodifier").With("modifier", name).Hint("failed to load script").Wrap(err)
	}

	modifyFn := L.GetGlobal("modify")
	if modifyFn.Type() == lua.LTNil {
		return value.Value{}, oops.In("luamodifier").With("modifier", name).New("script does not define modify")
	}

	if err := L.CallByParam(lua.P{
		Fn:      modifyFn,
		NRet:    1,
		Protect: true,
	}, toLua(L, current), toLua(L, options)); err != nil {
		return value.Value{}, oops.In("luamodifier").With("modifier", name).Hint("script execution failed").Wrap(err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	out, err := fromLua(ret)
	if err != nil {
		return value.Value{}, oops.In("luamodifier").With("modifier", name).Wrap(err)
	}
	return out, nil
}
