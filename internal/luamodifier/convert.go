// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package luamodifier

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/pathql/pathql/internal/value"
)

// toLua converts a value.Value to a Lua value for passing into a modifier
// script. Mappings become Lua tables keyed by string; since Lua tables are
// unordered, a mapping that round-trips through Lua loses its key order
// (a documented limitation of scripted modifiers, not of the engine).
func toLua(L *lua.LState, v value.Value) lua.LValue {
	switch v.Kind() {
	case value.KindNull:
		return lua.LNil
	case value.KindBool:
		return lua.LBool(v.Bool())
	case value.KindNumber:
		if v.IsInt() {
			return lua.LNumber(v.Int())
		}
		return lua.LNumber(v.Float())
	case value.KindString:
		return lua.LString(v.Str())
	case value.KindSequence:
		t := L.NewTable()
		for i, e := range v.Seq() {
			t.RawSetInt(i+1, toLua(L, e))
		}
		return t
	case value.KindMapping:
		t := L.NewTable()
		for p := v.Map().Oldest(); p != nil; p = p.Next() {
			t.RawSetString(p.Key, toLua(L, p.Value))
		}
		return t
	default:
		return lua.LNil
	}
}

// fromLua converts a Lua value returned by a modifier script back to a
// value.Value. A table is treated as a sequence if every key is a
// contiguous 1-based integer index, else as a mapping.
func fromLua(lv lua.LValue) (value.Value, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return value.Null(), nil
	case lua.LBool:
		return value.BoolOf(bool(v)), nil
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return value.IntOf(int64(f)), nil
		}
		return value.FloatOf(f), nil
	case lua.LString:
		return value.StringOf(string(v)), nil
	case *lua.LTable:
		return tableToValue(v)
	default:
		return value.Value{}, fmt.Errorf("unsupported Lua return type %s", lv.Type().String())
	}
}

func tableToValue(t *lua.LTable) (value.Value, error) {
	n := t.Len()
	isSeq := n > 0
	if isSeq {
		for i := 1; i <= n; i++ {
			if t.RawGetInt(i) == lua.LNil {
				isSeq = false
				break
			}
		}
	}
	if isSeq {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		isSeq = count == n
	}

	if isSeq {
		out := make([]value.Value, 0, n)
		for i := 1; i <= n; i++ {
			elem, err := fromLua(t.RawGetInt(i))
			if err != nil {
				return value.Value{}, err
			}
			out = append(out, elem)
		}
		return value.SeqOf(out), nil
	}

	m := value.NewMapping()
	var rangeErr error
	t.ForEach(func(k, v lua.LValue) {
		if rangeErr != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			rangeErr = fmt.Errorf("modifier table key must be a string, got %s", k.Type().String())
			return
		}
		elem, err := fromLua(v)
		if err != nil {
			rangeErr = err
			return
		}
		m.Set(string(key), elem)
	})
	if rangeErr != nil {
		return value.Value{}, rangeErr
	}
	return value.MapOf(m), nil
}
