// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package modifier implements the `@name` modifier registry and its
// built-in transformations (spec §4.3): @reverse, @sort, @keys, @values,
// @flatten, @this, @valid, @ugly, @pretty, @ascii, @top_n, and @sum_n.
package modifier

import (
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/pathql/pathql/internal/value"
)

// Func is a modifier implementation: given the current value and its
// (possibly empty) JSON-object options, it returns a new value or an
// error.
type Func func(current value.Value, options value.Value) (value.Value, error)

// grammarChars mirrors pathlang's reserved character set; a registered
// name may not contain any of them (spec §4.3).
const grammarChars = ".|#@*?\\():"

// Registry is a name -> Func map. Registration is an atomic mutation
// guarded by a mutex; evaluation only reads, so lookups take no lock
// beyond the map read itself being done under RLock (spec §5: "no
// locking is needed" for a per-engine registry, but a process-wide one
// gets "a mutex-per-mutation").
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry with no built-ins.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Builtins returns a fresh registry pre-populated with every built-in
// modifier.
func Builtins() *Registry {
	r := NewRegistry()
	for name, fn := range builtinFuncs {
		r.funcs[name] = fn
	}
	return r
}

// Register adds a user-supplied modifier under name. It is rejected if
// name collides with a built-in or contains any grammar character.
func Register(r *Registry, name string, fn Func) error {
	if _, reserved := builtinFuncs[name]; reserved {
		return oops.Code("MODIFIER_NAME_COLLISION").
			With("name", name).
			Errorf("%q collides with a built-in modifier", name)
	}
	if strings.ContainsAny(name, grammarChars) || name == "" {
		return oops.Code("MODIFIER_NAME_INVALID").
			With("name", name).
			Errorf("%q is not a valid modifier name", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	return nil
}

// Lookup returns the Func registered under name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}
