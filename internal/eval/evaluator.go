// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package eval walks a parsed path (see internal/pathlang) against a
// value.Value tree, implementing the dot-vs-pipe projection semantics and
// predicate-query matching described by the path language.
package eval

import (
	"strconv"

	"github.com/pathql/pathql/internal/evalerr"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/pathlang"
	"github.com/pathql/pathql/internal/value"
)

// Evaluator applies parsed path Parts to a Value using a shared modifier
// registry. It holds no other state; all per-call state lives in the
// stack frame of Evaluate, so an Evaluator is safe for concurrent reuse
// across independent Evaluate calls (spec §5: the core is pure and
// synchronous).
type Evaluator struct {
	Registry *modifier.Registry
}

// New builds an Evaluator backed by reg. A nil reg falls back to the
// built-in registry (modifier.Builtins()).
func New(reg *modifier.Registry) *Evaluator {
	if reg == nil {
		reg = modifier.Builtins()
	}
	return &Evaluator{Registry: reg}
}

// EvaluatePath parses path and evaluates it against v using reg (or the
// built-in registry if reg is nil). This is the core entry point described
// in spec §6: evaluate(value, path, modifiers?) -> Value | Error.
func EvaluatePath(v value.Value, path string, reg *modifier.Registry) (value.Value, error) {
	parts, err := pathlang.Parse(path)
	if err != nil {
		return value.Value{}, err
	}
	return New(reg).Evaluate(v, parts)
}

// Evaluate walks parts against v, returning the resulting Value or the
// first error encountered.
func (e *Evaluator) Evaluate(v value.Value, parts []pathlang.Part) (value.Value, error) {
	cur := v
	projecting := false

	for i := 0; i < len(parts); i++ {
		part := parts[i]
		switch part.Kind {
		case pathlang.PartLinesPrefix:
			cur = value.SeqOf([]value.Value{cur})
			projecting = true

		case pathlang.PartPipeBoundary:
			projecting = false

		case pathlang.PartField, pathlang.PartWildcard, pathlang.PartIndex:
			next, err := e.applySimplePart(cur, part, projecting)
			if err != nil {
				return value.Value{}, err
			}
			cur = next

		case pathlang.PartArrayAll:
			terminal := i+1 >= len(parts) || parts[i+1].Kind == pathlang.PartPipeBoundary
			if cur.Kind() != value.KindSequence {
				return value.Value{}, evalerr.TypeMismatch(part.Kind.String(), cur.Kind().String())
			}
			if terminal {
				cur = value.IntOf(int64(len(cur.Seq())))
				projecting = false
			} else {
				projecting = true
			}

		case pathlang.PartQuery:
			next, err := e.applyQuery(cur, part)
			if err != nil {
				return value.Value{}, err
			}
			cur = next
			projecting = part.ProjectAll

		case pathlang.PartModifier:
			next, err := e.applyModifier(cur, part)
			if err != nil {
				return value.Value{}, err
			}
			cur = next
			projecting = false
		}
	}

	return cur, nil
}

// applySimplePart applies a single Field/Wildcard/Index part to cur,
// either directly or mapped across a sequence when projecting is true
// (spec §4.2, "Projection collapse").
func (e *Evaluator) applySimplePart(cur value.Value, part pathlang.Part, projecting bool) (value.Value, error) {
	if projecting && cur.Kind() == value.KindSequence {
		var out []value.Value
		for _, elem := range cur.Seq() {
			v, err := applyOnce(elem, part)
			if err != nil {
				continue
			}
			out = append(out, v)
		}
		return value.SeqOf(out), nil
	}
	return applyOnce(cur, part)
}

// applyOnce applies one Field/Wildcard/Index part to a single (non-mapped)
// current value, per the per-Kind table in spec §4.2.
func applyOnce(cur value.Value, part pathlang.Part) (value.Value, error) {
	switch part.Kind {
	case pathlang.PartField:
		return fieldLookup(cur, part.Name)
	case pathlang.PartWildcard:
		return wildcardLookup(cur, part)
	case pathlang.PartIndex:
		return indexLookup(cur, part.Index)
	default:
		return value.Value{}, evalerr.TypeMismatch(part.Kind.String(), cur.Kind().String())
	}
}

func fieldLookup(cur value.Value, name string) (value.Value, error) {
	switch cur.Kind() {
	case value.KindMapping:
		v, ok := cur.Map().Get(name)
		if !ok {
			return value.Value{}, evalerr.NotFound(name)
		}
		return v, nil
	case value.KindSequence:
		return value.Value{}, evalerr.TypeMismatch("field "+name, "sequence")
	default:
		return value.Value{}, evalerr.TypeMismatch("field "+name, cur.Kind().String())
	}
}

func indexLookup(cur value.Value, idx int64) (value.Value, error) {
	switch cur.Kind() {
	case value.KindMapping:
		key := indexKey(idx)
		v, ok := cur.Map().Get(key)
		if !ok {
			return value.Value{}, evalerr.NotFound(key)
		}
		return v, nil
	case value.KindSequence:
		seq := cur.Seq()
		if idx < 0 || int(idx) >= len(seq) {
			return value.Value{}, evalerr.NotFound(indexKey(idx))
		}
		return seq[idx], nil
	default:
		return value.Value{}, evalerr.TypeMismatch("index", cur.Kind().String())
	}
}

func wildcardLookup(cur value.Value, part pathlang.Part) (value.Value, error) {
	if cur.Kind() != value.KindMapping {
		return value.Value{}, evalerr.TypeMismatch("wildcard "+part.Name, cur.Kind().String())
	}
	re, err := pathlang.CompileWildcard(part.Atoms)
	if err != nil {
		return value.Value{}, evalerr.TypeMismatch("wildcard "+part.Name, "invalid pattern")
	}
	for p := cur.Map().Oldest(); p != nil; p = p.Next() {
		if re.MatchString(p.Key) {
			return p.Value, nil
		}
	}
	return value.Value{}, evalerr.NotFound(part.Name)
}

func indexKey(idx int64) string {
	return strconv.FormatInt(idx, 10)
}

// applyModifier dispatches to the registry. Unknown names are a hard
// error, matching spec §4.3 ("the default is to error").
func (e *Evaluator) applyModifier(cur value.Value, part pathlang.Part) (value.Value, error) {
	fn, ok := e.Registry.Lookup(part.ModifierName)
	if !ok {
		return value.Value{}, evalerr.UnknownModifier(part.ModifierName)
	}
	opts := part.ModifierOptions
	if !part.HasOptions {
		opts = value.MapOf(nil)
	}
	return fn(cur, opts)
}
