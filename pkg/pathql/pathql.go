// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package pathql is the public, convenience-oriented entry point to the
// path query engine. It wraps the internal decode/evaluate/render
// pipeline (internal/jsonbridge, internal/eval, internal/serialize)
// behind a small surface meant for embedding in other Go programs.
package pathql

import (
	"github.com/pathql/pathql/internal/eval"
	"github.com/pathql/pathql/internal/jsonbridge"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/serialize"
	"github.com/pathql/pathql/internal/value"
)

// Value is the decoded, tagged value tree that queries are run against.
type Value = value.Value

// Registry holds a set of named modifiers available to @modifier parts.
type Registry = modifier.Registry

// Builtins returns a Registry containing the built-in modifiers
// (@reverse, @sort, @keys, @values, @flatten, @this, @valid, @ugly,
// @pretty, @ascii, @top_n, @sum_n).
func Builtins() *Registry {
	return modifier.Builtins()
}

// Decode parses a JSON document into a Value.
func Decode(src string) (Value, error) {
	return jsonbridge.DecodeString(src)
}

// Get evaluates path against the document in src, using the built-in
// modifier registry, and returns the rendered result.
//
// It is the single-shot convenience entry point: decode, evaluate,
// render, in one call.
func Get(src, path string) (string, error) {
	v, err := jsonbridge.DecodeString(src)
	if err != nil {
		return "", err
	}
	return GetValue(v, path, nil)
}

// GetValue evaluates path against an already-decoded Value using reg (or
// the built-in registry if reg is nil), returning the rendered result.
func GetValue(v Value, path string, reg *Registry) (string, error) {
	result, err := eval.EvaluatePath(v, path, reg)
	if err != nil {
		return "", err
	}
	return serialize.Render(result), nil
}

// MustGet is like Get but panics on error. Intended for callers that
// already know path and src are well formed, such as constants baked
// into a program.
func MustGet(src, path string) string {
	out, err := Get(src, path)
	if err != nil {
		panic(err)
	}
	return out
}
