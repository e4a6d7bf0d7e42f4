// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package eval

import (
	"regexp"

	"github.com/gobwas/glob"

	"github.com/pathql/pathql/internal/evalerr"
	"github.com/pathql/pathql/internal/pathlang"
	"github.com/pathql/pathql/internal/value"
)

// applyQuery evaluates a `#(...)`/`#(...)#` predicate against cur, which
// must be a Sequence (spec §4.2.1).
func (e *Evaluator) applyQuery(cur value.Value, part pathlang.Part) (value.Value, error) {
	if cur.Kind() != value.KindSequence {
		return value.Value{}, evalerr.TypeMismatch("predicate query", cur.Kind().String())
	}

	var patternGlob glob.Glob
	var patternRe *regexp.Regexp
	switch part.Query.Op {
	case pathlang.OpLike, pathlang.OpNotLike:
		g, err := pathlang.CompileGlobPattern(part.Query.Pattern)
		if err != nil {
			return value.Value{}, evalerr.TypeMismatch("predicate pattern", "invalid wildcard")
		}
		patternGlob = g
	case pathlang.OpRegex:
		re, err := regexp.Compile(part.Query.Pattern)
		if err != nil {
			return value.Value{}, evalerr.TypeMismatch("predicate pattern", "invalid regex")
		}
		patternRe = re
	}

	var matches []value.Value
	for _, elem := range cur.Seq() {
		probe, ok := e.probe(elem, part.Query)
		if !ok {
			continue
		}
		if matchesPredicate(probe, part.Query, patternGlob, patternRe) {
			matches = append(matches, elem)
		}
	}

	if part.ProjectAll {
		return value.SeqOf(matches), nil
	}
	if len(matches) == 0 {
		return value.Value{}, evalerr.NotFound("predicate query")
	}
	return matches[0], nil
}

// probe resolves the key_path of a predicate against one candidate
// element. An empty key_path probes the element itself. Any evaluation
// failure along the way (missing field, type mismatch) reports ok=false
// so the caller treats the element as a non-match rather than
// propagating an error (spec §4.2.1: "error is swallowed to preserve
// upstream behavior").
func (e *Evaluator) probe(elem value.Value, spec pathlang.QuerySpec) (value.Value, bool) {
	if len(spec.KeyPath) == 0 {
		return elem, true
	}
	v, err := e.Evaluate(elem, spec.KeyPath)
	if err != nil {
		return value.Value{}, false
	}
	return v, true
}

// matchesPredicate applies spec's operator to probe and the parsed
// literal/pattern, per the contract in spec §4.2.1.
func matchesPredicate(probe value.Value, spec pathlang.QuerySpec, patternGlob glob.Glob, patternRe *regexp.Regexp) bool {
	switch spec.Op {
	case pathlang.OpEq:
		return value.Equal(probe, spec.Literal)
	case pathlang.OpNe:
		return !value.Equal(probe, spec.Literal)
	case pathlang.OpLt, pathlang.OpLe, pathlang.OpGt, pathlang.OpGe:
		cmp, ok := value.Compare(probe, spec.Literal)
		if !ok {
			return false
		}
		switch spec.Op {
		case pathlang.OpLt:
			return cmp < 0
		case pathlang.OpLe:
			return cmp <= 0
		case pathlang.OpGt:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case pathlang.OpRegex:
		if probe.Kind() != value.KindString {
			return false
		}
		return patternRe.MatchString(probe.Str())
	case pathlang.OpLike:
		if probe.Kind() != value.KindString {
			return false
		}
		return patternGlob.Match(probe.Str())
	case pathlang.OpNotLike:
		if probe.Kind() != value.KindString {
			return false
		}
		return !patternGlob.Match(probe.Str())
	case pathlang.OpTruthy:
		return matchesTruthyTag(probe, spec.Pattern)
	default:
		return false
	}
}

// matchesTruthyTag implements the `~` operator's documented convention
// (spec §9 Open Questions): "true"/"false" check the standard truthiness
// convention, "null" checks for an explicit null, and "*" matches any
// value the key_path successfully resolved to.
func matchesTruthyTag(probe value.Value, tag string) bool {
	switch tag {
	case "true":
		return probe.Truthy()
	case "false":
		return !probe.Truthy()
	case "null":
		return probe.IsNull()
	case "*":
		return true
	default:
		return false
	}
}
