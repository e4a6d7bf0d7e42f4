// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pathlang

import (
	"strings"
	"unicode/utf8"

	"github.com/pathql/pathql/internal/jsonbridge"
)

type operatorMatch struct {
	text string
	op   Operator
}

// operatorTable is checked longest-first so that e.g. "!%" is recognized
// before its "!"-prefix is mistaken for part of something shorter, and so
// "==" isn't split into two "="-like matches (spec §4.1).
var operatorTable = []operatorMatch{
	{"==", OpEq},
	{"!=", OpNe},
	{"<=", OpLe},
	{">=", OpGe},
	{"!%", OpNotLike},
	{"=~", OpRegex},
	{"<", OpLt},
	{">", OpGt},
	{"%", OpLike},
	{"~", OpTruthy},
}

// parseQueryContent splits the text inside `#(...)` into {key_path,
// operator, value} and decodes the value side per spec §4.1/§4.2.1.
// contentCol is the absolute column, in the original path, of the first
// character of content.
func parseQueryContent(path, content string, contentCol int) (QuerySpec, error) {
	idx, op, found := findOperator(content)
	if !found {
		return QuerySpec{}, newParseError(path, "missing predicate operator", contentCol)
	}

	keyPathStr := content[:idx]
	valueStr := content[idx+len(op.text):]

	var keyParts []Part
	if strings.TrimSpace(keyPathStr) != "" {
		parts, err := parseSubPath(path, keyPathStr, contentCol)
		if err != nil {
			return QuerySpec{}, err
		}
		keyParts = parts
	}

	spec := QuerySpec{KeyPath: keyParts, Op: op.op}

	switch op.op {
	case OpLike, OpNotLike, OpRegex:
		spec.Pattern = unquoteIfJSONString(valueStr)
	case OpTruthy:
		spec.Pattern = strings.TrimSpace(valueStr)
	default:
		trimmed := strings.TrimSpace(valueStr)
		v, err := jsonbridge.DecodeString(trimmed)
		if err != nil {
			return QuerySpec{}, newParseError(path, "invalid predicate value: "+err.Error(), contentCol+utf8.RuneCountInString(keyPathStr)+utf8.RuneCountInString(op.text))
		}
		spec.Literal = v
		spec.HasLiteral = true
	}
	return spec, nil
}

// findOperator scans content left to right for the first (leftmost)
// occurrence of any operator in operatorTable, skipping over quoted JSON
// string spans so an operator-like character inside a value literal that
// precedes the true operator (an unusual but possible key_path shape)
// isn't mistaken for the split point.
func findOperator(content string) (int, operatorMatch, bool) {
	runes := []rune(content)
	inString := false
	for i := 0; i < len(runes); i++ {
		if inString {
			if runes[i] == '\\' {
				i++
				continue
			}
			if runes[i] == '"' {
				inString = false
			}
			continue
		}
		if runes[i] == '"' {
			inString = true
			continue
		}
		for _, cand := range operatorTable {
			tl := []rune(cand.text)
			if i+len(tl) > len(runes) {
				continue
			}
			if string(runes[i:i+len(tl)]) == cand.text {
				byteIdx := len(string(runes[:i]))
				return byteIdx, cand, true
			}
		}
	}
	return 0, operatorTable[0], false
}

// unquoteIfJSONString decodes s as a JSON string literal if it looks like
// one, returning its content; otherwise it returns s trimmed of
// surrounding whitespace, taken as a raw pattern.
func unquoteIfJSONString(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		if v, err := jsonbridge.DecodeString(trimmed); err == nil && v.Kind().String() == "string" {
			return v.Str()
		}
	}
	return trimmed
}

// parseSubPath parses sub (the key_path of a predicate query) as an
// ordinary path and shifts every resulting column by offset so error
// diagnostics continue to point into the original, outer path string.
func parseSubPath(path, sub string, offset int) ([]Part, error) {
	p := &parser{src: []rune(sub), path: path}
	parts, err := p.parse()
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Column += offset
			return nil, pe
		}
		return nil, err
	}
	shiftParts(parts, offset)
	return parts, nil
}

func shiftParts(parts []Part, offset int) {
	for i := range parts {
		parts[i].Column += offset
		if parts[i].Kind == PartQuery {
			shiftParts(parts[i].Query.KeyPath, offset)
		}
	}
}
