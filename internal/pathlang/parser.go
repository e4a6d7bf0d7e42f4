// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pathlang

import (
	"strings"

	"github.com/pathql/pathql/internal/jsonbridge"
	"github.com/pathql/pathql/internal/value"
)

// grammarChars is the set of characters with special meaning in the path
// grammar; a modifier name is the maximal run of runes outside this set.
const grammarChars = ".|#@*?\\():"

// Parse tokenizes and parses path into an ordered list of Parts.
func Parse(path string) ([]Part, error) {
	p := &parser{src: []rune(path), path: path}
	return p.parse()
}

type parser struct {
	src  []rune
	path string
	pos  int // index into src, in code points
}

func (p *parser) parse() ([]Part, error) {
	var parts []Part

	if p.hasLinesPrefix() {
		parts = append(parts, Part{Kind: PartLinesPrefix, Column: 0})
		p.pos += 2
	}

	// an empty remainder after a lines prefix (or an entirely empty path)
	// yields no further parts -- `..` alone is valid, the whole path by
	// itself is the identity query.
	if p.pos >= len(p.src) {
		return parts, nil
	}

	for !p.atEnd() {
		if p.peek() == '.' || p.peek() == '|' {
			sep := p.peek()
			col := p.pos
			p.pos++
			if p.atEnd() || p.peek() == '.' || p.peek() == '|' {
				return nil, newParseError(p.path, "empty query part", col+1)
			}
			if sep == '|' {
				parts = append(parts, Part{Kind: PartPipeBoundary, Column: col})
			}
			continue
		}

		part, err := p.parsePart()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	return parts, nil
}

func (p *parser) hasLinesPrefix() bool {
	return len(p.src) >= 2 && p.src[0] == '.' && p.src[1] == '.'
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

// parsePart dispatches on the next character to produce a single Part.
func (p *parser) parsePart() (Part, error) {
	col := p.pos
	switch p.peek() {
	case '#':
		return p.parseHash(col)
	case '@':
		return p.parseModifier(col)
	default:
		return p.parseFieldLike(col)
	}
}

// parseHash handles a bare `#` (ArrayAll) or a `#(...)`/`#(...)#` Query.
func (p *parser) parseHash(col int) (Part, error) {
	p.pos++ // consume '#'
	if p.peek() != '(' {
		return Part{Kind: PartArrayAll, Column: col}, nil
	}
	content, err := p.scanBalancedParens()
	if err != nil {
		return Part{}, err
	}
	projectAll := false
	if p.peek() == '#' {
		projectAll = true
		p.pos++
	}
	spec, err := parseQueryContent(p.path, content, col+2)
	if err != nil {
		return Part{}, err
	}
	return Part{Kind: PartQuery, Column: col, Query: spec, ProjectAll: projectAll}, nil
}

// scanBalancedParens consumes a leading '(' through its matching ')',
// respecting JSON string quoting, and rejecting a nested unescaped '#(' --
// full subquery nesting is a declared non-goal (spec §9).
func (p *parser) scanBalancedParens() (string, error) {
	openCol := p.pos
	p.pos++ // consume '('
	depth := 1
	inString := false
	var sb strings.Builder
	for {
		if p.atEnd() {
			return "", newParseError(p.path, "unterminated query", openCol)
		}
		c := p.src[p.pos]
		if inString {
			sb.WriteRune(c)
			p.pos++
			if c == '\\' && !p.atEnd() {
				sb.WriteRune(p.src[p.pos])
				p.pos++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			sb.WriteRune(c)
			p.pos++
		case '(':
			// A nested '(' not preceded by '#' is allowed inside the
			// value side of the predicate (e.g. a glob group); only a
			// nested '#(' is rejected below before reaching here.
			depth++
			sb.WriteRune(c)
			p.pos++
		case ')':
			depth--
			p.pos++
			if depth == 0 {
				return sb.String(), nil
			}
			sb.WriteRune(c)
		case '#':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '(' {
				return "", newParseError(p.path, "nested predicate queries are not supported", p.pos)
			}
			sb.WriteRune(c)
			p.pos++
		default:
			sb.WriteRune(c)
			p.pos++
		}
	}
}

// parseModifier handles `@name` and an optional `:{json-options}` suffix.
func (p *parser) parseModifier(col int) (Part, error) {
	p.pos++ // consume '@'
	nameStart := p.pos
	for !p.atEnd() && !strings.ContainsRune(grammarChars, p.peek()) {
		p.pos++
	}
	name := string(p.src[nameStart:p.pos])
	if name == "" {
		return Part{}, newParseError(p.path, "empty modifier name", col)
	}
	part := Part{Kind: PartModifier, Column: col, ModifierName: name}
	if p.peek() != ':' {
		return part, nil
	}
	p.pos++ // consume ':'
	optStart := p.pos
	if err := p.skipJSONValue(); err != nil {
		return Part{}, err
	}
	optText := string(p.src[optStart:p.pos])
	v, err := jsonbridge.DecodeString(optText)
	if err != nil {
		return Part{}, newParseError(p.path, "invalid modifier options: "+err.Error(), optStart)
	}
	if v.Kind() != value.KindMapping {
		return Part{}, newParseError(p.path, "modifier options must be a JSON object", optStart)
	}
	part.HasOptions = true
	part.ModifierOptions = v
	return part, nil
}

// skipJSONValue advances pos past one JSON value (object, array, string,
// or bare literal), stopping at the first unescaped top-level path
// separator once bracket/brace depth returns to zero (spec §4.1: "the
// options span ends at the first unescaped top-level path separator").
func (p *parser) skipJSONValue() error {
	start := p.pos
	depth := 0
	inString := false
	for !p.atEnd() {
		c := p.src[p.pos]
		if inString {
			p.pos++
			if c == '\\' && !p.atEnd() {
				p.pos++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			p.pos++
		case '{', '[':
			depth++
			p.pos++
		case '}', ']':
			depth--
			p.pos++
			if depth == 0 {
				return nil
			}
		case '.', '|':
			if depth == 0 {
				if p.pos == start {
					return newParseError(p.path, "empty modifier options", start)
				}
				return nil
			}
			p.pos++
		default:
			p.pos++
		}
	}
	return nil
}
