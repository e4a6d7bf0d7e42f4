// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package pathlang implements the lexer and parser for the GJSON-style path
// language: a hand-written recursive-descent scanner that turns a path
// string into an ordered list of Parts, each carrying the code-point column
// it started at so a ParseError can point a caret at the offending character.
package pathlang

import "github.com/pathql/pathql/internal/value"

// PartKind tags which variant a Part holds.
type PartKind uint8

const (
	PartField PartKind = iota
	PartIndex
	PartWildcard
	PartArrayAll
	PartQuery
	PartModifier
	PartPipeBoundary
	PartLinesPrefix
)

func (k PartKind) String() string {
	switch k {
	case PartField:
		return "field"
	case PartIndex:
		return "index"
	case PartWildcard:
		return "wildcard"
	case PartArrayAll:
		return "array-all"
	case PartQuery:
		return "query"
	case PartModifier:
		return "modifier"
	case PartPipeBoundary:
		return "pipe-boundary"
	case PartLinesPrefix:
		return "lines-prefix"
	default:
		return "unknown"
	}
}

// Operator enumerates the comparison operators a Query predicate can use.
type Operator uint8

const (
	OpEq Operator = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLike
	OpNotLike
	OpRegex
	OpTruthy
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLike:
		return "%"
	case OpNotLike:
		return "!%"
	case OpRegex:
		return "=~"
	case OpTruthy:
		return "~"
	default:
		return "?"
	}
}

// QuerySpec is the parsed content of a `#(key_path op value)` predicate.
type QuerySpec struct {
	// KeyPath is the (possibly empty) sub-path evaluated against each
	// candidate element before the operator is applied.
	KeyPath []Part
	Op      Operator
	// Literal holds the decoded JSON literal for comparison operators.
	Literal value.Value
	// Pattern holds the raw pattern text for %, !%, and =~ operators,
	// and the raw tag text ("true"/"false"/"null"/"*") for ~.
	Pattern string
	// HasLiteral reports whether Literal is meaningful: true for the
	// comparison operators (==, !=, <, <=, >, >=), false for %, !%, =~
	// and ~ (e.g. `#(~true)`), which only use Pattern.
	HasLiteral bool
}

// WildcardAtomKind tags one element of a compiled wildcard pattern.
type WildcardAtomKind uint8

const (
	AtomLiteral WildcardAtomKind = iota
	AtomStar
	AtomQuestion
)

// WildcardAtom is one character position of a Wildcard field name, tagged
// with whether it is an unescaped `*`/`?` metacharacter or a literal rune
// (including an escaped `*`/`?`, which reverts to a literal -- spec §4.1).
type WildcardAtom struct {
	Kind WildcardAtomKind
	Lit  rune
}

// Part is one lexical unit produced by the parser.
type Part struct {
	Kind PartKind
	// Column is the 0-based code-point offset this part started at in
	// the original path string.
	Column int

	// Field
	Name string

	// Wildcard
	Atoms []WildcardAtom

	// Index
	Index int64

	// Query
	Query      QuerySpec
	ProjectAll bool

	// Modifier
	ModifierName    string
	ModifierOptions value.Value
	HasOptions      bool
}
