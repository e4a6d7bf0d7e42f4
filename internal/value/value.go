// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package value defines the tagged value model that the path engine walks:
// null, bool, number (integer or float), string, ordered sequence, and
// ordered mapping. Mapping order is preserved end to end, from decode
// through evaluation to serialization, because the engine's equality and
// modifier contracts depend on it.
package value

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// RenderMode records which serialization a modifier requested for the final
// result. It rides along on the Value rather than being threaded through
// the evaluator as a side channel, since @ugly/@pretty/@ascii can appear
// anywhere in a modifier chain.
type RenderMode uint8

const (
	RenderDefault RenderMode = iota
	RenderUgly
	RenderPretty
	RenderASCII
)

// PrettyOptions configures @pretty. The upstream GJSON "width" option is
// deliberately not honored (see spec §6).
type PrettyOptions struct {
	Indent   int
	Prefix   string
	SortKeys bool
}

type renderSpec struct {
	mode   RenderMode
	pretty PrettyOptions
}

// Mapping is the ordered key->value container backing KindMapping values.
type Mapping = orderedmap.OrderedMap[string, Value]

// MappingPair is one entry of a Mapping, yielded in insertion order.
type MappingPair = orderedmap.Pair[string, Value]

// NewMapping returns an empty, ordered Mapping.
func NewMapping() *Mapping {
	return orderedmap.New[string, Value]()
}

// Value is an immutable, tagged JSON-like value. The zero Value is Null.
type Value struct {
	kind   Kind
	b      bool
	isInt  bool
	i      int64
	f      float64
	s      string
	seq    []Value
	m      *Mapping
	render *renderSpec
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// BoolOf wraps a bool.
func BoolOf(b bool) Value { return Value{kind: KindBool, b: b} }

// IntOf wraps an integer number, preserving its integer-ness.
func IntOf(i int64) Value { return Value{kind: KindNumber, isInt: true, i: i} }

// FloatOf wraps a floating point number.
func FloatOf(f float64) Value { return Value{kind: KindNumber, f: f} }

// StringOf wraps a string.
func StringOf(s string) Value { return Value{kind: KindString, s: s} }

// SeqOf wraps an ordered sequence. A nil slice is treated as empty.
func SeqOf(elems []Value) Value { return Value{kind: KindSequence, seq: elems} }

// MapOf wraps an ordered mapping. A nil map is treated as empty.
func MapOf(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, m: m}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; meaningless unless Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// IsInt reports whether a KindNumber value was decoded/produced as an integer.
func (v Value) IsInt() bool { return v.isInt }

// Int returns the number as an int64, converting from float if necessary.
func (v Value) Int() int64 {
	if v.isInt {
		return v.i
	}
	return int64(v.f)
}

// Float returns the number as a float64, converting from int if necessary.
func (v Value) Float() float64 {
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

// Str returns the string payload; meaningless unless Kind() == KindString.
func (v Value) Str() string { return v.s }

// Seq returns the sequence elements; nil unless Kind() == KindSequence.
func (v Value) Seq() []Value { return v.seq }

// Map returns the backing ordered mapping; nil unless Kind() == KindMapping.
func (v Value) Map() *Mapping { return v.m }

// Len reports the natural length of a sequence or mapping, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		if v.m == nil {
			return 0
		}
		return v.m.Len()
	default:
		return 0
	}
}

// Truthy implements the "non-empty, non-zero, non-null" convention used by
// the `~` predicate operator (spec §4.2.1, §9 Open Questions). Implementers
// are told this convention may diverge from the reference implementation on
// edge cases; this is the documented choice for this engine.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		if v.isInt {
			return v.i != 0
		}
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindSequence:
		return len(v.seq) > 0
	case KindMapping:
		return v.m != nil && v.m.Len() > 0
	default:
		return false
	}
}

// WithRender attaches a serialization hint to v, as @ugly/@pretty/@ascii do.
// It returns a new Value; the receiver is left unmodified.
func (v Value) WithRender(mode RenderMode, opts PrettyOptions) Value {
	v.render = &renderSpec{mode: mode, pretty: opts}
	return v
}

// RenderMode reports the serialization mode attached by a modifier, or
// RenderDefault if none was attached.
func (v Value) RenderMode() RenderMode {
	if v.render == nil {
		return RenderDefault
	}
	return v.render.mode
}

// RenderOptions reports the @pretty options attached by a modifier.
func (v Value) RenderOptions() PrettyOptions {
	if v.render == nil {
		return PrettyOptions{}
	}
	return v.render.pretty
}
