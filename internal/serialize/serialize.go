// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package serialize renders a value.Value back to JSON text, honoring the
// render mode a modifier chain may have attached to it (spec §6):
// default (UTF-8, non-ASCII preserved), @ugly (no whitespace), @pretty
// (indented, with optional indent/prefix/sortkeys options), and @ascii
// (non-ASCII escaped as \uXXXX).
package serialize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pathql/pathql/internal/value"
)

// Render serializes v according to its attached RenderMode/RenderOptions.
func Render(v value.Value) string {
	switch v.RenderMode() {
	case value.RenderUgly:
		return renderCompact(v, false)
	case value.RenderASCII:
		return renderSpaced(v, true)
	case value.RenderPretty:
		return renderPretty(v, v.RenderOptions())
	default:
		return renderSpaced(v, false)
	}
}

func renderCompact(v value.Value, asciiOnly bool) string {
	var sb strings.Builder
	writeCompact(&sb, v, asciiOnly)
	return sb.String()
}

func renderSpaced(v value.Value, asciiOnly bool) string {
	var sb strings.Builder
	writeSpaced(&sb, v, asciiOnly)
	return sb.String()
}

func writeCompact(sb *strings.Builder, v value.Value, asciiOnly bool) {
	switch v.Kind() {
	case value.KindNull:
		sb.WriteString("null")
	case value.KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool()))
	case value.KindNumber:
		sb.WriteString(formatNumber(v))
	case value.KindString:
		writeString(sb, v.Str(), asciiOnly)
	case value.KindSequence:
		sb.WriteByte('[')
		for i, e := range v.Seq() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, e, asciiOnly)
		}
		sb.WriteByte(']')
	case value.KindMapping:
		sb.WriteByte('{')
		i := 0
		for p := v.Map().Oldest(); p != nil; p = p.Next() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, p.Key, asciiOnly)
			sb.WriteByte(':')
			writeCompact(sb, p.Value, asciiOnly)
			i++
		}
		sb.WriteByte('}')
	}
}

func writeSpaced(sb *strings.Builder, v value.Value, asciiOnly bool) {
	switch v.Kind() {
	case value.KindSequence:
		sb.WriteByte('[')
		for i, e := range v.Seq() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeSpaced(sb, e, asciiOnly)
		}
		sb.WriteByte(']')
	case value.KindMapping:
		sb.WriteByte('{')
		i := 0
		for p := v.Map().Oldest(); p != nil; p = p.Next() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeString(sb, p.Key, asciiOnly)
			sb.WriteString(": ")
			writeSpaced(sb, p.Value, asciiOnly)
			i++
		}
		sb.WriteByte('}')
	default:
		writeCompact(sb, v, asciiOnly)
	}
}

func renderPretty(v value.Value, opts value.PrettyOptions) string {
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	var sb strings.Builder
	writePretty(&sb, v, opts, indent, 0)
	return opts.Prefix + sb.String()
}

func writePretty(sb *strings.Builder, v value.Value, opts value.PrettyOptions, indent, depth int) {
	pad := func(d int) {
		sb.WriteByte('\n')
		sb.WriteString(opts.Prefix)
		sb.WriteString(strings.Repeat(" ", indent*d))
	}

	switch v.Kind() {
	case value.KindSequence:
		seq := v.Seq()
		if len(seq) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		for i, e := range seq {
			if i > 0 {
				sb.WriteByte(',')
			}
			pad(depth + 1)
			writePretty(sb, e, opts, indent, depth+1)
		}
		pad(depth)
		sb.WriteByte(']')
	case value.KindMapping:
		pairs := mappingPairs(v, opts.SortKeys)
		if len(pairs) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteByte('{')
		for i, p := range pairs {
			if i > 0 {
				sb.WriteByte(',')
			}
			pad(depth + 1)
			writeString(sb, p.Key, false)
			sb.WriteString(": ")
			writePretty(sb, p.Value, opts, indent, depth+1)
		}
		pad(depth)
		sb.WriteByte('}')
	default:
		writeCompact(sb, v, false)
	}
}

func mappingPairs(v value.Value, sortKeys bool) []value.MappingPair {
	pairs := make([]value.MappingPair, 0, v.Len())
	for p := v.Map().Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, *p)
	}
	if sortKeys {
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	}
	return pairs
}

func formatNumber(v value.Value) string {
	if v.IsInt() {
		return strconv.FormatInt(v.Int(), 10)
	}
	return strconv.FormatFloat(v.Float(), 'g', -1, 64)
}

func writeString(sb *strings.Builder, s string, asciiOnly bool) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(sb, `\u%04x`, r)
			case r < utf8.RuneSelf, !asciiOnly:
				sb.WriteRune(r)
			default:
				writeUnicodeEscape(sb, r)
			}
		}
	}
	sb.WriteByte('"')
}

// writeUnicodeEscape emits r as one \uXXXX escape, or a surrogate pair for
// code points outside the Basic Multilingual Plane (spec §6: @ascii
// "escapes non-ASCII characters via \uXXXX").
func writeUnicodeEscape(sb *strings.Builder, r rune) {
	if r <= 0xFFFF {
		fmt.Fprintf(sb, `\u%04x`, r)
		return
	}
	r -= 0x10000
	hi := 0xD800 + (r >> 10)
	lo := 0xDC00 + (r & 0x3FF)
	fmt.Fprintf(sb, `\u%04x\u%04x`, hi, lo)
}
