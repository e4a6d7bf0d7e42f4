// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package jsonbridge decodes JSON text into the engine's value.Value tree.
// Decoding itself is explicitly out of the path engine's core scope (callers
// may prefer any JSON library); this package exists only because ingesting a
// document for evaluation or for modifier-option literals needs a decoder
// that preserves object key order end to end, which encoding/json's native
// map[string]any does not.
package jsonbridge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pathql/pathql/internal/value"
)

// Decode reads exactly one JSON value from r and converts it to a value.Value,
// preserving object key insertion order.
func Decode(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return value.Value{}, fmt.Errorf("jsonbridge: %w", err)
	}
	return v, nil
}

// DecodeString is a convenience wrapper around Decode for in-memory text.
func DecodeString(s string) (value.Value, error) {
	return Decode(strings.NewReader(s))
}

// decodeValue consumes the next JSON token from dec and builds the
// corresponding Value, recursing into arrays and objects.
func decodeValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return buildValue(dec, tok)
}

func buildValue(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.BoolOf(t), nil
	case string:
		return value.StringOf(t), nil
	case json.Number:
		return numberValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		default:
			return value.Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return value.Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

func numberValue(n json.Number) value.Value {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return value.IntOf(i)
		}
	}
	f, _ := n.Float64()
	return value.FloatOf(f)
}

func decodeArray(dec *json.Decoder) (value.Value, error) {
	var elems []value.Value
	for dec.More() {
		elem, err := decodeValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, elem)
	}
	// consume the closing ']'
	if _, err := dec.Token(); err != nil {
		return value.Value{}, err
	}
	return value.SeqOf(elems), nil
}

func decodeObject(dec *json.Decoder) (value.Value, error) {
	m := value.NewMapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected object key, got %T", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(key, val)
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return value.Value{}, err
	}
	return value.MapOf(m), nil
}

// DecodeLines scans r line by line and decodes each non-blank line as an
// independent JSON document, for the CLI's "--lines" framing of a
// JSON-Lines stream (spec §6: "JSON-Lines stream reading... is done by
// the CLI; the core only understands a leading `..` operator that wraps
// one value into a singleton sequence"). It returns one value.Value per
// decoded line, each meant to be evaluated independently against the
// leading ".." path prefix -- not merged into a single combined sequence,
// since a "..#(...)"-style path is defined over one framed line at a
// time, not over the whole stream at once.
//
// The scan buffer starts at 64KiB and grows up to 16MiB, so a single
// JSON-Lines record may be up to 16MiB long; a longer line makes
// DecodeLines return an error rather than silently truncating it.
func DecodeLines(r io.Reader) ([]value.Value, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var docs []value.Value
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		v, err := DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("jsonbridge: decoding line: %w", err)
		}
		docs = append(docs, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jsonbridge: reading lines: %w", err)
	}
	return docs, nil
}
