// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifier

import (
	"math"
	"sort"
	"strconv"

	"github.com/pathql/pathql/internal/evalerr"
	"github.com/pathql/pathql/internal/value"
)

var builtinFuncs = map[string]Func{
	"reverse": reverseModifier,
	"sort":    sortModifier,
	"keys":    keysModifier,
	"values":  valuesModifier,
	"flatten": flattenModifier,
	"this":    thisModifier,
	"valid":   validModifier,
	"ugly":    uglyModifier,
	"pretty":  prettyModifier,
	"ascii":   asciiModifier,
	"top_n":   topNModifier,
	"sum_n":   sumNModifier,
}

func reverseModifier(cur, _ value.Value) (value.Value, error) {
	switch cur.Kind() {
	case value.KindSequence:
		seq := cur.Seq()
		out := make([]value.Value, len(seq))
		for i, v := range seq {
			out[len(seq)-1-i] = v
		}
		return value.SeqOf(out), nil
	case value.KindMapping:
		m := cur.Map()
		out := value.NewMapping()
		pairs := make([]value.MappingPair, 0, m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			pairs = append(pairs, *p)
		}
		for i := len(pairs) - 1; i >= 0; i-- {
			out.Set(pairs[i].Key, pairs[i].Value)
		}
		return value.MapOf(out), nil
	default:
		return cur, nil
	}
}

func sortModifier(cur, _ value.Value) (value.Value, error) {
	if cur.Kind() != value.KindSequence {
		return value.Value{}, evalerr.TypeMismatch("@sort", cur.Kind().String())
	}
	seq := append([]value.Value(nil), cur.Seq()...)
	sort.SliceStable(seq, func(i, j int) bool {
		return value.Less(seq[i], seq[j])
	})
	return value.SeqOf(seq), nil
}

func keysModifier(cur, _ value.Value) (value.Value, error) {
	if cur.Kind() != value.KindMapping {
		return value.Value{}, evalerr.TypeMismatch("@keys", cur.Kind().String())
	}
	var out []value.Value
	for p := cur.Map().Oldest(); p != nil; p = p.Next() {
		out = append(out, value.StringOf(p.Key))
	}
	return value.SeqOf(out), nil
}

func valuesModifier(cur, _ value.Value) (value.Value, error) {
	if cur.Kind() != value.KindMapping {
		return value.Value{}, evalerr.TypeMismatch("@values", cur.Kind().String())
	}
	var out []value.Value
	for p := cur.Map().Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return value.SeqOf(out), nil
}

func flattenModifier(cur, opts value.Value) (value.Value, error) {
	if cur.Kind() != value.KindSequence {
		return value.Value{}, evalerr.TypeMismatch("@flatten", cur.Kind().String())
	}
	deep := false
	if opts.Kind() == value.KindMapping {
		if v, ok := opts.Map().Get("deep"); ok {
			deep = v.Truthy()
		}
	}
	return value.SeqOf(flattenOnce(cur.Seq(), deep)), nil
}

func flattenOnce(seq []value.Value, deep bool) []value.Value {
	var out []value.Value
	for _, v := range seq {
		if v.Kind() == value.KindSequence {
			if deep {
				out = append(out, flattenOnce(v.Seq(), true)...)
			} else {
				out = append(out, v.Seq()...)
			}
			continue
		}
		out = append(out, v)
	}
	return out
}

func thisModifier(cur, _ value.Value) (value.Value, error) {
	return cur, nil
}

func validModifier(cur, _ value.Value) (value.Value, error) {
	if err := checkValid(cur); err != nil {
		return value.Value{}, err
	}
	return cur, nil
}

// checkValid rejects the only foreign-to-JSON condition representable in
// this engine's Value model: a non-finite float (JSON numbers must be
// finite; a NaN or Inf can only appear here via a modifier computation,
// e.g. a custom Lua modifier dividing by zero).
func checkValid(v value.Value) error {
	switch v.Kind() {
	case value.KindNumber:
		if !v.IsInt() && (math.IsNaN(v.Float()) || math.IsInf(v.Float(), 0)) {
			return evalerr.InvalidValueForValid("non-finite number")
		}
	case value.KindSequence:
		for _, e := range v.Seq() {
			if err := checkValid(e); err != nil {
				return err
			}
		}
	case value.KindMapping:
		for p := v.Map().Oldest(); p != nil; p = p.Next() {
			if err := checkValid(p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func uglyModifier(cur, _ value.Value) (value.Value, error) {
	return cur.WithRender(value.RenderUgly, value.PrettyOptions{}), nil
}

func asciiModifier(cur, _ value.Value) (value.Value, error) {
	return cur.WithRender(value.RenderASCII, value.PrettyOptions{}), nil
}

func prettyModifier(cur, opts value.Value) (value.Value, error) {
	po := value.PrettyOptions{Indent: 2}
	if opts.Kind() == value.KindMapping {
		if v, ok := opts.Map().Get("indent"); ok {
			po.Indent = int(v.Int())
		}
		if v, ok := opts.Map().Get("prefix"); ok {
			po.Prefix = v.Str()
		}
		if v, ok := opts.Map().Get("sortkeys"); ok {
			po.SortKeys = v.Truthy()
		}
	}
	return cur.WithRender(value.RenderPretty, po), nil
}

// scalarKey renders a scalar Value as a Mapping key string for @top_n's
// grouping and @sum_n's group column.
func scalarKey(v value.Value) (string, bool) {
	switch v.Kind() {
	case value.KindString:
		return v.Str(), true
	case value.KindNumber:
		if v.IsInt() {
			return strconv.FormatInt(v.Int(), 10), true
		}
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), true
	case value.KindBool:
		return strconv.FormatBool(v.Bool()), true
	case value.KindNull:
		return "null", true
	default:
		return "", false
	}
}

type countEntry struct {
	key   string
	count int64
}

func topNModifier(cur, opts value.Value) (value.Value, error) {
	if cur.Kind() != value.KindSequence {
		return value.Value{}, evalerr.TypeMismatch("@top_n", cur.Kind().String())
	}
	n := -1
	if opts.Kind() == value.KindMapping {
		if v, ok := opts.Map().Get("n"); ok {
			n = int(v.Int())
		}
	}

	order := make([]string, 0)
	counts := make(map[string]int64)
	for _, v := range cur.Seq() {
		key, ok := scalarKey(v)
		if !ok {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	entries := make([]countEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, countEntry{key: k, count: counts[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}

	out := value.NewMapping()
	for _, e := range entries {
		out.Set(e.key, value.IntOf(e.count))
	}
	return value.MapOf(out), nil
}

func sumNModifier(cur, opts value.Value) (value.Value, error) {
	if cur.Kind() != value.KindSequence {
		return value.Value{}, evalerr.TypeMismatch("@sum_n", cur.Kind().String())
	}
	if opts.Kind() != value.KindMapping {
		return value.Value{}, evalerr.InvalidModifierOptions("sum_n", "options must be a JSON object")
	}
	groupOpt, ok := opts.Map().Get("group")
	if !ok || groupOpt.Kind() != value.KindString {
		return value.Value{}, evalerr.InvalidModifierOptions("sum_n", "\"group\" is required and must be a string")
	}
	sumOpt, ok := opts.Map().Get("sum")
	if !ok || sumOpt.Kind() != value.KindString {
		return value.Value{}, evalerr.InvalidModifierOptions("sum_n", "\"sum\" is required and must be a string")
	}
	n := -1
	if v, ok := opts.Map().Get("n"); ok {
		n = int(v.Int())
	}
	groupKey, sumKey := groupOpt.Str(), sumOpt.Str()

	order := make([]string, 0)
	sums := make(map[string]float64)
	for _, elem := range cur.Seq() {
		if elem.Kind() != value.KindMapping {
			continue
		}
		g, ok := elem.Map().Get(groupKey)
		if !ok {
			continue
		}
		s, ok := elem.Map().Get(sumKey)
		if !ok || s.Kind() != value.KindNumber {
			continue
		}
		key, ok := scalarKey(g)
		if !ok {
			continue
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += s.Float()
	}

	type sumEntry struct {
		key string
		sum float64
	}
	entries := make([]sumEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, sumEntry{key: k, sum: sums[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].sum > entries[j].sum
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}

	out := value.NewMapping()
	for _, e := range entries {
		out.Set(e.key, value.FloatOf(e.sum))
	}
	return value.MapOf(out), nil
}
