// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifier_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/value"
)

func ints(vals ...int64) value.Value {
	out := make([]value.Value, len(vals))
	for i, v := range vals {
		out[i] = value.IntOf(v)
	}
	return value.SeqOf(out)
}

func TestSort_Ascending(t *testing.T) {
	r := modifier.Builtins()
	fn, _ := r.Lookup("sort")
	out, err := fn(ints(3, 1, 2), value.MapOf(nil))
	require.NoError(t, err)
	require.Len(t, out.Seq(), 3)
	assert.EqualValues(t, 1, out.Seq()[0].Int())
	assert.EqualValues(t, 2, out.Seq()[1].Int())
	assert.EqualValues(t, 3, out.Seq()[2].Int())
}

func TestReverse_Sequence(t *testing.T) {
	r := modifier.Builtins()
	fn, _ := r.Lookup("reverse")
	out, err := fn(ints(3, 2, 1), value.MapOf(nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Seq()[0].Int())
	assert.EqualValues(t, 2, out.Seq()[1].Int())
	assert.EqualValues(t, 3, out.Seq()[2].Int())
}

func TestReverse_MappingKeyOrder(t *testing.T) {
	m := value.NewMapping()
	m.Set("a", value.IntOf(1))
	m.Set("b", value.IntOf(2))

	r := modifier.Builtins()
	fn, _ := r.Lookup("reverse")
	out, err := fn(value.MapOf(m), value.MapOf(nil))
	require.NoError(t, err)

	var keys []string
	for p := out.Map().Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"b", "a"}, keys)
}

func TestKeysAndValues(t *testing.T) {
	m := value.NewMapping()
	m.Set("first", value.StringOf("Tom"))
	m.Set("last", value.StringOf("Anderson"))
	mv := value.MapOf(m)

	r := modifier.Builtins()
	keysFn, _ := r.Lookup("keys")
	ks, err := keysFn(mv, value.MapOf(nil))
	require.NoError(t, err)
	assert.Equal(t, "first", ks.Seq()[0].Str())
	assert.Equal(t, "last", ks.Seq()[1].Str())

	valuesFn, _ := r.Lookup("values")
	vs, err := valuesFn(mv, value.MapOf(nil))
	require.NoError(t, err)
	assert.Equal(t, "Tom", vs.Seq()[0].Str())
}

func TestFlatten_ShallowAndDeep(t *testing.T) {
	nested := value.SeqOf([]value.Value{
		ints(1, 2),
		value.SeqOf([]value.Value{ints(3)}),
	})

	r := modifier.Builtins()
	fn, _ := r.Lookup("flatten")

	shallow, err := fn(nested, value.MapOf(nil))
	require.NoError(t, err)
	assert.Len(t, shallow.Seq(), 3) // [1, 2, [3]]

	opts := value.NewMapping()
	opts.Set("deep", value.BoolOf(true))
	deep, err := fn(nested, value.MapOf(opts))
	require.NoError(t, err)
	assert.Len(t, deep.Seq(), 3) // [1, 2, 3]
	assert.EqualValues(t, 3, deep.Seq()[2].Int())
}

func TestThis_Identity(t *testing.T) {
	r := modifier.Builtins()
	fn, _ := r.Lookup("this")
	out, err := fn(value.StringOf("x"), value.MapOf(nil))
	require.NoError(t, err)
	assert.Equal(t, "x", out.Str())
}

func TestTopN_CountsAndCaps(t *testing.T) {
	seq := value.SeqOf([]value.Value{
		value.StringOf("a"), value.StringOf("b"), value.StringOf("a"),
	})
	opts := value.NewMapping()
	opts.Set("n", value.IntOf(1))

	r := modifier.Builtins()
	fn, _ := r.Lookup("top_n")
	out, err := fn(seq, value.MapOf(opts))
	require.NoError(t, err)
	require.Equal(t, 1, out.Map().Len())
	v, ok := out.Map().Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 2, v.Int())
}

func TestSumN_GroupsAndSums(t *testing.T) {
	mk := func(group string, amount int64) value.Value {
		m := value.NewMapping()
		m.Set("team", value.StringOf(group))
		m.Set("points", value.IntOf(amount))
		return value.MapOf(m)
	}
	seq := value.SeqOf([]value.Value{mk("red", 3), mk("blue", 5), mk("red", 4)})

	opts := value.NewMapping()
	opts.Set("group", value.StringOf("team"))
	opts.Set("sum", value.StringOf("points"))

	r := modifier.Builtins()
	fn, _ := r.Lookup("sum_n")
	out, err := fn(seq, value.MapOf(opts))
	require.NoError(t, err)

	red, ok := out.Map().Get("red")
	require.True(t, ok)
	assert.InDelta(t, 7, red.Float(), 0)

	first := out.Map().Oldest()
	assert.Equal(t, "red", first.Key)
}

func TestValid_RejectsNonFiniteFloat(t *testing.T) {
	r := modifier.Builtins()
	fn, _ := r.Lookup("valid")
	_, err := fn(value.FloatOf(math.NaN()), value.MapOf(nil))
	assert.Error(t, err)
}

func TestValid_AcceptsOrdinaryValue(t *testing.T) {
	r := modifier.Builtins()
	fn, _ := r.Lookup("valid")
	out, err := fn(ints(1, 2, 3), value.MapOf(nil))
	require.NoError(t, err)
	assert.Len(t, out.Seq(), 3)
}

func TestPretty_AttachesRenderMode(t *testing.T) {
	r := modifier.Builtins()
	fn, _ := r.Lookup("pretty")
	out, err := fn(value.StringOf("x"), value.MapOf(nil))
	require.NoError(t, err)
	assert.Equal(t, value.RenderPretty, out.RenderMode())
	assert.Equal(t, 2, out.RenderOptions().Indent)
}
