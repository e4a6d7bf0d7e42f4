// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package serialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathql/pathql/internal/jsonbridge"
	"github.com/pathql/pathql/internal/serialize"
	"github.com/pathql/pathql/internal/value"
)

func TestRender_DefaultPreservesUnicode(t *testing.T) {
	v, err := jsonbridge.DecodeString(`{"city":"résumé"}`)
	require.NoError(t, err)
	out := serialize.Render(v)
	assert.Contains(t, out, "résumé")
}

func TestRender_UglyHasNoWhitespace(t *testing.T) {
	v, err := jsonbridge.DecodeString(`{"a": 1, "b": [1, 2]}`)
	require.NoError(t, err)
	ugly := v.WithRender(value.RenderUgly, value.PrettyOptions{})
	out := serialize.Render(ugly)
	assert.Equal(t, `{"a":1,"b":[1,2]}`, out)
}

func TestRender_PrettyIndents(t *testing.T) {
	v, err := jsonbridge.DecodeString(`{"a":1}`)
	require.NoError(t, err)
	pretty := v.WithRender(value.RenderPretty, value.PrettyOptions{Indent: 2})
	out := serialize.Render(pretty)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestRender_AsciiEscapesNonASCII(t *testing.T) {
	v, err := jsonbridge.DecodeString(`{"city":"résumé"}`)
	require.NoError(t, err)
	ascii := v.WithRender(value.RenderASCII, value.PrettyOptions{})
	out := serialize.Render(ascii)
	assert.NotContains(t, out, "é")
	assert.Contains(t, out, "\\u00e9")
}

func TestRender_IntegerVsFloat(t *testing.T) {
	v, err := jsonbridge.DecodeString(`[37, 37.5]`)
	require.NoError(t, err)
	out := serialize.Render(v)
	assert.Contains(t, out, "37,")
	assert.Contains(t, out, "37.5")
}

func TestRender_PrettySortKeys(t *testing.T) {
	v, err := jsonbridge.DecodeString(`{"b":1,"a":2}`)
	require.NoError(t, err)
	pretty := v.WithRender(value.RenderPretty, value.PrettyOptions{Indent: 2, SortKeys: true})
	out := serialize.Render(pretty)
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}", out)
}
