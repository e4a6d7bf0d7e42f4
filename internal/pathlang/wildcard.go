// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pathlang

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// CompileWildcard builds an anchored regular expression from a Wildcard
// Part's atoms: an unescaped `*` maps to `.*`, an unescaped `?` maps to
// `.`, and every other atom (including an escaped `*`/`?`, which reverts to
// a literal) is regex-escaped (spec §4.1).
func CompileWildcard(atoms []WildcardAtom) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteByte('^')
	for _, a := range atoms {
		switch a.Kind {
		case AtomStar:
			sb.WriteString(".*")
		case AtomQuestion:
			sb.WriteByte('.')
		default:
			sb.WriteString(regexp.QuoteMeta(string(a.Lit)))
		}
	}
	sb.WriteByte('$')
	return regexp.Compile(sb.String())
}

// CompileGlobPattern builds a glob.Glob for the `%`/`!%` predicate
// operators, where the value side is a GJSON wildcard pattern rather than
// a parsed field name (spec §4.1/§4.2.1): unescaped `*`/`?` are
// metacharacters, `\` escapes the next rune literally, everything else is
// taken literally. Escaped and literal runes are passed through
// glob.QuoteMeta so gobwas/glob's own `[`/`{` metacharacters don't leak in
// through field data.
func CompileGlobPattern(pattern string) (glob.Glob, error) {
	runes := []rune(pattern)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			if i+1 < len(runes) {
				i++
				sb.WriteString(glob.QuoteMeta(string(runes[i])))
			}
		case '*':
			sb.WriteByte('*')
		case '?':
			sb.WriteByte('?')
		default:
			sb.WriteString(glob.QuoteMeta(string(runes[i])))
		}
	}
	return glob.Compile(sb.String())
}
