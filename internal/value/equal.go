// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package value

// Equal reports structural equality between a and b. Mappings compare equal
// iff their key sets, values, AND key orders all match (spec §3) -- two
// mappings with the same pairs inserted in different orders are not equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.Float() == b.Float()
	case KindString:
		return a.s == b.s
	case KindSequence:
		return sequenceEqual(a.seq, b.seq)
	case KindMapping:
		return mappingEqual(a.m, b.m)
	default:
		return false
	}
}

func sequenceEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func mappingEqual(a, b *Mapping) bool {
	if a == nil || b == nil {
		return (a == nil || a.Len() == 0) && (b == nil || b.Len() == 0)
	}
	if a.Len() != b.Len() {
		return false
	}
	pa, pb := a.Oldest(), b.Oldest()
	for pa != nil {
		if pb == nil || pa.Key != pb.Key || !Equal(pa.Value, pb.Value) {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}
	return pb == nil
}

// Compare orders a and b for the <, <=, >, >= predicate operators. It
// supports numeric comparison between numbers and lexicographic comparison
// between strings; any other pairing reports ok=false so the caller can
// treat the comparison as a non-match rather than an error (spec §4.2.1:
// "incompatible types yield false for this element").
func Compare(a, b Value) (cmp int, ok bool) {
	if a.kind == KindNumber && b.kind == KindNumber {
		af, bf := a.Float(), b.Float()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.kind == KindString && b.kind == KindString {
		switch {
		case a.s < b.s:
			return -1, true
		case a.s > b.s:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}
