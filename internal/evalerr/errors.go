// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package evalerr defines the EvaluationError taxonomy raised by the
// evaluator and the modifier registry (spec §4.4): NotFound, TypeMismatch,
// InvalidModifierOptions, UnknownModifier, and InvalidValueForValid.
package evalerr

import (
	"github.com/samber/oops"
)

// Error codes for evaluation failures.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeTypeMismatch           = "TYPE_MISMATCH"
	CodeInvalidModifierOptions = "INVALID_MODIFIER_OPTIONS"
	CodeUnknownModifier        = "UNKNOWN_MODIFIER"
	CodeInvalidValueForValid   = "INVALID_VALUE_FOR_VALID"
)

// NotFound reports that part could not be resolved against the current
// value -- a missing field, an out-of-range index, or a predicate query
// with no match that the caller required a single result from.
func NotFound(part string) error {
	return oops.Code(CodeNotFound).
		With("part", part).
		Errorf("not found: %s", part)
}

// TypeMismatch reports that part cannot be applied to a value of the given
// kind (e.g. a Field applied to a scalar).
func TypeMismatch(part, kind string) error {
	return oops.Code(CodeTypeMismatch).
		With("part", part).
		With("kind", kind).
		Errorf("cannot apply %s to a %s value", part, kind)
}

// InvalidModifierOptions reports that a modifier's options failed its own
// validation (missing required key, wrong option type).
func InvalidModifierOptions(name, reason string) error {
	return oops.Code(CodeInvalidModifierOptions).
		With("modifier", name).
		With("reason", reason).
		Errorf("invalid options for @%s: %s", name, reason)
}

// UnknownModifier reports that no modifier is registered under name.
func UnknownModifier(name string) error {
	return oops.Code(CodeUnknownModifier).
		With("modifier", name).
		Errorf("unknown modifier: @%s", name)
}

// InvalidValueForValid reports that @valid found a node that is not
// JSON-representable.
func InvalidValueForValid(reason string) error {
	return oops.Code(CodeInvalidValueForValid).
		With("reason", reason).
		Errorf("value is not JSON-representable: %s", reason)
}

// Code extracts the evaluation error code from err, if any.
func Code(err error) (string, bool) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "", false
	}
	code := oopsErr.Code()
	return code, code != ""
}

// Is reports whether err is an EvaluationError carrying the given code.
func Is(err error, code string) bool {
	got, ok := Code(err)
	return ok && got == code
}
