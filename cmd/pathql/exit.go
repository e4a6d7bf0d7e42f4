// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import "errors"

// exitError carries a specific process exit code alongside the
// underlying cause, per the CLI's documented contract (spec §6): 0 on
// success, 1 when a line's path fails to match under --lines, 2 for
// usage/parse errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func newExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor extracts the process exit code from err, defaulting to 1
// for any error that wasn't explicitly classified.
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
