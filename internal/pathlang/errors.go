// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pathlang

import (
	"fmt"
	"strings"
)

// ParseError reports a lexical or grammatical problem in a path string. It
// carries the 0-based code-point column of the offending character so a
// caret diagnostic can be drawn under it.
type ParseError struct {
	Path    string
	Message string
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s\nQuery: %s\n%s^", e.Message, e.Path, strings.Repeat("-", e.Column+len("Query: ")))
}

func newParseError(path, message string, column int) *ParseError {
	return &ParseError{Path: path, Message: message, Column: column}
}
