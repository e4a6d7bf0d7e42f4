// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package main is the entry point for the pathql CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/pathql/pathql/pkg/errutil"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		errutil.LogError(slog.Default(), "pathql failed", err)
		os.Exit(exitCodeFor(err))
	}
}
