// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathql/pathql/internal/config"
	"github.com/pathql/pathql/internal/eval"
	"github.com/pathql/pathql/internal/jsonbridge"
	"github.com/pathql/pathql/internal/luamodifier"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/modifierdir"
	"github.com/pathql/pathql/internal/pathlang"
	"github.com/pathql/pathql/internal/serialize"
	"github.com/pathql/pathql/internal/value"
)

// queryConfig holds the flags accepted by the query command.
type queryConfig struct {
	lines bool
}

// runQuery implements the root command's default action: evaluate <path>
// against a document read from a file argument or stdin (spec §6).
//
//	pathql <path>          reads the document from stdin
//	pathql <file> <path>   reads the document from file, or stdin if file is "-"
func runQuery(cmd *cobra.Command, args []string, cfg *queryConfig) error {
	var fileArg, path string
	switch len(args) {
	case 1:
		fileArg, path = "-", args[0]
	case 2:
		fileArg, path = args[0], args[1]
	default:
		return newExitError(2, fmt.Errorf("expected 1 or 2 arguments, got %d", len(args)))
	}

	cliCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return newExitError(2, fmt.Errorf("loading config: %w", err))
	}

	src, err := openInput(fileArg, cmd.InOrStdin())
	if err != nil {
		return newExitError(2, err)
	}
	defer src.Close()

	reg := modifier.Builtins()
	if cliCfg.ModifierDir != "" {
		if _, err := modifierdir.Load(cmd.Context(), cliCfg.ModifierDir, reg, luamodifier.NewHost()); err != nil {
			return newExitError(2, fmt.Errorf("loading custom modifiers: %w", err))
		}
	}
	out := cmd.OutOrStdout()

	if cfg.lines {
		return runQueryLines(src, path, reg, out, cliCfg)
	}

	v, err := jsonbridge.Decode(src)
	if err != nil {
		return newExitError(2, fmt.Errorf("decoding input: %w", err))
	}

	result, err := eval.EvaluatePath(v, path, reg)
	if err != nil {
		if _, ok := err.(*pathlang.ParseError); ok {
			return newExitError(2, err)
		}
		return newExitError(1, err)
	}

	fmt.Fprintln(out, serialize.Render(applyDefaultRenderMode(result, cliCfg)))
	return nil
}

// applyDefaultRenderMode attaches the configured default render mode to v
// when no modifier in the path already set one (spec's "default" mode is
// otherwise renderSpaced/UTF-8).
func applyDefaultRenderMode(v value.Value, cfg *config.Config) value.Value {
	if v.RenderMode() != value.RenderDefault {
		return v
	}
	switch cfg.DefaultRenderMode {
	case "ugly":
		return v.WithRender(value.RenderUgly, value.PrettyOptions{})
	case "ascii":
		return v.WithRender(value.RenderASCII, value.PrettyOptions{})
	case "pretty":
		return v.WithRender(value.RenderPretty, value.PrettyOptions{Indent: cfg.PrettyIndent})
	default:
		return v
	}
}

// runQueryLines evaluates path against each line of src independently
// (spec §6's "..". JSON-Lines mode), printing one result per input line
// that matches and returning exit code 1 if any line fails to match. Line
// framing and per-line decoding is delegated to jsonbridge.DecodeLines;
// this function only evaluates and renders each already-decoded document.
func runQueryLines(src io.Reader, path string, reg *modifier.Registry, out io.Writer, cliCfg *config.Config) error {
	docs, err := jsonbridge.DecodeLines(src)
	if err != nil {
		return newExitError(2, fmt.Errorf("decoding input: %w", err))
	}

	anyFailed := false
	for _, v := range docs {
		result, err := eval.EvaluatePath(v, path, reg)
		if err != nil {
			if _, ok := err.(*pathlang.ParseError); ok {
				return newExitError(2, err)
			}
			anyFailed = true
			continue
		}

		fmt.Fprintln(out, serialize.Render(applyDefaultRenderMode(result, cliCfg)))
	}

	if anyFailed {
		return newExitError(1, fmt.Errorf("path %q did not match one or more lines", path))
	}
	return nil
}

// openInput opens fileArg for reading, treating "-" or "" as stdin (the
// command's input stream, which is os.Stdin unless overridden).
func openInput(fileArg string, stdin io.Reader) (io.ReadCloser, error) {
	if fileArg == "-" || fileArg == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(fileArg)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fileArg, err)
	}
	return f, nil
}
