// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads pathql's CLI defaults (default render mode, pretty
// indent, and the custom-modifier bundle directory) from an optional YAML
// file, CLI flags, and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the CLI's configurable defaults.
type Config struct {
	// DefaultRenderMode is one of "default", "ugly", "pretty", "ascii".
	DefaultRenderMode string `koanf:"render_mode"`
	PrettyIndent      int    `koanf:"pretty_indent"`
	// ModifierDir, if set, is scanned at startup for modifier bundle
	// subdirectories (a modifier.yaml manifest plus its Lua entry script),
	// each registered as a custom modifier (internal/modifierdir).
	ModifierDir string `koanf:"modifier_dir"`
}

func defaults() map[string]any {
	return map[string]any{
		"render_mode":   "default",
		"pretty_indent": 2,
		"modifier_dir":  "",
	}
}

// Load builds a Config from built-in defaults, an optional YAML file at
// path (skipped if path is empty or the file doesn't exist), and any
// flags in fs that were explicitly set.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if loadErr := k.Load(file.Provider(path), yaml.Parser()); loadErr != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, loadErr)
			}
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading config flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
