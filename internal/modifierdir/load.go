// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifierdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pathql/pathql/internal/luamodifier"
	"github.com/pathql/pathql/internal/modifier"
)

const manifestFileName = "modifier.yaml"

// Load scans dir for modifier bundle subdirectories, each containing a
// modifier.yaml manifest and the Lua entry script it names, and registers
// each as a custom modifier on reg via host. It returns the names
// registered, sorted alphabetically, so a caller can log what was loaded.
//
// A transient directory-listing failure (e.g. a not-yet-settled network
// mount) is retried a few times with backoff before giving up, the same
// shape holomush's event dispatcher uses for a flaky downstream call.
func Load(ctx context.Context, dir string, reg *modifier.Registry, host *luamodifier.Host) ([]string, error) {
	entries, err := listWithRetry(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("modifierdir: listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		bundleDir := filepath.Join(dir, e.Name())
		name, err := loadBundle(bundleDir, reg, host)
		if errors.Is(err, os.ErrNotExist) {
			continue // no modifier.yaml in this subdirectory -- not a bundle
		}
		if err != nil {
			return nil, fmt.Errorf("modifierdir: %s: %w", bundleDir, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func loadBundle(bundleDir string, reg *modifier.Registry, host *luamodifier.Host) (string, error) {
	manifestPath := filepath.Join(bundleDir, manifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", err
	}
	if err := ValidateSchema(data); err != nil {
		return "", err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return "", err
	}

	scriptPath := filepath.Join(bundleDir, m.Entry)
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", fmt.Errorf("reading entry script %s: %w", scriptPath, err)
	}

	if err := host.RegisterScript(reg, m.Name, string(script)); err != nil {
		return "", fmt.Errorf("registering modifier %q: %w", m.Name, err)
	}
	return m.Name, nil
}

// listWithRetry reads dir's entries, retrying a transient read failure up
// to 3 times with exponential backoff starting at 50ms. A missing
// directory is not retried -- it is reported immediately.
func listWithRetry(ctx context.Context, dir string) ([]os.DirEntry, error) {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))

	var entries []os.DirEntry
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		es, readErr := os.ReadDir(dir)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				return readErr
			}
			return retry.RetryableError(readErr)
		}
		entries = es
		return nil
	})
	return entries, err
}
