// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package modifierdir loads user-supplied Lua modifiers from a directory
// of manifest-described script bundles (spec §5: "a process-wide [modifier
// registry]... registration is an atomic mutation"). Each bundle is a
// subdirectory containing a modifier.yaml manifest and the Lua entry
// script it names.
package modifierdir

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// maxNameLength bounds a modifier name the same way holomush bounds a
// plugin name: generous enough for a descriptive name, short enough to
// keep @name path segments legible.
const maxNameLength = 64

// namePattern restricts manifest-declared names to a safe subset of the
// grammar modifier.Register already polices: lowercase, digits,
// underscore. It is stricter than Register requires, because a manifest
// name should also read cleanly as a path segment.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Manifest describes one modifier.yaml bundle. Version is validated as a
// strict semantic version so a future registry can reject bundles that
// declare incompatible API versions without having to parse ad hoc
// version strings.
type Manifest struct {
	Name        string `yaml:"name" json:"name" jsonschema:"required,minLength=1,maxLength=64,pattern=^[a-z][a-z0-9_]*$"`
	Version     string `yaml:"version" json:"version" jsonschema:"required,minLength=1"`
	Entry       string `yaml:"entry" json:"entry" jsonschema:"required,minLength=1"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ParseManifest decodes and validates a modifier.yaml document.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("modifierdir: manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("modifierdir: invalid manifest YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks manifest constraints beyond what YAML decoding enforces.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return fmt.Errorf("modifierdir: name %q must start with a-z and contain only a-z, 0-9, underscore", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return fmt.Errorf("modifierdir: name must be %d characters or fewer, got %d", maxNameLength, len(m.Name))
	}
	if m.Version == "" {
		return fmt.Errorf("modifierdir: version is required")
	}
	if _, err := semver.StrictNewVersion(m.Version); err != nil {
		return fmt.Errorf("modifierdir: version %q is not a valid semantic version: %w", m.Version, err)
	}
	if m.Entry == "" {
		return fmt.Errorf("modifierdir: entry is required")
	}
	return nil
}
