// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifierdir

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const schemaID = "https://pathql.dev/schema/modifier-manifest.json"

type schemaState struct {
	once   sync.Once
	schema *jschema.Schema
	err    error
}

var globalSchemaState = &schemaState{}

// GenerateSchema reflects the Manifest struct into a JSON Schema document,
// for publishing alongside modifier bundle authoring docs.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Manifest{})
	schema.ID = jsonschema.ID(schemaID)
	schema.Title = "pathql modifier manifest"
	schema.Description = "Schema for a modifier.yaml bundle manifest"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("modifierdir").Hint("failed to marshal schema").Wrap(err)
	}
	return append(data, '\n'), nil
}

// ValidateSchema validates raw manifest YAML against the reflected schema,
// independently of Manifest.Validate's hand-written checks -- this catches
// shape errors (wrong type for a field, unexpected structure) that a
// struct-tag decode silently drops.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.In("modifierdir").New("manifest data is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.In("modifierdir").Hint("invalid YAML").Wrap(err)
	}
	doc = stringifyMapKeys(doc)

	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return oops.In("modifierdir").Hint("manifest does not match schema").Wrap(err)
	}
	return nil
}

func compiledSchema() (*jschema.Schema, error) {
	globalSchemaState.once.Do(func() {
		raw, err := GenerateSchema()
		if err != nil {
			globalSchemaState.err = err
			return
		}
		var schemaDoc any
		if err := json.Unmarshal(raw, &schemaDoc); err != nil {
			globalSchemaState.err = oops.In("modifierdir").Hint("failed to decode generated schema").Wrap(err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource(schemaID, schemaDoc); err != nil {
			globalSchemaState.err = oops.In("modifierdir").Hint("failed to add schema resource").Wrap(err)
			return
		}
		compiled, err := c.Compile(schemaID)
		if err != nil {
			globalSchemaState.err = oops.In("modifierdir").Hint("failed to compile schema").Wrap(err)
			return
		}
		globalSchemaState.schema = compiled
	})
	return globalSchemaState.schema, globalSchemaState.err
}

// stringifyMapKeys converts the map[any]any nodes yaml.v3 produces into
// map[string]any, which jsonschema's validator requires.
func stringifyMapKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stringifyMapKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = stringifyMapKeys(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = stringifyMapKeys(e)
		}
		return out
	default:
		return v
	}
}
