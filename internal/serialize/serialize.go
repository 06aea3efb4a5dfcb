// Package serialize renders the manifest value to text and registers it as a
// build artifact, with an optional write-through to the real filesystem.
package serialize

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serializer renders a manifest value to bytes.
type Serializer func(v any) ([]byte, error)

// JSON is the default serializer: 2-space indented JSON.
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest as JSON: %w", err)
	}
	return data, nil
}

// YAML renders the manifest as a YAML document.
func YAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest as YAML: %w", err)
	}
	return data, nil
}

// ByName maps a configured format name to its serializer.
func ByName(format string) (Serializer, error) {
	switch format {
	case "", "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q: must be 'json' or 'yaml'", format)
	}
}
