// Package config defines the format-agnostic model for a manifest plugin
// configuration and the loader interface that produces it.
package config

import (
	"regexp"

	"github.com/vk/bundlemanifest/internal/generate"
)

// Model is the unified representation of one plugin configuration, decoupled
// from the on-disk format it was loaded from.
type Model struct {
	// FileName is the manifest artifact name. Empty selects the default.
	FileName string

	// BasePath is prepended to every manifest key.
	BasePath string

	// WriteToFile writes the manifest straight to disk in addition to
	// registering it with the build.
	WriteToFile bool

	// Format names the serializer: "json" (default) or "yaml".
	Format string

	// TransformExtensions is the compiled pass-through extension pattern, or
	// nil for the default.
	TransformExtensions *regexp.Regexp

	// Seed holds initial manifest entries declared in the options file.
	// Nil when the file declares none.
	Seed generate.Manifest

	// Exclude patterns drop descriptors whose manifest name matches. A
	// pattern with glob metacharacters is matched with path.Match; a plain
	// pattern matches by substring.
	Exclude []string

	// Renames rewrite descriptor names in order, first match per rule.
	Renames []Rename
}

// Rename is one declarative name rewrite rule.
type Rename struct {
	From *regexp.Regexp
	To   string
}

// Default returns the model used when no options file is given.
func Default() *Model {
	return &Model{}
}
