// Package normalize applies prefixing and separator canonicalization to a
// descriptor sequence. It is a pure, order-preserving transform.
package normalize

import (
	"strings"

	"github.com/vk/bundlemanifest/internal/descriptor"
)

// Normalizer carries the two configured prefixes. The zero value only
// canonicalizes separators.
type Normalizer struct {
	// BasePath, when non-empty, is prepended to every descriptor name.
	BasePath string

	// PublicPath, when non-empty, is prepended to every descriptor path. It
	// models the base under which the host actually serves emitted files.
	PublicPath string
}

// Apply returns a normalized copy of the sequence. Prefixing happens before
// separator canonicalization since a prefix may itself carry backslashes.
func (n Normalizer) Apply(files []descriptor.File) []descriptor.File {
	out := make([]descriptor.File, len(files))
	for i, f := range files {
		if n.BasePath != "" {
			f.Name = n.BasePath + f.Name
		}
		if n.PublicPath != "" {
			f.Path = n.PublicPath + f.Path
		}
		f.Name = strings.ReplaceAll(f.Name, `\`, "/")
		f.Path = strings.ReplaceAll(f.Path, `\`, "/")
		out[i] = f
	}
	return out
}
