// Package descriptor defines the normalized file model shared by every stage
// of the manifest pipeline. A completed build is flattened into a sequence of
// File values before any prefixing, transformation, or folding happens.
package descriptor

import (
	"regexp"
	"strings"
)

// File describes one build output unit: an emitted chunk file, a generated
// asset, or a source-referenced module asset.
type File struct {
	// Path is the emitted location. After normalization it may carry the
	// build's public path prefix and therefore be a URL.
	Path string

	// Name is the logical manifest key. After normalization it may carry the
	// configured base path prefix.
	Name string

	// IsChunk reports that the file belongs to a bundle chunk's output.
	IsChunk bool

	// IsAsset reports that the file came from the build's asset list.
	IsAsset bool

	// IsModuleAsset reports that the file is referenced from source (e.g. an
	// imported image) rather than being generated bundle output.
	IsModuleAsset bool

	// IsInitial reports that the owning chunk is loaded eagerly. Only
	// meaningful when IsChunk is set.
	IsInitial bool
}

// DefaultTransformExtensions matches final extensions that wrap another file
// type rather than naming one themselves, so "bundle.js.map" is typed as
// "js.map" and not "map".
var DefaultTransformExtensions = regexp.MustCompile(`(?i)^(gz|map)$`)

// FileType computes the manifest type suffix for an emitted path. Any query
// string is stripped first. When the final extension matches the pass-through
// pattern, the preceding dot-separated segment is kept as well.
func FileType(path string, transformExtensions *regexp.Regexp) string {
	if transformExtensions == nil {
		transformExtensions = DefaultTransformExtensions
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, ".")
	ext := parts[len(parts)-1]
	if len(parts) > 1 && transformExtensions.MatchString(ext) {
		ext = parts[len(parts)-2] + "." + ext
	}
	return ext
}
