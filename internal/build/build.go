// Package build models the host bundler's view of a completed compilation.
// It is the boundary vocabulary between the host adapter and the manifest
// pipeline; nothing here knows how the data was produced.
package build

import (
	"fmt"
	"os"
	"path/filepath"
)

// Chunk is one named or anonymous unit of bundled output. A chunk may span
// several emitted files (code, source map, compressed variant).
type Chunk struct {
	// Name is the chunk's logical name. Anonymous chunks have an empty name.
	Name string

	// Files are the emitted output paths belonging to this chunk.
	Files []string

	// Initial reports that the chunk is loaded eagerly rather than lazily.
	Initial bool
}

// Asset is one entry of the build's full asset list.
type Asset struct {
	// Name is the emitted path, exactly as the bundler recorded it.
	Name string

	// Chunks names the chunks that reference this asset. A non-empty list
	// marks an entry asset already covered by the chunk scan.
	Chunks []string
}

// ArtifactSink receives rendered artifacts registered against a compilation.
// The name is relative to the compilation's output directory.
type ArtifactSink interface {
	RegisterArtifact(name string, content []byte) error
}

// Compilation is everything the manifest pipeline consumes from one
// completed build.
type Compilation struct {
	// OutputDir is the build's configured output directory.
	OutputDir string

	// PublicPath is the prefix under which the host serves emitted files.
	// Empty when the build declares none.
	PublicPath string

	Chunks []Chunk
	Assets []Asset

	// Sink receives artifacts this build registers.
	Sink ArtifactSink
}

// DirSink materializes registered artifacts under a directory, the way a real
// bundler flushes its virtual output filesystem.
type DirSink struct {
	Dir string
}

// RegisterArtifact writes the artifact to disk, creating parent directories
// as needed.
func (s DirSink) RegisterArtifact(name string, content []byte) error {
	target := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	return nil
}
