package serialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/ctxlog"
)

// writeLocks serializes physical writes per absolute target path. This is a
// narrower critical section than the finalize lock in the coordinate package:
// two builds emitting to the same file still race on content (last write
// wins), but never interleave a single write.
var writeLocks sync.Map // abs path -> *sync.Mutex

// Emitter renders a manifest and registers it with the owning compilation.
type Emitter struct {
	// FileName is the artifact name, resolved against the compilation's
	// output directory when relative. Defaults to "manifest.json".
	FileName string

	// WriteToFileEmit additionally writes the rendered text straight to disk.
	// Needed when the host's output filesystem is virtual and registered
	// artifacts never reach the real disk.
	WriteToFileEmit bool

	// Serialize renders the manifest value. Defaults to JSON.
	Serialize Serializer
}

// Emit renders the manifest, registers it as a build artifact, and performs
// the optional write-through. It returns the rendered bytes.
func (e Emitter) Emit(ctx context.Context, comp *build.Compilation, manifest any) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	render := e.Serialize
	if render == nil {
		render = JSON
	}
	data, err := render(manifest)
	if err != nil {
		return nil, err
	}

	target := e.FileName
	if target == "" {
		target = "manifest.json"
	}
	abs := target
	rel := target
	if filepath.IsAbs(target) {
		if rel, err = filepath.Rel(comp.OutputDir, target); err != nil {
			return nil, fmt.Errorf("manifest path %s is not expressible relative to output dir %s: %w", target, comp.OutputDir, err)
		}
	} else {
		abs = filepath.Join(comp.OutputDir, target)
	}

	if comp.Sink != nil {
		if err := comp.Sink.RegisterArtifact(rel, data); err != nil {
			return nil, fmt.Errorf("failed to register manifest artifact: %w", err)
		}
	}
	logger.Debug("Manifest artifact registered.", "name", rel, "bytes", len(data))

	if e.WriteToFileEmit {
		lock, _ := writeLocks.LoadOrStore(abs, &sync.Mutex{})
		mu := lock.(*sync.Mutex)
		mu.Lock()
		defer mu.Unlock()

		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create manifest directory: %w", err)
		}
		if err := os.WriteFile(abs, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write manifest to %s: %w", abs, err)
		}
		logger.Debug("Manifest written to disk.", "path", abs)
	}

	return data, nil
}
