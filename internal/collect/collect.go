// Package collect turns a completed compilation into the ordered descriptor
// sequence the rest of the pipeline operates on. Chunk output files come
// first, then the remainder of the asset list, each stream in the order the
// host reported it.
package collect

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/ctxlog"
	"github.com/vk/bundlemanifest/internal/descriptor"
)

// hotUpdateMarker tags transient incremental-rebuild artifacts. A path
// carrying it never reaches the manifest.
const hotUpdateMarker = "hot-update"

// ModuleAssets is the side-channel registry of source-referenced assets,
// populated incrementally as the host reports module→asset associations and
// consulted during collection. Keyed by emitted asset path.
type ModuleAssets struct {
	mu    sync.Mutex
	names map[string]string
}

// NewModuleAssets returns an empty registry.
func NewModuleAssets() *ModuleAssets {
	return &ModuleAssets{names: make(map[string]string)}
}

// Record stores the manifest name for an emitted asset path. The name keeps
// the emitted file's directory but takes its base name from the owning
// module, so a hashed image resolves under its source name.
func (m *ModuleAssets) Record(modulePath, assetPath string) {
	modulePath = strings.ReplaceAll(modulePath, `\`, "/")
	assetPath = strings.ReplaceAll(assetPath, `\`, "/")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[assetPath] = path.Join(path.Dir(assetPath), path.Base(modulePath))
}

// Lookup returns the registered manifest name for an emitted asset path.
func (m *ModuleAssets) Lookup(assetPath string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[strings.ReplaceAll(assetPath, `\`, "/")]
	return name, ok
}

// Reset discards all recorded associations. Called when a new compilation
// starts so one build's associations never leak into the next.
func (m *ModuleAssets) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = make(map[string]string)
}

// Len reports the number of recorded associations.
func (m *ModuleAssets) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.names)
}

// Collector flattens a compilation into descriptors.
type Collector struct {
	// Assets is the module-asset registry accumulated during the build.
	Assets *ModuleAssets

	// TransformExtensions overrides the pass-through extension pattern used
	// for chunk file typing. Nil selects the default.
	TransformExtensions *regexp.Regexp
}

// Collect produces the descriptor sequence for one compilation. Malformed
// input (an empty chunk file path or asset name) is an integration error and
// fails the build outright.
func (c *Collector) Collect(ctx context.Context, comp *build.Compilation) ([]descriptor.File, error) {
	logger := ctxlog.FromContext(ctx)

	var files []descriptor.File
	for _, chunk := range comp.Chunks {
		for _, emitted := range chunk.Files {
			if emitted == "" {
				return nil, fmt.Errorf("chunk %q has an output file with an empty path", chunk.Name)
			}
			name := emitted
			if chunk.Name != "" {
				name = chunk.Name + "." + descriptor.FileType(emitted, c.TransformExtensions)
			}
			files = append(files, descriptor.File{
				Path:      emitted,
				Name:      name,
				IsChunk:   true,
				IsInitial: chunk.Initial,
			})
		}
	}

	for _, asset := range comp.Assets {
		if asset.Name == "" {
			return nil, fmt.Errorf("asset list contains an entry with an empty name")
		}
		if name, ok := c.Assets.Lookup(asset.Name); ok {
			files = append(files, descriptor.File{
				Path:          asset.Name,
				Name:          name,
				IsAsset:       true,
				IsModuleAsset: true,
			})
			continue
		}
		// Entry assets are chunk output and were already collected above.
		if len(asset.Chunks) > 0 {
			continue
		}
		files = append(files, descriptor.File{
			Path:    asset.Name,
			Name:    asset.Name,
			IsAsset: true,
		})
	}

	kept := files[:0]
	for _, f := range files {
		if strings.Contains(f.Path, hotUpdateMarker) {
			logger.Debug("Dropping hot-update artifact.", "path", f.Path)
			continue
		}
		kept = append(kept, f)
	}

	logger.Debug("Collection complete.", "descriptors", len(kept))
	return kept, nil
}
