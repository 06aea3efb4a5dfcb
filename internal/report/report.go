// Package report loads recorded bundler build reports: the chunk list, asset
// list, and module-asset associations of one completed build, as captured by
// the host. Reports are JSON; comments and trailing commas are tolerated
// since replayed reports are frequently hand-trimmed.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/fsutil"
)

// Report is one recorded build.
type Report struct {
	// OutputDir is the build's output directory. Relative directories are
	// resolved by the caller.
	OutputDir string `json:"outputDir"`

	// PublicPath is the serving prefix the build declared, if any.
	PublicPath string `json:"publicPath"`

	Chunks []ChunkRecord `json:"chunks"`
	Assets []AssetRecord `json:"assets"`

	// ModuleAssets maps emitted asset paths to their owning module paths.
	ModuleAssets map[string]string `json:"moduleAssets"`
}

// ChunkRecord mirrors build.Chunk in wire form.
type ChunkRecord struct {
	Name    string   `json:"name"`
	Files   []string `json:"files"`
	Initial bool     `json:"initial"`
}

// AssetRecord mirrors build.Asset in wire form.
type AssetRecord struct {
	Name   string   `json:"name"`
	Chunks []string `json:"chunks"`
}

// Load reads and decodes one report file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var rep Report
	if err := json.Unmarshal(jsonc.ToJSON(data), &rep); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &rep, nil
}

// Discover resolves report arguments into concrete file paths: a file path is
// kept as-is, a directory is searched recursively for .json files.
func Discover(paths []string) ([]string, error) {
	var found []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("report path %s: %w", p, err)
		}
		if !info.IsDir() {
			found = append(found, p)
			continue
		}
		inDir, err := fsutil.FindFilesByExtension(p, ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to scan report directory %s: %w", p, err)
		}
		if len(inDir) == 0 {
			return nil, fmt.Errorf("report directory %s contains no .json files", p)
		}
		found = append(found, inDir...)
	}
	return found, nil
}

// Compilation converts the report into the build model, resolving a relative
// output directory against baseDir and attaching the given sink.
func (r *Report) Compilation(baseDir string, sink build.ArtifactSink) *build.Compilation {
	outputDir := strings.TrimSpace(r.OutputDir)
	if outputDir == "" {
		outputDir = "dist"
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(baseDir, outputDir)
	}

	comp := &build.Compilation{
		OutputDir:  outputDir,
		PublicPath: r.PublicPath,
		Sink:       sink,
	}
	for _, c := range r.Chunks {
		comp.Chunks = append(comp.Chunks, build.Chunk{Name: c.Name, Files: c.Files, Initial: c.Initial})
	}
	for _, a := range r.Assets {
		comp.Assets = append(comp.Assets, build.Asset{Name: a.Name, Chunks: a.Chunks})
	}
	return comp
}
