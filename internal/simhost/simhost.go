// Package simhost is an in-process, tap-style host that replays recorded
// builds through the plugin's event surface. It lets the whole pipeline run
// without a live bundler: the CLI drives it from build report files, and
// tests drive it directly.
package simhost

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/ctxlog"
	"github.com/vk/bundlemanifest/internal/host"
)

// Host implements host.TapHost. The zero value is ready to use.
type Host struct {
	mu               sync.Mutex
	moduleAsset      []host.ModuleAssetFunc
	compilationStart []host.CompilationStartFunc
	buildDone        []host.BuildDoneFunc
	finalizeOnce     []host.BuildFinalizedFunc
}

// New returns an empty host.
func New() *Host {
	return &Host{}
}

// TapModuleAsset registers a module-asset handler.
func (h *Host) TapModuleAsset(fn host.ModuleAssetFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.moduleAsset = append(h.moduleAsset, fn)
}

// TapCompilationStart registers a compilation-start handler.
func (h *Host) TapCompilationStart(fn host.CompilationStartFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.compilationStart = append(h.compilationStart, fn)
}

// TapBuildDone registers a build-completion handler.
func (h *Host) TapBuildDone(fn host.BuildDoneFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buildDone = append(h.buildDone, fn)
}

// TapOnceBuildFinalized queues a one-shot finalization handler, consumed by
// the next replayed build's finalize phase.
func (h *Host) TapOnceBuildFinalized(fn host.BuildFinalizedFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finalizeOnce = append(h.finalizeOnce, fn)
}

// Run replays one build: compilation start, the recorded module-asset events
// in deterministic order, build completion, then build finalization. The
// moduleAssets map is keyed by emitted asset path with the owning module path
// as value.
func (h *Host) Run(ctx context.Context, comp *build.Compilation, moduleAssets map[string]string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Replaying build.", "chunks", len(comp.Chunks), "assets", len(comp.Assets))

	h.mu.Lock()
	starts := append([]host.CompilationStartFunc(nil), h.compilationStart...)
	assets := append([]host.ModuleAssetFunc(nil), h.moduleAsset...)
	done := append([]host.BuildDoneFunc(nil), h.buildDone...)
	h.mu.Unlock()

	for _, fn := range starts {
		fn()
	}

	assetPaths := make([]string, 0, len(moduleAssets))
	for p := range moduleAssets {
		assetPaths = append(assetPaths, p)
	}
	sort.Strings(assetPaths)
	for _, assetPath := range assetPaths {
		for _, fn := range assets {
			fn(moduleAssets[assetPath], assetPath)
		}
	}

	for _, fn := range done {
		if err := fn(ctx, comp); err != nil {
			return fmt.Errorf("build completion handler failed: %w", err)
		}
	}

	// Drain the one-shot finalization queue. Handlers armed during this
	// build's completion phase fire exactly once, here.
	h.mu.Lock()
	finalize := h.finalizeOnce
	h.finalizeOnce = nil
	h.mu.Unlock()

	for _, fn := range finalize {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("build finalization handler failed: %w", err)
		}
	}

	logger.Debug("Build replay finished.")
	return nil
}
