// Package host defines the capability surface the plugin needs from a host
// bundler and adapts the host API generations to it. Core pipeline packages
// never learn which host shape is in use.
package host

import (
	"context"

	"github.com/vk/bundlemanifest/internal/build"
)

// ModuleAssetFunc is called once per source-referenced asset the build
// recognizes, with the owning module path and the emitted asset path.
type ModuleAssetFunc func(modulePath, assetPath string)

// CompilationStartFunc is called when a new compilation begins.
type CompilationStartFunc func()

// BuildDoneFunc is called when a build completes, with the full compilation.
// A returned error fails the build.
type BuildDoneFunc func(ctx context.Context, comp *build.Compilation) error

// BuildFinalizedFunc is called at the build-finalization lifecycle point, a
// later event than build completion.
type BuildFinalizedFunc func(ctx context.Context) error

// Events is the internal capability interface: four event registrations,
// identical across host API generations.
type Events interface {
	OnModuleAsset(ModuleAssetFunc)
	OnCompilationStart(CompilationStartFunc)
	OnBuildDone(BuildDoneFunc)

	// OnceBuildFinalized registers a handler for the next build-finalized
	// event only. The registration is consumed when the event fires.
	OnceBuildFinalized(BuildFinalizedFunc)
}
