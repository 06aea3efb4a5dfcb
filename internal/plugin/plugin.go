// Package plugin assembles the manifest pipeline and attaches it to a host
// bundler. One Plugin instance corresponds to one plugin configuration; its
// seed lives as long as the instance, which is what makes cross-build
// accumulation work when several builds run against the same Plugin.
package plugin

import (
	"context"
	"fmt"
	"regexp"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/collect"
	"github.com/vk/bundlemanifest/internal/coordinate"
	"github.com/vk/bundlemanifest/internal/ctxlog"
	"github.com/vk/bundlemanifest/internal/generate"
	"github.com/vk/bundlemanifest/internal/host"
	"github.com/vk/bundlemanifest/internal/normalize"
	"github.com/vk/bundlemanifest/internal/pipeline"
	"github.com/vk/bundlemanifest/internal/serialize"
)

// Options configures a Plugin. The zero value produces a default
// "manifest.json" mapping names to paths.
type Options struct {
	// BasePath is prepended to every manifest key.
	BasePath string

	// FileName is the manifest artifact name, resolved against the build's
	// output directory when relative. Defaults to "manifest.json".
	FileName string

	// TransformExtensions is the pass-through extension pattern used when
	// typing chunk files. Nil selects the default (gz and map).
	TransformExtensions *regexp.Regexp

	// WriteToFileEmit also writes the manifest straight to the real
	// filesystem, for hosts whose output filesystem is virtual.
	WriteToFileEmit bool

	// Seed is the initial manifest value. Nil creates a fresh empty map once
	// for the Plugin's lifetime. A caller-supplied seed shared between
	// plugins accumulates entries across their builds.
	Seed any

	// Filter, Map and Sort are the transform pipeline stages.
	Filter pipeline.Filter
	Map    pipeline.Map
	Sort   pipeline.Sort

	// Generate replaces the default name→path fold. It receives the seed and
	// the post-pipeline descriptors; its return value is the manifest.
	Generate generate.Func

	// Serialize renders the manifest value. Defaults to indented JSON.
	Serialize serialize.Serializer
}

// Plugin is the manifest plugin. Construct with New, attach with Apply.
type Plugin struct {
	opts   Options
	seed   any
	assets *collect.ModuleAssets
	coord  *coordinate.Coordinator
}

// New creates a Plugin from the given options.
func New(opts Options) *Plugin {
	seed := opts.Seed
	if seed == nil {
		seed = generate.Manifest{}
	}
	return &Plugin{
		opts:   opts,
		seed:   seed,
		assets: collect.NewModuleAssets(),
		coord:  coordinate.New(),
	}
}

// Notify appends an observer to the finalize waterfall. Observers run in
// registration order, under the global finalize lock, once per build.
func (p *Plugin) Notify(obs coordinate.Observer) {
	p.coord.Observe(obs)
}

// Seed returns the plugin's live seed value.
func (p *Plugin) Seed() any {
	return p.seed
}

// Apply adapts the host's API shape and registers the plugin's four event
// handlers. It must be called once per host.
func (p *Plugin) Apply(h any) error {
	ev, err := host.Adapt(h)
	if err != nil {
		return fmt.Errorf("failed to attach manifest plugin: %w", err)
	}

	ev.OnCompilationStart(p.assets.Reset)
	ev.OnModuleAsset(p.assets.Record)
	ev.OnBuildDone(func(ctx context.Context, comp *build.Compilation) error {
		return p.onBuildDone(ctx, ev, comp)
	})
	return nil
}

// onBuildDone runs the synchronous pipeline for one completed build, then
// enters the finalize state machine: acquire the global lock and arm a
// one-shot handler on the next build-finalized event that notifies observers
// and releases the lock.
func (p *Plugin) onBuildDone(ctx context.Context, ev host.Events, comp *build.Compilation) error {
	logger := ctxlog.FromContext(ctx)

	collector := collect.Collector{
		Assets:              p.assets,
		TransformExtensions: p.opts.TransformExtensions,
	}
	files, err := collector.Collect(ctx, comp)
	if err != nil {
		return fmt.Errorf("descriptor collection failed: %w", err)
	}

	files = normalize.Normalizer{
		BasePath:   p.opts.BasePath,
		PublicPath: comp.PublicPath,
	}.Apply(files)

	files = pipeline.Pipeline{
		Filter: p.opts.Filter,
		Map:    p.opts.Map,
		Sort:   p.opts.Sort,
	}.Run(files)

	gen := p.opts.Generate
	if gen == nil {
		gen = generate.Default
	}
	manifest := gen(p.seed, files)

	emitter := serialize.Emitter{
		FileName:        p.opts.FileName,
		WriteToFileEmit: p.opts.WriteToFileEmit,
		Serialize:       p.opts.Serialize,
	}
	if _, err := emitter.Emit(ctx, comp, manifest); err != nil {
		return err
	}
	logger.Debug("Manifest computed and registered.", "descriptors", len(files))

	// Everything above ran unlocked; only the notify window is serialized.
	ticket := p.coord.Begin(ctx)
	ev.OnceBuildFinalized(func(ctx context.Context) error {
		if _, err := ticket.Notify(ctx, manifest); err != nil {
			// The lock stays held: an observer that fails never returned
			// control, and later builds stall behind it. Known hazard,
			// inherited deliberately.
			return fmt.Errorf("manifest observer failed: %w", err)
		}
		ticket.Release()
		return nil
	})
	return nil
}
