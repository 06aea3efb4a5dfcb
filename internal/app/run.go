package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/ctxlog"
	"github.com/vk/bundlemanifest/internal/report"
)

// Run replays every discovered build report through the plugin, in argument
// order. All replays share the plugin's seed, so the emitted manifest after
// the last report describes the union of all builds.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	base := a.cfg.OutputBase
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		base = wd
	}

	paths, err := report.Discover(a.cfg.ReportPaths)
	if err != nil {
		return fmt.Errorf("failed to discover build reports: %w", err)
	}
	a.logger.Info("Replaying build reports.", "count", len(paths))

	for _, p := range paths {
		rep, err := report.Load(p)
		if err != nil {
			return err
		}
		comp := rep.Compilation(base, nil)
		comp.Sink = build.DirSink{Dir: comp.OutputDir}

		a.logger.Debug("Replaying report.", "path", p, "outputDir", comp.OutputDir)
		if err := a.host.Run(ctx, comp, rep.ModuleAssets); err != nil {
			return fmt.Errorf("replay of %s failed: %w", p, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
