package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/bundlemanifest/internal/config"
	"github.com/vk/bundlemanifest/internal/coordinate"
	"github.com/vk/bundlemanifest/internal/ctxlog"
	"github.com/vk/bundlemanifest/internal/generate"
	"github.com/vk/bundlemanifest/internal/plugin"
	"github.com/vk/bundlemanifest/internal/simhost"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	plugin *plugin.Plugin
	host   *simhost.Host
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, plugin, and host.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load the options file is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	p := plugin.New(mustBuildOptions(model))
	p.Notify(summaryObserver(logger))

	h := simhost.New()
	if err := p.Apply(h); err != nil {
		// The simulated host always satisfies the tap shape; a failure here
		// is a programmer error.
		panic(err)
	}
	logger.Debug("Manifest plugin attached to simulated host.")

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    appConfig,
		plugin: p,
		host:   h,
	}
}

// Plugin returns the application's plugin instance. This is primarily for testing.
func (a *App) Plugin() *plugin.Plugin {
	return a.plugin
}

// summaryObserver logs one line per finalized build with the manifest's entry
// count when the default map shape is in play.
func summaryObserver(logger *slog.Logger) coordinate.Observer {
	return func(ctx context.Context, manifest any) (any, error) {
		if m, ok := manifest.(generate.Manifest); ok {
			logger.Info("Manifest finalized.", "entries", len(m))
		} else {
			logger.Info("Manifest finalized.", "shape", fmt.Sprintf("%T", manifest))
		}
		return manifest, nil
	}
}
