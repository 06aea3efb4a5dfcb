package host

import (
	"fmt"
	"log/slog"
)

// TapHost is the modern host API generation: one discrete, typed hook point
// per event kind.
type TapHost interface {
	TapModuleAsset(ModuleAssetFunc)
	TapCompilationStart(CompilationStartFunc)
	TapBuildDone(BuildDoneFunc)
	TapOnceBuildFinalized(BuildFinalizedFunc)
}

// LegacyHost is the older generation: a single string-keyed registration
// method taking an untyped handler. The host performs its own handler type
// checks and reports mismatches through the returned error.
type LegacyHost interface {
	On(event string, handler any) error
}

// Event names understood by legacy hosts.
const (
	EventModuleAsset      = "module-asset"
	EventCompilationStart = "compilation-start"
	EventBuildDone        = "build-done"
	EventBuildFinalized   = "build-finalized"
)

// Adapt wraps whichever host API shape it is handed in the internal Events
// interface. Hosts that already satisfy Events pass through untouched.
func Adapt(h any) (Events, error) {
	switch v := h.(type) {
	case Events:
		return v, nil
	case TapHost:
		slog.Debug("Adapting tap-style host API.")
		return tapAdapter{v}, nil
	case LegacyHost:
		slog.Debug("Adapting legacy host API.")
		return legacyAdapter{v}, nil
	}
	return nil, fmt.Errorf("unsupported host API shape %T: want TapHost or LegacyHost", h)
}

type tapAdapter struct {
	h TapHost
}

func (a tapAdapter) OnModuleAsset(fn ModuleAssetFunc)           { a.h.TapModuleAsset(fn) }
func (a tapAdapter) OnCompilationStart(fn CompilationStartFunc) { a.h.TapCompilationStart(fn) }
func (a tapAdapter) OnBuildDone(fn BuildDoneFunc)               { a.h.TapBuildDone(fn) }
func (a tapAdapter) OnceBuildFinalized(fn BuildFinalizedFunc)   { a.h.TapOnceBuildFinalized(fn) }

type legacyAdapter struct {
	h LegacyHost
}

// register panics on failure: a legacy host rejecting one of the four known
// events is a programmer error, not a runtime condition.
func (a legacyAdapter) register(event string, handler any) {
	if err := a.h.On(event, handler); err != nil {
		panic(fmt.Sprintf("host: legacy registration for %q failed: %v", event, err))
	}
}

func (a legacyAdapter) OnModuleAsset(fn ModuleAssetFunc)           { a.register(EventModuleAsset, fn) }
func (a legacyAdapter) OnCompilationStart(fn CompilationStartFunc) { a.register(EventCompilationStart, fn) }
func (a legacyAdapter) OnBuildDone(fn BuildDoneFunc)               { a.register(EventBuildDone, fn) }
func (a legacyAdapter) OnceBuildFinalized(fn BuildFinalizedFunc)   { a.register(EventBuildFinalized, fn) }
