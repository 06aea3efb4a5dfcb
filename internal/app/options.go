package app

import (
	"fmt"
	"path"
	"strings"

	"github.com/vk/bundlemanifest/internal/config"
	"github.com/vk/bundlemanifest/internal/descriptor"
	"github.com/vk/bundlemanifest/internal/plugin"
	"github.com/vk/bundlemanifest/internal/serialize"
)

// buildOptions translates the loaded configuration model into plugin options,
// turning declarative exclude patterns and rename rules into pipeline stages.
func buildOptions(model *config.Model) (plugin.Options, error) {
	serializer, err := serialize.ByName(model.Format)
	if err != nil {
		return plugin.Options{}, err
	}

	opts := plugin.Options{
		BasePath:            model.BasePath,
		FileName:            model.FileName,
		TransformExtensions: model.TransformExtensions,
		WriteToFileEmit:     model.WriteToFile,
		Serialize:           serializer,
	}
	if model.Seed != nil {
		opts.Seed = model.Seed
	}

	if len(model.Exclude) > 0 {
		patterns := model.Exclude
		opts.Filter = func(f descriptor.File) bool {
			for _, pat := range patterns {
				if matchPattern(pat, f.Name) {
					return false
				}
			}
			return true
		}
	}

	if len(model.Renames) > 0 {
		rules := model.Renames
		opts.Map = func(f descriptor.File) descriptor.File {
			for _, r := range rules {
				f.Name = r.From.ReplaceAllString(f.Name, r.To)
			}
			return f
		}
	}

	return opts, nil
}

// matchPattern tests a configured exclude pattern against a manifest name.
// Patterns with glob metacharacters use path.Match semantics against the
// name's base; plain patterns match by substring.
func matchPattern(pattern, name string) bool {
	if strings.ContainsAny(pattern, "*?[") {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, path.Base(name)); err == nil && ok {
			return true
		}
		return false
	}
	return strings.Contains(name, pattern)
}

// mustBuildOptions wraps buildOptions for startup paths where a bad
// configuration is fatal.
func mustBuildOptions(model *config.Model) plugin.Options {
	opts, err := buildOptions(model)
	if err != nil {
		panic(fmt.Errorf("invalid manifest configuration: %w", err))
	}
	return opts
}
