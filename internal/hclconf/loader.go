// Package hclconf is the HCL implementation of the config.Loader interface.
package hclconf

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/bundlemanifest/internal/config"
	"github.com/vk/bundlemanifest/internal/ctxlog"
	"github.com/vk/bundlemanifest/internal/generate"
)

// Loader parses manifest options files written in HCL.
type Loader struct{}

// NewLoader creates a new HCL options loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the top-level decode target for an options file.
type fileRoot struct {
	Manifest *manifestBlock `hcl:"manifest,block"`
	Remain   hcl.Body       `hcl:",remain"`
}

// manifestBlock mirrors the `manifest` block's schema.
type manifestBlock struct {
	FileName            string         `hcl:"file_name,optional"`
	BasePath            string         `hcl:"base_path,optional"`
	WriteToFile         bool           `hcl:"write_to_file,optional"`
	Format              string         `hcl:"format,optional"`
	TransformExtensions string         `hcl:"transform_extensions,optional"`
	Seed                hcl.Expression `hcl:"seed,optional"`
	Exclude             []string       `hcl:"exclude,optional"`
	Renames             []*renameBlock `hcl:"rename,block"`
}

// renameBlock is one declarative rename rule.
type renameBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// Load parses the options file at path into the agnostic model. An empty
// path yields the default model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No options file given, using defaults.")
		return config.Default(), nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse options file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode options file %s: %w", path, diags)
	}
	if root.Manifest == nil {
		return nil, fmt.Errorf("options file %s has no manifest block", path)
	}

	model, err := l.translate(root.Manifest)
	if err != nil {
		return nil, fmt.Errorf("invalid options file %s: %w", path, err)
	}
	logger.Debug("Options file loaded.", "path", path, "renames", len(model.Renames), "excludes", len(model.Exclude))
	return model, nil
}

// translate converts the HCL-specific block into the agnostic model,
// compiling patterns and evaluating the seed expression.
func (l *Loader) translate(block *manifestBlock) (*config.Model, error) {
	model := &config.Model{
		FileName:    block.FileName,
		BasePath:    block.BasePath,
		WriteToFile: block.WriteToFile,
		Format:      block.Format,
		Exclude:     block.Exclude,
	}

	if block.TransformExtensions != "" {
		re, err := regexp.Compile(`(?i)^(` + block.TransformExtensions + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid transform_extensions pattern: %w", err)
		}
		model.TransformExtensions = re
	}

	if block.Seed != nil {
		seed, err := l.translateSeed(block.Seed)
		if err != nil {
			return nil, err
		}
		model.Seed = seed
	}

	for _, r := range block.Renames {
		from, err := regexp.Compile(r.From)
		if err != nil {
			return nil, fmt.Errorf("invalid rename pattern %q: %w", r.From, err)
		}
		model.Renames = append(model.Renames, config.Rename{From: from, To: r.To})
	}
	return model, nil
}

// translateSeed evaluates the seed expression into initial manifest entries.
// The expression must be an object or map with string values.
func (l *Loader) translateSeed(expr hcl.Expression) (generate.Manifest, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate seed: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("seed must be an object of strings, got %s", val.Type().FriendlyName())
	}

	seed := generate.Manifest{}
	for key, entry := range val.AsValueMap() {
		if entry.Type() != cty.String || entry.IsNull() {
			return nil, fmt.Errorf("seed entry %q must be a string", key)
		}
		seed[key] = entry.AsString()
	}
	return seed, nil
}
