// Package configloader resolves the effective configuration: it discovers
// system, user and project files, merges them over the defaults, applies
// INLINEMARK_* environment overrides and CLI flags, and validates the result.
package configloader

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/yaklabco/inlinemark/pkg/config"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	WorkingDir   string // start of the project search; empty means "."
	ExplicitPath string // --config; replaces the project layer

	// Skip lists layers that are not consulted. Tests skip the system,
	// user and env layers to stay hermetic.
	Skip []Layer

	// Flags holds CLI values. They win over every layer.
	Flags *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config   *config.Config
	Sources  []Source // files merged, lowest precedence first
	Warnings []string // non-fatal validation findings
}

// LoadedFrom returns the merged file paths, lowest precedence first.
func (r *LoadResult) LoadedFrom() []string {
	paths := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		paths = append(paths, s.Path)
	}
	return paths
}

// Load resolves the final configuration. Later sources win:
//
//  1. defaults
//  2. system config (/etc/inlinemark/config.yaml)
//  3. user config ($XDG_CONFIG_HOME/inlinemark/config.yaml)
//  4. project config (.inlinemark.yml, searched upward) or --config
//  5. INLINEMARK_* environment variables
//  6. CLI flags
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	sources, err := DiscoverSources(ctx, cmp.Or(opts.WorkingDir, "."), opts.ExplicitPath, opts.Skip...)
	if err != nil {
		return nil, err
	}

	cfg := config.NewConfig()
	for _, src := range sources {
		layer, err := readConfigFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", src.Layer, err)
		}
		if err := ValidateWithFile(layer, src.Path).Err(); err != nil {
			return nil, err
		}
		cfg = merge(cfg, layer)
	}

	if !slices.Contains(opts.Skip, LayerEnv) {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	cfg = merge(cfg, opts.Flags)

	validation := Validate(cfg)
	if err := validation.Err(); err != nil {
		return nil, err
	}

	result := &LoadResult{Config: cfg, Sources: sources}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	return result, nil
}

func readConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
