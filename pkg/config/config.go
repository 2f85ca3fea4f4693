// Package config defines core configuration types for inlinemark.
// These types are pure data structures; discovery and merging live in the
// configloader package.
package config

import (
	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/render"
)

// SpoilerStyle selects the spoiler delimiter syntax.
type SpoilerStyle string

const (
	// SpoilerDiscord uses ||spoiler||.
	SpoilerDiscord SpoilerStyle = "discord"
	// SpoilerReddit uses >!spoiler!<.
	SpoilerReddit SpoilerStyle = "reddit"
)

// IsValid returns true if the spoiler style is known.
func (s SpoilerStyle) IsValid() bool {
	switch s {
	case SpoilerDiscord, SpoilerReddit:
		return true
	default:
		return false
	}
}

// DefaultMaxNodes bounds the number of nodes a single document may allocate.
const DefaultMaxNodes = 1 << 20

// Config is the root configuration structure for inlinemark.
type Config struct {
	// Extensions lists the extensions to register, in registration order.
	// Registration order decides which extension sees a trigger first.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// SpoilerStyle selects discord or reddit spoiler syntax.
	SpoilerStyle SpoilerStyle `mapstructure:"spoiler_style" yaml:"spoiler_style"`

	// Format is the output backend.
	Format render.Format `mapstructure:"format" yaml:"format"`

	// Width wraps paragraphs in the commonmark and plaintext backends.
	Width int `mapstructure:"width" yaml:"width"`

	// SourcePos emits source positions in xml and html output.
	SourcePos bool `mapstructure:"sourcepos" yaml:"sourcepos"`

	// HardBreaks renders soft breaks as hard breaks.
	HardBreaks bool `mapstructure:"hard_breaks" yaml:"hard_breaks"`

	// NoBreaks renders soft breaks as spaces.
	NoBreaks bool `mapstructure:"no_breaks" yaml:"no_breaks"`

	// Unsafe passes raw HTML through.
	Unsafe bool `mapstructure:"unsafe" yaml:"unsafe"`

	// DetectCodeLanguage guesses languages for unlabelled code blocks.
	DetectCodeLanguage bool `mapstructure:"detect_code_language" yaml:"detect_code_language"`

	// MaxNodes caps node allocation per document. Zero means DefaultMaxNodes.
	MaxNodes int `mapstructure:"max_nodes" yaml:"max_nodes"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// OutDir receives rendered files instead of stdout.
	OutDir string `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extensions:   ext.Builtins(),
		SpoilerStyle: SpoilerDiscord,
		Format:       render.FormatHTML,
		MaxNodes:     DefaultMaxNodes,
		Jobs:         0, // 0 means use GOMAXPROCS
	}
}

// Options returns the option bits shared by the parser and renderers.
func (c *Config) Options() inline.Options {
	var opts inline.Options
	if c.SourcePos {
		opts |= inline.OptSourcePos
	}
	if c.HardBreaks {
		opts |= inline.OptHardBreaks
	}
	if c.NoBreaks {
		opts |= inline.OptNoBreaks
	}
	if c.Unsafe {
		opts |= inline.OptUnsafe
	}
	if c.SpoilerStyle == SpoilerReddit {
		opts |= inline.OptSpoilerRedditStyle
	}
	return opts
}

// RenderOptions returns the renderer configuration.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Flags:          c.Options(),
		Width:          c.Width,
		DetectLanguage: c.DetectCodeLanguage,
	}
}

// NodeLimit returns the effective per-document node cap.
func (c *Config) NodeLimit() int {
	if c.MaxNodes <= 0 {
		return DefaultMaxNodes
	}
	return c.MaxNodes
}
