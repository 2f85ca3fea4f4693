package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/render"
	"github.com/yaklabco/inlinemark/pkg/runner"
)

// ValidationError is one problem found in a configuration.
type ValidationError struct {
	Field    string // offending key, e.g. "extensions[1]"
	Value    any
	Message  string
	FilePath string // file the value came from, if known
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.FilePath != "" {
		msg = e.FilePath + ": " + msg
	}
	return msg
}

// ValidationResult collects every finding for one configuration. Errors
// stop loading; warnings are only reported.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Err returns the first error, or nil.
func (r *ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, finding(field, value, format, args))
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, finding(field, value, format, args))
}

func finding(field string, value any, format string, args []any) ValidationError {
	return ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.SpoilerStyle != "" && !cfg.SpoilerStyle.IsValid() {
		result.fail("spoiler_style", cfg.SpoilerStyle,
			"invalid spoiler style %q; must be one of: discord, reddit", cfg.SpoilerStyle)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: %s", cfg.Format, formatList())
	}

	for _, limit := range []struct {
		field string
		value int
		zero  string
	}{
		{"width", cfg.Width, "0 disables wrapping"},
		{"max_nodes", cfg.MaxNodes, "0 means the default limit"},
		{"jobs", cfg.Jobs, "0 means auto"},
	} {
		if limit.value < 0 {
			result.fail(limit.field, limit.value, "%s must be >= 0 (%s)", limit.field, limit.zero)
		}
	}

	if cfg.HardBreaks && cfg.NoBreaks {
		result.warn("no_breaks", cfg.NoBreaks, "hard_breaks and no_breaks are both set; hard_breaks wins")
	}

	validateExtensions(cfg, result)

	for i, pattern := range cfg.Ignore {
		if err := runner.ValidateGlobs([]string{pattern}); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

// validateExtensions checks that every extension is known and listed once.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	seen := make(map[string]bool, len(cfg.Extensions))

	for i, name := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		switch {
		case !ext.IsBuiltin(name):
			result.fail(field, name, "unknown extension %q; must be one of: %s",
				name, strings.Join(ext.Builtins(), ", "))
		case seen[name]:
			result.warn(field, name, "extension %q is listed more than once; later entries are ignored", name)
		}
		seen[name] = true
	}
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for _, list := range [][]ValidationError{result.Errors, result.Warnings} {
		for i := range list {
			list[i].FilePath = filePath
		}
	}
	return result
}

func formatList() string {
	names := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
