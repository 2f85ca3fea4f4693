package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/render"
)

// envVarPrefix is the prefix for all inlinemark environment variables.
const envVarPrefix = "INLINEMARK_"

// EnvVar describes one environment variable override.
type EnvVar struct {
	// Name is the full variable name, e.g. INLINEMARK_FORMAT.
	Name string

	// Field is the configuration key the variable overrides.
	Field string

	// Help is a one-line description.
	Help string

	apply func(cfg *config.Config, value string) error
}

func envString(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func envBool(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func envInt(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, n)
		return nil
	}
}

// envList splits a comma-separated value, dropping empty elements.
func envList(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		set(cfg, items)
		return nil
	}
}

// envVars lists every supported override in the order they are applied
// and documented.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []EnvVar{
	{
		Field: "extensions", Help: "Comma-separated extensions, in registration order",
		apply: envList(func(c *config.Config, v []string) { c.Extensions = v }),
	},
	{
		Field: "spoiler_style", Help: "Spoiler syntax: discord or reddit",
		apply: envString(func(c *config.Config, v string) { c.SpoilerStyle = config.SpoilerStyle(v) }),
	},
	{
		Field: "format", Help: "Output format: xml, html, latex, man, commonmark, or plaintext",
		apply: func(c *config.Config, v string) error {
			format, err := render.ParseFormat(v)
			if err != nil {
				return err
			}
			c.Format = format
			return nil
		},
	},
	{
		Field: "width", Help: "Wrap width for commonmark and plaintext (0 = none)",
		apply: envInt(func(c *config.Config, v int) { c.Width = v }),
	},
	{
		Field: "sourcepos", Help: "Emit source positions: true or false",
		apply: envBool(func(c *config.Config, v bool) { c.SourcePos = v }),
	},
	{
		Field: "hard_breaks", Help: "Render soft breaks as hard breaks: true or false",
		apply: envBool(func(c *config.Config, v bool) { c.HardBreaks = v }),
	},
	{
		Field: "no_breaks", Help: "Render soft breaks as spaces: true or false",
		apply: envBool(func(c *config.Config, v bool) { c.NoBreaks = v }),
	},
	{
		Field: "unsafe", Help: "Pass raw HTML through: true or false",
		apply: envBool(func(c *config.Config, v bool) { c.Unsafe = v }),
	},
	{
		Field: "detect_code_language", Help: "Guess code block languages: true or false",
		apply: envBool(func(c *config.Config, v bool) { c.DetectCodeLanguage = v }),
	},
	{
		Field: "max_nodes", Help: "Maximum nodes per document",
		apply: envInt(func(c *config.Config, v int) { c.MaxNodes = v }),
	},
	{
		Field: "jobs", Help: "Number of parallel workers (0 = auto)",
		apply: envInt(func(c *config.Config, v int) { c.Jobs = v }),
	},
	{
		Field: "out_dir", Help: "Directory for rendered files",
		apply: envString(func(c *config.Config, v string) { c.OutDir = v }),
	},
	{
		Field: "ignore", Help: "Comma-separated list of ignore patterns",
		apply: envList(func(c *config.Config, v []string) { c.Ignore = v }),
	},
}

// envName derives INLINEMARK_MAX_NODES from max_nodes.
func envName(field string) string {
	return envVarPrefix + strings.ToUpper(field)
}

// LoadFromEnv applies INLINEMARK_* overrides to cfg. Unset and empty
// variables are skipped.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, v := range envVars {
		name := envName(v.Field)
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// EnvVars returns every supported environment variable in documentation
// order.
func EnvVars() []EnvVar {
	vars := make([]EnvVar, len(envVars))
	for i, v := range envVars {
		v.Name = envName(v.Field)
		vars[i] = v
	}
	return vars
}

// EnvVarName returns the variable overriding a configuration key, or "" if
// the key has none.
func EnvVarName(field string) string {
	for _, v := range envVars {
		if v.Field == field {
			return envName(field)
		}
	}
	return ""
}
