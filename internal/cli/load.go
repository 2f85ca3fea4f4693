package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/inlinemark/internal/configloader"
	"github.com/yaklabco/inlinemark/internal/logging"
	"github.com/yaklabco/inlinemark/internal/ui/pretty"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/engine"
)

const defaultTermWidth = 80

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig merges every configuration layer with the flags in cliCfg.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	result, err := resolveConfig(cmd, cliCfg)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// resolveConfig is loadConfig that also reports where the layers came from.
func resolveConfig(cmd *cobra.Command, cliCfg *config.Config) (*configloader.LoadResult, error) {
	logger := logging.FromContext(commandContext(cmd))

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Flags:        cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	if len(result.LoadedFrom()) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom())
	}

	cfg := result.Config
	logger.Debug("configuration resolved",
		logging.FieldConfig, configPath,
		logging.FieldExtensions, cfg.Extensions,
		logging.FieldSpoiler, cfg.SpoilerStyle,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
	)

	return result, nil
}

// newEngine builds an engine from cfg. Unknown extension names surface as
// configuration errors.
func newEngine(cmd *cobra.Command, cfg *config.Config) (*engine.Engine, error) {
	eng, err := engine.FromConfig(cfg, logging.FromContext(commandContext(cmd)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return eng, nil
}

// colorStyles returns styles for w according to the --color flag.
func colorStyles(cmd *cobra.Command, w io.Writer) *pretty.Styles {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(mode, w))
}

// terminalWidth attempts to get the terminal width from the writer.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

// stdinIsTerminal reports whether r is an interactive terminal.
func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
