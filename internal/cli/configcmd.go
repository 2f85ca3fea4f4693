package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/pkg/config"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration inlinemark would render with, after merging
defaults, the system, user and project files and INLINEMARK_* variables.
The files that contributed are listed in the header.`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
}

func runConfig(cmd *cobra.Command, _ []string) error {
	result, err := resolveConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	sources := []string{"defaults"}
	for _, src := range result.Sources {
		sources = append(sources, src.Layer.String()+" "+src.Path)
	}
	header := "effective inlinemark configuration\nsources: " + strings.Join(sources, ", ")

	data, err := result.Config.ToYAML(header)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), data)
}
