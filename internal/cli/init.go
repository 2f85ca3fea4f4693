package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/internal/logging"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/fsutil"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

// target is the file init writes, defaulting by format.
func (f *initFlags) target() string {
	switch {
	case f.output != "":
		return f.output
	case f.format == formatJSON:
		return ".inlinemark.json"
	default:
		return ".inlinemark.yml"
	}
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write .inlinemark.yml in the current directory with the default
extension order, spoiler style and output format.

Examples:
  inlinemark init                      Minimal .inlinemark.yml
  inlinemark init --full               Document every setting and extension
  inlinemark init --format json        Write .inlinemark.json instead
  inlinemark init -o ci/inlinemark.yml Write somewhere else`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every setting and extension")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "file to write (default .inlinemark.yml or .inlinemark.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	path := flags.target()

	_, err := os.Stat(path)
	switch {
	case err == nil && !flags.force:
		return fmt.Errorf("%w: %s already exists; use --force to overwrite", ErrInvalidUsage, path)
	case err == nil:
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("check %s: %w", path, err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), path, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("run 'inlinemark config' to see the merged result")
	return nil
}
