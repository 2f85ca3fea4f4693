package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/internal/ui/pretty"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/ext"
)

const formatJSON = "json"

type extensionsFlags struct {
	format string
	all    bool
}

// extensionInfo represents an extension in JSON output.
type extensionInfo struct {
	Order       int      `json:"order"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Triggers    string   `json:"triggers"`
	Interleaved bool     `json:"interleaved"`
	Formats     []string `json:"formats"`
	Description string   `json:"description"`
}

func newExtensionsCommand() *cobra.Command {
	flags := &extensionsFlags{}

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "List registered extensions",
		Long: `List the extensions the current configuration registers, in
registration order. An earlier extension sees a shared trigger character
first.

Interleaved extensions resolve their delimiters together with emphasis;
deferred ones resolve after emphasis has finished.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtensions(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.all, "all", false, "list every built-in extension, ignoring configuration")

	return cmd
}

func runExtensions(cmd *cobra.Command, flags *extensionsFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	names := ext.Builtins()
	if !flags.all {
		cfg, err := loadConfig(cmd, &config.Config{})
		if err != nil {
			return err
		}
		names = cfg.Extensions
	}

	host, err := ext.NewHost(names)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	rows := pretty.ExtensionRows(host, ext.Describe)
	out := cmd.OutOrStdout()

	if flags.format == formatJSON {
		return outputExtensionsJSON(out, rows)
	}

	table := pretty.NewTableFormatter(colorStyles(cmd, out), terminalWidth(out))
	fmt.Fprint(out, table.FormatExtensions(rows))

	return nil
}

// outputExtensionsJSON outputs extensions as a JSON array.
func outputExtensionsJSON(w io.Writer, rows []pretty.ExtensionRow) error {
	infos := make([]extensionInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, extensionInfo(row))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding extensions: %w", err)
	}
	return nil
}
