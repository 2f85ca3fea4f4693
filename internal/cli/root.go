// Package cli provides the Cobra command structure for inlinemark.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/internal/configloader"
	"github.com/yaklabco/inlinemark/internal/logging"
)

const rootLong = `inlinemark parses CommonMark and renders it to xml, html, latex, man,
commonmark or plain text.

Inline syntax is extensible. Spoilers (||text|| or >!text!<), superscript
(^word or ^(a span)) and strikethrough (~~text~~) ship as extensions and
are registered in the order given by the configuration.`

// NewRootCommand builds the inlinemark command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "inlinemark",
		Short:         "A CommonMark renderer with pluggable inline syntax",
		Long:          rootLong + "\n\n" + envHelp(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return err
			}
			if debug {
				logging.SetLevel("debug")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("debug", false, "enable debug logging")
	flags.String("config", "", "path to config file")
	flags.String("color", "auto", "colorize output: auto, always, never")

	root.AddCommand(
		newRenderCommand(),
		newDumpCommand(),
		newExtensionsCommand(),
		newInitCommand(),
		newConfigCommand(),
		newVersionCommand(info),
	)
	applyHelp(root)

	return root
}

// envHelp lists the INLINEMARK_* overrides.
func envHelp() string {
	var b strings.Builder
	b.WriteString("Environment:")
	for _, v := range configloader.EnvVars() {
		fmt.Fprintf(&b, "\n  %-33s %s", v.Name, v.Help)
	}
	return b.String()
}
