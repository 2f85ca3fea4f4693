package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/internal/logging"
)

// BuildInfo is the version stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// resolved fills a dev build's version from the module build info, so
// "go install module@version" binaries report their tag.
func (b BuildInfo) resolved() BuildInfo {
	if b.Version != "dev" && b.Version != "" {
		return b
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		b.Version = bi.Main.Version
	}
	return b
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := info.resolved()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}
			logging.NewWithWriter(cmd.OutOrStdout(), "info").Info("inlinemark",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
			)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")

	return cmd
}
