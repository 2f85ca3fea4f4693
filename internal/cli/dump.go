package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/internal/ui/pretty"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/fsutil"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

type dumpFlags struct {
	extensions     []string
	redditSpoilers bool
	noPositions    bool
	inline         bool
}

func newDumpCommand() *cobra.Command {
	flags := &dumpFlags{}

	cmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "Print the parsed node tree",
		Long: `Parse a Markdown file (or stdin) and print the resulting node tree.

Each line shows the node's type name, its attributes, literal text and
source span. Extension nodes are named by the extension that owns them.

Examples:
  inlinemark dump README.md
  echo 'a ^(b c)' | inlinemark dump --inline
  inlinemark dump --no-positions -e spoiler doc.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fsutil.StdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runDump(cmd, path, flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.extensions, "extension", "e", nil,
		"extensions to register, in order (repeatable)")
	cmd.Flags().BoolVar(&flags.redditSpoilers, "reddit-spoilers", false, "use >!spoiler!< instead of ||spoiler||")
	cmd.Flags().BoolVar(&flags.noPositions, "no-positions", false, "omit source spans")
	cmd.Flags().BoolVar(&flags.inline, "inline", false, "treat input as a single paragraph of inline content")

	return cmd
}

func runDump(cmd *cobra.Command, path string, flags *dumpFlags) error {
	cliCfg := &config.Config{Extensions: flags.extensions}
	if flags.redditSpoilers {
		cliCfg.SpoilerStyle = config.SpoilerReddit
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	eng, err := newEngine(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	content, err := fsutil.ReadInput(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var doc *mdast.Document
	if flags.inline {
		doc, err = eng.ParseInline(ctx, string(content))
	} else {
		doc, err = eng.Parse(ctx, path, content)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := colorStyles(cmd, out)
	fmt.Fprint(out, styles.FormatTree(doc, eng.Host, pretty.TreeOptions{Positions: !flags.noPositions}))

	return nil
}
