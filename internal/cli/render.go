package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/inlinemark/internal/logging"
	"github.com/yaklabco/inlinemark/internal/ui/pretty"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/engine"
	"github.com/yaklabco/inlinemark/pkg/fsutil"
	"github.com/yaklabco/inlinemark/pkg/render"
	"github.com/yaklabco/inlinemark/pkg/runner"
)

const widthAuto = "auto"

type renderFlags struct {
	to             string
	width          string
	extensions     []string
	redditSpoilers bool
	sourcepos      bool
	hardBreaks     bool
	noBreaks       bool
	unsafe         bool
	detectLang     bool
	maxNodes       int
	outDir         string
	jobs           int
	ignore         []string
	inline         bool
	stats          bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	addRenderFlags(cmd, flags)

	return cmd
}

const renderLongDescription = `Render Markdown files to the selected output format.

With no paths and piped input, renders stdin to stdout. A single file is
rendered to stdout. Directories are searched for .md and .markdown files;
their output is concatenated to stdout unless --out-dir is given, in which
case each file is written next to its mirrored input path.

Examples:
  inlinemark render README.md                 # HTML to stdout
  inlinemark render --to latex doc.md         # LaTeX to stdout
  echo 'a ||b||' | inlinemark render          # Render stdin
  inlinemark render --reddit-spoilers doc.md  # Use >!spoiler!< syntax
  inlinemark render docs/ --out-dir site/     # Render a tree of files
  inlinemark render -e superscript doc.md     # Only the superscript extension`

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringVarP(&flags.to, "to", "t", "", "output format: xml, html, latex, man, commonmark, plaintext")
	cmd.Flags().StringVar(&flags.width, "width", "", "wrap commonmark and plaintext output (number or auto)")
	cmd.Flags().StringSliceVarP(&flags.extensions, "extension", "e", nil,
		"extensions to register, in order (repeatable)")
	cmd.Flags().BoolVar(&flags.redditSpoilers, "reddit-spoilers", false, "use >!spoiler!< instead of ||spoiler||")
	cmd.Flags().BoolVar(&flags.sourcepos, "sourcepos", false, "include source positions in xml and html output")
	cmd.Flags().BoolVar(&flags.hardBreaks, "hardbreaks", false, "render soft breaks as hard breaks")
	cmd.Flags().BoolVar(&flags.noBreaks, "nobreaks", false, "render soft breaks as spaces")
	cmd.Flags().BoolVar(&flags.unsafe, "unsafe", false, "pass raw HTML through")
	cmd.Flags().BoolVar(&flags.detectLang, "detect-language", false, "guess languages for unlabelled code blocks")
	cmd.Flags().IntVar(&flags.maxNodes, "max-nodes", 0, "maximum nodes per document (0 = default)")
	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "write one output file per input into this directory")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.inline, "inline", false, "treat input as a single paragraph of inline content")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print a per-file table and summary to stderr")
}

// cliConfig maps changed flags onto a config layer.
func (f *renderFlags) cliConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{
		Extensions: f.extensions,
		SourcePos:  f.sourcepos,
		HardBreaks: f.hardBreaks,
		NoBreaks:   f.noBreaks,
		Unsafe:     f.unsafe,
		MaxNodes:   f.maxNodes,
		Ignore:     f.ignore,
		Jobs:       f.jobs,
		OutDir:     f.outDir,

		DetectCodeLanguage: f.detectLang,
	}

	if f.redditSpoilers {
		cfg.SpoilerStyle = config.SpoilerReddit
	}

	if cmd.Flags().Changed("to") {
		format, err := render.ParseFormat(f.to)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		cfg.Format = format
	}

	switch f.width {
	case "":
	case widthAuto:
		cfg.Width = terminalWidth(cmd.OutOrStdout())
	default:
		width, err := strconv.Atoi(f.width)
		if err != nil || width < 0 {
			return nil, fmt.Errorf("%w: --width must be a non-negative number or %q", ErrInvalidUsage, widthAuto)
		}
		cfg.Width = width
	}

	return cfg, nil
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	eng, err := newEngine(cmd, cfg)
	if err != nil {
		return err
	}

	switch {
	case len(args) == 1 && args[0] == fsutil.StdinPath,
		len(args) == 0 && !stdinIsTerminal(cmd.InOrStdin()):
		return renderSingle(cmd, eng, fsutil.StdinPath, flags.inline)
	case len(args) == 1 && cfg.OutDir == "" && isRegularFile(args[0]):
		return renderSingle(cmd, eng, args[0], flags.inline)
	}

	if flags.inline {
		return fmt.Errorf("%w: --inline needs a single file or stdin", ErrInvalidUsage)
	}

	return renderMany(cmd, eng, cfg, args, flags.stats)
}

// renderSingle renders one input straight to stdout.
func renderSingle(cmd *cobra.Command, eng *engine.Engine, path string, inline bool) error {
	ctx := commandContext(cmd)

	content, err := fsutil.ReadInput(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if !inline {
		result, err := eng.Convert(ctx, path, content)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), result.Output)
	}

	doc, err := eng.ParseInline(ctx, string(content))
	if err != nil {
		return err
	}
	return eng.Render(cmd.OutOrStdout(), doc)
}

// renderMany renders discovered files through the worker pool.
func renderMany(cmd *cobra.Command, eng *engine.Engine, cfg *config.Config, args []string, stats bool) error {
	logger := logging.FromContext(commandContext(cmd))
	ctx := commandContext(cmd)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		OutDir:       cfg.OutDir,
		Format:       eng.Format,
	}

	logger.Debug("starting render run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldOutDir, runOpts.OutDir,
	)

	start := time.Now()
	result, err := runner.New(eng).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("render run failed"), err)
	}
	elapsed := time.Since(start)

	errOut := cmd.ErrOrStderr()
	styles := colorStyles(cmd, errOut)

	for _, f := range result.Files {
		if f.Error != nil {
			fmt.Fprint(errOut, styles.FormatFileError(f.Path, f.Error))
			continue
		}
		if cfg.OutDir == "" {
			if err := writeOutput(cmd.OutOrStdout(), f.Result.Output); err != nil {
				return err
			}
		}
	}

	logger.Debug("render run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldNodes, result.Stats.NodesTotal,
		logging.FieldDuration, elapsed,
	)

	switch {
	case stats:
		table := pretty.NewTableFormatter(styles, terminalWidth(errOut))
		fmt.Fprint(errOut, table.FormatRun(result, workDir))
	case cfg.OutDir != "":
		fmt.Fprint(errOut, styles.FormatSummaryOneLine(result.Stats, elapsed))
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailed
	}

	return nil
}

func writeOutput(w io.Writer, output []byte) error {
	if _, err := w.Write(output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
