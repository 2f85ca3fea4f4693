package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/inlinemark/pkg/engine"
	"github.com/yaklabco/inlinemark/pkg/fsutil"
)

// Converter renders one document. *engine.Engine implements it.
type Converter interface {
	Convert(ctx context.Context, path string, content []byte) (*engine.Result, error)
}

// Runner renders a set of files with a bounded worker pool.
type Runner struct {
	Converter Converter
}

// New returns a Runner that renders with c.
func New(c Converter) *Runner {
	return &Runner{Converter: c}
}

// Run discovers the files named by opts and renders up to opts.Jobs of them
// at once. Per-file failures are recorded in the outcome and do not stop
// the run. Outcomes are in discovery order; files not reached before ctx
// is cancelled are left out and the cancellation is returned with the
// partial result.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var g errgroup.Group
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = r.process(ctx, path, workDir, opts)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait() // workers never fail; errors live in outcomes

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// process reads, renders and, with an output directory, writes one file.
func (r *Runner) process(ctx context.Context, path, workDir string, opts Options) FileOutcome {
	out := FileOutcome{Path: path}

	content, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		out.Error = err
		return out
	}

	out.Result, err = r.Converter.Convert(ctx, path, content)
	if err != nil || opts.OutDir == "" {
		out.Error = err
		return out
	}

	format := opts.Format
	if format == "" {
		format = out.Result.Format
	}

	out.OutputPath, err = fsutil.OutputPath(workDir, opts.OutDir, path, format.Extension())
	if err != nil {
		out.Error = err
		return out
	}

	out.Written, err = fsutil.WriteAtomicIfChanged(ctx, out.OutputPath, out.Result.Output, fsutil.DefaultFileMode)
	if err != nil {
		out.Error = fmt.Errorf("write %s: %w", out.OutputPath, err)
	}
	return out
}
