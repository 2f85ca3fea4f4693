package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/engine"
	"github.com/yaklabco/inlinemark/pkg/render"
	"github.com/yaklabco/inlinemark/pkg/runner"
)

var errBoom = errors.New("boom")

// spyConverter wraps an engine, failing files named bad* and recording the
// peak number of concurrent Convert calls.
type spyConverter struct {
	inner  runner.Converter
	before func()
	calls  atomic.Int32
	active atomic.Int32
	peak   atomic.Int32
}

func (c *spyConverter) Convert(ctx context.Context, path string, content []byte) (*engine.Result, error) {
	c.calls.Add(1)
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if c.before != nil {
		c.before()
	}

	if strings.HasPrefix(filepath.Base(path), "bad") {
		return nil, errBoom
	}
	return c.inner.Convert(ctx, path, content)
}

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()

	eng, err := engine.FromConfig(config.NewConfig(), nil)
	require.NoError(t, err)
	return eng
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"test.md": "Hello ||secret||\n"})

	eng := newEngine(t)
	r := runner.New(eng)
	require.Same(t, eng, r.Converter)

	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	want := "<p>Hello <span class=\"spoiler\">secret</span></p>\n"
	f := result.Files[0]
	assert.Equal(t, want, string(f.Result.Output))
	assert.Empty(t, f.OutputPath)
	assert.Equal(t, 1, result.Stats.FilesRendered)
	assert.Equal(t, len(want), result.Stats.BytesTotal)
	assert.Positive(t, result.Stats.NodesTotal)
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_Empty(t *testing.T) {
	t.Parallel()

	result, err := runner.New(newEngine(t)).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, runner.Stats{}, result.Stats)

	var none *runner.Result
	assert.False(t, none.HasFailures())
}

func TestRunner_Run_Pool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"e", "a", "g", "c", "b", "f", "d", "h"} {
		files[name+".md"] = "# " + name + "\n"
	}
	writeFiles(t, dir, files)

	conv := &spyConverter{inner: newEngine(t)}
	result, err := runner.New(conv).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 3})
	require.NoError(t, err)

	assert.Equal(t, int32(len(files)), conv.calls.Load())
	assert.LessOrEqual(t, conv.peak.Load(), int32(3))
	require.Len(t, result.Files, len(files))
	for i := 1; i < len(result.Files); i++ {
		assert.Less(t, result.Files[i-1].Path, result.Files[i].Path)
	}
}

func TestRunner_Run_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"good.md": "fine\n", "bad.md": "broken\n"})

	conv := &spyConverter{inner: newEngine(t)}
	result, err := runner.New(conv).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err, "per-file failures do not fail the run")

	assert.Equal(t, int32(2), conv.calls.Load())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesRendered)
	assert.True(t, result.HasFailures())

	require.Len(t, result.Files, 2)
	assert.ErrorIs(t, result.Files[0].Error, errBoom, "bad.md sorts first")
	assert.Nil(t, result.Files[0].Result)
}

func TestRunner_Run_OutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeFiles(t, dir, map[string]string{
		"index.md":      "x^abc\n",
		"docs/guide.md": "~~old~~\n",
	})

	r := runner.New(newEngine(t))
	opts := runner.Options{WorkingDir: dir, OutDir: outDir, Format: render.FormatHTML}

	result, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.FilesWritten)

	for name, want := range map[string]string{
		"index.html":      "<p>x<sup>abc</sup></p>\n",
		"docs/guide.html": "<p><del>old</del></p>\n",
	} {
		got, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, want, string(got), name)
	}

	result, err = r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, result.Stats.FilesWritten)
	assert.Equal(t, 2, result.Stats.FilesUnchanged)
	for _, f := range result.Files {
		assert.False(t, f.Written, f.Path)
		assert.NotEmpty(t, f.OutputPath)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "a\n", "b.md": "b\n", "c.md": "c\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.New(newEngine(t)).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)

	// Cancelling during the first render keeps what finished and reports why.
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	conv := &spyConverter{inner: newEngine(t), before: cancel}

	result, err := runner.New(conv).Run(ctx, runner.Options{WorkingDir: dir, Jobs: 1})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Less(t, len(result.Files), 3)
}
