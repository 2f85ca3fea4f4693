package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/pkg/runner"
)

// discoveryTree is the fixture most discovery tests walk.
//
//nolint:gochecknoglobals // shared fixture
var discoveryTree = map[string]string{
	"readme.md":              "# readme",
	"CHANGES.MD":             "# changes",
	"docs/guide.md":          "||spoiler||",
	"docs/api.markdown":      "x^2",
	"docs/draft.md":          "~~old~~",
	"docs/.hidden.md":        "hidden",
	".git/notes.md":          "hidden dir",
	"vendor/lib/readme.md":   "vendored",
	"build/out.md":           "generated",
	"src/main.go":            "package main",
	"notes.txt":              "not markdown",
	"docs/nested/deep/a.md":  "deep",
	"docs/nested/deep/b.txt": "deep text",
}

// discover runs Discover in dir and returns slash paths relative to dir.
func discover(t *testing.T, dir string, opts runner.Options) []string {
	t.Helper()

	opts.WorkingDir = dir
	files, err := runner.Discover(context.Background(), opts)
	require.NoError(t, err)

	rel := make([]string, 0, len(files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f), "relative path %q", f)
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, discoveryTree)

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults walk the working directory",
			want: []string{
				"CHANGES.MD", "build/out.md", "docs/api.markdown", "docs/draft.md",
				"docs/guide.md", "docs/nested/deep/a.md", "readme.md", "vendor/lib/readme.md",
			},
		},
		{
			name: "single file",
			opts: runner.Options{Paths: []string{"docs/guide.md"}},
			want: []string{"docs/guide.md"},
		},
		{
			name: "explicit non-markdown file is dropped",
			opts: runner.Options{Paths: []string{"notes.txt"}},
			want: []string{},
		},
		{
			name: "overlapping paths are deduplicated",
			opts: runner.Options{Paths: []string{"docs", "docs/guide.md", "./docs/nested"}},
			want: []string{"docs/api.markdown", "docs/draft.md", "docs/guide.md", "docs/nested/deep/a.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Paths: []string{"docs"}, Extensions: []string{".TXT"}},
			want: []string{"docs/nested/deep/b.txt"},
		},
		{
			name: "exclude directories and base names",
			opts: runner.Options{ExcludeGlobs: []string{"{build,vendor}/**", "draft.md", "**/deep"}},
			want: []string{"CHANGES.MD", "docs/api.markdown", "docs/guide.md", "readme.md"},
		},
		{
			name: "include narrows the set",
			opts: runner.Options{IncludeGlobs: []string{"docs/*.md", "**/a.md"}, ExcludeGlobs: []string{"docs/draft.md"}},
			want: []string{"docs/guide.md", "docs/nested/deep/a.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, discover(t, dir, tt.opts))
		})
	}
}

func TestDiscover_Sorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"z.md": "", "m/a.md": "", "a.md": "", "m.md": ""})

	first := discover(t, dir, runner.Options{Paths: []string{"z.md", "m", "."}})
	assert.True(t, slices.IsSorted(first), "not sorted: %v", first)
	assert.Equal(t, []string{"a.md", "m.md", "m/a.md", "z.md"}, first)
	for range 5 {
		require.Equal(t, first, discover(t, dir, runner.Options{Paths: []string{".", "m", "z.md"}}))
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": ""})

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing.md"}})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"[a"}})
	require.ErrorContains(t, err, "exclude pattern")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"real/doc.md": "x"})

	outside := t.TempDir()
	writeFiles(t, outside, map[string]string{"external.md": "y"})

	if err := os.Symlink(filepath.Join(dir, "real", "doc.md"), filepath.Join(dir, "alias.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "linked")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.md"), filepath.Join(dir, "broken.md")))

	assert.Equal(t, []string{"alias.md", "real/doc.md"}, discover(t, dir, runner.Options{}),
		"directory links are not followed by default")

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.True(t, slices.ContainsFunc(files, func(f string) bool { return strings.HasSuffix(f, "external.md") }),
		"FollowSymlinks: %v", files)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".md", ".markdown"}, runner.DefaultExtensions())
}

func TestValidateGlobs(t *testing.T) {
	t.Parallel()

	require.NoError(t, runner.ValidateGlobs([]string{"**/*.md", "{a,b}/**"}))
	require.Error(t, runner.ValidateGlobs([]string{"docs/[a"}), "unterminated class")
}
