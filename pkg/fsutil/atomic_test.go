package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		target   string
		content  string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "new file", target: "out.html", content: "<p>hi</p>\n", mode: 0600, wantMode: 0600},
		{name: "replaces existing", existing: "old", target: "out.html", content: "new", mode: 0644, wantMode: 0644},
		{name: "zero mode uses default", target: "out.tex", content: "x", wantMode: fsutil.DefaultFileMode},
		{name: "empty content", target: "out.txt", wantMode: fsutil.DefaultFileMode},
		{name: "creates parents", target: "site/docs/guide.html", content: "g", wantMode: fsutil.DefaultFileMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, filepath.FromSlash(tt.target))
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0644))
			}

			require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte(tt.content), tt.mode))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, info.Mode().Perm())

			// Only the target remains beside itself.
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestWriteAtomic_Failures(t *testing.T) {
	t.Parallel()

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "out.html")
		err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0)
		require.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, path)
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		err := fsutil.WriteAtomic(context.Background(), filepath.Join(blocker, "out.html"), []byte("x"), 0)
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files left behind")
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "doc.html")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("<p>a</p>\n"), 0)
	require.NoError(t, err)
	assert.True(t, written, "missing file is written")

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("<p>a</p>\n"), 0)
	require.NoError(t, err)
	assert.False(t, written, "identical output is left alone")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, old, info.ModTime(), time.Second)

	// Same length, different bytes.
	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("<p>b</p>\n"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>b</p>\n", string(got))
}

func TestWriteAtomicIfChanged_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := fsutil.WriteAtomicIfChanged(context.Background(), dir, []byte("x"), 0)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fsutil.WriteAtomicIfChanged(ctx, filepath.Join(dir, "a"), nil, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}
