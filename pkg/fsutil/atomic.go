package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for rendered files.
const DefaultFileMode os.FileMode = 0644

// DefaultDirMode is the permission mode for created output directories.
const DefaultDirMode os.FileMode = 0755

// WriteAtomic replaces path with content. The bytes go to a temporary file
// beside path which is synced, chmodded and renamed over it, so readers see
// either the old file or the new one. Missing parent directories are
// created. A zero mode means DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	return replace(path, content, mode)
}

// WriteAtomicIfChanged is WriteAtomic that leaves path alone when it already
// holds content, so re-rendering an unchanged tree keeps output mtimes. It
// reports whether the file was written.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write atomic: %w", err)
	}

	same, err := holds(path, content)
	if err != nil || same {
		return false, err
	}
	if err := replace(path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// holds reports whether path is a regular file with exactly content.
func holds(path string, content []byte) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("read existing: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	case info.Size() != int64(len(content)):
		return false, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read existing: %w", err)
	}
	return bytes.Equal(existing, content), nil
}

// replace writes content to a sibling temp file and renames it over path.
// The temp file is removed on any failure.
func replace(path string, content []byte, mode os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreClosed(tmp.Close()), os.Remove(name))
		}
	}()

	if mode == 0 {
		mode = DefaultFileMode
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
