// Package fsutil reads Markdown inputs, maps them to output files and writes
// rendered output atomically.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// StdinPath is the path argument that selects standard input.
const StdinPath = "-"

// Errors for classifying I/O failures with errors.Is.
var (
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")

	// ErrSameFile rejects an output path that is its own input.
	ErrSameFile = errors.New("output would overwrite input")
)

// ReadFile reads a regular file. Missing files, permission problems and
// directories wrap ErrNotFound, ErrPermissionDenied and ErrIsDirectory.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return nil, classify(path, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}
	return content, nil
}

// ReadInput reads path, or stdin when path is empty or StdinPath.
func ReadInput(ctx context.Context, path string, stdin io.Reader) ([]byte, error) {
	if path != "" && path != StdinPath {
		return ReadFile(ctx, path)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return content, nil
}

// OutputPath maps input to its rendered file under outDir: the input's
// path relative to baseDir with ext in place of its extension. Inputs
// outside baseDir, or with no baseDir, keep only their base name.
func OutputPath(baseDir, outDir, input, ext string) (string, error) {
	src, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", input, err)
	}

	name := filepath.Base(src)
	if baseDir != "" {
		base, err := filepath.Abs(baseDir)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", baseDir, err)
		}
		if rel, err := filepath.Rel(base, src); err == nil && filepath.IsLocal(rel) {
			name = rel
		}
	}

	dst, err := filepath.Abs(filepath.Join(outDir, strings.TrimSuffix(name, filepath.Ext(name))+ext))
	if err != nil {
		return "", fmt.Errorf("resolve output for %s: %w", input, err)
	}
	if dst == src {
		return "", fmt.Errorf("%w: %s", ErrSameFile, input)
	}
	return dst, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
