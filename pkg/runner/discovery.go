package runner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover resolves opts.Paths to the Markdown files that will be rendered.
// Directories are walked recursively; files named explicitly are kept when
// they carry a Markdown extension and are not excluded. The result holds
// absolute paths, sorted and free of duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	opts = opts.withDefaults()

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	m, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	c := &collector{matcher: m, seen: make(map[string]struct{})}
	for _, input := range opts.Paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		if err := c.add(ctx, filepath.Clean(abs), input); err != nil {
			return nil, err
		}
	}

	slices.Sort(c.files)
	return c.files, nil
}

// resolveWorkDir makes dir absolute; empty means the process working
// directory.
func resolveWorkDir(dir string) (string, error) {
	abs, err := filepath.Abs(cmp.Or(dir, "."))
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return abs, nil
}

// collector accumulates matching files across every input path.
type collector struct {
	*matcher
	seen  map[string]struct{}
	files []string
}

func (c *collector) keep(p string) {
	if _, dup := c.seen[p]; dup {
		return
	}
	c.seen[p] = struct{}{}
	c.files = append(c.files, p)
}

// add handles one user-supplied path. input is used in error messages.
func (c *collector) add(ctx context.Context, abs, input string) error {
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}

	if !info.IsDir() {
		if c.matchFile(abs) {
			c.keep(abs)
		}
		return nil
	}

	if err := c.walk(ctx, abs); err != nil {
		return fmt.Errorf("walk directory %s: %w", abs, err)
	}
	return nil
}

// walk descends root. Hidden entries below root are skipped, as are
// unreadable directories and broken links. Directory links are only
// followed with FollowSymlinks, and then by their resolved target so a link
// cycle cannot recurse forever.
func (c *collector) walk(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || c.excludeDir(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, isDir, ok := resolveLink(p)
			switch {
			case !ok:
				return nil
			case isDir && c.followSymlinks:
				return c.walk(ctx, target)
			case isDir:
				return nil
			}
		}

		if c.matchFile(p) {
			c.keep(p)
		}
		return nil
	})
}

// resolveLink follows a symbolic link. ok is false when the link is broken
// or its target cannot be read.
func resolveLink(p string) (string, bool, bool) {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", false, false
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", false, false
	}
	return target, info.IsDir(), true
}

// matcher decides which discovered paths are rendered.
type matcher struct {
	workDir        string
	extensions     []string
	include        globSet
	exclude        globSet
	followSymlinks bool
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include pattern: %w", err)
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude pattern: %w", err)
	}

	return &matcher{
		workDir:        workDir,
		extensions:     opts.Extensions,
		include:        include,
		exclude:        exclude,
		followSymlinks: opts.FollowSymlinks,
	}, nil
}

// rel returns p relative to the working directory in slash form.
func (m *matcher) rel(p string) string {
	relPath, err := filepath.Rel(m.workDir, p)
	if err != nil {
		relPath = p
	}
	return filepath.ToSlash(relPath)
}

func (m *matcher) matchFile(p string) bool {
	if !slices.Contains(m.extensions, strings.ToLower(filepath.Ext(p))) {
		return false
	}

	relPath := m.rel(p)
	if m.exclude.match(relPath) {
		return false
	}
	return len(m.include) == 0 || m.include.match(relPath)
}

// excludeDir reports whether a directory and everything below it is skipped.
func (m *matcher) excludeDir(p string) bool {
	relPath := m.rel(p)
	return relPath != "." && m.exclude.match(relPath)
}

// globSet matches slash-separated relative paths against compiled patterns.
// Patterns support "*", "?", "[...]", "{a,b}" and "**" across directories.
type globSet []glob.Glob

// compileGlobs compiles patterns. "dir/**" also matches dir itself, and
// "**/name" also matches name at the top level.
func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		variants := []string{pattern}
		if trimmed, ok := strings.CutPrefix(pattern, "**/"); ok && trimmed != "" {
			variants = append(variants, trimmed)
		}
		if trimmed, ok := strings.CutSuffix(pattern, "/**"); ok && trimmed != "" {
			variants = append(variants, trimmed)
		}

		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("compile %q: %w", pattern, err)
			}
			set = append(set, g)
		}
	}

	return set, nil
}

// match reports whether relPath, or its base name, matches any pattern.
func (s globSet) match(relPath string) bool {
	base := path.Base(relPath)
	for _, g := range s {
		if g.Match(relPath) || g.Match(base) {
			return true
		}
	}
	return false
}

// ValidateGlobs reports the first malformed pattern.
func ValidateGlobs(patterns []string) error {
	_, err := compileGlobs(patterns)
	return err
}
