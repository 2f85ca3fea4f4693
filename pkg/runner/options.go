// Package runner discovers Markdown files and renders them concurrently,
// optionally mirroring the rendered output into a directory.
package runner

import (
	"slices"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/render"
)

// Options selects the files of a run and where their output goes.
type Options struct {
	Paths      []string // files or directories; none means "."
	WorkingDir string   // anchors relative paths, globs and OutDir; empty means os.Getwd

	// Extensions recognised as Markdown, compared case-insensitively.
	// Empty means DefaultExtensions.
	Extensions []string

	// IncludeGlobs, when set, keep only files matching one of them.
	// ExcludeGlobs drop matching files and prune matching directories.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	Jobs int // concurrent renders; zero or less means one per CPU

	// OutDir receives one file per input, laid out as the inputs are
	// relative to WorkingDir. Format picks the output file extension;
	// empty uses each result's own format.
	OutDir string
	Format render.Format
}

// DefaultExtensions are the Markdown extensions used when none are set.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// withDefaults fills unset paths and extensions. Extensions come back
// lowercased.
func (o Options) withDefaults() Options {
	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}

	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	o.Extensions = make([]string, 0, len(exts))
	for _, e := range exts {
		if e = strings.ToLower(e); !slices.Contains(o.Extensions, e) {
			o.Extensions = append(o.Extensions, e)
		}
	}
	return o
}
