package configloader

import (
	"cmp"
	"slices"

	"github.com/yaklabco/inlinemark/pkg/config"
)

// merge layers over on top of base. Zero values in over leave base alone,
// so booleans can be switched on by a later layer but never back off.
// Non-nil slices replace rather than append.
func merge(base, over *config.Config) *config.Config {
	switch {
	case base == nil:
		return over
	case over == nil:
		return base
	}

	out := *base
	out.SpoilerStyle = cmp.Or(over.SpoilerStyle, base.SpoilerStyle)
	out.Format = cmp.Or(over.Format, base.Format)
	out.Width = cmp.Or(over.Width, base.Width)
	out.MaxNodes = cmp.Or(over.MaxNodes, base.MaxNodes)
	out.Jobs = cmp.Or(over.Jobs, base.Jobs)
	out.OutDir = cmp.Or(over.OutDir, base.OutDir)

	out.SourcePos = cmp.Or(over.SourcePos, base.SourcePos)
	out.HardBreaks = cmp.Or(over.HardBreaks, base.HardBreaks)
	out.NoBreaks = cmp.Or(over.NoBreaks, base.NoBreaks)
	out.Unsafe = cmp.Or(over.Unsafe, base.Unsafe)
	out.DetectCodeLanguage = cmp.Or(over.DetectCodeLanguage, base.DetectCodeLanguage)

	if over.Extensions != nil {
		out.Extensions = slices.Clone(over.Extensions)
	}
	if over.Ignore != nil {
		out.Ignore = slices.Clone(over.Ignore)
	}

	return &out
}

// MergeAll folds configs left to right; the last one wins.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, c := range configs {
		out = merge(out, c)
	}
	return out
}
