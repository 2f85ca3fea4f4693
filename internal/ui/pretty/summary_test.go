package pretty_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/inlinemark/internal/ui/pretty"
	"github.com/yaklabco/inlinemark/pkg/runner"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	got := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 4,
		FilesRendered:   4,
		FilesWritten:    3,
		FilesUnchanged:  1,
		NodesTotal:      120,
		BytesTotal:      2048,
	})
	want := "\nSummary\n" +
		"----------------------------------------\n" +
		"  Files found:       4\n" +
		"  Files rendered:    4\n" +
		"  Files written:     3\n" +
		"  Files unchanged:   1\n" +
		"  Nodes:             120\n" +
		"  Output bytes:      2048\n" +
		"\nRendering complete\n"
	assert.Equal(t, want, got)

	got = styles.FormatSummary(runner.Stats{FilesDiscovered: 3, FilesRendered: 2, FilesErrored: 1})
	assert.NotContains(t, got, "Files written:", "no output directory")
	assert.Contains(t, got, "  Files failed:      1\n")
	assert.Contains(t, got, "Rendering failed for some files")
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		stats   runner.Stats
		elapsed time.Duration
		want    string
	}{
		{runner.Stats{}, 0, "No Markdown files found\n"},
		{runner.Stats{FilesDiscovered: 1, FilesRendered: 1}, 0, "1 file rendered\n"},
		{
			runner.Stats{FilesDiscovered: 3, FilesRendered: 3, FilesWritten: 2, FilesUnchanged: 1},
			12*time.Millisecond + 300*time.Microsecond,
			"3 files rendered, 2 written, 1 unchanged in 12ms\n",
		},
		{runner.Stats{FilesDiscovered: 2, FilesRendered: 1, FilesErrored: 1}, 0, "1 file rendered, 1 failed\n"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.elapsed))
	}
}

func TestFormatFileError(t *testing.T) {
	t.Parallel()

	got := pretty.NewStyles(false).FormatFileError("docs/a.md", errors.New("node limit exceeded"))
	assert.Equal(t, "error docs/a.md: node limit exceeded\n", got)
}
