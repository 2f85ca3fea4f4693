package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/inlinemark/pkg/runner"
)

const summaryRule = 40

func files(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

// FormatSummaryOneLine condenses stats into one line, for example
// "3 files rendered, 2 written, 1 unchanged in 12ms". A zero elapsed
// omits the timing.
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, elapsed time.Duration) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No Markdown files found") + "\n"
	}

	rendered := files(stats.FilesRendered) + " rendered"
	if stats.FilesErrored == 0 {
		rendered = s.Success.Render(rendered)
	}
	parts := []string{rendered}

	if n := stats.FilesWritten; n > 0 {
		parts = append(parts, fmt.Sprintf("%d written", n))
	}
	if n := stats.FilesUnchanged; n > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", n)))
	}
	if n := stats.FilesErrored; n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", n)))
	}

	line := strings.Join(parts, ", ")
	if elapsed > 0 {
		line += s.Dim.Render(" in " + elapsed.Round(time.Millisecond).String())
	}
	return line + "\n"
}

// FormatSummary lays stats out as a titled block of label/value rows.
// Output rows appear only when the run wrote to a directory.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder
	row := func(label string, value int, style lipgloss.Style) {
		fmt.Fprintf(&b, "  %-18s %s\n", label, style.Render(fmt.Sprint(value)))
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", s.SummaryTitle.Render("Summary"), s.Dim.Render(strings.Repeat("-", summaryRule)))
	row("Files found:", stats.FilesDiscovered, s.SummaryValue)
	row("Files rendered:", stats.FilesRendered, s.SummaryValue)
	if stats.FilesWritten+stats.FilesUnchanged > 0 {
		row("Files written:", stats.FilesWritten, s.SummaryValue)
		row("Files unchanged:", stats.FilesUnchanged, s.SummaryValue)
	}
	if stats.FilesErrored > 0 {
		row("Files failed:", stats.FilesErrored, s.Error)
	}
	row("Nodes:", stats.NodesTotal, s.SummaryValue)
	row("Output bytes:", stats.BytesTotal, s.SummaryValue)

	if stats.FilesErrored > 0 {
		b.WriteString("\n" + s.Failure.Render("Rendering failed for some files") + "\n")
	} else {
		b.WriteString("\n" + s.Success.Render("Rendering complete") + "\n")
	}
	return b.String()
}

// FormatFileError is the stderr line for a file that failed to render.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s %s%s%s\n", s.Error.Render("error"), s.FilePath.Render(path), s.Dim.Render(": "), err)
}
