// Package pretty styles the CLI's terminal output with lipgloss: node tree
// dumps, the extension table and render summaries.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds one lipgloss style per element of CLI output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style

	// Node tree dumps.
	Kind      lipgloss.Style
	ExtKind   lipgloss.Style
	Position  lipgloss.Style
	Literal   lipgloss.Style
	Attribute lipgloss.Style
	Guide     lipgloss.Style

	FilePath     lipgloss.Style
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style

	TableHeader    lipgloss.Style
	TableName      lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// ANSI 256 palette indices.
const (
	red     = "9"
	green   = "10"
	yellow  = "11"
	blue    = "12"
	magenta = "13"
	cyan    = "14"
	grey    = "8"
	white   = "7"
)

// NewStyles returns the palette styles, or plain styles that render text
// unchanged when color is false.
func NewStyles(color bool) *Styles {
	s := &Styles{}

	// An empty fg leaves the foreground alone.
	table := []struct {
		style *lipgloss.Style
		fg    string
		bold  bool
	}{
		{&s.Error, red, true},
		{&s.Warning, yellow, true},
		{&s.Success, green, true},
		{&s.Failure, red, true},
		{&s.Kind, blue, true},
		{&s.ExtKind, magenta, true},
		{&s.Position, grey, false},
		{&s.Literal, green, false},
		{&s.Attribute, cyan, false},
		{&s.Guide, grey, false},
		{&s.FilePath, "", true},
		{&s.SummaryTitle, "", true},
		{&s.SummaryValue, "", false},
		{&s.TableHeader, white, true},
		{&s.TableName, magenta, false},
		{&s.TableErrorRow, red, false},
		{&s.TableSeparator, grey, false},
		{&s.Dim, grey, false},
		{&s.Bold, "", true},
	}

	for _, e := range table {
		st := lipgloss.NewStyle()
		if color {
			if e.fg != "" {
				st = st.Foreground(lipgloss.Color(e.fg))
			}
			st = st.Bold(e.bold)
		}
		*e.style = st
	}

	return s
}

// IsColorEnabled resolves a --color mode for w. "always" and "never" are
// absolute; anything else means auto: color on a terminal unless NO_COLOR
// is set.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
