package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/render"
	"github.com/yaklabco/inlinemark/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	minTextWidth     = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	statusOK         = "ok"
	statusUnchanged  = "unchanged"
	statusFailed     = "failed"
	ellipsis         = "..."
)

// ExtensionRow describes one registered extension.
type ExtensionRow struct {
	Order       int
	Name        string
	Kind        string
	Triggers    string
	Interleaved bool
	Formats     []string
	Description string
}

// ExtensionRows builds table rows from a host's registrations, in
// registration order.
func ExtensionRows(host *inline.Host, describe func(string) string) []ExtensionRow {
	regs := host.Extensions()
	rows := make([]ExtensionRow, 0, len(regs))

	for i, reg := range regs {
		formats := render.SupportedFormats(reg.Extension)
		names := make([]string, 0, len(formats))
		for _, f := range formats {
			names = append(names, f.String())
		}

		row := ExtensionRow{
			Order:       i + 1,
			Name:        reg.Handle.Name,
			Kind:        strconv.Itoa(int(reg.Handle.Kind)),
			Triggers:    quoteTriggers(reg.Triggers),
			Interleaved: reg.EmphasisCompatible,
			Formats:     names,
		}
		if describe != nil {
			row.Description = describe(reg.Handle.Name)
		}
		rows = append(rows, row)
	}

	return rows
}

func quoteTriggers(triggers []byte) string {
	if len(triggers) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(triggers))
	for _, c := range triggers {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, " ")
}

// TableFormatter formats extension listings and run results as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatExtensions formats registered extensions as a table.
func (t *TableFormatter) FormatExtensions(rows []ExtensionRow) string {
	if len(rows) == 0 {
		return ""
	}

	g := &grid{header: []string{"#", "NAME", "KIND", "TRIGGERS", "MODE", "DESCRIPTION"}}
	for _, row := range rows {
		mode := "deferred"
		if row.Interleaved {
			mode = "interleaved"
		}
		g.rows = append(g.rows, []string{strconv.Itoa(row.Order), row.Name, row.Kind, row.Triggers, mode, row.Description})
	}
	g.fit(t.termWidth, 0)

	var b strings.Builder
	t.writeHeader(&b, g)
	for _, row := range g.rows {
		name := t.styles.TableName.Render(g.line(row[:2], 0))
		b.WriteString(strings.TrimRight(name+" "+g.line(row[2:], 2), " ") + "\n")
	}
	b.WriteString(t.separator(g, heavySeparator) + "\n")
	return b.String()
}

// FormatRun formats per-file outcomes as a table followed by the run
// summary block.
func (t *TableFormatter) FormatRun(result *runner.Result, workDir string) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	g := &grid{header: []string{"FILE", "NODES", "BYTES", "STATUS", "OUTPUT"}}
	for _, f := range result.Files {
		nodes, size := "-", "-"
		if f.Result != nil {
			nodes = strconv.Itoa(f.Result.Nodes())
			size = strconv.Itoa(len(f.Result.Output))
		}
		status, output := statusOK, relPath(workDir, f.OutputPath)
		switch {
		case f.Error != nil:
			status, output = statusFailed, f.Error.Error()
		case f.OutputPath != "" && !f.Written:
			status = statusUnchanged
		}
		g.rows = append(g.rows, []string{relPath(workDir, f.Path), nodes, size, status, output})
	}
	g.fit(t.termWidth, minFileWidth)

	var b strings.Builder
	t.writeHeader(&b, g)
	for i, row := range g.rows {
		line := strings.TrimRight(g.line(row, 0), " ")
		if result.Files[i].Error != nil {
			line = t.styles.TableErrorRow.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(t.separator(g, lightSeparator) + "\n")
	b.WriteString(t.styles.FormatSummary(result.Stats))
	return b.String()
}

func (t *TableFormatter) writeHeader(b *strings.Builder, g *grid) {
	b.WriteString(t.styles.TableHeader.Render(strings.TrimRight(g.line(g.header, 0), " ")) + "\n")
	b.WriteString(t.separator(g, heavySeparator) + "\n")
}

func (t *TableFormatter) separator(g *grid, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, g.width()))
}

// grid is a plain-text table whose columns are sized to their cells.
type grid struct {
	header []string
	rows   [][]string
	widths []int
}

// fit sizes every column to its widest cell, widens the first column to
// at least minFirst, and shrinks the last column to fit termWidth without
// going below minTextWidth.
func (g *grid) fit(termWidth, minFirst int) {
	g.widths = make([]int, len(g.header))
	for _, row := range append([][]string{g.header}, g.rows...) {
		for i, cell := range row {
			g.widths[i] = max(g.widths[i], len(cell))
		}
	}
	g.widths[0] = max(g.widths[0], minFirst)

	last := len(g.widths) - 1
	if over := g.width() - termWidth; over > 0 {
		g.widths[last] = max(minTextWidth, g.widths[last]-over)
	}
}

func (g *grid) width() int {
	total := 1
	for _, w := range g.widths {
		total += w + tablePadding
	}
	return total
}

// line pads cells, which start at column offset, to their widths. Paths
// in the first column lose their head when cut, other cells their tail.
func (g *grid) line(cells []string, offset int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := g.widths[offset+i]
		if offset+i == 0 && strings.ContainsRune(cell, '/') {
			cell = truncateHead(cell, w)
		} else {
			cell = truncateString(cell, w)
		}
		parts[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return " " + strings.Join(parts, "  ")
}

func relPath(workDir, path string) string {
	if workDir == "" || path == "" {
		return path
	}
	if rel, ok := strings.CutPrefix(path, strings.TrimSuffix(workDir, "/")+"/"); ok {
		return rel
	}
	return path
}

// truncateString cuts str to width columns, ending in "..." when cut.
func truncateString(str string, width int) string {
	if ansi.PrintableRuneWidth(str) <= width {
		return str
	}
	if width <= len(ellipsis) {
		return truncate.String(str, uint(max(width, 0)))
	}
	return truncate.StringWithTail(str, uint(width), ellipsis)
}

// truncateHead keeps the end of path, where the file name is.
func truncateHead(path string, width int) string {
	if len(path) <= width {
		return path
	}
	if width <= len(ellipsis) {
		return path[len(path)-width:]
	}
	return ellipsis + path[len(path)-width+len(ellipsis):]
}
