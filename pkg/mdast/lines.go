package mdast

import (
	"bytes"
	"sort"
)

// BuildLines indexes the lines of content. Both LF and CRLF endings are
// recognised; a trailing newline yields a final empty line.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, bytes.Count(content, []byte{'\n'})+1)
	if len(content) == 0 {
		return lines
	}

	start := 0
	for {
		nl := bytes.IndexByte(content[start:], '\n')
		if nl < 0 {
			break
		}
		end := start + nl
		eol := end
		if eol > start && content[eol-1] == '\r' {
			eol--
		}
		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: eol, EndOffset: end + 1})
		start = end + 1
	}

	return append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
}

// LineAt maps a byte offset to a 1-based line and byte column. Offsets past
// the end land on the last line; negative offsets give (0, 0).
func (d *Document) LineAt(offset int) (int, int) {
	n := len(d.Lines)
	if offset < 0 || n == 0 {
		return 0, 0
	}

	idx := n - 1
	if offset < len(d.Content) {
		idx = min(sort.Search(n, func(i int) bool { return d.Lines[i].EndOffset > offset }), n-1)
	}

	return idx + 1, offset - d.Lines[idx].StartOffset + 1
}

// PositionAt is LineAt as a Position.
func (d *Document) PositionAt(offset int) Position {
	line, col := d.LineAt(offset)
	return Position{Line: line, Column: col}
}
