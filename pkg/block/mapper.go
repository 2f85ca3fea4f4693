package block

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// mapper converts a goldmark block AST into the document tree.
type mapper struct {
	doc    *mdast.Document
	tree   *mdast.Tree
	source []byte
	inline *inline.Parser
}

// newMapper creates a new mapper writing into doc.
func newMapper(doc *mdast.Document, p *inline.Parser) *mapper {
	return &mapper{
		doc:    doc,
		tree:   doc.Tree,
		source: doc.Content,
		inline: p,
	}
}

// mapDocument maps the children of the goldmark document under the root.
func (m *mapper) mapDocument(gmDoc ast.Node) (err error) {
	defer mdast.RecoverLimit(&err)
	return m.mapChildren(gmDoc, m.doc.Root)
}

// mapChildren maps all children of a goldmark node under parent.
func (m *mapper) mapChildren(gmParent ast.Node, parent mdast.NodeID) error {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if err := m.mapNode(child, parent); err != nil {
			return err
		}
	}
	return nil
}

// mapNode converts a single goldmark block and appends it to parent.
func (m *mapper) mapNode(gmNode ast.Node, parent mdast.NodeID) error {
	switch gmn := gmNode.(type) {
	case *ast.Heading:
		return m.mapInlineBlock(mdast.NodeHeading, &mdast.HeadingAttrs{
			Level:  gmn.Level,
			Setext: m.isSetext(gmn),
		}, gmn, parent)

	case *ast.Paragraph, *ast.TextBlock:
		return m.mapInlineBlock(mdast.NodeParagraph, nil, gmNode, parent)

	case *ast.List:
		return m.mapContainer(mdast.NodeList, listAttrs(gmn), gmn, parent)

	case *ast.ListItem:
		return m.mapContainer(mdast.NodeListItem, nil, gmn, parent)

	case *ast.Blockquote:
		return m.mapContainer(mdast.NodeBlockquote, nil, gmn, parent)

	case *ast.FencedCodeBlock:
		m.mapFencedCodeBlock(gmn, parent)

	case *ast.CodeBlock:
		m.mapIndentedCodeBlock(gmn, parent)

	case *ast.HTMLBlock:
		m.mapHTMLBlock(gmn, parent)

	case *ast.ThematicBreak:
		m.tree.AppendChild(parent, m.tree.New(mdast.NodeThematicBreak, mdast.SourcePosition{}))

	default:
		// Unknown blocks are transparent.
		return m.mapChildren(gmNode, parent)
	}

	return nil
}

// mapContainer maps a container block. Its span is the union of its
// children's spans.
func (m *mapper) mapContainer(kind mdast.NodeKind, payload mdast.Payload, gmNode ast.Node, parent mdast.NodeID) error {
	id := m.tree.New(kind, mdast.SourcePosition{})
	n := m.tree.Node(id)
	n.Payload = payload
	m.tree.AppendChild(parent, id)

	if err := m.mapChildren(gmNode, id); err != nil {
		return err
	}

	for child := n.FirstChild; child != mdast.NilNode; child = m.tree.Node(child).Next {
		n.Pos = n.Pos.Union(m.tree.Node(child).Pos)
	}

	return nil
}

// mapInlineBlock maps a leaf block with inline content. The block's lines
// are joined into one chunk, keeping the source position of every line, and
// parsed into the new node.
func (m *mapper) mapInlineBlock(kind mdast.NodeKind, payload mdast.Payload, gmNode ast.Node, parent mdast.NodeID) error {
	var builder inline.ChunkBuilder

	lines := gmNode.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		line := normalizeNewline(m.source[seg.Start:seg.Stop])
		if i < lines.Len()-1 && !bytes.HasSuffix(line, []byte{'\n'}) {
			line = append(line[:len(line):len(line)], '\n')
		}
		builder.Add(line, seg.Start, m.doc.PositionAt(seg.Start))
	}
	builder.TrimRight()
	chunk := builder.Chunk()

	var pos mdast.SourcePosition
	if chunk.Len() > 0 {
		pos = chunk.Span(0, chunk.Len())
	}

	id := m.tree.New(kind, pos)
	m.tree.Node(id).Payload = payload
	m.tree.AppendChild(parent, id)

	if chunk.Len() == 0 {
		return nil
	}

	return m.inline.Parse(id, chunk)
}

// isSetext reports whether a heading is underlined rather than introduced
// by '#' characters.
func (m *mapper) isSetext(h *ast.Heading) bool {
	lines := h.Lines()
	if lines.Len() == 0 {
		return false
	}

	i := lines.At(0).Start - 1
	for i >= 0 && (m.source[i] == ' ' || m.source[i] == '\t') {
		i--
	}

	return i < 0 || m.source[i] != '#'
}

// listAttrs extracts list attributes. goldmark reports the bullet character
// for bullet lists and the delimiter for ordered ones.
func listAttrs(list *ast.List) *mdast.ListAttrs {
	attrs := &mdast.ListAttrs{
		Ordered: list.IsOrdered(),
		Start:   list.Start,
		Tight:   list.IsTight,
	}

	if list.IsOrdered() {
		attrs.Delimiter = list.Marker
	} else {
		attrs.BulletMarker = list.Marker
	}

	return attrs
}

// mapFencedCodeBlock converts a goldmark FencedCodeBlock.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock, parent mdast.NodeID) {
	info := ""
	if codeBlock.Info != nil {
		info = string(codeBlock.Info.Value(m.source))
	}

	fenceChar, fenceLength := m.detectFenceFromPosition(codeBlock)

	content, pos := m.blockText(codeBlock.Lines())
	m.appendCodeBlock(mdast.NodeCodeBlock, &mdast.CodeBlockAttrs{
		Fenced:      true,
		FenceChar:   fenceChar,
		FenceLength: fenceLength,
		Info:        info,
		Text:        content,
	}, pos, parent)
}

// mapIndentedCodeBlock converts a goldmark indented CodeBlock.
func (m *mapper) mapIndentedCodeBlock(codeBlock *ast.CodeBlock, parent mdast.NodeID) {
	content, pos := m.blockText(codeBlock.Lines())
	m.appendCodeBlock(mdast.NodeCodeBlock, &mdast.CodeBlockAttrs{Text: content}, pos, parent)
}

// mapHTMLBlock converts a goldmark HTMLBlock, including its closing line.
func (m *mapper) mapHTMLBlock(htmlBlock *ast.HTMLBlock, parent mdast.NodeID) {
	lines := htmlBlock.Lines()
	if htmlBlock.HasClosure() {
		lines = text.NewSegments()
		for i := range htmlBlock.Lines().Len() {
			lines.Append(htmlBlock.Lines().At(i))
		}
		lines.Append(htmlBlock.ClosureLine)
	}

	content, pos := m.blockText(lines)
	m.appendCodeBlock(mdast.NodeHTMLBlock, &mdast.CodeBlockAttrs{Text: content}, pos, parent)
}

func (m *mapper) appendCodeBlock(kind mdast.NodeKind, attrs *mdast.CodeBlockAttrs, pos mdast.SourcePosition, parent mdast.NodeID) {
	id := m.tree.New(kind, pos)
	m.tree.Node(id).Payload = attrs
	m.tree.AppendChild(parent, id)
}

// blockText joins verbatim block lines. The span runs from the first line's
// start to the last content byte, excluding the final newline.
func (m *mapper) blockText(lines *text.Segments) ([]byte, mdast.SourcePosition) {
	if lines.Len() == 0 {
		return nil, mdast.SourcePosition{}
	}

	var content []byte
	for i := range lines.Len() {
		seg := lines.At(i)
		content = append(content, normalizeNewline(seg.Value(m.source))...)
	}

	first, last := lines.At(0), lines.At(lines.Len()-1)
	end := last.Stop - 1
	for end > first.Start && (m.source[end] == '\n' || m.source[end] == '\r') {
		end--
	}

	return content, mdast.Span(m.doc.PositionAt(first.Start), m.doc.PositionAt(end))
}

// detectFenceFromPosition detects the fence style by examining the raw content
// of the line before the block's first content line.
func (m *mapper) detectFenceFromPosition(codeBlock *ast.FencedCodeBlock) (byte, int) {
	lines := codeBlock.Lines()
	if lines.Len() == 0 {
		return '`', 3
	}

	// Search backwards for the start of the first content line.
	lineStart := lines.At(0).Start
	for lineStart > 0 && m.source[lineStart-1] != '\n' {
		lineStart--
	}
	if lineStart == 0 {
		return '`', 3
	}

	// The fence is on the line before.
	prevLineEnd := lineStart - 1
	prevLineStart := prevLineEnd
	for prevLineStart > 0 && m.source[prevLineStart-1] != '\n' {
		prevLineStart--
	}

	return m.extractFenceFromLine(prevLineStart, prevLineEnd)
}

// extractFenceFromLine extracts fence character and length from a line.
// Container markers such as "> " or list indentation are skipped.
func (m *mapper) extractFenceFromLine(start, end int) (byte, int) {
	pos := start
	for pos < end && (m.source[pos] == ' ' || m.source[pos] == '\t' || m.source[pos] == '>') {
		pos++
	}
	if pos >= end {
		return '`', 3
	}

	fenceChar := m.source[pos]
	if fenceChar != '`' && fenceChar != '~' {
		return '`', 3
	}

	fenceLength := 0
	for pos < end && m.source[pos] == fenceChar {
		fenceLength++
		pos++
	}

	return fenceChar, max(fenceLength, 3)
}

// normalizeNewline rewrites a trailing CRLF as LF, copying only when needed.
func normalizeNewline(line []byte) []byte {
	if bytes.HasSuffix(line, []byte("\r\n")) {
		out := make([]byte, 0, len(line)-1)
		out = append(out, line[:len(line)-2]...)
		return append(out, '\n')
	}
	return line
}
