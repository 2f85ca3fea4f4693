// Package mdast provides the document tree shared by the block parser, the
// inline parser, extensions and renderers:
// - Tree: an index-addressed node arena owned by a single parse
// - Node: kind tag, links, source span and payload
// - Document: the source bytes, their line index and the parsed tree
package mdast

// Document is a parsed view of a single source file.
type Document struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Tree owns every node of the document.
	Tree *Tree

	// Root is the document node.
	Root NodeID
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewDocument creates a Document with its line index built and an empty tree
// holding only the root node.
func NewDocument(path string, content []byte, opts ...TreeOption) *Document {
	tree := NewTree(opts...)
	lines := BuildLines(content)

	doc := &Document{
		Path:    path,
		Content: content,
		Lines:   lines,
		Tree:    tree,
	}

	var pos SourcePosition
	if len(lines) > 0 {
		last := lines[len(lines)-1]
		pos = SourcePosition{
			StartLine:   1,
			StartColumn: 1,
			EndLine:     len(lines),
			EndColumn:   max(last.NewlineStart-last.StartOffset, 1),
		}
		if last.StartOffset == last.NewlineStart && len(lines) > 1 {
			// Content ends in a newline; the empty trailing line is not part of the span.
			prev := lines[len(lines)-2]
			pos.EndLine = len(lines) - 1
			pos.EndColumn = max(prev.EndOffset-prev.StartOffset, 1)
		}
	}
	doc.Root = tree.New(NodeDocument, pos)

	return doc
}

// Node returns the node for id.
func (d *Document) Node(id NodeID) *Node {
	return d.Tree.Node(id)
}
