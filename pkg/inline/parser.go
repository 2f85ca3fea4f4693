// Package inline implements the inline layer: chunks, the delimiter stack,
// the extension host, the left-to-right scanner and the resolution pass that
// turns matched delimiters into tree nodes.
package inline

import (
	"fmt"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

const (
	maxBackticks = 80
	maxNesting   = 32
)

// scanState is everything that changes when a parse recurses into a sub-chunk.
type scanState struct {
	chunk  Chunk
	pos    int
	parent mdast.NodeID
	delims *Stack
	pass   resolvePass

	backticks        [maxBackticks + 1]int
	scannedBackticks bool
}

// Parser scans inline content into a tree. A Parser belongs to a single
// parse and is not safe for concurrent use; the Host it reads may be shared.
type Parser struct {
	scanState

	host  *Host
	tree  *mdast.Tree
	opts  Options
	depth int
}

// NewParser creates a parser writing into tree. It freezes host.
func NewParser(host *Host, tree *mdast.Tree, opts Options) *Parser {
	host.Freeze()
	return &Parser{host: host, tree: tree, opts: opts}
}

// Parse scans chunk, appends the resulting inline nodes to parent and
// resolves every delimiter. Exceeding the tree's node limit aborts the parse
// with mdast.ErrNodeLimit.
func (p *Parser) Parse(parent mdast.NodeID, chunk Chunk) (err error) {
	defer mdast.RecoverLimit(&err)

	if p.tree.Node(parent) == nil {
		return fmt.Errorf("parse inlines into node %d: %w", parent, mdast.ErrFreedNode)
	}

	p.run(parent, chunk)

	return nil
}

// ParseInto recursively parses chunk into node with its own delimiter stack.
// Extensions use it for leaf nodes whose content is itself inline markup.
// Past the nesting limit the chunk is kept as plain text.
func (p *Parser) ParseInto(node mdast.NodeID, chunk Chunk) {
	if p.depth >= maxNesting {
		if chunk.Len() > 0 {
			text := p.tree.NewText(chunk.Bytes(), chunk.Span(0, chunk.Len()))
			p.tree.AppendChild(node, text)
		}
		return
	}

	p.depth++
	p.run(node, chunk)
	p.depth--
}

func (p *Parser) run(parent mdast.NodeID, chunk Chunk) {
	saved := p.scanState
	p.scanState = scanState{
		chunk:  chunk,
		parent: parent,
		delims: NewStack(),
	}

	for p.pos < p.chunk.Len() {
		p.step()
	}

	p.resolve()
	p.consolidate(parent)

	p.scanState = saved
}

// step handles the byte at the cursor. Extensions listening on the byte are
// consulted first, in registration order, then the base grammar.
func (p *Parser) step() {
	c := p.chunk.At(p.pos)

	if p.host.IsTrigger(c) && p.matchExtension(c) {
		return
	}

	switch c {
	case '\n':
		p.handleNewline()
	case '\\':
		p.handleBackslash()
	case '`':
		p.handleBackticks()
	case '*', '_':
		p.handleEmphasis(c)
	default:
		p.handleText()
	}
}

func (p *Parser) matchExtension(c byte) bool {
	for _, reg := range p.host.Triggers(c) {
		start := p.pos

		node := reg.matcher.MatchInline(p, reg.Handle, p.parent, c)
		if node == mdast.NilNode {
			p.pos = start
			continue
		}

		// A match must make progress.
		if p.pos <= start {
			p.pos = start + 1
		}

		p.tree.AppendChild(p.parent, node)
		return true
	}

	return false
}

func (p *Parser) isSpecial(c byte) bool {
	switch c {
	case '\n', '\\', '`', '*', '_':
		return true
	}
	return p.host.IsTrigger(c)
}

// Host returns the extension host.
func (p *Parser) Host() *Host {
	return p.host
}

// Tree returns the tree being built.
func (p *Parser) Tree() *mdast.Tree {
	return p.tree
}

// Options returns the parse options.
func (p *Parser) Options() Options {
	return p.opts
}

// Chunk returns the chunk being scanned.
func (p *Parser) Chunk() Chunk {
	return p.chunk
}

// Offset returns the cursor offset in the current chunk.
func (p *Parser) Offset() int {
	return p.pos
}

// SetOffset moves the cursor.
func (p *Parser) SetOffset(offset int) {
	p.pos = min(max(offset, 0), p.chunk.Len())
}

// Advance moves the cursor forward by n bytes.
func (p *Parser) Advance(n int) {
	p.SetOffset(p.pos + n)
}

// Peek returns the byte at the cursor, or 0 at the end.
func (p *Parser) Peek() byte {
	return p.chunk.At(p.pos)
}

// PeekAt returns the byte at offset, or 0 out of range.
func (p *Parser) PeekAt(offset int) byte {
	return p.chunk.At(offset)
}

// Position returns the source position of the cursor.
func (p *Parser) Position() mdast.Position {
	return p.chunk.Position(p.pos)
}

// Delimiters returns the delimiter stack of the current chunk.
func (p *Parser) Delimiters() *Stack {
	return p.delims
}

// NewLiteral creates a detached text node over chunk bytes [start, end).
func (p *Parser) NewLiteral(start, end int) mdast.NodeID {
	return p.tree.NewText(p.chunk.Slice(start, end), p.chunk.Span(start, end))
}

// ScanDelimiters scans a run of c at the cursor, capped at maxLen, and
// advances past it.
func (p *Parser) ScanDelimiters(maxLen int, c byte) Run {
	run := ScanRun(p.chunk, p.pos, maxLen, c)
	p.pos += run.Count
	return run
}

// PushDelimiter pushes a delimiter for node, which must end at the cursor.
func (p *Parser) PushDelimiter(self Handle, c byte, canOpen, canClose bool, node mdast.NodeID) DelimID {
	length := len(p.tree.Literal(node))

	return p.delims.Push(Delimiter{
		Char:     c,
		CanOpen:  canOpen,
		CanClose: canClose,
		Node:     node,
		Length:   length,
		Offset:   p.pos - length,
		Owner:    self.Ref,
	})
}

func (p *Parser) appendText(start, end int) mdast.NodeID {
	node := p.NewLiteral(start, end)
	p.tree.AppendChild(p.parent, node)
	return node
}

// consolidate merges adjacent text siblings below root.
func (p *Parser) consolidate(root mdast.NodeID) {
	for _, n := range mdast.Preorder(p.tree, root) {
		for child := n.FirstChild; child != mdast.NilNode; {
			c := p.tree.Node(child)
			for c.Kind == mdast.NodeText && c.Next != mdast.NilNode && p.tree.Kind(c.Next) == mdast.NodeText {
				next := p.tree.Node(c.Next)
				text := c.Literal()
				p.tree.SetLiteral(child, append(text[:len(text):len(text)], next.Literal()...))
				c.Pos = c.Pos.Union(next.Pos)
				p.tree.Free(c.Next)
			}
			child = c.Next
		}
	}
}
