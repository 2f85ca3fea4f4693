// Package superscript adds superscripts: ^word for a single run of word
// characters and ^(any text) for a bracketed span.
package superscript

import (
	"unicode/utf8"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
	"github.com/yaklabco/inlinemark/pkg/render"
)

// Name is the registered extension name.
const Name = "superscript"

// closeParen is the delimiter character shared by "^(" openers and ")"
// closers.
const closeParen = ')'

// Extension implements superscripts. The zero value is ready to register.
type Extension struct{}

// New returns the superscript extension.
func New() *Extension {
	return &Extension{}
}

// Name implements inline.Extension.
func (*Extension) Name() string {
	return Name
}

// TypeName implements inline.Extension.
func (*Extension) TypeName(self inline.Handle, n *mdast.Node) string {
	if n != nil && n.Kind == self.Kind {
		return Name
	}
	return "<unknown>"
}

// CanContain implements inline.Extension.
func (*Extension) CanContain(self inline.Handle, n *mdast.Node, child mdast.NodeKind) bool {
	return n != nil && n.Kind == self.Kind && (child.IsInline() || child.IsExtension())
}

// TriggerChars implements inline.InlineMatcher.
func (*Extension) TriggerChars() []byte {
	return []byte{'^', closeParen}
}

// EmphasisCompatible implements inline.InlineMatcher.
func (*Extension) EmphasisCompatible() bool {
	return true
}

// MatchInline implements inline.InlineMatcher.
func (e *Extension) MatchInline(p *inline.Parser, self inline.Handle, _ mdast.NodeID, c byte) mdast.NodeID {
	pos := p.Offset()

	switch {
	case c == closeParen:
		// Whether the closer pairs is decided during resolution.
		p.Advance(1)
		node := p.NewLiteral(pos, pos+1)
		p.PushDelimiter(self, closeParen, false, true, node)
		return node

	case p.PeekAt(pos+1) == '(':
		p.Advance(2)
		node := p.NewLiteral(pos, pos+2)
		p.PushDelimiter(self, closeParen, true, false, node)
		return node

	default:
		return e.matchWord(p, self, pos)
	}
}

// matchWord turns ^ and the run of non-space, non-punctuation bytes after it
// into a finished superscript node.
func (*Extension) matchWord(p *inline.Parser, self inline.Handle, pos int) mdast.NodeID {
	chunk := p.Chunk()

	end := pos + 1
	for end < chunk.Len() && !inline.IsSpace(chunk.At(end)) && !inline.IsPunct(chunk.At(end)) {
		end++
	}
	if end == pos+1 {
		return mdast.NilNode
	}

	tree := p.Tree()
	node := tree.New(self.Kind, chunk.Span(pos, end))
	n := tree.Node(node)
	n.Owner = self.Ref
	n.Payload = &mdast.ExtensionData{Content: chunk.Slice(pos+1, end)}

	p.SetOffset(end)
	p.ParseInto(node, chunk.Sub(pos+1, end))

	return node
}

// InsertFromDelimiters implements inline.DelimiterInserter. Any "^(" pairs
// with the nearest following ")".
func (*Extension) InsertFromDelimiters(p *inline.Parser, self inline.Handle, opener, closer inline.DelimID) inline.DelimID {
	stack := p.Delimiters()
	next := stack.Next(closer)
	node := stack.Get(opener).Node

	data := &mdast.ExtensionData{}
	if p.InsertSpan(self, opener, closer, data) {
		data.Content = p.Tree().TextContent(node)
	}

	return next
}

// bracketed reports whether node must be written as ^(...) to read back the
// same: it is empty, holds markup or separators, or the text after it would
// extend a bare run.
func bracketed(tree *mdast.Tree, node mdast.NodeID) bool {
	n := tree.Node(node)
	if n == nil || n.FirstChild == mdast.NilNode {
		return true
	}

	for child := n.FirstChild; child != mdast.NilNode; child = tree.Node(child).Next {
		if tree.Kind(child) != mdast.NodeText {
			return true
		}
	}

	content := tree.TextContent(node)
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if inline.IsUnicodeSpace(r) || inline.IsUnicodePunct(r) {
			return true
		}
		content = content[size:]
	}

	if next := tree.Node(n.Next); next != nil && next.Kind == mdast.NodeText {
		if lit := next.Literal(); len(lit) > 0 && !inline.IsSpace(lit[0]) && !inline.IsPunct(lit[0]) {
			return true
		}
	}

	return false
}

// RenderCommonMark implements render.CommonMarkRenderer.
func (*Extension) RenderCommonMark(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	paren := bracketed(w.Tree(), node)
	switch {
	case entering && paren:
		w.EmitLiteral(node, "^(")
	case entering:
		w.EmitLiteral(node, "^")
	case paren:
		w.EmitLiteral(node, ")")
	}
}

// RenderPlainText implements render.PlainTextRenderer.
func (e *Extension) RenderPlainText(w *render.Writer, self inline.Handle, node mdast.NodeID, entering bool) {
	e.RenderCommonMark(w, self, node, entering)
}

// RenderHTML implements render.HTMLRenderer.
func (*Extension) RenderHTML(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, "<sup>")
	} else {
		w.EmitLiteral(node, "</sup>")
	}
}

// RenderLaTeX implements render.LaTeXRenderer.
func (*Extension) RenderLaTeX(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, "^{")
	} else {
		w.EmitLiteral(node, "}")
	}
}

// RenderMan implements render.ManRenderer using the SUP/SUPX string
// registers.
func (*Extension) RenderMan(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLineBreak(node)
		w.EmitLiteral(node, `\*[SUP]`)
	} else {
		w.EmitLiteral(node, `\*[SUPX]`)
		w.EmitLineBreak(node)
	}
}
