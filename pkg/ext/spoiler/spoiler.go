// Package spoiler adds spoiler spans: ||hidden|| in the default style and
// >!hidden!< when the parser runs with inline.OptSpoilerRedditStyle.
package spoiler

import (
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
	"github.com/yaklabco/inlinemark/pkg/render"
)

// Name is the registered extension name.
const Name = "spoiler"

// maxRun caps the pipe run turned into a single text node.
const maxRun = 100

// Extension implements spoilers. The zero value is ready to register.
type Extension struct{}

// New returns the spoiler extension.
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

// TriggerChars implements inline.InlineMatcher. Both styles are always
// listened for; the option bit decides which one matches.
func (*Extension) TriggerChars() []byte {
	return []byte{'|', '>', '!'}
}

// EmphasisCompatible implements inline.InlineMatcher.
func (*Extension) EmphasisCompatible() bool {
	return true
}

// MatchInline implements inline.InlineMatcher.
func (e *Extension) MatchInline(p *inline.Parser, self inline.Handle, _ mdast.NodeID, c byte) mdast.NodeID {
	if p.Options().Has(inline.OptSpoilerRedditStyle) {
		return e.matchReddit(p, self, c)
	}
	if c != '|' {
		return mdast.NilNode
	}

	start := p.Offset()
	run := p.ScanDelimiters(maxRun, '|')
	node := p.NewLiteral(start, p.Offset())

	if run.Count == 2 && (run.LeftFlanking || run.RightFlanking) {
		p.PushDelimiter(self, '|', run.LeftFlanking, run.RightFlanking, node)
	}

	return node
}

// matchReddit recognises ">!" as an opener unless it follows a non-space
// and "!<" as a closer unless a non-space follows it.
func (*Extension) matchReddit(p *inline.Parser, self inline.Handle, c byte) mdast.NodeID {
	pos := p.Offset()
	chunk := p.Chunk()

	var canOpen, canClose bool
	switch {
	case c == '>' && p.PeekAt(pos+1) == '!':
		canOpen = pos == 0 || inline.IsSpace(chunk.At(pos-1))
	case c == '!' && p.PeekAt(pos+1) == '<':
		canClose = pos+2 >= chunk.Len() || inline.IsSpace(chunk.At(pos+2))
	}
	if !canOpen && !canClose {
		return mdast.NilNode
	}

	p.Advance(2)
	node := p.NewLiteral(pos, pos+2)
	p.PushDelimiter(self, '!', canOpen, canClose, node)

	return node
}

// InsertFromDelimiters implements inline.DelimiterInserter. Runs of unequal
// length stay literal.
func (*Extension) InsertFromDelimiters(p *inline.Parser, self inline.Handle, opener, closer inline.DelimID) inline.DelimID {
	stack := p.Delimiters()
	next := stack.Next(closer)

	o, c := stack.Get(opener), stack.Get(closer)
	if o.Length != c.Length || o.Length == 0 {
		return next
	}

	p.InsertSpan(self, opener, closer, &mdast.ExtensionData{})

	return next
}

func (*Extension) markers(w *render.Writer) (string, string) {
	if w.Options().Has(inline.OptSpoilerRedditStyle) {
		return ">!", "!<"
	}
	return "||", "||"
}

// RenderCommonMark implements render.CommonMarkRenderer.
func (e *Extension) RenderCommonMark(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	open, closing := e.markers(w)
	if entering {
		w.EmitLiteral(node, open)
	} else {
		w.EmitLiteral(node, closing)
	}
}

// RenderPlainText implements render.PlainTextRenderer.
func (e *Extension) RenderPlainText(w *render.Writer, self inline.Handle, node mdast.NodeID, entering bool) {
	e.RenderCommonMark(w, self, node, entering)
}

// RenderHTML implements render.HTMLRenderer.
func (*Extension) RenderHTML(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, `<span class="spoiler">`)
	} else {
		w.EmitLiteral(node, "</span>")
	}
}

// RenderLaTeX implements render.LaTeXRenderer.
func (*Extension) RenderLaTeX(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, `\spoiler{`)
	} else {
		w.EmitLiteral(node, "}")
	}
}

// RenderMan implements render.ManRenderer. Spoilers fall back to italics.
func (*Extension) RenderMan(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, `\f[I]`)
	} else {
		w.EmitLiteral(node, `\f[]`)
	}
}
