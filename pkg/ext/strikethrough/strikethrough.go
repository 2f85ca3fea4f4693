// Package strikethrough adds ~struck~ and ~~struck~~ text. Its delimiters
// resolve after base emphasis, so emphasis never crosses a strikethrough
// boundary from the inside.
package strikethrough

import (
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
	"github.com/yaklabco/inlinemark/pkg/render"
)

// Name is the registered extension name.
const Name = "strikethrough"

const tilde = '~'

// Extension implements strikethrough.
type Extension struct {
	// SingleTilde allows ~x~ in addition to ~~x~~.
	SingleTilde bool
}

// New returns the strikethrough extension accepting one or two tildes.
func New() *Extension {
	return &Extension{SingleTilde: true}
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
	return n != nil && n.Kind == self.Kind && child != self.Kind && (child.IsInline() || child.IsExtension())
}

// TriggerChars implements inline.InlineMatcher.
func (*Extension) TriggerChars() []byte {
	return []byte{tilde}
}

// EmphasisCompatible implements inline.InlineMatcher.
func (*Extension) EmphasisCompatible() bool {
	return false
}

// MatchInline implements inline.InlineMatcher. Runs longer than two tildes
// are plain text.
func (e *Extension) MatchInline(p *inline.Parser, self inline.Handle, _ mdast.NodeID, _ byte) mdast.NodeID {
	start := p.Offset()
	run := p.ScanDelimiters(0, tilde)
	node := p.NewLiteral(start, p.Offset())

	if run.Count > 2 || (run.Count == 1 && !e.SingleTilde) {
		return node
	}
	if run.LeftFlanking || run.RightFlanking {
		p.PushDelimiter(self, tilde, run.LeftFlanking, run.RightFlanking, node)
	}

	return node
}

// InsertFromDelimiters implements inline.DelimiterInserter. Only runs of the
// same length pair.
func (*Extension) InsertFromDelimiters(p *inline.Parser, self inline.Handle, opener, closer inline.DelimID) inline.DelimID {
	stack := p.Delimiters()
	next := stack.Next(closer)

	o, c := stack.Get(opener), stack.Get(closer)
	if o.Length != c.Length {
		return next
	}

	p.InsertSpan(self, opener, closer, &mdast.ExtensionData{Value: o.Length})

	return next
}

func tildes(w *render.Writer, node mdast.NodeID) string {
	count := 2
	if data, ok := w.Node(node).Payload.(*mdast.ExtensionData); ok {
		if n, ok := data.Value.(int); ok && n > 0 {
			count = n
		}
	}
	return strings.Repeat(string(tilde), count)
}

// RenderCommonMark implements render.CommonMarkRenderer.
func (*Extension) RenderCommonMark(w *render.Writer, _ inline.Handle, node mdast.NodeID, _ bool) {
	w.EmitLiteral(node, tildes(w, node))
}

// RenderHTML implements render.HTMLRenderer.
func (*Extension) RenderHTML(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, "<del>")
	} else {
		w.EmitLiteral(node, "</del>")
	}
}

// RenderLaTeX implements render.LaTeXRenderer.
func (*Extension) RenderLaTeX(w *render.Writer, _ inline.Handle, node mdast.NodeID, entering bool) {
	if entering {
		w.EmitLiteral(node, `\sout{`)
	} else {
		w.EmitLiteral(node, "}")
	}
}
