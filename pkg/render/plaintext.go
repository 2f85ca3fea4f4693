package render

import (
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// plaintextBackend writes text content only. List markers are kept; other
// markup is dropped.
type plaintextBackend struct{}

func (plaintextBackend) begin(*Writer) {}

func (plaintextBackend) end(w *Writer) {
	w.cr()
}

func (plaintextBackend) node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error {
	switch n.Kind {
	case mdast.NodeDocument, mdast.NodeEmphasis, mdast.NodeStrong:

	case mdast.NodeBlockquote, mdast.NodeList:
		if entering {
			w.blockStart(n)
		}

	case mdast.NodeListItem:
		if entering {
			w.openItem(id, n)
		} else {
			w.popPrefix()
		}

	case mdast.NodeHeading:
		if entering {
			w.blockStart(n)
		} else {
			w.cr()
		}

	case mdast.NodeParagraph:
		if entering {
			w.blockStart(n)
			w.beginWrap()
		} else {
			w.endWrap()
			w.cr()
		}

	case mdast.NodeCodeBlock:
		w.blockStart(n)
		w.write(string(codeBlockAttrs(n).Text))
		w.cr()
		return mdast.ErrSkipChildren

	case mdast.NodeHTMLBlock, mdast.NodeHTMLInline:
		return mdast.ErrSkipChildren

	case mdast.NodeThematicBreak:
		w.blockStart(n)

	case mdast.NodeText, mdast.NodeCodeSpan:
		if entering {
			w.write(literalString(n))
		}

	case mdast.NodeHardBreak:
		if entering {
			w.write("\n")
		}

	case mdast.NodeSoftBreak:
		if !entering {
			return nil
		}
		switch {
		case w.Options().Has(inline.OptHardBreaks):
			w.write("\n")
		case w.Options().Has(inline.OptNoBreaks), w.wrapping():
			w.write(" ")
		default:
			w.write("\n")
		}
	}

	return nil
}

func (plaintextBackend) extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool) {
	if r, ok := reg.Extension.(PlainTextRenderer); ok {
		r.RenderPlainText(w, reg.Handle, id, entering)
	}
}

func (plaintextBackend) escape(w *Writer, text string) {
	w.write(text)
}
