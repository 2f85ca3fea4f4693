package render

import (
	"strconv"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

type manBackend struct{}

func (manBackend) begin(*Writer) {}

func (manBackend) end(w *Writer) {
	w.cr()
}

//nolint:gocognit,maintidx // one case per node kind
func (b manBackend) node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error {
	switch n.Kind {
	case mdast.NodeDocument, mdast.NodeList:

	case mdast.NodeBlockquote:
		w.cr()
		if entering {
			w.write(".RS\n")
		} else {
			w.write(".RE\n")
		}

	case mdast.NodeListItem:
		if !entering {
			w.cr()
			return nil
		}
		w.cr()
		attrs := w.listAttrs(id)
		if attrs.Ordered {
			num := attrs.Start + w.itemIndex(id)
			w.write(".IP \"" + strconv.Itoa(num) + ".\" 4\n")
		} else {
			w.write(".IP \\[bu] 2\n")
		}

	case mdast.NodeHeading:
		if !entering {
			w.cr()
			return nil
		}
		w.cr()
		if headingLevel(n) == 1 {
			w.write(".SH\n")
		} else {
			w.write(".SS\n")
		}

	case mdast.NodeCodeBlock:
		w.cr()
		w.write(".IP\n.nf\n\\f[C]\n")
		b.escape(w, string(codeBlockAttrs(n).Text))
		w.cr()
		w.write("\\f[]\n.fi\n")
		return mdast.ErrSkipChildren

	case mdast.NodeHTMLBlock, mdast.NodeHTMLInline:
		return mdast.ErrSkipChildren

	case mdast.NodeThematicBreak:
		w.cr()
		w.write(".PP\n  *  *  *  *  *\n")

	case mdast.NodeParagraph:
		if !entering {
			w.cr()
			return nil
		}
		// The first paragraph of an item continues the .IP line.
		if parent := w.Node(n.Parent); parent != nil && parent.Kind == mdast.NodeListItem && n.Prev == mdast.NilNode {
			return nil
		}
		w.cr()
		w.write(".PP\n")

	case mdast.NodeText:
		if entering {
			b.escape(w, literalString(n))
		}

	case mdast.NodeHardBreak:
		if entering {
			b.lineBreak(w)
		}

	case mdast.NodeSoftBreak:
		if !entering {
			return nil
		}
		switch {
		case w.Options().Has(inline.OptHardBreaks):
			b.lineBreak(w)
		case w.Options().Has(inline.OptNoBreaks):
			w.write(" ")
		default:
			w.write("\n")
		}

	case mdast.NodeCodeSpan:
		if entering {
			w.write("\\f[C]")
			b.escape(w, literalString(n))
			w.write("\\f[]")
		}

	case mdast.NodeEmphasis:
		if entering {
			w.write("\\f[I]")
		} else {
			w.write("\\f[]")
		}

	case mdast.NodeStrong:
		if entering {
			w.write("\\f[B]")
		} else {
			w.write("\\f[]")
		}
	}

	return nil
}

func (manBackend) lineBreak(w *Writer) {
	w.cr()
	w.write(".PD 0\n.P\n.PD\n")
}

func (manBackend) extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool) {
	if r, ok := reg.Extension.(ManRenderer); ok {
		r.RenderMan(w, reg.Handle, id, entering)
	}
}

// escape protects backslashes and hyphens, and control characters at the
// start of a line.
func (manBackend) escape(w *Writer, text string) {
	var sb strings.Builder
	atLineStart := w.atLineStart
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\':
			sb.WriteString("\\e")
		case '-':
			sb.WriteString("\\-")
		case '.', '\'':
			if atLineStart {
				sb.WriteString("\\&")
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
		atLineStart = c == '\n'
	}
	w.write(sb.String())
}
