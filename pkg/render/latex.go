package render

import (
	"strconv"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

type latexBackend struct{}

func (latexBackend) begin(*Writer) {}

func (latexBackend) end(w *Writer) {
	w.cr()
}

//nolint:gocognit,maintidx // one case per node kind
func (b latexBackend) node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error {
	switch n.Kind {
	case mdast.NodeDocument:

	case mdast.NodeBlockquote:
		if entering {
			w.cr()
			w.write("\\begin{quote}\n")
		} else {
			w.cr()
			w.write("\\end{quote}")
			w.blankLine()
		}

	case mdast.NodeList:
		attrs, _ := n.Payload.(*mdast.ListAttrs)
		env := "itemize"
		if attrs != nil && attrs.Ordered {
			env = "enumerate"
		}
		if !entering {
			w.cr()
			w.write("\\end{" + env + "}")
			w.blankLine()
			return nil
		}
		w.cr()
		w.write("\\begin{" + env + "}\n")
		if attrs != nil && attrs.Ordered && attrs.Start != 1 {
			w.write("\\setcounter{enumi}{" + strconv.Itoa(attrs.Start-1) + "}\n")
		}

	case mdast.NodeListItem:
		if entering {
			w.cr()
			w.write("\\item ")
		} else {
			w.cr()
		}

	case mdast.NodeHeading:
		if !entering {
			w.write("}")
			w.blankLine()
			return nil
		}
		w.cr()
		w.write(latexSection(headingLevel(n)) + "{")

	case mdast.NodeCodeBlock:
		w.cr()
		w.write("\\begin{verbatim}\n")
		w.write(string(codeBlockAttrs(n).Text))
		w.cr()
		w.write("\\end{verbatim}")
		w.blankLine()
		return mdast.ErrSkipChildren

	case mdast.NodeHTMLBlock, mdast.NodeHTMLInline:
		return mdast.ErrSkipChildren

	case mdast.NodeThematicBreak:
		w.cr()
		w.write("\\begin{center}\\rule{0.5\\linewidth}{\\linethickness}\\end{center}")
		w.blankLine()

	case mdast.NodeParagraph:
		if entering {
			if !w.isTight(id) {
				w.cr()
			}
		} else if w.isTight(id) {
			w.cr()
		} else {
			w.blankLine()
		}

	case mdast.NodeText:
		if entering {
			b.escape(w, literalString(n))
		}

	case mdast.NodeHardBreak:
		if entering {
			w.write("\\\\\n")
		}

	case mdast.NodeSoftBreak:
		if !entering {
			return nil
		}
		switch {
		case w.Options().Has(inline.OptHardBreaks):
			w.write("\\\\\n")
		case w.Options().Has(inline.OptNoBreaks):
			w.write(" ")
		default:
			w.write("\n")
		}

	case mdast.NodeCodeSpan:
		if entering {
			w.write("\\texttt{")
			b.escape(w, literalString(n))
			w.write("}")
		}

	case mdast.NodeEmphasis:
		if entering {
			w.write("\\emph{")
		} else {
			w.write("}")
		}

	case mdast.NodeStrong:
		if entering {
			w.write("\\textbf{")
		} else {
			w.write("}")
		}
	}

	return nil
}

func latexSection(level int) string {
	switch level {
	case 1:
		return "\\section"
	case 2:
		return "\\subsection"
	case 3:
		return "\\subsubsection"
	case 4:
		return "\\paragraph"
	default:
		return "\\subparagraph"
	}
}

func (latexBackend) extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool) {
	if r, ok := reg.Extension.(LaTeXRenderer); ok {
		r.RenderLaTeX(w, reg.Handle, id, entering)
	}
}

func (latexBackend) escape(w *Writer, text string) {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{', '}', '#', '%', '&', '$', '_':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '^':
			sb.WriteString("\\^{}")
		case '~':
			sb.WriteString("\\textasciitilde{}")
		case '\\':
			sb.WriteString("\\textbackslash{}")
		case '|':
			sb.WriteString("\\textbar{}")
		case '<':
			sb.WriteString("\\textless{}")
		case '>':
			sb.WriteString("\\textgreater{}")
		case '[', ']':
			sb.WriteByte('{')
			sb.WriteByte(c)
			sb.WriteByte('}')
		case '"':
			sb.WriteString("\\textquotedbl{}")
		case '\'':
			sb.WriteString("\\textquotesingle{}")
		case '-':
			// Keep "--" from becoming a dash ligature.
			sb.WriteByte('-')
			if i+1 < len(text) && text[i+1] == '-' {
				sb.WriteString("{}")
			}
		default:
			sb.WriteByte(c)
		}
	}
	w.write(sb.String())
}
