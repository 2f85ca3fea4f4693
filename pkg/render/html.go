package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

const rawHTMLOmitted = "<!-- raw HTML omitted -->"

type htmlBackend struct{}

func (htmlBackend) begin(*Writer) {}

func (htmlBackend) end(*Writer) {}

//nolint:gocognit,maintidx // one case per node kind
func (b htmlBackend) node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error {
	switch n.Kind {
	case mdast.NodeDocument:

	case mdast.NodeBlockquote:
		w.cr()
		if entering {
			w.write("<blockquote")
			b.sourcepos(w, n)
			w.write(">\n")
		} else {
			w.write("</blockquote>\n")
		}

	case mdast.NodeList:
		attrs, _ := n.Payload.(*mdast.ListAttrs)
		ordered := attrs != nil && attrs.Ordered
		w.cr()
		switch {
		case !entering && ordered:
			w.write("</ol>\n")
		case !entering:
			w.write("</ul>\n")
		case ordered:
			w.write("<ol")
			b.sourcepos(w, n)
			if attrs.Start != 1 {
				w.write(` start="` + strconv.Itoa(attrs.Start) + `"`)
			}
			w.write(">\n")
		default:
			w.write("<ul")
			b.sourcepos(w, n)
			w.write(">\n")
		}

	case mdast.NodeListItem:
		if entering {
			w.cr()
			w.write("<li")
			b.sourcepos(w, n)
			w.write(">")
		} else {
			w.write("</li>\n")
		}

	case mdast.NodeHeading:
		tag := "h" + strconv.Itoa(headingLevel(n))
		if entering {
			w.cr()
			w.write("<" + tag)
			b.sourcepos(w, n)
			w.write(">")
		} else {
			w.write("</" + tag + ">\n")
		}

	case mdast.NodeCodeBlock:
		b.codeBlock(w, n)
		return mdast.ErrSkipChildren

	case mdast.NodeHTMLBlock:
		w.cr()
		if w.Options().Has(inline.OptUnsafe) {
			w.write(literalString(n))
		} else {
			w.write(rawHTMLOmitted)
		}
		w.cr()
		return mdast.ErrSkipChildren

	case mdast.NodeThematicBreak:
		w.cr()
		w.write("<hr")
		b.sourcepos(w, n)
		w.write(" />\n")

	case mdast.NodeParagraph:
		if w.isTight(id) {
			return nil
		}
		if entering {
			w.cr()
			w.write("<p")
			b.sourcepos(w, n)
			w.write(">")
		} else {
			w.write("</p>\n")
		}

	case mdast.NodeText:
		if entering {
			b.escape(w, literalString(n))
		}

	case mdast.NodeHardBreak:
		if entering {
			w.write("<br />\n")
		}

	case mdast.NodeSoftBreak:
		if entering {
			b.softBreak(w)
		}

	case mdast.NodeCodeSpan:
		if entering {
			w.write("<code>")
			b.escape(w, literalString(n))
			w.write("</code>")
		}

	case mdast.NodeHTMLInline:
		if !entering {
			return nil
		}
		if w.Options().Has(inline.OptUnsafe) {
			w.write(literalString(n))
		} else {
			w.write(rawHTMLOmitted)
		}

	case mdast.NodeEmphasis:
		if entering {
			w.write("<em>")
		} else {
			w.write("</em>")
		}

	case mdast.NodeStrong:
		if entering {
			w.write("<strong>")
		} else {
			w.write("</strong>")
		}
	}

	return nil
}

func (b htmlBackend) codeBlock(w *Writer, n *mdast.Node) {
	attrs := codeBlockAttrs(n)
	lang := codeLanguage(w, attrs)

	w.cr()
	w.write("<pre")
	b.sourcepos(w, n)
	w.write("><code")
	if lang != "" {
		w.write(` class="language-`)
		b.escape(w, lang)
		w.write(`"`)
	}
	w.write(">")
	b.escape(w, string(attrs.Text))
	w.write("</code></pre>\n")
}

func (htmlBackend) softBreak(w *Writer) {
	switch {
	case w.Options().Has(inline.OptHardBreaks):
		w.write("<br />\n")
	case w.Options().Has(inline.OptNoBreaks):
		w.write(" ")
	default:
		w.write("\n")
	}
}

func (htmlBackend) sourcepos(w *Writer, n *mdast.Node) {
	if !w.Options().Has(inline.OptSourcePos) || !n.Pos.IsValid() {
		return
	}
	w.write(fmt.Sprintf(` data-sourcepos="%d:%d-%d:%d"`,
		n.Pos.StartLine, n.Pos.StartColumn, n.Pos.EndLine, n.Pos.EndColumn))
}

func (htmlBackend) extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool) {
	if r, ok := reg.Extension.(HTMLRenderer); ok {
		r.RenderHTML(w, reg.Handle, id, entering)
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func (htmlBackend) escape(w *Writer, text string) {
	w.write(htmlEscaper.Replace(text))
}
