package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// xmlBackend writes the structural tree, one element per node.
type xmlBackend struct{}

func (xmlBackend) begin(w *Writer) {
	w.write("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	w.write("<!DOCTYPE document SYSTEM \"CommonMark.dtd\">\n")
}

func (xmlBackend) end(*Writer) {}

func (b xmlBackend) node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error {
	name := n.Kind.TypeName()

	if !entering {
		if n.HasChildren() {
			w.depth--
			b.indent(w)
			w.write("</" + name + ">\n")
		}
		return nil
	}

	b.indent(w)
	w.write("<" + name)
	if n.Kind == mdast.NodeDocument {
		w.write(` xmlns="http://commonmark.org/xml/1.0"`)
	}
	b.attrs(w, n)

	switch n.Kind {
	case mdast.NodeText, mdast.NodeCodeSpan, mdast.NodeHTMLInline, mdast.NodeCodeBlock, mdast.NodeHTMLBlock:
		w.write(` xml:space="preserve">`)
		b.escape(w, literalString(n))
		w.write("</" + name + ">\n")
		return mdast.ErrSkipChildren
	}

	if n.HasChildren() {
		w.write(">\n")
		w.depth++
	} else {
		w.write(" />\n")
	}

	return nil
}

func (b xmlBackend) extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool) {
	if r, ok := reg.Extension.(XMLRenderer); ok {
		r.RenderXML(w, reg.Handle, id, entering)
		return
	}

	n := w.Node(id)
	name := reg.Extension.TypeName(reg.Handle, n)

	if !entering {
		if n.HasChildren() {
			w.depth--
			b.indent(w)
			w.write("</" + name + ">\n")
		}
		return
	}

	b.indent(w)
	w.write("<" + name)
	b.attrs(w, n)
	if n.HasChildren() {
		w.write(">\n")
		w.depth++
	} else {
		w.write(" />\n")
	}
}

func (xmlBackend) attrs(w *Writer, n *mdast.Node) {
	if w.Options().Has(inline.OptSourcePos) && n.Pos.IsValid() {
		w.write(fmt.Sprintf(` sourcepos="%d:%d-%d:%d"`,
			n.Pos.StartLine, n.Pos.StartColumn, n.Pos.EndLine, n.Pos.EndColumn))
	}

	switch payload := n.Payload.(type) {
	case *mdast.HeadingAttrs:
		w.write(` level="` + strconv.Itoa(payload.Level) + `"`)
	case *mdast.ListAttrs:
		if payload.Ordered {
			w.write(` type="ordered" start="` + strconv.Itoa(payload.Start) + `"`)
			if payload.Delimiter == ')' {
				w.write(` delim="paren"`)
			} else {
				w.write(` delim="period"`)
			}
		} else {
			w.write(` type="bullet"`)
		}
		w.write(` tight="` + strconv.FormatBool(payload.Tight) + `"`)
	case *mdast.CodeBlockAttrs:
		if payload.Info != "" {
			w.write(` info="`)
			xmlEscape(w, payload.Info)
			w.write(`"`)
		}
	}
}

func (xmlBackend) indent(w *Writer) {
	w.write(strings.Repeat("  ", w.depth))
}

func (xmlBackend) escape(w *Writer, text string) {
	xmlEscape(w, text)
}

//nolint:gochecknoglobals // Read-only lookup table.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(w *Writer, text string) {
	w.write(xmlEscaper.Replace(text))
}
