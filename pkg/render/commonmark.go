package render

import (
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// commonmarkSpecials are escaped wherever they appear in text.
const commonmarkSpecials = "\\`*_[]<>&"

// commonmarkLineStart are escaped at the start of a line, where they would
// open a block.
const commonmarkLineStart = "#+-=>"

// commonmarkBackend writes markdown that parses back to the same tree.
type commonmarkBackend struct {
	inHeading bool
}

func (*commonmarkBackend) begin(*Writer) {}

func (*commonmarkBackend) end(w *Writer) {
	w.cr()
}

//nolint:gocognit,maintidx // one case per node kind
func (b *commonmarkBackend) node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error {
	switch n.Kind {
	case mdast.NodeDocument:

	case mdast.NodeBlockquote:
		if !entering {
			w.popPrefix()
			return nil
		}
		w.blockStart(n)
		w.pushPrefix("> ")
		switch {
		case !w.atLineStart:
			w.write("> ")
		case !n.HasChildren():
			w.write("\n")
		}

	case mdast.NodeList:
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
		if !entering {
			b.inHeading = false
			w.cr()
			return nil
		}
		w.blockStart(n)
		w.write(strings.Repeat("#", headingLevel(n)) + " ")
		b.inHeading = true

	case mdast.NodeCodeBlock:
		w.blockStart(n)
		b.codeBlock(w, n)
		return mdast.ErrSkipChildren

	case mdast.NodeHTMLBlock:
		w.blockStart(n)
		w.write(literalString(n))
		w.cr()
		return mdast.ErrSkipChildren

	case mdast.NodeThematicBreak:
		w.blockStart(n)
		w.write("***\n")

	case mdast.NodeParagraph:
		if entering {
			w.blockStart(n)
			w.beginWrap()
		} else {
			w.endWrap()
			w.cr()
		}

	case mdast.NodeText:
		if entering {
			b.escape(w, literalString(n))
		}

	case mdast.NodeHardBreak:
		if entering {
			w.write("\\\n")
		}

	case mdast.NodeSoftBreak:
		if !entering {
			return nil
		}
		switch {
		case b.inHeading:
			w.write(" ")
		case w.Options().Has(inline.OptHardBreaks):
			w.write("\\\n")
		case w.Options().Has(inline.OptNoBreaks), w.wrapping():
			w.write(" ")
		default:
			w.write("\n")
		}

	case mdast.NodeCodeSpan:
		if entering {
			writeCodeSpan(w, literalString(n))
		}

	case mdast.NodeHTMLInline:
		if entering {
			w.write(literalString(n))
		}

	case mdast.NodeEmphasis:
		w.writeByte(emphasisMarker(n))

	case mdast.NodeStrong:
		marker := string(emphasisMarker(n))
		w.write(marker + marker)
	}

	return nil
}

func (*commonmarkBackend) codeBlock(w *Writer, n *mdast.Node) {
	attrs := codeBlockAttrs(n)
	text := string(attrs.Text)

	fenceChar := byte('`')
	if strings.IndexByte(attrs.Info, '`') >= 0 {
		fenceChar = '~'
	}
	fence := strings.Repeat(string(fenceChar), max(3, longestRun(text, fenceChar)+1))

	info := attrs.Info
	if info == "" {
		info = codeLanguage(w, attrs)
	}
	w.write(fence + info + "\n")
	w.write(text)
	w.cr()
	w.write(fence + "\n")
}

// writeCodeSpan wraps text in a backtick fence longer than any run inside it.
func writeCodeSpan(w *Writer, text string) {
	fence := strings.Repeat("`", longestRun(text, '`')+1)
	pad := ""
	if text != "" && (text[0] == '`' || text[len(text)-1] == '`' ||
		(text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "")) {
		pad = " "
	}
	w.write(fence + pad + text + pad + fence)
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

func (*commonmarkBackend) extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool) {
	if r, ok := reg.Extension.(CommonMarkRenderer); ok {
		r.RenderCommonMark(w, reg.Handle, id, entering)
	}
}

// escape backslash-escapes markdown syntax and every extension trigger so
// the text reads back as text.
func (*commonmarkBackend) escape(w *Writer, text string) {
	var sb strings.Builder
	atLineStart := w.atLineStart
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case strings.IndexByte(commonmarkSpecials, c) >= 0, w.host.IsTrigger(c):
			sb.WriteByte('\\')
		case atLineStart && strings.IndexByte(commonmarkLineStart, c) >= 0:
			sb.WriteByte('\\')
		case atLineStart && isDigit(c):
			j := i
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '.' || text[j] == ')') {
				sb.WriteString(text[i:j])
				sb.WriteByte('\\')
				c = text[j]
				i = j
			}
		}
		sb.WriteByte(c)
		atLineStart = c == '\n'
	}
	w.write(sb.String())
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
