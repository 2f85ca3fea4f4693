package render

import (
	"bytes"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// Writer accumulates backend output. Extensions write through EmitLiteral,
// EmitText and EmitLineBreak only.
type Writer struct {
	buf    bytes.Buffer
	format Format
	opts   Options
	doc    *mdast.Document
	host   *inline.Host
	be     backend

	atLineStart bool
	newlines    int
	prefix      []string
	depth       int

	// captures holds output diverted while a paragraph is being wrapped.
	captures []*capture
}

type capture struct {
	buf         bytes.Buffer
	atLineStart bool
	newlines    int
}

func newWriter(doc *mdast.Document, host *inline.Host, format Format, opts Options, be backend) *Writer {
	return &Writer{
		format:      format,
		opts:        opts,
		doc:         doc,
		host:        host,
		be:          be,
		atLineStart: true,
		newlines:    2,
	}
}

// EmitLiteral writes text verbatim.
func (w *Writer) EmitLiteral(_ mdast.NodeID, text string) {
	w.write(text)
}

// EmitText writes text escaped for the active backend.
func (w *Writer) EmitText(_ mdast.NodeID, text string) {
	w.be.escape(w, text)
}

// EmitLineBreak ends the current output line unless it is already empty.
func (w *Writer) EmitLineBreak(_ mdast.NodeID) {
	w.cr()
}

// Options returns the option bits the document was rendered with.
func (w *Writer) Options() inline.Options {
	return w.opts.Flags
}

// Format returns the active backend.
func (w *Writer) Format() Format {
	return w.format
}

// Tree returns the tree being rendered.
func (w *Writer) Tree() *mdast.Tree {
	return w.doc.Tree
}

// Node returns the node for id.
func (w *Writer) Node(id mdast.NodeID) *mdast.Node {
	return w.doc.Tree.Node(id)
}

// Host returns the extension host.
func (w *Writer) Host() *inline.Host {
	return w.host
}

func (w *Writer) out() *bytes.Buffer {
	if n := len(w.captures); n > 0 {
		return &w.captures[n-1].buf
	}
	return &w.buf
}

// write emits s, inserting the line prefix after every newline.
func (w *Writer) write(s string) {
	out := w.out()

	for len(s) > 0 {
		if w.atLineStart && len(w.prefix) > 0 && len(w.captures) == 0 {
			prefix := strings.Join(w.prefix, "")
			if s[0] == '\n' {
				prefix = strings.TrimRight(prefix, " ")
			}
			out.WriteString(prefix)
		}

		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out.WriteString(s)
			w.atLineStart = false
			w.newlines = 0
			return
		}

		out.WriteString(s[:i+1])
		if i == 0 && w.atLineStart {
			w.newlines++
		} else {
			w.newlines = 1
		}
		w.atLineStart = true
		s = s[i+1:]
	}
}

func (w *Writer) writeByte(c byte) {
	w.write(string(c))
}

// cr ends the current line.
func (w *Writer) cr() {
	if !w.atLineStart {
		w.write("\n")
	}
}

// blankLine ensures the output ends with an empty line, except at the start.
func (w *Writer) blankLine() {
	w.cr()
	if w.newlines < 2 {
		w.write("\n")
	}
}

func (w *Writer) pushPrefix(p string) {
	w.prefix = append(w.prefix, p)
}

func (w *Writer) popPrefix() {
	if len(w.prefix) > 0 {
		w.prefix = w.prefix[:len(w.prefix)-1]
	}
}

// beginCapture diverts output, without line prefixes, until endCapture.
func (w *Writer) beginCapture() {
	w.captures = append(w.captures, &capture{atLineStart: w.atLineStart, newlines: w.newlines})
}

// endCapture stops diverting output and restores the line state from before
// the capture began.
func (w *Writer) endCapture() string {
	n := len(w.captures)
	if n == 0 {
		return ""
	}
	c := w.captures[n-1]
	captured := c.buf.String()
	w.atLineStart, w.newlines = c.atLineStart, c.newlines
	w.captures = w.captures[:n-1]
	return captured
}
