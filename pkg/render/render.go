// Package render walks a document tree and writes it in one of several
// backends, dispatching extension nodes to their owning extension.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/langdetect"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// UnknownMarker is written in place of nodes whose kind no extension owns.
const UnknownMarker = "<unknown>"

// ErrNilDocument is returned when rendering without a document.
var ErrNilDocument = errors.New("render: nil document")

// Options configures rendering.
type Options struct {
	// Flags are the option bits shared with the parser.
	Flags inline.Options

	// Width wraps paragraphs in the commonmark and plaintext backends.
	// Zero disables wrapping.
	Width int

	// DetectLanguage guesses a language for html and commonmark code blocks
	// without an info string.
	DetectLanguage bool
}

// backend is implemented once per output format.
type backend interface {
	// begin and end frame the whole document.
	begin(w *Writer)
	end(w *Writer)

	// node renders a base node. It may return mdast.ErrSkipChildren.
	node(w *Writer, id mdast.NodeID, n *mdast.Node, entering bool) error

	// extension dispatches an extension node to its renderer, if any.
	extension(w *Writer, reg *inline.Registration, id mdast.NodeID, entering bool)

	// escape writes text escaped for the backend.
	escape(w *Writer, text string)
}

func newBackend(format Format) (backend, error) {
	switch format {
	case FormatXML:
		return &xmlBackend{}, nil
	case FormatHTML:
		return &htmlBackend{}, nil
	case FormatLaTeX:
		return &latexBackend{}, nil
	case FormatMan:
		return &manBackend{}, nil
	case FormatCommonMark:
		return &commonmarkBackend{}, nil
	case FormatPlainText:
		return &plaintextBackend{}, nil
	default:
		return nil, fmt.Errorf("render: unsupported format %q", format)
	}
}

// Render writes doc to out in the given format. A nil host renders every
// extension node as UnknownMarker.
func Render(out io.Writer, doc *mdast.Document, host *inline.Host, format Format, opts Options) error {
	if doc == nil || doc.Tree == nil {
		return ErrNilDocument
	}

	be, err := newBackend(format)
	if err != nil {
		return err
	}

	if host == nil {
		host = inline.NewHost()
		host.Freeze()
	}

	w := newWriter(doc, host, format, opts, be)

	be.begin(w)
	if err := mdast.Walk(doc.Tree, doc.Root, w.enter, w.leave); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	be.end(w)

	if _, err := out.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("write %s output: %w", format, err)
	}

	return nil
}

func (w *Writer) enter(id mdast.NodeID, n *mdast.Node) error {
	return w.visit(id, n, true)
}

// leave closes n. Leaf kinds are written whole on enter.
func (w *Writer) leave(id mdast.NodeID, n *mdast.Node) error {
	if isLeaf(n.Kind) {
		return nil
	}
	err := w.visit(id, n, false)
	if errors.Is(err, mdast.ErrSkipChildren) {
		return nil
	}
	return err
}

func (w *Writer) visit(id mdast.NodeID, n *mdast.Node, entering bool) error {
	if n.Kind.IsBase() {
		return w.be.node(w, id, n, entering)
	}

	reg, ok := w.host.ByKind(n.Kind)
	if !ok || reg.Handle.Kind != n.Kind {
		if entering {
			w.EmitText(id, UnknownMarker)
		}
		return nil
	}

	w.be.extension(w, reg, id, entering)

	return nil
}

func isLeaf(kind mdast.NodeKind) bool {
	switch kind {
	case mdast.NodeCodeBlock, mdast.NodeHTMLBlock, mdast.NodeThematicBreak,
		mdast.NodeText, mdast.NodeSoftBreak, mdast.NodeHardBreak,
		mdast.NodeCodeSpan, mdast.NodeHTMLInline:
		return true
	default:
		return false
	}
}

// isTight reports whether the paragraph id sits directly in an item of a
// tight list.
func (w *Writer) isTight(id mdast.NodeID) bool {
	n := w.Node(id)
	if n == nil {
		return false
	}
	item := w.Node(n.Parent)
	if item == nil || item.Kind != mdast.NodeListItem {
		return false
	}
	list := w.Node(item.Parent)
	if list == nil {
		return false
	}
	attrs, ok := list.Payload.(*mdast.ListAttrs)
	return ok && attrs.Tight
}

// listAttrs returns the attributes of the list owning item id.
func (w *Writer) listAttrs(item mdast.NodeID) *mdast.ListAttrs {
	n := w.Node(item)
	if n == nil {
		return &mdast.ListAttrs{}
	}
	if list := w.Node(n.Parent); list != nil {
		if attrs, ok := list.Payload.(*mdast.ListAttrs); ok {
			return attrs
		}
	}
	return &mdast.ListAttrs{}
}

// itemIndex returns the zero-based position of a list item among its siblings.
func (w *Writer) itemIndex(item mdast.NodeID) int {
	index := 0
	for n := w.Node(item); n != nil && n.Prev != mdast.NilNode; n = w.Node(n.Prev) {
		index++
	}
	return index
}

func literalString(n *mdast.Node) string {
	switch payload := n.Payload.(type) {
	case *mdast.Literal:
		return string(payload.Text)
	case *mdast.CodeBlockAttrs:
		return string(payload.Text)
	default:
		return ""
	}
}

func headingLevel(n *mdast.Node) int {
	if attrs, ok := n.Payload.(*mdast.HeadingAttrs); ok && attrs.Level > 0 {
		return attrs.Level
	}
	return 1
}

func codeBlockAttrs(n *mdast.Node) *mdast.CodeBlockAttrs {
	if attrs, ok := n.Payload.(*mdast.CodeBlockAttrs); ok {
		return attrs
	}
	return &mdast.CodeBlockAttrs{}
}

// codeLanguage returns the block's language, guessing one when the block has
// no info string and detection is enabled.
func codeLanguage(w *Writer, attrs *mdast.CodeBlockAttrs) string {
	if lang := attrs.Language(); lang != "" || !w.opts.DetectLanguage {
		return lang
	}
	lang, _ := langdetect.Detect(attrs.Text)
	return lang
}

func emphasisMarker(n *mdast.Node) byte {
	if d, ok := n.Payload.(*mdast.Delimited); ok && d.Marker != 0 {
		return d.Marker
	}
	return '*'
}
