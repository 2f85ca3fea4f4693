package render

import (
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// Extensions opt into a backend by implementing its renderer interface.
// Each method is called on node enter and again on exit. An extension
// without a renderer for the active backend emits nothing for its node;
// the node's children are still rendered.

// XMLRenderer renders extension nodes in the xml backend. Without it, the
// node is written as an element named after its type name.
type XMLRenderer interface {
	RenderXML(w *Writer, self inline.Handle, node mdast.NodeID, entering bool)
}

// HTMLRenderer renders extension nodes in the html backend.
type HTMLRenderer interface {
	RenderHTML(w *Writer, self inline.Handle, node mdast.NodeID, entering bool)
}

// LaTeXRenderer renders extension nodes in the latex backend.
type LaTeXRenderer interface {
	RenderLaTeX(w *Writer, self inline.Handle, node mdast.NodeID, entering bool)
}

// ManRenderer renders extension nodes in the man backend.
type ManRenderer interface {
	RenderMan(w *Writer, self inline.Handle, node mdast.NodeID, entering bool)
}

// CommonMarkRenderer renders extension nodes back to source syntax.
type CommonMarkRenderer interface {
	RenderCommonMark(w *Writer, self inline.Handle, node mdast.NodeID, entering bool)
}

// PlainTextRenderer renders extension nodes in the plaintext backend.
type PlainTextRenderer interface {
	RenderPlainText(w *Writer, self inline.Handle, node mdast.NodeID, entering bool)
}

// Supports reports whether ext has a renderer for format.
func Supports(ext inline.Extension, format Format) bool {
	switch format {
	case FormatXML:
		return true
	case FormatHTML:
		_, ok := ext.(HTMLRenderer)
		return ok
	case FormatLaTeX:
		_, ok := ext.(LaTeXRenderer)
		return ok
	case FormatMan:
		_, ok := ext.(ManRenderer)
		return ok
	case FormatCommonMark:
		_, ok := ext.(CommonMarkRenderer)
		return ok
	case FormatPlainText:
		_, ok := ext.(PlainTextRenderer)
		return ok
	default:
		return false
	}
}

// SupportedFormats lists the backends ext renders in.
func SupportedFormats(ext inline.Extension) []Format {
	var formats []Format
	for _, format := range Formats() {
		if Supports(ext, format) {
			formats = append(formats, format)
		}
	}
	return formats
}
