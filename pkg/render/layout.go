package render

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// minWrapWidth keeps deeply nested paragraphs readable when the prefix eats
// most of the configured width.
const minWrapWidth = 20

// Block layout shared by the source-like backends (commonmark, plaintext).

// blockStart separates block n from the previous sibling. The first block
// inside a list item or blockquote continues the marker line.
func (w *Writer) blockStart(n *mdast.Node) {
	if n.Prev == mdast.NilNode {
		parent := w.Node(n.Parent)
		if parent != nil {
			switch parent.Kind {
			case mdast.NodeListItem, mdast.NodeBlockquote, mdast.NodeList:
				return
			}
		}
		w.cr()
		return
	}

	if w.inTightList(n) {
		w.cr()
		return
	}
	w.blankLine()
}

// inTightList reports whether n is an item of a tight list or a block
// directly inside one.
func (w *Writer) inTightList(n *mdast.Node) bool {
	item := n
	if n.Kind != mdast.NodeListItem {
		item = w.Node(n.Parent)
		if item == nil || item.Kind != mdast.NodeListItem {
			return false
		}
	}
	list := w.Node(item.Parent)
	if list == nil {
		return false
	}
	attrs, ok := list.Payload.(*mdast.ListAttrs)
	return ok && attrs.Tight
}

// itemMarker returns the list marker for item, including its trailing space.
func (w *Writer) itemMarker(item mdast.NodeID) string {
	attrs := w.listAttrs(item)
	if attrs.Ordered {
		delim := attrs.Delimiter
		if delim == 0 {
			delim = '.'
		}
		return strconv.Itoa(attrs.Start+w.itemIndex(item)) + string(delim) + " "
	}

	bullet := attrs.BulletMarker
	if bullet == 0 {
		bullet = '-'
	}
	return string(bullet) + " "
}

// openItem writes the item marker and indents the item's continuation lines.
func (w *Writer) openItem(id mdast.NodeID, n *mdast.Node) {
	w.blockStart(n)
	marker := w.itemMarker(id)
	if n.HasChildren() {
		w.write(marker)
	} else {
		w.write(strings.TrimRight(marker, " "))
	}
	w.pushPrefix(strings.Repeat(" ", len(marker)))
}

func (w *Writer) wrapping() bool {
	return w.opts.Width > 0
}

// beginWrap diverts paragraph output so it can be wrapped as a whole.
func (w *Writer) beginWrap() {
	if w.wrapping() {
		w.beginCapture()
	}
}

// endWrap wraps the diverted paragraph to the width left after the prefix.
func (w *Writer) endWrap() {
	if !w.wrapping() {
		return
	}
	text := w.endCapture()
	limit := w.opts.Width - len(strings.Join(w.prefix, ""))
	if limit < minWrapWidth {
		limit = minWrapWidth
	}
	w.write(wordwrap.String(text, limit))
}
